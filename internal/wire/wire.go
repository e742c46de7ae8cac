package wire

import (
	"net/http"

	"foodie-backend/internal/adaptor"
	"foodie-backend/internal/usecase"
	"foodie-backend/pkg/metrics"
	"foodie-backend/pkg/middleware"
	"foodie-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the wired HTTP application.
type App struct {
	Router *chi.Mux
}

// Wiring builds services, handlers and routes from the injected dependencies.
func Wiring(deps usecase.Dependencies, logger *zap.Logger) *App {
	service := usecase.NewService(deps, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, deps, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(handler *adaptor.Handler, deps usecase.Dependencies, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(deps.Config.App.CORSOrigins))

	r.Route("/api/v1/auth", func(r chi.Router) {
		wireAuth(r, handler, deps, logger)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", map[string]string{"status": "healthy"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})

	return r
}
