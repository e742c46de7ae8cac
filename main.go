package main

import (
	"context"
	"log"
	"os"
	"time"

	"foodie-backend/cmd"
	"foodie-backend/internal/credential"
	"foodie-backend/internal/data/repository"
	"foodie-backend/internal/token"
	"foodie-backend/internal/usecase"
	"foodie-backend/internal/wire"
	"foodie-backend/pkg/cache"
	"foodie-backend/pkg/database"
	"foodie-backend/pkg/messaging"
	"foodie-backend/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if config.Database.AutoMigrate {
		if err := database.Migrate(context.Background(), db); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
		logger.Info("Database schema applied")
	}

	repos := repository.NewRepository(db, logger)

	pruneSessions(repos, logger)

	// Redis backs login throttling and reset tokens; both degrade without it
	rdb, err := cache.InitRedis(config.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, login throttling and password reset disabled", zap.Error(err))
	} else {
		defer rdb.Close()
	}

	events := newPublisher(config, logger)
	defer events.Close()

	hasher, err := utils.NewPasswordHasher(config.Password)
	if err != nil {
		logger.Fatal("Invalid password hasher", zap.Error(err))
	}

	signer := token.NewSigner(config.JWT.Secret, config.JWT.Issuer, config.JWT.AccessTTL)
	issuer := token.NewIssuer(signer, repos.Session, repos.Account, config.JWT.RefreshTTL, logger)

	policy := credential.DefaultPolicy()
	policy.MinLength = config.Password.MinLength
	policy.MaxSimilarity = config.Password.MaxSimilarity

	// Wire all dependencies
	app := wire.Wiring(usecase.Dependencies{
		Repo:      repos,
		Issuer:    issuer,
		Hasher:    hasher,
		Passwords: credential.NewValidator(policy),
		Limiter:   cache.NewLoginLimiter(rdb, config.Login.MaxAttempts, config.Login.Lockout),
		Resets:    cache.NewResetTokenStore(rdb),
		Events:    events,
		Config:    config,
	}, logger)

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
		os.Exit(1)
	}
}

func pruneSessions(repos *repository.Repository, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := repos.Session.CleanExpired(ctx)
	if err != nil {
		logger.Warn("Failed to prune expired sessions", zap.Error(err))
		return
	}
	logger.Info("Expired sessions pruned", zap.Int64("count", n))
}

func newPublisher(config *utils.Config, logger *zap.Logger) messaging.EventPublisher {
	if config.AMQP.URL == "" {
		logger.Info("AMQP_URL not set, events go to the log")
		return messaging.NewLogPublisher(logger)
	}

	pub, err := messaging.NewRabbitPublisher(config.AMQP.URL, config.AMQP.Exchange)
	if err != nil {
		logger.Warn("RabbitMQ unavailable, events go to the log", zap.Error(err))
		return messaging.NewLogPublisher(logger)
	}
	return pub
}
