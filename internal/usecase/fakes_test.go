package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"foodie-backend/internal/credential"
	"foodie-backend/internal/data/entity"
	"foodie-backend/internal/data/repository"
	"foodie-backend/internal/token"
	"foodie-backend/pkg/cache"
	"foodie-backend/pkg/messaging"
	"foodie-backend/pkg/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"go.uber.org/zap"
)

// ==================== STORE ====================

var errProfileWrite = errors.New("profile write failed")

type memStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*entity.Account
	profiles map[uuid.UUID]*entity.Profile
	sessions map[uuid.UUID]*entity.Session

	// forces Account.Create to report a unique violation
	duplicateOnCreate bool
	// fails every profile write
	failProfileWrites bool
}

func newMemStore() *memStore {
	return &memStore{
		accounts: map[uuid.UUID]*entity.Account{},
		profiles: map[uuid.UUID]*entity.Profile{},
		sessions: map[uuid.UUID]*entity.Session{},
	}
}

func (m *memStore) accountByEmail(email string) *entity.Account {
	for _, a := range m.accounts {
		if strings.EqualFold(a.Email, email) {
			return a
		}
	}
	return nil
}

func (m *memStore) countAccounts(email string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, a := range m.accounts {
		if strings.EqualFold(a.Email, email) {
			n++
		}
	}
	return n
}

func (m *memStore) setActive(id uuid.UUID, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[id].IsActive = active
}

func (m *memStore) dropProfile(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.profiles, id)
}

func (m *memStore) sessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *memStore) account(id uuid.UUID) *entity.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accounts[id]
}

func (m *memStore) profile(id uuid.UUID) *entity.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profiles[id]
}

func cloneAccount(a *entity.Account) *entity.Account {
	cp := *a
	return &cp
}

func cloneProfile(p *entity.Profile) *entity.Profile {
	cp := *p
	if p.Driver != nil {
		d := *p.Driver
		cp.Driver = &d
	}
	if p.Restaurant != nil {
		r := *p.Restaurant
		cp.Restaurant = &r
	}
	return &cp
}

// ==================== ACCOUNTS ====================

type fakeAccounts struct{ *memStore }

func (f fakeAccounts) Create(_ context.Context, account *entity.Account, profile *entity.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.duplicateOnCreate || f.accountByEmail(account.Email) != nil {
		return repository.ErrDuplicateEmail
	}
	f.accounts[account.ID] = cloneAccount(account)
	f.profiles[account.ID] = cloneProfile(profile)
	return nil
}

func (f fakeAccounts) FindByID(_ context.Context, id uuid.UUID) (*entity.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.accounts[id]; ok {
		return cloneAccount(a), nil
	}
	return nil, nil
}

func (f fakeAccounts) FindByEmail(_ context.Context, email string) (*entity.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a := f.accountByEmail(email); a != nil {
		return cloneAccount(a), nil
	}
	return nil, nil
}

func (f fakeAccounts) EmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accountByEmail(email) != nil, nil
}

func (f fakeAccounts) Update(_ context.Context, account *entity.Account, profile *entity.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[account.ID]; !ok {
		return repository.ErrNotFound
	}
	if profile != nil {
		if f.failProfileWrites {
			return errProfileWrite
		}
		if _, ok := f.profiles[profile.AccountID]; !ok {
			return repository.ErrNotFound
		}
		f.profiles[profile.AccountID] = cloneProfile(profile)
	}
	f.accounts[account.ID] = cloneAccount(account)
	return nil
}

func (f fakeAccounts) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.PasswordHash = hash
	return nil
}

// ==================== PROFILES ====================

type fakeProfiles struct{ *memStore }

func (f fakeProfiles) FindByAccountID(_ context.Context, id uuid.UUID) (*entity.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.profiles[id]; ok {
		return cloneProfile(p), nil
	}
	return nil, nil
}

func (f fakeProfiles) Create(_ context.Context, p *entity.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failProfileWrites {
		return errProfileWrite
	}
	if _, ok := f.profiles[p.AccountID]; !ok {
		f.profiles[p.AccountID] = cloneProfile(p)
	}
	return nil
}

// ==================== SESSIONS ====================

type fakeSessions struct{ *memStore }

func (f fakeSessions) Create(_ context.Context, s *entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.sessions[s.ID] = &cp
	return nil
}

func (f fakeSessions) FindByTokenHash(_ context.Context, hash string) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.TokenHash == hash {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f fakeSessions) FindByID(_ context.Context, id uuid.UUID) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (f fakeSessions) Revoke(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok || s.RevokedAt != nil {
		return repository.ErrNotFound
	}
	now := time.Now()
	s.RevokedAt = &now
	return nil
}

func (f fakeSessions) RevokeAllForAccount(_ context.Context, accountID, keep uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	now := time.Now()
	for _, s := range f.sessions {
		if s.AccountID == accountID && s.ID != keep && s.RevokedAt == nil {
			s.RevokedAt = &now
			n++
		}
	}
	return n, nil
}

func (f fakeSessions) CleanExpired(context.Context) (int64, error) { return 0, nil }

// ==================== EVENTS ====================

type recordingPublisher struct {
	mu         sync.Mutex
	registered []messaging.AccountRegistered
	resets     []messaging.PasswordResetRequested
}

func (p *recordingPublisher) PublishAccountRegistered(_ context.Context, evt messaging.AccountRegistered) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.registered = append(p.registered, evt)
	return nil
}

func (p *recordingPublisher) PublishPasswordResetRequested(_ context.Context, evt messaging.PasswordResetRequested) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resets = append(p.resets, evt)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

// ==================== HARNESS ====================

const maxLoginAttempts = 3

type harness struct {
	svc    *Service
	store  *memStore
	events *recordingPublisher
	issuer token.Issuer
	redis  *miniredis.Miniredis
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := newMemStore()
	repo := &repository.Repository{
		Account: fakeAccounts{store},
		Profile: fakeProfiles{store},
		Session: fakeSessions{store},
	}

	log := zap.NewNop()
	signer := token.NewSigner("usecase-test-secret", "foodie-test", 15*time.Minute)
	issuer := token.NewIssuer(signer, repo.Session, repo.Account, 24*time.Hour, log)
	events := &recordingPublisher{}

	cfg := &utils.Config{
		Reset: utils.ResetConfig{TokenTTL: time.Hour, URLBase: "https://app.example.com/reset-password"},
	}

	svc := NewService(Dependencies{
		Repo:      repo,
		Issuer:    issuer,
		Hasher:    utils.NewBcryptHasher(bcrypt.MinCost),
		Passwords: credential.NewValidator(credential.DefaultPolicy()),
		Limiter:   cache.NewLoginLimiter(rdb, maxLoginAttempts, time.Minute),
		Resets:    cache.NewResetTokenStore(rdb),
		Events:    events,
		Config:    cfg,
	}, log)

	return &harness{svc: svc, store: store, events: events, issuer: issuer, redis: mr}
}
