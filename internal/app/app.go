package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"questhire/internal/auth"
	"questhire/internal/questions"
	"questhire/internal/storage"
	"questhire/internal/store"
	"questhire/pkg/domain"
)

const (
	defaultFetchTimeout     = 8 * time.Second
	defaultFetchConcurrency = 4

	// Sessions stay retrievable for a grace period past the test
	// duration, then expire.
	sessionGrace = 15 * time.Minute
)

// Config holds runtime configuration for the application core.
type Config struct {
	Store            store.Store
	Tokens           store.TokenStore
	Sessions         store.SessionStore
	Questions        *questions.Client
	Catalog          *questions.Catalog
	Resumes          storage.ObjectStore
	FetchTimeout     time.Duration
	FetchConcurrency int
}

// App wires storage, auth and the question source into the business
// operations exposed over HTTP.
type App struct {
	store            store.Store
	tokens           store.TokenStore
	sessions         store.SessionStore
	questions        *questions.Client
	catalog          *questions.Catalog
	resumes          storage.ObjectStore
	fetchTimeout     time.Duration
	fetchConcurrency int
}

// New constructs the application core.
func New(cfg Config) (*App, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("token store is required")
	}
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if cfg.Questions == nil {
		return nil, fmt.Errorf("question source client is required")
	}
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = questions.DefaultCatalog()
	}
	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}
	fetchConcurrency := cfg.FetchConcurrency
	if fetchConcurrency <= 0 {
		fetchConcurrency = defaultFetchConcurrency
	}
	return &App{
		store:            cfg.Store,
		tokens:           cfg.Tokens,
		sessions:         cfg.Sessions,
		questions:        cfg.Questions,
		catalog:          catalog,
		resumes:          cfg.Resumes,
		fetchTimeout:     fetchTimeout,
		fetchConcurrency: fetchConcurrency,
	}, nil
}

// RegisterInput carries a registration request.
type RegisterInput struct {
	Email       string
	Password    string
	Name        string
	Role        string
	CompanyName string
}

// Register creates a user and issues a session token.
func (a *App) Register(in RegisterInput) (domain.User, string, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || in.Password == "" {
		return domain.User{}, "", validationErrorf("email and password are required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return domain.User{}, "", validationErrorf("name is required")
	}
	role, err := parseRole(in.Role)
	if err != nil {
		return domain.User{}, "", err
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return domain.User{}, "", validationErrorf("%s", err.Error())
	}
	exists, err := a.store.HasUserEmail(email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("check email: %w", err)
	}
	if exists {
		return domain.User{}, "", ErrEmailAlreadyExists
	}
	passwordHash, err := auth.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         strings.TrimSpace(in.Name),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if role == domain.RoleCompany {
		user.CompanyName = strings.TrimSpace(in.CompanyName)
	}
	if err := a.store.SaveUser(user); err != nil {
		return domain.User{}, "", fmt.Errorf("save user: %w", err)
	}
	token, err := a.tokens.NewToken(user.ID, user.Role)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// Login validates credentials and issues a session token.
func (a *App) Login(email, password string) (domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, ok, err := a.store.GetUserByEmail(email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("fetch user: %w", err)
	}
	if !ok {
		return domain.User{}, "", ErrInvalidCredentials
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return domain.User{}, "", ErrInvalidCredentials
	}
	token, err := a.tokens.NewToken(user.ID, user.Role)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// UserFromToken resolves a user from a bearer token.
func (a *App) UserFromToken(token string) (domain.User, bool) {
	uid, ok, err := a.tokens.GetUserIDByToken(token)
	if err != nil || !ok {
		return domain.User{}, false
	}
	user, found, err := a.store.GetUserByID(uid)
	if err != nil || !found {
		return domain.User{}, false
	}
	return user, true
}

// Topics returns the known topic names in catalog order.
func (a *App) Topics() []string {
	return a.catalog.Names()
}

func parseRole(raw string) (domain.UserRole, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(domain.RoleCandidate):
		return domain.RoleCandidate, nil
	case string(domain.RoleCompany):
		return domain.RoleCompany, nil
	case string(domain.RoleAdmin):
		return domain.RoleAdmin, nil
	default:
		return "", validationErrorf("invalid role %q", raw)
	}
}
