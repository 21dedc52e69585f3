package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/punchclock/punchclock/internal/auth"
	"github.com/punchclock/punchclock/internal/middleware"
	"github.com/punchclock/punchclock/internal/model"
	"github.com/punchclock/punchclock/internal/repository"
)

// Auth service errors.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrMissingName        = errors.New("name is required")
	ErrMissingEmail       = errors.New("email is required")
	ErrInvalidEmail       = errors.New("email address is invalid")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
)

// UserStore is the persistence surface for accounts. Implemented by
// *repository.Repository and by the in-memory test store.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// AuthService handles registration, login and token issuance.
type AuthService struct {
	store      UserStore
	tokens     *auth.TokenManager
	bcryptCost int
	logger     *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(store UserStore, tokens *auth.TokenManager, bcryptCost int, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:      store,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// RegisterInput defines input for account registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new account. Email matching is case-sensitive and
// uniqueness is enforced by the store.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)

	if name == "" {
		return nil, ErrMissingName
	}
	if err := middleware.ValidateName(name); err != nil {
		return nil, err
	}
	if email == "" {
		return nil, ErrMissingEmail
	}
	if err := middleware.ValidateEmail(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(input.Password) < auth.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           ulid.Make().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return user, nil
}

// LoginInput defines input for login.
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput carries the authenticated user and their bearer token.
type LoginOutput struct {
	User  *model.User
	Token string
}

// Login verifies credentials and issues a bearer token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.VerifyPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{User: user, Token: token}, nil
}

// GetUser returns the account for an authenticated user id.
func (s *AuthService) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
