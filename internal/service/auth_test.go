package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/punchclock/punchclock/internal/auth"
	"github.com/punchclock/punchclock/internal/testutil"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	store := testutil.NewMemStore()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	// MinCost keeps bcrypt fast in tests.
	return NewAuthService(store, tokens, 4, nil)
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == "" {
		t.Error("expected generated user ID")
	}
	if user.PasswordHash == "secret1" {
		t.Error("password must be hashed")
	}

	out, err := svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if out.Token == "" {
		t.Error("expected bearer token")
	}
	if out.User.ID != user.ID {
		t.Error("login must return the registered user")
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input RegisterInput
		want  error
	}{
		{"missing name", RegisterInput{Email: "a@b.co", Password: "secret1"}, ErrMissingName},
		{"missing email", RegisterInput{Name: "A", Password: "secret1"}, ErrMissingEmail},
		{"malformed email", RegisterInput{Name: "A", Email: "not-an-email", Password: "secret1"}, ErrInvalidEmail},
		{"short password", RegisterInput{Name: "A", Email: "a@b.co", Password: "12345"}, ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tt.input); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	input := RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "secret1"}
	if _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, input); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Login_BadCredentialsIndistinguishable(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, errUnknown := svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret1"})
	_, errWrongPw := svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "wrong-pw"})

	if !errors.Is(errUnknown, ErrInvalidCredentials) || !errors.Is(errWrongPw, ErrInvalidCredentials) {
		t.Errorf("unknown email and wrong password must both return ErrInvalidCredentials, got %v and %v",
			errUnknown, errWrongPw)
	}
}

func TestAuthService_GetUser(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := svc.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Email != "alice@example.com" {
		t.Errorf("unexpected email %q", got.Email)
	}

	if _, err := svc.GetUser(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
