package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pairlink/pairlink-go/internal/crypto"
	"github.com/pairlink/pairlink-go/internal/model"
	"github.com/pairlink/pairlink-go/internal/repository"
)

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *model.RegisterRequest)
		wantMsg string
	}{
		{name: "empty email", mutate: func(r *model.RegisterRequest) { r.Email = "" }, wantMsg: "email is required"},
		{name: "malformed email", mutate: func(r *model.RegisterRequest) { r.Email = "nope" }, wantMsg: "email must be a valid email address"},
		{name: "empty password", mutate: func(r *model.RegisterRequest) { r.Password = "" }, wantMsg: "password is required"},
		{name: "short password", mutate: func(r *model.RegisterRequest) { r.Password = "12345" }, wantMsg: "password must be at least 6 characters"},
		{name: "missing name", mutate: func(r *model.RegisterRequest) { r.Name = "  " }, wantMsg: "name is required"},
		{name: "missing age", mutate: func(r *model.RegisterRequest) { r.Age = 0 }, wantMsg: "age is required"},
		{name: "age too low", mutate: func(r *model.RegisterRequest) { r.Age = 17 }, wantMsg: "age must be between 18 and 100"},
		{name: "age too high", mutate: func(r *model.RegisterRequest) { r.Age = 101 }, wantMsg: "age must be between 18 and 100"},
		{name: "bad gender", mutate: func(r *model.RegisterRequest) { r.Gender = "robot" }, wantMsg: "gender must be one of: male female other"},
		{name: "missing location", mutate: func(r *model.RegisterRequest) { r.Location = "" }, wantMsg: "location is required"},
		{name: "long password", mutate: func(r *model.RegisterRequest) { r.Password = strings.Repeat("p", 73) }, wantMsg: "password must be at most 72 characters"},
		{name: "multibyte password over bcrypt limit", mutate: func(r *model.RegisterRequest) { r.Password = strings.Repeat("é", 40) }, wantMsg: "password must be at most 72 bytes"},
		{name: "long name", mutate: func(r *model.RegisterRequest) { r.Name = strings.Repeat("n", 101) }, wantMsg: "name must be at most 100 characters"},
		{name: "long location", mutate: func(r *model.RegisterRequest) { r.Location = strings.Repeat("l", 256) }, wantMsg: "location must be at most 255 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// nil stores: validation must fail before any store call
			svc := NewAuthService(repository.NewUserRepository(nil), repository.NewProfileRepository(nil), "test-secret", time.Hour)
			req := validRegistration("x@example.com")
			tt.mutate(&req)

			_, err := svc.Register(context.Background(), req)

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", vErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestRegister_BoundaryAges(t *testing.T) {
	ts := newTestServices()

	for i, age := range []int{18, 100} {
		req := validRegistration([]string{"min@example.com", "max@example.com"}[i])
		req.Age = age
		if _, err := ts.auth.Register(context.Background(), req); err != nil {
			t.Errorf("age %d should be accepted, got %v", age, err)
		}
	}
}

func TestRegister_Success(t *testing.T) {
	ts := newTestServices()

	resp := ts.register(t, "X@Example.com ")

	if resp.Token == "" {
		t.Fatal("expected token")
	}
	if resp.User.Email != "x@example.com" {
		t.Errorf("email = %q, want normalized x@example.com", resp.User.Email)
	}
	if resp.User.Profile == nil {
		t.Fatal("expected profile in user envelope")
	}
	p := resp.User.Profile
	if p.UserID != resp.User.ID || p.Name != "Test User" || p.Age != 30 || !p.IsActive || p.LookingFor != model.LookingForBoth {
		t.Errorf("unexpected profile: %+v", p)
	}

	stored, err := ts.store.Users().GetByID(context.Background(), resp.User.ID)
	if err != nil {
		t.Fatalf("stored user: %v", err)
	}
	if stored.PasswordHash == "password123" {
		t.Fatal("password stored in plaintext")
	}

	claims, err := crypto.ValidateToken(resp.Token, "test-secret")
	if err != nil {
		t.Fatalf("token should validate: %v", err)
	}
	if claims.UserID != resp.User.ID || claims.Email != "x@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := newTestServices()
	first := ts.register(t, "dup@example.com")

	_, err := ts.auth.Register(context.Background(), validRegistration("dup@example.com"))
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	user, err := ts.auth.VerifyToken(context.Background(), first.Token)
	if err != nil {
		t.Fatalf("first token should still verify: %v", err)
	}
	if user.ID != first.User.ID {
		t.Errorf("verified id = %s, want %s", user.ID, first.User.ID)
	}
}

func TestLogin(t *testing.T) {
	ts := newTestServices()
	reg := ts.register(t, "login@example.com")

	resp, err := ts.auth.Login(context.Background(), model.LoginRequest{Email: "login@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.User.ID != reg.User.ID || resp.Token == "" {
		t.Errorf("unexpected login response: %+v", resp)
	}
	if resp.User.Profile == nil || resp.User.Profile.Name != "Test User" {
		t.Errorf("login should include profile, got %+v", resp.User.Profile)
	}
}

func TestLogin_WrongPasswordAndUnknownEmailAreIndistinguishable(t *testing.T) {
	ts := newTestServices()
	ts.register(t, "known@example.com")

	_, wrongPass := ts.auth.Login(context.Background(), model.LoginRequest{Email: "known@example.com", Password: "nope-nope"})
	_, unknown := ts.auth.Login(context.Background(), model.LoginRequest{Email: "ghost@example.com", Password: "password123"})

	if !errors.Is(wrongPass, ErrInvalidCredentials) || !errors.Is(unknown, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v / %v", wrongPass, unknown)
	}
	if wrongPass.Error() != unknown.Error() {
		t.Errorf("messages differ: %q vs %q", wrongPass, unknown)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	svc := NewAuthService(repository.NewUserRepository(nil), repository.NewProfileRepository(nil), "test-secret", time.Hour)

	_, err := svc.Login(context.Background(), model.LoginRequest{Email: "a@example.com"})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestVerifyToken(t *testing.T) {
	ts := newTestServices()
	reg := ts.register(t, "verify@example.com")

	t.Run("garbage token", func(t *testing.T) {
		if _, err := ts.auth.VerifyToken(context.Background(), "garbage"); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("foreign secret", func(t *testing.T) {
		token, _ := crypto.GenerateToken(reg.User.ID, reg.User.Email, "other-secret", time.Hour)
		if _, err := ts.auth.VerifyToken(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("deleted user", func(t *testing.T) {
		other := ts.register(t, "gone@example.com")
		ts.store.Users().Delete(other.User.ID)
		if _, err := ts.auth.VerifyToken(context.Background(), other.Token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("valid", func(t *testing.T) {
		user, err := ts.auth.VerifyToken(context.Background(), reg.Token)
		if err != nil {
			t.Fatalf("verify: %v", err)
		}
		if user.ID != reg.User.ID || user.Profile == nil {
			t.Errorf("unexpected user: %+v", user)
		}
	})
}

func TestIssuedTokenLastsSevenDays(t *testing.T) {
	ts := newTestServices()
	reg := ts.register(t, "expiry@example.com")

	claims, err := crypto.ValidateToken(reg.Token, "test-secret")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != 7*24*time.Hour {
		t.Errorf("token lifetime = %v, want 168h", got)
	}
}
