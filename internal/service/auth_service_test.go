package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mediguard/mediguard/internal/config"
	"github.com/mediguard/mediguard/internal/domain"
	"github.com/mediguard/mediguard/pkg/auth"
)

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	jwt := auth.NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-key-32bytes-long!!!!",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "mediguard-test",
	})
	return NewAuthService(repo, jwt, newTestAuditService(), zap.NewNop()), repo
}

func TestSignupAndLogin(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, &SignupCommand{
		Name:     "Priya Sharma",
		Username: "priya",
		Email:    "priya@example.com",
		Password: "s3cretpw",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if user.PasswordHash == "s3cretpw" {
		t.Fatal("password stored in plain text")
	}

	pair, err := svc.Login(ctx, "priya", "s3cretpw", "127.0.0.1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("token pair incomplete")
	}

	if _, err := svc.Login(ctx, "priya", "wrongpw", "127.0.0.1"); err != ErrInvalidCredentials {
		t.Fatalf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, "nobody", "s3cretpw", "127.0.0.1"); err != ErrInvalidCredentials {
		t.Fatalf("unknown user: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestSignupValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	_, err := svc.Signup(context.Background(), &SignupCommand{Password: "abc"})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(verr.Fields) != 4 {
		t.Fatalf("got %d field errors, want 4: %v", len(verr.Fields), verr.Fields)
	}
}

func TestSignupRejectsDuplicates(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	base := &SignupCommand{Name: "A", Username: "alice", Email: "alice@example.com", Password: "s3cretpw"}
	if _, err := svc.Signup(ctx, base); err != nil {
		t.Fatalf("first signup: %v", err)
	}

	dup := *base
	dup.Email = "other@example.com"
	if _, err := svc.Signup(ctx, &dup); err != domain.ErrUsernameTaken {
		t.Fatalf("duplicate username: err = %v, want ErrUsernameTaken", err)
	}

	dup = *base
	dup.Username = "alice2"
	if _, err := svc.Signup(ctx, &dup); err != domain.ErrEmailTaken {
		t.Fatalf("duplicate email: err = %v, want ErrEmailTaken", err)
	}
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, &SignupCommand{
		Name: "B", Username: "bob", Email: "bob@example.com", Password: "s3cretpw",
	}); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	pair, err := svc.Login(ctx, "bob", "s3cretpw", "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	renewed, err := svc.RefreshToken(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if renewed.AccessToken == "" {
		t.Fatal("renewed access token empty")
	}

	if _, err := svc.RefreshToken(ctx, pair.AccessToken); err != ErrInvalidCredentials {
		t.Fatalf("refresh with access token: err = %v, want ErrInvalidCredentials", err)
	}
}
