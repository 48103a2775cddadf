package service

import (
	"context"
	"errors"
	"testing"

	"marketplace-api/internal/entity"
	"marketplace-api/internal/repo"
)

func newAuthService() *AuthService {
	repos := &repo.Repositories{User: newStubUserRepo()}
	return NewAuthService(repos, AuthConfig{JWTSecret: "test-secret", TokenTTLHours: 1})
}

func TestRegisterLoginParseRoundtrip(t *testing.T) {
	auth := newAuthService()
	ctx := context.Background()

	user, err := auth.Register(ctx, "dev@example.pk", "Dev", "correct horse battery", entity.RoleCompany)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, err := auth.Login(ctx, "dev@example.pk", "correct horse battery")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	actor, err := auth.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if actor.UserId.String() != user.Id {
		t.Fatalf("actor id = %s, want %s", actor.UserId, user.Id)
	}
	if actor.Role != entity.RoleCompany {
		t.Fatalf("actor role = %s, want company", actor.Role)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	auth := newAuthService()
	ctx := context.Background()

	if _, err := auth.Register(ctx, "dev@example.pk", "Dev", "correct horse battery", entity.RoleClient); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := auth.Login(ctx, "dev@example.pk", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	auth := newAuthService()

	if _, err := auth.Login(context.Background(), "nobody@example.pk", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	auth := newAuthService()

	if _, err := auth.Register(context.Background(), "a@example.pk", "A", "password123", entity.RoleAdmin); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("err = %v, want ErrInvalidRole", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	auth := newAuthService()
	ctx := context.Background()

	if _, err := auth.Register(ctx, "dev@example.pk", "Dev", "password123", entity.RoleClient); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := auth.Register(ctx, "dev@example.pk", "Dev2", "password123", entity.RoleClient); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestParseTokenGarbage(t *testing.T) {
	auth := newAuthService()

	if _, err := auth.ParseToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}
