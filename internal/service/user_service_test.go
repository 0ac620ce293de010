//go:build unit

package service

import (
	"carlton/internal/auth"
	"carlton/internal/data"
	"context"
	"errors"
	"testing"
)

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("first user is admin, then registration closes", func(t *testing.T) {
		svc := NewUserService(newMockUserRepository(), false)

		first, err := svc.Register(ctx, RegisterInput{Email: "Owner@Carlton.mg", Password: "longenough"}, false)
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if first.Role != data.RoleAdmin || first.Email != "owner@carlton.mg" {
			t.Errorf("unexpected first user %+v", first)
		}
		if first.PasswordHash == "" || first.PasswordHash == "longenough" {
			t.Error("password was not hashed")
		}

		if _, err := svc.Register(ctx, RegisterInput{Email: "second@carlton.mg", Password: "longenough"}, false); !errors.Is(err, ErrRegistrationClosed) {
			t.Errorf("expected ErrRegistrationClosed, got %v", err)
		}

		byAdmin, err := svc.Register(ctx, RegisterInput{Email: "ed@carlton.mg", Password: "longenough"}, true)
		if err != nil {
			t.Fatalf("Register() by admin error = %v", err)
		}
		if byAdmin.Role != data.RoleEditor {
			t.Errorf("Role = %q, want editor", byAdmin.Role)
		}
	})

	t.Run("open registration yields editors", func(t *testing.T) {
		svc := NewUserService(newMockUserRepository(), true)
		if _, err := svc.Register(ctx, RegisterInput{Email: "a@carlton.mg", Password: "longenough"}, false); err != nil {
			t.Fatal(err)
		}
		u, err := svc.Register(ctx, RegisterInput{Email: "b@carlton.mg", Password: "longenough", Role: data.RoleAdmin}, false)
		if err != nil {
			t.Fatal(err)
		}
		if u.Role != data.RoleEditor {
			t.Errorf("self registration must not pick its role, got %q", u.Role)
		}
	})

	t.Run("validation", func(t *testing.T) {
		svc := NewUserService(newMockUserRepository(), true)
		_, err := svc.Register(ctx, RegisterInput{Email: "nope", Password: "short"}, false)
		ve, ok := IsValidation(err)
		if !ok || ve.Fields["email"] == "" || ve.Fields["password"] == "" {
			t.Errorf("expected email and password errors, got %v", err)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc := NewUserService(newMockUserRepository(), true)
		in := RegisterInput{Email: "a@carlton.mg", Password: "longenough"}
		if _, err := svc.Register(ctx, in, false); err != nil {
			t.Fatal(err)
		}
		if _, err := svc.Register(ctx, in, false); !errors.Is(err, data.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(newMockUserRepository(), false)
	if _, err := svc.CreateAdmin(ctx, RegisterInput{Email: "owner@carlton.mg", Password: "longenough"}); err != nil {
		t.Fatal(err)
	}

	u, err := svc.Login(ctx, " OWNER@carlton.mg ", "longenough")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if u.Role != data.RoleAdmin {
		t.Errorf("Role = %q, want admin", u.Role)
	}
	if _, err := svc.Login(ctx, "owner@carlton.mg", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@carlton.mg", "longenough"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for an unknown user, got %v", err)
	}
}

func TestUserService_FindOrCreateOIDCUser(t *testing.T) {
	ctx := context.Background()
	repo := newMockUserRepository()
	svc := NewUserService(repo, false)

	u, err := svc.FindOrCreateOIDCUser(ctx, &auth.Identity{Email: "Owner@carlton.mg", EmailVerified: true, Name: "Owner"})
	if err != nil {
		t.Fatalf("FindOrCreateOIDCUser() error = %v", err)
	}
	if u.Role != data.RoleAdmin || u.PasswordHash != "" {
		t.Errorf("unexpected first SSO user %+v", u)
	}

	again, err := svc.FindOrCreateOIDCUser(ctx, &auth.Identity{Email: "owner@carlton.mg", EmailVerified: true})
	if err != nil || again.ID != u.ID {
		t.Errorf("expected the existing account, got %+v, %v", again, err)
	}

	if _, err := svc.FindOrCreateOIDCUser(ctx, &auth.Identity{Email: "guest@carlton.mg", EmailVerified: true}); !errors.Is(err, ErrRegistrationClosed) {
		t.Errorf("expected ErrRegistrationClosed, got %v", err)
	}

	if _, err := svc.Login(ctx, "owner@carlton.mg", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("SSO accounts must not log in with a password, got %v", err)
	}
}

func TestUserService_FindOrCreateOIDCUser_UnverifiedEmail(t *testing.T) {
	ctx := context.Background()
	repo := newMockUserRepository()
	svc := NewUserService(repo, true)

	owner, err := svc.Register(ctx, RegisterInput{Email: "owner@carlton.mg", Password: "longenough"}, false)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if owner.Role != data.RoleAdmin {
		t.Fatalf("first account role = %q, want admin", owner.Role)
	}

	u, err := svc.FindOrCreateOIDCUser(ctx, &auth.Identity{Email: "owner@carlton.mg", Name: "Owner"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if u != nil {
		t.Errorf("an unverified identity must not resolve to %+v", u)
	}
}
