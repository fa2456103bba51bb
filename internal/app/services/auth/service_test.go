package auth

import (
	"context"
	"errors"
	"testing"

	domainuser "shiftstay/internal/domain/user"
	"shiftstay/internal/infra/security"
	"shiftstay/internal/infra/storage/memory"
)

func newService() *Service {
	return &Service{
		Users:     memory.NewUserRepository(),
		Sessions:  memory.NewSessionStore(),
		Passwords: security.BcryptHasher{},
		Tokens:    security.RandomTokenGenerator{},
	}
}

func TestRegisterAssignsRoles(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	nurse, err := svc.Register(ctx, RegisterParams{
		Email:    "Riley@Example.com",
		Name:     "Riley",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if nurse.User.Email != "riley@example.com" {
		t.Errorf("email = %q, want lowercased", nurse.User.Email)
	}
	if !nurse.User.HasRole(domainuser.RoleNurse) || nurse.User.HasRole(domainuser.RoleHost) {
		t.Errorf("roles = %v, want nurse only", nurse.User.Roles)
	}
	if nurse.Token == "" {
		t.Error("expected a session token")
	}

	host, err := svc.Register(ctx, RegisterParams{
		Email:      "dana@example.com",
		Name:       "Dana",
		Password:   "correct-horse",
		WantToHost: true,
	})
	if err != nil {
		t.Fatalf("register host: %v", err)
	}
	if !host.User.HasRole(domainuser.RoleHost) {
		t.Errorf("roles = %v, want host included", host.User.Roles)
	}
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	tests := []struct {
		name    string
		params  RegisterParams
		wantErr error
	}{
		{"missing email", RegisterParams{Name: "Riley", Password: "correct-horse"}, domainuser.ErrEmailRequired},
		{"missing name", RegisterParams{Email: "riley@example.com", Password: "correct-horse"}, domainuser.ErrNameRequired},
		{"short password", RegisterParams{Email: "riley@example.com", Name: "Riley", Password: "short"}, ErrPasswordTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tt.params); !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := svc.Register(ctx, RegisterParams{Email: "riley@example.com", Name: "Riley", Password: "correct-horse"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, RegisterParams{Email: "riley@example.com", Name: "Other", Password: "correct-horse"})
	if !errors.Is(err, domainuser.ErrEmailAlreadyUsed) {
		t.Fatalf("duplicate email err = %v, want ErrEmailAlreadyUsed", err)
	}
}

func TestLoginAndResolve(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	if _, err := svc.Register(ctx, RegisterParams{Email: "riley@example.com", Name: "Riley", Password: "correct-horse"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(ctx, LoginParams{Email: "riley@example.com", Password: "wrong-password"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, LoginParams{Email: "nobody@example.com", Password: "correct-horse"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user err = %v, want ErrInvalidCredentials", err)
	}

	result, err := svc.Login(ctx, LoginParams{Email: "riley@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	resolved, err := svc.ResolveToken(ctx, result.Token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.User.ID != result.User.ID {
		t.Errorf("resolved user %s, want %s", resolved.User.ID, result.User.ID)
	}

	if err := svc.Logout(ctx, result.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.ResolveToken(ctx, result.Token); err == nil {
		t.Fatal("expected resolve to fail after logout")
	}
}
