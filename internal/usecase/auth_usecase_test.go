package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"skill-swap/internal/pkg/jwt"
	ucauth "skill-swap/internal/usecase/auth"
)

func newTestAuth() (*Auth, *memUserRepo) {
	users := newMemUserRepo()
	svc := jwt.NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour)
	return NewAuthUsecase(users, svc, 5), users
}

func TestAuth_RegisterLoginRefresh(t *testing.T) {
	uc, users := newTestAuth()
	ctx := context.Background()

	usr, access, refresh, err := uc.Register(ctx, ucauth.RegisterInput{
		Email:    " Alice@Example.com ",
		Username: "Alice_1",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if usr.Email != "alice@example.com" || usr.PasswordHash != "" {
		t.Fatalf("unexpected user: %+v", usr)
	}
	if access == "" || refresh == "" {
		t.Fatalf("expected tokens")
	}
	if users.balances[usr.ID] != 5 {
		t.Fatalf("expected starting balance 5, got %d", users.balances[usr.ID])
	}
	if _, ok := users.usernames["alice_1"]; !ok {
		t.Fatalf("expected normalized username to be stored")
	}

	if _, _, _, err := uc.Login(ctx, ucauth.LoginInput{Email: "alice@example.com", Password: "wrong password"}); !errors.Is(err, ucauth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := uc.Login(ctx, ucauth.LoginInput{Email: "alice@example.com", Password: "correct horse"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	newAccess, newRefresh, err := uc.Refresh(ctx, refresh)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if newAccess == "" || newRefresh == "" {
		t.Fatalf("expected rotated tokens")
	}
	if _, _, err := uc.Refresh(ctx, access); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("access token must not refresh, got %v", err)
	}
}

func TestAuth_Register_Conflicts(t *testing.T) {
	uc, _ := newTestAuth()
	ctx := context.Background()

	in := ucauth.RegisterInput{Email: "bob@example.com", Username: "bob", Password: "password123"}
	if _, _, _, err := uc.Register(ctx, in); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, _, _, err := uc.Register(ctx, in); !errors.Is(err, ucauth.ErrEmailAlreadyRegistered) {
		t.Fatalf("expected ErrEmailAlreadyRegistered, got %v", err)
	}

	in.Email = "other@example.com"
	if _, _, _, err := uc.Register(ctx, in); !errors.Is(err, ucauth.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuth_Register_InvalidInput(t *testing.T) {
	uc, _ := newTestAuth()
	cases := []ucauth.RegisterInput{
		{Email: "", Username: "carol", Password: "password123"},
		{Email: "carol", Username: "carol", Password: "password123"},
		{Email: "carol@example.com", Username: "c", Password: "password123"},
		{Email: "carol@example.com", Username: "carol!", Password: "password123"},
		{Email: "carol@example.com", Username: "carol", Password: "short"},
	}
	for _, in := range cases {
		if _, _, _, err := uc.Register(context.Background(), in); !errors.Is(err, ucauth.ErrInvalidInput) {
			t.Fatalf("%+v: expected ErrInvalidInput, got %v", in, err)
		}
	}
}
