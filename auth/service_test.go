package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestService_CreateAdminAndLogin(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "test-secret")

	ctx := context.Background()
	admin, err := svc.CreateAdmin(ctx, "moderator", "supersafe-pass")
	if err != nil {
		t.Fatalf("create admin: unexpected error: %v", err)
	}
	if admin.Username != "moderator" {
		t.Fatalf("expected username %q got %q", "moderator", admin.Username)
	}

	resp, err := svc.Login(ctx, LoginRequest{Username: "moderator", Password: "supersafe-pass"})
	if err != nil {
		t.Fatalf("login: unexpected error: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("login: expected token, got empty string")
	}
	if resp.Admin.ID != admin.ID {
		t.Fatalf("login: expected admin id %q got %q", admin.ID, resp.Admin.ID)
	}

	tokenAdminID, err := svc.VerifyToken(resp.Token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if tokenAdminID != admin.ID {
		t.Fatalf("verify token: expected %q got %q", admin.ID, tokenAdminID)
	}
}

func TestService_CreateAdminValidation(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "test-secret")

	if _, err := svc.CreateAdmin(context.Background(), "moderator", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if _, err := svc.CreateAdmin(context.Background(), "  ", "strongpassword"); err == nil {
		t.Fatal("expected validation error for missing username")
	}
}

func TestService_CreateAdminDuplicateUsername(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "test-secret")

	if _, err := svc.CreateAdmin(context.Background(), "moderator", "strongpassword"); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := svc.CreateAdmin(context.Background(), "moderator", "strongpassword"); !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestService_LoginInvalidCredentials(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "test-secret")
	ctx := context.Background()

	if _, err := svc.Login(ctx, LoginRequest{Username: "nobody", Password: "irrelevant"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown username: expected ErrInvalidCredentials, got %v", err)
	}

	if _, err := svc.CreateAdmin(ctx, "moderator", "supersafe-pass"); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if _, err := svc.Login(ctx, LoginRequest{Username: "moderator", Password: "wrong-pass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestService_VerifyTokenRejectsTampering(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "test-secret")
	other := NewService(repo, "other-secret")
	ctx := context.Background()

	if _, err := svc.CreateAdmin(ctx, "moderator", "supersafe-pass"); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	resp, err := svc.Login(ctx, LoginRequest{Username: "moderator", Password: "supersafe-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := other.VerifyToken(resp.Token); err == nil {
		t.Fatal("token signed with a different secret must not verify")
	}
	if _, err := svc.VerifyToken("not-a-token"); err == nil {
		t.Fatal("garbage token must not verify")
	}
}

type fakeRepository struct {
	adminsByUsername map[string]Admin
	adminsByID       map[string]Admin
	nextID           int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		adminsByUsername: make(map[string]Admin),
		adminsByID:       make(map[string]Admin),
		nextID:           1,
	}
}

func (f *fakeRepository) CreateAdmin(ctx context.Context, params CreateAdminParams) (Admin, error) {
	if _, exists := f.adminsByUsername[params.Username]; exists {
		return Admin{}, ErrDuplicateUsername
	}

	id := fmt.Sprintf("admin-%d", f.nextID)
	f.nextID++

	admin := Admin{
		ID:           id,
		Username:     params.Username,
		PasswordHash: params.PasswordHash,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	f.adminsByUsername[admin.Username] = admin
	f.adminsByID[admin.ID] = admin

	return admin, nil
}

func (f *fakeRepository) GetAdminByUsername(ctx context.Context, username string) (Admin, error) {
	admin, ok := f.adminsByUsername[username]
	if !ok {
		return Admin{}, ErrAdminNotFound
	}
	return admin, nil
}

func (f *fakeRepository) GetAdminByID(ctx context.Context, adminID string) (Admin, error) {
	admin, ok := f.adminsByID[adminID]
	if !ok {
		return Admin{}, ErrAdminNotFound
	}
	return admin, nil
}
