package service

import (
	"context"
	"testing"

	"github.com/spec-kit/query-service/internal/config"
	"github.com/spec-kit/query-service/internal/domain"
	apperrors "github.com/spec-kit/query-service/pkg/util"
)

func newAuthService(users *fakeUserRepo) *AuthService {
	return NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 5,
		PasswordScheme:        "legacy",
	}, users)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)
	ctx := context.Background()

	if err := svc.Register(ctx, "alice", "pw123", domain.RoleClient); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	err := svc.Register(ctx, "alice", "other", domain.RoleSupport)
	if !apperrors.IsCode(err, "ALREADY_EXISTS") {
		t.Fatalf("expected ALREADY_EXISTS, got %v", err)
	}
	if count, _ := users.CountAll(ctx); count != 1 {
		t.Fatalf("duplicate register must not change user count, got %d", count)
	}
}

func TestRegisterStoresDigestNotPlaintext(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)
	ctx := context.Background()

	if err := svc.Register(ctx, "alice", "pw123", domain.RoleClient); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	stored := users.users["alice"]
	if stored.PasswordHash == "pw123" {
		t.Fatalf("plaintext password must never be stored")
	}
	if len(stored.PasswordHash) != 64 {
		t.Fatalf("legacy digest must be a 64-char hex string, got %q", stored.PasswordHash)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())
	ctx := context.Background()

	if err := svc.Register(ctx, "", "pw", domain.RoleClient); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Fatalf("expected VALIDATION_FAILED for empty username, got %v", err)
	}
	if err := svc.Register(ctx, "u", "pw", domain.Role("admin")); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Fatalf("expected VALIDATION_FAILED for unknown role, got %v", err)
	}
}

func TestAuthenticateMatrix(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)
	ctx := context.Background()

	if err := svc.Register(ctx, "alice", "pw123", domain.RoleClient); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	identity, token, _, err := svc.Authenticate(ctx, "alice", "pw123", domain.RoleClient)
	if err != nil {
		t.Fatalf("expected authenticate to succeed: %v", err)
	}
	if identity.Username != "alice" || identity.Role != domain.RoleClient {
		t.Fatalf("unexpected identity %+v", identity)
	}
	if token == "" {
		t.Fatalf("expected a session token")
	}

	// wrong role, wrong password, unknown username: all the same outcome
	cases := []struct {
		username string
		password string
		role     domain.Role
	}{
		{"alice", "pw123", domain.RoleSupport},
		{"alice", "wrong", domain.RoleClient},
		{"nobody", "pw123", domain.RoleClient},
	}
	for _, tc := range cases {
		_, _, _, err := svc.Authenticate(ctx, tc.username, tc.password, tc.role)
		if !apperrors.IsCode(err, "INVALID_CREDENTIALS") {
			t.Fatalf("authenticate(%s,%s,%s): expected INVALID_CREDENTIALS, got %v",
				tc.username, tc.password, tc.role, err)
		}
	}
}

func TestAuthenticatedTokenRoundTripsIdentity(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)
	ctx := context.Background()

	if err := svc.Register(ctx, "agent", "s3cret", domain.RoleSupport); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, token, _, err := svc.Authenticate(ctx, "agent", "s3cret", domain.RoleSupport)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}

	identity, err := svc.TokenManager().ParseToken(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if identity.Username != "agent" || identity.Role != domain.RoleSupport {
		t.Fatalf("unexpected identity %+v", identity)
	}
}
