package service

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/query-service/internal/auth"
	"github.com/spec-kit/query-service/internal/config"
	"github.com/spec-kit/query-service/internal/domain"
	"github.com/spec-kit/query-service/internal/repository"
	apperrors "github.com/spec-kit/query-service/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users    repository.UserRepository
	tokenMgr *auth.TokenManager
	hasher   *auth.Hasher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:    users,
		tokenMgr: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		hasher:   auth.NewHasher(cfg.PasswordScheme, cfg.BcryptCost),
	}
}

// Register creates a new account. The username is globally unique across
// roles; a collision yields ALREADY_EXISTS and writes nothing.
func (s *AuthService) Register(ctx context.Context, username, password string, role domain.Role) error {
	if username == "" || password == "" {
		return apperrors.NewValidationError("username and password are required", nil)
	}
	if role == "" {
		role = domain.RoleClient
	}
	if !domain.ValidRole(role) {
		return apperrors.NewValidationError("unknown role", map[string]any{"role": role})
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return apperrors.NewAlreadyExists("username")
		}
		return err
	}
	return nil
}

// Authenticate verifies the (username, role, password) triple and issues a
// session token. Unknown username, wrong role, and wrong password are all the
// same INVALID_CREDENTIALS outcome.
func (s *AuthService) Authenticate(ctx context.Context, username, password string, role domain.Role) (domain.Identity, string, time.Time, error) {
	user, err := s.users.GetByUsernameAndRole(ctx, username, role)
	if err != nil {
		if repository.IsNotFound(err) {
			return domain.Identity{}, "", time.Time{}, apperrors.NewInvalidCredentials()
		}
		return domain.Identity{}, "", time.Time{}, err
	}
	if !auth.Verify(user.PasswordHash, password) {
		return domain.Identity{}, "", time.Time{}, apperrors.NewInvalidCredentials()
	}

	identity := domain.Identity{Username: user.Username, Role: user.Role}
	token, exp, err := s.tokenMgr.GenerateToken(identity)
	if err != nil {
		return domain.Identity{}, "", time.Time{}, err
	}
	return identity, token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
