package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/query-service/internal/api/dto"
	"github.com/spec-kit/query-service/internal/domain"
	"github.com/spec-kit/query-service/internal/service"
	apperrors "github.com/spec-kit/query-service/pkg/util"
)

// AuthHandler exposes registration and login.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.auth.Register(c.Context(), req.Username, req.Password, domain.RoleClient); err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"username": req.Username, "role": domain.RoleClient},
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Role == "" {
		req.Role = domain.RoleClient
	}

	identity, token, exp, err := h.auth.Authenticate(c.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"username": identity.Username,
			"role":     identity.Role,
			"auth":     dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}
