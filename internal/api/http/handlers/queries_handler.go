package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/query-service/internal/api/dto"
	"github.com/spec-kit/query-service/internal/auth"
	"github.com/spec-kit/query-service/internal/service"
	apperrors "github.com/spec-kit/query-service/pkg/util"
)

// QueriesHandler exposes the query lifecycle surface.
type QueriesHandler struct {
	queries *service.QueryService
}

// NewQueriesHandler constructs handler.
func NewQueriesHandler(queryService *service.QueryService) *QueriesHandler {
	return &QueriesHandler{queries: queryService}
}

// Create handles POST /queries. The caller's own username is always the
// client name on the new row.
func (h *QueriesHandler) Create(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.QueryCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	q, err := h.queries.Create(c.Context(), identity, service.QueryCreateInput{
		Email:    req.Email,
		Mobile:   req.Mobile,
		Heading:  req.Heading,
		Text:     req.Text,
		Priority: req.Priority,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromQuery(*q)})
}

// ListMine handles GET /queries/mine.
func (h *QueriesHandler) ListMine(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	queries, err := h.queries.ListOwn(c.Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromQueries(queries)})
}

// ListAll handles GET /queries.
func (h *QueriesHandler) ListAll(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	queries, err := h.queries.ListAll(c.Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromQueries(queries)})
}

// Transition handles PATCH /queries/:id/status.
func (h *QueriesHandler) Transition(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return apperrors.NewValidationError("query id must be numeric", nil)
	}

	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	q, err := h.queries.Transition(c.Context(), identity, id, req.Status, req.AssignedTo)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromQuery(*q)})
}
