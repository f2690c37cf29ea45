package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/query-service/internal/api/dto"
	"github.com/spec-kit/query-service/internal/auth"
	"github.com/spec-kit/query-service/internal/service"
	apperrors "github.com/spec-kit/query-service/pkg/util"
)

// ReportsHandler exposes aggregate views for support staff.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reportService}
}

// StatusCounts handles GET /reports/status-counts.
func (h *ReportsHandler) StatusCounts(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	counts, err := h.reports.StatusCounts(c.Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": counts})
}

// Submissions handles GET /reports/submissions.
func (h *ReportsHandler) Submissions(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	series, err := h.reports.SubmissionSeries(c.Context(), identity)
	if err != nil {
		return err
	}

	points := make([]dto.SeriesPoint, 0, len(series))
	for _, p := range series {
		points = append(points, dto.SeriesPoint{Date: dto.FormatSeriesDate(p.Date), Count: p.Count})
	}
	return c.JSON(fiber.Map{"data": points})
}
