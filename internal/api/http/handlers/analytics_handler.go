package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lead-dashboard/internal/api/dto"
	"github.com/spec-kit/lead-dashboard/internal/service"
)

// AnalyticsHandler serves aggregate lead statistics.
type AnalyticsHandler struct {
	service *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: analyticsService}
}

// Summary GET /api/analytics/summary.
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.UserContext(), c.Query("day"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.NewAnalyticsSummary(summary)})
}
