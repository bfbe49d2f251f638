package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lead-dashboard/internal/api/dto"
	"github.com/spec-kit/lead-dashboard/internal/auth"
	"github.com/spec-kit/lead-dashboard/internal/query"
	"github.com/spec-kit/lead-dashboard/internal/service"
	apperrors "github.com/spec-kit/lead-dashboard/pkg/util"
)

// LeadsHandler manages lead endpoints.
type LeadsHandler struct {
	service *service.LeadService
}

// NewLeadsHandler constructs handler.
func NewLeadsHandler(leadService *service.LeadService) *LeadsHandler {
	return &LeadsHandler{service: leadService}
}

// ListLeads GET /api/leads.
func (h *LeadsHandler) ListLeads(c *fiber.Ctx) error {
	page, err := h.service.ListLeads(c.UserContext(), parseLeadQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    dto.NewLeadResponses(page.Leads),
		"pagination": dto.Pagination{
			Total: page.Total,
			Page:  page.Page,
			Limit: page.Limit,
			Pages: page.Pages,
		},
	})
}

// GetLead GET /api/leads/:id.
func (h *LeadsHandler) GetLead(c *fiber.Ctx) error {
	lead, err := h.service.GetLead(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.NewLeadResponse(lead)})
}

// CreateLead POST /api/leads.
func (h *LeadsHandler) CreateLead(c *fiber.Ctx) error {
	var req dto.CreateLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	var actor string
	if principal, ok := auth.PrincipalFromContext(c); ok {
		actor = principal.Username
	}

	lead, err := h.service.CreateLead(c.UserContext(), actor, service.LeadCreateInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Stage:   req.Stage,
		Status:  req.Status,
		Notes:   req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": dto.NewLeadResponse(lead)})
}

func parseLeadQuery(c *fiber.Ctx) query.Params {
	return query.Params{
		Search:    c.Query("search"),
		Stage:     c.Query("stage"),
		Status:    c.Query("status"),
		Day:       c.Query("day"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Page:      c.Query("page"),
		Limit:     c.Query("limit"),
	}
}
