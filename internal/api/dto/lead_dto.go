package dto

import (
	"time"

	"github.com/spec-kit/lead-dashboard/internal/domain"
)

// LeadResponse is the wire form of a lead. The id is exposed as "_id".
type LeadResponse struct {
	ID        string            `json:"_id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone,omitempty"`
	Company   string            `json:"company,omitempty"`
	Stage     domain.LeadStage  `json:"stage"`
	Status    domain.LeadStatus `json:"status"`
	Notes     string            `json:"notes"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Pagination describes the page returned by a list request.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// CreateLeadRequest payload.
type CreateLeadRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Stage   string `json:"stage"`
	Status  string `json:"status"`
	Notes   string `json:"notes"`
}

// NewLeadResponse converts a domain lead.
func NewLeadResponse(lead *domain.Lead) LeadResponse {
	return LeadResponse{
		ID:        lead.ID,
		Name:      lead.Name,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Company:   lead.Company,
		Stage:     lead.Stage,
		Status:    lead.Status,
		Notes:     lead.Notes,
		CreatedAt: lead.CreatedAt,
	}
}

// NewLeadResponses converts a lead slice, never returning nil.
func NewLeadResponses(leads []domain.Lead) []LeadResponse {
	items := make([]LeadResponse, 0, len(leads))
	for i := range leads {
		items = append(items, NewLeadResponse(&leads[i]))
	}
	return items
}
