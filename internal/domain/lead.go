package domain

import (
	"errors"
	"strings"
	"time"
)

// LeadStage is the pipeline position of a lead.
type LeadStage string

const (
	LeadStageNew       LeadStage = "New"
	LeadStageContacted LeadStage = "Contacted"
	LeadStageQualified LeadStage = "Qualified"
	LeadStageConverted LeadStage = "Converted"
	LeadStageLost      LeadStage = "Lost"
)

// LeadStages lists every stage in pipeline order.
var LeadStages = []LeadStage{
	LeadStageNew,
	LeadStageContacted,
	LeadStageQualified,
	LeadStageConverted,
	LeadStageLost,
}

// LeadStatus is the engagement state of a lead, independent of stage.
type LeadStatus string

const (
	LeadStatusActive   LeadStatus = "Active"
	LeadStatusInactive LeadStatus = "Inactive"
	LeadStatusPending  LeadStatus = "Pending"
)

// LeadStatuses lists every status.
var LeadStatuses = []LeadStatus{
	LeadStatusActive,
	LeadStatusInactive,
	LeadStatusPending,
}

var (
	ErrLeadNameRequired  = errors.New("name is required")
	ErrLeadEmailRequired = errors.New("email is required")
	ErrInvalidStage      = errors.New("invalid stage")
	ErrInvalidStatus     = errors.New("invalid status")
)

// ParseLeadStage returns the stage matching s exactly.
func ParseLeadStage(s string) (LeadStage, error) {
	for _, stage := range LeadStages {
		if string(stage) == s {
			return stage, nil
		}
	}
	return "", ErrInvalidStage
}

// ParseLeadStatus returns the status matching s exactly.
func ParseLeadStatus(s string) (LeadStatus, error) {
	for _, status := range LeadStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", ErrInvalidStatus
}

// Lead is a prospective customer tracked through the sales pipeline.
type Lead struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Company   string
	Stage     LeadStage
	Status    LeadStatus
	Notes     string
	CreatedAt time.Time
}

// Normalize trims text fields, lowercases the email and fills defaults.
// CreatedAt is set to now when zero.
func (l *Lead) Normalize(now time.Time) {
	l.Name = strings.TrimSpace(l.Name)
	l.Email = NormalizeEmail(l.Email)
	l.Phone = strings.TrimSpace(l.Phone)
	l.Company = strings.TrimSpace(l.Company)
	if l.Stage == "" {
		l.Stage = LeadStageNew
	}
	if l.Status == "" {
		l.Status = LeadStatusActive
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
}

// Validate checks required fields and enumerations.
func (l *Lead) Validate() error {
	if l.Name == "" {
		return ErrLeadNameRequired
	}
	if l.Email == "" {
		return ErrLeadEmailRequired
	}
	if _, err := ParseLeadStage(string(l.Stage)); err != nil {
		return err
	}
	if _, err := ParseLeadStatus(string(l.Status)); err != nil {
		return err
	}
	return nil
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
