package dto

import "github.com/spec-kit/lead-dashboard/internal/domain"

// StageCount is one entry of leadsByStage.
type StageCount struct {
	Stage domain.LeadStage `json:"stage"`
	Count int64            `json:"count"`
}

// StatusCount is one entry of leadsByStatus.
type StatusCount struct {
	Status domain.LeadStatus `json:"status"`
	Count  int64             `json:"count"`
}

// AnalyticsSummary is the analytics summary payload.
type AnalyticsSummary struct {
	TotalLeads     int64         `json:"totalLeads"`
	ConvertedLeads int64         `json:"convertedLeads"`
	ConversionRate float64       `json:"conversionRate"`
	LeadsByStage   []StageCount  `json:"leadsByStage"`
	LeadsByStatus  []StatusCount `json:"leadsByStatus"`
}

// NewAnalyticsSummary converts a domain summary.
func NewAnalyticsSummary(s *domain.AnalyticsSummary) AnalyticsSummary {
	resp := AnalyticsSummary{
		TotalLeads:     s.TotalLeads,
		ConvertedLeads: s.ConvertedLeads,
		ConversionRate: s.ConversionRate,
		LeadsByStage:   make([]StageCount, 0, len(s.LeadsByStage)),
		LeadsByStatus:  make([]StatusCount, 0, len(s.LeadsByStatus)),
	}
	for _, sc := range s.LeadsByStage {
		resp.LeadsByStage = append(resp.LeadsByStage, StageCount{Stage: sc.Stage, Count: sc.Count})
	}
	for _, sc := range s.LeadsByStatus {
		resp.LeadsByStatus = append(resp.LeadsByStatus, StatusCount{Status: sc.Status, Count: sc.Count})
	}
	return resp
}
