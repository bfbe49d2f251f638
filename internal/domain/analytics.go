package domain

// StageCount is the number of leads in one stage.
type StageCount struct {
	Stage LeadStage
	Count int64
}

// StatusCount is the number of leads with one status.
type StatusCount struct {
	Status LeadStatus
	Count  int64
}

// AnalyticsSummary aggregates lead counts over a filtered set.
type AnalyticsSummary struct {
	TotalLeads     int64
	ConvertedLeads int64
	ConversionRate float64
	LeadsByStage   []StageCount
	LeadsByStatus  []StatusCount
}
