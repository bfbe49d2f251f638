package query

import (
	"math"
	"strings"
	"time"

	"github.com/spec-kit/lead-dashboard/internal/domain"
)

// SortField names a sortable lead attribute.
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByName      SortField = "name"
)

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Filter restricts a lead set. Zero values mean "no restriction".
type Filter struct {
	Search      string
	Stage       *domain.LeadStage
	Status      *domain.LeadStatus
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// WithStage returns a copy of f additionally restricted to stage.
func (f Filter) WithStage(stage domain.LeadStage) Filter {
	f.Stage = &stage
	return f
}

// Matches reports whether lead satisfies every restriction in f.
func (f Filter) Matches(lead *domain.Lead) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(lead.Name), needle) &&
			!strings.Contains(strings.ToLower(lead.Email), needle) &&
			!strings.Contains(strings.ToLower(lead.Company), needle) {
			return false
		}
	}
	if f.Stage != nil && lead.Stage != *f.Stage {
		return false
	}
	if f.Status != nil && lead.Status != *f.Status {
		return false
	}
	if f.CreatedFrom != nil && lead.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && lead.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	return true
}

// Sort orders a lead list.
type Sort struct {
	Field SortField
	Order SortOrder
}

// Compare orders a before b (-1), after b (1) or equal (0) under s.
func (s Sort) Compare(a, b *domain.Lead) int {
	var c int
	switch s.Field {
	case SortByName:
		c = strings.Compare(a.Name, b.Name)
	default:
		c = a.CreatedAt.Compare(b.CreatedAt)
	}
	if s.Order == SortDesc {
		return -c
	}
	return c
}

// Page is a 1-based page request.
type Page struct {
	Number int
	Limit  int
}

// Skip is the number of leads preceding the page.
// It saturates at math.MaxInt instead of overflowing.
func (p Page) Skip() int {
	if p.Number <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Number-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Number - 1) * p.Limit
}

// TotalPages returns ceil(total / limit).
func (p Page) TotalPages(total int64) int {
	if p.Limit <= 0 || total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(p.Limit)))
}

// Query is a complete list request: filter, ordering and page.
type Query struct {
	Filter Filter
	Sort   Sort
	Page   Page
}

// DayRange returns the first and last instant of the given day-of-month in
// the month and year of now. A day past the end of that month yields an
// empty range (from after to).
func DayRange(now time.Time, day int) (time.Time, time.Time) {
	from := time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, now.Location())
	if from.Month() != now.Month() {
		return from, from.Add(-time.Nanosecond)
	}
	to := from.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return from, to
}
