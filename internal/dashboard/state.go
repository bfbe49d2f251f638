// Package dashboard holds the client-side view-model of the lead dashboard.
// State changes only through Reduce; the Refresher owns the single mutable
// copy and keeps the lead list in sync with the filters.
package dashboard

import (
	"net/url"
	"strconv"

	"github.com/spec-kit/lead-dashboard/internal/api/dto"
	"github.com/spec-kit/lead-dashboard/internal/domain"
	"github.com/spec-kit/lead-dashboard/internal/query"
)

// DefaultDay is the day-of-month selected when the dashboard opens.
const DefaultDay = "07"

// Filters are the list parameters the user controls.
type Filters struct {
	Search    string
	Stage     domain.LeadStage
	Day       string
	SortBy    query.SortField
	SortOrder query.SortOrder
	Page      int
	Limit     int
}

// DefaultFilters returns the filters of a freshly opened dashboard.
func DefaultFilters() Filters {
	return Filters{
		Day:       DefaultDay,
		SortBy:    query.SortByCreatedAt,
		SortOrder: query.SortDesc,
		Page:      1,
		Limit:     query.DefaultLimit,
	}
}

// Values encodes the filters as list request parameters. Empty filters are
// omitted.
func (f Filters) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(f.Page))
	v.Set("limit", strconv.Itoa(f.Limit))
	v.Set("sortBy", string(f.SortBy))
	v.Set("sortOrder", string(f.SortOrder))
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.Stage != "" {
		v.Set("stage", string(f.Stage))
	}
	if f.Day != "" {
		v.Set("day", f.Day)
	}
	return v
}

// State is the complete dashboard view-model.
type State struct {
	Filters    Filters
	Leads      []dto.LeadResponse
	Pagination dto.Pagination
	Selected   *dto.LeadResponse
	Loading    bool
	Err        string

	// Generation identifies the list fetch whose result the state accepts.
	Generation uint64
}

// NewState returns the initial state.
func NewState() State {
	return State{Filters: DefaultFilters(), Leads: []dto.LeadResponse{}}
}

// Action is a state transition.
type Action interface {
	reduce(State) State
}

// Reduce applies a to s and returns the new state. s is not modified.
func Reduce(s State, a Action) State {
	return a.reduce(s)
}

// SetSearch changes the search text and returns to the first page.
type SetSearch struct{ Text string }

func (a SetSearch) reduce(s State) State {
	s.Filters.Search = a.Text
	s.Filters.Page = 1
	return s
}

// SetStage filters by stage; an empty stage shows all.
type SetStage struct{ Stage domain.LeadStage }

func (a SetStage) reduce(s State) State {
	s.Filters.Stage = a.Stage
	s.Filters.Page = 1
	return s
}

// SetDay selects a day of the current month; empty clears it.
type SetDay struct{ Day string }

func (a SetDay) reduce(s State) State {
	s.Filters.Day = a.Day
	s.Filters.Page = 1
	return s
}

// SetSort changes the sort field.
type SetSort struct{ Field query.SortField }

func (a SetSort) reduce(s State) State {
	s.Filters.SortBy = a.Field
	return s
}

// ToggleSortOrder flips between ascending and descending.
type ToggleSortOrder struct{}

func (ToggleSortOrder) reduce(s State) State {
	if s.Filters.SortOrder == query.SortDesc {
		s.Filters.SortOrder = query.SortAsc
	} else {
		s.Filters.SortOrder = query.SortDesc
	}
	return s
}

// SetPage moves to a page, kept within the known page count.
type SetPage struct{ Page int }

func (a SetPage) reduce(s State) State {
	page := a.Page
	if pages := s.Pagination.Pages; pages > 0 && page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}
	s.Filters.Page = page
	return s
}

// FetchStarted marks a new list fetch as the current one.
type FetchStarted struct{ Generation uint64 }

func (a FetchStarted) reduce(s State) State {
	s.Generation = a.Generation
	s.Loading = true
	s.Err = ""
	return s
}

// FetchSucceeded delivers a list page. Results of superseded fetches are
// dropped.
type FetchSucceeded struct {
	Generation uint64
	Page       LeadPage
}

func (a FetchSucceeded) reduce(s State) State {
	if a.Generation != s.Generation {
		return s
	}
	s.Leads = a.Page.Leads
	if s.Leads == nil {
		s.Leads = []dto.LeadResponse{}
	}
	s.Pagination = a.Page.Pagination
	s.Loading = false
	return s
}

// FetchFailed reports a list fetch error. Errors of superseded fetches are
// dropped.
type FetchFailed struct {
	Generation uint64
	Err        error
}

func (a FetchFailed) reduce(s State) State {
	if a.Generation != s.Generation {
		return s
	}
	s.Loading = false
	s.Err = a.Err.Error()
	return s
}

// SelectLead opens the detail panel for a listed lead.
type SelectLead struct{ ID string }

func (a SelectLead) reduce(s State) State {
	s.Selected = nil
	for i := range s.Leads {
		if s.Leads[i].ID == a.ID {
			lead := s.Leads[i]
			s.Selected = &lead
			break
		}
	}
	return s
}

// ClearSelection closes the detail panel.
type ClearSelection struct{}

func (ClearSelection) reduce(s State) State {
	s.Selected = nil
	return s
}
