package query

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/lead-dashboard/internal/domain"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params holds the raw, unvalidated list request parameters.
type Params struct {
	Search    string
	Stage     string
	Status    string
	Day       string
	SortBy    string
	SortOrder string
	Page      string
	Limit     string
}

// Options configures a Builder.
type Options struct {
	DefaultLimit int
	MaxLimit     int
	Location     *time.Location
	Now          func() time.Time
}

// Builder turns request parameters into queries. Malformed values fall back
// to defaults instead of reaching the store.
type Builder struct {
	defaultLimit int
	maxLimit     int
	loc          *time.Location
	now          func() time.Time
}

// NewBuilder constructs a Builder, filling unset options.
func NewBuilder(opts Options) *Builder {
	b := &Builder{
		defaultLimit: opts.DefaultLimit,
		maxLimit:     opts.MaxLimit,
		loc:          opts.Location,
		now:          opts.Now,
	}
	if b.maxLimit <= 0 {
		b.maxLimit = MaxLimit
	}
	if b.defaultLimit <= 0 {
		b.defaultLimit = DefaultLimit
	}
	if b.defaultLimit > b.maxLimit {
		b.defaultLimit = b.maxLimit
	}
	if b.loc == nil {
		b.loc = time.Local
	}
	if b.now == nil {
		b.now = time.Now
	}
	return b
}

// Build constructs a list query from p.
func (b *Builder) Build(p Params) Query {
	filter := b.DayFilter(p.Day)
	filter.Search = strings.TrimSpace(p.Search)
	if stage, err := domain.ParseLeadStage(strings.TrimSpace(p.Stage)); err == nil {
		filter.Stage = &stage
	}
	if status, err := domain.ParseLeadStatus(strings.TrimSpace(p.Status)); err == nil {
		filter.Status = &status
	}

	return Query{
		Filter: filter,
		Sort:   parseSort(p.SortBy, p.SortOrder),
		Page:   b.parsePage(p.Page, p.Limit),
	}
}

// DayFilter returns a filter restricted to the given day-of-month of the
// current month, or an empty filter when day is absent or malformed.
func (b *Builder) DayFilter(day string) Filter {
	n, ok := parseDay(day)
	if !ok {
		return Filter{}
	}
	from, to := DayRange(b.now().In(b.loc), n)
	return Filter{CreatedFrom: &from, CreatedTo: &to}
}

func (b *Builder) parsePage(page, limit string) Page {
	number := parsePositive(page, 1)
	size := parsePositive(limit, b.defaultLimit)
	if size > b.maxLimit {
		size = b.maxLimit
	}
	// Keep the page offset within int.
	number = min(number, math.MaxInt/size)
	return Page{Number: number, Limit: size}
}

func parseSort(field, order string) Sort {
	s := Sort{Field: SortByCreatedAt, Order: SortDesc}
	switch SortField(field) {
	case SortByName:
		s.Field = SortByName
	}
	if SortOrder(strings.ToLower(order)) == SortAsc {
		s.Order = SortAsc
	}
	return s
}

func parseDay(val string) (int, bool) {
	val = strings.TrimSpace(val)
	if val == "" {
		return 0, false
	}
	day, err := strconv.Atoi(val)
	if err != nil || day < 1 || day > 31 {
		return 0, false
	}
	return day, true
}

func parsePositive(val string, def int) int {
	val = strings.TrimSpace(val)
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	if parsed < 1 {
		return 1
	}
	return parsed
}
