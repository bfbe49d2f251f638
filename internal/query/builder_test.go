package query

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/lead-dashboard/internal/domain"
)

func fixedBuilder(now time.Time) *Builder {
	return NewBuilder(Options{
		Location: time.UTC,
		Now:      func() time.Time { return now },
	})
}

func TestBuildDefaults(t *testing.T) {
	q := fixedBuilder(time.Now()).Build(Params{})

	assert.Equal(t, Filter{}, q.Filter)
	assert.Equal(t, Sort{Field: SortByCreatedAt, Order: SortDesc}, q.Sort)
	assert.Equal(t, Page{Number: 1, Limit: DefaultLimit}, q.Page)
	assert.Equal(t, 0, q.Page.Skip())
}

func TestBuildFilters(t *testing.T) {
	q := fixedBuilder(time.Now()).Build(Params{
		Search:    "  acme ",
		Stage:     "Qualified",
		Status:    "Pending",
		SortBy:    "name",
		SortOrder: "asc",
		Page:      "3",
		Limit:     "25",
	})

	assert.Equal(t, "acme", q.Filter.Search)
	require.NotNil(t, q.Filter.Stage)
	assert.Equal(t, domain.LeadStageQualified, *q.Filter.Stage)
	require.NotNil(t, q.Filter.Status)
	assert.Equal(t, domain.LeadStatusPending, *q.Filter.Status)
	assert.Equal(t, Sort{Field: SortByName, Order: SortAsc}, q.Sort)
	assert.Equal(t, 50, q.Page.Skip())
	assert.Equal(t, 25, q.Page.Limit)
}

func TestBuildCoercesMalformedValues(t *testing.T) {
	cases := []struct {
		name   string
		params Params
		page   Page
		sort   Sort
	}{
		{"non-numeric page and limit", Params{Page: "abc", Limit: "x"}, Page{1, DefaultLimit}, Sort{SortByCreatedAt, SortDesc}},
		{"zero page", Params{Page: "0"}, Page{1, DefaultLimit}, Sort{SortByCreatedAt, SortDesc}},
		{"negative page", Params{Page: "-4", Limit: "5"}, Page{1, 5}, Sort{SortByCreatedAt, SortDesc}},
		{"huge limit", Params{Limit: "100000"}, Page{1, MaxLimit}, Sort{SortByCreatedAt, SortDesc}},
		{"unknown sort field", Params{SortBy: "email", SortOrder: "sideways"}, Page{1, DefaultLimit}, Sort{SortByCreatedAt, SortDesc}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := fixedBuilder(time.Now()).Build(tc.params)
			assert.Equal(t, tc.page, q.Page)
			assert.Equal(t, tc.sort, q.Sort)
			assert.GreaterOrEqual(t, q.Page.Skip(), 0)
		})
	}
}

func TestBuildIgnoresUnknownEnumerations(t *testing.T) {
	q := fixedBuilder(time.Now()).Build(Params{Stage: "Won", Status: "active"})
	assert.Nil(t, q.Filter.Stage)
	assert.Nil(t, q.Filter.Status)
}

func TestDayFilterBindsToCurrentMonth(t *testing.T) {
	now := time.Date(2026, time.October, 17, 15, 0, 0, 0, time.UTC)
	f := fixedBuilder(now).DayFilter("5")

	require.NotNil(t, f.CreatedFrom)
	require.NotNil(t, f.CreatedTo)
	assert.Equal(t, time.Date(2026, time.October, 5, 0, 0, 0, 0, time.UTC), *f.CreatedFrom)

	inDay := &domain.Lead{CreatedAt: time.Date(2026, time.October, 5, 23, 59, 59, 500, time.UTC)}
	otherMonth := &domain.Lead{CreatedAt: time.Date(2026, time.September, 5, 12, 0, 0, 0, time.UTC)}
	nextDay := &domain.Lead{CreatedAt: time.Date(2026, time.October, 6, 0, 0, 0, 0, time.UTC)}
	assert.True(t, f.Matches(inDay))
	assert.False(t, f.Matches(otherMonth))
	assert.False(t, f.Matches(nextDay))
}

func TestDayFilterIgnoresMalformedDay(t *testing.T) {
	b := fixedBuilder(time.Now())
	for _, day := range []string{"", "abc", "0", "32", "-1"} {
		assert.Equal(t, Filter{}, b.DayFilter(day), day)
	}
}

func TestDayRangePastMonthEndIsEmpty(t *testing.T) {
	now := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)
	from, to := DayRange(now, 31)
	assert.True(t, to.Before(from))

	f := Filter{CreatedFrom: &from, CreatedTo: &to}
	assert.False(t, f.Matches(&domain.Lead{CreatedAt: time.Date(2026, time.October, 1, 8, 0, 0, 0, time.UTC)}))
}

func TestFilterSearchIsCaseInsensitiveSubstring(t *testing.T) {
	lead := &domain.Lead{Name: "Jane Doe", Email: "jane@example.com", Company: "ACME Corp"}

	assert.True(t, Filter{Search: "acme"}.Matches(lead))
	assert.True(t, Filter{Search: "DOE"}.Matches(lead))
	assert.True(t, Filter{Search: "@example."}.Matches(lead))
	assert.False(t, Filter{Search: "globex"}.Matches(lead))
}

func TestTotalPages(t *testing.T) {
	p := Page{Number: 1, Limit: 10}
	assert.Equal(t, 0, p.TotalPages(0))
	assert.Equal(t, 1, p.TotalPages(10))
	assert.Equal(t, 2, p.TotalPages(11))
}

func TestBuildClampsHugePage(t *testing.T) {
	b := fixedBuilder(time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC))

	q := b.Build(Params{Page: "1000000000000000000", Limit: "100"})
	assert.Equal(t, 100, q.Page.Limit)
	assert.Equal(t, math.MaxInt/100, q.Page.Number)
	assert.Greater(t, q.Page.Skip(), 0)

	q = b.Build(Params{Page: "9223372036854775807", Limit: "1"})
	assert.Greater(t, q.Page.Skip(), 0)
}

func TestPageSkipSaturates(t *testing.T) {
	assert.Equal(t, 0, Page{Number: 0, Limit: 10}.Skip())
	assert.Equal(t, 20, Page{Number: 3, Limit: 10}.Skip())
	assert.Equal(t, math.MaxInt, Page{Number: math.MaxInt, Limit: 100}.Skip())
}

func TestSortCompare(t *testing.T) {
	older := &domain.Lead{Name: "Bob", CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := &domain.Lead{Name: "Alice", CreatedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)}

	assert.Equal(t, 1, Sort{SortByCreatedAt, SortDesc}.Compare(older, newer))
	assert.Equal(t, -1, Sort{SortByCreatedAt, SortAsc}.Compare(older, newer))
	assert.Equal(t, 1, Sort{SortByName, SortAsc}.Compare(older, newer))
}
