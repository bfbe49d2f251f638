package dashboard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/lead-dashboard/internal/api/dto"
)

type fetchCall struct {
	filters Filters
	ctx     context.Context
}

// scriptedFetcher answers with the search text as the only lead id. Calls
// whose search is listed in hold block until released, ignoring ctx.
type scriptedFetcher struct {
	mu    sync.Mutex
	calls []fetchCall
	hold  map[string]chan struct{}
}

func (f *scriptedFetcher) ListLeads(ctx context.Context, filters Filters) (*LeadPage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fetchCall{filters: filters, ctx: ctx})
	wait := f.hold[filters.Search]
	f.mu.Unlock()

	if wait != nil {
		<-wait
	}
	return &LeadPage{
		Leads:      []dto.LeadResponse{{ID: filters.Search}},
		Pagination: dto.Pagination{Total: 1, Page: filters.Page, Limit: filters.Limit, Pages: 1},
	}, nil
}

func (f *scriptedFetcher) snapshot() []fetchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fetchCall(nil), f.calls...)
}

func TestRefresherDebouncesRapidChanges(t *testing.T) {
	fetcher := &scriptedFetcher{}
	r := NewRefresher(fetcher, RefresherOptions{Debounce: 30 * time.Millisecond})
	defer r.Close()

	for _, text := range []string{"a", "ac", "acm", "acme"} {
		r.Dispatch(SetSearch{Text: text})
	}

	require.Eventually(t, func() bool {
		s := r.State()
		return !s.Loading && len(s.Leads) == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	calls := fetcher.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, "acme", calls[0].filters.Search)
	assert.Equal(t, "acme", r.State().Leads[0].ID)
}

func TestRefresherDiscardsSupersededResponse(t *testing.T) {
	release := make(chan struct{})
	fetcher := &scriptedFetcher{hold: map[string]chan struct{}{"slow": release}}
	r := NewRefresher(fetcher, RefresherOptions{Debounce: time.Millisecond})

	r.Dispatch(SetSearch{Text: "slow"})
	require.Eventually(t, func() bool { return len(fetcher.snapshot()) == 1 }, time.Second, time.Millisecond)

	r.Dispatch(SetSearch{Text: "fast"})
	require.Eventually(t, func() bool {
		s := r.State()
		return !s.Loading && len(s.Leads) == 1 && s.Leads[0].ID == "fast"
	}, time.Second, time.Millisecond)

	first := fetcher.snapshot()[0]
	assert.ErrorIs(t, first.ctx.Err(), context.Canceled)

	close(release)
	r.Close()

	s := r.State()
	assert.Equal(t, "fast", s.Leads[0].ID)
	assert.Equal(t, uint64(2), s.Generation)
}

func TestRefresherNotifiesAndIgnoresNonFilterActions(t *testing.T) {
	fetcher := &scriptedFetcher{}
	var mu sync.Mutex
	var states []State
	r := NewRefresher(fetcher, RefresherOptions{
		Debounce: time.Millisecond,
		OnChange: func(s State) {
			mu.Lock()
			states = append(states, s)
			mu.Unlock()
		},
	})
	defer r.Close()

	r.Dispatch(ClearSelection{})
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, fetcher.snapshot())

	r.Refresh()
	require.Eventually(t, func() bool { return !r.State().Loading }, time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, states, 3)
	assert.True(t, states[1].Loading)
	assert.False(t, states[2].Loading)
}
