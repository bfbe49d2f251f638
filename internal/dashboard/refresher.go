package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period after the last filter change before
// the list is fetched.
const DefaultDebounce = 300 * time.Millisecond

// LeadFetcher loads one page of leads.
type LeadFetcher interface {
	ListLeads(ctx context.Context, f Filters) (*LeadPage, error)
}

// RefresherOptions configures a Refresher.
type RefresherOptions struct {
	Debounce time.Duration
	Logger   *zap.Logger
	// OnChange receives every new state. It is called without locks held.
	OnChange func(State)
}

// Refresher owns the dashboard state. Filter changes schedule a debounced
// fetch; starting a fetch cancels the one in flight and bumps the
// generation so a late result cannot overwrite newer state.
type Refresher struct {
	fetcher  LeadFetcher
	debounce time.Duration
	logger   *zap.Logger
	onChange func(State)

	mu     sync.Mutex
	state  State
	gen    uint64
	timer  *time.Timer
	cancel context.CancelFunc
	closed bool

	inflight sync.WaitGroup
}

// NewRefresher returns a refresher starting from NewState.
func NewRefresher(fetcher LeadFetcher, opts RefresherOptions) *Refresher {
	r := &Refresher{
		fetcher:  fetcher,
		debounce: opts.Debounce,
		logger:   opts.Logger,
		onChange: opts.OnChange,
		state:    NewState(),
	}
	if r.debounce <= 0 {
		r.debounce = DefaultDebounce
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// State returns the current state.
func (r *Refresher) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Dispatch applies a and schedules a fetch when the filters changed.
func (r *Refresher) Dispatch(a Action) {
	r.mu.Lock()
	prev := r.state.Filters
	r.state = Reduce(r.state, a)
	if r.state.Filters != prev && !r.closed {
		r.scheduleLocked()
	}
	next := r.state
	r.mu.Unlock()

	r.notify(next)
}

// Refresh fetches immediately, superseding any pending or in-flight fetch.
func (r *Refresher) Refresh() {
	r.mu.Lock()
	if r.timer != nil {
		r.timer.Stop()
	}
	r.mu.Unlock()
	r.fetch()
}

// Close stops pending work and waits for in-flight fetches to return.
func (r *Refresher) Close() {
	r.mu.Lock()
	r.closed = true
	if r.timer != nil {
		r.timer.Stop()
	}
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Unlock()
	r.inflight.Wait()
}

func (r *Refresher) scheduleLocked() {
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.debounce, r.fetch)
}

func (r *Refresher) fetch() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.gen++
	gen := r.gen
	filters := r.state.Filters
	r.state = Reduce(r.state, FetchStarted{Generation: gen})
	started := r.state
	r.inflight.Add(1)
	r.mu.Unlock()

	r.notify(started)

	go func() {
		defer r.inflight.Done()
		defer cancel()

		page, err := r.fetcher.ListLeads(ctx, filters)
		switch {
		case errors.Is(err, context.Canceled):
			r.logger.Debug("lead fetch superseded", zap.Uint64("generation", gen))
		case err != nil:
			r.logger.Warn("lead fetch failed", zap.Uint64("generation", gen), zap.Error(err))
			r.Dispatch(FetchFailed{Generation: gen, Err: err})
		default:
			r.Dispatch(FetchSucceeded{Generation: gen, Page: *page})
		}
	}()
}

func (r *Refresher) notify(s State) {
	if r.onChange != nil {
		r.onChange(s)
	}
}
