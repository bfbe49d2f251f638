package repository

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/spec-kit/lead-dashboard/internal/domain"
	"github.com/spec-kit/lead-dashboard/internal/query"
)

// memoryLeadRepository keeps leads in insertion order.
type memoryLeadRepository struct {
	mu    sync.RWMutex
	leads []domain.Lead
}

// NewMemoryLeadRepository returns an empty in-process repository.
func NewMemoryLeadRepository() LeadRepository {
	return &memoryLeadRepository{}
}

func (r *memoryLeadRepository) Create(_ context.Context, lead *domain.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hasEmail(lead.Email) {
		return ErrDuplicateEmail
	}
	lead.ID = uuid.NewString()
	r.leads = append(r.leads, *lead)
	return nil
}

func (r *memoryLeadRepository) InsertMany(_ context.Context, leads []domain.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]struct{}, len(leads))
	for i := range leads {
		if _, dup := seen[leads[i].Email]; dup || r.hasEmail(leads[i].Email) {
			return ErrDuplicateEmail
		}
		seen[leads[i].Email] = struct{}{}
	}
	for i := range leads {
		leads[i].ID = uuid.NewString()
		r.leads = append(r.leads, leads[i])
	}
	return nil
}

func (r *memoryLeadRepository) DeleteAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.leads))
	r.leads = nil
	return n, nil
}

func (r *memoryLeadRepository) GetByID(_ context.Context, id string) (*domain.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.leads {
		if r.leads[i].ID == id {
			lead := r.leads[i]
			return &lead, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryLeadRepository) List(_ context.Context, q query.Query) ([]domain.Lead, error) {
	matched := r.match(q.Filter)
	sort.SliceStable(matched, func(i, j int) bool {
		return q.Sort.Compare(&matched[i], &matched[j]) < 0
	})

	start := min(max(q.Page.Skip(), 0), len(matched))
	end := min(start+q.Page.Limit, len(matched))
	return slices.Clone(matched[start:end]), nil
}

func (r *memoryLeadRepository) Count(_ context.Context, filter query.Filter) (int64, error) {
	return int64(len(r.match(filter))), nil
}

func (r *memoryLeadRepository) CountByStage(_ context.Context, filter query.Filter) ([]domain.StageCount, error) {
	counts := map[domain.LeadStage]int64{}
	for _, lead := range r.match(filter) {
		counts[lead.Stage]++
	}
	result := make([]domain.StageCount, 0, len(counts))
	for stage, n := range counts {
		result = append(result, domain.StageCount{Stage: stage, Count: n})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Stage < result[j].Stage })
	return result, nil
}

func (r *memoryLeadRepository) CountByStatus(_ context.Context, filter query.Filter) ([]domain.StatusCount, error) {
	counts := map[domain.LeadStatus]int64{}
	for _, lead := range r.match(filter) {
		counts[lead.Status]++
	}
	result := make([]domain.StatusCount, 0, len(counts))
	for status, n := range counts {
		result = append(result, domain.StatusCount{Status: status, Count: n})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Status < result[j].Status })
	return result, nil
}

func (r *memoryLeadRepository) match(filter query.Filter) []domain.Lead {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := []domain.Lead{}
	for i := range r.leads {
		if filter.Matches(&r.leads[i]) {
			matched = append(matched, r.leads[i])
		}
	}
	return matched
}

// hasEmail must be called with mu held.
func (r *memoryLeadRepository) hasEmail(email string) bool {
	for i := range r.leads {
		if r.leads[i].Email == email {
			return true
		}
	}
	return false
}
