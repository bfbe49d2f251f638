package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/lead-dashboard/internal/domain"
	"github.com/spec-kit/lead-dashboard/internal/query"
)

var (
	// ErrNotFound is returned when no lead has the requested id.
	ErrNotFound = errors.New("lead not found")
	// ErrDuplicateEmail is returned when an insert collides on email.
	ErrDuplicateEmail = errors.New("lead email already exists")
)

// LeadRepository encapsulates lead persistence.
type LeadRepository interface {
	Create(ctx context.Context, lead *domain.Lead) error
	InsertMany(ctx context.Context, leads []domain.Lead) error
	DeleteAll(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id string) (*domain.Lead, error)
	List(ctx context.Context, q query.Query) ([]domain.Lead, error)
	Count(ctx context.Context, filter query.Filter) (int64, error)
	CountByStage(ctx context.Context, filter query.Filter) ([]domain.StageCount, error)
	CountByStatus(ctx context.Context, filter query.Filter) ([]domain.StatusCount, error)
}
