package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/lead-dashboard/internal/domain"
	"github.com/spec-kit/lead-dashboard/internal/events"
	"github.com/spec-kit/lead-dashboard/internal/query"
	"github.com/spec-kit/lead-dashboard/internal/repository"
	apperrors "github.com/spec-kit/lead-dashboard/pkg/util"
)

// LeadService serves lead listing, lookup and creation.
type LeadService struct {
	leads      repository.LeadRepository
	builder    *query.Builder
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// LeadDependencies bundles collaborators for the lead service.
type LeadDependencies struct {
	LeadRepo   repository.LeadRepository
	Builder    *query.Builder
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Now        func() time.Time
}

// LeadPage is one page of a filtered, ordered lead list.
type LeadPage struct {
	Leads []domain.Lead
	Total int64
	Page  int
	Limit int
	Pages int
}

// LeadCreateInput describes lead creation payload.
type LeadCreateInput struct {
	Name    string
	Email   string
	Phone   string
	Company string
	Stage   string
	Status  string
	Notes   string
}

// NewLeadService constructs the service.
func NewLeadService(deps LeadDependencies) *LeadService {
	s := &LeadService{
		leads:      deps.LeadRepo,
		builder:    deps.Builder,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        deps.Now,
	}
	if s.builder == nil {
		s.builder = query.NewBuilder(query.Options{})
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// ListLeads returns the requested page plus the total match count.
func (s *LeadService) ListLeads(ctx context.Context, params query.Params) (*LeadPage, error) {
	q := s.builder.Build(params)

	var (
		leads []domain.Lead
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(recovered(func() (err error) {
		if leads, err = s.leads.List(gctx, q); err != nil {
			return fmt.Errorf("list leads: %w", err)
		}
		return nil
	}))
	g.Go(recovered(func() (err error) {
		if total, err = s.leads.Count(gctx, q.Filter); err != nil {
			return fmt.Errorf("count leads: %w", err)
		}
		return nil
	}))
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &LeadPage{
		Leads: leads,
		Total: total,
		Page:  q.Page.Number,
		Limit: q.Page.Limit,
		Pages: q.Page.TotalPages(total),
	}, nil
}

// GetLead returns a single lead by id.
func (s *LeadService) GetLead(ctx context.Context, id string) (*domain.Lead, error) {
	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Lead")
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return lead, nil
}

// CreateLead validates input, applies defaults and stores a new lead.
func (s *LeadService) CreateLead(ctx context.Context, actor string, input LeadCreateInput) (*domain.Lead, error) {
	lead := &domain.Lead{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Company: input.Company,
		Stage:   domain.LeadStage(input.Stage),
		Status:  domain.LeadStatus(input.Status),
		Notes:   input.Notes,
	}
	lead.Normalize(s.now())
	if err := lead.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	if err := s.leads.Create(ctx, lead); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewConflict("A lead with this email already exists", map[string]any{"email": lead.Email})
		}
		return nil, fmt.Errorf("create lead: %w", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventLeadCreated,
		LeadID:  lead.ID,
		Actor:   actor,
		Payload: events.LeadCreatedPayload{Email: lead.Email, Stage: string(lead.Stage)},
	})
	return lead, nil
}

func (s *LeadService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}
