package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/lead-dashboard/internal/domain"
	"github.com/spec-kit/lead-dashboard/internal/events"
	"github.com/spec-kit/lead-dashboard/internal/query"
	"github.com/spec-kit/lead-dashboard/internal/repository"
)

const (
	// DefaultCount is the number of leads generated when none is configured.
	DefaultCount = 750
	// SpreadDays is how many leading days of the month receive leads.
	SpreadDays = 13

	notesProbability = 60
)

// Generator produces fake leads.
type Generator struct {
	faker *gofakeit.Faker
	loc   *time.Location
}

// NewGenerator returns a generator. A zero seed picks a random one.
func NewGenerator(seed uint64, loc *time.Location) *Generator {
	if loc == nil {
		loc = time.Local
	}
	return &Generator{faker: gofakeit.New(seed), loc: loc}
}

// Generate returns count leads with unique emails, created on days
// 1..SpreadDays of now's month at random times of day.
func (g *Generator) Generate(count int, now time.Time) []domain.Lead {
	now = now.In(g.loc)
	leads := make([]domain.Lead, 0, count)
	emails := make(map[string]struct{}, count)

	for i := 0; i < count; i++ {
		day := i%SpreadDays + 1
		createdAt := time.Date(now.Year(), now.Month(), day,
			g.faker.Number(0, 23), g.faker.Number(0, 59), g.faker.Number(0, 59), 0, g.loc)

		var notes string
		if g.faker.Number(1, 100) <= notesProbability {
			notes = g.faker.Paragraph(1, 4, 12, " ")
		}

		lead := domain.Lead{
			Name:      g.faker.Name(),
			Email:     g.uniqueEmail(emails, i),
			Phone:     g.faker.Phone(),
			Company:   g.faker.Company(),
			Stage:     domain.LeadStages[g.faker.Number(0, len(domain.LeadStages)-1)],
			Status:    domain.LeadStatuses[g.faker.Number(0, len(domain.LeadStatuses)-1)],
			Notes:     notes,
			CreatedAt: createdAt,
		}
		lead.Normalize(now)
		leads = append(leads, lead)
	}
	return leads
}

func (g *Generator) uniqueEmail(seen map[string]struct{}, i int) string {
	for attempt := 0; attempt < 3; attempt++ {
		email := domain.NormalizeEmail(g.faker.Email())
		if _, dup := seen[email]; !dup {
			seen[email] = struct{}{}
			return email
		}
	}
	email := fmt.Sprintf("lead%d.%s@example.com", i, uuid.NewString()[:8])
	seen[email] = struct{}{}
	return email
}

// Report summarizes a seeding run.
type Report struct {
	Deleted  int64
	Inserted int
	ByStage  []domain.StageCount
}

// Seeder replaces the stored lead set with generated data.
type Seeder struct {
	leads      repository.LeadRepository
	generator  *Generator
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// Dependencies bundles collaborators for the seeder. Dispatcher is optional.
type Dependencies struct {
	LeadRepo   repository.LeadRepository
	Generator  *Generator
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Now        func() time.Time
}

// NewSeeder constructs a seeder.
func NewSeeder(deps Dependencies) *Seeder {
	s := &Seeder{
		leads:      deps.LeadRepo,
		generator:  deps.Generator,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        deps.Now,
	}
	if s.generator == nil {
		s.generator = NewGenerator(0, nil)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Run clears every lead, inserts count generated ones and reports the
// resulting stage distribution.
func (s *Seeder) Run(ctx context.Context, count int) (*Report, error) {
	if count <= 0 {
		count = DefaultCount
	}

	s.logger.Info("clearing existing leads")
	deleted, err := s.leads.DeleteAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("clear leads: %w", err)
	}
	s.publish(ctx, events.Event{Type: events.EventLeadsCleared, Payload: events.LeadsSeededPayload{Count: int(deleted)}})

	now := s.now()
	s.logger.Info("generating leads", zap.Int("count", count))
	leads := s.generator.Generate(count, now)

	if err := s.leads.InsertMany(ctx, leads); err != nil {
		return nil, fmt.Errorf("insert leads: %w", err)
	}
	s.publish(ctx, events.Event{Type: events.EventLeadsSeeded, Payload: events.LeadsSeededPayload{Count: len(leads)}})

	byStage, err := s.leads.CountByStage(ctx, query.Filter{})
	if err != nil {
		return nil, fmt.Errorf("count leads by stage: %w", err)
	}

	return &Report{Deleted: deleted, Inserted: len(leads), ByStage: byStage}, nil
}

func (s *Seeder) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Actor = "seeder"
	event.Timestamp = s.now()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}
