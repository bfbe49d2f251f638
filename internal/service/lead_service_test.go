package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/lead-dashboard/internal/domain"
	"github.com/spec-kit/lead-dashboard/internal/events"
	"github.com/spec-kit/lead-dashboard/internal/query"
	"github.com/spec-kit/lead-dashboard/internal/repository"
	apperrors "github.com/spec-kit/lead-dashboard/pkg/util"
)

func newLeadService(repo repository.LeadRepository, dispatcher events.Dispatcher) *LeadService {
	return NewLeadService(LeadDependencies{
		LeadRepo:   repo,
		Builder:    testBuilder(),
		Dispatcher: dispatcher,
		Now:        func() time.Time { return testNow },
	})
}

func TestListLeadsNoMatches(t *testing.T) {
	repo := repository.NewMemoryLeadRepository()
	insertLeads(t, repo, domain.LeadStageNew, domain.LeadStageLost)

	page, err := newLeadService(repo, nil).ListLeads(context.Background(), query.Params{Search: "acme", Page: "1", Limit: "10"})
	require.NoError(t, err)
	assert.Empty(t, page.Leads)
	assert.NotNil(t, page.Leads)
	assert.Equal(t, int64(0), page.Total)
	assert.Equal(t, 0, page.Pages)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
}

func TestListLeadsPagination(t *testing.T) {
	repo := repository.NewMemoryLeadRepository()
	stages := make([]domain.LeadStage, 12)
	for i := range stages {
		stages[i] = domain.LeadStageContacted
	}
	insertLeads(t, repo, stages...)

	page, err := newLeadService(repo, nil).ListLeads(context.Background(), query.Params{Page: "3", Limit: "5", Stage: "Contacted"})
	require.NoError(t, err)
	assert.Len(t, page.Leads, 2)
	assert.Equal(t, int64(12), page.Total)
	assert.Equal(t, 3, page.Pages)
}

func TestListLeadsStoreFailure(t *testing.T) {
	repo := new(MockLeadRepository)
	boom := errors.New("timeout")
	repo.On("List", mock.Anything, mock.Anything).Return(nil, boom)
	repo.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil).Maybe()

	_, err := newLeadService(repo, nil).ListLeads(context.Background(), query.Params{})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, http.StatusInternalServerError, apperrors.ToDomainError(err).HTTPStatus)
}

func TestListLeadsStorePanicBecomesServerError(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("List", mock.Anything, mock.Anything).Panic("driver bug")
	repo.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil).Maybe()

	page, err := newLeadService(repo, nil).ListLeads(context.Background(), query.Params{})
	assert.Nil(t, page)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "driver bug")
	assert.Equal(t, http.StatusInternalServerError, apperrors.ToDomainError(err).HTTPStatus)
}

func TestGetLeadNotFound(t *testing.T) {
	_, err := newLeadService(repository.NewMemoryLeadRepository(), nil).GetLead(context.Background(), "nope")

	de := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
	assert.Equal(t, "Lead not found", de.Message)
}

func TestCreateLeadNormalizesAndPublishes(t *testing.T) {
	repo := repository.NewMemoryLeadRepository()
	dispatcher := events.NewInMemoryDispatcher()
	var published []events.Event
	dispatcher.Subscribe(events.EventLeadCreated, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	lead, err := newLeadService(repo, dispatcher).CreateLead(context.Background(), "admin", LeadCreateInput{
		Name:  "  Ada Lovelace ",
		Email: " Ada@Example.COM ",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, "Ada Lovelace", lead.Name)
	assert.Equal(t, "ada@example.com", lead.Email)
	assert.Equal(t, domain.LeadStageNew, lead.Stage)
	assert.Equal(t, domain.LeadStatusActive, lead.Status)
	assert.Equal(t, testNow, lead.CreatedAt)
	require.Len(t, published, 1)
	assert.Equal(t, lead.ID, published[0].LeadID)
	assert.Equal(t, "admin", published[0].Actor)
}

func TestCreateLeadValidation(t *testing.T) {
	svc := newLeadService(repository.NewMemoryLeadRepository(), nil)
	cases := []LeadCreateInput{
		{Email: "a@example.com"},
		{Name: "A"},
		{Name: "A", Email: "a@example.com", Stage: "Won"},
		{Name: "A", Email: "a@example.com", Status: "Dormant"},
	}
	for _, in := range cases {
		_, err := svc.CreateLead(context.Background(), "admin", in)
		assert.Equal(t, http.StatusBadRequest, apperrors.ToDomainError(err).HTTPStatus, "%+v", in)
	}
}

func TestCreateLeadDuplicateEmail(t *testing.T) {
	svc := newLeadService(repository.NewMemoryLeadRepository(), nil)
	_, err := svc.CreateLead(context.Background(), "admin", LeadCreateInput{Name: "A", Email: "dup@example.com"})
	require.NoError(t, err)

	_, err = svc.CreateLead(context.Background(), "admin", LeadCreateInput{Name: "B", Email: "DUP@example.com"})
	assert.Equal(t, http.StatusConflict, apperrors.ToDomainError(err).HTTPStatus)
}

func TestEventServiceInvalidatesCache(t *testing.T) {
	cache := new(MockSummaryCache)
	cache.On("Invalidate", mock.Anything).Return(nil).Once()
	analytics := NewAnalyticsService(AnalyticsDependencies{LeadRepo: repository.NewMemoryLeadRepository(), Cache: cache})
	dispatcher := events.NewInMemoryDispatcher()
	NewEventService(dispatcher, analytics, nil).RegisterHandlers()

	_, err := newLeadService(repository.NewMemoryLeadRepository(), dispatcher).
		CreateLead(context.Background(), "admin", LeadCreateInput{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)
	cache.AssertExpectations(t)
}
