package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/lead-dashboard/internal/domain"
)

func newTestCache(t *testing.T) (*RedisSummaryCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSummaryCache(client, time.Minute), mr
}

func sampleSummary() *domain.AnalyticsSummary {
	return &domain.AnalyticsSummary{
		TotalLeads:     3,
		ConvertedLeads: 1,
		ConversionRate: 33.33,
		LeadsByStage: []domain.StageCount{
			{Stage: domain.LeadStageConverted, Count: 1},
			{Stage: domain.LeadStageNew, Count: 2},
		},
		LeadsByStatus: []domain.StatusCount{{Status: domain.LeadStatusActive, Count: 3}},
	}
}

func TestCacheMissThenHit(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	_, ok, err := c.Get(ctx, "all")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "all", sampleSummary()))
	got, ok, err := c.Get(ctx, "all")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleSummary(), got)
}

func TestCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)
	require.NoError(t, c.Set(ctx, "day:2026-10-05", sampleSummary()))

	require.NoError(t, c.Invalidate(ctx))

	_, ok, err := c.Get(ctx, "day:2026-10-05")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheEntriesExpire(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	require.NoError(t, c.Set(ctx, "all", sampleSummary()))

	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "all")
	require.NoError(t, err)
	assert.False(t, ok)
}
