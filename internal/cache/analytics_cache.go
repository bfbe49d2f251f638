package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/lead-dashboard/internal/domain"
)

const (
	keyPrefix  = "analytics:summary"
	versionKey = keyPrefix + ":version"
)

// SummaryCache stores analytics summaries keyed by filter.
type SummaryCache interface {
	Get(ctx context.Context, key string) (*domain.AnalyticsSummary, bool, error)
	Set(ctx context.Context, key string, summary *domain.AnalyticsSummary) error
	Invalidate(ctx context.Context) error
}

// RedisSummaryCache keeps summaries in Redis. Invalidation bumps a version
// counter that is part of every entry key, so stale entries simply expire.
type RedisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSummaryCache returns a cache with the given entry lifetime.
func NewRedisSummaryCache(client *redis.Client, ttl time.Duration) *RedisSummaryCache {
	return &RedisSummaryCache{client: client, ttl: ttl}
}

type stageEntry struct {
	Stage string `json:"stage"`
	Count int64  `json:"count"`
}

type statusEntry struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type summaryEntry struct {
	TotalLeads     int64         `json:"totalLeads"`
	ConvertedLeads int64         `json:"convertedLeads"`
	ConversionRate float64       `json:"conversionRate"`
	LeadsByStage   []stageEntry  `json:"leadsByStage"`
	LeadsByStatus  []statusEntry `json:"leadsByStatus"`
}

// Get returns the cached summary for key, if any.
func (c *RedisSummaryCache) Get(ctx context.Context, key string) (*domain.AnalyticsSummary, bool, error) {
	fullKey, err := c.entryKey(ctx, key)
	if err != nil {
		return nil, false, err
	}
	raw, err := c.client.Get(ctx, fullKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry summaryEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false, fmt.Errorf("decode cached summary: %w", err)
	}
	return entry.toDomain(), true, nil
}

// Set stores summary under key for the configured TTL.
func (c *RedisSummaryCache) Set(ctx context.Context, key string, summary *domain.AnalyticsSummary) error {
	fullKey, err := c.entryKey(ctx, key)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(fromDomain(summary))
	if err != nil {
		return err
	}
	return c.client.Set(ctx, fullKey, raw, c.ttl).Err()
}

// Invalidate makes every previously cached summary unreachable.
func (c *RedisSummaryCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, versionKey).Err()
}

func (c *RedisSummaryCache) entryKey(ctx context.Context, key string) (string, error) {
	version, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("%s:v%d:%s", keyPrefix, version, key), nil
}

func fromDomain(s *domain.AnalyticsSummary) summaryEntry {
	entry := summaryEntry{
		TotalLeads:     s.TotalLeads,
		ConvertedLeads: s.ConvertedLeads,
		ConversionRate: s.ConversionRate,
		LeadsByStage:   make([]stageEntry, 0, len(s.LeadsByStage)),
		LeadsByStatus:  make([]statusEntry, 0, len(s.LeadsByStatus)),
	}
	for _, sc := range s.LeadsByStage {
		entry.LeadsByStage = append(entry.LeadsByStage, stageEntry{Stage: string(sc.Stage), Count: sc.Count})
	}
	for _, sc := range s.LeadsByStatus {
		entry.LeadsByStatus = append(entry.LeadsByStatus, statusEntry{Status: string(sc.Status), Count: sc.Count})
	}
	return entry
}

func (e summaryEntry) toDomain() *domain.AnalyticsSummary {
	s := &domain.AnalyticsSummary{
		TotalLeads:     e.TotalLeads,
		ConvertedLeads: e.ConvertedLeads,
		ConversionRate: e.ConversionRate,
		LeadsByStage:   make([]domain.StageCount, 0, len(e.LeadsByStage)),
		LeadsByStatus:  make([]domain.StatusCount, 0, len(e.LeadsByStatus)),
	}
	for _, sc := range e.LeadsByStage {
		s.LeadsByStage = append(s.LeadsByStage, domain.StageCount{Stage: domain.LeadStage(sc.Stage), Count: sc.Count})
	}
	for _, sc := range e.LeadsByStatus {
		s.LeadsByStatus = append(s.LeadsByStatus, domain.StatusCount{Status: domain.LeadStatus(sc.Status), Count: sc.Count})
	}
	return s
}
