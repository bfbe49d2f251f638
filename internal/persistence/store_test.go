package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/lead-dashboard/internal/config"
)

func TestOpenLeadStoreMemory(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.StoreMemory}}

	store, err := OpenLeadStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer store.Close(context.Background())

	assert.NotNil(t, store.Leads)
	assert.Empty(t, store.Dependencies())
}

func TestOpenLeadStorePostgresRequiresDSN(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.StorePostgres}}

	_, err := OpenLeadStore(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "POSTGRES_DSN")
}

func TestOpenLeadStoreUnknownDriver(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "sqlite"}}

	_, err := OpenLeadStore(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
