package persistence

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/lead-dashboard/migrations"
)

func TestMigrationFilesSortedAndFiltered(t *testing.T) {
	fsys := fstest.MapFS{
		"002_indexes.sql": {Data: []byte("select 2;")},
		"001_leads.sql":   {Data: []byte("select 1;")},
		"README.md":       {Data: []byte("docs")},
		"archive/x.sql":   {Data: []byte("select 0;")},
	}

	names, err := migrationFiles(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_leads.sql", "002_indexes.sql"}, names)
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	names, err := migrationFiles(migrations.FS)
	require.NoError(t, err)
	assert.NotEmpty(t, names)
}
