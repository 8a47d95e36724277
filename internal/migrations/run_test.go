package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	names, err := fs.Glob(migrationsFS, "*.sql")
	require.NoError(t, err)
	assert.Contains(t, names, "0001_checks.up.sql")
	assert.Contains(t, names, "0001_checks.down.sql")
}

func TestRun_EmptyDSN(t *testing.T) {
	assert.Error(t, Run(""))
}
