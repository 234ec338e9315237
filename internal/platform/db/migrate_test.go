package db

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsAreOrdered(t *testing.T) {
	entries, err := fs.ReadDir(migrations, migrationsDir)
	require.NoError(t, err)

	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	assert.Equal(t, []string{"00001_identity.sql", "00002_seed_roles.sql"}, names)
}

func TestSeedMigrationCreatesDefaultRoles(t *testing.T) {
	raw, err := fs.ReadFile(migrations, migrationsDir+"/00002_seed_roles.sql")
	require.NoError(t, err)

	body := string(raw)
	assert.True(t, strings.Contains(body, "-- +goose Up"))
	assert.Contains(t, body, "'Admin'")
	assert.Contains(t, body, "'Client'")
}
