package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harvesthub/internal/config"
	"harvesthub/internal/model"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	cfg := &config.Config{
		DBDriver:   config.DBDriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "harvesthub.db"),
	}

	conn, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(conn) })

	require.NoError(t, Migrate(conn))
	for _, table := range []string{"users", "food_listings", "matches", "payments"} {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}

	require.NoError(t, Reset(conn))
	assert.False(t, conn.Migrator().HasTable(&model.User{}))
	assert.False(t, conn.Migrator().HasTable(&model.Match{}))
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}
