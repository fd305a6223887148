package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrations(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"0002_delivery.up.sql": "CREATE TABLE delivery ();",
		"0001_orders.up.sql":   "CREATE TABLE ozon_new_orders ();",
		"0001_orders.down.sql": "DROP TABLE ozon_new_orders;",
		"README.md":            "ignored",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}

	migs, err := LoadMigrations(dir)
	require.NoError(t, err)
	require.Len(t, migs, 2)

	assert.Equal(t, int64(1), migs[0].Version)
	assert.Equal(t, "0001_orders.up.sql", migs[0].Name)
	assert.Equal(t, int64(2), migs[1].Version)
	assert.Contains(t, migs[1].SQL, "delivery")
}

func TestLoadMigrations_InvalidName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "init.up.sql"), []byte("SELECT 1;"), 0o644))

	_, err := LoadMigrations(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid migration filename")
}

func TestLoadMigrations_MissingDir(t *testing.T) {
	_, err := LoadMigrations(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestLoadMigrations_RepositoryFiles(t *testing.T) {
	migs, err := LoadMigrations(filepath.Join("..", "..", "..", "migrations"))
	require.NoError(t, err)
	require.NotEmpty(t, migs)

	for i, m := range migs {
		assert.Equal(t, int64(i+1), m.Version, "migrations must be numbered without gaps")
	}
}

func TestAdvisoryLockID_Stable(t *testing.T) {
	assert.Equal(t, advisoryLockID("ozon_orders_migrations"), advisoryLockID("ozon_orders_migrations"))
	assert.NotEqual(t, advisoryLockID("a"), advisoryLockID("b"))
}
