package migrations

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestEmbeddedMigrationsLoad(t *testing.T) {
	m := NewMigrator(nil, Embedded(), nil)

	migrations, err := m.LoadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	assert.Equal(t, "001", migrations[0].Version)
	assert.Equal(t, "create strategy charts", migrations[0].Description)
	assert.Contains(t, migrations[0].SQL, "strategy_entries")
}

func TestMigrateUpIsIdempotent(t *testing.T) {
	db := openDB(t)
	m := NewMigrator(db, Embedded(), nil)

	applied, err := m.MigrateUp()
	require.NoError(t, err)
	assert.Equal(t, 2, applied)

	applied, err = m.MigrateUp()
	require.NoError(t, err)
	assert.Zero(t, applied)

	_, err = db.Exec("INSERT INTO strategy_charts (id, rules, created_at) VALUES ('a', '{}', CURRENT_TIMESTAMP)")
	assert.NoError(t, err)
}

func TestLoadMigrationsOrdersAndValidates(t *testing.T) {
	source := fstest.MapFS{
		"002_second.sql": {Data: []byte("SELECT 2;")},
		"001_first.sql":  {Data: []byte("SELECT 1;")},
		"README.md":      {Data: []byte("ignored")},
	}

	migrations, err := NewMigrator(nil, source, nil).LoadMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, "001", migrations[0].Version)
	assert.Equal(t, "002", migrations[1].Version)

	source["bad.sql"] = &fstest.MapFile{Data: []byte("SELECT 3;")}
	_, err = NewMigrator(nil, source, nil).LoadMigrations()
	assert.Error(t, err)
}

func TestFailedMigrationIsNotRecorded(t *testing.T) {
	db := openDB(t)
	m := NewMigrator(db, fstest.MapFS{"001_broken.sql": {Data: []byte("CREATE TABLE (")}}, nil)

	_, err := m.MigrateUp()
	require.Error(t, err)

	applied, err := m.GetAppliedMigrations()
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	first, err := CreateMigration(dir, "add notes", now)
	require.NoError(t, err)
	assert.Equal(t, "001_add_notes.sql", filepath.Base(first))

	second, err := CreateMigration(dir, "drop notes", now)
	require.NoError(t, err)
	assert.Equal(t, "002_drop_notes.sql", filepath.Base(second))

	content, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Contains(t, string(content), "-- Created: 2024-03-01T12:00:00Z")
}
