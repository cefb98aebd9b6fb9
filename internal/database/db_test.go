package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T, name string, profile DatabaseProfile) *DB {
	t.Helper()

	db, err := New(Config{
		Path:    filepath.Join(t.TempDir(), name+".db"),
		Profile: profile,
		Name:    name,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *DB, table string) bool {
	t.Helper()

	var count int
	err := db.Conn().QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table,
	).Scan(&count)
	require.NoError(t, err)
	return count == 1
}

func TestNew_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "ledger.db")

	db, err := New(Config{Path: path, Profile: ProfileLedger, Name: NameLedger})
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, path)
	assert.Equal(t, path, db.Path())
	assert.Equal(t, ProfileLedger, db.Profile())
	assert.Equal(t, NameLedger, db.Name())
}

func TestNew_DefaultsToLedgerProfile(t *testing.T) {
	db := newTestDB(t, "scratch", "")
	assert.Equal(t, ProfileLedger, db.Profile())
}

func TestNew_RejectsUnknownProfile(t *testing.T) {
	_, err := New(Config{
		Path:    filepath.Join(t.TempDir(), "scratch.db"),
		Profile: "standard",
		Name:    "scratch",
	})
	assert.Error(t, err)
}

func TestBuildConnectionString(t *testing.T) {
	ledger := buildConnectionString("/tmp/ledger.db", ProfileLedger)
	assert.Contains(t, ledger, "/tmp/ledger.db?_pragma=journal_mode(WAL)")
	assert.Contains(t, ledger, "synchronous(FULL)")
	assert.Contains(t, ledger, "foreign_keys(1)")

	cache := buildConnectionString("/tmp/cache.db", ProfileCache)
	assert.Contains(t, cache, "synchronous(OFF)")

	mem := buildConnectionString("file:test?mode=memory", ProfileLedger)
	assert.Contains(t, mem, "file:test?mode=memory&_pragma=journal_mode(WAL)")
	assert.Contains(t, mem, "synchronous(FULL)")
}

func TestMigrate_Ledger(t *testing.T) {
	db := newTestDB(t, NameLedger, ProfileLedger)
	require.NoError(t, db.Migrate())

	for _, table := range []string{"portfolios", "assets", "bonds", "transactions"} {
		assert.True(t, tableExists(t, db, table), table)
	}

	// Idempotent
	require.NoError(t, db.Migrate())
}

func TestMigrate_Cache(t *testing.T) {
	db := newTestDB(t, NameCache, ProfileCache)
	require.NoError(t, db.Migrate())

	assert.True(t, tableExists(t, db, "price_cache"))
	assert.True(t, tableExists(t, db, "currency_cache"))
}

func TestMigrate_UnknownNameIsNoop(t *testing.T) {
	db := newTestDB(t, "scratch", ProfileLedger)
	require.NoError(t, db.Migrate())
	assert.False(t, tableExists(t, db, "price_cache"))
}

func TestSchema(t *testing.T) {
	s, err := Schema(NameCache)
	require.NoError(t, err)
	assert.Contains(t, s, "CREATE TABLE IF NOT EXISTS price_cache")

	_, err = Schema("nope")
	assert.Error(t, err)
}

func TestWithTransaction(t *testing.T) {
	db := newTestDB(t, NameCache, ProfileCache)
	require.NoError(t, db.Migrate())

	countRows := func() int {
		var n int
		require.NoError(t, db.Conn().QueryRow("SELECT COUNT(*) FROM currency_cache").Scan(&n))
		return n
	}

	insert := func(tx *sql.Tx) error {
		_, err := tx.Exec("INSERT INTO currency_cache (currency, rate, fetched_at) VALUES ('USD', 4.0, 1)")
		return err
	}

	t.Run("commits on success", func(t *testing.T) {
		require.NoError(t, WithTransaction(db.Conn(), insert))
		assert.Equal(t, 1, countRows())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
			require.NoError(t, insert(tx))
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, countRows())
	})

	t.Run("rolls back on panic", func(t *testing.T) {
		err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
			require.NoError(t, insert(tx))
			panic("kaboom")
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "panic in transaction")
		assert.Equal(t, 1, countRows())
	})

	t.Run("nil connection", func(t *testing.T) {
		assert.Error(t, WithTransaction(nil, insert))
	})
}

func TestHealthCheck(t *testing.T) {
	db := newTestDB(t, NameLedger, ProfileLedger)
	require.NoError(t, db.Migrate())

	ctx := context.Background()
	assert.NoError(t, db.HealthCheck(ctx))
	assert.NoError(t, db.QuickCheck(ctx))
}
