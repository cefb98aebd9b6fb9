// Package testing provides database helpers shared by the tracker's tests.
package testing

import (
	"path/filepath"
	"testing"

	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/database"
)

// NewTestDB creates a file-backed SQLite database in a per-test temp
// directory and applies the embedded schema for name ("ledger" or "cache").
// The database is closed automatically when the test finishes; the returned
// cleanup function may also be called early and is idempotent.
func NewTestDB(t *testing.T, name string) (*database.DB, func()) {
	t.Helper()

	profile := database.ProfileLedger
	if name == database.NameCache {
		profile = database.ProfileCache
	}

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), name+".db"),
		Profile: profile,
		Name:    name,
	})
	if err != nil {
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to migrate test database %s: %v", name, err)
	}

	closed := false
	cleanup := func() {
		if closed {
			return
		}
		closed = true
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database %s: %v", name, err)
		}
	}
	t.Cleanup(cleanup)

	return db, cleanup
}
