package testsupport

import (
	"context"
	"testing"
	"time"

	"storevisit/internal/config"
	"storevisit/internal/sessiondb"
)

// MustOpenDB opens the session database for cfg and registers cleanup.
func MustOpenDB(t testing.TB, cfg *config.Config) *sessiondb.DB {
	t.Helper()

	db, err := sessiondb.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("sessiondb.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// NewSessionRow inserts an empty session with the given id.
func NewSessionRow(t testing.TB, db *sessiondb.DB, id string, at time.Time) *sessiondb.SessionInfo {
	t.Helper()

	info, err := db.CreateSession(context.Background(), id, at)
	if err != nil {
		t.Fatalf("db.CreateSession: %v", err)
	}
	return info
}
