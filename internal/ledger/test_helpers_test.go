package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

func amt(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// createTestSQLite opens a SQLite backend in a temp dir.
func createTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// memBackend is an in-memory Backend that can be told to fail saves.
type memBackend struct {
	entries []Entry
	saves   int
	failErr error
}

func (m *memBackend) Load(ctx context.Context) ([]Entry, error) {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *memBackend) Save(ctx context.Context, entries []Entry) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.saves++
	m.entries = make([]Entry, len(entries))
	copy(m.entries, entries)
	return nil
}

// totalsOf flattens a store to user id -> total string for comparison.
func totalsOf(s *Store) map[string]string {
	out := make(map[string]string, s.Len())
	for _, e := range s.Entries() {
		out[e.UserID] = e.Total.String()
	}
	return out
}

var errDiskFull = errors.New("disk full")
