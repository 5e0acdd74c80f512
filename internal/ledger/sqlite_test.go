package ledger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpenSQLite_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := OpenSQLite(path)
		require.NoError(t, err, "OpenSQLite() iteration %d", i)
		s.Close()
	}

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	var name string
	err = s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='donations'").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "donations", name)
}

func TestOpenSQLite_Pragmas(t *testing.T) {
	s := createTestSQLite(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("synchronous", "1"))
	assert.NoError(t, s.verifyPragma("user_version", "1"))
}

func TestSQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := createTestSQLite(t)

	s, err := Open(ctx, backend)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())

	_, err = s.AddDonation(ctx, "111", amt("50"))
	require.NoError(t, err)
	_, err = s.AddDonation(ctx, "222", amt("0.1"))
	require.NoError(t, err)
	_, err = s.AddDonation(ctx, "222", amt("0.2"))
	require.NoError(t, err)

	reloaded, err := Open(ctx, backend)
	require.NoError(t, err)
	assert.Equal(t, totalsOf(s), totalsOf(reloaded))

	total, ok := reloaded.Total("222")
	require.True(t, ok)
	assert.Equal(t, "0.3", total.String(), "decimal totals survive storage exactly")
}

func TestSQLite_SaveReplacesRows(t *testing.T) {
	ctx := context.Background()
	backend := createTestSQLite(t)

	require.NoError(t, backend.Save(ctx, []Entry{
		{UserID: "1", Total: amt("1")},
		{UserID: "2", Total: amt("2")},
	}))
	require.NoError(t, backend.Save(ctx, []Entry{
		{UserID: "2", Total: amt("5")},
	}))

	entries, err := backend.Load(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2", entries[0].UserID)
	assert.Equal(t, "5", entries[0].Total.String())
}

func TestSQLite_MalformedTotal(t *testing.T) {
	backend := createTestSQLite(t)

	_, err := backend.db.Exec(`INSERT INTO donations (user_id, total) VALUES ('1', 'lots')`)
	require.NoError(t, err)

	_, err = Open(context.Background(), backend)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestOpenBackend(t *testing.T) {
	dir := t.TempDir()

	jb, err := OpenBackend(BackendJSON, filepath.Join(dir, "d.json"))
	require.NoError(t, err)
	assert.IsType(t, &JSONFile{}, jb)
	require.NoError(t, jb.Close())

	sb, err := OpenBackend(BackendSQLite, filepath.Join(dir, "d.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, sb)
	require.NoError(t, sb.Close())

	_, err = OpenBackend("postgres", "x")
	assert.Error(t, err)
}
