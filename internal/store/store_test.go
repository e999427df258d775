package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/specbuilder/internal/testutil"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path, testutil.Schema())
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpen_RequiresSchema(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
	assert.ErrorContains(t, err, "schema is required")
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path, testutil.Schema())
		require.NoError(t, err, "Open() iteration %d", i)
		s.Close()
	}

	s, err := Open(path, testutil.Schema())
	require.NoError(t, err)
	defer s.Close()

	tables := []string{"employees", "phones", "social_securities", "specb_executions"}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		assert.NoError(t, err, "table %q not found after idempotent opens", table)
	}

	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "test.db"), testutil.Schema())
	assert.Error(t, err)
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{}
	assert.NoError(t, s.Close())
}

func TestPragmas(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	testCases := []struct {
		name string
		want string
	}{
		{name: "journal_mode", want: "wal"},
		{name: "synchronous", want: "1"}, // NORMAL = 1
		{name: "busy_timeout", want: "5000"},
		{name: "foreign_keys", want: "1"}, // ON = 1
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NoError(t, s.verifyPragma(ctx, tc.name, tc.want))
		})
	}
}

func TestSchema_JoinColumnIndexes(t *testing.T) {
	s := createTestStore(t)

	for _, index := range []string{"idx_employees_social_security_id", "idx_phones_fk_employee_id"} {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='index' AND name=?",
			index,
		).Scan(&name)
		assert.NoError(t, err, "index %q not found", index)
	}
}

func TestDefaultIDGenerator_IsUUIDv7(t *testing.T) {
	id := uuidGenerator{}.Generate()
	require.Len(t, id, 36)
	assert.Equal(t, byte('7'), id[14], "version nibble")
	assert.NotEqual(t, id, uuidGenerator{}.Generate())
}
