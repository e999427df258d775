package store

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/specbuilder/internal/testutil"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// createTestStore creates a new store over the fixture schema for testing.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	opts = append([]Option{WithLogger(discard), WithIDGenerator(testutil.NewSequenceIDGenerator(""))}, opts...)
	s, err := Open(path, testutil.Schema(), opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createSeededStore creates a test store holding the fixture records.
func createSeededStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s := createTestStore(t, opts...)
	require.NoError(t, s.Seed(context.Background(), fixtureRecords()))
	return s
}

func fixtureRecords() []Record {
	src := testutil.Records()
	records := make([]Record, len(src))
	for i, r := range src {
		records[i] = Record{Entity: r.Entity, Values: r.Values}
	}
	return records
}
