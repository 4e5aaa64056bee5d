package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/holical/internal/ir"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createMemoryStore creates an in-memory store.
func createMemoryStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func birth(name string, y int, m time.Month, d int) ir.LifeEventRecord {
	return ir.LifeEventRecord{Kind: ir.KindBirth, Name: name, Date: ir.NewDate(y, m, d)}
}

func marriage(name, spouse string, y int, m time.Month, d int) ir.LifeEventRecord {
	return ir.LifeEventRecord{Kind: ir.KindMarriage, Name: name, Spouse: spouse, Date: ir.NewDate(y, m, d)}
}

func datePtr(y int, m time.Month, d int) *ir.Date {
	date := ir.NewDate(y, m, d)
	return &date
}
