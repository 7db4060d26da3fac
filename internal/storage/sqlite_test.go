package storage

import (
	"path/filepath"
	"testing"

	"github.com/matsen/rendimento/internal/dataset"
	"github.com/matsen/rendimento/internal/relgraph"
)

// setupTestDB creates a test database loaded with the sample records.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := OpenDB(filepath.Join(t.TempDir(), "cache", "dataset.db"))
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	records := append(dataset.Sample(),
		dataset.Record{Year: 2022, State: "Minas Gerais", Location: "Rural", Dependency: "Estadual"},
		dataset.Record{Year: 2023, State: "Bahia", Location: "Urbana", Dependency: "Privada"},
		dataset.Record{Year: 2023, State: "Minas Gerais", Location: "", Dependency: "Estadual"},
	)
	if err := db.ReplaceRecords(records, "fp-1"); err != nil {
		t.Fatalf("ReplaceRecords() error = %v", err)
	}
	return db
}

func TestReplaceRecords_RoundTrip(t *testing.T) {
	db := setupTestDB(t)

	count, err := db.CountRecords()
	if err != nil {
		t.Fatalf("CountRecords() error = %v", err)
	}
	if count != 9 {
		t.Errorf("CountRecords() = %d, want 9", count)
	}

	got, err := db.QueryRecords(dataset.Filter{})
	if err != nil {
		t.Fatalf("QueryRecords() error = %v", err)
	}
	want := dataset.Sample()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestReplaceRecords_Replaces(t *testing.T) {
	db := setupTestDB(t)

	if err := db.ReplaceRecords(dataset.Sample()[:2], "fp-2"); err != nil {
		t.Fatalf("ReplaceRecords() error = %v", err)
	}
	count, _ := db.CountRecords()
	if count != 2 {
		t.Errorf("CountRecords() = %d after replace, want 2", count)
	}
	fp, _ := db.SourceFingerprint()
	if fp != "fp-2" {
		t.Errorf("SourceFingerprint() = %q, want fp-2", fp)
	}
}

func TestIsStale(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	stale, err := db.IsStale("anything")
	if err != nil || !stale {
		t.Errorf("empty cache IsStale() = %v, %v; want true, nil", stale, err)
	}
	if at, _ := db.RebuiltAt(); !at.IsZero() {
		t.Errorf("empty cache RebuiltAt() = %v, want zero", at)
	}

	if err := db.ReplaceRecords(nil, "abc"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		fingerprint string
		want        bool
	}{
		{"abc", false},
		{"abd", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.fingerprint, func(t *testing.T) {
			got, err := db.IsStale(tt.fingerprint)
			if err != nil {
				t.Fatalf("IsStale() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("IsStale(%q) = %v, want %v", tt.fingerprint, got, tt.want)
			}
		})
	}

	if at, _ := db.RebuiltAt(); at.IsZero() {
		t.Error("RebuiltAt() is zero after rebuild")
	}
}

func TestQueryRecords_Filter(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		name   string
		filter dataset.Filter
		want   int
	}{
		{"default", dataset.DefaultFilter(), 7},
		{"year only", dataset.Filter{Year: 2023}, 8},
		{"state only", dataset.Filter{States: []string{"Minas Gerais"}}, 4},
		{"single state and year", dataset.Filter{Year: 2022, States: []string{"Minas Gerais"}}, 1},
		{"no match", dataset.Filter{Year: 1999}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.QueryRecords(tt.filter)
			if err != nil {
				t.Fatalf("QueryRecords() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("QueryRecords() returned %d records, want %d", len(got), tt.want)
			}
		})
	}
}

func TestDistinctGraphRows(t *testing.T) {
	db := setupTestDB(t)

	records, err := db.QueryRecords(dataset.DefaultFilter())
	if err != nil {
		t.Fatal(err)
	}
	inMemory, _ := dataset.GraphRows(records)
	want := relgraph.Dedupe(inMemory)

	got, err := db.DistinctGraphRows(dataset.DefaultFilter())
	if err != nil {
		t.Fatalf("DistinctGraphRows() error = %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("DistinctGraphRows() returned %d rows, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
