package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func TestMigrateRoundTripCompatibility(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate-roundtrip.db")
	db, err := sql.Open(DriverCGO, dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first migrate up failed: %v", err)
	}

	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down failed: %v", err)
	}

	if err := MigrateUp(db); err != nil {
		t.Fatalf("second migrate up failed: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}

	if err := repo.Put(t.Context(), Record{Key: "todo-rt-1", Value: []byte(`{"title":"Roundtrip"}`)}); err != nil {
		t.Fatalf("insert after roundtrip failed: %v", err)
	}

	got, err := repo.Get(t.Context(), "todo-rt-1")
	if err != nil {
		t.Fatalf("get after roundtrip failed: %v", err)
	}
	if string(got.Value) != `{"title":"Roundtrip"}` {
		t.Fatalf("unexpected value after roundtrip: %q", got.Value)
	}
}

func TestMigrateUpIsRepeatable(t *testing.T) {
	db, err := sql.Open(DriverPureGo, filepath.Join(t.TempDir(), "repeat.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	for i := 0; i < 2; i++ {
		if err := MigrateUp(db); err != nil {
			t.Fatalf("migrate up #%d failed: %v", i+1, err)
		}
	}
}
