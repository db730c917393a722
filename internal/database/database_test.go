package database

import (
	"path/filepath"
	"testing"
)

func TestNewCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "seed.sqlite")

	db, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestHasUserTablesAndApplySchema(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "seed.sqlite"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer db.Close()

	populated, err := db.HasUserTables()
	if err != nil {
		t.Fatalf("HasUserTables failed: %v", err)
	}
	if populated {
		t.Fatal("fresh database reports user tables")
	}

	if err := db.ApplySchema(); err != nil {
		t.Fatalf("ApplySchema failed: %v", err)
	}

	populated, err = db.HasUserTables()
	if err != nil {
		t.Fatalf("HasUserTables failed: %v", err)
	}
	if !populated {
		t.Fatal("schema applied but no user tables reported")
	}

	// The schema must be insertable end to end.
	if _, err := db.Exec(`
		INSERT INTO organizations (name, domain, created_at, updated_at)
		VALUES ('Acme Corporation', 'acme.corp', '2025-07-01 09:00:00', '2025-07-01 09:00:00')`); err != nil {
		t.Errorf("inserting into organizations failed: %v", err)
	}
}

func TestApplySchemaCreatesViews(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "seed.sqlite"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer db.Close()

	if err := db.ApplySchema(); err != nil {
		t.Fatalf("ApplySchema failed: %v", err)
	}

	for _, view := range []string{"active_tasks", "project_overview"} {
		var n int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + view).Scan(&n); err != nil {
			t.Errorf("querying view %s failed: %v", view, err)
		}
	}
}

func TestTableColumnsProbesOptionalExtensions(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "seed.sqlite"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer db.Close()

	if err := db.ApplySchema(); err != nil {
		t.Fatalf("ApplySchema failed: %v", err)
	}

	columns, err := db.TableColumns("projects")
	if err != nil {
		t.Fatalf("TableColumns failed: %v", err)
	}

	have := make(map[string]bool)
	for _, c := range columns {
		have[c] = true
	}
	for _, want := range []string{"id", "status", "department", "project_type"} {
		if !have[want] {
			t.Errorf("projects missing column %q", want)
		}
	}
}
