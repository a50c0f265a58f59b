package dbopen

import (
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func TestOpenMemory(t *testing.T) {
	// WHAT: OpenMemory returns a usable in-memory database.
	// WHY: Every store test in the module depends on this helper.
	db := OpenMemory(t)
	var one int
	if err := db.QueryRow(`SELECT 1`).Scan(&one); err != nil {
		t.Fatalf("query: %v", err)
	}
	if one != 1 {
		t.Fatalf("got %d, want 1", one)
	}
}

func TestWithSchema(t *testing.T) {
	// WHAT: WithSchema executes DDL after pragmas.
	// WHY: Callers open the database and apply the schema in one step.
	db := OpenMemory(t, WithSchema(`CREATE TABLE things (id INTEGER PRIMARY KEY, name TEXT)`))
	if _, err := db.Exec(`INSERT INTO things (name) VALUES ('x')`); err != nil {
		t.Fatalf("insert into schema table: %v", err)
	}
}

func TestWithSchemaError(t *testing.T) {
	// WHAT: Broken schema SQL fails Open cleanly.
	db, err := Open(":memory:", WithSchema(`CREATE GARBAGE`))
	if err == nil {
		db.Close()
		t.Fatal("expected error for invalid schema")
	}
}

func TestWithMkdirAll(t *testing.T) {
	// WHAT: WithMkdirAll creates missing parent directories.
	path := filepath.Join(t.TempDir(), "nested", "dir", "codex.db")
	db, err := Open(path, WithMkdirAll())
	if err != nil {
		t.Fatalf("open with mkdir: %v", err)
	}
	db.Close()
}

func TestPragmas(t *testing.T) {
	// WHAT: foreign_keys is ON after Open.
	// WHY: delete-by-source relies on it for any referencing tables.
	db := OpenMemory(t)
	var fk int
	if err := db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk); err != nil {
		t.Fatalf("pragma: %v", err)
	}
	if fk != 1 {
		t.Fatalf("foreign_keys: got %d, want 1", fk)
	}
}
