// Package store provides the SQLite persistence layer for codex: one
// normalized catalog table per entity type plus the unified FTS5 search
// index. The two are deliberately not linked by triggers — index rows are
// written and removed only by explicit calls, so callers control when (and
// with what derived text) an entity becomes searchable.
package store

import (
	"database/sql"

	"github.com/greyhelm/codex/dbopen"
)

// Store is the codex database handle.
type Store struct {
	DB *sql.DB
}

// NewStore wraps an already-opened database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// Open opens (or creates) the codex SQLite database at path, applies the
// production pragmas and the catalog schema.
func Open(path string, opts ...dbopen.Option) (*Store, error) {
	allOpts := append([]dbopen.Option{
		dbopen.WithMkdirAll(),
		dbopen.WithSchema(Schema),
	}, opts...)

	db, err := dbopen.Open(path, allOpts...)
	if err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}
