package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/greyhelm/codex/idgen"
)

// ImportLogEntry records one import run for observability.
type ImportLogEntry struct {
	ID              string   `json:"id"`
	Directory       string   `json:"directory"`
	TotalEntities   int      `json:"total_entities"`
	SourcesImported []string `json:"sources_imported"`
	SourcesFailed   []string `json:"sources_failed"`
	ImportedAt      int64    `json:"imported_at"`
}

// LogImport appends one import-run record and returns its id.
func (s *Store) LogImport(ctx context.Context, e *ImportLogEntry) (string, error) {
	if e.ID == "" {
		e.ID = idgen.New()
	}
	if e.ImportedAt == 0 {
		e.ImportedAt = time.Now().UnixMilli()
	}
	imported, _ := json.Marshal(e.SourcesImported)
	failed, _ := json.Marshal(e.SourcesFailed)
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO import_log (id, directory, total_entities, sources_imported, sources_failed, imported_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Directory, e.TotalEntities, string(imported), string(failed), e.ImportedAt)
	if err != nil {
		return "", err
	}
	return e.ID, nil
}

// ListImports returns recent import-run records, newest first.
func (s *Store) ListImports(ctx context.Context, limit int) ([]*ImportLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, directory, total_entities, sources_imported, sources_failed, imported_at
		FROM import_log ORDER BY imported_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*ImportLogEntry
	for rows.Next() {
		var e ImportLogEntry
		var imported, failed string
		if err := rows.Scan(&e.ID, &e.Directory, &e.TotalEntities, &imported, &failed, &e.ImportedAt); err != nil {
			return nil, err
		}
		json.Unmarshal([]byte(imported), &e.SourcesImported)
		json.Unmarshal([]byte(failed), &e.SourcesFailed)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
