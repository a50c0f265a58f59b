package store

import (
	"context"
	"fmt"
)

// Content classes for indexed text.
const (
	ContentRules = "rules" // mechanical text (stat blocks, spell text)
	ContentFluff = "fluff" // lore and flavor text
)

// SearchHit is one ranked full-text match. Callers join back to the
// catalog tables via (EntityType, EntityID) for full content.
type SearchHit struct {
	EntityType  string  `json:"entity_type"`
	EntityID    int64   `json:"entity_id"`
	ContentType string  `json:"content_type"`
	Name        string  `json:"name"`
	Rank        float64 `json:"rank"` // bm25 rank, lower is better
}

// IndexEntity appends one row to the unified search index. Additive: the
// indexer never deduplicates, so callers re-indexing an entity must call
// RemoveEntityFromIndex first.
func (s *Store) IndexEntity(ctx context.Context, entityType string, entityID int64, contentType, name, text string) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO search_index (entity_type, entity_id, content_type, name, content)
		VALUES (?, ?, ?, ?, ?)`,
		entityType, entityID, contentType, name, text)
	if err != nil {
		return fmt.Errorf("index %s/%d: %w", entityType, entityID, err)
	}
	return nil
}

// RemoveEntityFromIndex removes every index row (all content types) for
// one entity.
func (s *Store) RemoveEntityFromIndex(ctx context.Context, entityType string, entityID int64) error {
	_, err := s.DB.ExecContext(ctx,
		`DELETE FROM search_index WHERE entity_type = ? AND entity_id = ?`,
		entityType, entityID)
	if err != nil {
		return fmt.Errorf("remove %s/%d from index: %w", entityType, entityID, err)
	}
	return nil
}

// ClearEntityTypeFromIndex removes every index row for one entity type,
// ahead of a full-type re-import.
func (s *Store) ClearEntityTypeFromIndex(ctx context.Context, entityType string) error {
	_, err := s.DB.ExecContext(ctx,
		`DELETE FROM search_index WHERE entity_type = ?`, entityType)
	if err != nil {
		return fmt.Errorf("clear %s from index: %w", entityType, err)
	}
	return nil
}

// ClearIndex wipes the whole search index for a complete rebuild.
func (s *Store) ClearIndex(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM search_index`); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	return nil
}

// SearchText performs ranked full-text search. The query uses FTS5 syntax:
// AND/OR operators, quoted exact phrases, and porter-stemmed terms.
// Malformed query syntax surfaces as the driver's parse error.
// entityType and contentType are optional equality filters ("" = any).
// Ties on rank break by name ascending.
func (s *Store) SearchText(ctx context.Context, query string, limit int, entityType, contentType string) ([]*SearchHit, error) {
	if limit <= 0 {
		limit = 20
	}

	sql := `SELECT entity_type, entity_id, content_type, name, rank
		FROM search_index WHERE search_index MATCH ?`
	args := []any{query}
	if entityType != "" {
		sql += ` AND entity_type = ?`
		args = append(args, entityType)
	}
	if contentType != "" {
		sql += ` AND content_type = ?`
		args = append(args, contentType)
	}
	sql += ` ORDER BY rank, name ASC LIMIT ?`
	args = append(args, limit)

	rows, err := s.DB.QueryContext(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("fts search: %w", err)
	}
	defer rows.Close()

	var hits []*SearchHit
	for rows.Next() {
		var h SearchHit
		if err := rows.Scan(&h.EntityType, &h.EntityID, &h.ContentType, &h.Name, &h.Rank); err != nil {
			return nil, fmt.Errorf("scan search hit: %w", err)
		}
		hits = append(hits, &h)
	}
	return hits, rows.Err()
}

// CountIndexed returns the total number of index rows.
func (s *Store) CountIndexed(ctx context.Context) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM search_index`).Scan(&n)
	return n, err
}

// CountIndexedByType returns the number of index rows for one entity type.
func (s *Store) CountIndexedByType(ctx context.Context, entityType string) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM search_index WHERE entity_type = ?`, entityType).Scan(&n)
	return n, err
}

// CountIndexedForEntity returns the number of index rows (across content
// types) for one entity.
func (s *Store) CountIndexedForEntity(ctx context.Context, entityType string, entityID int64) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM search_index WHERE entity_type = ? AND entity_id = ?`,
		entityType, entityID).Scan(&n)
	return n, err
}
