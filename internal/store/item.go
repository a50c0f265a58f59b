package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/greyhelm/codex/internal/entity"
)

const itemCols = `id, name, source, page, item_type, rarity, value, weight, token_path, payload`

const upsertItemSQL = `
	INSERT INTO items (name, source, page, item_type, rarity, value, weight, payload)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(name, source) DO UPDATE SET
		page      = excluded.page,
		item_type = excluded.item_type,
		rarity    = excluded.rarity,
		value     = excluded.value,
		weight    = excluded.weight,
		payload   = excluded.payload`

// UpsertItem inserts or updates one item keyed on (name, source).
// On conflict every summary column and the payload are refreshed;
// token_path is preserved because it is set after import.
func (s *Store) UpsertItem(ctx context.Context, it *entity.Item) error {
	_, err := s.DB.ExecContext(ctx, upsertItemSQL,
		it.Name, it.Source, it.Page, it.ItemType, it.Rarity, it.Value,
		it.Weight, string(it.Payload))
	if err != nil {
		return fmt.Errorf("upsert item %q (%s): %w", it.Name, it.Source, err)
	}
	return nil
}

// UpsertItems batch-upserts within one transaction.
func (s *Store) UpsertItems(ctx context.Context, items []*entity.Item) error {
	if len(items) == 0 {
		return nil
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertItemSQL)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, it := range items {
		if _, err := stmt.ExecContext(ctx,
			it.Name, it.Source, it.Page, it.ItemType, it.Rarity, it.Value,
			it.Weight, string(it.Payload)); err != nil {
			return fmt.Errorf("upsert item %q (%s): %w", it.Name, it.Source, err)
		}
	}
	return tx.Commit()
}

// GetItemByID retrieves an item by surrogate id, or nil when absent.
func (s *Store) GetItemByID(ctx context.Context, id int64) (*entity.Item, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+itemCols+` FROM items WHERE id = ?`, id)
	return scanItemRow(row)
}

// GetItem retrieves an item by its (name, source) key, or nil.
func (s *Store) GetItem(ctx context.Context, name, source string) (*entity.Item, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+itemCols+` FROM items WHERE name = ? AND source = ?`, name, source)
	return scanItemRow(row)
}

// SearchItems returns all items matching the filter, name ascending.
func (s *Store) SearchItems(ctx context.Context, f ItemFilter) ([]*entity.Item, error) {
	w := f.where()
	return s.queryItems(ctx,
		`SELECT `+itemCols+` FROM items`+w.sql()+` ORDER BY name ASC`, w.args...)
}

// SearchItemsPage is SearchItems with offset pagination.
func (s *Store) SearchItemsPage(ctx context.Context, f ItemFilter, limit, offset int) ([]*entity.Item, error) {
	if limit <= 0 {
		limit = 20
	}
	w := f.where()
	args := append(w.args, limit, offset)
	return s.queryItems(ctx,
		`SELECT `+itemCols+` FROM items`+w.sql()+` ORDER BY name ASC LIMIT ? OFFSET ?`, args...)
}

// CountItems returns the number of items matching the filter.
func (s *Store) CountItems(ctx context.Context, f ItemFilter) (int, error) {
	w := f.where()
	var n int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items`+w.sql(), w.args...).Scan(&n)
	return n, err
}

// CountItemsBySource returns the number of items from one source book.
func (s *Store) CountItemsBySource(ctx context.Context, source string) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE source = ?`, source).Scan(&n)
	return n, err
}

// SetItemTokenPath records a derived asset path for one item.
func (s *Store) SetItemTokenPath(ctx context.Context, id int64, path string) error {
	_, err := s.DB.ExecContext(ctx,
		`UPDATE items SET token_path = ? WHERE id = ?`, path, id)
	if err != nil {
		return fmt.Errorf("set item token path: %w", err)
	}
	return nil
}

// DeleteItemsBySource removes every item from one source book.
func (s *Store) DeleteItemsBySource(ctx context.Context, source string) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM items WHERE source = ?`, source)
	if err != nil {
		return 0, fmt.Errorf("delete items by source %q: %w", source, err)
	}
	return res.RowsAffected()
}

func (s *Store) queryItems(ctx context.Context, query string, args ...any) ([]*entity.Item, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, it)
	}
	return result, rows.Err()
}

func scanItemRow(row *sql.Row) (*entity.Item, error) {
	var it entity.Item
	var payload string
	err := row.Scan(&it.ID, &it.Name, &it.Source, &it.Page, &it.ItemType,
		&it.Rarity, &it.Value, &it.Weight, &it.TokenPath, &payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	it.Payload = []byte(payload)
	return &it, nil
}

func scanItem(rows *sql.Rows) (*entity.Item, error) {
	var it entity.Item
	var payload string
	err := rows.Scan(&it.ID, &it.Name, &it.Source, &it.Page, &it.ItemType,
		&it.Rarity, &it.Value, &it.Weight, &it.TokenPath, &payload)
	if err != nil {
		return nil, fmt.Errorf("scan item: %w", err)
	}
	it.Payload = []byte(payload)
	return &it, nil
}
