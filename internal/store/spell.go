package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/greyhelm/codex/internal/entity"
)

const spellCols = `id, name, source, page, level, school, casting_time,
	spell_range, components, concentration, ritual, token_path, payload`

const upsertSpellSQL = `
	INSERT INTO spells (name, source, page, level, school, casting_time,
		spell_range, components, concentration, ritual, payload)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(name, source) DO UPDATE SET
		page          = excluded.page,
		level         = excluded.level,
		school        = excluded.school,
		casting_time  = excluded.casting_time,
		spell_range   = excluded.spell_range,
		components    = excluded.components,
		concentration = excluded.concentration,
		ritual        = excluded.ritual,
		payload       = excluded.payload`

// UpsertSpell inserts or updates one spell keyed on (name, source).
// On conflict every summary column and the payload are refreshed;
// token_path is preserved because it is set after import.
func (s *Store) UpsertSpell(ctx context.Context, sp *entity.Spell) error {
	_, err := s.DB.ExecContext(ctx, upsertSpellSQL,
		sp.Name, sp.Source, sp.Page, sp.Level, sp.School, sp.CastingTime,
		sp.Range, sp.Components, sp.Concentration, sp.Ritual, string(sp.Payload))
	if err != nil {
		return fmt.Errorf("upsert spell %q (%s): %w", sp.Name, sp.Source, err)
	}
	return nil
}

// UpsertSpells batch-upserts within one transaction.
func (s *Store) UpsertSpells(ctx context.Context, spells []*entity.Spell) error {
	if len(spells) == 0 {
		return nil
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertSpellSQL)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, sp := range spells {
		if _, err := stmt.ExecContext(ctx,
			sp.Name, sp.Source, sp.Page, sp.Level, sp.School, sp.CastingTime,
			sp.Range, sp.Components, sp.Concentration, sp.Ritual,
			string(sp.Payload)); err != nil {
			return fmt.Errorf("upsert spell %q (%s): %w", sp.Name, sp.Source, err)
		}
	}
	return tx.Commit()
}

// GetSpellByID retrieves a spell by surrogate id, or nil when absent.
func (s *Store) GetSpellByID(ctx context.Context, id int64) (*entity.Spell, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+spellCols+` FROM spells WHERE id = ?`, id)
	return scanSpellRow(row)
}

// GetSpell retrieves a spell by its (name, source) key, or nil.
func (s *Store) GetSpell(ctx context.Context, name, source string) (*entity.Spell, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+spellCols+` FROM spells WHERE name = ? AND source = ?`, name, source)
	return scanSpellRow(row)
}

// SearchSpells returns all spells matching the filter, name ascending.
func (s *Store) SearchSpells(ctx context.Context, f SpellFilter) ([]*entity.Spell, error) {
	w := f.where()
	return s.querySpells(ctx,
		`SELECT `+spellCols+` FROM spells`+w.sql()+` ORDER BY name ASC`, w.args...)
}

// SearchSpellsPage is SearchSpells with offset pagination.
func (s *Store) SearchSpellsPage(ctx context.Context, f SpellFilter, limit, offset int) ([]*entity.Spell, error) {
	if limit <= 0 {
		limit = 20
	}
	w := f.where()
	args := append(w.args, limit, offset)
	return s.querySpells(ctx,
		`SELECT `+spellCols+` FROM spells`+w.sql()+` ORDER BY name ASC LIMIT ? OFFSET ?`, args...)
}

// CountSpells returns the number of spells matching the filter.
func (s *Store) CountSpells(ctx context.Context, f SpellFilter) (int, error) {
	w := f.where()
	var n int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM spells`+w.sql(), w.args...).Scan(&n)
	return n, err
}

// CountSpellsBySource returns the number of spells from one source book.
func (s *Store) CountSpellsBySource(ctx context.Context, source string) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM spells WHERE source = ?`, source).Scan(&n)
	return n, err
}

// SetSpellTokenPath records a derived asset path for one spell.
func (s *Store) SetSpellTokenPath(ctx context.Context, id int64, path string) error {
	_, err := s.DB.ExecContext(ctx,
		`UPDATE spells SET token_path = ? WHERE id = ?`, path, id)
	if err != nil {
		return fmt.Errorf("set spell token path: %w", err)
	}
	return nil
}

// DeleteSpellsBySource removes every spell from one source book.
func (s *Store) DeleteSpellsBySource(ctx context.Context, source string) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM spells WHERE source = ?`, source)
	if err != nil {
		return 0, fmt.Errorf("delete spells by source %q: %w", source, err)
	}
	return res.RowsAffected()
}

func (s *Store) querySpells(ctx context.Context, query string, args ...any) ([]*entity.Spell, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*entity.Spell
	for rows.Next() {
		sp, err := scanSpell(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, sp)
	}
	return result, rows.Err()
}

func scanSpellRow(row *sql.Row) (*entity.Spell, error) {
	var sp entity.Spell
	var payload string
	var conc, ritual int
	err := row.Scan(&sp.ID, &sp.Name, &sp.Source, &sp.Page, &sp.Level, &sp.School,
		&sp.CastingTime, &sp.Range, &sp.Components, &conc, &ritual, &sp.TokenPath, &payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan spell: %w", err)
	}
	sp.Concentration = conc != 0
	sp.Ritual = ritual != 0
	sp.Payload = []byte(payload)
	return &sp, nil
}

func scanSpell(rows *sql.Rows) (*entity.Spell, error) {
	var sp entity.Spell
	var payload string
	var conc, ritual int
	err := rows.Scan(&sp.ID, &sp.Name, &sp.Source, &sp.Page, &sp.Level, &sp.School,
		&sp.CastingTime, &sp.Range, &sp.Components, &conc, &ritual, &sp.TokenPath, &payload)
	if err != nil {
		return nil, fmt.Errorf("scan spell: %w", err)
	}
	sp.Concentration = conc != 0
	sp.Ritual = ritual != 0
	sp.Payload = []byte(payload)
	return &sp, nil
}
