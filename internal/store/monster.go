package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/greyhelm/codex/internal/entity"
)

const monsterCols = `id, name, source, page, size, creature_type, alignment,
	challenge_rating, challenge_value, hit_points, armor_class, token_path, payload`

const upsertMonsterSQL = `
	INSERT INTO monsters (name, source, page, size, creature_type, alignment,
		challenge_rating, challenge_value, hit_points, armor_class, payload)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(name, source) DO UPDATE SET
		page             = excluded.page,
		size             = excluded.size,
		creature_type    = excluded.creature_type,
		alignment        = excluded.alignment,
		challenge_rating = excluded.challenge_rating,
		challenge_value  = excluded.challenge_value,
		hit_points       = excluded.hit_points,
		armor_class      = excluded.armor_class,
		payload          = excluded.payload`

// UpsertMonster inserts or updates one monster keyed on (name, source).
// On conflict every summary column and the payload are refreshed;
// token_path is preserved because it is set after import.
func (s *Store) UpsertMonster(ctx context.Context, m *entity.Monster) error {
	_, err := s.DB.ExecContext(ctx, upsertMonsterSQL,
		m.Name, m.Source, m.Page, m.Size, m.CreatureType, m.Alignment,
		m.ChallengeRating, m.ChallengeValue, m.HitPoints, m.ArmorClass,
		string(m.Payload))
	if err != nil {
		return fmt.Errorf("upsert monster %q (%s): %w", m.Name, m.Source, err)
	}
	return nil
}

// UpsertMonsters batch-upserts within one transaction. A storage error
// rolls back the whole batch and propagates.
func (s *Store) UpsertMonsters(ctx context.Context, monsters []*entity.Monster) error {
	if len(monsters) == 0 {
		return nil
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertMonsterSQL)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, m := range monsters {
		if _, err := stmt.ExecContext(ctx,
			m.Name, m.Source, m.Page, m.Size, m.CreatureType, m.Alignment,
			m.ChallengeRating, m.ChallengeValue, m.HitPoints, m.ArmorClass,
			string(m.Payload)); err != nil {
			return fmt.Errorf("upsert monster %q (%s): %w", m.Name, m.Source, err)
		}
	}
	return tx.Commit()
}

// GetMonsterByID retrieves a monster by surrogate id, or nil when absent.
func (s *Store) GetMonsterByID(ctx context.Context, id int64) (*entity.Monster, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+monsterCols+` FROM monsters WHERE id = ?`, id)
	return scanMonsterRow(row)
}

// GetMonster retrieves a monster by its (name, source) key, or nil.
func (s *Store) GetMonster(ctx context.Context, name, source string) (*entity.Monster, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+monsterCols+` FROM monsters WHERE name = ? AND source = ?`, name, source)
	return scanMonsterRow(row)
}

// SearchMonsters returns all monsters matching the filter, name ascending.
func (s *Store) SearchMonsters(ctx context.Context, f MonsterFilter) ([]*entity.Monster, error) {
	w := f.where()
	return s.queryMonsters(ctx,
		`SELECT `+monsterCols+` FROM monsters`+w.sql()+` ORDER BY name ASC`, w.args...)
}

// SearchMonstersPage is SearchMonsters with offset pagination.
func (s *Store) SearchMonstersPage(ctx context.Context, f MonsterFilter, limit, offset int) ([]*entity.Monster, error) {
	if limit <= 0 {
		limit = 20
	}
	w := f.where()
	args := append(w.args, limit, offset)
	return s.queryMonsters(ctx,
		`SELECT `+monsterCols+` FROM monsters`+w.sql()+` ORDER BY name ASC LIMIT ? OFFSET ?`, args...)
}

// CountMonsters returns the number of monsters matching the filter.
func (s *Store) CountMonsters(ctx context.Context, f MonsterFilter) (int, error) {
	w := f.where()
	var n int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM monsters`+w.sql(), w.args...).Scan(&n)
	return n, err
}

// CountMonstersBySource returns the number of monsters from one source book.
func (s *Store) CountMonstersBySource(ctx context.Context, source string) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM monsters WHERE source = ?`, source).Scan(&n)
	return n, err
}

// DeleteMonstersBySource removes every monster from one source book and
// returns how many rows were deleted.
func (s *Store) DeleteMonstersBySource(ctx context.Context, source string) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM monsters WHERE source = ?`, source)
	if err != nil {
		return 0, fmt.Errorf("delete monsters by source %q: %w", source, err)
	}
	return res.RowsAffected()
}

// SetMonsterTokenPath records a derived token image path for one monster.
func (s *Store) SetMonsterTokenPath(ctx context.Context, id int64, path string) error {
	_, err := s.DB.ExecContext(ctx,
		`UPDATE monsters SET token_path = ? WHERE id = ?`, path, id)
	return err
}

func (s *Store) queryMonsters(ctx context.Context, query string, args ...any) ([]*entity.Monster, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*entity.Monster
	for rows.Next() {
		m, err := scanMonster(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func scanMonsterRow(row *sql.Row) (*entity.Monster, error) {
	var m entity.Monster
	var payload string
	err := row.Scan(&m.ID, &m.Name, &m.Source, &m.Page, &m.Size, &m.CreatureType,
		&m.Alignment, &m.ChallengeRating, &m.ChallengeValue, &m.HitPoints,
		&m.ArmorClass, &m.TokenPath, &payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan monster: %w", err)
	}
	m.Payload = []byte(payload)
	return &m, nil
}

func scanMonster(rows *sql.Rows) (*entity.Monster, error) {
	var m entity.Monster
	var payload string
	err := rows.Scan(&m.ID, &m.Name, &m.Source, &m.Page, &m.Size, &m.CreatureType,
		&m.Alignment, &m.ChallengeRating, &m.ChallengeValue, &m.HitPoints,
		&m.ArmorClass, &m.TokenPath, &payload)
	if err != nil {
		return nil, fmt.Errorf("scan monster: %w", err)
	}
	m.Payload = []byte(payload)
	return &m, nil
}
