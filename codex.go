// Package codex is an embeddable catalog and search library for tabletop
// reference content. It ingests a directory corpus of per-type JSON files
// (creatures, spells, items), normalizes each entity into filterable
// summary rows, and maintains a unified full-text index across all types.
//
// The catalog tables and the search index are deliberately independent:
// importing fills the catalog, and index rows are written only by explicit
// Index/Reindex calls. Keeping the two consistent is caller discipline —
// remove or clear before re-indexing — not a database constraint.
//
// Usage:
//
//	lib, err := codex.Open(&codex.Config{DBPath: "codex.db"}, logger)
//	defer lib.Close()
//	report, err := lib.ImportFromDirectory(ctx, "/data/corpus")
//	err = lib.RebuildIndex(ctx)
//	hits, err := lib.SearchText(ctx, `"breathes fire"`, 10)
//
// Reads may run concurrently; writes (import, index mutation) must be
// serialized by the caller. The caller must blank-import a driver
// registered as "sqlite":
//
//	import _ "modernc.org/sqlite"
package codex

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/greyhelm/codex/internal/entity"
	"github.com/greyhelm/codex/internal/importer"
	"github.com/greyhelm/codex/internal/store"
)

// Library is the main codex handle: one open database plus the import
// pipeline.
type Library struct {
	store    *store.Store
	importer *importer.Importer
	logger   *slog.Logger
	config   *Config
}

// Open opens (or creates) the codex database and returns a ready Library.
func Open(cfg *Config, logger *slog.Logger) (*Library, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &Library{
		store:    st,
		importer: importer.New(st, logger),
		logger:   logger,
		config:   cfg,
	}, nil
}

// NewWithDB wraps an already-opened database (schema must be applied).
// Useful for tests and embedding contexts that manage the connection.
func NewWithDB(db *sql.DB, logger *slog.Logger) *Library {
	if logger == nil {
		logger = slog.Default()
	}
	st := store.NewStore(db)
	cfg := &Config{}
	cfg.defaults()
	return &Library{
		store:    st,
		importer: importer.New(st, logger),
		logger:   logger,
		config:   cfg,
	}
}

// Close closes the database.
func (l *Library) Close() error {
	return l.store.Close()
}

// --- Import ---

// ImportFromDirectory ingests a corpus directory tree. Best-effort: bad
// files and bad records are skipped and reported, never aborting the run.
// Safe to re-run over the same corpus.
func (l *Library) ImportFromDirectory(ctx context.Context, dir string) (*ImportReport, error) {
	return l.importer.ImportDirectory(ctx, dir)
}

// ImportHistory returns recent import-run records, newest first.
func (l *Library) ImportHistory(ctx context.Context, limit int) ([]*ImportLogEntry, error) {
	return l.store.ListImports(ctx, limit)
}

// --- Monsters ---

func (l *Library) SearchMonsters(ctx context.Context, f MonsterFilter) ([]*Monster, error) {
	return l.store.SearchMonsters(ctx, f)
}

func (l *Library) SearchMonstersPage(ctx context.Context, f MonsterFilter, limit, offset int) ([]*Monster, error) {
	if limit <= 0 {
		limit = l.config.Search.DefaultLimit
	}
	return l.store.SearchMonstersPage(ctx, f, limit, offset)
}

func (l *Library) GetMonster(ctx context.Context, name, source string) (*Monster, error) {
	return l.store.GetMonster(ctx, name, source)
}

func (l *Library) GetMonsterByID(ctx context.Context, id int64) (*Monster, error) {
	return l.store.GetMonsterByID(ctx, id)
}

func (l *Library) CountMonsters(ctx context.Context, f MonsterFilter) (int, error) {
	return l.store.CountMonsters(ctx, f)
}

func (l *Library) CountMonstersBySource(ctx context.Context, source string) (int, error) {
	return l.store.CountMonstersBySource(ctx, source)
}

// SetMonsterTokenPath attaches a derived token image path to one monster
// after import.
func (l *Library) SetMonsterTokenPath(ctx context.Context, id int64, path string) error {
	return l.store.SetMonsterTokenPath(ctx, id, path)
}

// --- Spells ---

func (l *Library) SearchSpells(ctx context.Context, f SpellFilter) ([]*Spell, error) {
	return l.store.SearchSpells(ctx, f)
}

func (l *Library) SearchSpellsPage(ctx context.Context, f SpellFilter, limit, offset int) ([]*Spell, error) {
	if limit <= 0 {
		limit = l.config.Search.DefaultLimit
	}
	return l.store.SearchSpellsPage(ctx, f, limit, offset)
}

func (l *Library) GetSpell(ctx context.Context, name, source string) (*Spell, error) {
	return l.store.GetSpell(ctx, name, source)
}

func (l *Library) GetSpellByID(ctx context.Context, id int64) (*Spell, error) {
	return l.store.GetSpellByID(ctx, id)
}

func (l *Library) CountSpells(ctx context.Context, f SpellFilter) (int, error) {
	return l.store.CountSpells(ctx, f)
}

func (l *Library) CountSpellsBySource(ctx context.Context, source string) (int, error) {
	return l.store.CountSpellsBySource(ctx, source)
}

// SetSpellTokenPath attaches a derived asset path to one spell after
// import.
func (l *Library) SetSpellTokenPath(ctx context.Context, id int64, path string) error {
	return l.store.SetSpellTokenPath(ctx, id, path)
}

// --- Items ---

func (l *Library) SearchItems(ctx context.Context, f ItemFilter) ([]*Item, error) {
	return l.store.SearchItems(ctx, f)
}

func (l *Library) SearchItemsPage(ctx context.Context, f ItemFilter, limit, offset int) ([]*Item, error) {
	if limit <= 0 {
		limit = l.config.Search.DefaultLimit
	}
	return l.store.SearchItemsPage(ctx, f, limit, offset)
}

func (l *Library) GetItem(ctx context.Context, name, source string) (*Item, error) {
	return l.store.GetItem(ctx, name, source)
}

func (l *Library) GetItemByID(ctx context.Context, id int64) (*Item, error) {
	return l.store.GetItemByID(ctx, id)
}

func (l *Library) CountItems(ctx context.Context, f ItemFilter) (int, error) {
	return l.store.CountItems(ctx, f)
}

func (l *Library) CountItemsBySource(ctx context.Context, source string) (int, error) {
	return l.store.CountItemsBySource(ctx, source)
}

// SetItemTokenPath attaches a derived asset path to one item after import.
func (l *Library) SetItemTokenPath(ctx context.Context, id int64, path string) error {
	return l.store.SetItemTokenPath(ctx, id, path)
}

// --- Source books ---

// RemoveSource deletes every catalog row and every index row belonging to
// one source book, index first so no stale hits survive. Returns the
// number of catalog rows removed.
func (l *Library) RemoveSource(ctx context.Context, source string) (int64, error) {
	var total int64

	monsters, err := l.store.SearchMonsters(ctx, MonsterFilter{Sources: []string{source}})
	if err != nil {
		return 0, err
	}
	for _, m := range monsters {
		if err := l.store.RemoveEntityFromIndex(ctx, TypeMonster, m.ID); err != nil {
			return total, err
		}
	}
	n, err := l.store.DeleteMonstersBySource(ctx, source)
	if err != nil {
		return total, err
	}
	total += n

	spells, err := l.store.SearchSpells(ctx, SpellFilter{Sources: []string{source}})
	if err != nil {
		return total, err
	}
	for _, sp := range spells {
		if err := l.store.RemoveEntityFromIndex(ctx, TypeSpell, sp.ID); err != nil {
			return total, err
		}
	}
	n, err = l.store.DeleteSpellsBySource(ctx, source)
	if err != nil {
		return total, err
	}
	total += n

	items, err := l.store.SearchItems(ctx, ItemFilter{Sources: []string{source}})
	if err != nil {
		return total, err
	}
	for _, it := range items {
		if err := l.store.RemoveEntityFromIndex(ctx, TypeItem, it.ID); err != nil {
			return total, err
		}
	}
	n, err = l.store.DeleteItemsBySource(ctx, source)
	if err != nil {
		return total, err
	}
	total += n

	l.logger.Info("source removed", "source", source, "rows", total)
	return total, nil
}

// --- Full-text search ---

// IndexEntity appends one row to the unified search index. Callers
// re-indexing an entity must call RemoveEntityFromIndex first — the
// indexer is additive and never deduplicates.
func (l *Library) IndexEntity(ctx context.Context, entityType string, entityID int64, contentType, name, text string) error {
	return l.store.IndexEntity(ctx, entityType, entityID, contentType, name, text)
}

// RemoveEntityFromIndex removes all index rows (both content classes) for
// one entity.
func (l *Library) RemoveEntityFromIndex(ctx context.Context, entityType string, entityID int64) error {
	return l.store.RemoveEntityFromIndex(ctx, entityType, entityID)
}

// ClearEntityTypeFromIndex removes all index rows for one entity type.
func (l *Library) ClearEntityTypeFromIndex(ctx context.Context, entityType string) error {
	return l.store.ClearEntityTypeFromIndex(ctx, entityType)
}

// ClearIndex wipes the search index.
func (l *Library) ClearIndex(ctx context.Context) error {
	return l.store.ClearIndex(ctx)
}

// SearchText performs ranked full-text search across every entity type and
// content class. FTS5 syntax: AND/OR, quoted phrases, stemmed terms.
func (l *Library) SearchText(ctx context.Context, query string, limit int) ([]*SearchHit, error) {
	return l.searchText(ctx, query, limit, "", "")
}

// SearchTextByEntityType restricts full-text search to one entity type.
func (l *Library) SearchTextByEntityType(ctx context.Context, query string, limit int, entityType string) ([]*SearchHit, error) {
	return l.searchText(ctx, query, limit, entityType, "")
}

// SearchTextByContentType restricts full-text search to one content class.
func (l *Library) SearchTextByContentType(ctx context.Context, query string, limit int, contentType string) ([]*SearchHit, error) {
	return l.searchText(ctx, query, limit, "", contentType)
}

// SearchTextFiltered restricts full-text search by entity type and content
// class at once. Empty strings mean "any".
func (l *Library) SearchTextFiltered(ctx context.Context, query string, limit int, entityType, contentType string) ([]*SearchHit, error) {
	return l.searchText(ctx, query, limit, entityType, contentType)
}

func (l *Library) searchText(ctx context.Context, query string, limit int, entityType, contentType string) ([]*SearchHit, error) {
	if limit <= 0 {
		limit = l.config.Search.DefaultLimit
	}
	return l.store.SearchText(ctx, query, limit, entityType, contentType)
}

// CountIndexed returns the total number of index rows.
func (l *Library) CountIndexed(ctx context.Context) (int, error) {
	return l.store.CountIndexed(ctx)
}

// CountIndexedByType returns the number of index rows for one entity type.
func (l *Library) CountIndexedByType(ctx context.Context, entityType string) (int, error) {
	return l.store.CountIndexedByType(ctx, entityType)
}

// --- Index rebuild ---

// RebuildIndex wipes the search index and re-derives rules text for every
// catalog row (entity name plus its flattened entries). Fluff text is not
// recreated — it is indexed by callers that hold the lore sources.
func (l *Library) RebuildIndex(ctx context.Context) error {
	if err := l.store.ClearIndex(ctx); err != nil {
		return err
	}
	for _, typ := range []string{TypeMonster, TypeSpell, TypeItem} {
		if err := l.reindexType(ctx, typ); err != nil {
			return err
		}
	}
	return nil
}

// ReindexEntityType clears and re-derives index rows for one entity type.
func (l *Library) ReindexEntityType(ctx context.Context, entityType string) error {
	switch entityType {
	case TypeMonster, TypeSpell, TypeItem:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEntityType, entityType)
	}
	if err := l.store.ClearEntityTypeFromIndex(ctx, entityType); err != nil {
		return err
	}
	return l.reindexType(ctx, entityType)
}

func (l *Library) reindexType(ctx context.Context, typ string) error {
	index := func(id int64, name string, payload []byte) error {
		return l.store.IndexEntity(ctx, typ, id, ContentRules, name, indexText(name, payload))
	}

	switch typ {
	case TypeMonster:
		monsters, err := l.store.SearchMonsters(ctx, MonsterFilter{})
		if err != nil {
			return err
		}
		for _, m := range monsters {
			if err := index(m.ID, m.Name, m.Payload); err != nil {
				return err
			}
		}
	case TypeSpell:
		spells, err := l.store.SearchSpells(ctx, SpellFilter{})
		if err != nil {
			return err
		}
		for _, sp := range spells {
			if err := index(sp.ID, sp.Name, sp.Payload); err != nil {
				return err
			}
		}
	case TypeItem:
		items, err := l.store.SearchItems(ctx, ItemFilter{})
		if err != nil {
			return err
		}
		for _, it := range items {
			if err := index(it.ID, it.Name, it.Payload); err != nil {
				return err
			}
		}
	}
	l.logger.Info("index rebuilt", "entity_type", typ)
	return nil
}

// indexText derives the searchable rules text for one entity: its name
// plus the flattened entries of the verbatim payload.
func indexText(name string, payload []byte) string {
	var obj map[string]any
	if err := json.Unmarshal(payload, &obj); err != nil {
		return name
	}
	if entries := entity.EntryText(obj); entries != "" {
		return name + "\n" + entries
	}
	return name
}

// --- Stats ---

// Stats holds aggregate catalog and index counts.
type Stats struct {
	Monsters int `json:"monsters"`
	Spells   int `json:"spells"`
	Items    int `json:"items"`
	Indexed  int `json:"indexed"`
}

// Stats returns aggregate counts for the whole library.
func (l *Library) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	var err error
	if st.Monsters, err = l.store.CountMonsters(ctx, MonsterFilter{}); err != nil {
		return nil, err
	}
	if st.Spells, err = l.store.CountSpells(ctx, SpellFilter{}); err != nil {
		return nil, err
	}
	if st.Items, err = l.store.CountItems(ctx, ItemFilter{}); err != nil {
		return nil, err
	}
	if st.Indexed, err = l.store.CountIndexed(ctx); err != nil {
		return nil, err
	}
	return &st, nil
}
