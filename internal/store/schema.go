package store

// Schema is the complete codex DDL: one catalog table per entity type, the
// unified search index, and the import-run log.
//
// Every catalog table carries (name, source) uniqueness — re-importing the
// same book updates rows in place instead of duplicating them. The search
// index carries no uniqueness at all: keeping it free of stale rows is the
// caller's job (remove before re-index).
const Schema = `
-- Monsters: creature stat blocks
CREATE TABLE IF NOT EXISTS monsters (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    name             TEXT NOT NULL,
    source           TEXT NOT NULL,
    page             INTEGER NOT NULL DEFAULT 0,
    size             TEXT NOT NULL DEFAULT 'Medium',
    creature_type    TEXT NOT NULL DEFAULT 'Unknown',
    alignment        TEXT NOT NULL DEFAULT 'unaligned',
    challenge_rating TEXT NOT NULL DEFAULT '',
    challenge_value  REAL NOT NULL DEFAULT 0,
    hit_points       INTEGER NOT NULL DEFAULT 1,
    armor_class      INTEGER NOT NULL DEFAULT 10,
    token_path       TEXT NOT NULL DEFAULT '',
    payload          TEXT NOT NULL,
    UNIQUE(name, source)
);
CREATE INDEX IF NOT EXISTS idx_monsters_source ON monsters(source);
CREATE INDEX IF NOT EXISTS idx_monsters_type ON monsters(creature_type);
CREATE INDEX IF NOT EXISTS idx_monsters_cr ON monsters(challenge_value);

-- Spells
CREATE TABLE IF NOT EXISTS spells (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    name          TEXT NOT NULL,
    source        TEXT NOT NULL,
    page          INTEGER NOT NULL DEFAULT 0,
    level         INTEGER NOT NULL DEFAULT 0,
    school        TEXT NOT NULL DEFAULT '',
    casting_time  TEXT NOT NULL DEFAULT '',
    spell_range   TEXT NOT NULL DEFAULT '',
    components    TEXT NOT NULL DEFAULT '',
    concentration INTEGER NOT NULL DEFAULT 0,
    ritual        INTEGER NOT NULL DEFAULT 0,
    token_path    TEXT NOT NULL DEFAULT '',
    payload       TEXT NOT NULL,
    UNIQUE(name, source)
);
CREATE INDEX IF NOT EXISTS idx_spells_source ON spells(source);
CREATE INDEX IF NOT EXISTS idx_spells_level ON spells(level);
CREATE INDEX IF NOT EXISTS idx_spells_school ON spells(school);

-- Items
CREATE TABLE IF NOT EXISTS items (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    name       TEXT NOT NULL,
    source     TEXT NOT NULL,
    page       INTEGER NOT NULL DEFAULT 0,
    item_type  TEXT NOT NULL DEFAULT '',
    rarity     TEXT NOT NULL DEFAULT '',
    value      REAL NOT NULL DEFAULT 0,
    weight     REAL NOT NULL DEFAULT 0,
    token_path TEXT NOT NULL DEFAULT '',
    payload    TEXT NOT NULL,
    UNIQUE(name, source)
);
CREATE INDEX IF NOT EXISTS idx_items_source ON items(source);
CREATE INDEX IF NOT EXISTS idx_items_rarity ON items(rarity);

-- Unified full-text index across all entity types. Porter stemming so
-- "shamble" matches indexed "shambling". entity_type/entity_id/content_type
-- are stored but not tokenized; they serve equality filters and the
-- join back to the catalog tables.
CREATE VIRTUAL TABLE IF NOT EXISTS search_index USING fts5(
    entity_type UNINDEXED,
    entity_id UNINDEXED,
    content_type UNINDEXED,
    name,
    content,
    tokenize='porter unicode61'
);

-- Import log (observability): one row per import run
CREATE TABLE IF NOT EXISTS import_log (
    id               TEXT PRIMARY KEY,
    directory        TEXT NOT NULL,
    total_entities   INTEGER NOT NULL DEFAULT 0,
    sources_imported TEXT NOT NULL DEFAULT '[]',
    sources_failed   TEXT NOT NULL DEFAULT '[]',
    imported_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_import_log_time ON import_log(imported_at DESC);
`
