package codex

import (
	"github.com/greyhelm/codex/internal/entity"
	"github.com/greyhelm/codex/internal/importer"
	"github.com/greyhelm/codex/internal/store"
)

// Re-exported types from internal packages for use by cmd/ and external
// callers.
type (
	Monster        = entity.Monster
	Spell          = entity.Spell
	Item           = entity.Item
	MonsterFilter  = store.MonsterFilter
	SpellFilter    = store.SpellFilter
	ItemFilter     = store.ItemFilter
	SearchHit      = store.SearchHit
	ImportReport   = importer.Report
	ImportLogEntry = store.ImportLogEntry
)

// Entity type names.
const (
	TypeMonster = importer.TypeMonster
	TypeSpell   = importer.TypeSpell
	TypeItem    = importer.TypeItem
)

// Content classes for indexed text.
const (
	ContentRules = store.ContentRules
	ContentFluff = store.ContentFluff
)
