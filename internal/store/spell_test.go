package store

import (
	"context"
	"testing"

	"github.com/greyhelm/codex/internal/entity"
)

func testSpell(name, source string, level int, school string, conc, ritual bool) *entity.Spell {
	return &entity.Spell{
		Name:          name,
		Source:        source,
		Level:         level,
		School:        school,
		CastingTime:   "1 action",
		Range:         "60 feet",
		Components:    "V, S",
		Concentration: conc,
		Ritual:        ritual,
		Payload:       []byte(`{}`),
	}
}

func TestSpellUpsertAndFilters(t *testing.T) {
	// WHAT: Spell upsert/filter round trip including flag predicates.
	s := openTestStore(t)
	ctx := context.Background()

	s.UpsertSpells(ctx, []*entity.Spell{
		testSpell("Haste", "PHB", 3, "T", true, false),
		testSpell("Fireball", "PHB", 3, "V", false, false),
		testSpell("Detect Magic", "PHB", 1, "D", true, true),
	})

	level := 3
	lvl3, err := s.SearchSpells(ctx, SpellFilter{Level: &level})
	if err != nil {
		t.Fatalf("level filter: %v", err)
	}
	if len(lvl3) != 2 {
		t.Fatalf("level 3: got %d, want 2", len(lvl3))
	}

	conc := true
	concSpells, err := s.SearchSpells(ctx, SpellFilter{Concentration: &conc})
	if err != nil {
		t.Fatalf("concentration filter: %v", err)
	}
	if len(concSpells) != 2 {
		t.Fatalf("concentration: got %d, want 2", len(concSpells))
	}

	rit := true
	rituals, err := s.SearchSpells(ctx, SpellFilter{Ritual: &rit})
	if err != nil {
		t.Fatalf("ritual filter: %v", err)
	}
	if len(rituals) != 1 || rituals[0].Name != "Detect Magic" {
		t.Fatalf("ritual: got %d", len(rituals))
	}
}

func TestSpellGetAndRanges(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	s.UpsertSpell(ctx, testSpell("Wish", "PHB", 9, "C", false, false))
	s.UpsertSpell(ctx, testSpell("Mage Hand", "PHB", 0, "T", false, false))

	got, err := s.GetSpell(ctx, "Wish", "PHB")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Level != 9 {
		t.Fatalf("get: %+v", got)
	}

	none, err := s.GetSpell(ctx, "Wish", "XGE")
	if err != nil || none != nil {
		t.Fatalf("absent spell: %v, %+v", err, none)
	}

	min, max := 1, 9
	leveled, err := s.SearchSpells(ctx, SpellFilter{MinLevel: &min, MaxLevel: &max})
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(leveled) != 1 || leveled[0].Name != "Wish" {
		t.Fatalf("range: got %d", len(leveled))
	}
}

func testItem(name, source, itype, rarity string, value, weight float64) *entity.Item {
	return &entity.Item{
		Name:     name,
		Source:   source,
		ItemType: itype,
		Rarity:   rarity,
		Value:    value,
		Weight:   weight,
		Payload:  []byte(`{}`),
	}
}

func TestItemUpsertAndFilters(t *testing.T) {
	// WHAT: Item filters on rarity membership and value range.
	s := openTestStore(t)
	ctx := context.Background()

	s.UpsertItems(ctx, []*entity.Item{
		testItem("Longsword", "PHB", "M", "none", 1500, 3),
		testItem("Vorpal Sword", "DMG", "M", "legendary", 0, 3),
		testItem("Potion of Healing", "DMG", "P", "common", 5000, 0.5),
	})

	rare, err := s.SearchItems(ctx, ItemFilter{Rarities: []string{"legendary", "common"}})
	if err != nil {
		t.Fatalf("rarity filter: %v", err)
	}
	if len(rare) != 2 {
		t.Fatalf("rarity: got %d, want 2", len(rare))
	}

	min := 1000.0
	pricey, err := s.SearchItems(ctx, ItemFilter{MinValue: &min})
	if err != nil {
		t.Fatalf("value filter: %v", err)
	}
	if len(pricey) != 2 {
		t.Fatalf("value: got %d, want 2", len(pricey))
	}

	n, err := s.DeleteItemsBySource(ctx, "DMG")
	if err != nil || n != 2 {
		t.Fatalf("delete by source: %v, n=%d", err, n)
	}
}

func TestTokenPath_SpellAndItem(t *testing.T) {
	// WHAT: Derived asset paths stick to spells and items and survive a
	// re-upsert, same as the monster token path.
	// WHY: Asset derivation happens after import; a corpus refresh must
	// not wipe it for any entity type.
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.UpsertSpell(ctx, testSpell("Haste", "PHB", 3, "T", true, false)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	sp, _ := s.GetSpell(ctx, "Haste", "PHB")
	if err := s.SetSpellTokenPath(ctx, sp.ID, "assets/spells/haste.png"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.UpsertSpell(ctx, testSpell("Haste", "PHB", 3, "T", true, false)); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}
	sp, _ = s.GetSpell(ctx, "Haste", "PHB")
	if sp.TokenPath != "assets/spells/haste.png" {
		t.Fatalf("spell token path: got %q", sp.TokenPath)
	}

	if err := s.UpsertItem(ctx, testItem("Longsword", "PHB", "M", "none", 1500, 3)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	it, _ := s.GetItem(ctx, "Longsword", "PHB")
	if err := s.SetItemTokenPath(ctx, it.ID, "assets/items/longsword.png"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.UpsertItem(ctx, testItem("Longsword", "PHB", "M", "none", 1500, 3)); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}
	it, _ = s.GetItem(ctx, "Longsword", "PHB")
	if it.TokenPath != "assets/items/longsword.png" {
		t.Fatalf("item token path: got %q", it.TokenPath)
	}
}

func TestImportLog(t *testing.T) {
	// WHAT: Import runs are recorded and listed newest first.
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.LogImport(ctx, &ImportLogEntry{
		Directory:       "/data/corpus",
		TotalEntities:   42,
		SourcesImported: []string{"MM", "PHB"},
		SourcesFailed:   []string{"broken.json"},
	})
	if err != nil {
		t.Fatalf("log import: %v", err)
	}
	if id == "" {
		t.Fatal("empty id")
	}

	entries, err := s.ListImports(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries: got %d", len(entries))
	}
	e := entries[0]
	if e.TotalEntities != 42 || len(e.SourcesImported) != 2 || len(e.SourcesFailed) != 1 {
		t.Errorf("round trip: %+v", e)
	}
}
