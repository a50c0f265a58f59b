// Package importer drives ingestion of a reference-content corpus into the
// catalog store. One linear pass, best-effort: a bad file or a bad record
// is logged and skipped, never aborting the rest of the run. Re-running an
// import over the same corpus is safe because the store upserts on
// (name, source).
package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/greyhelm/codex/internal/entity"
	"github.com/greyhelm/codex/internal/store"
)

// Entity type names used across the catalog and the search index.
const (
	TypeMonster = "monster"
	TypeSpell   = "spell"
	TypeItem    = "item"
)

// area binds one corpus subdirectory to its entity type. The type name
// doubles as the container key ({"monster": [...]}).
type area struct {
	dir string
	typ string
}

var areas = []area{
	{dir: "bestiary", typ: TypeMonster},
	{dir: "spells", typ: TypeSpell},
	{dir: "items", typ: TypeItem},
}

// Importer walks a corpus directory and fills the catalog store.
type Importer struct {
	store  *store.Store
	logger *slog.Logger
}

// New creates an Importer. A nil logger falls back to slog.Default.
func New(st *store.Store, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{store: st, logger: logger}
}

// ImportDirectory ingests every content file under root and returns a
// structured report. Only a storage-level failure writing the report's
// log row is a hard error; everything file- or entity-scoped is recovered
// by skipping.
func (imp *Importer) ImportDirectory(ctx context.Context, root string) (*Report, error) {
	rep := newReport()
	imported := make(map[string]bool)
	failed := make(map[string]bool)

	for _, a := range areas {
		dir := filepath.Join(root, a.dir)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue // corpus has no area of this type
			}
			imp.logger.Warn("import: read area", "dir", dir, "error", err)
			continue
		}

		for _, de := range entries {
			if de.IsDir() || !isContentFile(de.Name()) {
				continue
			}
			path := filepath.Join(dir, de.Name())
			n, sources, err := imp.importFile(ctx, path, a.typ)
			if err != nil {
				imp.logger.Warn("import: file skipped", "path", path, "error", err)
				failed[de.Name()] = true
				continue
			}
			rep.EntityCounts[a.typ] += n
			rep.TotalEntities += n
			for s := range sources {
				imported[s] = true
			}
		}
	}

	rep.SourcesImported = sortedKeys(imported)
	rep.SourcesFailed = sortedKeys(failed)

	if _, err := imp.store.LogImport(ctx, &store.ImportLogEntry{
		Directory:       root,
		TotalEntities:   rep.TotalEntities,
		SourcesImported: rep.SourcesImported,
		SourcesFailed:   rep.SourcesFailed,
	}); err != nil {
		imp.logger.Warn("import: log row not written", "error", err)
	}

	imp.logger.Info("import: done", "summary", rep.Summary())
	return rep, nil
}

// importFile ingests one content file. Returned errors are file-level
// (I/O, unrecognized shape, storage failure of the batch); entity-level
// problems are logged and skipped inside.
func (imp *Importer) importFile(ctx context.Context, path, typ string) (int, map[string]bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, nil, fmt.Errorf("read: %w", err)
	}

	elems, err := parseContainer(data, typ)
	if err != nil {
		return 0, nil, err
	}

	sources := make(map[string]bool)
	switch typ {
	case TypeMonster:
		batch := make([]*entity.Monster, 0, len(elems))
		for i, raw := range elems {
			obj, ok := imp.decodeElement(path, i, raw)
			if !ok {
				continue
			}
			m := entity.NormalizeMonster(obj, raw)
			if m.Name == "" {
				imp.logger.Warn("import: entity without name skipped", "path", path, "index", i)
				continue
			}
			batch = append(batch, m)
			sources[m.Source] = true
		}
		if err := imp.store.UpsertMonsters(ctx, batch); err != nil {
			return 0, nil, err
		}
		return len(batch), sources, nil

	case TypeSpell:
		batch := make([]*entity.Spell, 0, len(elems))
		for i, raw := range elems {
			obj, ok := imp.decodeElement(path, i, raw)
			if !ok {
				continue
			}
			sp := entity.NormalizeSpell(obj, raw)
			if sp.Name == "" {
				imp.logger.Warn("import: entity without name skipped", "path", path, "index", i)
				continue
			}
			batch = append(batch, sp)
			sources[sp.Source] = true
		}
		if err := imp.store.UpsertSpells(ctx, batch); err != nil {
			return 0, nil, err
		}
		return len(batch), sources, nil

	case TypeItem:
		batch := make([]*entity.Item, 0, len(elems))
		for i, raw := range elems {
			obj, ok := imp.decodeElement(path, i, raw)
			if !ok {
				continue
			}
			it := entity.NormalizeItem(obj, raw)
			if it.Name == "" {
				imp.logger.Warn("import: entity without name skipped", "path", path, "index", i)
				continue
			}
			batch = append(batch, it)
			sources[it.Source] = true
		}
		if err := imp.store.UpsertItems(ctx, batch); err != nil {
			return 0, nil, err
		}
		return len(batch), sources, nil
	}
	return 0, nil, fmt.Errorf("unknown entity type %q", typ)
}

// decodeElement unmarshals one container element into an object, logging
// and skipping elements that are not JSON objects.
func (imp *Importer) decodeElement(path string, i int, raw json.RawMessage) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		imp.logger.Warn("import: entity skipped", "path", path, "index", i, "error", err)
		return nil, false
	}
	return obj, true
}

// parseContainer accepts the two top-level shapes the corpus uses:
// {"<type>": [ ... ]} or a bare array. Anything else is an unrecognized
// shape and fails the file.
func parseContainer(data []byte, key string) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var arr []json.RawMessage
		if err := json.Unmarshal(trimmed, &arr); err != nil {
			return nil, fmt.Errorf("parse array: %w", err)
		}
		return arr, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, fmt.Errorf("parse container: %w", err)
	}
	raw, ok := obj[key]
	if !ok {
		return nil, fmt.Errorf("container has no %q key", key)
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil, fmt.Errorf("%q is not an array: %w", key, err)
	}
	return arr, nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
