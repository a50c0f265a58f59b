// Command codex imports tabletop reference content and queries the catalog.
//
// Usage:
//
//	codex -db codex.db -import /data/corpus      # ingest a corpus directory
//	codex -db codex.db -reindex                  # rebuild the search index
//	codex -db codex.db -search "Goblin"          # catalog name search
//	codex -db codex.db -fts '"breathes fire"'    # full-text search
//	codex -db codex.db -stats                    # show counts and exit
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "modernc.org/sqlite"

	"github.com/greyhelm/codex"
)

func main() {
	configPath := flag.String("config", "", "path to codex.yaml config file")
	dbPath := flag.String("db", "", "path to SQLite database")
	importDir := flag.String("import", "", "corpus directory to ingest (exit after report)")
	reindex := flag.Bool("reindex", false, "rebuild the full-text index and exit")
	searchName := flag.String("search", "", "catalog name search (exit after results)")
	ftsQuery := flag.String("fts", "", "full-text query (exit after results)")
	entityType := flag.String("type", "monster", "entity type for -search: monster, spell, item")
	showStats := flag.Bool("stats", false, "show stats and exit")
	limit := flag.Int("limit", 20, "max search results")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := options{
		importDir:  *importDir,
		reindex:    *reindex,
		searchName: *searchName,
		ftsQuery:   *ftsQuery,
		entityType: *entityType,
		showStats:  *showStats,
		limit:      *limit,
	}
	if err := run(ctx, logger, *configPath, *dbPath, opts); err != nil {
		logger.Error("codex: fatal", "error", err)
		os.Exit(1)
	}
}

type options struct {
	importDir  string
	reindex    bool
	searchName string
	ftsQuery   string
	entityType string
	showStats  bool
	limit      int
}

func run(ctx context.Context, logger *slog.Logger, configPath, dbPath string, opts options) error {
	cfg, err := resolveConfig(configPath, dbPath)
	if err != nil {
		return err
	}

	lib, err := codex.Open(cfg, logger)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer lib.Close()

	if opts.importDir != "" {
		report, err := lib.ImportFromDirectory(ctx, opts.importDir)
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}
		logger.Info("codex: import done", "summary", report.Summary())
		return emit(report)
	}

	if opts.reindex {
		if err := lib.RebuildIndex(ctx); err != nil {
			return fmt.Errorf("reindex: %w", err)
		}
		n, err := lib.CountIndexed(ctx)
		if err != nil {
			return err
		}
		logger.Info("codex: index rebuilt", "rows", n)
		return nil
	}

	if opts.ftsQuery != "" {
		hits, err := lib.SearchText(ctx, opts.ftsQuery, opts.limit)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		return emit(hits)
	}

	if opts.searchName != "" {
		return catalogSearch(ctx, lib, opts)
	}

	if opts.showStats {
		stats, err := lib.Stats(ctx)
		if err != nil {
			return fmt.Errorf("stats: %w", err)
		}
		return emit(stats)
	}

	fmt.Fprintln(os.Stderr, "nothing to do: pass -import, -reindex, -search, -fts or -stats")
	return nil
}

func catalogSearch(ctx context.Context, lib *codex.Library, opts options) error {
	switch opts.entityType {
	case codex.TypeMonster:
		rows, err := lib.SearchMonstersPage(ctx, codex.MonsterFilter{Name: opts.searchName}, opts.limit, 0)
		if err != nil {
			return err
		}
		return emit(rows)
	case codex.TypeSpell:
		rows, err := lib.SearchSpellsPage(ctx, codex.SpellFilter{Name: opts.searchName}, opts.limit, 0)
		if err != nil {
			return err
		}
		return emit(rows)
	case codex.TypeItem:
		rows, err := lib.SearchItemsPage(ctx, codex.ItemFilter{Name: opts.searchName}, opts.limit, 0)
		if err != nil {
			return err
		}
		return emit(rows)
	default:
		return fmt.Errorf("%w: %q", codex.ErrUnknownEntityType, opts.entityType)
	}
}

func emit(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func resolveConfig(configPath, dbPath string) (*codex.Config, error) {
	if configPath != "" {
		return codex.LoadConfigFile(configPath)
	}

	cfg := &codex.Config{}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	if cfg.DBPath == "" {
		fmt.Fprintln(os.Stderr, "usage: codex -config <file> | -db <path> [-import <dir>] [-search <name>] [-fts <query>] [-stats]")
		os.Exit(1)
	}
	return cfg, nil
}
