package codex

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFile(t *testing.T) {
	// WHAT: A YAML config file loads with explicit values, and omitted
	// fields pick up defaults.
	// WHY: Operators write minimal configs; missing tuning knobs must not
	// end up zero.
	path := filepath.Join(t.TempDir(), "codex.yaml")
	content := "db_path: /var/lib/codex/codex.db\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/var/lib/codex/codex.db" {
		t.Fatalf("db_path: got %q", cfg.DBPath)
	}
	if cfg.Search.DefaultLimit != 20 {
		t.Fatalf("default_limit: got %d, want 20", cfg.Search.DefaultLimit)
	}
}

func TestLoadConfigFile_Errors(t *testing.T) {
	// WHAT: Missing files and malformed YAML both return errors.
	// WHY: A silently empty config would point at the wrong database.
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("missing file: expected error")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("db_path: [broken\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfigFile(path); err == nil {
		t.Fatal("malformed yaml: expected error")
	}
}

func TestConfigDefaults(t *testing.T) {
	// WHAT: defaults() fills every zero field.
	cfg := &Config{}
	cfg.defaults()
	if cfg.DBPath != "codex.db" {
		t.Fatalf("db_path: got %q", cfg.DBPath)
	}
	if cfg.Search.DefaultLimit != 20 {
		t.Fatalf("default_limit: got %d", cfg.Search.DefaultLimit)
	}
}
