package importer

import "strings"

// Filename conventions excluded from import: lore-only companion files,
// index manifests, and third-party VTT export artifacts.
var skipPrefixes = []string{"fluff-", "foundry-", "roll20-"}

// isContentFile reports whether a directory entry looks like an importable
// content file.
func isContentFile(name string) bool {
	if !strings.HasSuffix(name, ".json") {
		return false
	}
	if name == "index.json" || name == "sources.json" {
		return false
	}
	for _, p := range skipPrefixes {
		if strings.HasPrefix(name, p) {
			return false
		}
	}
	return true
}
