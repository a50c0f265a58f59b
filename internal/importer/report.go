package importer

import (
	"fmt"
	"sort"
	"strings"
)

// Report is the structured outcome of one import run. A run is best-effort:
// failures appear here instead of aborting the run, so consumers present
// partial counts plus a failed list rather than a binary verdict.
type Report struct {
	// EntityCounts maps entity type to the number of entities upserted.
	EntityCounts map[string]int `json:"entity_counts"`
	// SourcesImported lists the distinct source codes (e.g. "MM") that
	// contributed at least one entity.
	SourcesImported []string `json:"sources_imported"`
	// SourcesFailed lists what could not be imported: filenames for files
	// that were skipped or whose batch aborted.
	SourcesFailed []string `json:"sources_failed"`
	// TotalEntities is the sum of EntityCounts.
	TotalEntities int `json:"total_entities"`
}

func newReport() *Report {
	return &Report{EntityCounts: make(map[string]int)}
}

// Summary renders the report as one human-readable line.
func (r *Report) Summary() string {
	types := make([]string, 0, len(r.EntityCounts))
	for t := range r.EntityCounts {
		types = append(types, t)
	}
	sort.Strings(types)

	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, fmt.Sprintf("%s: %d", t, r.EntityCounts[t]))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Imported %d entities", r.TotalEntities)
	if len(parts) > 0 {
		fmt.Fprintf(&sb, " (%s)", strings.Join(parts, ", "))
	}
	fmt.Fprintf(&sb, " from %d sources", len(r.SourcesImported))
	if len(r.SourcesImported) > 0 {
		fmt.Fprintf(&sb, " (%s)", strings.Join(r.SourcesImported, ", "))
	}
	if len(r.SourcesFailed) > 0 {
		fmt.Fprintf(&sb, "; %d failed (%s)", len(r.SourcesFailed), strings.Join(r.SourcesFailed, ", "))
	}
	return sb.String()
}
