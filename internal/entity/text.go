package entity

import "strings"

// EntryText flattens the nested "entries" tree of a raw entity object into
// plain text, for callers deriving full-text index content. The corpus
// nests strings, {"entries": [...]} groups, {"items": [...]} lists and
// table objects arbitrarily; everything textual is collected in document
// order, joined by newlines.
func EntryText(obj map[string]any) string {
	var sb strings.Builder
	collectEntries(obj["entries"], &sb)
	return strings.TrimSpace(sb.String())
}

func collectEntries(v any, sb *strings.Builder) {
	switch e := v.(type) {
	case string:
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e)
	case []any:
		for _, el := range e {
			collectEntries(el, sb)
		}
	case map[string]any:
		if name, ok := str(e["name"]); ok && name != "" {
			collectEntries(name, sb)
		}
		collectEntries(e["entries"], sb)
		collectEntries(e["items"], sb)
		collectEntries(e["rows"], sb)
	}
}
