package entity

import (
	"fmt"
	"strings"
)

// Spell is the canonical, filterable projection of one spell entry plus
// its verbatim JSON payload.
type Spell struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Source        string `json:"source"`
	Page          int    `json:"page"`
	Level         int    `json:"level"`
	School        string `json:"school"`
	CastingTime   string `json:"casting_time"`
	Range         string `json:"range"`
	Components    string `json:"components"`
	Concentration bool   `json:"concentration"`
	Ritual        bool   `json:"ritual"`
	TokenPath     string `json:"token_path,omitempty"`
	Payload       []byte `json:"-"`
}

// NormalizeSpell projects one raw spell object into a Spell.
// Pure: malformed or missing fields resolve to defaults, never an error.
func NormalizeSpell(obj map[string]any, payload []byte) *Spell {
	sp := &Spell{Payload: payload}
	if s, ok := str(obj["name"]); ok {
		sp.Name = s
	}
	if s, ok := str(obj["source"]); ok {
		sp.Source = s
	}
	if p, ok := num(obj["page"]); ok {
		sp.Page = int(p)
	}
	if l, ok := num(obj["level"]); ok {
		sp.Level = int(l)
	}
	if s, ok := str(obj["school"]); ok {
		sp.School = s
	}
	sp.CastingTime = resolveCastingTime(obj["time"])
	sp.Range = resolveRange(obj["range"])
	sp.Components = resolveComponents(obj["components"])
	sp.Concentration = resolveConcentration(obj["duration"])
	sp.Ritual = boolean(sub(obj["meta"], "ritual"))
	return sp
}

// resolveCastingTime renders "time": [{"number": 1, "unit": "action"}]
// (or a bare string) as "1 action".
func resolveCastingTime(v any) string {
	v = first(v)
	if s, ok := str(v); ok {
		return s
	}
	n, hasN := num(sub(v, "number"))
	unit, hasU := str(sub(v, "unit"))
	switch {
	case hasN && hasU:
		return fmtNum(n) + " " + unit
	case hasU:
		return unit
	}
	return ""
}

// resolveRange renders the structured range object as a display string:
// {"type": "point", "distance": {"type": "feet", "amount": 60}} → "60 feet",
// {"type": "point", "distance": {"type": "self"}} → "Self".
func resolveRange(v any) string {
	if s, ok := str(v); ok {
		return s
	}
	dist := sub(v, "distance")
	if dist == nil {
		if s, ok := str(sub(v, "type")); ok {
			return capitalize(s)
		}
		return ""
	}
	dtype, _ := str(sub(dist, "type"))
	if amount, ok := num(sub(dist, "amount")); ok {
		return fmtNum(amount) + " " + dtype
	}
	// Distance types without an amount are self-describing (self, touch,
	// sight, unlimited).
	return capitalize(dtype)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// resolveComponents renders {"v": true, "s": true, "m": "a bit of fur"}
// as "V, S, M (a bit of fur)".
func resolveComponents(v any) string {
	if s, ok := str(v); ok {
		return s
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	var parts []string
	if boolean(obj["v"]) {
		parts = append(parts, "V")
	}
	if boolean(obj["s"]) {
		parts = append(parts, "S")
	}
	if m, present := obj["m"]; present {
		switch mat := m.(type) {
		case bool:
			if mat {
				parts = append(parts, "M")
			}
		case string:
			parts = append(parts, fmt.Sprintf("M (%s)", mat))
		case map[string]any:
			if text, ok := str(mat["text"]); ok {
				parts = append(parts, fmt.Sprintf("M (%s)", text))
			} else {
				parts = append(parts, "M")
			}
		}
	}
	return strings.Join(parts, ", ")
}

// resolveConcentration scans duration entries for a concentration flag.
func resolveConcentration(v any) bool {
	arr, ok := v.([]any)
	if !ok {
		return boolean(sub(v, "concentration"))
	}
	for _, el := range arr {
		if boolean(sub(el, "concentration")) {
			return true
		}
	}
	return false
}
