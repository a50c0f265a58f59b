package entity

// Defaults applied when a monster field is missing or has an
// unrecognizable shape.
const (
	DefaultArmorClass   = 10
	DefaultHitPoints    = 1
	DefaultAlignment    = "unaligned"
	DefaultCreatureType = "Unknown"
	DefaultSize         = "Medium"
)

// Monster is the canonical, filterable projection of one creature entry
// plus its verbatim JSON payload.
type Monster struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Source          string  `json:"source"`
	Page            int     `json:"page"`
	Size            string  `json:"size"`
	CreatureType    string  `json:"creature_type"`
	Alignment       string  `json:"alignment"`
	ChallengeRating string  `json:"challenge_rating"`
	ChallengeValue  float64 `json:"challenge_value"`
	HitPoints       int     `json:"hit_points"`
	ArmorClass      int     `json:"armor_class"`
	TokenPath       string  `json:"token_path,omitempty"`
	Payload         []byte  `json:"-"`
}

// NormalizeMonster projects one raw creature object into a Monster.
// Pure: malformed or missing fields resolve to defaults, never an error.
func NormalizeMonster(obj map[string]any, payload []byte) *Monster {
	m := &Monster{
		Size:         DefaultSize,
		CreatureType: DefaultCreatureType,
		Alignment:    DefaultAlignment,
		HitPoints:    DefaultHitPoints,
		ArmorClass:   DefaultArmorClass,
		Payload:      payload,
	}
	if s, ok := str(obj["name"]); ok {
		m.Name = s
	}
	if s, ok := str(obj["source"]); ok {
		m.Source = s
	}
	if p, ok := num(obj["page"]); ok {
		m.Page = int(p)
	}

	// size: "M" | ["M"] — one-or-many of size codes.
	if s, ok := str(first(obj["size"])); ok && s != "" {
		m.Size = s
	}

	// type: "humanoid" | {"type": "humanoid", "tags": [...]} — the object
	// form carries a base type plus tags; only the base type is canonical.
	m.CreatureType = resolveCreatureType(obj["type"])

	// alignment: "lawful evil" | ["L", "E"] — arrays join with a space.
	if s, ok := joined(obj["alignment"], " "); ok && s != "" {
		m.Alignment = s
	}

	// cr: "1/4" | {"cr": "13", "lair": "17"} — the object form carries
	// contextual ratings; "cr" is the primary one.
	m.ChallengeRating = resolveChallengeRating(obj["cr"])
	m.ChallengeValue = ChallengeValue(m.ChallengeRating)

	// hp: 7 | {"average": 7, "formula": "2d6"} — "average" is primary.
	m.HitPoints = resolveHitPoints(obj["hp"])

	// ac: 12 | [12] | [{"ac": 18, "from": ["plate"]}] — first entry wins;
	// an entry object resolves through its "ac" sub-field.
	m.ArmorClass = resolveArmorClass(obj["ac"])

	return m
}

func resolveCreatureType(v any) string {
	if inner := sub(v, "type"); inner != nil {
		v = inner
	}
	if s, ok := str(v); ok && s != "" {
		return s
	}
	return DefaultCreatureType
}

func resolveChallengeRating(v any) string {
	if inner := sub(v, "cr"); inner != nil {
		v = inner
	}
	if s, ok := str(v); ok {
		return s
	}
	return ""
}

func resolveHitPoints(v any) int {
	if inner := sub(v, "average"); inner != nil {
		v = inner
	}
	if n, ok := num(v); ok {
		return int(n)
	}
	return DefaultHitPoints
}

func resolveArmorClass(v any) int {
	v = first(v)
	if inner := sub(v, "ac"); inner != nil {
		v = inner
	}
	if n, ok := num(v); ok {
		return int(n)
	}
	return DefaultArmorClass
}
