package entity

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return obj
}

func TestNormalizeMonster_Defaults(t *testing.T) {
	// WHAT: An empty object projects to the documented defaults.
	// WHY: Summary projection must never fail on sparse corpus entries.
	m := NormalizeMonster(map[string]any{}, []byte(`{}`))
	if m.ArmorClass != 10 {
		t.Errorf("armor class: got %d, want 10", m.ArmorClass)
	}
	if m.HitPoints != 1 {
		t.Errorf("hit points: got %d, want 1", m.HitPoints)
	}
	if m.Alignment != "unaligned" {
		t.Errorf("alignment: got %q, want %q", m.Alignment, "unaligned")
	}
	if m.CreatureType != "Unknown" {
		t.Errorf("creature type: got %q, want %q", m.CreatureType, "Unknown")
	}
	if m.Size != "Medium" {
		t.Errorf("size: got %q, want %q", m.Size, "Medium")
	}
	if m.ChallengeValue != 0 {
		t.Errorf("challenge value: got %v, want 0", m.ChallengeValue)
	}
}

func TestNormalizeMonster_ScalarShapes(t *testing.T) {
	// WHAT: Plain scalar fields pass through unchanged.
	obj := decode(t, `{
		"name": "Goblin", "source": "MM", "page": 166,
		"size": ["S"], "type": "humanoid", "alignment": ["N", "E"],
		"cr": "1/4", "hp": 7, "ac": 15
	}`)
	m := NormalizeMonster(obj, nil)
	if m.Name != "Goblin" || m.Source != "MM" || m.Page != 166 {
		t.Errorf("identity fields: %+v", m)
	}
	if m.Size != "S" {
		t.Errorf("size: got %q", m.Size)
	}
	if m.CreatureType != "humanoid" {
		t.Errorf("type: got %q", m.CreatureType)
	}
	if m.Alignment != "N E" {
		t.Errorf("alignment: got %q", m.Alignment)
	}
	if m.ChallengeRating != "1/4" || m.ChallengeValue != 0.25 {
		t.Errorf("cr: got %q / %v", m.ChallengeRating, m.ChallengeValue)
	}
	if m.HitPoints != 7 {
		t.Errorf("hp: got %d", m.HitPoints)
	}
	if m.ArmorClass != 15 {
		t.Errorf("ac: got %d", m.ArmorClass)
	}
}

func TestNormalizeMonster_StructuredShapes(t *testing.T) {
	// WHAT: Object/array variants of the same fields resolve to the same
	// canonical scalars as the plain shapes.
	obj := decode(t, `{
		"name": "Adult Red Dragon", "source": "MM",
		"type": {"type": "dragon", "tags": ["chromatic"]},
		"cr": {"cr": "17", "lair": "18"},
		"hp": {"average": 256, "formula": "19d12+133"},
		"ac": [{"ac": 19, "from": ["natural armor"]}]
	}`)
	m := NormalizeMonster(obj, nil)
	if m.CreatureType != "dragon" {
		t.Errorf("type: got %q", m.CreatureType)
	}
	if m.ChallengeRating != "17" || m.ChallengeValue != 17 {
		t.Errorf("cr: got %q / %v", m.ChallengeRating, m.ChallengeValue)
	}
	if m.HitPoints != 256 {
		t.Errorf("hp: got %d", m.HitPoints)
	}
	if m.ArmorClass != 19 {
		t.Errorf("ac: got %d", m.ArmorClass)
	}
}

func TestNormalizeMonster_ACBareArray(t *testing.T) {
	// WHAT: "ac": [12] takes the first element.
	m := NormalizeMonster(decode(t, `{"ac": [12]}`), nil)
	if m.ArmorClass != 12 {
		t.Errorf("ac: got %d, want 12", m.ArmorClass)
	}
}

func TestNormalizeMonster_MalformedValues(t *testing.T) {
	// WHAT: Unreadable shapes degrade to defaults instead of erroring.
	obj := decode(t, `{
		"type": {"tags": ["no base type"]},
		"cr": [],
		"hp": {"formula": "2d6"},
		"ac": [{"from": ["plate"]}],
		"alignment": {}
	}`)
	m := NormalizeMonster(obj, nil)
	if m.CreatureType != "Unknown" {
		t.Errorf("type: got %q", m.CreatureType)
	}
	if m.ChallengeValue != 0 {
		t.Errorf("cr value: got %v", m.ChallengeValue)
	}
	if m.HitPoints != 1 {
		t.Errorf("hp: got %d", m.HitPoints)
	}
	if m.ArmorClass != 10 {
		t.Errorf("ac: got %d", m.ArmorClass)
	}
	if m.Alignment != "unaligned" {
		t.Errorf("alignment: got %q", m.Alignment)
	}
}

func TestChallengeValue(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1/8", 0.125},
		{"1/4", 0.25},
		{"1/2", 0.5},
		{"5", 5.0},
		{"17", 17.0},
		{"0", 0.0},
		{"unknown", 0.0},
		{"", 0.0},
	}
	for _, c := range cases {
		if got := ChallengeValue(c.in); got != c.want {
			t.Errorf("ChallengeValue(%q): got %v, want %v", c.in, got, c.want)
		}
	}
}
