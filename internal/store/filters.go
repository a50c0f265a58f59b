package store

import (
	"fmt"
	"strings"
)

// MonsterFilter selects monsters by conjunctive predicates. Zero values
// mean "no constraint". Numeric bounds are inclusive.
type MonsterFilter struct {
	Name            string   // substring match on name
	Sources         []string // source code membership
	CreatureTypes   []string
	Sizes           []string
	ChallengeRating string // exact CR string, e.g. "1/4"
	MinChallenge    *float64
	MaxChallenge    *float64
}

// SpellFilter selects spells by conjunctive predicates.
type SpellFilter struct {
	Name          string
	Sources       []string
	Schools       []string
	Level         *int
	MinLevel      *int
	MaxLevel      *int
	Concentration *bool
	Ritual        *bool
}

// ItemFilter selects items by conjunctive predicates.
type ItemFilter struct {
	Name      string
	Sources   []string
	ItemTypes []string
	Rarities  []string
	MinValue  *float64
	MaxValue  *float64
	MinWeight *float64
	MaxWeight *float64
}

// whereClause accumulates dynamically composed predicates. All conditions
// combine with AND; an empty clause renders as no WHERE at all.
type whereClause struct {
	conds []string
	args  []any
}

func (w *whereClause) add(cond string, args ...any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

// substr adds a case-insensitive substring match when val is non-empty.
func (w *whereClause) substr(col, val string) {
	if val != "" {
		w.add(col+" LIKE ? ESCAPE '\\'", "%"+escapeLike(val)+"%")
	}
}

// in adds a membership predicate when vals is non-empty.
func (w *whereClause) in(col string, vals []string) {
	if len(vals) == 0 {
		return
	}
	placeholders := make([]string, len(vals))
	for i, v := range vals {
		placeholders[i] = "?"
		w.args = append(w.args, v)
	}
	w.conds = append(w.conds, fmt.Sprintf("%s IN (%s)", col, strings.Join(placeholders, ",")))
}

// eq adds an equality predicate when val is non-empty.
func (w *whereClause) eq(col, val string) {
	if val != "" {
		w.add(col+" = ?", val)
	}
}

// rangeFloat adds inclusive lower/upper bounds for set pointers.
func (w *whereClause) rangeFloat(col string, min, max *float64) {
	if min != nil {
		w.add(col+" >= ?", *min)
	}
	if max != nil {
		w.add(col+" <= ?", *max)
	}
}

// rangeInt adds inclusive lower/upper bounds for set pointers.
func (w *whereClause) rangeInt(col string, min, max *int) {
	if min != nil {
		w.add(col+" >= ?", *min)
	}
	if max != nil {
		w.add(col+" <= ?", *max)
	}
}

// boolFlag adds an exact flag predicate when the pointer is set.
func (w *whereClause) boolFlag(col string, val *bool) {
	if val == nil {
		return
	}
	n := 0
	if *val {
		n = 1
	}
	w.add(col+" = ?", n)
}

// sql renders the accumulated conditions as a WHERE fragment (with leading
// space) or an empty string.
func (w *whereClause) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// escapeLike neutralizes LIKE metacharacters in user-supplied substrings.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

func (f MonsterFilter) where() *whereClause {
	w := &whereClause{}
	w.substr("name", f.Name)
	w.in("source", f.Sources)
	w.in("creature_type", f.CreatureTypes)
	w.in("size", f.Sizes)
	w.eq("challenge_rating", f.ChallengeRating)
	w.rangeFloat("challenge_value", f.MinChallenge, f.MaxChallenge)
	return w
}

func (f SpellFilter) where() *whereClause {
	w := &whereClause{}
	w.substr("name", f.Name)
	w.in("source", f.Sources)
	w.in("school", f.Schools)
	if f.Level != nil {
		w.add("level = ?", *f.Level)
	}
	w.rangeInt("level", f.MinLevel, f.MaxLevel)
	w.boolFlag("concentration", f.Concentration)
	w.boolFlag("ritual", f.Ritual)
	return w
}

func (f ItemFilter) where() *whereClause {
	w := &whereClause{}
	w.substr("name", f.Name)
	w.in("source", f.Sources)
	w.in("item_type", f.ItemTypes)
	w.in("rarity", f.Rarities)
	w.rangeFloat("value", f.MinValue, f.MaxValue)
	w.rangeFloat("weight", f.MinWeight, f.MaxWeight)
	return w
}
