package entity

// Item is the canonical, filterable projection of one item entry plus its
// verbatim JSON payload.
type Item struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Source    string  `json:"source"`
	Page      int     `json:"page"`
	ItemType  string  `json:"item_type"`
	Rarity    string  `json:"rarity"`
	Value     float64 `json:"value"`
	Weight    float64 `json:"weight"`
	TokenPath string  `json:"token_path,omitempty"`
	Payload   []byte  `json:"-"`
}

// NormalizeItem projects one raw item object into an Item.
// Pure: malformed or missing fields resolve to defaults, never an error.
func NormalizeItem(obj map[string]any, payload []byte) *Item {
	it := &Item{Payload: payload}
	if s, ok := str(obj["name"]); ok {
		it.Name = s
	}
	if s, ok := str(obj["source"]); ok {
		it.Source = s
	}
	if p, ok := num(obj["page"]); ok {
		it.Page = int(p)
	}
	if s, ok := str(first(obj["type"])); ok {
		it.ItemType = s
	}
	if s, ok := str(obj["rarity"]); ok {
		it.Rarity = s
	}
	if v, ok := num(obj["value"]); ok {
		it.Value = v
	}
	if w, ok := num(obj["weight"]); ok {
		it.Weight = w
	}
	return it
}
