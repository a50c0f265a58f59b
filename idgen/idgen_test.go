package idgen

import (
	"strings"
	"testing"
)

func TestUUIDv7_Format(t *testing.T) {
	gen := UUIDv7()
	id := gen()
	if _, err := Parse(id); err != nil {
		t.Fatalf("UUIDv7 produced unparseable ID %q: %v", id, err)
	}
	// Version nibble must be 7.
	if id[14] != '7' {
		t.Fatalf("UUIDv7: version nibble is %q in %q", id[14], id)
	}
}

func TestUUIDv7_Sortable(t *testing.T) {
	gen := UUIDv7()
	prev := gen()
	for i := 0; i < 100; i++ {
		cur := gen()
		if cur < prev {
			// v7 IDs within the same millisecond may tie on the time part,
			// but must never sort backwards across it.
			if cur[:13] != prev[:13] {
				t.Fatalf("UUIDv7 not time-sortable: %q < %q", cur, prev)
			}
		}
		prev = cur
	}
}

func TestPrefixed(t *testing.T) {
	gen := Prefixed("imp_", UUIDv7())
	id := gen()
	if !strings.HasPrefix(id, "imp_") {
		t.Fatalf("Prefixed: got %q", id)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse("not-a-uuid"); err == nil {
		t.Fatal("Parse should reject garbage")
	}
}
