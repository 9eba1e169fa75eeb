package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	id1 := IDFromContent("Jazz in the Park")
	id2 := IDFromContent("Jazz in the Park")
	id3 := IDFromContent("jazz in the park")

	if id1 != id2 {
		t.Errorf("identical content produced different IDs: %d != %d", id1, id2)
	}
	if id1 == id3 {
		t.Errorf("different content produced the same ID: %d", id1)
	}
	if id1 == 0 {
		t.Error("ID should not be zero for non-empty content")
	}
}

func TestDedupKey(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		same bool
	}{
		{"case insensitive", "Jazz Night", "jazz night", true},
		{"surrounding whitespace ignored", "  Jazz Night  ", "Jazz Night", true},
		{"case and whitespace", " JAZZ NIGHT", "jazz night ", true},
		{"different titles", "Jazz Night", "Folk Night", false},
		{"interior whitespace significant", "Jazz  Night", "Jazz Night", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DedupKey(tt.a) == DedupKey(tt.b)
			if got != tt.same {
				t.Errorf("DedupKey(%q) == DedupKey(%q) = %v, want %v", tt.a, tt.b, got, tt.same)
			}
		})
	}
}
