package domain

import "testing"

func searchFixture() []*Cafe {
	return []*Cafe{
		{ID: "1", Name: "Kopi Kenangan Tunjungan", Tags: []string{"wifi"}},
		{ID: "2", Name: "Kopi Tuku"},
		{ID: "3", Name: "Warung Kopi Gubeng", Tags: []string{"outdoor", "wifi"}},
		{ID: "4", Name: "Starbucks Galaxy Mall"},
	}
}

func TestSearchCafes(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantTop string
		wantLen int
	}{
		{"exact match ties broken by name", "kopi", "1", 3},
		{"prefix", "tunj", "1", 1},
		{"multi fragment requires all", "kopi gubeng", "3", 2},
		{"case and punctuation ignored", "  KOPI  Tuku! ", "2", 3},
		{"tag match", "outdoor", "3", 1},
		{"fuzzy", "strbcks", "4", 1},
		{"no match", "teh", "", 0},
		{"empty query", "   ", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SearchCafes(tt.query, searchFixture())
			if len(got) != tt.wantLen {
				t.Fatalf("SearchCafes(%q) = %d results, want %d", tt.query, len(got), tt.wantLen)
			}
			if tt.wantLen > 0 && got[0].Cafe.ID != tt.wantTop {
				t.Errorf("SearchCafes(%q) top = %s, want %s", tt.query, got[0].Cafe.ID, tt.wantTop)
			}
		})
	}
}

func TestScoreFragment(t *testing.T) {
	if scoreFragment("kopi", "kopi", 0) <= scoreFragment("kop", "kopi", 0) {
		t.Error("exact match should beat prefix match")
	}
	if scoreFragment("kop", "kopi", 0) <= scoreFragment("opi", "kopi", 0) {
		t.Error("prefix match should beat substring match")
	}
	if scoreFragment("kopi", "kopi", 0) <= scoreFragment("kopi", "kopi", 2) {
		t.Error("earlier words should score higher")
	}
	if scoreFragment("xyz", "kopi", 0) != 0 {
		t.Error("unrelated fragment should not score")
	}
}
