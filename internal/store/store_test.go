package store

import (
	"testing"
)

func TestCategoryValues(t *testing.T) {
	expected := []string{"strength", "weakness", "opportunity", "threat"}
	if len(Categories) != len(expected) {
		t.Fatalf("expected %d categories, got %d", len(expected), len(Categories))
	}
	for i, c := range Categories {
		if string(c) != expected[i] {
			t.Errorf("expected %s, got %s", expected[i], c)
		}
		if !c.Valid() {
			t.Errorf("expected %s to be valid", c)
		}
		if c.Label() == "" {
			t.Errorf("expected label for %s", c)
		}
	}
	if Category("risk").Valid() {
		t.Error("expected unknown category to be invalid")
	}
}

func TestCategoryInternal(t *testing.T) {
	if !CategoryStrength.Internal() || !CategoryWeakness.Internal() {
		t.Error("expected strength and weakness to be internal")
	}
	if CategoryOpportunity.Internal() || CategoryThreat.Internal() {
		t.Error("expected opportunity and threat to be external")
	}
}

func TestParseCategory(t *testing.T) {
	tests := map[string]Category{
		"strength": CategoryStrength,
		"W":        CategoryWeakness,
		"Peluang":  CategoryOpportunity,
		"ancaman":  CategoryThreat,
		"Kekuatan": CategoryStrength,
		"threat":   CategoryThreat,
	}
	for in, want := range tests {
		got, err := ParseCategory(in)
		if err != nil {
			t.Errorf("ParseCategory(%q) failed: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseCategory(%q): expected %s, got %s", in, want, got)
		}
	}
	if _, err := ParseCategory("risk"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestCategoryTotalBalanced(t *testing.T) {
	tests := []struct {
		name  string
		total CategoryTotal
		want  bool
	}{
		{"balanced", CategoryTotal{Count: 5, TotalWeight: 100, MinWeight: 5, MaxWeight: 40}, true},
		{"short", CategoryTotal{Count: 5, TotalWeight: 95, MinWeight: 5, MaxWeight: 40}, false},
		{"zero weight", CategoryTotal{Count: 5, TotalWeight: 100, MinWeight: 0, MaxWeight: 40}, false},
		{"empty", CategoryTotal{}, false},
	}
	for _, tt := range tests {
		if got := tt.total.Balanced(); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}
