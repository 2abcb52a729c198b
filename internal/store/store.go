package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryStrength    Category = "strength"
	CategoryWeakness    Category = "weakness"
	CategoryOpportunity Category = "opportunity"
	CategoryThreat      Category = "threat"
)

// Categories lists every SWOT category in matrix order.
var Categories = []Category{CategoryStrength, CategoryWeakness, CategoryOpportunity, CategoryThreat}

var categoryLabels = map[Category]string{
	CategoryStrength:    "Kekuatan",
	CategoryWeakness:    "Kelemahan",
	CategoryOpportunity: "Peluang",
	CategoryThreat:      "Ancaman",
}

// Label returns the Indonesian display name of the category.
func (c Category) Label() string {
	return categoryLabels[c]
}

// Internal reports whether the category describes the unit itself (S, W) rather than its environment.
func (c Category) Internal() bool {
	return c == CategoryStrength || c == CategoryWeakness
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// ParseCategory accepts the English name, the Indonesian label or the single-letter code.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "strength", "Strength", "S", "s", "Kekuatan", "kekuatan":
		return CategoryStrength, nil
	case "weakness", "Weakness", "W", "w", "Kelemahan", "kelemahan":
		return CategoryWeakness, nil
	case "opportunity", "Opportunity", "O", "o", "Peluang", "peluang":
		return CategoryOpportunity, nil
	case "threat", "Threat", "T", "t", "Ancaman", "ancaman":
		return CategoryThreat, nil
	}
	return "", fmt.Errorf("unknown swot category %q", s)
}

// Unit is an organizational work unit (unit kerja).
type Unit struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// SWOTFactor is one weighted factor of a unit's SWOT analysis for a year.
type SWOTFactor struct {
	ID       uuid.UUID `json:"id"`
	UnitID   uuid.UUID `json:"unit_id"`
	Year     int       `json:"year"`
	Category Category  `json:"category"`
	Text     string    `json:"text"`

	// Bobot: weights of one unit/year/category sum to 100.
	Weight int `json:"weight"`
	Rating int `json:"rating"`
	Rank   int `json:"rank"`

	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SWOTFilter struct {
	UnitID   *uuid.UUID
	Year     int
	Category *Category
	Limit    int
	Offset   int
}

// CategoryTotal aggregates the weights of one unit/year/category group.
type CategoryTotal struct {
	UnitID      uuid.UUID `json:"unit_id"`
	Year        int       `json:"year"`
	Category    Category  `json:"category"`
	Count       int       `json:"count"`
	TotalWeight int       `json:"total_weight"`
	MinWeight   int       `json:"min_weight"`
	MaxWeight   int       `json:"max_weight"`
}

// Balanced reports whether the group satisfies the bobot invariant.
func (t *CategoryTotal) Balanced() bool {
	return t.Count > 0 && t.TotalWeight == 100 && t.MinWeight >= 1 && t.MaxWeight <= 100
}

type Store interface {
	CreateUnit(ctx context.Context, unit *Unit) error
	GetUnit(ctx context.Context, id uuid.UUID) (*Unit, error)
	ListUnits(ctx context.Context) ([]*Unit, error)

	// ReplaceUnitFactors swaps the factors of every category present in factors for one
	// unit/year in a single transaction. Categories absent from the map are left alone.
	ReplaceUnitFactors(ctx context.Context, unitID uuid.UUID, year int, factors map[Category][]*SWOTFactor) error
	ListSWOTFactors(ctx context.Context, filter SWOTFilter) ([]*SWOTFactor, error)
	// UpdateFactorWeights rewrites weight, rank and rating of existing factors in one transaction.
	UpdateFactorWeights(ctx context.Context, factors []*SWOTFactor) error
	ListCategoryTotals(ctx context.Context, year int) ([]*CategoryTotal, error)

	EnsureSchema(ctx context.Context) error
	Close() error
}
