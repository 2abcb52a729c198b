package scoring

import (
	"math"

	"github.com/MikeSquared-Agency/Bobot/internal/store"
	"github.com/MikeSquared-Agency/Bobot/internal/weights"
)

// FactorResult captures one factor's contribution to its category score.
type FactorResult struct {
	Name     string  `json:"name"`
	Weight   int     `json:"weight"`
	Rating   int     `json:"rating"`
	Weighted float64 `json:"weighted"`
	Rank     int     `json:"rank"`
}

// CategorySummary is the weighted total of one SWOT category.
type CategorySummary struct {
	Category      store.Category `json:"category"`
	Label         string         `json:"label"`
	TotalWeight   int            `json:"total_weight"`
	WeightedScore float64        `json:"weighted_score"`
	Balanced      bool           `json:"balanced"`
	Factors       []FactorResult `json:"factors"`
}

// Quadrant is the position of a unit on the SWOT diagram.
type Quadrant int

const (
	QuadrantAggressive      Quadrant = 1 // S > W, O > T
	QuadrantTurnaround      Quadrant = 2 // W > S, O > T
	QuadrantDefensive       Quadrant = 3 // W > S, T > O
	QuadrantDiversification Quadrant = 4 // S > W, T > O
)

func (q Quadrant) String() string {
	switch q {
	case QuadrantAggressive:
		return "I"
	case QuadrantTurnaround:
		return "II"
	case QuadrantDefensive:
		return "III"
	case QuadrantDiversification:
		return "IV"
	}
	return "unknown"
}

// Strategy returns the strategy family recommended for the quadrant.
func (q Quadrant) Strategy() string {
	switch q {
	case QuadrantAggressive:
		return "SO: agresif"
	case QuadrantTurnaround:
		return "WO: turn-around"
	case QuadrantDefensive:
		return "WT: defensif"
	case QuadrantDiversification:
		return "ST: diversifikasi"
	}
	return ""
}

// Evaluation is the SWOT analysis result of one unit and year.
type Evaluation struct {
	Categories []CategorySummary `json:"categories"`
	// IFAS is strength minus weakness, EFAS is opportunity minus threat.
	IFAS     float64  `json:"ifas"`
	EFAS     float64  `json:"efas"`
	Quadrant Quadrant `json:"quadrant"`
	Strategy string   `json:"strategy"`
	Balanced bool     `json:"balanced"`
}

// Evaluate computes weighted category scores, the IFAS/EFAS coordinates and the quadrant.
// Factors of categories other than the four SWOT categories are ignored.
func Evaluate(factors []*store.SWOTFactor) Evaluation {
	byCategory := make(map[store.Category][]*store.SWOTFactor)
	for _, f := range factors {
		byCategory[f.Category] = append(byCategory[f.Category], f)
	}

	eval := Evaluation{Balanced: true}
	var ifas, efas float64
	for _, cat := range store.Categories {
		summary := summarize(cat, byCategory[cat])
		if !summary.Balanced {
			eval.Balanced = false
		}
		eval.Categories = append(eval.Categories, summary)

		score := summary.WeightedScore
		if cat == store.CategoryWeakness || cat == store.CategoryThreat {
			score = -score
		}
		if cat.Internal() {
			ifas += score
		} else {
			efas += score
		}
	}

	eval.IFAS = round(ifas)
	eval.EFAS = round(efas)
	eval.Quadrant = quadrantFor(eval.IFAS, eval.EFAS)
	eval.Strategy = eval.Quadrant.Strategy()
	return eval
}

func summarize(cat store.Category, factors []*store.SWOTFactor) CategorySummary {
	summary := CategorySummary{
		Category: cat,
		Label:    cat.Label(),
		Factors:  []FactorResult{},
	}

	ws := make(weights.WeightSet, 0, len(factors))
	var total float64
	for _, f := range factors {
		weighted := float64(f.Weight) / weights.Total * float64(f.Rating)
		summary.Factors = append(summary.Factors, FactorResult{
			Name:     f.Text,
			Weight:   f.Weight,
			Rating:   f.Rating,
			Weighted: round(weighted),
			Rank:     f.Rank,
		})
		summary.TotalWeight += f.Weight
		total += weighted
		ws = append(ws, f.Weight)
	}

	summary.WeightedScore = round(total)
	summary.Balanced = ws.Validate() == nil
	return summary
}

func quadrantFor(x, y float64) Quadrant {
	switch {
	case x >= 0 && y >= 0:
		return QuadrantAggressive
	case x < 0 && y >= 0:
		return QuadrantTurnaround
	case x < 0:
		return QuadrantDefensive
	default:
		return QuadrantDiversification
	}
}

func round(v float64) float64 {
	return math.Round(v*10000) / 10000
}
