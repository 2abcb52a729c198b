package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Bobot/internal/hermes"
	"github.com/MikeSquared-Agency/Bobot/internal/metrics"
	"github.com/MikeSquared-Agency/Bobot/internal/store"
	"github.com/MikeSquared-Agency/Bobot/internal/weights"
)

// RebalancedGroup describes one unit/year/category whose weights were regenerated.
type RebalancedGroup struct {
	UnitID   uuid.UUID         `json:"unit_id"`
	Category store.Category    `json:"category"`
	OldTotal int               `json:"old_total"`
	Weights  weights.WeightSet `json:"weights"`
	Error    string            `json:"error,omitempty"`
}

type RebalanceReport struct {
	Year    int               `json:"year"`
	DryRun  bool              `json:"dry_run"`
	Checked int               `json:"checked"`
	Groups  []RebalancedGroup `json:"groups"`
}

// Rebalance regenerates the weights of every category group of the year that does not sum
// to 100 or holds an out-of-range weight. Texts and ratings stay; ranks follow the new
// weights. With dryRun nothing is written.
func (s *Seeder) Rebalance(ctx context.Context, year int, dryRun bool) (*RebalanceReport, error) {
	if err := validYear(year); err != nil {
		return nil, err
	}
	totals, err := s.store.ListCategoryTotals(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("list category totals: %w", err)
	}

	report := &RebalanceReport{Year: year, DryRun: dryRun, Checked: len(totals), Groups: []RebalancedGroup{}}
	for _, total := range totals {
		if total.Balanced() {
			continue
		}
		group := RebalancedGroup{UnitID: total.UnitID, Category: total.Category, OldTotal: total.TotalWeight}
		ws, err := s.rebalanceGroup(ctx, total, dryRun)
		if err != nil {
			s.logger.Warn("failed to rebalance group", "unit_id", total.UnitID, "category", total.Category, "error", err)
			group.Error = err.Error()
		}
		group.Weights = ws
		report.Groups = append(report.Groups, group)
	}

	s.logger.Info("rebalance complete", "year", year, "checked", report.Checked, "rebalanced", len(report.Groups), "dry_run", dryRun)
	return report, nil
}

func (s *Seeder) rebalanceGroup(ctx context.Context, total *store.CategoryTotal, dryRun bool) (weights.WeightSet, error) {
	unitID, category := total.UnitID, total.Category
	factors, err := s.store.ListSWOTFactors(ctx, store.SWOTFilter{UnitID: &unitID, Year: total.Year, Category: &category})
	if err != nil {
		return nil, fmt.Errorf("list factors: %w", err)
	}
	if len(factors) == 0 {
		return nil, nil
	}

	ws, err := s.gen.Generate(len(factors))
	if err != nil {
		return nil, err
	}
	metrics.WeightSetGenerated(len(factors))

	ranks := ws.Ranks()
	for i, f := range factors {
		f.Weight = ws[i]
		f.Rank = ranks[i]
		if !s.cfg.Rating.Contains(f.Rating) {
			f.Rating = s.rating()
		}
	}
	if dryRun {
		return ws, nil
	}

	if err := s.store.UpdateFactorWeights(ctx, factors); err != nil {
		return ws, fmt.Errorf("update weights: %w", err)
	}
	metrics.GroupRebalanced()

	if s.hermes != nil {
		evt := hermes.SWOTRebalancedEvent{
			UnitID:    unitID.String(),
			Year:      total.Year,
			Category:  string(category),
			OldTotal:  total.TotalWeight,
			Weights:   ws,
			Timestamp: time.Now().UTC(),
		}
		if err := s.hermes.Publish(ctx, hermes.SubjectSWOTRebalanced(evt.UnitID), evt); err != nil {
			s.logger.Warn("failed to publish rebalanced event", "unit_id", unitID, "error", err)
		}
	}
	return ws, nil
}
