package seeder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/MikeSquared-Agency/Bobot/internal/catalog"
	"github.com/MikeSquared-Agency/Bobot/internal/config"
	"github.com/MikeSquared-Agency/Bobot/internal/hermes"
	"github.com/MikeSquared-Agency/Bobot/internal/metrics"
	"github.com/MikeSquared-Agency/Bobot/internal/store"
	"github.com/MikeSquared-Agency/Bobot/internal/weights"
)

var (
	ErrUnitNotFound = errors.New("unit not found")
	ErrInvalidYear  = errors.New("invalid year")
)

const (
	minYear = 2000
	maxYear = 2100
)

// CategoryResult holds the factors written for one category.
type CategoryResult struct {
	Category store.Category      `json:"category"`
	Weights  weights.WeightSet   `json:"weights"`
	Factors  []*store.SWOTFactor `json:"factors"`
}

// UnitResult is the outcome of seeding one unit for one year.
type UnitResult struct {
	UnitID     uuid.UUID        `json:"unit_id"`
	UnitCode   string           `json:"unit_code"`
	Year       int              `json:"year"`
	Categories []CategoryResult `json:"categories"`
}

type UnitFailure struct {
	UnitID   uuid.UUID `json:"unit_id"`
	UnitCode string    `json:"unit_code"`
	Error    string    `json:"error"`
}

// SeedReport summarizes a SeedAll run. Failures do not stop the run.
type SeedReport struct {
	Year     int           `json:"year"`
	Seeded   int           `json:"seeded"`
	Failures []UnitFailure `json:"failures,omitempty"`
}

// Seeder writes generated SWOT factors for units and repairs unbalanced categories.
type Seeder struct {
	store   store.Store
	hermes  hermes.Client
	catalog *catalog.Catalog
	gen     *weights.Generator
	cfg     config.SeedingConfig
	limiter *rate.Limiter
	logger  *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

type Option func(*Seeder)

// WithSource makes text picks, ratings and weights reproducible.
func WithSource(seed1, seed2 uint64) Option {
	return func(s *Seeder) {
		s.rng = rand.New(rand.NewPCG(seed1, seed2))
		s.gen = weights.NewGenerator(
			weights.WithSource(rand.NewPCG(seed2, seed1)),
			weights.WithMaxShare(s.cfg.MaxShare),
		)
	}
}

// WithLimiter overrides the pacing between units in SeedAll.
func WithLimiter(l *rate.Limiter) Option {
	return func(s *Seeder) {
		s.limiter = l
	}
}

// New builds a Seeder. h may be nil, in which case no events are published.
func New(st store.Store, h hermes.Client, cat *catalog.Catalog, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Seeder, error) {
	for _, c := range store.Categories {
		if need := cfg.Seeding.FactorCounts[c]; cat.Size(c) < need {
			return nil, fmt.Errorf("catalog has %d %s factors, seeding needs %d", cat.Size(c), c, need)
		}
	}

	limit := rate.Inf
	if d := cfg.UnitDelay(); d > 0 {
		limit = rate.Every(d)
	}

	s := &Seeder{
		store:   st,
		hermes:  h,
		catalog: cat,
		gen:     weights.NewGenerator(weights.WithMaxShare(cfg.Seeding.MaxShare)),
		cfg:     cfg.Seeding,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Generator exposes the weight generator used for seeding.
func (s *Seeder) Generator() *weights.Generator {
	return s.gen
}

func validYear(year int) error {
	if year < minYear || year > maxYear {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidYear, year, minYear, maxYear)
	}
	return nil
}

// SeedUnit replaces every category of the unit's SWOT analysis for the year with freshly
// generated factors. All categories are generated first and then written in one
// transaction, so a failed write leaves the unit's previous factors in place.
func (s *Seeder) SeedUnit(ctx context.Context, unitID uuid.UUID, year int) (*UnitResult, error) {
	if err := validYear(year); err != nil {
		return nil, err
	}
	unit, err := s.store.GetUnit(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("get unit %s: %w", unitID, err)
	}
	if unit == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnitNotFound, unitID)
	}

	start := time.Now()
	result := &UnitResult{UnitID: unit.ID, UnitCode: unit.Code, Year: year}
	for _, cat := range store.Categories {
		cr, err := s.buildCategory(cat)
		if err != nil {
			return nil, fmt.Errorf("unit %s %s: %w", unit.Code, cat, err)
		}
		result.Categories = append(result.Categories, cr)
	}

	byCategory := make(map[store.Category][]*store.SWOTFactor, len(result.Categories))
	for _, cr := range result.Categories {
		byCategory[cr.Category] = cr.Factors
	}
	if err := s.store.ReplaceUnitFactors(ctx, unit.ID, year, byCategory); err != nil {
		return nil, fmt.Errorf("unit %s: %w", unit.Code, err)
	}
	for _, cr := range result.Categories {
		metrics.FactorsSeeded(cr.Category, len(cr.Factors))
	}
	metrics.ObserveSeedDuration(time.Since(start))

	s.logger.Info("seeded swot factors", "unit", unit.Code, "year", year, "duration_ms", time.Since(start).Milliseconds())
	s.publishSeeded(ctx, result)
	return result, nil
}

func (s *Seeder) buildCategory(cat store.Category) (CategoryResult, error) {
	n := s.cfg.FactorCounts[cat]
	texts, err := s.pick(cat, n)
	if err != nil {
		return CategoryResult{}, err
	}
	ws, err := s.gen.Generate(n)
	if err != nil {
		return CategoryResult{}, err
	}
	metrics.WeightSetGenerated(n)

	ranks := ws.Ranks()
	factors := make([]*store.SWOTFactor, n)
	for i := range factors {
		factors[i] = &store.SWOTFactor{
			Category: cat,
			Text:     texts[i],
			Weight:   ws[i],
			Rating:   s.rating(),
			Rank:     ranks[i],
			Source:   s.cfg.Source,
		}
	}
	return CategoryResult{Category: cat, Weights: ws, Factors: factors}, nil
}

// SeedAll seeds every unit for the year, waiting on the limiter between units.
func (s *Seeder) SeedAll(ctx context.Context, year int) (*SeedReport, error) {
	if err := validYear(year); err != nil {
		return nil, err
	}
	units, err := s.store.ListUnits(ctx)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}

	report := &SeedReport{Year: year}
	for _, u := range units {
		if err := s.limiter.Wait(ctx); err != nil {
			return report, err
		}
		if _, err := s.SeedUnit(ctx, u.ID, year); err != nil {
			s.logger.Warn("failed to seed unit", "unit", u.Code, "year", year, "error", err)
			report.Failures = append(report.Failures, UnitFailure{UnitID: u.ID, UnitCode: u.Code, Error: err.Error()})
			continue
		}
		report.Seeded++
	}

	s.logger.Info("seed run complete", "year", year, "seeded", report.Seeded, "failed", len(report.Failures))
	if s.hermes != nil {
		evt := hermes.SeedRunCompletedEvent{
			Year:      year,
			Seeded:    report.Seeded,
			Failed:    len(report.Failures),
			Timestamp: time.Now().UTC(),
		}
		if err := s.hermes.Publish(ctx, hermes.SubjectSeedRunCompleted(), evt); err != nil {
			s.logger.Warn("failed to publish seed run event", "error", err)
		}
	}
	return report, nil
}

func (s *Seeder) publishSeeded(ctx context.Context, result *UnitResult) {
	if s.hermes == nil {
		return
	}
	evt := hermes.SWOTSeededEvent{
		UnitID:    result.UnitID.String(),
		UnitCode:  result.UnitCode,
		Year:      result.Year,
		Timestamp: time.Now().UTC(),
	}
	for _, cr := range result.Categories {
		evt.Categories = append(evt.Categories, hermes.CategoryWeights{Category: string(cr.Category), Weights: cr.Weights})
	}
	if err := s.hermes.Publish(ctx, hermes.SubjectSWOTSeeded(evt.UnitID), evt); err != nil {
		s.logger.Warn("failed to publish seeded event", "unit", result.UnitCode, "error", err)
	}
}

func (s *Seeder) pick(cat store.Category, n int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Pick(cat, n, s.rng)
}

func (s *Seeder) rating() int {
	span := s.cfg.Rating.Max - s.cfg.Rating.Min + 1
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rng != nil {
		return s.cfg.Rating.Min + s.rng.IntN(span)
	}
	return s.cfg.Rating.Min + rand.IntN(span)
}
