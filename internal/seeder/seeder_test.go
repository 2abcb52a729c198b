package seeder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/MikeSquared-Agency/Bobot/internal/catalog"
	"github.com/MikeSquared-Agency/Bobot/internal/config"
	"github.com/MikeSquared-Agency/Bobot/internal/scoring"
	"github.com/MikeSquared-Agency/Bobot/internal/store"
	"github.com/MikeSquared-Agency/Bobot/internal/weights"
)

// Mocks

type groupKey struct {
	unit     uuid.UUID
	year     int
	category store.Category
}

type mockStore struct {
	mu          sync.Mutex
	units       map[uuid.UUID]*store.Unit
	order       []uuid.UUID
	factors     map[groupKey][]*store.SWOTFactor
	replaceErr  map[uuid.UUID]error
	categoryErr map[store.Category]error
	updates     int
}

func newMockStore() *mockStore {
	return &mockStore{
		units:       make(map[uuid.UUID]*store.Unit),
		factors:     make(map[groupKey][]*store.SWOTFactor),
		replaceErr:  make(map[uuid.UUID]error),
		categoryErr: make(map[store.Category]error),
	}
}

func (m *mockStore) addUnit(code string) *store.Unit {
	u := &store.Unit{ID: uuid.New(), Code: code, Name: "Unit " + code, CreatedAt: time.Now()}
	m.units[u.ID] = u
	m.order = append(m.order, u.ID)
	return u
}

func (m *mockStore) CreateUnit(_ context.Context, u *store.Unit) error {
	u.ID = uuid.New()
	m.units[u.ID] = u
	m.order = append(m.order, u.ID)
	return nil
}
func (m *mockStore) GetUnit(_ context.Context, id uuid.UUID) (*store.Unit, error) {
	return m.units[id], nil
}
func (m *mockStore) ListUnits(_ context.Context) ([]*store.Unit, error) {
	var out []*store.Unit
	for _, id := range m.order {
		out = append(out, m.units[id])
	}
	return out, nil
}

// ReplaceUnitFactors checks every failure before touching state, like a rolled back transaction.
func (m *mockStore) ReplaceUnitFactors(_ context.Context, unitID uuid.UUID, year int, factors map[store.Category][]*store.SWOTFactor) error {
	if err := m.replaceErr[unitID]; err != nil {
		return err
	}
	for cat := range factors {
		if err := m.categoryErr[cat]; err != nil {
			return fmt.Errorf("%s: %w", cat, err)
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for cat, fs := range factors {
		for _, f := range fs {
			f.ID = uuid.New()
			f.UnitID = unitID
			f.Year = year
			f.Category = cat
		}
		m.factors[groupKey{unitID, year, cat}] = fs
	}
	return nil
}
func (m *mockStore) ListSWOTFactors(_ context.Context, filter store.SWOTFilter) ([]*store.SWOTFactor, error) {
	var out []*store.SWOTFactor
	for k, fs := range m.factors {
		if filter.UnitID != nil && k.unit != *filter.UnitID {
			continue
		}
		if filter.Year != 0 && k.year != filter.Year {
			continue
		}
		if filter.Category != nil && k.category != *filter.Category {
			continue
		}
		for _, f := range fs {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (m *mockStore) UpdateFactorWeights(_ context.Context, factors []*store.SWOTFactor) error {
	m.updates++
	for _, f := range factors {
		for _, fs := range m.factors {
			for _, existing := range fs {
				if existing.ID == f.ID {
					existing.Weight = f.Weight
					existing.Rank = f.Rank
					existing.Rating = f.Rating
				}
			}
		}
	}
	return nil
}
func (m *mockStore) ListCategoryTotals(_ context.Context, year int) ([]*store.CategoryTotal, error) {
	var out []*store.CategoryTotal
	for k, fs := range m.factors {
		if k.year != year || len(fs) == 0 {
			continue
		}
		t := &store.CategoryTotal{UnitID: k.unit, Year: k.year, Category: k.category, Count: len(fs), MinWeight: fs[0].Weight, MaxWeight: fs[0].Weight}
		for _, f := range fs {
			t.TotalWeight += f.Weight
			t.MinWeight = min(t.MinWeight, f.Weight)
			t.MaxWeight = max(t.MaxWeight, f.Weight)
		}
		out = append(out, t)
	}
	return out, nil
}
func (m *mockStore) EnsureSchema(_ context.Context) error { return nil }
func (m *mockStore) Close() error                         { return nil }

type published struct {
	subject string
	data    interface{}
}

type mockHermes struct {
	mu   sync.Mutex
	msgs []published
}

func (m *mockHermes) Publish(_ context.Context, subject string, data interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, published{subject, data})
	return nil
}
func (m *mockHermes) Close() {}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("BOBOT_UNIT_DELAY_MS", "0")
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func newTestSeeder(t *testing.T) (*Seeder, *mockStore, *mockHermes) {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	ms := newMockStore()
	mh := &mockHermes{}
	s, err := New(ms, mh, cat, testConfig(t), discardLogger(), WithSource(42, 7))
	require.NoError(t, err)
	return s, ms, mh
}

// Tests

func TestSeedUnitWritesBalancedCategories(t *testing.T) {
	s, ms, mh := newTestSeeder(t)
	u := ms.addUnit("BIRO-UMUM")

	result, err := s.SeedUnit(context.Background(), u.ID, 2025)
	require.NoError(t, err)
	require.Len(t, result.Categories, 4)
	assert.Equal(t, "BIRO-UMUM", result.UnitCode)

	expected := map[store.Category]int{
		store.CategoryStrength: 6, store.CategoryWeakness: 5,
		store.CategoryOpportunity: 6, store.CategoryThreat: 5,
	}
	rating := scoring.DefaultRatingRange()
	for _, cat := range store.Categories {
		factors := ms.factors[groupKey{u.ID, 2025, cat}]
		require.Len(t, factors, expected[cat], "category %s", cat)

		ws := make(weights.WeightSet, len(factors))
		ranks := make(map[int]bool)
		texts := make(map[string]bool)
		for i, f := range factors {
			ws[i] = f.Weight
			assert.True(t, rating.Contains(f.Rating), "rating %d", f.Rating)
			assert.Equal(t, "seed", f.Source)
			ranks[f.Rank] = true
			assert.False(t, texts[f.Text], "duplicate text %q", f.Text)
			texts[f.Text] = true
		}
		assert.NoError(t, ws.Validate())
		for r := 1; r <= len(factors); r++ {
			assert.True(t, ranks[r], "missing rank %d in %s", r, cat)
		}
	}

	require.Len(t, mh.msgs, 1)
	assert.Equal(t, "risk.swot."+u.ID.String()+".seeded", mh.msgs[0].subject)
}

func TestSeedUnitRankOneIsHeaviest(t *testing.T) {
	s, ms, _ := newTestSeeder(t)
	u := ms.addUnit("FT")

	_, err := s.SeedUnit(context.Background(), u.ID, 2024)
	require.NoError(t, err)

	for _, cat := range store.Categories {
		var top *store.SWOTFactor
		maxWeight := 0
		for _, f := range ms.factors[groupKey{u.ID, 2024, cat}] {
			if f.Rank == 1 {
				top = f
			}
			maxWeight = max(maxWeight, f.Weight)
		}
		require.NotNil(t, top)
		assert.Equal(t, maxWeight, top.Weight)
	}
}

func TestSeedUnitNotFound(t *testing.T) {
	s, _, _ := newTestSeeder(t)
	_, err := s.SeedUnit(context.Background(), uuid.New(), 2025)
	assert.True(t, errors.Is(err, ErrUnitNotFound))
}

func TestSeedUnitInvalidYear(t *testing.T) {
	s, ms, _ := newTestSeeder(t)
	u := ms.addUnit("X")
	for _, year := range []int{0, 1999, 2101} {
		_, err := s.SeedUnit(context.Background(), u.ID, year)
		assert.True(t, errors.Is(err, ErrInvalidYear), "year %d", year)
	}
}

func TestSeedAllCollectsFailures(t *testing.T) {
	s, ms, mh := newTestSeeder(t)
	ok1 := ms.addUnit("A")
	bad := ms.addUnit("B")
	ok2 := ms.addUnit("C")
	ms.replaceErr[bad.ID] = errors.New("connection reset")

	report, err := s.SeedAll(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Seeded)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "B", report.Failures[0].UnitCode)
	assert.Contains(t, report.Failures[0].Error, "connection reset")

	assert.NotEmpty(t, ms.factors[groupKey{ok1.ID, 2025, store.CategoryThreat}])
	assert.NotEmpty(t, ms.factors[groupKey{ok2.ID, 2025, store.CategoryThreat}])

	last := mh.msgs[len(mh.msgs)-1]
	assert.Equal(t, "risk.swot.run.completed", last.subject)
}

func TestSeedUnitFailedWriteKeepsPreviousFactors(t *testing.T) {
	s, ms, mh := newTestSeeder(t)
	u := ms.addUnit("P")
	seedGroup(ms, u.ID, 2025, store.CategoryStrength, 60, 40)
	seedGroup(ms, u.ID, 2025, store.CategoryOpportunity, 70, 30)
	ms.categoryErr[store.CategoryOpportunity] = errors.New("boom")

	_, err := s.SeedUnit(context.Background(), u.ID, 2025)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	assert.Equal(t, weights.WeightSet{60, 40}, groupWeights(ms, u.ID, 2025, store.CategoryStrength))
	assert.Equal(t, weights.WeightSet{70, 30}, groupWeights(ms, u.ID, 2025, store.CategoryOpportunity))
	assert.Empty(t, ms.factors[groupKey{u.ID, 2025, store.CategoryThreat}])
	assert.Empty(t, mh.msgs)
}

func TestSeedAllStopsOnCancelledContext(t *testing.T) {
	s, ms, _ := newTestSeeder(t)
	ms.addUnit("A")
	ms.addUnit("B")
	s.limiter = rate.NewLimiter(rate.Every(time.Hour), 1)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	report, err := s.SeedAll(ctx, 2025)
	assert.Error(t, err)
	require.NotNil(t, report)
	assert.Equal(t, 1, report.Seeded)
}

func TestNewRejectsSmallCatalog(t *testing.T) {
	cat := &catalog.Catalog{Factors: map[store.Category][]string{
		store.CategoryStrength:    {"a"},
		store.CategoryWeakness:    {"b"},
		store.CategoryOpportunity: {"c"},
		store.CategoryThreat:      {"d"},
	}}
	_, err := New(newMockStore(), nil, cat, testConfig(t), discardLogger())
	assert.Error(t, err)
}

func TestSeedWithoutHermes(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)
	ms := newMockStore()
	u := ms.addUnit("NOEVENTS")

	s, err := New(ms, nil, cat, testConfig(t), discardLogger())
	require.NoError(t, err)
	_, err = s.SeedUnit(context.Background(), u.ID, 2025)
	require.NoError(t, err)
	_, err = s.SeedAll(context.Background(), 2025)
	require.NoError(t, err)
}
