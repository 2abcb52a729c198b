package catalog

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Bobot/internal/store"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	for _, cat := range store.Categories {
		assert.GreaterOrEqual(t, c.Size(cat), 6, "category %s", cat)
	}
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9, c.Size(store.CategoryStrength))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	data := `factors:
  strength: [a, b]
  weakness: [c]
  opportunity: [d]
  threat: [e, f, g]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Size(store.CategoryStrength))
	assert.Equal(t, 3, c.Size(store.CategoryThreat))
}

func TestLoadRejectsIncompleteCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("factors:\n  strength: [a]\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsUnknownCategory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	data := "factors:\n  strength: [a]\n  weakness: [b]\n  opportunity: [c]\n  threat: [d]\n  risk: [e]\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPickDistinct(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(1, 1))
	for i := 0; i < 100; i++ {
		picked, err := c.Pick(store.CategoryOpportunity, 6, rng)
		require.NoError(t, err)
		require.Len(t, picked, 6)

		seen := make(map[string]bool)
		for _, p := range picked {
			assert.False(t, seen[p], "duplicate pick %q", p)
			seen[p] = true
		}
	}
}

func TestPickErrors(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	_, err = c.Pick(store.CategoryThreat, 0, nil)
	assert.Error(t, err)
	_, err = c.Pick(store.CategoryThreat, c.Size(store.CategoryThreat)+1, nil)
	assert.Error(t, err)
	_, err = c.Pick(store.Category("risk"), 1, nil)
	assert.Error(t, err)

	all, err := c.Pick(store.CategoryThreat, c.Size(store.CategoryThreat), nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, c.Factors[store.CategoryThreat], all)
}
