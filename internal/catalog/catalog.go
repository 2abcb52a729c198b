package catalog

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Bobot/internal/store"
)

//go:embed default.yaml
var defaultYAML []byte

// Catalog holds the pool of factor texts for every SWOT category.
type Catalog struct {
	Factors map[store.Category][]string `yaml:"factors"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return parse(defaultYAML)
}

// Load reads a catalog file, or returns the embedded catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Catalog, error) {
	c := &Catalog{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that every category has at least one text and no unknown categories are present.
func (c *Catalog) Validate() error {
	for cat := range c.Factors {
		if !cat.Valid() {
			return fmt.Errorf("catalog: unknown category %q", cat)
		}
	}
	for _, cat := range store.Categories {
		if len(c.Factors[cat]) == 0 {
			return fmt.Errorf("catalog: no factors for %s", cat)
		}
	}
	return nil
}

// Size returns the number of texts available for a category.
func (c *Catalog) Size(category store.Category) int {
	return len(c.Factors[category])
}

// Pick returns n distinct texts of a category in random order.
// A nil rng uses the shared top-level source.
func (c *Catalog) Pick(category store.Category, n int, rng *rand.Rand) ([]string, error) {
	pool, ok := c.Factors[category]
	if !ok {
		return nil, fmt.Errorf("catalog: unknown category %q", category)
	}
	if n < 1 || n > len(pool) {
		return nil, fmt.Errorf("catalog: cannot pick %d of %d %s factors", n, len(pool), category)
	}

	var perm []int
	if rng != nil {
		perm = rng.Perm(len(pool))
	} else {
		perm = rand.Perm(len(pool))
	}

	picked := make([]string, n)
	for i := range picked {
		picked[i] = pool[perm[i]]
	}
	return picked, nil
}
