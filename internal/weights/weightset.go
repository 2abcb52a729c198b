package weights

import (
	"fmt"
	"sort"
)

// Total is the value every weight set sums to.
const Total = 100

// WeightSet is an ordered sequence of bobot values for the factors of one SWOT category.
// A valid set is non-empty, sums to Total and holds only values in [1, Total].
type WeightSet []int

// Sum returns the total of all weights.
func (ws WeightSet) Sum() int {
	var sum int
	for _, w := range ws {
		sum += w
	}
	return sum
}

// Validate checks the sum and bounds invariants.
func (ws WeightSet) Validate() error {
	if len(ws) == 0 {
		return fmt.Errorf("%w: empty", ErrUnbalanced)
	}
	for i, w := range ws {
		if w < 1 || w > Total {
			return fmt.Errorf("%w: weight[%d]=%d outside [1, %d]", ErrUnbalanced, i, w, Total)
		}
	}
	if sum := ws.Sum(); sum != Total {
		return fmt.Errorf("%w: weights sum to %d, must sum to %d", ErrUnbalanced, sum, Total)
	}
	return nil
}

// Ranks returns the 1-based rank of each weight, heaviest first.
// Equal weights keep their relative order.
func (ws WeightSet) Ranks() []int {
	order := make([]int, len(ws))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return ws[order[a]] > ws[order[b]]
	})
	ranks := make([]int, len(ws))
	for rank, idx := range order {
		ranks[idx] = rank + 1
	}
	return ranks
}

// largest returns the index of the first maximum element.
func (ws WeightSet) largest() int {
	idx := 0
	for i, w := range ws {
		if w > ws[idx] {
			idx = i
		}
	}
	return idx
}
