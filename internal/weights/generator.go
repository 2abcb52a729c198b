package weights

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

// DefaultMaxShare is the soft cap on any single drawn slot.
const DefaultMaxShare = 50

// Generator produces random weight sets that always satisfy the WeightSet invariants.
// It is safe for concurrent use.
type Generator struct {
	mu       sync.Mutex
	rng      *rand.Rand
	maxShare int
}

// Option configures a Generator.
type Option func(*Generator)

// WithSource makes the generator draw from src instead of the shared top-level source.
func WithSource(src rand.Source) Option {
	return func(g *Generator) {
		g.rng = rand.New(src)
	}
}

// WithMaxShare sets the soft cap for drawn slots. Values outside [1, Total] are ignored.
func WithMaxShare(n int) Option {
	return func(g *Generator) {
		if n >= 1 && n <= Total {
			g.maxShare = n
		}
	}
}

// NewGenerator creates a Generator with the given options.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{maxShare: DefaultMaxShare}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var defaultGenerator = NewGenerator()

// Generate returns count weights summing to Total using the default generator.
func Generate(count int) (WeightSet, error) {
	return defaultGenerator.Generate(count)
}

// Generate returns count positive weights summing to Total in random order.
//
// Every slot but the last is drawn between half and twice the even share of what is
// left, capped by maxShare and by what the later slots need to stay positive. When the
// cap falls below the floor the floor wins. The last slot takes the remainder.
func (g *Generator) Generate(count int) (WeightSet, error) {
	if count < 1 {
		return nil, &InvalidArgumentError{Count: count, Reason: "count must be at least 1"}
	}
	if count > Total {
		return nil, &InvalidArgumentError{
			Count:  count,
			Reason: fmt.Sprintf("more than %d positive weights cannot sum to %d", Total, Total),
		}
	}
	if count == 1 {
		return WeightSet{Total}, nil
	}

	if g.rng != nil {
		g.mu.Lock()
		defer g.mu.Unlock()
	}

	ws := make(WeightSet, count)
	remaining := Total
	for i := 0; i < count-1; i++ {
		lo, hi := slotBounds(remaining, count-i, g.maxShare)
		ws[i] = lo + g.intN(hi-lo+1)
		remaining -= ws[i]
	}
	ws[count-1] = max(remaining, 1)

	repairOverflow(ws)
	balance(ws)
	g.shuffle(ws)

	if err := ws.Validate(); err != nil {
		return nil, fmt.Errorf("generate %d weights: %w", count, err)
	}
	return ws, nil
}

// slotBounds returns the inclusive draw range for the next slot.
// remaining >= slotsLeft holds on entry, so lo never exceeds what leaves 1 per later slot.
func slotBounds(remaining, slotsLeft, maxShare int) (lo, hi int) {
	avg := remaining / slotsLeft
	lo = max(1, avg/2)
	hi = min(remaining-(slotsLeft-1), 2*avg, maxShare)
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// repairOverflow clamps weights above Total and hands the excess to the others in
// proportion to their headroom.
func repairOverflow(ws WeightSet) {
	excess := 0
	for i, w := range ws {
		if w > Total {
			excess += w - Total
			ws[i] = Total
		}
	}

	for excess > 0 {
		headroom := 0
		for _, w := range ws {
			if w < Total {
				headroom += Total - w
			}
		}
		if headroom == 0 {
			return
		}

		given := 0
		for i, w := range ws {
			if w >= Total {
				continue
			}
			share := min(excess*(Total-w)/headroom, Total-w)
			ws[i] += share
			given += share
		}
		if given == 0 {
			// every proportional share rounded down to zero
			for i := range ws {
				if excess == 0 {
					break
				}
				if ws[i] < Total {
					ws[i]++
					excess--
				}
			}
			continue
		}
		excess -= given
	}
}

// balance moves the largest weight by whatever the set is off by, then spreads what the
// clamp to [1, Total] left over across the other weights.
func balance(ws WeightSet) {
	diff := Total - ws.Sum()
	if diff == 0 {
		return
	}

	li := ws.largest()
	target := ws[li] + diff
	ws[li] = min(max(target, 1), Total)
	residual := target - ws[li]

	for i := range ws {
		if residual == 0 {
			return
		}
		if i == li {
			continue
		}
		if residual > 0 {
			add := min(residual, Total-ws[i])
			ws[i] += add
			residual -= add
		} else {
			take := min(-residual, ws[i]-1)
			ws[i] -= take
			residual += take
		}
	}
}

func (g *Generator) intN(n int) int {
	if g.rng != nil {
		return g.rng.IntN(n)
	}
	return rand.IntN(n)
}

func (g *Generator) shuffle(ws WeightSet) {
	swap := func(i, j int) { ws[i], ws[j] = ws[j], ws[i] }
	if g.rng != nil {
		g.rng.Shuffle(len(ws), swap)
		return
	}
	rand.Shuffle(len(ws), swap)
}
