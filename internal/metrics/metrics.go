package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MikeSquared-Agency/Bobot/internal/store"
)

var (
	weightSetsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bobot",
		Name:      "weightsets_generated_total",
		Help:      "Weight sets generated, by factor count.",
	}, []string{"count"})

	factorsSeeded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bobot",
		Name:      "factors_seeded_total",
		Help:      "SWOT factors written by the seeder, by category.",
	}, []string{"category"})

	groupsRebalanced = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bobot",
		Name:      "groups_rebalanced_total",
		Help:      "Unit/year/category groups whose weights were regenerated.",
	})

	seedDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bobot",
		Name:      "seed_duration_seconds",
		Help:      "Time to seed all categories of one unit.",
		Buckets:   prometheus.DefBuckets,
	})
)

func WeightSetGenerated(count int) {
	weightSetsGenerated.WithLabelValues(strconv.Itoa(count)).Inc()
}

func FactorsSeeded(category store.Category, n int) {
	factorsSeeded.WithLabelValues(string(category)).Add(float64(n))
}

func GroupRebalanced() {
	groupsRebalanced.Inc()
}

func ObserveSeedDuration(d time.Duration) {
	seedDuration.Observe(d.Seconds())
}
