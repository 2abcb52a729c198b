// swot-seed fills SWOT factors for every unit kerja, or repairs categories whose weights
// do not add up to 100.
//
// Usage:
//
//	swot-seed -year 2025
//	swot-seed -year 2025 -unit <uuid>
//	swot-seed -year 2025 -rebalance -dry-run
//	swot-seed -dry-run
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Bobot/internal/catalog"
	"github.com/MikeSquared-Agency/Bobot/internal/config"
	"github.com/MikeSquared-Agency/Bobot/internal/hermes"
	"github.com/MikeSquared-Agency/Bobot/internal/seeder"
	"github.com/MikeSquared-Agency/Bobot/internal/store"
	"github.com/MikeSquared-Agency/Bobot/internal/weights"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	year := flag.Int("year", time.Now().Year(), "analysis year")
	unitID := flag.String("unit", "", "seed a single unit (uuid)")
	rebalance := flag.Bool("rebalance", false, "regenerate weights of unbalanced categories instead of seeding")
	dryRun := flag.Bool("dry-run", false, "print what would be written without touching the database")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logger.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	if *dryRun && !*rebalance {
		if err := preview(cat, cfg); err != nil {
			logger.Error("preview failed", "error", err)
			os.Exit(1)
		}
		return
	}

	db, err := store.NewPostgresStore(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	var hermesClient hermes.Client
	if cfg.Hermes.URL != "" {
		hc, err := hermes.NewNATSClient(ctx, cfg.Hermes.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			defer hc.Close()
		}
	}

	sd, err := seeder.New(db, hermesClient, cat, cfg, logger)
	if err != nil {
		logger.Error("failed to create seeder", "error", err)
		os.Exit(1)
	}

	if err := run(ctx, sd, *year, *unitID, *rebalance, *dryRun, logger); err != nil {
		logger.Error("swot-seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, sd *seeder.Seeder, year int, unit string, rebalance, dryRun bool, logger *slog.Logger) error {
	switch {
	case rebalance:
		report, err := sd.Rebalance(ctx, year, dryRun)
		if err != nil {
			return err
		}
		return printJSON(report)
	case unit != "":
		id, err := uuid.Parse(unit)
		if err != nil {
			return fmt.Errorf("invalid unit id %q: %w", unit, err)
		}
		result, err := sd.SeedUnit(ctx, id, year)
		if err != nil {
			return err
		}
		return printJSON(result)
	default:
		report, err := sd.SeedAll(ctx, year)
		if err != nil {
			return err
		}
		if len(report.Failures) > 0 {
			logger.Warn("some units failed", "failed", len(report.Failures))
		}
		return printJSON(report)
	}
}

type previewCategory struct {
	Category store.Category    `json:"category"`
	Label    string            `json:"label"`
	Factors  []string          `json:"factors"`
	Weights  weights.WeightSet `json:"weights"`
	Ranks    []int             `json:"ranks"`
}

// preview generates one unit's worth of factors without a database.
func preview(cat *catalog.Catalog, cfg *config.Config) error {
	gen := weights.NewGenerator(weights.WithMaxShare(cfg.Seeding.MaxShare))

	var out []previewCategory
	for _, c := range store.Categories {
		n := cfg.Seeding.FactorCounts[c]
		texts, err := cat.Pick(c, n, nil)
		if err != nil {
			return err
		}
		ws, err := gen.Generate(n)
		if err != nil {
			return fmt.Errorf("%s: %w", c, err)
		}
		out = append(out, previewCategory{Category: c, Label: c.Label(), Factors: texts, Weights: ws, Ranks: ws.Ranks()})
	}
	return printJSON(out)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
