// Package simulation is the deterministic demand-planning data generator.
//
// A run builds the static catalogs, simulates two years of weekly demand and
// derives forecasts, an order book, an NPI launch tracker and an alert feed
// from them. Every generator draws from its own Stream derived from one root
// seed, so the same seed always produces the same tables whether or not the
// independent branches run concurrently.
package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vsinha/demandplan/pkg/domain/dataset"
	"github.com/vsinha/demandplan/pkg/domain/repositories"
	"github.com/vsinha/demandplan/pkg/infrastructure/events"
	"github.com/vsinha/demandplan/pkg/infrastructure/workers"
)

// DefaultSeed is the seed used when none is configured
const DefaultSeed int64 = 42

// Stream labels, one per generator
const (
	streamDemand    = "demand"
	streamForecasts = "forecasts"
	streamOrders    = "order_book"
	streamNPI       = "npi_tracker"
	streamAlerts    = "alerts"
)

// GeneratorConfig holds configuration for a generation run
type GeneratorConfig struct {
	// Seed is the root seed every generator stream derives from
	Seed int64
	// Parallel runs the forecast, order book and NPI generators concurrently
	Parallel bool
	// Progress, if set, is called after each simulated demand week
	Progress ProgressFunc
}

// Generator orchestrates a full generation run
type Generator struct {
	config   GeneratorConfig
	scenario Scenario
	logger   *zap.Logger
	store    events.EventStore
	products repositories.ProductRepository
	partners repositories.PartnerRepository
}

// NewGenerator creates a generator. The catalogs are loaded into the given
// repositories, which then back referential-integrity checks.
func NewGenerator(
	config GeneratorConfig,
	logger *zap.Logger,
	store events.EventStore,
	products repositories.ProductRepository,
	partners repositories.PartnerRepository,
) *Generator {
	return &Generator{
		config:   config,
		scenario: DefaultScenario(),
		logger:   logger,
		store:    store,
		products: products,
		partners: partners,
	}
}

// Generate runs every generator in dependency order and validates the result.
// It either returns all tables or an error; nothing is persisted here.
func (g *Generator) Generate(ctx context.Context) (*dataset.Dataset, error) {
	runID := uuid.NewString()
	g.record(runID, events.RunStartedEvent, events.RunStarted{Seed: g.config.Seed, Parallel: g.config.Parallel})
	g.logger.Info("generation started",
		zap.String("run", runID),
		zap.Int64("seed", g.config.Seed),
		zap.Bool("parallel", g.config.Parallel),
	)

	root := NewStream(g.config.Seed)
	ds := &dataset.Dataset{RunID: runID, Seed: g.config.Seed, Today: Today}

	started := time.Now()
	catalog, err := BuildCatalog(Today)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}
	if err := g.products.LoadProducts(catalog.Products); err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	if err := g.partners.LoadPartners(catalog.Partners); err != nil {
		return nil, fmt.Errorf("failed to load partners: %w", err)
	}
	ds.Products, ds.Partners = catalog.Products, catalog.Partners
	g.logger.Info("catalog built",
		zap.Int("products", len(catalog.Products)),
		zap.Int("npi_products", len(catalog.NPIProducts())),
		zap.Int("partners", len(catalog.Partners)),
	)
	g.tableDone(runID, dataset.TableProducts, len(ds.Products), started)
	g.tableDone(runID, dataset.TablePartners, len(ds.Partners), started)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	started = time.Now()
	ds.Actuals, err = NewDemandSimulator(g.logger, g.config.Progress).Simulate(catalog, root.Derive(streamDemand))
	if err != nil {
		return nil, fmt.Errorf("failed to simulate demand: %w", err)
	}
	g.tableDone(runID, dataset.TableDemandActuals, len(ds.Actuals), started)

	if err := g.runBranches(ctx, runID, catalog, root, ds); err != nil {
		return nil, err
	}

	started = time.Now()
	ds.Alerts, err = NewAlertGenerator(g.logger, g.scenario).Generate(catalog, ds.NPI, root.Derive(streamAlerts))
	if err != nil {
		return nil, fmt.Errorf("failed to generate alerts: %w", err)
	}
	g.tableDone(runID, dataset.TableAlerts, len(ds.Alerts), started)

	started = time.Now()
	ds.DemandFeatures, err = DemandFeatures(catalog, ds.Actuals)
	if err != nil {
		return nil, fmt.Errorf("failed to build demand features: %w", err)
	}
	ds.ForecastResults = ForecastResults(ds.Forecasts)
	ds.AlertSummary = AlertSummary(ds.Alerts)
	g.tableDone(runID, dataset.TableDemandFeatures, len(ds.DemandFeatures), started)
	g.tableDone(runID, dataset.TableForecastResults, len(ds.ForecastResults), started)
	g.tableDone(runID, dataset.TableAlertSummary, len(ds.AlertSummary), started)

	if err := Validate(ds, g.products, g.partners); err != nil {
		return nil, fmt.Errorf("generated data failed validation: %w", err)
	}
	g.record(runID, events.RunValidatedEvent, events.RunValidated{Tables: len(ds.RowCounts())})

	return ds, nil
}

// runBranches generates the tables that depend only on the catalog and actuals
func (g *Generator) runBranches(ctx context.Context, runID string, catalog *Catalog, root *Stream, ds *dataset.Dataset) error {
	products := productIndex(catalog.Products)

	branches := []workers.Task{
		func(ctx context.Context) error {
			started := time.Now()
			forecasts, err := NewForecastGenerator(g.logger).Generate(products, ds.Actuals, root.Derive(streamForecasts))
			if err != nil {
				return fmt.Errorf("failed to generate forecasts: %w", err)
			}
			ds.Forecasts = forecasts
			g.tableDone(runID, dataset.TableForecasts, len(forecasts), started)
			return nil
		},
		func(ctx context.Context) error {
			started := time.Now()
			orders, err := NewOrderBookGenerator(g.logger, g.scenario).Generate(catalog, ds.Actuals, root.Derive(streamOrders))
			if err != nil {
				return fmt.Errorf("failed to generate order book: %w", err)
			}
			ds.Orders = orders
			g.tableDone(runID, dataset.TableOrderBook, len(orders), started)
			return nil
		},
		func(ctx context.Context) error {
			started := time.Now()
			npi, err := NewNPITrackerGenerator(g.logger, g.scenario).Generate(catalog, root.Derive(streamNPI))
			if err != nil {
				return fmt.Errorf("failed to generate npi tracker: %w", err)
			}
			ds.NPI = npi
			g.tableDone(runID, dataset.TableNPITracker, len(npi), started)
			return nil
		},
	}

	if !g.config.Parallel {
		for _, branch := range branches {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := branch(ctx); err != nil {
				return err
			}
		}
		return nil
	}

	pool := workers.NewPool(ctx, len(branches))
	pool.Start()
	for _, branch := range branches {
		if err := pool.Submit(branch); err != nil {
			pool.Stop()
			return err
		}
	}
	if err := pool.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (g *Generator) tableDone(runID, table string, rows int, started time.Time) {
	g.record(runID, events.TableGeneratedEvent, events.TableGenerated{
		Table:    table,
		Rows:     rows,
		Duration: time.Since(started),
	})
}

func (g *Generator) record(runID, eventType string, data interface{}) {
	if g.store == nil {
		return
	}
	if err := g.store.AppendEvent(runID, events.NewEvent(eventType, runID, data)); err != nil {
		g.logger.Warn("failed to record event", zap.String("event", eventType), zap.Error(err))
	}
}
