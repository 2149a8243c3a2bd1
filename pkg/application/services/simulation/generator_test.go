package simulation

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/demandplan/pkg/domain/dataset"
	"github.com/vsinha/demandplan/pkg/domain/entities"
	"github.com/vsinha/demandplan/pkg/infrastructure/events"
	"github.com/vsinha/demandplan/pkg/infrastructure/repositories/memory"
)

func TestGenerator_Deterministic(t *testing.T) {
	first := records(t, defaultDataset(t))
	second := records(t, generate(t, DefaultSeed, false))

	for name, rows := range first {
		if !reflect.DeepEqual(rows, second[name]) {
			t.Errorf("Expected table %s to be identical across runs", name)
		}
	}
}

func TestGenerator_ParallelMatchesSequential(t *testing.T) {
	sequential := records(t, defaultDataset(t))
	parallel := records(t, generate(t, DefaultSeed, true))

	for name, rows := range sequential {
		if !reflect.DeepEqual(rows, parallel[name]) {
			t.Errorf("Expected table %s to match between sequential and parallel runs", name)
		}
	}
}

func TestGenerator_SeedChangesOutput(t *testing.T) {
	a := records(t, defaultDataset(t))
	b := records(t, generate(t, 7, false))

	if reflect.DeepEqual(a[dataset.TableDemandActuals], b[dataset.TableDemandActuals]) {
		t.Errorf("Expected a different seed to change demand actuals")
	}
	if !reflect.DeepEqual(a[dataset.TableProducts], b[dataset.TableProducts]) {
		t.Errorf("Expected the catalog to be seed independent")
	}
}

func TestGenerator_ReferentialIntegrity(t *testing.T) {
	ds := defaultDataset(t)
	products, partners := ds.ProductIndex(), ds.PartnerIndex()

	check := func(table string, product entities.ProductID, partner entities.PartnerID) {
		if _, ok := products[product]; !ok {
			t.Fatalf("%s references unknown product %s", table, product)
		}
		if _, ok := partners[partner]; !ok {
			t.Fatalf("%s references unknown partner %s", table, partner)
		}
	}
	for _, a := range ds.Actuals {
		check(dataset.TableDemandActuals, a.ProductID, a.PartnerID)
	}
	for _, f := range ds.Forecasts {
		check(dataset.TableForecasts, f.ProductID, f.PartnerID)
	}
	for _, o := range ds.Orders {
		check(dataset.TableOrderBook, o.ProductID, o.PartnerID)
	}
	for _, n := range ds.NPI {
		check(dataset.TableNPITracker, n.ProductID, n.PartnerID)
	}
	for _, a := range ds.Alerts {
		check(dataset.TableAlerts, a.ProductID, a.PartnerID)
	}
}

func TestGenerator_Summaries(t *testing.T) {
	ds := defaultDataset(t)

	if len(ds.DemandFeatures) != len(ds.Actuals) {
		t.Errorf("Expected one feature row per actual, got %d vs %d", len(ds.DemandFeatures), len(ds.Actuals))
	}
	if len(ds.ForecastResults)*4 != len(ds.Forecasts) {
		t.Errorf("Expected a quarter of forecasts in the Ensemble extract, got %d of %d", len(ds.ForecastResults), len(ds.Forecasts))
	}
	for _, f := range ds.ForecastResults {
		if f.Model != entities.ModelEnsemble {
			t.Fatalf("Expected only Ensemble rows, got %s", f.Model)
		}
	}
}

func TestGenerator_RecordsRunEvents(t *testing.T) {
	store := events.NewInMemoryEventStore(zap.NewNop())
	handler := &countingHandler{}
	if err := store.Subscribe([]string{events.TableGeneratedEvent}, handler); err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	g := NewGenerator(GeneratorConfig{Seed: 3}, zap.NewNop(), store,
		memory.NewProductRepository(40), memory.NewPartnerRepository(13))
	if _, err := g.Generate(context.Background()); err != nil {
		t.Fatalf("Failed to generate: %v", err)
	}
	if handler.count != 10 {
		t.Errorf("Expected 10 table events, got %d", handler.count)
	}
}

func TestGenerator_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewGenerator(GeneratorConfig{Seed: 1}, zap.NewNop(), nil,
		memory.NewProductRepository(40), memory.NewPartnerRepository(13))
	if _, err := g.Generate(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestValidate_CatalogErrorsAreFatal(t *testing.T) {
	ds := defaultDataset(t)
	products := memory.NewProductRepository(40)
	partners := memory.NewPartnerRepository(13)
	if err := products.LoadProducts(ds.Products); err != nil {
		t.Fatalf("Failed to load products: %v", err)
	}
	if err := partners.LoadPartners(ds.Partners); err != nil {
		t.Fatalf("Failed to load partners: %v", err)
	}

	broken := *ds
	broken.Alerts = append([]entities.Alert(nil), ds.Alerts...)
	broken.Alerts[0].PartnerID = "PARTNER-999"
	if err := Validate(&broken, products, partners); !errors.Is(err, entities.ErrUnknownPartner) {
		t.Errorf("Expected ErrUnknownPartner, got %v", err)
	}

	broken = *ds
	broken.Orders = append([]entities.Order(nil), ds.Orders...)
	broken.Orders[0].ChaseOpportunity = false
	broken.Orders[0].ChaseUnitsRecommended = 5
	broken.Orders[0].ChaseRevenuePotential = decimal.NewFromInt(100)
	if err := Validate(&broken, products, partners); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("Expected ErrInvariantViolation, got %v", err)
	}

	if err := Validate(ds, products, partners); err != nil {
		t.Errorf("Expected generated dataset to validate, got %v", err)
	}
}

type countingHandler struct {
	count int
}

func (h *countingHandler) CanHandle(string) bool { return true }

func (h *countingHandler) Handle(events.Event) error {
	h.count++
	return nil
}
