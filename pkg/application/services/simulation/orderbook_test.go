package simulation

import (
	"testing"

	"github.com/vsinha/demandplan/pkg/domain/entities"
)

func TestOrderBook_Invariants(t *testing.T) {
	ds := defaultDataset(t)
	if len(ds.Orders) < 2 {
		t.Fatalf("Expected generated orders plus the scripted line, got %d", len(ds.Orders))
	}

	statuses := make(map[entities.OrderStatus]int)
	for _, o := range ds.Orders {
		if err := o.Validate(); err != nil {
			t.Fatalf("Invalid order: %v", err)
		}
		if !o.ChaseOpportunity && (o.ChaseUnitsRecommended != 0 || !o.ChaseRevenuePotential.IsZero()) {
			t.Fatalf("Order %s: unflagged chase must be zero", o.OrderID)
		}
		if o.OrderDate.After(Today) {
			t.Fatalf("Order %s placed after today", o.OrderID)
		}
		statuses[o.Status]++
	}
	for _, s := range orderStatuses {
		if statuses[s] == 0 {
			t.Errorf("Expected at least one %s order", s)
		}
	}
}

func TestOrderBook_ScriptedChaseLine(t *testing.T) {
	ds := defaultDataset(t)
	scenario := DefaultScenario()

	var found *entities.Order
	for i := range ds.Orders {
		o := &ds.Orders[i]
		if o.ProductID == scenario.ShortProduct && o.PartnerID == "PARTNER-002" && o.ChaseOpportunity {
			found = o
		}
	}
	if found == nil {
		t.Fatal("Expected the Currys UK chase line on the order book")
	}
	if found.ChaseUnitsRecommended != scenario.ShortOrder.ChaseUnits {
		t.Errorf("Expected %d chase units, got %d", scenario.ShortOrder.ChaseUnits, found.ChaseUnitsRecommended)
	}
	if got := found.ChaseRevenuePotential.StringFixed(2); got != "2877600.00" {
		t.Errorf("Expected chase revenue 2877600.00, got %s", got)
	}
}

func TestOrderBookGenerator_EmptyActuals(t *testing.T) {
	catalog := mustCatalog(t)
	orders, err := NewOrderBookGenerator(nopLogger(), DefaultScenario()).Generate(catalog, nil, NewStream(1))
	if err != nil {
		t.Fatalf("Expected missing actuals to be tolerated: %v", err)
	}
	if len(orders) != 1 || orders[0].OrderID != "ORD-00001" {
		t.Errorf("Expected only the scripted line, got %+v", orders)
	}
}

func TestOrderQuantities(t *testing.T) {
	s := NewStream(3)
	for _, ordered := range []int64{1, 2, 3, 7, 100, 5000} {
		for _, status := range orderStatuses {
			confirmed, shipped := orderQuantities(status, ordered, s)
			o := entities.Order{
				OrderID:        "ORD-TEST",
				OrderDate:      Today,
				RequestedDate:  Today,
				ProductID:      "P",
				PartnerID:      "X",
				UnitsOrdered:   entities.Quantity(ordered),
				UnitsConfirmed: entities.Quantity(confirmed),
				UnitsShipped:   entities.Quantity(shipped),
				Status:         status,
			}
			if err := o.Validate(); err != nil {
				t.Errorf("ordered=%d status=%s: %v", ordered, status, err)
			}
		}
	}
}
