package analytics

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/demandplan/pkg/domain/entities"
)

func orderBook(t *testing.T) []entities.Order {
	t.Helper()
	return []entities.Order{
		{OrderID: "ORD-00001", ProductID: "IPAD-AIR-M3-11-128", PartnerID: "P005", UnitsOrdered: 100, UnitsConfirmed: 80, Status: entities.OrderAtRisk},
		{OrderID: "ORD-00002", ProductID: "IPAD-AIR-M3-11-128", PartnerID: "P003", UnitsOrdered: 100, UnitsConfirmed: 100, UnitsShipped: 100, Status: entities.OrderShipped},
		{OrderID: "ORD-00003", ProductID: "IPHONE-16-PRO-256", PartnerID: "P005", UnitsOrdered: 200, UnitsConfirmed: 180, UnitsShipped: 100, Status: entities.OrderPartiallyFulfilled,
			ChaseOpportunity: true, ChaseUnitsRecommended: 50, ChaseRevenuePotential: money(59950)},
		{OrderID: "ORD-00004", ProductID: "IPHONE-16-PRO-256", PartnerID: "P003", UnitsOrdered: 6000, UnitsConfirmed: 5400, Status: entities.OrderOpen,
			ChaseOpportunity: true, ChaseUnitsRecommended: 2400, ChaseRevenuePotential: money(2877600)},
	}
}

func TestOrderBookHealth(t *testing.T) {
	health := OrderBookHealth(orderBook(t))

	if health.TotalOrders != 4 {
		t.Errorf("Expected 4 orders, got %d", health.TotalOrders)
	}
	if !floatEquals(health.AtRiskPct, 25) {
		t.Errorf("Expected 25%% at risk, got %v", health.AtRiskPct)
	}
	// (100 + 100) / 6400
	if !floatEquals(health.FulfilmentRate, 3.1) {
		t.Errorf("Expected fulfilment 3.1, got %v", health.FulfilmentRate)
	}
	if health.OpenConfirmedUnits != 80+180+5400 {
		t.Errorf("Expected %d open confirmed units, got %d", 80+180+5400, health.OpenConfirmedUnits)
	}
	if !health.ChaseValue.Equal(money(2937550)) {
		t.Errorf("Expected chase value 2937550, got %s", health.ChaseValue)
	}
}

func TestOrderBookHealth_Empty(t *testing.T) {
	health := OrderBookHealth(nil)
	if health.TotalOrders != 0 || health.AtRiskPct != 0 || health.FulfilmentRate != 0 {
		t.Errorf("Expected zero health for empty book, got %+v", health)
	}
}

func TestChaseOpportunities(t *testing.T) {
	products, partners := catalog(t)

	chase := ChaseOpportunities(orderBook(t), products, partners, 0)
	if len(chase) != 2 {
		t.Fatalf("Expected 2 chase lines, got %d", len(chase))
	}
	if chase[0].OrderID != "ORD-00004" {
		t.Errorf("Expected largest chase first, got %s", chase[0].OrderID)
	}
	if chase[0].PartnerName != "Currys" || chase[0].ProductFamily != entities.FamilyPhone {
		t.Errorf("Expected catalog join on first line, got %+v", chase[0])
	}
	if chase[0].Priority != PriorityHigh || chase[1].Priority != PriorityLow {
		t.Errorf("Unexpected priorities: %s, %s", chase[0].Priority, chase[1].Priority)
	}

	top := ChaseOpportunities(orderBook(t), products, partners, 1)
	if len(top) != 1 {
		t.Errorf("Expected topN to cap the list, got %d", len(top))
	}
}

func TestChasePriority(t *testing.T) {
	tests := []struct {
		revenue  decimal.Decimal
		expected string
	}{
		{money(50_000), PriorityLow},
		{money(100_000), PriorityLow},
		{decimal.RequireFromString("100000.01"), PriorityMedium},
		{money(300_000), PriorityMedium},
		{money(300_001), PriorityHigh},
	}
	for _, tt := range tests {
		if got := ChasePriority(tt.revenue); got != tt.expected {
			t.Errorf("Expected %s for %s, got %s", tt.expected, tt.revenue, got)
		}
	}
}
