package analytics

import (
	"testing"

	"github.com/vsinha/demandplan/pkg/domain/entities"
)

func TestShipmentPlanValidation(t *testing.T) {
	products, _ := catalog(t)
	orders := []entities.Order{
		{ProductID: "IPAD-AIR-M3-11-128", Status: entities.OrderOpen, UnitsConfirmed: 60},
		{ProductID: "IPAD-AIR-M3-11-128", Status: entities.OrderPartiallyFulfilled, UnitsConfirmed: 55},
		{ProductID: "IPAD-AIR-M3-11-128", Status: entities.OrderAtRisk, UnitsConfirmed: 500},
		{ProductID: "IPAD-AIR-M3-11-128", Status: entities.OrderShipped, UnitsConfirmed: 500},
		{ProductID: "IPHONE-16-PRO-256", Status: entities.OrderOpen, UnitsConfirmed: 50},
		{ProductID: "UNKNOWN", Status: entities.OrderOpen, UnitsConfirmed: 1000},
	}
	forecasts := []entities.Forecast{
		{ProductID: "IPAD-AIR-M3-11-128", Model: entities.ModelEnsemble, Units: 60},
		{ProductID: "IPAD-AIR-M3-11-128", Model: entities.ModelEnsemble, Units: 40},
		{ProductID: "IPAD-AIR-M3-11-128", Model: entities.ModelARIMA, Units: 999},
		{ProductID: "IPHONE-16-PRO-256", Model: entities.ModelEnsemble, Units: 100},
	}

	gaps := ShipmentPlanValidation(orders, forecasts, products)
	if len(gaps) != 2 {
		t.Fatalf("Expected 2 families, got %d", len(gaps))
	}

	tests := []struct {
		got      FamilyPlanGap
		family   entities.Family
		planned  int64
		forecast int64
		gapPct   float64
		rag      entities.RiskFlag
	}{
		{gaps[0], entities.FamilyTablet, 115, 100, 15, entities.RiskAmber},
		{gaps[1], entities.FamilyPhone, 50, 100, -50, entities.RiskRed},
	}
	for _, tt := range tests {
		if tt.got.Family != tt.family {
			t.Errorf("Expected %s, got %s", tt.family, tt.got.Family)
			continue
		}
		if tt.got.PlannedUnits != tt.planned || tt.got.ForecastUnits != tt.forecast {
			t.Errorf("%s: expected planned %d forecast %d, got %d and %d", tt.family, tt.planned, tt.forecast, tt.got.PlannedUnits, tt.got.ForecastUnits)
		}
		if tt.got.Gap != tt.planned-tt.forecast {
			t.Errorf("%s: expected gap %d, got %d", tt.family, tt.planned-tt.forecast, tt.got.Gap)
		}
		if !floatEquals(tt.got.GapPct, tt.gapPct) {
			t.Errorf("%s: expected gap %v%%, got %v", tt.family, tt.gapPct, tt.got.GapPct)
		}
		if tt.got.RAG != tt.rag {
			t.Errorf("%s: expected %s, got %s", tt.family, tt.rag, tt.got.RAG)
		}
	}
}

func TestShipmentPlanValidation_NoForecast(t *testing.T) {
	products, _ := catalog(t)
	orders := []entities.Order{{ProductID: "IPHONE-16-PRO-256", Status: entities.OrderOpen, UnitsConfirmed: 5}}

	gaps := ShipmentPlanValidation(orders, nil, products)
	if len(gaps) != 1 {
		t.Fatalf("Expected 1 family, got %d", len(gaps))
	}
	// gap measured against a floor of one unit
	if gaps[0].GapPct != 500 || gaps[0].RAG != entities.RiskRed {
		t.Errorf("Expected 500%% Red, got %v %s", gaps[0].GapPct, gaps[0].RAG)
	}
}

func TestPlanRAG(t *testing.T) {
	tests := []struct {
		pct  float64
		want entities.RiskFlag
	}{
		{0, entities.RiskGreen},
		{10, entities.RiskGreen},
		{-10, entities.RiskGreen},
		{10.5, entities.RiskAmber},
		{-20, entities.RiskAmber},
		{20, entities.RiskAmber},
		{20.01, entities.RiskRed},
		{-25, entities.RiskRed},
	}
	for _, tt := range tests {
		if got := planRAG(tt.pct); got != tt.want {
			t.Errorf("Expected %s for %v%%, got %s", tt.want, tt.pct, got)
		}
	}
}

func TestInStockRanging(t *testing.T) {
	products, partners := catalog(t)
	actuals := append(partnerActuals(t),
		actual(t, "2025-07-28", "IPHONE-16-PRO-256", "P005", 10, 10, 10, 11990, 0.5, 2),
		actual(t, "2025-07-21", "IPAD-AIR-M3-11-128", "P005", 10, 10, 10, 6990, 0.1, 2),
	)

	cells := InStockRanging(actuals, products, partners)
	want := []RangingCell{
		{PartnerName: "Currys", Family: entities.FamilyPhone, InStockRate: 0.7},
		{PartnerName: "Currys", Family: entities.FamilyTablet, InStockRate: 0.9},
		{PartnerName: "Fnac", Family: entities.FamilyPhone, InStockRate: 0.5},
		{PartnerName: "Fnac", Family: entities.FamilyTablet, InStockRate: 1},
	}
	if len(cells) != len(want) {
		t.Fatalf("Expected %d cells, got %d: %+v", len(want), len(cells), cells)
	}
	for i, w := range want {
		if cells[i].PartnerName != w.PartnerName || cells[i].Family != w.Family || !floatEquals(cells[i].InStockRate, w.InStockRate) {
			t.Errorf("Cell %d: expected %+v, got %+v", i, w, cells[i])
		}
	}

	if got := InStockRanging(nil, products, partners); got != nil {
		t.Errorf("Expected nil for no actuals, got %+v", got)
	}
}
