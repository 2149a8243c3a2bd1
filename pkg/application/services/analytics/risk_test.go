package analytics

import (
	"testing"

	"github.com/vsinha/demandplan/pkg/domain/entities"
)

func TestRiskMatrix(t *testing.T) {
	products, partners := catalog(t)
	actuals := []entities.DemandActual{
		// outside the four-week window
		actual(t, "2025-07-21", "IPAD-AIR-M3-11-128", "P003", 10, 10, 10, 1_000_000, 0.1, 0),
		actual(t, "2025-07-28", "IPAD-AIR-M3-11-128", "P003", 10, 10, 10, 7000, 0.8, 3),
		actual(t, "2025-08-25", "IPAD-AIR-M3-11-128", "P003", 10, 10, 10, 9000, 0.6, 1),
		actual(t, "2025-08-25", "IPHONE-16-PRO-256", "P005", 10, 10, 10, 12000, 1, 12),
		// no defined in-stock rate in the window
		actual(t, "2025-08-25", "IPAD-AIR-M3-11-128", "P005", 10, 10, 10, 7000, -1, 2),
	}

	cells := RiskMatrix(actuals, products, partners)
	if len(cells) != 2 {
		t.Fatalf("Expected 2 risk cells, got %d", len(cells))
	}

	ipad := cells[0]
	if ipad.ProductID != "IPAD-AIR-M3-11-128" || ipad.PartnerID != "P003" {
		t.Fatalf("Expected iPad at Currys first, got %s/%s", ipad.ProductID, ipad.PartnerID)
	}
	// wos 2, in-stock 0.7: (1 - 2/6)*0.6 + 0.3*0.4
	if !floatEquals(ipad.Likelihood, 0.52) {
		t.Errorf("Expected likelihood 0.52, got %v", ipad.Likelihood)
	}
	// avg revenue 8000 * 4 * 0.52
	if !floatEquals(ipad.RevenueImpact, 16640) {
		t.Errorf("Expected revenue impact 16640, got %v", ipad.RevenueImpact)
	}
	if ipad.Label != `iPad Air 11" M3 128GB WiF / Currys` {
		t.Errorf("Unexpected label %q", ipad.Label)
	}

	phone := cells[1]
	if phone.Likelihood != 0 || phone.RevenueImpact != 0 {
		t.Errorf("Expected fully stocked pair to carry no risk, got %+v", phone)
	}
}

func TestRiskMatrix_Empty(t *testing.T) {
	if cells := RiskMatrix(nil, nil, nil); len(cells) != 0 {
		t.Errorf("Expected no cells, got %d", len(cells))
	}
}
