package simulation

import (
	"strings"
	"testing"

	"github.com/vsinha/demandplan/pkg/domain/entities"
)

func TestNPITracker_Invariants(t *testing.T) {
	ds := defaultDataset(t)
	if len(ds.NPI) == 0 {
		t.Fatal("Expected NPI tracker rows")
	}
	products := ds.ProductIndex()

	for _, n := range ds.NPI {
		if err := n.Validate(); err != nil {
			t.Fatalf("Invalid NPI row: %v", err)
		}
		if !products[n.ProductID].IsNPI {
			t.Fatalf("NPI row for non-NPI product %s", n.ProductID)
		}
		// launched 2025-09-01, two weeks live on 2025-09-15
		if n.WeekNumber > 2 {
			t.Fatalf("Expected at most 2 weeks live, got week %d", n.WeekNumber)
		}
		wantFlag := entities.ClassifyVelocity(n.VelocityVsPlan)
		if n.RiskFlag != wantFlag {
			t.Fatalf("Expected %s for velocity %v, got %s", wantFlag, n.VelocityVsPlan, n.RiskFlag)
		}
		if (n.RiskFlag == entities.RiskGreen) == n.RiskReason.Valid {
			t.Fatalf("Risk reason presence wrong for %s flag", n.RiskFlag)
		}
	}
}

func TestNPITracker_FnacLagsOnIPhonePro(t *testing.T) {
	g := NewNPITrackerGenerator(nopLogger(), DefaultScenario())

	if got := g.launchVelocity(1, "Fnac FR", "IPHONE-16-PRO-256", 0); !almostEqual(got, 0.72) {
		t.Errorf("Expected week 1 Fnac velocity 0.72 without noise, got %v", got)
	}
	if got := g.launchVelocity(1, "MediaMarkt DE", "IPHONE-16-PRO-256", 0); !almostEqual(got, 1.15) {
		t.Errorf("Expected week 1 MediaMarkt velocity 1.15 without noise, got %v", got)
	}
	if got := g.launchVelocity(1, "Currys UK", "IPHONE-16-PRO-256", 0); !almostEqual(got, 1.0) {
		t.Errorf("Expected neutral week 1 velocity 1.0, got %v", got)
	}
	if got := g.launchVelocity(1, "Fnac FR", "IPHONE-16-128", 0); !almostEqual(got, 1.0) {
		t.Errorf("Expected Fnac base iPhone unaffected, got %v", got)
	}

	// generated Fnac rows sit in the depressed band
	ds := defaultDataset(t)
	for _, n := range ds.NPI {
		if n.PartnerID != "PARTNER-003" || !strings.Contains(string(n.ProductID), "IPHONE-16-PRO") || n.WeekNumber != 1 {
			continue
		}
		if n.VelocityVsPlan < 0.72*0.6 || n.VelocityVsPlan > 0.72*1.4 {
			t.Errorf("Expected %s velocity near 0.72, got %v", n.ProductID, n.VelocityVsPlan)
		}
		if n.RiskFlag == entities.RiskGreen {
			t.Errorf("Expected %s at Fnac FR not to be Green, got velocity %v", n.ProductID, n.VelocityVsPlan)
		}
	}
}

func TestNPITracker_RedReasons(t *testing.T) {
	catalog := mustCatalog(t)
	g := NewNPITrackerGenerator(nopLogger(), DefaultScenario())
	products := productIndex(catalog.Products)

	fnac, _ := catalog.PartnerByName("Fnac FR")
	saturn, _ := catalog.PartnerByName("Saturn DE")

	tests := []struct {
		name    string
		partner *entities.Partner
		product entities.ProductID
		noise   float64
		flag    entities.RiskFlag
		reason  string
	}{
		{"fnac scripted red", fnac, "IPHONE-16-PRO-256", -0.1, entities.RiskRed, "Delayed marketing campaign; lower web traffic vs UK/DE launch"},
		{"generic red", saturn, "IPHONE-16-PRO-256", -0.5, entities.RiskRed, "Significantly below plan - escalate to Account Manager"},
		{"amber cites gap", saturn, "IPHONE-16-PRO-256", -0.2, entities.RiskAmber, "Tracking 20% below launch plan - monitor closely"},
		{"green has no reason", saturn, "IPHONE-16-PRO-256", 0, entities.RiskGreen, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := g.trackWeek(1, products[tt.product], tt.partner, 1000, tt.noise)
			if err != nil {
				t.Fatalf("Failed to track week: %v", err)
			}
			if row.RiskFlag != tt.flag {
				t.Errorf("Expected %s, got %s (velocity %v)", tt.flag, row.RiskFlag, row.VelocityVsPlan)
			}
			if row.RiskReason.String != tt.reason {
				t.Errorf("Expected reason %q, got %q", tt.reason, row.RiskReason.String)
			}
			if err := row.Validate(); err != nil {
				t.Errorf("Expected valid row: %v", err)
			}
		})
	}
}

func TestBasePlanUnits(t *testing.T) {
	if got := basePlanUnits(1.0, 1199); got != 322 {
		t.Errorf("Expected 322 planned units, got %d", got)
	}
	if got := basePlanUnits(0.01, 1199); got != 10 {
		t.Errorf("Expected floor of 10 units, got %d", got)
	}
}
