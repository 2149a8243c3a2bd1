package analytics

import (
	"testing"

	"github.com/vsinha/demandplan/pkg/domain/entities"
)

func partnerActuals(t *testing.T) []entities.DemandActual {
	t.Helper()
	return []entities.DemandActual{
		actual(t, "2025-08-18", "IPAD-AIR-M3-11-128", "P003", 110, 100, 90, 62910, 0.9, 3),
		actual(t, "2025-08-25", "IPAD-AIR-M3-11-128", "P003", 130, 120, 100, 69900, -1, 5),
		actual(t, "2025-08-25", "IPHONE-16-PRO-256", "P003", 100, 80, 70, 83930, 0.7, 1),
		actual(t, "2025-08-25", "IPAD-AIR-M3-11-128", "P005", 10, 10, 10, 6990, 1, 8),
	}
}

func TestPartnerOverview(t *testing.T) {
	alerts := []entities.Alert{
		{PartnerID: "P003", Status: entities.AlertOpen, Severity: entities.SeverityCritical},
		{PartnerID: "P003", Status: entities.AlertOpen, Severity: entities.SeverityWarning},
		{PartnerID: "P003", Status: entities.AlertResolved, Severity: entities.SeverityCritical},
		{PartnerID: "P005", Status: entities.AlertOpen, Severity: entities.SeverityCritical},
	}

	kpis, ok := PartnerOverview(partnerActuals(t), alerts, "P003")
	if !ok {
		t.Fatalf("Expected Currys to have actuals")
	}
	if !kpis.Revenue.Equal(money(62910 + 69900 + 83930)) {
		t.Errorf("Unexpected revenue %s", kpis.Revenue)
	}
	// (153830 - 62910) / 62910
	if !floatEquals(kpis.RevenueDelta, 144.5) {
		t.Errorf("Expected revenue delta 144.5, got %v", kpis.RevenueDelta)
	}
	// the undefined in-stock rate is skipped: (0.9 + 0.7) / 2
	if !floatEquals(kpis.InStockRate, 80) {
		t.Errorf("Expected in-stock 80, got %v", kpis.InStockRate)
	}
	if !floatEquals(kpis.AvgWOS, 3) {
		t.Errorf("Expected avg WOS 3, got %v", kpis.AvgWOS)
	}
	// 300 / 340
	if !floatEquals(kpis.FulfilmentRate, 88.2) {
		t.Errorf("Expected fulfilment 88.2, got %v", kpis.FulfilmentRate)
	}
	if kpis.OpenAlerts != 2 || kpis.CriticalAlerts != 1 {
		t.Errorf("Expected 2 open and 1 critical alert, got %d and %d", kpis.OpenAlerts, kpis.CriticalAlerts)
	}
}

func TestPartnerOverview_NoActuals(t *testing.T) {
	if _, ok := PartnerOverview(partnerActuals(t), nil, "P999"); ok {
		t.Errorf("Expected no overview for an unknown partner")
	}
}

func TestPartnerProductMix(t *testing.T) {
	products, _ := catalog(t)

	mix := PartnerProductMix(partnerActuals(t), products, "P003")
	if len(mix) != 2 {
		t.Fatalf("Expected 2 families, got %d", len(mix))
	}
	if mix[0].Family != entities.FamilyTablet || !mix[0].Revenue.Equal(money(62910+69900)) {
		t.Errorf("Expected tablets to lead, got %+v", mix[0])
	}
	if mix[1].Family != entities.FamilyPhone {
		t.Errorf("Expected phones second, got %+v", mix[1])
	}
}

func TestPartnerRevenueTrend(t *testing.T) {
	tests := []struct {
		name  string
		weeks int
		want  []int64
	}{
		{"all weeks", DefaultTrendWeeks, []int64{62910, 69900 + 83930}},
		{"latest only", 1, []int64{69900 + 83930}},
		{"no weeks", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trend := PartnerRevenueTrend(partnerActuals(t), "P003", tt.weeks)
			if len(trend) != len(tt.want) {
				t.Fatalf("Expected %d points, got %d", len(tt.want), len(trend))
			}
			for i, w := range tt.want {
				if !trend[i].Revenue.Equal(money(w)) {
					t.Errorf("Point %d: expected %d, got %s", i, w, trend[i].Revenue)
				}
			}
		})
	}
}
