package entities

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var today = time.Date(2025, time.September, 15, 0, 0, 0, 0, time.UTC)

func TestNewProduct(t *testing.T) {
	tests := []struct {
		name      string
		id        ProductID
		family    Family
		launch    time.Time
		asp       decimal.Decimal
		priority  PriorityTier
		wantNPI   bool
		wantError bool
	}{
		{"recent launch is NPI", "IPHONE-16-PRO-256", FamilyPhone, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(1199), Tier1, true, false},
		{"launch 90 days ago is NPI", "IPAD-AIR", FamilyTablet, today.AddDate(0, 0, -90), decimal.NewFromInt(699), Tier2, true, false},
		{"launch 91 days ago is not NPI", "IPAD-AIR", FamilyTablet, today.AddDate(0, 0, -91), decimal.NewFromInt(699), Tier2, false, false},
		{"empty id", "", FamilyPhone, today, decimal.NewFromInt(1), Tier1, false, true},
		{"unknown family", "X", Family("Television"), today, decimal.NewFromInt(1), Tier1, false, true},
		{"zero asp", "X", FamilyAudio, today, decimal.Zero, Tier3, false, true},
		{"bad tier", "X", FamilyAudio, today, decimal.NewFromInt(1), PriorityTier(4), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProduct(tt.id, "Name", tt.family, "Category", tt.launch, tt.asp, StageGrowth, tt.priority, today)
			if tt.wantError {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Failed to create product: %v", err)
			}
			if p.IsNPI != tt.wantNPI {
				t.Errorf("Expected IsNPI %t, got %t", tt.wantNPI, p.IsNPI)
			}
		})
	}
}

func TestNewPartner(t *testing.T) {
	if _, err := NewPartner("P003", "Currys", "UK", "UK&I", Platinum, decimal.NewFromInt(45000000), 300, 7); err != nil {
		t.Fatalf("Failed to create partner: %v", err)
	}

	invalid := []struct {
		name     string
		tier     PartnerTier
		revenue  decimal.Decimal
		stores   int
		maturity int
	}{
		{"bad tier", PartnerTier("Bronze"), decimal.NewFromInt(1), 1, 5},
		{"zero revenue", Gold, decimal.Zero, 1, 5},
		{"negative stores", Gold, decimal.NewFromInt(1), -1, 5},
		{"maturity above 10", Gold, decimal.NewFromInt(1), 1, 11},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPartner("P999", "Partner", "FR", "Western Europe", tt.tier, tt.revenue, tt.stores, tt.maturity); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestPriorityTier_RoundTrip(t *testing.T) {
	for _, tier := range []PriorityTier{Tier1, Tier2, Tier3} {
		parsed, err := ParsePriorityTier(tier.String())
		if err != nil {
			t.Fatalf("Failed to parse %q: %v", tier.String(), err)
		}
		if parsed != tier {
			t.Errorf("Expected %v, got %v", tier, parsed)
		}
	}
	if _, err := ParsePriorityTier("Tier 4"); err == nil {
		t.Error("Expected error for Tier 4, got nil")
	}
}

func TestQuantity_WithinShare(t *testing.T) {
	tests := []struct {
		q, total Quantity
		want     bool
	}{
		{85, 100, true},
		{100, 100, true},
		{84, 100, false},
		{101, 100, false},
		// floor(7*0.85) = 5
		{5, 7, true},
	}
	for _, tt := range tests {
		if got := tt.q.WithinShare(tt.total, 0.85, 1.0); got != tt.want {
			t.Errorf("Expected %d within [0.85, 1.0] of %d to be %t, got %t", tt.q, tt.total, tt.want, got)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, a.AddDate(0, 0, 14)); got != 14 {
		t.Errorf("Expected 14 days, got %d", got)
	}
	if got := DaysBetween(a, a.AddDate(0, 0, -3)); got != -3 {
		t.Errorf("Expected -3 days, got %d", got)
	}
}
