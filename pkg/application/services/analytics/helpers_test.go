package analytics

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/demandplan/pkg/domain/entities"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("Failed to parse date %s: %v", s, err)
	}
	return d
}

func money(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func catalog(t *testing.T) ([]*entities.Product, []*entities.Partner) {
	t.Helper()
	today := day(t, "2025-09-15")

	pro, err := entities.NewProduct("IPHONE-16-PRO-256", "iPhone 16 Pro 256GB", entities.FamilyPhone, "iPhone Pro",
		day(t, "2025-09-01"), money(1199), entities.StageLaunch, entities.Tier1, today)
	if err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}
	ipad, err := entities.NewProduct("IPAD-AIR-M3-11-128", `iPad Air 11" M3 128GB WiFi`, entities.FamilyTablet, "iPad Air",
		day(t, "2025-03-01"), money(699), entities.StageGrowth, entities.Tier2, today)
	if err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}

	currys, err := entities.NewPartner("P003", "Currys", "UK", "UK&I", entities.Platinum, money(20_000_000), 300, 8)
	if err != nil {
		t.Fatalf("Failed to create partner: %v", err)
	}
	fnac, err := entities.NewPartner("P005", "Fnac", "FR", "Western Europe", entities.Gold, money(9_000_000), 100, 7)
	if err != nil {
		t.Fatalf("Failed to create partner: %v", err)
	}

	return []*entities.Product{pro, ipad}, []*entities.Partner{currys, fnac}
}

func actual(t *testing.T, date string, product entities.ProductID, partner entities.PartnerID, ordered, shipped, sold int64, revenue int64, inStock float64, wos float64) entities.DemandActual {
	t.Helper()
	rate := sql.NullFloat64{Float64: inStock, Valid: inStock >= 0}
	return entities.DemandActual{
		Date:          day(t, date),
		ProductID:     product,
		PartnerID:     partner,
		UnitsOrdered:  entities.Quantity(ordered),
		UnitsShipped:  entities.Quantity(shipped),
		UnitsSold:     entities.Quantity(sold),
		Revenue:       money(revenue),
		InStockRate:   rate,
		WeeksOfSupply: wos,
	}
}

func floatEquals(a, b float64) bool {
	const eps = 1e-9
	d := a - b
	return d < eps && d > -eps
}
