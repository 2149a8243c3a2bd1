package entities

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MaxWeeksOfSupply caps the synthetic weeks-of-supply figure
const MaxWeeksOfSupply = 12.0

// DemandActual is one week of sell-in and sell-out for a SKU at a partner
type DemandActual struct {
	Date          time.Time       `db:"date" json:"date"`
	ProductID     ProductID       `db:"product_id" json:"product_id"`
	PartnerID     PartnerID       `db:"partner_id" json:"partner_id"`
	UnitsOrdered  Quantity        `db:"units_ordered" json:"units_ordered"`
	UnitsShipped  Quantity        `db:"units_shipped" json:"units_shipped"`
	UnitsSold     Quantity        `db:"units_sold" json:"units_sold"`
	Revenue       decimal.Decimal `db:"revenue" json:"revenue"`
	ASPActual     decimal.Decimal `db:"asp_actual" json:"asp_actual"`
	InStockRate   sql.NullFloat64 `db:"in_stock_rate" json:"in_stock_rate"`
	WeeksOfSupply float64         `db:"weeks_of_supply" json:"weeks_of_supply"`
}

// Validate checks the quantity chain and the rate bounds
func (d DemandActual) Validate() error {
	if d.ProductID == "" || d.PartnerID == "" {
		return fmt.Errorf("demand row %s: product and partner ids are required", d.Date.Format("2006-01-02"))
	}
	if d.UnitsSold < 0 || d.UnitsSold > d.UnitsShipped || d.UnitsShipped > d.UnitsOrdered {
		return fmt.Errorf("demand row %s/%s/%s: expected 0 <= sold <= shipped <= ordered, got %d/%d/%d",
			d.Date.Format("2006-01-02"), d.ProductID, d.PartnerID, d.UnitsSold, d.UnitsShipped, d.UnitsOrdered)
	}
	if d.InStockRate.Valid && (d.InStockRate.Float64 < 0 || d.InStockRate.Float64 > 1) {
		return fmt.Errorf("demand row %s/%s/%s: in-stock rate %v outside [0,1]",
			d.Date.Format("2006-01-02"), d.ProductID, d.PartnerID, d.InStockRate.Float64)
	}
	if d.WeeksOfSupply < 0 || d.WeeksOfSupply > MaxWeeksOfSupply {
		return fmt.Errorf("demand row %s/%s/%s: weeks of supply %v outside [0,%v]",
			d.Date.Format("2006-01-02"), d.ProductID, d.PartnerID, d.WeeksOfSupply, MaxWeeksOfSupply)
	}
	if d.Revenue.IsNegative() {
		return fmt.Errorf("demand row %s/%s/%s: negative revenue %s",
			d.Date.Format("2006-01-02"), d.ProductID, d.PartnerID, d.Revenue)
	}
	return nil
}
