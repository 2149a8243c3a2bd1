package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents where a partner order sits in fulfilment
type OrderStatus string

const (
	OrderOpen               OrderStatus = "Open"
	OrderPartiallyFulfilled OrderStatus = "Partially Fulfilled"
	OrderAtRisk             OrderStatus = "At Risk"
	OrderShipped            OrderStatus = "Shipped"
)

// Order is a line in the partner order book snapshot
type Order struct {
	OrderID               string          `db:"order_id" json:"order_id"`
	OrderDate             time.Time       `db:"date_placed" json:"date_placed"`
	RequestedDate         time.Time       `db:"date_requested" json:"date_requested"`
	ProductID             ProductID       `db:"product_id" json:"product_id"`
	PartnerID             PartnerID       `db:"partner_id" json:"partner_id"`
	UnitsOrdered          Quantity        `db:"units_ordered" json:"units_ordered"`
	UnitsConfirmed        Quantity        `db:"units_confirmed" json:"units_confirmed"`
	UnitsShipped          Quantity        `db:"units_shipped" json:"units_shipped"`
	Status                OrderStatus     `db:"status" json:"status"`
	ChaseOpportunity      bool            `db:"chase_opportunity" json:"chase_opportunity"`
	ChaseUnitsRecommended Quantity        `db:"chase_units_recommended" json:"chase_units_recommended"`
	ChaseRevenuePotential decimal.Decimal `db:"chase_revenue_potential" json:"chase_revenue_potential"`
}

// Validate checks the status-dependent quantity relationships and the chase fields
func (o Order) Validate() error {
	if o.OrderID == "" {
		return fmt.Errorf("order id cannot be empty")
	}
	if o.RequestedDate.Before(o.OrderDate) {
		return fmt.Errorf("order %s: requested date %s before order date %s",
			o.OrderID, o.RequestedDate.Format("2006-01-02"), o.OrderDate.Format("2006-01-02"))
	}
	if o.UnitsOrdered <= 0 {
		return fmt.Errorf("order %s: units ordered must be positive, got %d", o.OrderID, o.UnitsOrdered)
	}

	switch o.Status {
	case OrderShipped:
		if o.UnitsConfirmed != o.UnitsOrdered || o.UnitsShipped != o.UnitsOrdered {
			return fmt.Errorf("order %s: shipped order must have confirmed == shipped == ordered", o.OrderID)
		}
	case OrderPartiallyFulfilled:
		if o.UnitsConfirmed != o.UnitsOrdered {
			return fmt.Errorf("order %s: partially fulfilled order must be fully confirmed", o.OrderID)
		}
		if !o.UnitsShipped.WithinShare(o.UnitsOrdered, 0.4, 0.8) {
			return fmt.Errorf("order %s: partially fulfilled shipped %d outside 40-80%% of %d",
				o.OrderID, o.UnitsShipped, o.UnitsOrdered)
		}
	case OrderAtRisk:
		if o.UnitsShipped != 0 {
			return fmt.Errorf("order %s: at-risk order cannot have shipped units", o.OrderID)
		}
		if !o.UnitsConfirmed.WithinShare(o.UnitsOrdered, 0.5, 0.9) {
			return fmt.Errorf("order %s: at-risk confirmed %d outside 50-90%% of %d",
				o.OrderID, o.UnitsConfirmed, o.UnitsOrdered)
		}
	case OrderOpen:
		if o.UnitsShipped != 0 {
			return fmt.Errorf("order %s: open order cannot have shipped units", o.OrderID)
		}
		if !o.UnitsConfirmed.WithinShare(o.UnitsOrdered, 0.7, 1.0) {
			return fmt.Errorf("order %s: open confirmed %d outside 70-100%% of %d",
				o.OrderID, o.UnitsConfirmed, o.UnitsOrdered)
		}
	default:
		return fmt.Errorf("order %s: invalid status %q", o.OrderID, o.Status)
	}

	if o.ChaseOpportunity {
		if o.Status != OrderOpen && o.Status != OrderPartiallyFulfilled {
			return fmt.Errorf("order %s: chase opportunity only allowed on open or partially fulfilled orders", o.OrderID)
		}
		if o.ChaseUnitsRecommended <= 0 || !o.ChaseRevenuePotential.IsPositive() {
			return fmt.Errorf("order %s: flagged chase must carry positive units and revenue", o.OrderID)
		}
	} else if o.ChaseUnitsRecommended != 0 || !o.ChaseRevenuePotential.IsZero() {
		return fmt.Errorf("order %s: chase units and revenue must be zero when not flagged", o.OrderID)
	}
	return nil
}
