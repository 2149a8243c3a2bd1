package entities

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// DemandFeature is a demand actual joined with its product and partner attributes
type DemandFeature struct {
	DemandActual
	ProductFamily  Family          `db:"product_family" json:"product_family"`
	LifecycleStage LifecycleStage  `db:"lifecycle_stage" json:"lifecycle_stage"`
	PriorityTier   PriorityTier    `db:"priority_tier" json:"priority_tier"`
	ASP            decimal.Decimal `db:"asp" json:"asp"`
	PartnerName    string          `db:"partner_name" json:"partner_name"`
	PartnerTier    PartnerTier     `db:"partner_tier" json:"partner_tier"`
	Country        string          `db:"country" json:"country"`
}

// AlertRollup aggregates alerts by severity and type
type AlertRollup struct {
	Severity           Severity        `db:"severity" json:"severity"`
	AlertType          AlertType       `db:"alert_type" json:"alert_type"`
	Count              int             `db:"count" json:"count"`
	TotalRevenueImpact decimal.Decimal `db:"total_revenue_impact" json:"total_revenue_impact"`
	OpenCount          int             `db:"open_count" json:"open_count"`
}

// NullRate wraps an optional rate
func NullRate(v float64, valid bool) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: valid}
}

// NullText wraps optional text; empty text is absent
func NullText(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Week returns the Monday that starts the ISO week containing t
func Week(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, time.UTC)
}
