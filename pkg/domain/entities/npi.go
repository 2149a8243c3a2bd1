package entities

import (
	"database/sql"
	"fmt"
)

// RiskFlag is the red/amber/green launch health indicator
type RiskFlag string

const (
	RiskGreen RiskFlag = "Green"
	RiskAmber RiskFlag = "Amber"
	RiskRed   RiskFlag = "Red"
)

// Velocity thresholds separating the risk bands
const (
	GreenVelocity = 0.90
	AmberVelocity = 0.70
)

// NPIMaxWeeks bounds how many post-launch weeks are tracked
const NPIMaxWeeks = 12

// ClassifyVelocity maps a velocity-vs-plan ratio onto its risk band
func ClassifyVelocity(velocity float64) RiskFlag {
	switch {
	case velocity >= GreenVelocity:
		return RiskGreen
	case velocity >= AmberVelocity:
		return RiskAmber
	default:
		return RiskRed
	}
}

// NPITrackerRow tracks launch velocity for a new SKU at a partner
type NPITrackerRow struct {
	WeekNumber      int            `db:"week_number" json:"week_number"`
	ProductID       ProductID      `db:"product_id" json:"product_id"`
	PartnerID       PartnerID      `db:"partner_id" json:"partner_id"`
	PlannedUnits    Quantity       `db:"units_planned" json:"units_planned"`
	ActualUnits     Quantity       `db:"units_actual" json:"units_actual"`
	VelocityVsPlan  float64        `db:"velocity_vs_plan" json:"velocity_vs_plan"`
	SellThroughRate float64        `db:"sell_through_rate" json:"sell_through_rate"`
	RiskFlag        RiskFlag       `db:"risk_flag" json:"risk_flag"`
	RiskReason      sql.NullString `db:"risk_reason" json:"risk_reason"`
}

// Validate checks the flag/velocity agreement and reason presence
func (n NPITrackerRow) Validate() error {
	if n.WeekNumber < 1 || n.WeekNumber > NPIMaxWeeks {
		return fmt.Errorf("npi row %s/%s: week number %d outside 1..%d", n.ProductID, n.PartnerID, n.WeekNumber, NPIMaxWeeks)
	}
	if n.PlannedUnits < 0 || n.ActualUnits < 0 {
		return fmt.Errorf("npi row %s/%s week %d: negative units", n.ProductID, n.PartnerID, n.WeekNumber)
	}
	if n.SellThroughRate < 0 || n.SellThroughRate > 1 {
		return fmt.Errorf("npi row %s/%s week %d: sell-through %v outside [0,1]", n.ProductID, n.PartnerID, n.WeekNumber, n.SellThroughRate)
	}
	if want := ClassifyVelocity(n.VelocityVsPlan); n.RiskFlag != want {
		return fmt.Errorf("npi row %s/%s week %d: velocity %v implies %s, got %s",
			n.ProductID, n.PartnerID, n.WeekNumber, n.VelocityVsPlan, want, n.RiskFlag)
	}
	if hasReason := n.RiskReason.Valid && n.RiskReason.String != ""; hasReason != (n.RiskFlag != RiskGreen) {
		return fmt.Errorf("npi row %s/%s week %d: risk reason must be present iff flag is not Green",
			n.ProductID, n.PartnerID, n.WeekNumber)
	}
	return nil
}
