package simulation

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/demandplan/pkg/domain/entities"
)

// Scenario holds the scripted narrative shared by the order book, NPI tracker
// and alert feed. The headline alerts reference the same ids and figures the
// other generators emit.
type Scenario struct {
	// Underperforming launch: one partner lags on a product line
	LaggingPartner     string
	LaggingProductLine string
	LaggingFactor      float64
	LaggingReason      string
	LaggingAlert       HeadlineAlert

	// Outperforming launch: one partner beats plan on a product line
	LeadingPartner     string
	LeadingProductLine string
	LeadingFactor      float64

	// Stock-out with a chase opportunity on the order book
	ShortPartner string
	ShortProduct entities.ProductID
	ShortOrder   ScriptedOrder
	ShortAlert   HeadlineAlert

	// Ranging gap at a small partner
	GapPartner  string
	GapProduct  entities.ProductID
	GapMinUnits int
	GapAlert    HeadlineAlert
}

// HeadlineAlert is the literal part of a scripted alert
type HeadlineAlert struct {
	ID            string
	Timestamp     time.Time
	Type          entities.AlertType
	Severity      entities.Severity
	Product       entities.ProductID
	MetricName    string
	MetricValue   float64
	Threshold     float64
	RevenueImpact decimal.Decimal
}

// ScriptedOrder is the order-book line behind the stock-out narrative
type ScriptedOrder struct {
	Placed     time.Time
	Requested  time.Time
	Ordered    entities.Quantity
	Confirmed  entities.Quantity
	ChaseUnits entities.Quantity
}

// DefaultScenario returns the narrative every run carries
func DefaultScenario() Scenario {
	const headline = entities.ProductID("IPHONE-16-PRO-256")
	return Scenario{
		LaggingPartner:     "Fnac FR",
		LaggingProductLine: "IPHONE-16-PRO",
		LaggingFactor:      0.72,
		LaggingReason:      "Delayed marketing campaign; lower web traffic vs UK/DE launch",
		LaggingAlert: HeadlineAlert{
			ID:            "ALT-FNAC-001",
			Timestamp:     time.Date(2025, time.September, 12, 8, 30, 0, 0, time.UTC),
			Type:          entities.AlertNPIUnderperformance,
			Severity:      entities.SeverityCritical,
			Product:       headline,
			MetricName:    "velocity_vs_plan",
			MetricValue:   0.77,
			Threshold:     entities.GreenVelocity,
			RevenueImpact: decimal.NewFromInt(420_000),
		},

		LeadingPartner:     "MediaMarkt DE",
		LeadingProductLine: "IPHONE-16",
		LeadingFactor:      1.15,

		ShortPartner: "Currys UK",
		ShortProduct: headline,
		ShortOrder: ScriptedOrder{
			Placed:     date(2025, time.September, 8),
			Requested:  date(2025, time.September, 22),
			Ordered:    6000,
			Confirmed:  5400,
			ChaseUnits: 2400,
		},
		ShortAlert: HeadlineAlert{
			ID:            "ALT-CURRYS-001",
			Timestamp:     time.Date(2025, time.September, 14, 7, 15, 0, 0, time.UTC),
			Type:          entities.AlertLowStock,
			Severity:      entities.SeverityCritical,
			Product:       headline,
			MetricName:    "weeks_of_supply",
			MetricValue:   1.8,
			Threshold:     2.0,
			RevenueImpact: decimal.NewFromInt(890_000),
		},

		GapPartner:  "Harvey Norman IE",
		GapProduct:  "IPAD-AIR-M3-11-128",
		GapMinUnits: 300,
		GapAlert: HeadlineAlert{
			ID:            "ALT-HNI-001",
			Timestamp:     time.Date(2025, time.September, 13, 10, 0, 0, 0, time.UTC),
			Type:          entities.AlertLowStock,
			Severity:      entities.SeverityWarning,
			Product:       "IPAD-AIR-M3-11-128",
			MetricName:    "in_stock_rate",
			MetricValue:   0.72,
			Threshold:     0.90,
			RevenueImpact: decimal.NewFromInt(180_000),
		},
	}
}

// VelocityFactor returns the scripted multiplier for a partner and product
func (s Scenario) VelocityFactor(partnerName string, product entities.ProductID) float64 {
	factor := 1.0
	if s.isLagging(partnerName, product) {
		factor *= s.LaggingFactor
	}
	if partnerName == s.LeadingPartner && strings.HasPrefix(string(product), s.LeadingProductLine) {
		factor *= s.LeadingFactor
	}
	return factor
}

func (s Scenario) isLagging(partnerName string, product entities.ProductID) bool {
	return partnerName == s.LaggingPartner && strings.Contains(string(product), s.LaggingProductLine)
}

// ChaseRevenue values the scripted chase quantity at the product's list price
func (s Scenario) ChaseRevenue(product *entities.Product) decimal.Decimal {
	return product.ASP.Mul(decimal.NewFromInt(int64(s.ShortOrder.ChaseUnits))).Round(2)
}

func (s Scenario) laggingAction() string {
	return fmt.Sprintf("Escalate to %s Account Manager - joint marketing intervention required. Delayed campaign execution identified.",
		s.LaggingPartner)
}

func (s Scenario) shortAction(product *entities.Product) string {
	millions := s.ChaseRevenue(product).Div(decimal.NewFromInt(1_000_000)).StringFixed(1)
	return fmt.Sprintf("Increase allocation by %s units (€%sM) to %s immediately - launch window closes W%d.",
		groupThousands(int64(s.ShortOrder.ChaseUnits)), millions, s.ShortPartner, isoWeek(s.ShortOrder.Requested))
}

func (s Scenario) gapAction(product *entities.Product) string {
	return fmt.Sprintf("%s: Ranging gap on %s - allocate minimum %d units to restore in-stock rate to >%.0f%%.",
		s.GapPartner, product.Category, s.GapMinUnits, s.GapAlert.Threshold*100)
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
