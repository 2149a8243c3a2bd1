package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AlertType classifies the business condition an alert reports
type AlertType string

const (
	AlertLowStock            AlertType = "Low Stock"
	AlertExcessInventory     AlertType = "Excess Inventory"
	AlertDemandSpike         AlertType = "Demand Spike"
	AlertDemandDrop          AlertType = "Demand Drop"
	AlertNPIUnderperformance AlertType = "NPI Underperformance"
	AlertDeliveryDelay       AlertType = "Delivery Delay"
)

// Severity of an alert
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityWarning  Severity = "Warning"
	SeverityInfo     Severity = "Info"
)

// Rank orders severities from most to least urgent
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	default:
		return 3
	}
}

// AlertStatus is the triage state of an alert
type AlertStatus string

const (
	AlertOpen       AlertStatus = "Open"
	AlertInProgress AlertStatus = "In Progress"
	AlertResolved   AlertStatus = "Resolved"
)

// Alert is a severity-classified business alert
type Alert struct {
	AlertID           string          `db:"alert_id" json:"alert_id"`
	Timestamp         time.Time       `db:"date_generated" json:"date_generated"`
	AlertType         AlertType       `db:"alert_type" json:"alert_type"`
	Severity          Severity        `db:"severity" json:"severity"`
	ProductID         ProductID       `db:"product_id" json:"product_id"`
	PartnerID         PartnerID       `db:"partner_id" json:"partner_id"`
	MetricName        string          `db:"metric_name" json:"metric_name"`
	MetricValue       float64         `db:"metric_value" json:"metric_value"`
	Threshold         float64         `db:"threshold" json:"threshold"`
	RecommendedAction string          `db:"recommended_action" json:"recommended_action"`
	RevenueImpact     decimal.Decimal `db:"revenue_impact" json:"revenue_impact"`
	Status            AlertStatus     `db:"status" json:"status"`
}

// Validate checks required fields and the positive revenue impact
func (a Alert) Validate() error {
	if a.AlertID == "" {
		return fmt.Errorf("alert id cannot be empty")
	}
	if a.ProductID == "" || a.PartnerID == "" {
		return fmt.Errorf("alert %s: product and partner ids are required", a.AlertID)
	}
	if !a.RevenueImpact.IsPositive() {
		return fmt.Errorf("alert %s: revenue impact must be positive, got %s", a.AlertID, a.RevenueImpact)
	}
	switch a.Severity {
	case SeverityCritical, SeverityWarning, SeverityInfo:
	default:
		return fmt.Errorf("alert %s: invalid severity %q", a.AlertID, a.Severity)
	}
	switch a.Status {
	case AlertOpen, AlertInProgress, AlertResolved:
	default:
		return fmt.Errorf("alert %s: invalid status %q", a.AlertID, a.Status)
	}
	return nil
}
