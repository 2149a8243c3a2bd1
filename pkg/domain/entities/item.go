package entities

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// ProductID represents a unique SKU identifier
type ProductID string

// PartnerID represents a unique reseller partner identifier
type PartnerID string

// Quantity represents an integer unit count
type Quantity int64

// Family is the product family a SKU rolls up to
type Family string

const (
	FamilyPhone     Family = "Phone"
	FamilyTablet    Family = "Tablet"
	FamilyComputer  Family = "Computer"
	FamilyWearable  Family = "Wearable"
	FamilyAudio     Family = "Audio"
	FamilyAccessory Family = "Accessory"
)

// Families lists every family in catalog order
var Families = []Family{
	FamilyPhone, FamilyTablet, FamilyComputer, FamilyWearable, FamilyAudio, FamilyAccessory,
}

// Valid reports whether f is one of the known families
func (f Family) Valid() bool {
	for _, known := range Families {
		if f == known {
			return true
		}
	}
	return false
}

// LifecycleStage represents where a SKU sits in its product lifecycle
type LifecycleStage string

const (
	StageLaunch   LifecycleStage = "Launch"
	StageGrowth   LifecycleStage = "Growth"
	StageMaturity LifecycleStage = "Maturity"
	StageDecline  LifecycleStage = "Decline"
)

// PriorityTier ranks SKUs for allocation; Tier 3 is the accessory tier
type PriorityTier int

const (
	Tier1 PriorityTier = iota + 1
	Tier2
	Tier3
)

// String method for PriorityTier enum
func (p PriorityTier) String() string {
	switch p {
	case Tier1:
		return "Tier 1"
	case Tier2:
		return "Tier 2"
	case Tier3:
		return "Tier 3"
	default:
		return "Unknown"
	}
}

// ParsePriorityTier parses the "Tier N" form written by String
func ParsePriorityTier(s string) (PriorityTier, error) {
	switch s {
	case "Tier 1":
		return Tier1, nil
	case "Tier 2":
		return Tier2, nil
	case "Tier 3":
		return Tier3, nil
	default:
		return 0, fmt.Errorf("invalid priority tier: %s (expected Tier 1, Tier 2 or Tier 3)", s)
	}
}

// NPIWindowDays is how long after launch a SKU counts as a new product introduction
const NPIWindowDays = 90

// Product represents a catalog SKU. Immutable after creation.
type Product struct {
	ID         ProductID       `db:"product_id" json:"product_id"`
	Name       string          `db:"product_name" json:"product_name"`
	Family     Family          `db:"product_family" json:"product_family"`
	Category   string          `db:"product_category" json:"product_category"`
	LaunchDate time.Time       `db:"launch_date" json:"launch_date"`
	IsNPI      bool            `db:"is_npi" json:"is_npi"`
	ASP        decimal.Decimal `db:"asp" json:"asp"`
	Lifecycle  LifecycleStage  `db:"lifecycle_stage" json:"lifecycle_stage"`
	Priority   PriorityTier    `db:"priority_tier" json:"priority_tier"`
}

// NewProduct creates a validated Product, deriving the NPI flag from today
func NewProduct(
	id ProductID,
	name string,
	family Family,
	category string,
	launchDate time.Time,
	asp decimal.Decimal,
	lifecycle LifecycleStage,
	priority PriorityTier,
	today time.Time,
) (*Product, error) {
	if id == "" {
		return nil, fmt.Errorf("product id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("product name cannot be empty")
	}
	if !family.Valid() {
		return nil, fmt.Errorf("invalid product family: %s", family)
	}
	if !asp.IsPositive() {
		return nil, fmt.Errorf("asp must be positive, got %s", asp)
	}
	if priority < Tier1 || priority > Tier3 {
		return nil, fmt.Errorf("invalid priority tier: %d", priority)
	}

	return &Product{
		ID:         id,
		Name:       name,
		Family:     family,
		Category:   category,
		LaunchDate: launchDate,
		IsNPI:      DaysBetween(launchDate, today) <= NPIWindowDays,
		ASP:        asp,
		Lifecycle:  lifecycle,
		Priority:   priority,
	}, nil
}

// ASPFloat returns the list price for use in the statistical models
func (p Product) ASPFloat() float64 {
	return p.ASP.InexactFloat64()
}

// DaysBetween returns whole calendar days from a to b
func DaysBetween(a, b time.Time) int {
	return int(math.Floor(b.Sub(a).Hours() / 24))
}

// WithinShare reports whether q equals a whole-unit share of total between
// lo and hi, where shares are truncated to whole units.
func (q Quantity) WithinShare(total Quantity, lo, hi float64) bool {
	lower := Quantity(math.Floor(float64(total) * lo))
	upper := Quantity(math.Floor(float64(total) * hi))
	return q >= lower && q <= upper
}
