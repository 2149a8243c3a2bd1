package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PartnerTier represents the commercial tier of a reseller
type PartnerTier string

const (
	Platinum PartnerTier = "Platinum"
	Gold     PartnerTier = "Gold"
	Silver   PartnerTier = "Silver"
)

// Partner represents a reseller in the channel. Immutable after creation.
type Partner struct {
	ID                PartnerID       `db:"partner_id" json:"partner_id"`
	Name              string          `db:"partner_name" json:"partner_name"`
	Country           string          `db:"country" json:"country"`
	Region            string          `db:"region" json:"region"`
	Tier              PartnerTier     `db:"partner_tier" json:"partner_tier"`
	AvgMonthlyRevenue decimal.Decimal `db:"avg_monthly_revenue" json:"avg_monthly_revenue"`
	StoreCount        int             `db:"store_count" json:"store_count"`
	DigitalMaturity   int             `db:"digital_maturity_score" json:"digital_maturity_score"`
}

// NewPartner creates a validated Partner
func NewPartner(
	id PartnerID,
	name, country, region string,
	tier PartnerTier,
	avgMonthlyRevenue decimal.Decimal,
	storeCount, digitalMaturity int,
) (*Partner, error) {
	if id == "" {
		return nil, fmt.Errorf("partner id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("partner name cannot be empty")
	}
	switch tier {
	case Platinum, Gold, Silver:
	default:
		return nil, fmt.Errorf("invalid partner tier: %s", tier)
	}
	if !avgMonthlyRevenue.IsPositive() {
		return nil, fmt.Errorf("average monthly revenue must be positive, got %s", avgMonthlyRevenue)
	}
	if storeCount < 0 {
		return nil, fmt.Errorf("store count cannot be negative, got %d", storeCount)
	}
	if digitalMaturity < 0 || digitalMaturity > 10 {
		return nil, fmt.Errorf("digital maturity score must be within 0-10, got %d", digitalMaturity)
	}

	return &Partner{
		ID:                id,
		Name:              name,
		Country:           country,
		Region:            region,
		Tier:              tier,
		AvgMonthlyRevenue: avgMonthlyRevenue,
		StoreCount:        storeCount,
		DigitalMaturity:   digitalMaturity,
	}, nil
}

// OnlineOnly reports whether the partner has no physical stores
func (p Partner) OnlineOnly() bool {
	return p.StoreCount == 0
}
