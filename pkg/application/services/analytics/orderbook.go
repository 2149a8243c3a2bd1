package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vsinha/demandplan/pkg/domain/dataset"
	"github.com/vsinha/demandplan/pkg/domain/entities"
)

// Chase priority bands by revenue potential
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

var (
	mediumChaseFloor = decimal.NewFromInt(100_000)
	highChaseFloor   = decimal.NewFromInt(300_000)
)

// OrderBookKPIs summarises the open order book
type OrderBookKPIs struct {
	TotalOrders        int             `json:"total_orders"`
	OpenConfirmedUnits int64           `json:"open_confirmed_units"`
	AtRiskPct          float64         `json:"at_risk_pct"`
	FulfilmentRate     float64         `json:"fulfilment_rate"`
	ChaseValue         decimal.Decimal `json:"chase_value"`
}

// OrderBookHealth counts at-risk lines, the shipped share of ordered units
// and the total chase revenue potential
func OrderBookHealth(orders []entities.Order) OrderBookKPIs {
	health := OrderBookKPIs{TotalOrders: len(orders), ChaseValue: decimal.Zero}

	var atRisk int
	var shipped, ordered float64
	for _, o := range orders {
		if o.Status != entities.OrderShipped {
			health.OpenConfirmedUnits += int64(o.UnitsConfirmed)
		}
		if o.Status == entities.OrderAtRisk {
			atRisk++
		}
		if o.Status == entities.OrderShipped || o.Status == entities.OrderPartiallyFulfilled {
			shipped += float64(o.UnitsShipped)
		}
		ordered += float64(o.UnitsOrdered)
		if o.ChaseOpportunity {
			health.ChaseValue = health.ChaseValue.Add(o.ChaseRevenuePotential)
		}
	}

	health.AtRiskPct = dataset.Round(ratio(float64(atRisk), float64(len(orders)))*100, 1)
	health.FulfilmentRate = dataset.Round(ratio(shipped, ordered)*100, 1)
	return health
}

// ChaseOpportunity is one order line worth chasing, joined to its catalog rows
type ChaseOpportunity struct {
	OrderID       string               `json:"order_id"`
	PartnerName   string               `json:"partner_name"`
	PartnerTier   entities.PartnerTier `json:"partner_tier"`
	ProductName   string               `json:"product_name"`
	ProductFamily entities.Family      `json:"product_family"`
	ChaseUnits    entities.Quantity    `json:"chase_units_recommended"`
	ChaseRevenue  decimal.Decimal      `json:"chase_revenue_potential"`
	Status        entities.OrderStatus `json:"status"`
	Priority      string               `json:"priority"`
}

// ChaseOpportunities returns the topN chase lines by revenue potential.
// topN <= 0 returns all of them.
func ChaseOpportunities(orders []entities.Order, products []*entities.Product, partners []*entities.Partner, topN int) []ChaseOpportunity {
	productByID := make(map[entities.ProductID]*entities.Product, len(products))
	for _, p := range products {
		productByID[p.ID] = p
	}
	partnerByID := make(map[entities.PartnerID]*entities.Partner, len(partners))
	for _, p := range partners {
		partnerByID[p.ID] = p
	}

	var chase []ChaseOpportunity
	for _, o := range orders {
		if !o.ChaseOpportunity {
			continue
		}
		opp := ChaseOpportunity{
			OrderID:      o.OrderID,
			ChaseUnits:   o.ChaseUnitsRecommended,
			ChaseRevenue: o.ChaseRevenuePotential,
			Status:       o.Status,
			Priority:     ChasePriority(o.ChaseRevenuePotential),
		}
		if p, ok := productByID[o.ProductID]; ok {
			opp.ProductName, opp.ProductFamily = p.Name, p.Family
		}
		if p, ok := partnerByID[o.PartnerID]; ok {
			opp.PartnerName, opp.PartnerTier = p.Name, p.Tier
		}
		chase = append(chase, opp)
	}

	sort.SliceStable(chase, func(i, j int) bool {
		return chase[i].ChaseRevenue.GreaterThan(chase[j].ChaseRevenue)
	})
	if topN > 0 && len(chase) > topN {
		chase = chase[:topN]
	}
	return chase
}

// ChasePriority bands revenue potential: up to 100k Low, up to 300k Medium
func ChasePriority(revenue decimal.Decimal) string {
	switch {
	case revenue.LessThanOrEqual(mediumChaseFloor):
		return PriorityLow
	case revenue.LessThanOrEqual(highChaseFloor):
		return PriorityMedium
	default:
		return PriorityHigh
	}
}
