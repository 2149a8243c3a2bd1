package simulation

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/demandplan/pkg/domain/entities"
)

var (
	orderStatuses = []entities.OrderStatus{
		entities.OrderOpen,
		entities.OrderPartiallyFulfilled,
		entities.OrderAtRisk,
		entities.OrderShipped,
	}
	orderStatusWeights = []float64{0.40, 0.25, 0.15, 0.20}
)

const (
	noOrderShare = 0.35
	chaseShare   = 0.35
)

// OrderBookGenerator produces the current partner order book snapshot
type OrderBookGenerator struct {
	logger   *zap.Logger
	scenario Scenario
}

// NewOrderBookGenerator creates an order book generator
func NewOrderBookGenerator(logger *zap.Logger, scenario Scenario) *OrderBookGenerator {
	return &OrderBookGenerator{logger: logger, scenario: scenario}
}

// Generate sizes one order per eligible (product, partner) pair from the
// trailing OrderLookbackWeeks of ordered units, then appends the scripted
// stock-out line.
func (g *OrderBookGenerator) Generate(catalog *Catalog, actuals []entities.DemandActual, stream *Stream) ([]entities.Order, error) {
	products := productIndex(catalog.Products)
	cutoff := Today.AddDate(0, 0, -7*OrderLookbackWeeks)
	avgOrdered, keys := meanByPair(actuals, cutoff, func(a entities.DemandActual) float64 {
		return float64(a.UnitsOrdered)
	})

	orders := make([]entities.Order, 0, len(keys)+1)
	for _, key := range keys {
		avg := avgOrdered[key]
		if avg < 1 {
			continue
		}
		if stream.Chance(noOrderShare) {
			continue
		}
		product, ok := products[key.product]
		if !ok {
			return nil, unknownProduct(key.product)
		}

		placed := Today.AddDate(0, 0, -stream.IntBetween(1, 27))
		requested := placed.AddDate(0, 0, stream.IntBetween(5, 20))
		ordered := roundHalfEven(avg * 2 * stream.Uniform(0.8, 1.3))
		if ordered < 1 {
			ordered = 1
		}
		status := orderStatuses[stream.Choice(orderStatusWeights)]
		confirmed, shipped := orderQuantities(status, ordered, stream)

		order := entities.Order{
			OrderID:               orderID(len(orders) + 1),
			OrderDate:             placed,
			RequestedDate:         requested,
			ProductID:             key.product,
			PartnerID:             key.partner,
			UnitsOrdered:          entities.Quantity(ordered),
			UnitsConfirmed:        entities.Quantity(confirmed),
			UnitsShipped:          entities.Quantity(shipped),
			Status:                status,
			ChaseRevenuePotential: decimal.Zero,
		}

		chaseable := status == entities.OrderOpen || status == entities.OrderPartiallyFulfilled
		if chaseable && stream.Chance(chaseShare) {
			units := int64(float64(ordered) * stream.Uniform(0.15, 0.40))
			if units < 1 {
				units = 1
			}
			order.ChaseOpportunity = true
			order.ChaseUnitsRecommended = entities.Quantity(units)
			order.ChaseRevenuePotential = product.ASP.Mul(decimal.NewFromInt(units)).Round(2)
		}
		orders = append(orders, order)
	}

	scripted, err := g.scriptedOrder(catalog, len(orders)+1)
	if err != nil {
		return nil, err
	}
	orders = append(orders, scripted)

	chase := decimal.Zero
	for _, o := range orders {
		chase = chase.Add(o.ChaseRevenuePotential)
	}
	g.logger.Info("order book generated",
		zap.Int("orders", len(orders)),
		zap.Float64("chase_revenue_m", round(chase.InexactFloat64()/1e6, 1)),
	)
	return orders, nil
}

// orderQuantities returns confirmed and shipped units for a status
func orderQuantities(status entities.OrderStatus, ordered int64, stream *Stream) (int64, int64) {
	o := float64(ordered)
	switch status {
	case entities.OrderShipped:
		return ordered, ordered
	case entities.OrderPartiallyFulfilled:
		return ordered, int64(math.Floor(o * stream.Uniform(0.4, 0.8)))
	case entities.OrderAtRisk:
		return int64(math.Floor(o * stream.Uniform(0.5, 0.9))), 0
	default:
		return int64(math.Floor(o * stream.Uniform(0.7, 1.0))), 0
	}
}

// scriptedOrder is the open stock-out line the headline low-stock alert points at
func (g *OrderBookGenerator) scriptedOrder(catalog *Catalog, seq int) (entities.Order, error) {
	s := g.scenario
	partner, err := catalog.PartnerByName(s.ShortPartner)
	if err != nil {
		return entities.Order{}, err
	}
	product, ok := productIndex(catalog.Products)[s.ShortProduct]
	if !ok {
		return entities.Order{}, unknownProduct(s.ShortProduct)
	}

	return entities.Order{
		OrderID:               orderID(seq),
		OrderDate:             s.ShortOrder.Placed,
		RequestedDate:         s.ShortOrder.Requested,
		ProductID:             product.ID,
		PartnerID:             partner.ID,
		UnitsOrdered:          s.ShortOrder.Ordered,
		UnitsConfirmed:        s.ShortOrder.Confirmed,
		UnitsShipped:          0,
		Status:                entities.OrderOpen,
		ChaseOpportunity:      true,
		ChaseUnitsRecommended: s.ShortOrder.ChaseUnits,
		ChaseRevenuePotential: s.ChaseRevenue(product),
	}, nil
}

func orderID(seq int) string {
	return fmt.Sprintf("ORD-%05d", seq)
}

func productIndex(products []*entities.Product) map[entities.ProductID]*entities.Product {
	index := make(map[entities.ProductID]*entities.Product, len(products))
	for _, p := range products {
		index[p.ID] = p
	}
	return index
}

func partnerIndex(partners []*entities.Partner) map[entities.PartnerID]*entities.Partner {
	index := make(map[entities.PartnerID]*entities.Partner, len(partners))
	for _, p := range partners {
		index[p.ID] = p
	}
	return index
}
