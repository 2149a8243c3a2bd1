package simulation

import (
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/demandplan/pkg/domain/entities"
)

// familyBaseUnits is the channel-wide weekly unit baseline per family
var familyBaseUnits = map[entities.Family]float64{
	entities.FamilyPhone:     6500,
	entities.FamilyTablet:    1800,
	entities.FamilyComputer:  900,
	entities.FamilyWearable:  800,
	entities.FamilyAudio:     1400,
	entities.FamilyAccessory: 3500,
}

const (
	// partnerScale converts a partner's revenue share of the channel into partner-level units
	partnerScale = 13.0

	silverAccessorySkip = 0.25
	constrainedShare    = 0.12
	inStockGapShare     = 0.015
)

// ProgressFunc is called after each simulated week
type ProgressFunc func(done, total int)

// DemandSimulator produces weekly (product x partner) demand history
type DemandSimulator struct {
	logger   *zap.Logger
	progress ProgressFunc
}

// NewDemandSimulator creates a demand simulator. progress may be nil.
func NewDemandSimulator(logger *zap.Logger, progress ProgressFunc) *DemandSimulator {
	return &DemandSimulator{logger: logger, progress: progress}
}

// Simulate generates HistoryWeeks of demand actuals
func (s *DemandSimulator) Simulate(catalog *Catalog, stream *Stream) ([]entities.DemandActual, error) {
	weeks := HistoryWeekStarts()
	skuShare := skuShares(catalog.Products)

	estimated := len(weeks) * len(catalog.Products) * len(catalog.Partners)
	rows := make([]entities.DemandActual, 0, estimated)

	for weekIdx, weekStart := range weeks {
		week := isoWeek(weekStart)
		growth := growthFactor(weekStart.Year(), weekIdx)
		factors := seasonalityFor(week)

		for _, product := range catalog.Products {
			lifecycle := lifecycleFactor(product.Lifecycle, weeksBetween(product.LaunchDate, weekStart))
			if lifecycle == 0 {
				continue
			}
			season := familySeasonality(product.Family, week, factors)
			baseUnits := familyBaseUnits[product.Family] * skuShare[product.ID] * season * lifecycle * growth

			for pIdx, partner := range catalog.Partners {
				if partner.Tier == entities.Silver && product.Priority == entities.Tier3 && stream.Chance(silverAccessorySkip) {
					continue
				}

				partnerUnits := baseUnits * catalog.PartnerWeights[pIdx] * partnerScale
				noise := clip(stream.Normal(1, 0.10), 0.7, 1.4)
				ordered := roundHalfEven(partnerUnits * noise)
				if ordered <= 0 {
					continue
				}

				row, err := s.fulfil(weekStart, product, partner, ordered, stream)
				if err != nil {
					return nil, err
				}
				rows = append(rows, row)
			}
		}

		if s.progress != nil {
			s.progress(weekIdx+1, len(weeks))
		}
	}

	total := 0.0
	for _, r := range rows {
		total += r.Revenue.InexactFloat64()
	}
	s.logger.Info("demand actuals generated",
		zap.Int("rows", len(rows)),
		zap.Int("weeks", len(weeks)),
		zap.Float64("total_revenue_bn", round(total/1e9, 2)),
	)
	return rows, nil
}

// fulfil derives shipped, sold, revenue, in-stock and weeks of supply for one ordered quantity
func (s *DemandSimulator) fulfil(
	weekStart time.Time,
	product *entities.Product,
	partner *entities.Partner,
	ordered int64,
	stream *Stream,
) (entities.DemandActual, error) {
	constrained := stream.Chance(constrainedShare)
	var fillRate float64
	if constrained {
		fillRate = stream.Uniform(0.55, 0.85)
	} else {
		fillRate = stream.Uniform(0.92, 1.0)
	}
	shipped := roundHalfEven(float64(ordered) * fillRate)
	sold := roundHalfEven(float64(shipped) * stream.Uniform(0.78, 0.97))

	aspActual := product.ASPFloat() * stream.Uniform(0.97, 1.03)
	revenue, err := entities.NewMoney(float64(sold) * aspActual)
	if err != nil {
		return entities.DemandActual{}, fmt.Errorf("%w: revenue for %s at %s: %v", ErrNumericDefect, product.ID, partner.ID, err)
	}
	asp, err := entities.NewMoney(aspActual)
	if err != nil {
		return entities.DemandActual{}, fmt.Errorf("%w: asp for %s at %s: %v", ErrNumericDefect, product.ID, partner.ID, err)
	}

	var inStock float64
	if constrained {
		inStock = stream.Uniform(0.60, 0.85)
	} else {
		inStock = stream.Uniform(0.88, 0.99)
	}
	inStockKnown := !stream.Chance(inStockGapShare)

	inventory := (shipped - sold) + int64(stream.IntBetween(0, int(float64(sold)*0.5)))
	if inventory < 0 {
		inventory = 0
	}
	runRate := math.Max(1, float64(sold))
	wos := math.Min(round(float64(inventory)/runRate, 2), entities.MaxWeeksOfSupply)

	return entities.DemandActual{
		Date:          weekStart,
		ProductID:     product.ID,
		PartnerID:     partner.ID,
		UnitsOrdered:  entities.Quantity(ordered),
		UnitsShipped:  entities.Quantity(shipped),
		UnitsSold:     entities.Quantity(sold),
		Revenue:       revenue,
		ASPActual:     asp,
		InStockRate:   entities.NullRate(round(inStock, 4), inStockKnown),
		WeeksOfSupply: wos,
	}, nil
}

// skuShares splits each family's volume across its SKUs by price rank:
// the cheapest SKU gets weight 1, the next 1/1.5, then 1/2, and so on.
func skuShares(products []*entities.Product) map[entities.ProductID]float64 {
	byFamily := make(map[entities.Family][]*entities.Product)
	for _, p := range products {
		byFamily[p.Family] = append(byFamily[p.Family], p)
	}

	shares := make(map[entities.ProductID]float64, len(products))
	for _, skus := range byFamily {
		ranked := append([]*entities.Product(nil), skus...)
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].ASP.LessThan(ranked[j].ASP)
		})
		total := 0.0
		for rank := range ranked {
			total += 1 / (1 + 0.5*float64(rank))
		}
		for rank, p := range ranked {
			shares[p.ID] = safeRatio(1/(1+0.5*float64(rank)), total)
		}
	}
	return shares
}

// weeksBetween returns whole weeks from launch to t, negative before launch
func weeksBetween(launch, t time.Time) int {
	days := entities.DaysBetween(launch, t)
	if days < 0 {
		return -1
	}
	return days / 7
}
