package simulation

import (
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/demandplan/pkg/domain/entities"
)

// modelProfile is the static accuracy profile of a forecast model
type modelProfile struct {
	model    entities.ForecastModel
	accuracy float64
}

// mape is the model's mean absolute percentage error, 1 - accuracy
func (m modelProfile) mape() float64 {
	return 1 - m.accuracy
}

// forecastModels is ordered as rows are emitted. Ensemble must carry the
// highest accuracy.
var forecastModels = []modelProfile{
	{entities.ModelARIMA, 0.885},
	{entities.ModelProphet, 0.902},
	{entities.ModelRF, 0.897},
	{entities.ModelEnsemble, 0.913},
}

// trailingJitter bounds the noise on the reported trailing MAPE. Must stay
// below half the accuracy gap between Ensemble and the runner-up.
const trailingJitter = 0.005

// ModelMAPE returns the nominal MAPE of a model
func ModelMAPE(model entities.ForecastModel) (float64, bool) {
	for _, m := range forecastModels {
		if m.model == model {
			return m.mape(), true
		}
	}
	return 0, false
}

type pairKey struct {
	product entities.ProductID
	partner entities.PartnerID
}

// ForecastGenerator produces forward forecasts from recent actuals
type ForecastGenerator struct {
	logger *zap.Logger
}

// NewForecastGenerator creates a forecast generator
func NewForecastGenerator(logger *zap.Logger) *ForecastGenerator {
	return &ForecastGenerator{logger: logger}
}

// Generate produces ForecastWeeks of forecasts for every model and every
// (product, partner) pair with sales in the trailing window. Pairs with no
// trailing signal produce nothing.
func (g *ForecastGenerator) Generate(
	products map[entities.ProductID]*entities.Product,
	actuals []entities.DemandActual,
	stream *Stream,
) ([]entities.Forecast, error) {
	cutoff := Today.AddDate(0, 0, -7*ForecastLookbackWeeks)
	base, keys := meanByPair(actuals, cutoff, func(a entities.DemandActual) float64 {
		return float64(a.UnitsSold)
	})

	weeks := ForecastWeekStarts()
	forecasts := make([]entities.Forecast, 0, len(keys)*len(weeks)*len(forecastModels))

	for _, key := range keys {
		product, ok := products[key.product]
		if !ok {
			return nil, unknownProduct(key.product)
		}
		if base[key] <= 0 {
			continue
		}
		launchWindow := product.IsNPI && product.Family == entities.FamilyPhone

		for weekIdx, weekStart := range weeks {
			signal := math.Max(0, base[key]*forecastTrend(weekIdx, isoWeek(weekStart), launchWindow))

			for _, m := range forecastModels {
				mape := m.mape()
				units := roundHalfEven(signal * stream.Normal(1, mape*0.5))
				if units < 0 {
					units = 0
				}
				halfWidth := float64(units) * mape * 2
				lower := roundHalfEven(float64(units) - halfWidth)
				if lower < 0 {
					lower = 0
				}
				upper := roundHalfEven(float64(units) + halfWidth)

				forecasts = append(forecasts, entities.Forecast{
					Date:         weekStart,
					ProductID:    key.product,
					PartnerID:    key.partner,
					Model:        m.model,
					Units:        entities.Quantity(units),
					Lower:        entities.Quantity(lower),
					Upper:        entities.Quantity(upper),
					MAPETrailing: round(mape+stream.Uniform(-trailingJitter, trailingJitter), 4),
				})
			}
		}
	}

	g.logger.Info("forecasts generated",
		zap.Int("rows", len(forecasts)),
		zap.Int("pairs", len(keys)),
		zap.Int("models", len(forecastModels)),
	)
	return forecasts, nil
}

// forecastTrend compounds the mild upward trend with the launch and holiday uplifts
func forecastTrend(weekIdx, week int, launchWindow bool) float64 {
	trend := 1 + 0.005*float64(weekIdx)
	if launchWindow {
		switch {
		case week >= 37 && week <= 43:
			trend *= 1.5 + 0.5*math.Exp(-0.4*math.Abs(float64(week-39)))
		case week > 43:
			trend *= math.Max(0.8, 1-0.03*float64(week-43))
		}
	}
	if week >= 47 && week <= 52 {
		trend *= 1.4
	}
	return trend
}

// meanByPair averages value over actuals dated on or after cutoff, grouped
// by (product, partner). Keys are returned sorted by product then partner.
func meanByPair(
	actuals []entities.DemandActual,
	cutoff time.Time,
	value func(entities.DemandActual) float64,
) (map[pairKey]float64, []pairKey) {
	sums := make(map[pairKey]float64)
	counts := make(map[pairKey]int)
	for _, a := range actuals {
		if a.Date.Before(cutoff) {
			continue
		}
		key := pairKey{a.ProductID, a.PartnerID}
		sums[key] += value(a)
		counts[key]++
	}

	keys := make([]pairKey, 0, len(sums))
	means := make(map[pairKey]float64, len(sums))
	for key, sum := range sums {
		means[key] = safeRatio(sum, float64(counts[key]))
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].product != keys[j].product {
			return keys[i].product < keys[j].product
		}
		return keys[i].partner < keys[j].partner
	})
	return means, keys
}
