package simulation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vsinha/demandplan/pkg/domain/entities"
)

// DemandFeatures joins every actual with its product and partner attributes
func DemandFeatures(catalog *Catalog, actuals []entities.DemandActual) ([]entities.DemandFeature, error) {
	products := productIndex(catalog.Products)
	partners := partnerIndex(catalog.Partners)

	features := make([]entities.DemandFeature, 0, len(actuals))
	for _, a := range actuals {
		product, ok := products[a.ProductID]
		if !ok {
			return nil, unknownProduct(a.ProductID)
		}
		partner, ok := partners[a.PartnerID]
		if !ok {
			return nil, unknownPartner(a.PartnerID)
		}
		features = append(features, entities.DemandFeature{
			DemandActual:   a,
			ProductFamily:  product.Family,
			LifecycleStage: product.Lifecycle,
			PriorityTier:   product.Priority,
			ASP:            product.ASP,
			PartnerName:    partner.Name,
			PartnerTier:    partner.Tier,
			Country:        partner.Country,
		})
	}
	return features, nil
}

// ForecastResults keeps only the default model's forecasts
func ForecastResults(forecasts []entities.Forecast) []entities.Forecast {
	var out []entities.Forecast
	for _, f := range forecasts {
		if f.Model == entities.DefaultModel {
			out = append(out, f)
		}
	}
	return out
}

// AlertSummary rolls alerts up by (severity, alert type), sorted by both keys
func AlertSummary(alerts []entities.Alert) []entities.AlertRollup {
	type key struct {
		severity  entities.Severity
		alertType entities.AlertType
	}
	groups := make(map[key]*entities.AlertRollup)
	for _, a := range alerts {
		k := key{a.Severity, a.AlertType}
		r, ok := groups[k]
		if !ok {
			r = &entities.AlertRollup{Severity: a.Severity, AlertType: a.AlertType, TotalRevenueImpact: decimal.Zero}
			groups[k] = r
		}
		r.Count++
		r.TotalRevenueImpact = r.TotalRevenueImpact.Add(a.RevenueImpact)
		if a.Status == entities.AlertOpen {
			r.OpenCount++
		}
	}

	rollups := make([]entities.AlertRollup, 0, len(groups))
	for _, r := range groups {
		rollups = append(rollups, *r)
	}
	sort.Slice(rollups, func(i, j int) bool {
		if rollups[i].Severity != rollups[j].Severity {
			return rollups[i].Severity < rollups[j].Severity
		}
		return rollups[i].AlertType < rollups[j].AlertType
	})
	return rollups
}
