package analytics

import (
	"sort"

	"github.com/vsinha/demandplan/pkg/domain/dataset"
	"github.com/vsinha/demandplan/pkg/domain/entities"
)

// Gap bands for the shipment plan check, in percent of forecast
const (
	planGreenBand = 10.0
	planAmberBand = 20.0
)

// FamilyPlanGap compares confirmed open order units with the ensemble
// forecast for one product family
type FamilyPlanGap struct {
	Family        entities.Family   `json:"product_family"`
	PlannedUnits  int64             `json:"planned_units"`
	ForecastUnits int64             `json:"forecast_units"`
	Gap           int64             `json:"gap"`
	GapPct        float64           `json:"gap_pct"`
	RAG           entities.RiskFlag `json:"rag"`
}

// ShipmentPlanValidation sums confirmed units on Open and Partially Fulfilled
// orders per family and sets them against the Ensemble forecast. Families on
// either side appear; rows for products outside the catalog are ignored.
// Sorted by planned units, largest first.
func ShipmentPlanValidation(orders []entities.Order, forecasts []entities.Forecast, products []*entities.Product) []FamilyPlanGap {
	familyOf := make(map[entities.ProductID]entities.Family, len(products))
	for _, p := range products {
		familyOf[p.ID] = p.Family
	}

	gaps := make(map[entities.Family]*FamilyPlanGap)
	row := func(family entities.Family) *FamilyPlanGap {
		g, ok := gaps[family]
		if !ok {
			g = &FamilyPlanGap{Family: family}
			gaps[family] = g
		}
		return g
	}

	for _, o := range orders {
		if o.Status != entities.OrderOpen && o.Status != entities.OrderPartiallyFulfilled {
			continue
		}
		family, ok := familyOf[o.ProductID]
		if !ok {
			continue
		}
		row(family).PlannedUnits += int64(o.UnitsConfirmed)
	}
	for _, f := range forecasts {
		if f.Model != entities.ModelEnsemble {
			continue
		}
		family, ok := familyOf[f.ProductID]
		if !ok {
			continue
		}
		row(family).ForecastUnits += int64(f.Units)
	}

	result := make([]FamilyPlanGap, 0, len(gaps))
	for _, g := range gaps {
		g.Gap = g.PlannedUnits - g.ForecastUnits
		base := float64(g.ForecastUnits)
		if base == 0 {
			base = 1
		}
		pct := float64(g.Gap) / base * 100
		g.RAG = planRAG(pct)
		g.GapPct = dataset.Round(pct, 1)
		result = append(result, *g)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].PlannedUnits != result[j].PlannedUnits {
			return result[i].PlannedUnits > result[j].PlannedUnits
		}
		return result[i].Family < result[j].Family
	})
	return result
}

// planRAG is Green within 10% of forecast, Amber within 20%, Red beyond
func planRAG(pct float64) entities.RiskFlag {
	switch {
	case pct >= -planGreenBand && pct <= planGreenBand:
		return entities.RiskGreen
	case pct >= -planAmberBand && pct <= planAmberBand:
		return entities.RiskAmber
	default:
		return entities.RiskRed
	}
}

// RangingCell is the recent in-stock rate of one family at one partner
type RangingCell struct {
	PartnerName string          `json:"partner_name"`
	Family      entities.Family `json:"product_family"`
	InStockRate float64         `json:"in_stock_rate"`
}

// InStockRanging averages in-stock rates per partner and family over the
// latest actuals week and the four before it. Undefined rates are skipped and
// cells with none defined are left out. Sorted by partner name then family.
func InStockRanging(actuals []entities.DemandActual, products []*entities.Product, partners []*entities.Partner) []RangingCell {
	if len(actuals) == 0 {
		return nil
	}
	cutoff := latestDate(actuals).AddDate(0, 0, -7*RiskWindowWeeks)

	familyOf := make(map[entities.ProductID]entities.Family, len(products))
	for _, p := range products {
		familyOf[p.ID] = p.Family
	}
	nameOf := make(map[entities.PartnerID]string, len(partners))
	for _, p := range partners {
		nameOf[p.ID] = p.Name
	}

	type cell struct {
		partner string
		family  entities.Family
	}
	type mean struct {
		sum float64
		n   int
	}
	acc := make(map[cell]*mean)
	for _, a := range actuals {
		if a.Date.Before(cutoff) || !a.InStockRate.Valid {
			continue
		}
		family, okFamily := familyOf[a.ProductID]
		name, okName := nameOf[a.PartnerID]
		if !okFamily || !okName {
			continue
		}
		key := cell{name, family}
		m, ok := acc[key]
		if !ok {
			m = &mean{}
			acc[key] = m
		}
		m.sum += a.InStockRate.Float64
		m.n++
	}

	cells := make([]RangingCell, 0, len(acc))
	for key, m := range acc {
		cells = append(cells, RangingCell{
			PartnerName: key.partner,
			Family:      key.family,
			InStockRate: dataset.Round(m.sum/float64(m.n), 4),
		})
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].PartnerName != cells[j].PartnerName {
			return cells[i].PartnerName < cells[j].PartnerName
		}
		return cells[i].Family < cells[j].Family
	})
	return cells
}
