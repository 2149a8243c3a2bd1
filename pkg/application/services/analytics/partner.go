package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/demandplan/pkg/domain/dataset"
	"github.com/vsinha/demandplan/pkg/domain/entities"
)

// PartnerKPIs is the snapshot shown for one reseller partner
type PartnerKPIs struct {
	PartnerID      entities.PartnerID `json:"partner_id"`
	Revenue        decimal.Decimal    `json:"revenue"`
	RevenueDelta   float64            `json:"revenue_delta"`
	InStockRate    float64            `json:"in_stock_rate"`
	AvgWOS         float64            `json:"avg_weeks_of_supply"`
	FulfilmentRate float64            `json:"fulfilment_rate"`
	OpenAlerts     int                `json:"open_alerts"`
	CriticalAlerts int                `json:"critical_alerts"`
}

// PartnerOverview summarises one partner's demand history and open alerts.
// It reports false when the partner has no actuals. Undefined in-stock rates
// are left out of the average.
func PartnerOverview(actuals []entities.DemandActual, alerts []entities.Alert, partnerID entities.PartnerID) (PartnerKPIs, bool) {
	kpis := PartnerKPIs{PartnerID: partnerID, Revenue: decimal.Zero}

	var rows []entities.DemandActual
	for _, a := range actuals {
		if a.PartnerID == partnerID {
			rows = append(rows, a)
		}
	}
	if len(rows) == 0 {
		return kpis, false
	}

	lastWeek := latestDate(rows)
	prevWeek := lastWeek.AddDate(0, 0, -7)
	revLast, revPrev := decimal.Zero, decimal.Zero

	var inStock, wos, shipped, ordered float64
	var inStockRows int
	for _, a := range rows {
		kpis.Revenue = kpis.Revenue.Add(a.Revenue)
		switch {
		case a.Date.Equal(lastWeek):
			revLast = revLast.Add(a.Revenue)
		case a.Date.Equal(prevWeek):
			revPrev = revPrev.Add(a.Revenue)
		}
		if a.InStockRate.Valid {
			inStock += a.InStockRate.Float64
			inStockRows++
		}
		wos += a.WeeksOfSupply
		shipped += float64(a.UnitsShipped)
		ordered += float64(a.UnitsOrdered)
	}

	prev := revPrev.InexactFloat64()
	if prev < 1 {
		prev = 1
	}
	if ordered < 1 {
		ordered = 1
	}
	kpis.RevenueDelta = dataset.Round((revLast.InexactFloat64()-revPrev.InexactFloat64())/prev*100, 1)
	kpis.InStockRate = dataset.Round(ratio(inStock, float64(inStockRows))*100, 1)
	kpis.AvgWOS = dataset.Round(wos/float64(len(rows)), 1)
	kpis.FulfilmentRate = dataset.Round(shipped/ordered*100, 1)

	for _, alert := range alerts {
		if alert.PartnerID != partnerID || alert.Status != entities.AlertOpen {
			continue
		}
		kpis.OpenAlerts++
		if alert.Severity == entities.SeverityCritical {
			kpis.CriticalAlerts++
		}
	}
	return kpis, true
}

// FamilyRevenue is one slice of a partner's product mix
type FamilyRevenue struct {
	Family  entities.Family `json:"product_family"`
	Revenue decimal.Decimal `json:"revenue"`
}

// PartnerProductMix breaks a partner's revenue down by product family,
// largest first
func PartnerProductMix(actuals []entities.DemandActual, products []*entities.Product, partnerID entities.PartnerID) []FamilyRevenue {
	familyOf := make(map[entities.ProductID]entities.Family, len(products))
	for _, p := range products {
		familyOf[p.ID] = p.Family
	}

	totals := make(map[entities.Family]decimal.Decimal)
	for _, a := range actuals {
		if a.PartnerID != partnerID {
			continue
		}
		family := familyOf[a.ProductID]
		totals[family] = totals[family].Add(a.Revenue)
	}

	mix := make([]FamilyRevenue, 0, len(totals))
	for family, revenue := range totals {
		mix = append(mix, FamilyRevenue{Family: family, Revenue: revenue})
	}
	sort.Slice(mix, func(i, j int) bool {
		if !mix[i].Revenue.Equal(mix[j].Revenue) {
			return mix[i].Revenue.GreaterThan(mix[j].Revenue)
		}
		return mix[i].Family < mix[j].Family
	})
	return mix
}

// DefaultTrendWeeks is the revenue trend length shown for a partner
const DefaultTrendWeeks = 52

// WeeklyRevenue is one point of a revenue trend
type WeeklyRevenue struct {
	Date    time.Time       `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

// PartnerRevenueTrend sums a partner's revenue per week and keeps the latest
// weeks points, oldest first
func PartnerRevenueTrend(actuals []entities.DemandActual, partnerID entities.PartnerID, weeks int) []WeeklyRevenue {
	if weeks <= 0 {
		return nil
	}
	totals := make(map[time.Time]decimal.Decimal)
	for _, a := range actuals {
		if a.PartnerID == partnerID {
			totals[a.Date] = totals[a.Date].Add(a.Revenue)
		}
	}

	trend := make([]WeeklyRevenue, 0, len(totals))
	for date, revenue := range totals {
		trend = append(trend, WeeklyRevenue{Date: date, Revenue: revenue})
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Date.Before(trend[j].Date) })
	if len(trend) > weeks {
		trend = trend[len(trend)-weeks:]
	}
	return trend
}

func latestDate(rows []entities.DemandActual) time.Time {
	var latest time.Time
	for _, a := range rows {
		if a.Date.After(latest) {
			latest = a.Date
		}
	}
	return latest
}
