package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vsinha/demandplan/pkg/domain/dataset"
	"github.com/vsinha/demandplan/pkg/domain/entities"
)

// ChannelKPIs are the headline figures for the whole reseller channel
type ChannelKPIs struct {
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	RevenueDelta     float64         `json:"revenue_delta"`
	InStockRate      float64         `json:"in_stock_rate"`
	FulfilmentRate   float64         `json:"fulfilment_rate"`
	ChaseOpportunity decimal.Decimal `json:"chase_opportunity"`
	ActiveAlerts     int             `json:"active_alerts"`
	CriticalAlerts   int             `json:"critical_alerts"`
}

// ExecutiveKPIs computes channel revenue, its week-over-week change, service
// levels, chase potential and open alert counts
func ExecutiveKPIs(actuals []entities.DemandActual, orders []entities.Order, alerts []entities.Alert) ChannelKPIs {
	kpis := ChannelKPIs{TotalRevenue: decimal.Zero, ChaseOpportunity: decimal.Zero}

	lastWeek := latestDate(actuals)
	prevWeek := lastWeek.AddDate(0, 0, -7)
	revLast, revPrev := decimal.Zero, decimal.Zero

	var inStock, shipped, ordered float64
	var inStockRows int
	for _, a := range actuals {
		kpis.TotalRevenue = kpis.TotalRevenue.Add(a.Revenue)
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
		shipped += float64(a.UnitsShipped)
		ordered += float64(a.UnitsOrdered)
	}

	if revPrev.IsPositive() {
		delta := revLast.Sub(revPrev).Div(revPrev).InexactFloat64() * 100
		kpis.RevenueDelta = dataset.Round(delta, 1)
	}
	kpis.InStockRate = dataset.Round(ratio(inStock, float64(inStockRows))*100, 1)
	kpis.FulfilmentRate = dataset.Round(ratio(shipped, ordered)*100, 1)

	for _, o := range orders {
		if o.ChaseOpportunity {
			kpis.ChaseOpportunity = kpis.ChaseOpportunity.Add(o.ChaseRevenuePotential)
		}
	}

	alertKPIs := AlertKPIs(alerts)
	kpis.ActiveAlerts = alertKPIs.TotalOpen
	kpis.CriticalAlerts = alertKPIs.Critical
	return kpis
}

// AlertDashboard counts open alerts by severity
type AlertDashboard struct {
	TotalOpen     int             `json:"total_open"`
	Critical      int             `json:"critical"`
	Warning       int             `json:"warning"`
	Info          int             `json:"info"`
	RevenueAtRisk decimal.Decimal `json:"revenue_at_risk"`
}

// AlertKPIs counts open alerts per severity and sums their revenue impact
func AlertKPIs(alerts []entities.Alert) AlertDashboard {
	dash := AlertDashboard{RevenueAtRisk: decimal.Zero}
	for _, a := range alerts {
		if a.Status != entities.AlertOpen {
			continue
		}
		dash.TotalOpen++
		dash.RevenueAtRisk = dash.RevenueAtRisk.Add(a.RevenueImpact)
		switch a.Severity {
		case entities.SeverityCritical:
			dash.Critical++
		case entities.SeverityWarning:
			dash.Warning++
		case entities.SeverityInfo:
			dash.Info++
		}
	}
	return dash
}

// PriorityAlerts returns open alerts, most severe first and then by revenue
// impact. topN <= 0 returns all of them.
func PriorityAlerts(alerts []entities.Alert, topN int) []entities.Alert {
	var open []entities.Alert
	for _, a := range alerts {
		if a.Status == entities.AlertOpen {
			open = append(open, a)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		if ri, rj := open[i].Severity.Rank(), open[j].Severity.Rank(); ri != rj {
			return ri < rj
		}
		return open[i].RevenueImpact.GreaterThan(open[j].RevenueImpact)
	})
	if topN > 0 && len(open) > topN {
		open = open[:topN]
	}
	return open
}
