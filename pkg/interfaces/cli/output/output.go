// Package output renders run and KPI summaries for the command line.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/demandplan/pkg/application/services/analytics"
	"github.com/vsinha/demandplan/pkg/domain/entities"
)

// Supported output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// TableCount is the row count of one generated table
type TableCount struct {
	Table string `json:"table"`
	Rows  int    `json:"rows"`
}

// SinkResult records where a run was persisted
type SinkResult struct {
	Sink   string `json:"sink"`
	Target string `json:"target"`
}

// RunSummary describes a finished generate run
type RunSummary struct {
	RunID          string          `json:"run_id"`
	Seed           int64           `json:"seed"`
	Parallel       bool            `json:"parallel"`
	Duration       time.Duration   `json:"duration"`
	Tables         []TableCount    `json:"tables"`
	Sinks          []SinkResult    `json:"sinks"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	NPIProducts    int             `json:"npi_products"`
	ChaseRevenue   decimal.Decimal `json:"chase_revenue"`
	OpenAlerts     int             `json:"open_alerts"`
	CriticalAlerts int             `json:"critical_alerts"`
}

// Report is the KPI view of a persisted run
type Report struct {
	Dir         string                       `json:"dir"`
	Executive   analytics.ChannelKPIs        `json:"executive"`
	OrderBook   analytics.OrderBookKPIs      `json:"order_book"`
	Launch      analytics.LaunchKPIs         `json:"launch"`
	Alerts      analytics.AlertDashboard     `json:"alerts"`
	Accuracy    analytics.AccuracyReport     `json:"forecast_accuracy"`
	Leaderboard []analytics.ModelScore       `json:"model_leaderboard"`
	Chase       []analytics.ChaseOpportunity `json:"chase_opportunities"`
	NPIProduct  entities.ProductID           `json:"npi_product,omitempty"`
	Scorecard   []analytics.ScorecardRow     `json:"npi_scorecard,omitempty"`
	Waterfall   []analytics.WaterfallStep    `json:"npi_waterfall,omitempty"`
	Risk        []analytics.RiskCell         `json:"risk_matrix"`
	Priority    []entities.Alert             `json:"priority_alerts"`
	Anomalies   []analytics.DemandAnomaly    `json:"demand_anomalies"`
	ShipPlan    []analytics.FamilyPlanGap    `json:"shipment_plan"`
	Ranging     []analytics.RangingCell      `json:"instock_ranging"`
	Partner     *analytics.PartnerKPIs       `json:"partner,omitempty"`
	PartnerMix  []analytics.FamilyRevenue    `json:"partner_mix,omitempty"`
	Trend       []analytics.WeeklyRevenue    `json:"partner_trend,omitempty"`
}

// RenderRun writes a run summary in the requested format
func RenderRun(w io.Writer, format string, s RunSummary) error {
	switch format {
	case FormatText:
		return renderRunText(w, s)
	case FormatJSON:
		return renderJSON(w, s)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// RenderReport writes a KPI report in the requested format
func RenderReport(w io.Writer, format string, r Report) error {
	switch format {
	case FormatText:
		return renderReportText(w, r)
	case FormatJSON:
		return renderJSON(w, r)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func renderJSON(w io.Writer, v interface{}) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

func renderRunText(w io.Writer, s RunSummary) error {
	fmt.Fprintf(w, "📊 Demand Planning Data Generated\n")
	fmt.Fprintf(w, "=================================\n\n")
	fmt.Fprintf(w, "Run: %s\n", s.RunID)
	fmt.Fprintf(w, "Seed: %d\n", s.Seed)
	fmt.Fprintf(w, "Parallel: %t\n", s.Parallel)
	fmt.Fprintf(w, "Generation Time: %v\n\n", s.Duration.Round(time.Millisecond))

	fmt.Fprintf(w, "📋 Tables:\n")
	fmt.Fprintf(w, "%-20s %10s\n", "Table", "Rows")
	fmt.Fprintf(w, "%-20s %10s\n", "--------------------", "----------")
	for _, t := range s.Tables {
		fmt.Fprintf(w, "%-20s %10d\n", t.Table, t.Rows)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "💶 Headlines:\n")
	fmt.Fprintf(w, "  Total revenue: %s\n", FormatEUR(s.TotalRevenue.InexactFloat64()))
	fmt.Fprintf(w, "  NPI products: %d\n", s.NPIProducts)
	fmt.Fprintf(w, "  Chase potential: %s\n", FormatEUR(s.ChaseRevenue.InexactFloat64()))
	fmt.Fprintf(w, "  Open alerts: %d (%d critical)\n\n", s.OpenAlerts, s.CriticalAlerts)

	if len(s.Sinks) > 0 {
		fmt.Fprintf(w, "💾 Saved to:\n")
		for _, sink := range s.Sinks {
			fmt.Fprintf(w, "  %-10s %s\n", sink.Sink, sink.Target)
		}
	}
	return nil
}

func renderReportText(w io.Writer, r Report) error {
	e := r.Executive
	fmt.Fprintf(w, "📊 Channel Overview (%s)\n", r.Dir)
	fmt.Fprintf(w, "======================\n\n")
	fmt.Fprintf(w, "Total Revenue: %s (%s WoW)\n", FormatEUR(e.TotalRevenue.InexactFloat64()), FormatDelta(e.RevenueDelta))
	fmt.Fprintf(w, "In-Stock Rate: %.1f%%\n", e.InStockRate)
	fmt.Fprintf(w, "Fulfilment Rate: %.1f%%\n", e.FulfilmentRate)
	fmt.Fprintf(w, "Chase Opportunity: %s\n", FormatEUR(e.ChaseOpportunity.InexactFloat64()))
	fmt.Fprintf(w, "Active Alerts: %d (%d critical)\n\n", e.ActiveAlerts, e.CriticalAlerts)

	fmt.Fprintf(w, "📈 Forecast Models:\n")
	fmt.Fprintf(w, "%-10s %12s %8s\n", "Model", "Mean MAPE", "Rows")
	fmt.Fprintf(w, "%-10s %12s %8s\n", "----------", "------------", "--------")
	for _, s := range r.Leaderboard {
		fmt.Fprintf(w, "%-10s %11.2f%% %8d\n", s.Model, s.MeanMAPE*100, s.Rows)
	}
	if r.Accuracy.Matched > 0 {
		fmt.Fprintf(w, "%s vs actuals: MAPE %.2f%%, WMAPE %.2f%%, bias %.2f%%\n",
			r.Accuracy.Model, r.Accuracy.MAPE, r.Accuracy.WMAPE, r.Accuracy.Bias)
	}
	fmt.Fprintln(w)

	ob := r.OrderBook
	fmt.Fprintf(w, "📦 Order Book: %d orders, %.1f%% at risk, %.1f%% fulfilled, %d confirmed units open\n",
		ob.TotalOrders, ob.AtRiskPct, ob.FulfilmentRate, ob.OpenConfirmedUnits)
	if len(r.Chase) > 0 {
		fmt.Fprintf(w, "%-16s %-28s %8s %10s %-8s\n", "Partner", "Product", "Units", "Revenue", "Priority")
		fmt.Fprintf(w, "%-16s %-28s %8s %10s %-8s\n", "----------------", "----------------------------", "--------", "----------", "--------")
		for _, c := range r.Chase {
			fmt.Fprintf(w, "%-16s %-28s %8d %10s %-8s\n",
				c.PartnerName, c.ProductName, c.ChaseUnits, FormatEUR(c.ChaseRevenue.InexactFloat64()), c.Priority)
		}
	}
	if len(r.ShipPlan) > 0 {
		fmt.Fprintf(w, "%-12s %10s %10s %8s %-6s\n", "Family", "Planned", "Forecast", "Gap", "RAG")
		fmt.Fprintf(w, "%-12s %10s %10s %8s %-6s\n", "------------", "----------", "----------", "--------", "------")
		for _, g := range r.ShipPlan {
			fmt.Fprintf(w, "%-12s %10d %10d %7.1f%% %-6s\n", g.Family, g.PlannedUnits, g.ForecastUnits, g.GapPct, g.RAG)
		}
	}
	fmt.Fprintln(w)

	l := r.Launch
	fmt.Fprintf(w, "🚀 NPI Launches: velocity %.1f%% of plan, %d green / %d amber / %d red\n",
		l.OverallVelocity, l.GreenFlags, l.AmberFlags, l.RedFlags)
	if len(r.Scorecard) > 0 {
		fmt.Fprintf(w, "%s by partner:\n", r.NPIProduct)
		for _, s := range r.Scorecard {
			fmt.Fprintf(w, "  %-16s wk %-2d %6.1f%% %-6s %s\n", s.PartnerName, s.WeekNumber, s.VelocityPct, s.RiskFlag, s.RiskReason)
		}
	}
	if len(r.Waterfall) > 0 {
		fmt.Fprintf(w, "Plan vs actual:\n")
		for _, s := range r.Waterfall {
			fmt.Fprintf(w, "  %-16s %8d %8d %+8d\n", s.PartnerName, s.Plan, s.Actual, s.Variance)
		}
	}
	fmt.Fprintln(w)

	a := r.Alerts
	fmt.Fprintf(w, "⚠️  Open Alerts: %d (%d critical, %d warning, %d info), %s at risk\n",
		a.TotalOpen, a.Critical, a.Warning, a.Info, FormatEUR(a.RevenueAtRisk.InexactFloat64()))
	if len(r.Risk) > 0 {
		fmt.Fprintf(w, "%-45s %10s %12s\n", "SKU / Partner", "Likelihood", "Impact")
		fmt.Fprintf(w, "%-45s %10s %12s\n", "---------------------------------------------", "----------", "------------")
		for _, c := range r.Risk {
			fmt.Fprintf(w, "%-45s %10.4f %12s\n", c.Label, c.Likelihood, FormatEUR(c.RevenueImpact))
		}
	}
	if len(r.Priority) > 0 {
		fmt.Fprintf(w, "Top open alerts:\n")
	}
	for _, a := range r.Priority {
		fmt.Fprintf(w, "  [%-8s] %-22s %s/%s %s\n", a.Severity, a.AlertType, a.ProductID, a.PartnerID, FormatEUR(a.RevenueImpact.InexactFloat64()))
	}

	if len(r.Anomalies) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "🔍 Demand Anomalies: %d\n", len(r.Anomalies))
		for _, a := range r.Anomalies {
			fmt.Fprintf(w, "  %s %s\n", a.Date.Format("2006-01-02"), a.Narrative)
		}
	}

	if len(r.Ranging) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "🏬 In-Stock Ranging (lowest first):\n")
		for _, c := range lowestRanging(r.Ranging, rangingRows) {
			fmt.Fprintf(w, "  %-16s %-12s %5.1f%%\n", c.PartnerName, c.Family, c.InStockRate*100)
		}
	}

	if p := r.Partner; p != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "🤝 Partner %s: %s revenue (%s WoW), in-stock %.1f%%, %.1f weeks of supply, fulfilment %.1f%%, %d open alerts (%d critical)\n",
			p.PartnerID, FormatEUR(p.Revenue.InexactFloat64()), FormatDelta(p.RevenueDelta),
			p.InStockRate, p.AvgWOS, p.FulfilmentRate, p.OpenAlerts, p.CriticalAlerts)
		for _, f := range r.PartnerMix {
			fmt.Fprintf(w, "  %-15s %s\n", f.Family, FormatEUR(f.Revenue.InexactFloat64()))
		}
		if n := len(r.Trend); n > 0 {
			first, last := r.Trend[0], r.Trend[n-1]
			fmt.Fprintf(w, "  %d-week trend: %s (%s) to %s (%s)\n", n,
				FormatEUR(first.Revenue.InexactFloat64()), first.Date.Format("2006-01-02"),
				FormatEUR(last.Revenue.InexactFloat64()), last.Date.Format("2006-01-02"))
		}
	}
	return nil
}

// rangingRows caps the in-stock listing in text output
const rangingRows = 10

func lowestRanging(cells []analytics.RangingCell, n int) []analytics.RangingCell {
	sorted := make([]analytics.RangingCell, len(cells))
	copy(sorted, cells)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].InStockRate < sorted[j].InStockRate
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
