package dataset

import "github.com/vsinha/demandplan/pkg/domain/entities"

var (
	productColumns = []Column{
		{Name: "product_id"},
		{Name: "product_name"},
		{Name: "product_family"},
		{Name: "product_category"},
		{Name: "launch_date", Kind: KindDate},
		{Name: "is_npi", Kind: KindBool},
		{Name: "asp", Kind: KindMoney},
		{Name: "lifecycle_stage"},
		{Name: "priority_tier"},
	}

	partnerColumns = []Column{
		{Name: "partner_id"},
		{Name: "partner_name"},
		{Name: "country"},
		{Name: "region"},
		{Name: "partner_tier"},
		{Name: "avg_monthly_revenue", Kind: KindMoney},
		{Name: "store_count", Kind: KindInt},
		{Name: "digital_maturity_score", Kind: KindInt},
	}

	actualColumns = []Column{
		{Name: "date", Kind: KindDate},
		{Name: "product_id"},
		{Name: "partner_id"},
		{Name: "units_ordered", Kind: KindInt},
		{Name: "units_shipped", Kind: KindInt},
		{Name: "units_sold", Kind: KindInt},
		{Name: "revenue", Kind: KindMoney},
		{Name: "asp_actual", Kind: KindMoney},
		{Name: "in_stock_rate", Kind: KindFloat, Precision: 4, Nullable: true},
		{Name: "weeks_of_supply", Kind: KindFloat, Precision: 2},
	}

	featureColumns = append(append([]Column{}, actualColumns...),
		Column{Name: "product_family"},
		Column{Name: "lifecycle_stage"},
		Column{Name: "priority_tier"},
		Column{Name: "asp", Kind: KindMoney},
		Column{Name: "partner_name"},
		Column{Name: "partner_tier"},
		Column{Name: "country"},
	)

	forecastColumns = []Column{
		{Name: "date", Kind: KindDate},
		{Name: "product_id"},
		{Name: "partner_id"},
		{Name: "forecast_model"},
		{Name: "forecast_units", Kind: KindInt},
		{Name: "forecast_lower", Kind: KindInt},
		{Name: "forecast_upper", Kind: KindInt},
		{Name: "forecast_accuracy_mape", Kind: KindFloat, Precision: 4},
	}

	orderColumns = []Column{
		{Name: "order_id"},
		{Name: "date_placed", Kind: KindDate},
		{Name: "date_requested", Kind: KindDate},
		{Name: "product_id"},
		{Name: "partner_id"},
		{Name: "units_ordered", Kind: KindInt},
		{Name: "units_confirmed", Kind: KindInt},
		{Name: "units_shipped", Kind: KindInt},
		{Name: "status"},
		{Name: "chase_opportunity", Kind: KindBool},
		{Name: "chase_units_recommended", Kind: KindInt},
		{Name: "chase_revenue_potential", Kind: KindMoney},
	}

	npiColumns = []Column{
		{Name: "week_number", Kind: KindInt},
		{Name: "product_id"},
		{Name: "partner_id"},
		{Name: "units_planned", Kind: KindInt},
		{Name: "units_actual", Kind: KindInt},
		{Name: "velocity_vs_plan", Kind: KindFloat, Precision: 4},
		{Name: "sell_through_rate", Kind: KindFloat, Precision: 4},
		{Name: "risk_flag"},
		{Name: "risk_reason", Nullable: true},
	}

	alertColumns = []Column{
		{Name: "alert_id"},
		{Name: "date_generated", Kind: KindTimestamp},
		{Name: "alert_type"},
		{Name: "severity"},
		{Name: "product_id"},
		{Name: "partner_id"},
		{Name: "metric_name"},
		{Name: "metric_value", Kind: KindFloat, Precision: 2},
		{Name: "threshold", Kind: KindFloat, Precision: 2},
		{Name: "recommended_action"},
		{Name: "revenue_impact", Kind: KindMoney},
		{Name: "status"},
	}

	alertSummaryColumns = []Column{
		{Name: "severity"},
		{Name: "alert_type"},
		{Name: "count", Kind: KindInt},
		{Name: "total_revenue_impact", Kind: KindMoney},
		{Name: "open_count", Kind: KindInt},
	}
)

// Schema returns the columns of a table by name
func Schema(name string) ([]Column, bool) {
	switch name {
	case TableProducts:
		return productColumns, true
	case TablePartners:
		return partnerColumns, true
	case TableDemandActuals:
		return actualColumns, true
	case TableForecasts, TableForecastResults:
		return forecastColumns, true
	case TableOrderBook:
		return orderColumns, true
	case TableNPITracker:
		return npiColumns, true
	case TableAlerts:
		return alertColumns, true
	case TableDemandFeatures:
		return featureColumns, true
	case TableAlertSummary:
		return alertSummaryColumns, true
	}
	return nil, false
}

// Tables returns all ten tables in persistence order
func (ds *Dataset) Tables() []Table {
	return []Table{
		{Name: TableProducts, Group: GroupRaw, Columns: productColumns, Rows: productRows(ds.Products)},
		{Name: TablePartners, Group: GroupRaw, Columns: partnerColumns, Rows: partnerRows(ds.Partners)},
		{Name: TableDemandActuals, Group: GroupRaw, Columns: actualColumns, Rows: actualRows(ds.Actuals)},
		{Name: TableForecasts, Group: GroupRaw, Columns: forecastColumns, Rows: forecastRows(ds.Forecasts)},
		{Name: TableOrderBook, Group: GroupRaw, Columns: orderColumns, Rows: orderRows(ds.Orders)},
		{Name: TableNPITracker, Group: GroupRaw, Columns: npiColumns, Rows: npiRows(ds.NPI)},
		{Name: TableAlerts, Group: GroupRaw, Columns: alertColumns, Rows: alertRows(ds.Alerts)},
		{Name: TableDemandFeatures, Group: GroupProcessed, Columns: featureColumns, Rows: featureRows(ds.DemandFeatures)},
		{Name: TableForecastResults, Group: GroupProcessed, Columns: forecastColumns, Rows: forecastRows(ds.ForecastResults)},
		{Name: TableAlertSummary, Group: GroupProcessed, Columns: alertSummaryColumns, Rows: alertSummaryRows(ds.AlertSummary)},
	}
}

func productRows(products []*entities.Product) [][]any {
	rows := make([][]any, 0, len(products))
	for _, p := range products {
		rows = append(rows, []any{
			string(p.ID), p.Name, string(p.Family), p.Category, p.LaunchDate,
			p.IsNPI, p.ASP, string(p.Lifecycle), p.Priority.String(),
		})
	}
	return rows
}

func partnerRows(partners []*entities.Partner) [][]any {
	rows := make([][]any, 0, len(partners))
	for _, p := range partners {
		rows = append(rows, []any{
			string(p.ID), p.Name, p.Country, p.Region, string(p.Tier),
			p.AvgMonthlyRevenue, int64(p.StoreCount), int64(p.DigitalMaturity),
		})
	}
	return rows
}

func actualCells(a entities.DemandActual) []any {
	return []any{
		a.Date, string(a.ProductID), string(a.PartnerID),
		int64(a.UnitsOrdered), int64(a.UnitsShipped), int64(a.UnitsSold),
		a.Revenue, a.ASPActual, a.InStockRate, a.WeeksOfSupply,
	}
}

func actualRows(actuals []entities.DemandActual) [][]any {
	rows := make([][]any, 0, len(actuals))
	for _, a := range actuals {
		rows = append(rows, actualCells(a))
	}
	return rows
}

func featureRows(features []entities.DemandFeature) [][]any {
	rows := make([][]any, 0, len(features))
	for _, f := range features {
		rows = append(rows, append(actualCells(f.DemandActual),
			string(f.ProductFamily), string(f.LifecycleStage), f.PriorityTier.String(), f.ASP,
			f.PartnerName, string(f.PartnerTier), f.Country,
		))
	}
	return rows
}

func forecastRows(forecasts []entities.Forecast) [][]any {
	rows := make([][]any, 0, len(forecasts))
	for _, f := range forecasts {
		rows = append(rows, []any{
			f.Date, string(f.ProductID), string(f.PartnerID), string(f.Model),
			int64(f.Units), int64(f.Lower), int64(f.Upper), f.MAPETrailing,
		})
	}
	return rows
}

func orderRows(orders []entities.Order) [][]any {
	rows := make([][]any, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []any{
			o.OrderID, o.OrderDate, o.RequestedDate, string(o.ProductID), string(o.PartnerID),
			int64(o.UnitsOrdered), int64(o.UnitsConfirmed), int64(o.UnitsShipped), string(o.Status),
			o.ChaseOpportunity, int64(o.ChaseUnitsRecommended), o.ChaseRevenuePotential,
		})
	}
	return rows
}

func npiRows(npi []entities.NPITrackerRow) [][]any {
	rows := make([][]any, 0, len(npi))
	for _, n := range npi {
		rows = append(rows, []any{
			int64(n.WeekNumber), string(n.ProductID), string(n.PartnerID),
			int64(n.PlannedUnits), int64(n.ActualUnits), n.VelocityVsPlan, n.SellThroughRate,
			string(n.RiskFlag), n.RiskReason,
		})
	}
	return rows
}

func alertRows(alerts []entities.Alert) [][]any {
	rows := make([][]any, 0, len(alerts))
	for _, a := range alerts {
		rows = append(rows, []any{
			a.AlertID, a.Timestamp, string(a.AlertType), string(a.Severity),
			string(a.ProductID), string(a.PartnerID), a.MetricName, a.MetricValue, a.Threshold,
			a.RecommendedAction, a.RevenueImpact, string(a.Status),
		})
	}
	return rows
}

func alertSummaryRows(rollups []entities.AlertRollup) [][]any {
	rows := make([][]any, 0, len(rollups))
	for _, r := range rollups {
		rows = append(rows, []any{
			string(r.Severity), string(r.AlertType), int64(r.Count), r.TotalRevenueImpact, int64(r.OpenCount),
		})
	}
	return rows
}
