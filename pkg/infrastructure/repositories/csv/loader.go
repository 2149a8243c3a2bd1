package csv

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/demandplan/pkg/domain/dataset"
	"github.com/vsinha/demandplan/pkg/domain/entities"
)

// Loader reads persisted generation output back from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadDataset loads every table of a run from an output directory
func (l *Loader) LoadDataset(dir string) (*dataset.Dataset, error) {
	path := func(name, group string) string {
		return filepath.Join(dir, group, name+".csv")
	}

	ds := &dataset.Dataset{}
	var err error

	if ds.Products, err = l.LoadProducts(path(dataset.TableProducts, dataset.GroupRaw)); err != nil {
		return nil, err
	}
	if ds.Partners, err = l.LoadPartners(path(dataset.TablePartners, dataset.GroupRaw)); err != nil {
		return nil, err
	}
	if ds.Actuals, err = l.LoadActuals(path(dataset.TableDemandActuals, dataset.GroupRaw)); err != nil {
		return nil, err
	}
	if ds.Forecasts, err = l.LoadForecasts(path(dataset.TableForecasts, dataset.GroupRaw)); err != nil {
		return nil, err
	}
	if ds.Orders, err = l.LoadOrderBook(path(dataset.TableOrderBook, dataset.GroupRaw)); err != nil {
		return nil, err
	}
	if ds.NPI, err = l.LoadNPITracker(path(dataset.TableNPITracker, dataset.GroupRaw)); err != nil {
		return nil, err
	}
	if ds.Alerts, err = l.LoadAlerts(path(dataset.TableAlerts, dataset.GroupRaw)); err != nil {
		return nil, err
	}
	if ds.DemandFeatures, err = l.LoadDemandFeatures(path(dataset.TableDemandFeatures, dataset.GroupProcessed)); err != nil {
		return nil, err
	}
	if ds.ForecastResults, err = l.loadForecastTable(path(dataset.TableForecastResults, dataset.GroupProcessed), "forecast results"); err != nil {
		return nil, err
	}
	if ds.AlertSummary, err = l.LoadAlertSummary(path(dataset.TableAlertSummary, dataset.GroupProcessed)); err != nil {
		return nil, err
	}

	return ds, nil
}

// LoadProducts loads the product catalog from a CSV file
func (l *Loader) LoadProducts(filename string) ([]*entities.Product, error) {
	records, err := readTable(filename, "products", dataset.TableProducts)
	if err != nil {
		return nil, err
	}

	products := make([]*entities.Product, 0, len(records))
	for i, record := range records {
		product, err := parseProduct(record)
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: %w", i+2, err)
		}
		products = append(products, product)
	}
	return products, nil
}

// LoadPartners loads reseller partners from a CSV file
func (l *Loader) LoadPartners(filename string) ([]*entities.Partner, error) {
	records, err := readTable(filename, "partners", dataset.TablePartners)
	if err != nil {
		return nil, err
	}

	partners := make([]*entities.Partner, 0, len(records))
	for i, record := range records {
		partner, err := parsePartner(record)
		if err != nil {
			return nil, fmt.Errorf("partners CSV row %d: %w", i+2, err)
		}
		partners = append(partners, partner)
	}
	return partners, nil
}

// LoadActuals loads weekly demand actuals from a CSV file
func (l *Loader) LoadActuals(filename string) ([]entities.DemandActual, error) {
	records, err := readTable(filename, "demand actuals", dataset.TableDemandActuals)
	if err != nil {
		return nil, err
	}

	actuals := make([]entities.DemandActual, 0, len(records))
	for i, record := range records {
		actual, err := parseActual(record)
		if err != nil {
			return nil, fmt.Errorf("demand actuals CSV row %d: %w", i+2, err)
		}
		actuals = append(actuals, actual)
	}
	return actuals, nil
}

// LoadDemandFeatures loads the enriched demand table from a CSV file
func (l *Loader) LoadDemandFeatures(filename string) ([]entities.DemandFeature, error) {
	records, err := readTable(filename, "demand features", dataset.TableDemandFeatures)
	if err != nil {
		return nil, err
	}

	features := make([]entities.DemandFeature, 0, len(records))
	for i, record := range records {
		actual, err := parseActual(record[:10])
		if err != nil {
			return nil, fmt.Errorf("demand features CSV row %d: %w", i+2, err)
		}
		priority, err := entities.ParsePriorityTier(record[12])
		if err != nil {
			return nil, fmt.Errorf("demand features CSV row %d: %w", i+2, err)
		}
		asp, err := parseMoney("asp", record[13])
		if err != nil {
			return nil, fmt.Errorf("demand features CSV row %d: %w", i+2, err)
		}
		features = append(features, entities.DemandFeature{
			DemandActual:   actual,
			ProductFamily:  entities.Family(record[10]),
			LifecycleStage: entities.LifecycleStage(record[11]),
			PriorityTier:   priority,
			ASP:            asp,
			PartnerName:    record[14],
			PartnerTier:    entities.PartnerTier(record[15]),
			Country:        record[16],
		})
	}
	return features, nil
}

// LoadForecasts loads the forecast table from a CSV file
func (l *Loader) LoadForecasts(filename string) ([]entities.Forecast, error) {
	return l.loadForecastTable(filename, "forecasts")
}

func (l *Loader) loadForecastTable(filename, label string) ([]entities.Forecast, error) {
	records, err := readTable(filename, label, dataset.TableForecasts)
	if err != nil {
		return nil, err
	}

	forecasts := make([]entities.Forecast, 0, len(records))
	for i, record := range records {
		forecast, err := parseForecast(record)
		if err != nil {
			return nil, fmt.Errorf("%s CSV row %d: %w", label, i+2, err)
		}
		forecasts = append(forecasts, forecast)
	}
	return forecasts, nil
}

// LoadOrderBook loads the open order book from a CSV file
func (l *Loader) LoadOrderBook(filename string) ([]entities.Order, error) {
	records, err := readTable(filename, "order book", dataset.TableOrderBook)
	if err != nil {
		return nil, err
	}

	orders := make([]entities.Order, 0, len(records))
	for i, record := range records {
		order, err := parseOrder(record)
		if err != nil {
			return nil, fmt.Errorf("order book CSV row %d: %w", i+2, err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// LoadNPITracker loads weekly launch tracking rows from a CSV file
func (l *Loader) LoadNPITracker(filename string) ([]entities.NPITrackerRow, error) {
	records, err := readTable(filename, "NPI tracker", dataset.TableNPITracker)
	if err != nil {
		return nil, err
	}

	rows := make([]entities.NPITrackerRow, 0, len(records))
	for i, record := range records {
		row, err := parseNPIRow(record)
		if err != nil {
			return nil, fmt.Errorf("NPI tracker CSV row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadAlerts loads the alert feed from a CSV file
func (l *Loader) LoadAlerts(filename string) ([]entities.Alert, error) {
	records, err := readTable(filename, "alerts", dataset.TableAlerts)
	if err != nil {
		return nil, err
	}

	alerts := make([]entities.Alert, 0, len(records))
	for i, record := range records {
		alert, err := parseAlert(record)
		if err != nil {
			return nil, fmt.Errorf("alerts CSV row %d: %w", i+2, err)
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

// LoadAlertSummary loads the alert rollup from a CSV file
func (l *Loader) LoadAlertSummary(filename string) ([]entities.AlertRollup, error) {
	records, err := readTable(filename, "alert summary", dataset.TableAlertSummary)
	if err != nil {
		return nil, err
	}

	rollups := make([]entities.AlertRollup, 0, len(records))
	for i, record := range records {
		count, err := parseInt("count", record[2])
		if err != nil {
			return nil, fmt.Errorf("alert summary CSV row %d: %w", i+2, err)
		}
		total, err := parseMoney("total_revenue_impact", record[3])
		if err != nil {
			return nil, fmt.Errorf("alert summary CSV row %d: %w", i+2, err)
		}
		open, err := parseInt("open_count", record[4])
		if err != nil {
			return nil, fmt.Errorf("alert summary CSV row %d: %w", i+2, err)
		}
		rollups = append(rollups, entities.AlertRollup{
			Severity:           entities.Severity(record[0]),
			AlertType:          entities.AlertType(record[1]),
			Count:              int(count),
			TotalRevenueImpact: total,
			OpenCount:          int(open),
		})
	}
	return rollups, nil
}

// readTable opens a CSV file, checks its header against the table schema
// and returns the data rows. A header-only file is a valid empty table.
func readTable(filename, label, table string) ([][]string, error) {
	columns, ok := dataset.Schema(table)
	if !ok {
		return nil, fmt.Errorf("unknown table %s", table)
	}
	expectedHeader := make([]string, len(columns))
	for i, c := range columns {
		expectedHeader[i] = c.Name
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", label, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", label, err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("%s CSV must have a header row", label)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", label, expectedHeader, header)
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", label, i+2, len(expectedHeader), len(record))
		}
	}

	return records[1:], nil
}

// Helper functions for parsing CSV records

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseProduct(record []string) (*entities.Product, error) {
	family := entities.Family(record[2])
	if !family.Valid() {
		return nil, fmt.Errorf("invalid product_family: %s", record[2])
	}

	launchDate, err := parseDate("launch_date", record[4])
	if err != nil {
		return nil, err
	}

	isNPI, err := parseBool("is_npi", record[5])
	if err != nil {
		return nil, err
	}

	asp, err := parseMoney("asp", record[6])
	if err != nil {
		return nil, err
	}

	priority, err := entities.ParsePriorityTier(record[8])
	if err != nil {
		return nil, err
	}

	return &entities.Product{
		ID:         entities.ProductID(record[0]),
		Name:       record[1],
		Family:     family,
		Category:   record[3],
		LaunchDate: launchDate,
		IsNPI:      isNPI,
		ASP:        asp,
		Lifecycle:  entities.LifecycleStage(record[7]),
		Priority:   priority,
	}, nil
}

func parsePartner(record []string) (*entities.Partner, error) {
	revenue, err := parseMoney("avg_monthly_revenue", record[5])
	if err != nil {
		return nil, err
	}

	stores, err := strconv.Atoi(record[6])
	if err != nil {
		return nil, fmt.Errorf("invalid store_count: %s", record[6])
	}

	maturity, err := strconv.Atoi(record[7])
	if err != nil {
		return nil, fmt.Errorf("invalid digital_maturity_score: %s", record[7])
	}

	return entities.NewPartner(
		entities.PartnerID(record[0]),
		record[1], record[2], record[3],
		entities.PartnerTier(record[4]),
		revenue, stores, maturity,
	)
}

func parseActual(record []string) (entities.DemandActual, error) {
	date, err := parseDate("date", record[0])
	if err != nil {
		return entities.DemandActual{}, err
	}

	quantities, err := parseQuantities(record[3:6], "units_ordered", "units_shipped", "units_sold")
	if err != nil {
		return entities.DemandActual{}, err
	}

	revenue, err := parseMoney("revenue", record[6])
	if err != nil {
		return entities.DemandActual{}, err
	}

	asp, err := parseMoney("asp_actual", record[7])
	if err != nil {
		return entities.DemandActual{}, err
	}

	inStock, err := parseNullFloat("in_stock_rate", record[8])
	if err != nil {
		return entities.DemandActual{}, err
	}

	wos, err := parseFloat("weeks_of_supply", record[9])
	if err != nil {
		return entities.DemandActual{}, err
	}

	return entities.DemandActual{
		Date:          date,
		ProductID:     entities.ProductID(record[1]),
		PartnerID:     entities.PartnerID(record[2]),
		UnitsOrdered:  quantities[0],
		UnitsShipped:  quantities[1],
		UnitsSold:     quantities[2],
		Revenue:       revenue,
		ASPActual:     asp,
		InStockRate:   inStock,
		WeeksOfSupply: wos,
	}, nil
}

func parseForecast(record []string) (entities.Forecast, error) {
	date, err := parseDate("date", record[0])
	if err != nil {
		return entities.Forecast{}, err
	}

	quantities, err := parseQuantities(record[4:7], "forecast_units", "forecast_lower", "forecast_upper")
	if err != nil {
		return entities.Forecast{}, err
	}

	mape, err := parseFloat("forecast_accuracy_mape", record[7])
	if err != nil {
		return entities.Forecast{}, err
	}

	return entities.Forecast{
		Date:         date,
		ProductID:    entities.ProductID(record[1]),
		PartnerID:    entities.PartnerID(record[2]),
		Model:        entities.ForecastModel(record[3]),
		Units:        quantities[0],
		Lower:        quantities[1],
		Upper:        quantities[2],
		MAPETrailing: mape,
	}, nil
}

func parseOrder(record []string) (entities.Order, error) {
	placed, err := parseDate("date_placed", record[1])
	if err != nil {
		return entities.Order{}, err
	}

	requested, err := parseDate("date_requested", record[2])
	if err != nil {
		return entities.Order{}, err
	}

	quantities, err := parseQuantities(record[5:8], "units_ordered", "units_confirmed", "units_shipped")
	if err != nil {
		return entities.Order{}, err
	}

	chase, err := parseBool("chase_opportunity", record[9])
	if err != nil {
		return entities.Order{}, err
	}

	chaseUnits, err := parseInt("chase_units_recommended", record[10])
	if err != nil {
		return entities.Order{}, err
	}

	chaseRevenue, err := parseMoney("chase_revenue_potential", record[11])
	if err != nil {
		return entities.Order{}, err
	}

	return entities.Order{
		OrderID:               record[0],
		OrderDate:             placed,
		RequestedDate:         requested,
		ProductID:             entities.ProductID(record[3]),
		PartnerID:             entities.PartnerID(record[4]),
		UnitsOrdered:          quantities[0],
		UnitsConfirmed:        quantities[1],
		UnitsShipped:          quantities[2],
		Status:                entities.OrderStatus(record[8]),
		ChaseOpportunity:      chase,
		ChaseUnitsRecommended: entities.Quantity(chaseUnits),
		ChaseRevenuePotential: chaseRevenue,
	}, nil
}

func parseNPIRow(record []string) (entities.NPITrackerRow, error) {
	week, err := strconv.Atoi(record[0])
	if err != nil {
		return entities.NPITrackerRow{}, fmt.Errorf("invalid week_number: %s", record[0])
	}

	quantities, err := parseQuantities(record[3:5], "units_planned", "units_actual")
	if err != nil {
		return entities.NPITrackerRow{}, err
	}

	velocity, err := parseFloat("velocity_vs_plan", record[5])
	if err != nil {
		return entities.NPITrackerRow{}, err
	}

	sellThrough, err := parseFloat("sell_through_rate", record[6])
	if err != nil {
		return entities.NPITrackerRow{}, err
	}

	return entities.NPITrackerRow{
		WeekNumber:      week,
		ProductID:       entities.ProductID(record[1]),
		PartnerID:       entities.PartnerID(record[2]),
		PlannedUnits:    quantities[0],
		ActualUnits:     quantities[1],
		VelocityVsPlan:  velocity,
		SellThroughRate: sellThrough,
		RiskFlag:        entities.RiskFlag(record[7]),
		RiskReason:      entities.NullText(record[8]),
	}, nil
}

func parseAlert(record []string) (entities.Alert, error) {
	generated, err := time.Parse(dataset.TimestampLayout, record[1])
	if err != nil {
		return entities.Alert{}, fmt.Errorf("invalid date_generated format: %s (expected YYYY-MM-DD HH:MM:SS)", record[1])
	}

	value, err := parseFloat("metric_value", record[7])
	if err != nil {
		return entities.Alert{}, err
	}

	threshold, err := parseFloat("threshold", record[8])
	if err != nil {
		return entities.Alert{}, err
	}

	impact, err := parseMoney("revenue_impact", record[10])
	if err != nil {
		return entities.Alert{}, err
	}

	return entities.Alert{
		AlertID:           record[0],
		Timestamp:         generated,
		AlertType:         entities.AlertType(record[2]),
		Severity:          entities.Severity(record[3]),
		ProductID:         entities.ProductID(record[4]),
		PartnerID:         entities.PartnerID(record[5]),
		MetricName:        record[6],
		MetricValue:       value,
		Threshold:         threshold,
		RecommendedAction: record[9],
		RevenueImpact:     impact,
		Status:            entities.AlertStatus(record[11]),
	}, nil
}

func parseQuantities(values []string, names ...string) ([]entities.Quantity, error) {
	quantities := make([]entities.Quantity, len(values))
	for i, v := range values {
		q, err := parseInt(names[i], v)
		if err != nil {
			return nil, err
		}
		quantities[i] = entities.Quantity(q)
	}
	return quantities, nil
}

func parseDate(column, s string) (time.Time, error) {
	t, err := time.Parse(dataset.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s format: %s (expected YYYY-MM-DD)", column, s)
	}
	return t, nil
}

func parseInt(column, s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", column, s)
	}
	return v, nil
}

func parseFloat(column, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", column, s)
	}
	return v, nil
}

func parseNullFloat(column, s string) (sql.NullFloat64, error) {
	if s == "" {
		return sql.NullFloat64{}, nil
	}
	v, err := parseFloat(column, s)
	if err != nil {
		return sql.NullFloat64{}, err
	}
	return sql.NullFloat64{Float64: v, Valid: true}, nil
}

func parseBool(column, s string) (bool, error) {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %s (expected true or false)", column, s)
	}
	return v, nil
}

func parseMoney(column, s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %s", column, s)
	}
	return v, nil
}
