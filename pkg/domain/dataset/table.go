package dataset

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Table names, also used as file stems and SQL table names
const (
	TableProducts        = "products"
	TablePartners        = "reseller_partners"
	TableDemandActuals   = "demand_actuals"
	TableForecasts       = "forecasts"
	TableOrderBook       = "order_book"
	TableNPITracker      = "npi_tracker"
	TableAlerts          = "alerts"
	TableDemandFeatures  = "demand_features"
	TableForecastResults = "forecast_results"
	TableAlertSummary    = "alert_summary"
)

// Table groups on disk
const (
	GroupRaw       = "raw"
	GroupProcessed = "processed"
)

// Layout formats for date and timestamp cells
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// Kind is the logical type of a column
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindFloat
	KindMoney
	KindDate
	KindTimestamp
	KindBool
)

// Column describes one column of a table. Precision applies to KindFloat.
type Column struct {
	Name      string
	Kind      Kind
	Precision int
	Nullable  bool
}

// Table is a sink-neutral view of one output table. Cells hold typed Go
// values: string, int64, float64, decimal.Decimal, time.Time, bool,
// sql.NullFloat64 or sql.NullString.
type Table struct {
	Name    string
	Group   string
	Columns []Column
	Rows    [][]any
}

// FileName returns the table's path relative to the output root
func (t Table) FileName() string {
	return t.Group + "/" + t.Name + ".csv"
}

// Header returns the column names in order
func (t Table) Header() []string {
	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Name
	}
	return header
}

// Record formats row i into strings
func (t Table) Record(i int) ([]string, error) {
	row := t.Rows[i]
	if len(row) != len(t.Columns) {
		return nil, fmt.Errorf("table %s row %d: expected %d cells, got %d", t.Name, i, len(t.Columns), len(row))
	}
	record := make([]string, len(row))
	for j, cell := range row {
		s, err := FormatCell(t.Columns[j], cell)
		if err != nil {
			return nil, fmt.Errorf("table %s row %d column %s: %w", t.Name, i, t.Columns[j].Name, err)
		}
		record[j] = s
	}
	return record, nil
}

// FormatCell renders a cell using the persisted formatting rules: dates as
// 2006-01-02, money with two decimals, floats rounded to the column
// precision, undefined values as an empty string.
func FormatCell(col Column, cell any) (string, error) {
	switch v := cell.(type) {
	case nil:
		if !col.Nullable {
			return "", fmt.Errorf("unexpected null")
		}
		return "", nil
	case string:
		return v, nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case int:
		return strconv.Itoa(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", fmt.Errorf("non-finite value %v", v)
		}
		return FormatFloat(v, col.Precision), nil
	case decimal.Decimal:
		return v.StringFixed(2), nil
	case time.Time:
		if col.Kind == KindTimestamp {
			return v.Format(TimestampLayout), nil
		}
		return v.Format(DateLayout), nil
	case sql.NullFloat64:
		if !v.Valid {
			return "", nil
		}
		return FormatCell(col, v.Float64)
	case sql.NullString:
		if !v.Valid {
			return "", nil
		}
		return v.String, nil
	default:
		return "", fmt.Errorf("unsupported cell type %T", cell)
	}
}

// FormatFloat rounds to the given number of decimals and drops trailing zeros
func FormatFloat(v float64, precision int) string {
	s := strconv.FormatFloat(Round(v, precision), 'f', -1, 64)
	if s == "-0" {
		return "0"
	}
	return s
}

// Round rounds half away from zero to the given number of decimals
func Round(v float64, precision int) float64 {
	scale := math.Pow(10, float64(precision))
	return math.Round(v*scale) / scale
}
