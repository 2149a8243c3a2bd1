// Package xlsx exports a generation run as a single Excel workbook with one
// sheet per table.
package xlsx

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/vsinha/demandplan/pkg/domain/dataset"
	"github.com/vsinha/demandplan/pkg/domain/repositories"
)

var _ repositories.DatasetWriter = (*Writer)(nil)

// Writer saves a dataset to an .xlsx file
type Writer struct {
	path   string
	logger *zap.Logger
}

// NewWriter creates a workbook writer for path
func NewWriter(path string, logger *zap.Logger) (*Writer, error) {
	if path == "" {
		return nil, fmt.Errorf("workbook path cannot be empty")
	}
	if filepath.Ext(path) != ".xlsx" {
		return nil, fmt.Errorf("workbook path must end in .xlsx, got %s", path)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{path: path, logger: logger}, nil
}

// Name identifies the sink in logs and events
func (w *Writer) Name() string {
	return "xlsx"
}

// WriteDataset streams every table into its own sheet and replaces the
// workbook file once it is complete
func (w *Writer) WriteDataset(ctx context.Context, ds *dataset.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	tables := ds.Tables()
	for i, table := range tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i == 0 {
			if err := f.SetSheetName("Sheet1", table.Name); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", table.Name, err)
			}
		} else if _, err := f.NewSheet(table.Name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", table.Name, err)
		}
		if err := writeSheet(f, table); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", w.path, err)
	}
	tmp := w.path + ".tmp"
	if err := f.SaveAs(tmp); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	if err := os.Rename(tmp, w.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move workbook into place: %w", err)
	}

	w.logger.Info("Workbook written",
		zap.String("path", w.path),
		zap.Int("sheets", len(tables)),
	)
	return nil
}

func writeSheet(f *excelize.File, table dataset.Table) error {
	sw, err := f.NewStreamWriter(table.Name)
	if err != nil {
		return fmt.Errorf("failed to open sheet %s: %w", table.Name, err)
	}

	header := make([]interface{}, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c.Name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", table.Name, err)
	}

	for r, row := range table.Rows {
		values := make([]interface{}, len(row))
		for c, cell := range row {
			v, err := cellValue(table.Columns[c], cell)
			if err != nil {
				return fmt.Errorf("table %s row %d column %s: %w", table.Name, r, table.Columns[c].Name, err)
			}
			values[c] = v
		}
		axis, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(axis, values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", table.Name, r, err)
		}
	}

	return sw.Flush()
}

// cellValue keeps numbers numeric so the sheet can be charted, and renders
// dates with the same layout as the CSV output
func cellValue(col dataset.Column, cell any) (interface{}, error) {
	switch v := cell.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("non-finite value %v", v)
		}
		return dataset.Round(v, col.Precision), nil
	case sql.NullFloat64:
		if !v.Valid {
			return nil, nil
		}
		return cellValue(col, v.Float64)
	case decimal.Decimal:
		return v.Round(2).InexactFloat64(), nil
	case int64, bool:
		return v, nil
	case time.Time, sql.NullString, string, nil:
		return dataset.FormatCell(col, v)
	default:
		return nil, fmt.Errorf("unsupported cell type %T", cell)
	}
}
