package sql

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/demandplan/pkg/domain/dataset"
	"github.com/vsinha/demandplan/pkg/domain/repositories"
)

var _ repositories.DatasetWriter = (*Writer)(nil)

// Writer persists a dataset into a SQL database, one table per dataset table.
// All tables are dropped, recreated and filled in a single transaction. MySQL
// commits DDL implicitly, so there a failed run can leave tables empty.
type Writer struct {
	DB      *sqlx.DB
	dialect dialect
	logger  *zap.Logger
}

// Open connects to the database behind driver and dsn
func Open(driver, dsn string, logger *zap.Logger) (*Writer, error) {
	if _, err := dialectFor(driver); err != nil {
		return nil, err
	}
	if driver == DriverMySQL {
		var err error
		if dsn, err = mysqlDSN(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	if driver == DriverSQLite {
		// one writer at a time
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	return NewWriter(db, logger)
}

// NewWriter wraps an existing connection
func NewWriter(db *sqlx.DB, logger *zap.Logger) (*Writer, error) {
	d, err := dialectFor(db.DriverName())
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{DB: db, dialect: d, logger: logger}, nil
}

// Name identifies the sink in logs and events
func (w *Writer) Name() string {
	return "sql/" + w.dialect.driver
}

// Close closes the underlying connection pool
func (w *Writer) Close() error {
	return w.DB.Close()
}

// WriteDataset replaces every table with the contents of ds
func (w *Writer) WriteDataset(ctx context.Context, ds *dataset.Dataset) (err error) {
	tx, err := w.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				w.logger.Error("Failed to roll back", zap.Error(rbErr))
			}
		}
	}()

	rows := 0
	tables := ds.Tables()
	for _, table := range tables {
		n, err := w.writeTable(ctx, tx, table)
		if err != nil {
			return err
		}
		rows += n
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	w.logger.Info("SQL output written",
		zap.String("driver", w.dialect.driver),
		zap.Int("tables", len(tables)),
		zap.Int("rows", rows),
	)
	return nil
}

func (w *Writer) writeTable(ctx context.Context, tx *sqlx.Tx, table dataset.Table) (int, error) {
	if _, err := tx.ExecContext(ctx, w.dialect.dropTable(table)); err != nil {
		return 0, fmt.Errorf("failed to drop table %s: %w", table.Name, err)
	}
	if _, err := tx.ExecContext(ctx, w.dialect.createTable(table)); err != nil {
		return 0, fmt.Errorf("failed to create table %s: %w", table.Name, err)
	}
	if len(table.Rows) == 0 {
		return 0, nil
	}

	stmt, err := tx.PrepareNamedContext(ctx, w.dialect.insert(table))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert into %s: %w", table.Name, err)
	}
	defer stmt.Close()

	for i, row := range table.Rows {
		args, err := w.namedArgs(table, row)
		if err != nil {
			return 0, fmt.Errorf("table %s row %d: %w", table.Name, i, err)
		}
		if _, err := stmt.ExecContext(ctx, args); err != nil {
			return 0, fmt.Errorf("failed to insert into %s row %d: %w", table.Name, i, err)
		}
	}
	return len(table.Rows), nil
}

func (w *Writer) namedArgs(table dataset.Table, row []any) (map[string]interface{}, error) {
	if len(row) != len(table.Columns) {
		return nil, fmt.Errorf("expected %d cells, got %d", len(table.Columns), len(row))
	}
	args := make(map[string]interface{}, len(row))
	for j, cell := range row {
		v, err := w.value(table.Columns[j], cell)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", table.Columns[j].Name, err)
		}
		args[table.Columns[j].Name] = v
	}
	return args, nil
}

// value converts a cell into a driver value with the same rounding the CSV
// output applies
func (w *Writer) value(col dataset.Column, cell any) (interface{}, error) {
	switch v := cell.(type) {
	case nil:
		if !col.Nullable {
			return nil, fmt.Errorf("unexpected null")
		}
		return nil, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("non-finite value %v", v)
		}
		return dataset.Round(v, col.Precision), nil
	case sql.NullFloat64:
		if !v.Valid {
			return nil, nil
		}
		return w.value(col, v.Float64)
	case sql.NullString:
		if !v.Valid {
			return nil, nil
		}
		return v.String, nil
	case decimal.Decimal:
		return v.StringFixed(2), nil
	case time.Time:
		if w.dialect.temporalAsText {
			return dataset.FormatCell(col, v)
		}
		return v, nil
	case int:
		return int64(v), nil
	case string, int64, bool:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported cell type %T", cell)
	}
}
