package dataset

import (
	"database/sql"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFormatCell(t *testing.T) {
	day := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	stamp := time.Date(2025, 9, 12, 8, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		col     Column
		cell    any
		want    string
		wantErr bool
	}{
		{"text", Column{Name: "product_id"}, "IPHONE-16-PRO-256", "IPHONE-16-PRO-256", false},
		{"int64", Column{Kind: KindInt}, int64(6000), "6000", false},
		{"bool", Column{Kind: KindBool}, true, "true", false},
		{"float rounded", Column{Kind: KindFloat, Precision: 2}, 3.14159, "3.14", false},
		{"float trailing zeros dropped", Column{Kind: KindFloat, Precision: 4}, 0.77, "0.77", false},
		{"negative zero", Column{Kind: KindFloat, Precision: 2}, -0.001, "0", false},
		{"money", Column{Kind: KindMoney}, decimal.NewFromInt(1199), "1199.00", false},
		{"date", Column{Kind: KindDate}, day, "2025-09-01", false},
		{"timestamp", Column{Kind: KindTimestamp}, stamp, "2025-09-12 08:30:00", false},
		{"null float", Column{Kind: KindFloat, Precision: 4, Nullable: true}, sql.NullFloat64{}, "", false},
		{"valid null float", Column{Kind: KindFloat, Precision: 4, Nullable: true}, sql.NullFloat64{Float64: 0.95, Valid: true}, "0.95", false},
		{"null string", Column{Nullable: true}, sql.NullString{}, "", false},
		{"nil in nullable column", Column{Nullable: true}, nil, "", false},
		{"nil in required column", Column{}, nil, "", true},
		{"NaN", Column{Kind: KindFloat}, math.NaN(), "", true},
		{"Inf", Column{Kind: KindFloat}, math.Inf(1), "", true},
		{"unsupported", Column{}, []byte("x"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatCell(tt.col, tt.cell)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Failed to format cell: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		v         float64
		precision int
		want      float64
	}{
		{1.5, 0, 2},
		{-1.5, 0, -2},
		{0.12, 1, 0.1},
		{1234.5678, 2, 1234.57},
	}
	for _, tt := range tests {
		if got := Round(tt.v, tt.precision); got != tt.want {
			t.Errorf("Expected Round(%v, %d) = %v, got %v", tt.v, tt.precision, tt.want, got)
		}
	}
}

func TestTable_Record(t *testing.T) {
	table := Table{
		Name:    "sample",
		Columns: []Column{{Name: "id"}, {Name: "units", Kind: KindInt}},
		Rows:    [][]any{{"A", int64(3)}, {"B"}},
	}

	record, err := table.Record(0)
	if err != nil {
		t.Fatalf("Failed to format record: %v", err)
	}
	if record[0] != "A" || record[1] != "3" {
		t.Errorf("Expected [A 3], got %v", record)
	}
	if _, err := table.Record(1); err == nil {
		t.Error("Expected error for short row, got nil")
	}
}

func TestDataset_TablesMatchSchema(t *testing.T) {
	ds := &Dataset{}
	tables := ds.Tables()
	if len(tables) != 10 {
		t.Fatalf("Expected 10 tables, got %d", len(tables))
	}

	counts := ds.RowCounts()
	for _, table := range tables {
		columns, ok := Schema(table.Name)
		if !ok {
			t.Errorf("Expected schema for %s", table.Name)
			continue
		}
		if len(columns) != len(table.Columns) {
			t.Errorf("Expected %d columns for %s, got %d", len(columns), table.Name, len(table.Columns))
		}
		if _, ok := counts[table.Name]; !ok {
			t.Errorf("Expected a row count for %s", table.Name)
		}
	}

	if got := tables[0].FileName(); got != "raw/products.csv" {
		t.Errorf("Expected raw/products.csv, got %s", got)
	}
	if got := tables[9].FileName(); got != "processed/alert_summary.csv" {
		t.Errorf("Expected processed/alert_summary.csv, got %s", got)
	}
	if _, ok := Schema("unknown"); ok {
		t.Error("Expected no schema for unknown table")
	}
}
