package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/vsinha/demandplan/pkg/domain/dataset"
	"github.com/vsinha/demandplan/pkg/domain/entities"
)

func runGenerate(t *testing.T, config GenerateConfig) *bytes.Buffer {
	t.Helper()
	var out bytes.Buffer
	cmd := NewGenerateCommand(config, zap.NewNop(), &out)
	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("Failed to execute generate: %v", err)
	}
	return &out
}

func TestGenerateCommand_AllSinks(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "data")
	config := GenerateConfig{
		Seed:      42,
		OutputDir: dir,
		Quiet:     true,
		Format:    "json",
		XLSXPath:  filepath.Join(tmp, "demand.xlsx"),
		SQLDriver: "sqlite",
		SQLDSN:    filepath.Join(tmp, "demand.db"),
	}
	out := runGenerate(t, config)

	var summary struct {
		RunID  string `json:"run_id"`
		Seed   int64  `json:"seed"`
		Tables []struct {
			Table string `json:"table"`
			Rows  int    `json:"rows"`
		} `json:"tables"`
		Sinks []struct {
			Sink string `json:"sink"`
		} `json:"sinks"`
		NPIProducts int `json:"npi_products"`
	}
	if err := json.Unmarshal(out.Bytes(), &summary); err != nil {
		t.Fatalf("Failed to decode summary: %v\n%s", err, out.String())
	}

	if summary.RunID == "" {
		t.Error("Expected a run id")
	}
	if summary.Seed != 42 {
		t.Errorf("Expected seed 42, got %d", summary.Seed)
	}
	if len(summary.Tables) != 10 {
		t.Errorf("Expected 10 tables, got %d", len(summary.Tables))
	}
	if summary.NPIProducts == 0 {
		t.Error("Expected NPI products in the catalog")
	}

	var sinks []string
	for _, s := range summary.Sinks {
		sinks = append(sinks, s.Sink)
	}
	if got := strings.Join(sinks, ","); got != "xlsx,sql/sqlite,csv" {
		t.Errorf("Expected sinks xlsx,sql/sqlite,csv, got %s", got)
	}

	for _, path := range []string{
		filepath.Join(dir, "raw", "products.csv"),
		filepath.Join(dir, "processed", "alert_summary.csv"),
		config.XLSXPath,
		config.SQLDSN,
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Expected %s to exist: %v", path, err)
		}
	}
}

func TestGenerateCommand_TextSummary(t *testing.T) {
	out := runGenerate(t, GenerateConfig{
		Seed:      42,
		OutputDir: filepath.Join(t.TempDir(), "data"),
		Quiet:     true,
		Format:    "text",
	})

	text := out.String()
	for _, want := range []string{"demand_actuals", "order_book", "csv"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected summary to mention %q, got:\n%s", want, text)
		}
	}
}

func TestGenerateCommand_SinkFailureKeepsPreviousCSV(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "data")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create output dir: %v", err)
	}
	marker := filepath.Join(dir, "previous-run.txt")
	if err := os.WriteFile(marker, []byte("keep"), 0o644); err != nil {
		t.Fatalf("Failed to write marker: %v", err)
	}

	// the workbook's directory does not exist, so the xlsx sink fails on write
	cmd := NewGenerateCommand(GenerateConfig{
		Seed:      42,
		OutputDir: dir,
		Quiet:     true,
		Format:    "text",
		XLSXPath:  filepath.Join(tmp, "missing", "demand.xlsx"),
	}, zap.NewNop(), &bytes.Buffer{})
	if err := cmd.Execute(context.Background()); err == nil {
		t.Fatal("Expected xlsx write error, got nil")
	}

	if _, err := os.Stat(marker); err != nil {
		t.Errorf("Expected previous run to survive: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "raw", "products.csv")); !os.IsNotExist(err) {
		t.Errorf("Expected no new CSV output, got %v", err)
	}
}

func TestGenerateCommand_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config GenerateConfig
	}{
		{"unsupported format", GenerateConfig{OutputDir: t.TempDir(), Format: "yaml", Quiet: true}},
		{"missing output dir", GenerateConfig{Format: "text", Quiet: true}},
		{"bad xlsx path", GenerateConfig{OutputDir: t.TempDir(), Format: "text", XLSXPath: "demand.csv", Quiet: true}},
		{"unsupported driver", GenerateConfig{OutputDir: t.TempDir(), Format: "text", SQLDriver: "oracle", Quiet: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewGenerateCommand(tt.config, nil, &bytes.Buffer{})
			if err := cmd.Execute(context.Background()); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestGenerateCommand_Help(t *testing.T) {
	var out bytes.Buffer
	cmd := NewGenerateCommand(GenerateConfig{Help: true}, nil, &out)
	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("Failed to show help: %v", err)
	}
	if !strings.Contains(out.String(), "demandplan generate") {
		t.Errorf("Expected usage text, got %q", out.String())
	}
}

func TestSummaryCommand_ReadsGeneratedRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	runGenerate(t, GenerateConfig{Seed: 42, OutputDir: dir, Quiet: true, Format: "text"})

	var out bytes.Buffer
	cmd := NewSummaryCommand(SummaryConfig{InputDir: dir, Format: "json", Partner: "P005", TopN: 5}, zap.NewNop(), &out)
	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("Failed to execute summary: %v", err)
	}

	var report struct {
		Chase     []json.RawMessage `json:"chase_opportunities"`
		Risk      []json.RawMessage `json:"risk_matrix"`
		Scorecard []struct {
			PartnerName string `json:"partner_name"`
		} `json:"npi_scorecard"`
		NPIProduct string `json:"npi_product"`
		Partner    *struct {
			PartnerID string `json:"partner_id"`
		} `json:"partner"`
		PartnerMix []struct {
			Family string `json:"product_family"`
		} `json:"partner_mix"`
		Trend     []json.RawMessage `json:"partner_trend"`
		Waterfall []json.RawMessage `json:"npi_waterfall"`
		Priority  []struct {
			Severity string `json:"severity"`
		} `json:"priority_alerts"`
		Anomalies []json.RawMessage `json:"demand_anomalies"`
		ShipPlan  []struct {
			RAG string `json:"rag"`
		} `json:"shipment_plan"`
		Ranging []json.RawMessage `json:"instock_ranging"`
	}
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("Failed to decode report: %v\n%s", err, out.String())
	}

	if len(report.Chase) == 0 || len(report.Chase) > 5 {
		t.Errorf("Expected 1-5 chase rows, got %d", len(report.Chase))
	}
	if len(report.Risk) != 5 {
		t.Errorf("Expected 5 risk cells, got %d", len(report.Risk))
	}
	if report.NPIProduct != "IPHONE-16-PRO-256" {
		t.Errorf("Expected default NPI product IPHONE-16-PRO-256, got %s", report.NPIProduct)
	}
	if len(report.Scorecard) == 0 {
		t.Error("Expected a launch scorecard")
	}
	if report.Partner == nil || report.Partner.PartnerID != "P005" {
		t.Errorf("Expected partner overview for P005, got %+v", report.Partner)
	}
	if len(report.PartnerMix) == 0 {
		t.Error("Expected a product mix for P005")
	}
	if len(report.Trend) == 0 || len(report.Trend) > 52 {
		t.Errorf("Expected 1-52 trend points, got %d", len(report.Trend))
	}
	if len(report.Waterfall) == 0 {
		t.Error("Expected a launch waterfall")
	}
	if len(report.Priority) == 0 || len(report.Priority) > 5 {
		t.Errorf("Expected 1-5 priority alerts, got %d", len(report.Priority))
	} else if report.Priority[0].Severity != "Critical" {
		t.Errorf("Expected a Critical alert first, got %s", report.Priority[0].Severity)
	}
	if len(report.Anomalies) > 5 {
		t.Errorf("Expected at most 5 anomalies, got %d", len(report.Anomalies))
	}
	if len(report.ShipPlan) == 0 {
		t.Error("Expected a shipment plan check")
	}
	for _, g := range report.ShipPlan {
		if g.RAG != "Green" && g.RAG != "Amber" && g.RAG != "Red" {
			t.Errorf("Unexpected RAG %q", g.RAG)
		}
	}
	if len(report.Ranging) == 0 {
		t.Error("Expected in-stock ranging cells")
	}
}

func TestSummaryCommand_MissingInput(t *testing.T) {
	cmd := NewSummaryCommand(SummaryConfig{InputDir: filepath.Join(t.TempDir(), "none"), Format: "text"}, nil, &bytes.Buffer{})
	if err := cmd.Execute(context.Background()); err == nil {
		t.Error("Expected error for missing input, got nil")
	}
}

func TestBuildReport_UnknownPartner(t *testing.T) {
	_, err := BuildReport(&dataset.Dataset{}, SummaryConfig{Partner: "P999"})
	if !errors.Is(err, entities.ErrUnknownPartner) {
		t.Errorf("Expected ErrUnknownPartner, got %v", err)
	}
}

func TestBuildReport_EmptyDataset(t *testing.T) {
	report, err := BuildReport(&dataset.Dataset{}, SummaryConfig{})
	if err != nil {
		t.Fatalf("Failed to build report: %v", err)
	}
	if len(report.Risk) != 0 || len(report.Chase) != 0 {
		t.Errorf("Expected empty listings for empty dataset, got %d risk, %d chase", len(report.Risk), len(report.Chase))
	}
}
