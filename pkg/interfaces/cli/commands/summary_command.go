package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/vsinha/demandplan/pkg/application/services/analytics"
	"github.com/vsinha/demandplan/pkg/application/services/simulation"
	"github.com/vsinha/demandplan/pkg/domain/dataset"
	"github.com/vsinha/demandplan/pkg/domain/entities"
	"github.com/vsinha/demandplan/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/demandplan/pkg/interfaces/cli/output"
)

const (
	// DefaultTopN bounds the chase and risk listings
	DefaultTopN = 10
)

// SummaryConfig holds configuration for the summary command
type SummaryConfig struct {
	InputDir   string // Directory written by a generate run
	Format     string // text or json
	NPIProduct string // Product for the partner launch scorecard
	Partner    string // Optional partner id for a partner overview
	TopN       int    // Rows in the chase and risk listings
	Help       bool   // Show help
}

// SummaryCommand loads a persisted run and reports its KPIs
type SummaryCommand struct {
	config SummaryConfig
	logger *zap.Logger
	out    io.Writer
}

// NewSummaryCommand creates a new summary command
func NewSummaryCommand(config SummaryConfig, logger *zap.Logger, out io.Writer) *SummaryCommand {
	if logger == nil {
		logger = zap.NewNop()
	}
	if out == nil {
		out = os.Stdout
	}
	if config.TopN <= 0 {
		config.TopN = DefaultTopN
	}
	if config.NPIProduct == "" {
		config.NPIProduct = string(simulation.DefaultScenario().LaggingAlert.Product)
	}
	return &SummaryCommand{config: config, logger: logger, out: out}
}

// Execute runs the summary command
func (cmd *SummaryCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ds, err := csv.NewLoader().LoadDataset(cmd.config.InputDir)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	cmd.logger.Debug("dataset loaded",
		zap.String("dir", cmd.config.InputDir),
		zap.Int("actuals", len(ds.Actuals)),
		zap.Int("orders", len(ds.Orders)))

	report, err := BuildReport(ds, cmd.config)
	if err != nil {
		return err
	}
	report.Dir = cmd.config.InputDir
	return output.RenderReport(cmd.out, cmd.config.Format, report)
}

// BuildReport computes every dashboard view over a dataset
func BuildReport(ds *dataset.Dataset, config SummaryConfig) (output.Report, error) {
	topN := config.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	report := output.Report{
		Executive:   analytics.ExecutiveKPIs(ds.Actuals, ds.Orders, ds.Alerts),
		OrderBook:   analytics.OrderBookHealth(ds.Orders),
		Launch:      analytics.NPILaunchKPIs(ds.NPI, ds.Products),
		Alerts:      analytics.AlertKPIs(ds.Alerts),
		Accuracy:    analytics.ForecastAccuracy(ds.Actuals, ds.Forecasts, entities.DefaultModel),
		Leaderboard: analytics.ModelLeaderboard(ds.Forecasts),
		Chase:       analytics.ChaseOpportunities(ds.Orders, ds.Products, ds.Partners, topN),
		Risk:        topRisks(analytics.RiskMatrix(ds.Actuals, ds.Products, ds.Partners), topN),
		Priority:    analytics.PriorityAlerts(ds.Alerts, topN),
		Anomalies:   firstN(analytics.DemandAnomalies(ds.Actuals, ds.Products, ds.Partners, analytics.DefaultZThreshold, analytics.DefaultIQRMultiplier), topN),
		ShipPlan:    analytics.ShipmentPlanValidation(ds.Orders, ds.Forecasts, ds.Products),
		Ranging:     analytics.InStockRanging(ds.Actuals, ds.Products, ds.Partners),
	}

	if config.NPIProduct != "" {
		report.NPIProduct = entities.ProductID(config.NPIProduct)
		report.Scorecard = analytics.PartnerNPIScorecard(ds.NPI, ds.Partners, report.NPIProduct)
		report.Waterfall = analytics.NPIWaterfall(ds.NPI, ds.Partners, report.NPIProduct)
	}

	if config.Partner != "" {
		kpis, ok := analytics.PartnerOverview(ds.Actuals, ds.Alerts, entities.PartnerID(config.Partner))
		if !ok {
			return output.Report{}, fmt.Errorf("%w: %s", entities.ErrUnknownPartner, config.Partner)
		}
		report.Partner = &kpis
		report.PartnerMix = analytics.PartnerProductMix(ds.Actuals, ds.Products, kpis.PartnerID)
		report.Trend = analytics.PartnerRevenueTrend(ds.Actuals, kpis.PartnerID, analytics.DefaultTrendWeeks)
	}
	return report, nil
}

// topRisks keeps the n cells with the largest revenue impact
func topRisks(cells []analytics.RiskCell, n int) []analytics.RiskCell {
	sorted := make([]analytics.RiskCell, len(cells))
	copy(sorted, cells)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RevenueImpact > sorted[j].RevenueImpact
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// printHelp shows usage information
func (cmd *SummaryCommand) printHelp() {
	fmt.Fprintln(cmd.out, `Demand Planning KPI Summary

USAGE:
    demandplan summary [OPTIONS]

OPTIONS:
    --input <DIR>       Directory written by generate (default data)
    --format <F>        Output format: text or json
    --npi <SKU>         Product for the partner launch scorecard (default IPHONE-16-PRO-256)
    --partner <ID>      Add an overview for one partner, e.g. P005
    --top <N>           Rows in the chase and risk listings (default 10)
    --help              Show this help message`)
}
