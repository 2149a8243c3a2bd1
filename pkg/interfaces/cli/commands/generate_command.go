package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/vsinha/demandplan/pkg/application/services/analytics"
	"github.com/vsinha/demandplan/pkg/application/services/simulation"
	"github.com/vsinha/demandplan/pkg/domain/dataset"
	"github.com/vsinha/demandplan/pkg/domain/repositories"
	"github.com/vsinha/demandplan/pkg/infrastructure/events"
	"github.com/vsinha/demandplan/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/demandplan/pkg/infrastructure/repositories/memory"
	sqlrepo "github.com/vsinha/demandplan/pkg/infrastructure/repositories/sql"
	"github.com/vsinha/demandplan/pkg/infrastructure/repositories/xlsx"
	"github.com/vsinha/demandplan/pkg/interfaces/cli/output"
)

// GenerateConfig holds configuration for a generate run
type GenerateConfig struct {
	Seed      int64  // Root seed for every generator stream
	OutputDir string // Directory receiving raw/ and processed/ CSV files
	Parallel  bool   // Run independent generators concurrently
	Quiet     bool   // Suppress the progress bar
	Format    string // Summary format: text or json
	XLSXPath  string // Optional workbook path
	SQLDriver string // Optional SQL target: sqlite, postgres or mysql
	SQLDSN    string // Data source name for SQLDriver
	Help      bool   // Show help
}

// GenerateCommand runs the generator and persists every table
type GenerateCommand struct {
	config GenerateConfig
	logger *zap.Logger
	out    io.Writer
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig, logger *zap.Logger, out io.Writer) *GenerateCommand {
	if logger == nil {
		logger = zap.NewNop()
	}
	if out == nil {
		out = os.Stdout
	}
	return &GenerateCommand{config: config, logger: logger, out: out}
}

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}
	if cmd.config.Format != output.FormatText && cmd.config.Format != output.FormatJSON {
		return fmt.Errorf("unsupported output format: %s", cmd.config.Format)
	}

	sinks, closeSinks, err := cmd.openSinks()
	if err != nil {
		return err
	}
	defer closeSinks()

	store := events.NewInMemoryEventStore(cmd.logger)
	if err := store.Subscribe(events.AllRunEvents, events.NewLoggingHandler(cmd.logger)); err != nil {
		return fmt.Errorf("failed to subscribe to run events: %w", err)
	}

	generator := simulation.NewGenerator(
		simulation.GeneratorConfig{
			Seed:     cmd.config.Seed,
			Parallel: cmd.config.Parallel,
			Progress: cmd.progress(),
		},
		cmd.logger,
		store,
		memory.NewProductRepository(0),
		memory.NewPartnerRepository(0),
	)

	startTime := time.Now()
	ds, err := generator.Generate(ctx)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	generationTime := time.Since(startTime)

	summary := runSummary(ds, cmd.config.Parallel, generationTime)
	for _, s := range sinks {
		started := time.Now()
		if err := s.writer.WriteDataset(ctx, ds); err != nil {
			return fmt.Errorf("failed to write %s output: %w", s.writer.Name(), err)
		}
		persisted := events.RunPersisted{Sink: s.writer.Name(), Target: s.target, Duration: time.Since(started)}
		if err := store.AppendEvent(ds.RunID, events.NewEvent(events.RunPersistedEvent, ds.RunID, persisted)); err != nil {
			cmd.logger.Warn("failed to record event", zap.Error(err))
		}
		summary.Sinks = append(summary.Sinks, output.SinkResult{Sink: s.writer.Name(), Target: s.target})
	}

	return output.RenderRun(cmd.out, cmd.config.Format, summary)
}

type sink struct {
	writer repositories.DatasetWriter
	target string
}

// openSinks builds every configured writer before generation starts so a bad
// target fails fast. The CSV writer comes last: its directory swap is the
// commit point, so a failing optional sink leaves the previous run in place.
func (cmd *GenerateCommand) openSinks() ([]sink, func(), error) {
	var closers []func() error
	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				cmd.logger.Warn("failed to close sink", zap.Error(err))
			}
		}
	}

	csvWriter, err := csv.NewWriter(cmd.config.OutputDir, cmd.logger)
	if err != nil {
		return nil, closeAll, err
	}
	var sinks []sink

	if cmd.config.XLSXPath != "" {
		xlsxWriter, err := xlsx.NewWriter(cmd.config.XLSXPath, cmd.logger)
		if err != nil {
			return nil, closeAll, err
		}
		sinks = append(sinks, sink{writer: xlsxWriter, target: cmd.config.XLSXPath})
	}

	if cmd.config.SQLDriver != "" {
		sqlWriter, err := sqlrepo.Open(cmd.config.SQLDriver, cmd.config.SQLDSN, cmd.logger)
		if err != nil {
			return nil, closeAll, err
		}
		closers = append(closers, sqlWriter.Close)
		sinks = append(sinks, sink{writer: sqlWriter, target: cmd.config.SQLDriver})
	}

	sinks = append(sinks, sink{writer: csvWriter, target: csvWriter.Dir()})

	return sinks, closeAll, nil
}

// progress returns a progress callback drawing a bar on stderr, or nil in
// quiet mode
func (cmd *GenerateCommand) progress() simulation.ProgressFunc {
	if cmd.config.Quiet {
		return nil
	}
	var bar *progressbar.ProgressBar
	return func(done, total int) {
		if bar == nil {
			bar = progressbar.Default(int64(total), "simulating demand")
		}
		_ = bar.Set(done)
	}
}

func runSummary(ds *dataset.Dataset, parallel bool, took time.Duration) output.RunSummary {
	counts := ds.RowCounts()
	tables := ds.Tables()
	summary := output.RunSummary{
		RunID:    ds.RunID,
		Seed:     ds.Seed,
		Parallel: parallel,
		Duration: took,
		Tables:   make([]output.TableCount, 0, len(tables)),
	}
	for _, t := range tables {
		summary.Tables = append(summary.Tables, output.TableCount{Table: t.Name, Rows: counts[t.Name]})
	}
	for _, p := range ds.Products {
		if p.IsNPI {
			summary.NPIProducts++
		}
	}

	kpis := analytics.ExecutiveKPIs(ds.Actuals, ds.Orders, ds.Alerts)
	summary.TotalRevenue = kpis.TotalRevenue
	summary.ChaseRevenue = kpis.ChaseOpportunity
	summary.OpenAlerts = kpis.ActiveAlerts
	summary.CriticalAlerts = kpis.CriticalAlerts
	return summary
}

// printHelp shows usage information
func (cmd *GenerateCommand) printHelp() {
	fmt.Fprintln(cmd.out, `Demand Planning Data Generator

USAGE:
    demandplan generate [OPTIONS]

OPTIONS:
    --seed <N>          Root random seed (default 42, env DEMANDPLAN_SEED)
    --output <DIR>      Output directory for CSV files (default data, env DEMANDPLAN_OUTPUT_DIR)
    --parallel          Run forecast, order book and NPI generators concurrently
    --quiet             Hide the progress bar
    --format <F>        Summary format: text or json
    --xlsx <FILE>       Also write an Excel workbook with one sheet per table
    --sql-driver <D>    Also write to a database: sqlite, postgres or mysql
    --sql-dsn <DSN>     Data source name for --sql-driver
    --help              Show this help message

EXAMPLES:
    demandplan generate
    demandplan generate --seed 7 --output /tmp/plan --parallel
    demandplan generate --sql-driver sqlite --sql-dsn data/demand.db --xlsx data/demand.xlsx`)
}
