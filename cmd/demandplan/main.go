package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vsinha/demandplan/pkg/config"
	"github.com/vsinha/demandplan/pkg/infrastructure/logger"
	"github.com/vsinha/demandplan/pkg/interfaces/cli/commands"
)

type command interface {
	Execute(ctx context.Context) error
}

func main() {
	// A missing .env is fine; the environment and defaults still apply
	_ = godotenv.Load()

	cfg := config.LoadEnv()
	log, err := logger.NewZapLogger(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cmd, err := parse(os.Args[1:], cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		log.Error("command failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// parse picks the subcommand, generate by default, and applies flags over
// the environment configuration
func parse(args []string, cfg *config.Config, log *zap.Logger) (command, error) {
	name := "generate"
	if len(args) > 0 && (args[0] == "generate" || args[0] == "summary") {
		name, args = args[0], args[1:]
	}

	switch name {
	case "summary":
		fs := flag.NewFlagSet("summary", flag.ContinueOnError)
		var sc commands.SummaryConfig
		fs.StringVar(&sc.InputDir, "input", cfg.Output.Dir, "Directory written by generate")
		fs.StringVar(&sc.Format, "format", cfg.Output.Format, "Output format: text, json")
		fs.StringVar(&sc.NPIProduct, "npi", "", "Product for the partner launch scorecard")
		fs.StringVar(&sc.Partner, "partner", "", "Partner id for a partner overview")
		fs.IntVar(&sc.TopN, "top", commands.DefaultTopN, "Rows in the chase and risk listings")
		fs.BoolVar(&sc.Help, "help", false, "Show help message")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		return commands.NewSummaryCommand(sc, log, os.Stdout), nil

	default:
		fs := flag.NewFlagSet("generate", flag.ContinueOnError)
		var gc commands.GenerateConfig
		fs.Int64Var(&gc.Seed, "seed", cfg.Run.Seed, "Root random seed")
		fs.StringVar(&gc.OutputDir, "output", cfg.Output.Dir, "Output directory for CSV files")
		fs.BoolVar(&gc.Parallel, "parallel", cfg.Run.Parallel, "Run independent generators concurrently")
		fs.BoolVar(&gc.Quiet, "quiet", cfg.Run.Quiet, "Hide the progress bar")
		fs.StringVar(&gc.Format, "format", cfg.Output.Format, "Summary format: text, json")
		fs.StringVar(&gc.XLSXPath, "xlsx", cfg.Output.XLSXPath, "Also write an Excel workbook")
		fs.StringVar(&gc.SQLDriver, "sql-driver", cfg.SQL.Driver, "Also write to sqlite, postgres or mysql")
		fs.StringVar(&gc.SQLDSN, "sql-dsn", cfg.SQL.DSN, "Data source name for --sql-driver")
		fs.BoolVar(&gc.Help, "help", false, "Show help message")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		return commands.NewGenerateCommand(gc, log, os.Stdout), nil
	}
}
