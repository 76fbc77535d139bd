package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"PolicyPal/internal/app"
	"PolicyPal/internal/config"
	"PolicyPal/internal/domain"
	"PolicyPal/internal/logging"
)

const usage = `usage: policypal <command> [flags]

commands:
  serve              run the HTTP API (add -scheduler to run ingestion jobs too)
  init-db            create missing tables
  reset-db           drop and recreate every table
  scrape-bills       ingest one listing page (-congress, -offset, -limit)
  daily-update       ingest bills changed in the last 24 hours
  scrape-status      print the ingestion cursor and recent bills
  list-bills         print the most recently stored bills (-limit)
  schedule-updates   run the ingestion jobs until interrupted
`

var errUsage = errors.New("unknown command")

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Mode)
	defer logger.Sync()

	if err := run(ctx, cfg, logger, os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		logger.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *logging.Logger, command string, args []string) error {
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	congressNum := fs.Int("congress", cfg.Congress.CurrentCongress, "congress session")
	offset := fs.Int("offset", 0, "listing offset")
	limit := fs.Int("limit", 0, "number of bills")
	withScheduler := fs.Bool("scheduler", false, "run ingestion jobs alongside the API")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch command {
	case "serve", "init-db", "reset-db", "scrape-bills", "daily-update", "scrape-status", "list-bills", "schedule-updates":
	default:
		return fmt.Errorf("%w %q", errUsage, command)
	}

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("shutdown", "error", err)
		}
	}()

	switch command {
	case "serve":
		if err := application.InitDB(); err != nil {
			return err
		}
		return application.Serve(ctx, *withScheduler)

	case "init-db":
		if err := application.InitDB(); err != nil {
			return err
		}
		fmt.Println("database initialized")

	case "reset-db":
		if err := application.ResetDB(ctx); err != nil {
			return err
		}
		fmt.Println("database reset")

	case "scrape-bills":
		n := *limit
		if n <= 0 {
			n = 20
		}
		result, err := application.ScrapeBills(ctx, *congressNum, *offset, n)
		if err != nil {
			return err
		}
		fmt.Printf("fetched %d of %d available: %d inserted, %d updated, %d failed\n",
			result.Fetched, result.Available, result.Inserted, result.Updated, result.Failed)

	case "daily-update":
		result, err := application.DailyUpdate(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("daily update: %d fetched, %d inserted, %d updated, %d failed\n",
			result.Fetched, result.Inserted, result.Updated, result.Failed)

	case "scrape-status":
		status, err := application.Status(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("offset: %d\ntotal bills: %d\n", status.Offset, status.TotalBills)
		printBills(status.Recent)

	case "list-bills":
		n := *limit
		if n <= 0 {
			n = 10
		}
		bills, err := application.RecentBills(ctx, n)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(bills)

	case "schedule-updates":
		if err := application.InitDB(); err != nil {
			return err
		}
		logger.Info("scheduler running, press Ctrl+C to stop")
		return application.ScheduleUpdates(ctx)
	}
	return nil
}

func printBills(bills []domain.Bill) {
	for _, b := range bills {
		fmt.Printf("  [%d] %s: %s\n", b.ID, b.Key, b.Title)
	}
}
