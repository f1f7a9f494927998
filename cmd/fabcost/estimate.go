package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"calder-eda/fabcost/pkg/bom"
	"calder-eda/fabcost/pkg/cache"
	"calder-eda/fabcost/pkg/config"
	"calder-eda/fabcost/pkg/estimate"
	"calder-eda/fabcost/pkg/partsdb"
	"calder-eda/fabcost/pkg/sourcing"
	"calder-eda/fabcost/pkg/telemetry/logging"
	"calder-eda/fabcost/pkg/telemetry/metrics"
)

var estimateFlags struct {
	boards int
	mode   string
	format string
	watch  bool
}

var estimateCmd = &cobra.Command{
	Use:   "estimate <bom-file>",
	Short: "Estimate manufacturing cost for a BOM",
	Long: `Estimate manufacturing cost for a bill of materials.

The BOM may be CSV or JSON. Each active line item is classified,
priced from the configured category and package tables, and scored
against the selected sourcing policy. Do-not-place items are excluded
from every total.

Examples:
  # One-shot estimate, JSON output
  fabcost estimate board.csv --boards 100

  # EU-only sourcing with a human-readable summary
  fabcost estimate board.csv --mode eu_only --format summary

  # Keep running, re-estimating when the BOM or config changes
  fabcost estimate board.csv --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runEstimate,
}

func init() {
	rootCmd.AddCommand(estimateCmd)

	estimateCmd.Flags().IntVarP(&estimateFlags.boards, "boards", "n", 1, "number of boards to manufacture")
	estimateCmd.Flags().StringVarP(&estimateFlags.mode, "mode", "m", "", "sourcing mode: global, eu_preferred, eu_only (default from config)")
	estimateCmd.Flags().StringVarP(&estimateFlags.format, "format", "f", "json", "output format: json, summary")
	estimateCmd.Flags().BoolVarP(&estimateFlags.watch, "watch", "w", false, "re-estimate when the BOM or config file changes")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	bomPath := args[0]

	if err := config.Initialize(cfgFile); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := config.GetConfig()
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.Setup(cfg.Logging, os.Stderr)
	if err != nil {
		return err
	}

	mode := sourcing.ParseMode(estimateFlags.mode)
	if estimateFlags.mode == "" {
		mode = sourcing.ParseMode(cfg.Sourcing.Mode)
	}

	svc := sourcing.NewSimulatedService(cfg.Sourcing.EUPremiumThreshold)
	estimator := estimate.NewEstimator(cfg, svc, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !estimateFlags.watch {
		est, err := estimateOnce(ctx, estimator, bomPath, mode)
		if err != nil {
			return err
		}
		return writeEstimate(os.Stdout, est, estimateFlags.format)
	}

	return watchAndEstimate(ctx, cfg, estimator, bomPath, mode, logger)
}

// estimateOnce loads the BOM, fills classification gaps from the local
// component catalog, and runs a single estimation pass.
func estimateOnce(ctx context.Context, estimator *estimate.Estimator, bomPath string, mode sourcing.Mode) (*estimate.CostEstimate, error) {
	result, err := bom.Load(bomPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load BOM: %w", err)
	}
	if err := enrichFromCatalog(ctx, result); err != nil {
		return nil, err
	}
	return estimator.Estimate(ctx, result, estimateFlags.boards, mode)
}

// enrichFromCatalog fills missing Category and Package fields from the
// local component catalog. A catalog that was never created is not an
// error; the heuristic classifiers handle the items instead.
func enrichFromCatalog(ctx context.Context, result *bom.ParseResult) error {
	dir, err := config.GetConfig().DataDir()
	if err != nil {
		return err
	}
	dbPath := filepath.Join(dir, "components.db")
	if _, err := os.Stat(dbPath); err != nil {
		return nil
	}

	db, err := partsdb.Open(&partsdb.Config{Path: dbPath})
	if err != nil {
		return err
	}
	defer db.Close()

	for i := range result.Items {
		item := &result.Items[i]
		// Normalize defaults a missing category to unknown, so that is
		// the "missing" value after bom.Load.
		categoryMissing := item.Category == "" || item.Category == bom.CategoryUnknown
		if item.MPN == "" || (!categoryMissing && item.Package != "") {
			continue
		}
		component, err := db.GetComponent(ctx, item.MPN)
		if err != nil || component == nil {
			continue
		}
		if categoryMissing && component.Category != "" {
			item.Category = bom.ParseCategory(component.Category)
		}
		if item.Package == "" {
			item.Package = component.Package
		}
	}
	return nil
}

// watchAndEstimate runs in long-lived mode: it re-estimates whenever
// the BOM or config file changes, serves Prometheus metrics, and keeps
// the result cache pruned on the configured schedule.
func watchAndEstimate(ctx context.Context, cfg *config.Config, estimator *estimate.Estimator, bomPath string, mode sourcing.Mode, logger *slog.Logger) error {
	collector := metrics.NewCollector(&cfg.Metrics, nil)

	store, err := openCacheStore(cfg, collector.Cache())
	if err != nil {
		return err
	}
	defer store.Close()

	scheduler := cache.NewScheduler(store, cfg.Cache.CleanupSchedule, logger)
	if err := scheduler.Start(ctx); err != nil {
		return err
	}
	defer scheduler.Stop()

	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		server := &http.Server{Addr: cfg.Metrics.ListenAddress, Handler: mux}
		go func() {
			logger.Info("metrics endpoint listening", "address", cfg.Metrics.ListenAddress)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			server.Shutdown(shutdownCtx)
		}()
	}

	runOnce := func() error {
		start := time.Now()
		est, err := estimateOnce(ctx, estimator, bomPath, mode)
		if err != nil {
			collector.Estimates().ObserveFailure(string(mode), time.Since(start))
			return err
		}
		collector.Estimates().ObserveRun(est, time.Since(start))
		return writeEstimate(os.Stdout, est, estimateFlags.format)
	}

	// First pass before watching; a broken BOM should fail fast.
	if err := runOnce(); err != nil {
		return err
	}

	watchPaths := []string{bomPath}
	if _, err := os.Stat(cfgFile); err == nil {
		watchPaths = append(watchPaths, cfgFile)
	}
	watcher, err := config.NewFileWatcher(watchPaths, time.Second, logger)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	watcher.Watch(func() error {
		if err := reloadConfig(estimator, cfgFile); err != nil {
			logger.Error("config reload failed, keeping previous config", "error", err)
		}
		return runOnce()
	})

	logger.Info("watching for changes", "bom", bomPath, "config", cfgFile)
	<-ctx.Done()
	return nil
}

// reloadConfig reloads the config file into the singleton and the
// estimator, and rebuilds the sourcing service so threshold edits take
// effect on the next run. The metrics endpoint and the open cache
// store keep their startup settings.
func reloadConfig(estimator *estimate.Estimator, path string) error {
	reloaded, err := config.LoadConfigWithEnvOverrides(path)
	if err != nil {
		return err
	}
	config.SetConfig(reloaded)
	estimator.SetConfig(reloaded)
	estimator.SetSourcing(sourcing.NewSimulatedService(reloaded.Sourcing.EUPremiumThreshold))
	return nil
}

// openCacheStore opens the durable result cache under the configured
// data directory.
func openCacheStore(cfg *config.Config, rec cache.Recorder) (*cache.SQLiteStore, error) {
	dir, err := cfg.DataDir()
	if err != nil {
		return nil, err
	}
	return cache.NewSQLiteStoreWithConfig(cache.SQLiteStoreConfig{
		DBPath: filepath.Join(dir, "cache.db"),
		TTLs: cache.TTLs{
			cache.NamespaceDistributor: cfg.Cache.DistributorTTL,
			cache.NamespaceAdvisory:    cfg.Cache.AdvisoryTTL,
			cache.NamespaceMetadata:    0,
		},
		Recorder: rec,
	})
}

func writeEstimate(w io.Writer, est *estimate.CostEstimate, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(est)
	case "summary":
		return writeSummary(w, est)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeSummary(w io.Writer, est *estimate.CostEstimate) error {
	fmt.Fprintf(w, "Cost estimate %s\n", est.ID)
	fmt.Fprintf(w, "  Boards:        %d\n", est.BoardQuantity)
	fmt.Fprintf(w, "  Sourcing mode: %s\n", est.SourcingMode)
	fmt.Fprintf(w, "  Components:    %d line items, %d placements\n",
		est.AssemblyCost.UniqueComponents, est.AssemblyCost.TotalComponents)
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Component cost (per board): %.2f / %.2f / %.2f %s (low/typical/high)\n",
		est.TotalComponentCostLow, est.TotalComponentCostTypical, est.TotalComponentCostHigh, est.Currency)
	fmt.Fprintf(w, "  Assembly cost:              %.2f %s\n", est.AssemblyCost.TotalPerBoard, est.Currency)
	fmt.Fprintf(w, "  Overhead:                   %.2f %s\n", est.OverheadCosts.TotalOverhead, est.Currency)
	fmt.Fprintf(w, "  Total per board (typical):  %.2f %s\n", est.TotalCostPerBoardTypical, est.Currency)

	if len(est.FlaggedParts) > 0 {
		fmt.Fprintf(w, "\n  Provenance-flagged parts: %d\n", len(est.FlaggedParts))
		for _, refDes := range est.FlaggedParts {
			fmt.Fprintf(w, "    - %s\n", refDes)
		}
	}
	if len(est.Warnings) > 0 {
		fmt.Fprintf(w, "\n  Warnings:\n")
		for _, warning := range est.Warnings {
			fmt.Fprintf(w, "    - %s\n", warning)
		}
	}
	return nil
}
