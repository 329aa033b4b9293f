package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"

	"github.com/ducminhle1904/lens-optimizer/cmd/common"
	opterrors "github.com/ducminhle1904/lens-optimizer/internal/errors"
	"github.com/ducminhle1904/lens-optimizer/internal/logger"
	"github.com/ducminhle1904/lens-optimizer/internal/monitoring"
	"github.com/ducminhle1904/lens-optimizer/internal/runner"
	"github.com/ducminhle1904/lens-optimizer/pkg/catalog"
	"github.com/ducminhle1904/lens-optimizer/pkg/config"
	"github.com/ducminhle1904/lens-optimizer/pkg/optimization"
	"github.com/ducminhle1904/lens-optimizer/pkg/reporting"
)

const (
	AppName = "Lens Optimizer"

	// Progress is printed every progressEvery generations unless verbose
	progressEvery = 10

	shutdownTimeout = 5 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		stop()
		os.Exit(1)
	}
}

// run executes one optimizer session. It is separated from main so that it
// can be driven from tests.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("lens-optimizer", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	flags := NewOptimizerFlags(fs)

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}

	if *flags.ShowVersion {
		common.PrintVersion(stdout, "lens-optimizer")
		return nil
	}
	if *flags.ShowHelp {
		printUsageHelp(stdout, flags)
		return nil
	}

	if err := ValidateOptimizerFlags(flags); err != nil {
		return err
	}

	console := common.NewLoggerTo(stdout)
	console.SilentMode = *flags.Silent
	if *flags.Verbose {
		console.Level = common.LogLevelDebug
	}

	if *flags.EnvFile != "" {
		loaded, err := config.LoadEnvFile(*flags.EnvFile)
		if err != nil {
			return err
		}
		if loaded {
			console.Debug("Loaded environment from %s", *flags.EnvFile)
		}
	}

	manager := config.NewConfigManager()
	cfg, err := manager.ReadConfig(*flags.ConfigFile)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	flags.ApplyTo(cfg)
	if err := manager.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if *flags.SaveConfig != "" {
		if err := manager.SaveConfig(cfg, *flags.SaveConfig); err != nil {
			return err
		}
		console.Success("Configuration saved to %s", *flags.SaveConfig)
	}

	cat, source, err := loadCatalog(cfg.Catalog.Dir)
	if err != nil {
		return err
	}

	if *flags.ListConditions {
		printConditions(stdout, cat)
		return nil
	}

	return optimize(ctx, stdout, console, flags, cfg, cat, source)
}

const sampleCatalogName = "Sample Catalog"

// loadCatalog returns the catalog and the name of the source it came from
func loadCatalog(dir string) (*catalog.MemoryCatalog, string, error) {
	if dir == "" {
		return catalog.NewSampleCatalog(), sampleCatalogName, nil
	}
	provider := catalog.NewCSVProvider(dir)
	cat, err := provider.Load()
	if err != nil {
		return nil, "", fmt.Errorf("failed to load catalog from %s: %w", dir, err)
	}
	return cat, provider.GetName(), nil
}

func printConditions(w io.Writer, cat *catalog.MemoryCatalog) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("KNOWN CONDITIONS")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Condition", "Description", "Frame", "Lens", "Coating", "Filter"})

	for _, name := range cat.SortedConditionNames() {
		p, ok := cat.FindProfile(name)
		if !ok {
			continue
		}
		t.AppendRow(table.Row{p.Name, p.Description, p.RecommendedFrame, p.RecommendedLens,
			p.RecommendedCoating, p.RecommendedFilter})
	}
	t.Render()
}

func optimize(ctx context.Context, stdout io.Writer, console *common.Logger, flags *OptimizerFlags,
	cfg *config.OptimizerConfig, cat *catalog.MemoryCatalog, source string) error {

	console.Header(AppName)

	stats := cat.Stats()
	console.Info("Catalog: %s with %d frames, %d lenses, %d coatings, %d filters, %d conditions",
		source, stats["frames"], stats["lenses"], stats["coatings"], stats["filters"], stats["conditions"])

	condition := cfg.Patient.Condition
	if _, ok := cat.FindProfile(condition); !ok {
		console.Warn("Unknown condition %q, compatibility scores will be neutral", condition)
	}

	runID := uuid.NewString()
	session := opterrors.NewErrorStats(10)

	var fileLog *logger.Logger
	if cfg.Output.LogDir != "" {
		l, err := logger.NewLogger(cfg.Output.LogDir, condition, runID)
		if err != nil {
			return err
		}
		defer l.Close()
		fileLog = l
		l.Info("Settings: %s", cfg.Summary())
		console.Debug("Session log: %s", l.GetLogPath())
	}

	registry := prometheus.NewRegistry()
	metrics := monitoring.NewOptimizerMetrics(registry)
	status := monitoring.NewStatusTracker()

	if cfg.Monitoring.MetricsAddr != "" {
		shutdown, err := serveMonitoring(console, cfg.Monitoring.MetricsAddr, registry, status)
		if err != nil {
			return err
		}
		defer shutdown()
		console.Info("Serving /metrics and /health on %s", cfg.Monitoring.MetricsAddr)
	}

	priceRange := cfg.Patient.PriceRange
	evaluator := optimization.NewFitnessEvaluatorFromLookup(cat, condition, cfg.Patient.Constraints, priceRange)

	optCfg := cfg.ToOptimizationConfig()
	verbose := *flags.Verbose
	restarts := cfg.Execution.Restarts

	baseSeed := cfg.Seed
	if !cfg.HasSeed() {
		baseSeed = time.Now().UnixNano()
	}

	newEngine := func(job runner.Job) (*optimization.Engine, error) {
		opts := []optimization.Option{
			optimization.WithRunID(job.RunID),
			optimization.WithSeed(job.Seed),
			optimization.WithMetrics(metrics),
			optimization.WithAvailableOnly(cfg.Catalog.AvailableOnly),
		}
		// The first restart drives progress output and the session log
		if job.ID == 0 {
			opts = append(opts, optimization.WithProgress(func(generation int, best, average float64) {
				status.UpdateGeneration(generation, best)
				if verbose || generation%progressEvery == 0 || generation == optCfg.Generations {
					console.Progress("Generation %d/%d best=%.2f avg=%.2f", generation, optCfg.Generations, best, average)
				}
			}))
			if fileLog != nil {
				verbosity := 0
				if verbose {
					verbosity = 1
				}
				opts = append(opts, optimization.WithLogger(fileLog.Logr(verbosity)))
			}
		}
		return optimization.NewEngine(cat, evaluator, optCfg, opts...)
	}

	jobs := make([]runner.Job, restarts)
	for i := range jobs {
		jobs[i] = runner.Job{ID: i, RunID: runID, Seed: baseSeed + int64(i)}
		if restarts > 1 {
			jobs[i].RunID = fmt.Sprintf("%s-%d", runID, i)
		}
	}

	summary := reporting.RunSummary{
		RunID:       runID,
		Condition:   condition,
		Constraints: cfg.Patient.Constraints,
		PriceRange:  priceRange,
		Config:      optCfg,
	}
	consoleReporter := reporting.NewConsoleReporter(stdout)
	if !console.SilentMode {
		consoleReporter.PrintRunConfig(reporting.NewRunReport(summary, nil, nil))
	}

	pool := runner.NewWorkerPool(cfg.Execution.Workers)
	if restarts > 1 {
		console.Info("Running %d restarts on %d workers", restarts, min(pool.WorkerCount(), restarts))
	}

	console.Section("Evolution")
	status.StartRun(runID, condition, optCfg.Generations)
	start := time.Now()

	results := pool.Run(ctx, jobs, runner.Search{
		Factory:  newEngine,
		PriceMin: priceRange.Min,
		PriceMax: priceRange.Max,
		TopN:     cfg.Output.TopN,
		OnComplete: func(r runner.Result) {
			if fileLog != nil {
				fileLog.Info("Restart %d finished: best=%.2f generations=%d duration=%s",
					r.Job.ID, r.BestFitness(), r.Generations, r.Duration.Round(time.Millisecond))
			}
		},
	})

	best, err := runner.Best(results)
	if err != nil {
		session.RecordError(err)
		status.Finish(err)
		if fileLog != nil {
			fileLog.LogError("optimize", err)
		}
		return err
	}

	if restarts > 1 {
		console.Section("Restarts")
	}
	for _, r := range results {
		if r.Err != nil && !r.Interrupted() {
			session.RecordError(r.Err)
			console.Warn("Restart %d failed: %v", r.Job.ID, r.Err)
			continue
		}
		if restarts > 1 {
			price := 0.0
			if len(r.Top) > 0 {
				price = r.Top[0].TotalPrice()
			}
			console.Info("Restart %d: best=%.2f price=%s generations=%d in %s",
				r.Job.ID, r.BestFitness(), common.FormatCurrency(price),
				r.Generations, common.FormatDuration(r.Duration))
		}
	}

	if runner.Interrupted(results) {
		console.Warn("Interrupted after generation %d, reporting partial results", best.Generations)
		if fileLog != nil {
			fileLog.Warning("Run interrupted after generation %d", best.Generations)
		}
	}

	summary.Duration = time.Since(start)
	summary.Evolution = best.Evolution
	report := reporting.NewRunReport(summary, runner.Merge(results, cfg.Output.TopN), evaluator)

	manager := reporting.NewReportingManager(reporting.ReportingConfig{
		EnableConsole: true,
		ExcelPath:     cfg.Output.ExcelFile,
		CSVPath:       *flags.OutputCSV,
		JSONPath:      cfg.Output.JSONFile,
	}).WithConsole(consoleReporter)

	written, exportErr := manager.ReportResults(report)
	for _, path := range written {
		console.Success("Results written to %s", path)
	}
	if exportErr != nil {
		exportErr = opterrors.NewExportError("reporting", "write", exportErr)
		session.RecordError(exportErr)
		if fileLog != nil {
			fileLog.LogError("export", exportErr)
		}
	}

	if fileLog != nil {
		for _, r := range report.Results {
			fileLog.LogResult(r.Rank, r.Signature, r.Fitness, r.TotalPrice)
		}
		evolution := report.Evolution
		avg := 0.0
		if n := len(evolution.AverageFitness); n > 0 {
			avg = evolution.AverageFitness[n-1]
		}
		fileLog.LogRunSummary(best.Generations, report.FinalBestFitness(), avg, summary.Duration)
	}

	status.Finish(exportErr)
	if top := report.Best(); top != nil {
		console.Success("Best configuration: fitness %.2f at %s", top.Fitness, common.FormatCurrency(top.TotalPrice))
	}
	console.Info("Completed %d generations in %s", best.Generations, common.FormatDuration(summary.Duration))

	if session.TotalErrors > 0 {
		console.Warn("%d error(s) recorded, %.0f%% during export",
			session.TotalErrors, session.GetErrorRate(opterrors.ErrorCategoryExport)*100)
	}
	return exportErr
}

// serveMonitoring starts the metrics and health endpoints and returns a
// function that stops them
func serveMonitoring(console *common.Logger, addr string, g prometheus.Gatherer, status http.Handler) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", monitoring.Handler(g))
	mux.Handle("/health", status)

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			console.Warn("Monitoring server stopped: %v", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			console.Warn("Monitoring server shutdown: %v", err)
		}
	}, nil
}
