package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/pfrederiksen/qguide/internal/aggregate"
	"github.com/pfrederiksen/qguide/internal/analyzer"
	"github.com/pfrederiksen/qguide/internal/identity"
	"github.com/pfrederiksen/qguide/internal/logger"
	"github.com/pfrederiksen/qguide/internal/metrics"
	"github.com/pfrederiksen/qguide/internal/runner"
	"github.com/pfrederiksen/qguide/internal/storage"
	"github.com/spf13/cobra"
)

var analyzeFlagKeys = map[string]string{
	"docs-dir":     "documents_dir",
	"identity":     "identity_file",
	"output":       "output_file",
	"workers":      "max_workers",
	"log-level":    "log_level",
	"metrics-file": "metrics_file",
	"top":          "top_n",
}

var flagFormat string

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze report pages and write the analytics snapshot",
		Long: `Analyze every downloaded report page, aggregate the statistics per course
and semester, and write the snapshot atomically. Nothing is written if the run
is interrupted.`,
		Args: cobra.NoArgs,
		RunE: runAnalyze,
	}

	cmd.Flags().String("docs-dir", "", "Directory of downloaded report pages")
	cmd.Flags().String("identity", "", "Course identity table (courses_by_fas_id.json)")
	cmd.Flags().String("output", "", "Snapshot output file")
	cmd.Flags().Int("workers", 0, "Maximum number of parallel workers")
	cmd.Flags().String("log-level", "", "Log level: debug, info, warn or error")
	cmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this file")
	cmd.Flags().Int("top", 0, "Number of top rated courses in the summary")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Summary format: text or json")

	return cmd
}

// runAnalyze is the main command logic
func runAnalyze(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	cfg, err := loadConfig(cmd, analyzeFlagKeys)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	log, err := setupLogger(cmd, cfg, logger.Fields{"run_id": runID})
	if err != nil {
		return err
	}

	// The identity table is a hard precondition; check it before any work.
	courses, err := identity.Load(cfg.IdentityFile)
	if err != nil {
		return fmt.Errorf("loading course mapping: %w", err)
	}
	log.Info("Loaded course mapping", logger.Fields{"courses": len(courses), "path": cfg.IdentityFile})

	paths, err := analyzer.Discover(cfg.DocumentsDir)
	if err != nil {
		return fmt.Errorf("finding report pages: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no report pages found in %s", cfg.DocumentsDir)
	}

	store, err := storage.New(cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rec := metrics.New()
	r := runner.New(analyzer.New(courses),
		runner.WithMaxWorkers(cfg.MaxWorkers),
		runner.WithBatchesPerWorker(cfg.BatchesPerWorker),
		runner.WithMetrics(rec),
		runner.WithLogger(log),
		runner.WithProgress(func(p runner.Progress) {
			log.Debug("Progress", logger.Fields{"done": p.Done, "total": p.Total})
		}),
	)

	log.Info("Analyzing report pages", logger.Fields{
		"documents":   len(paths),
		"max_workers": cfg.MaxWorkers,
	})

	started := time.Now()
	result, err := r.Run(ctx, paths)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("analysis interrupted, no snapshot written: %w", err)
		}
		return fmt.Errorf("analyzing report pages: %w", err)
	}

	log.Info("Analysis finished", logger.Fields{
		"documents":      result.Documents,
		"analyzed":       result.Analyzed(),
		"skipped":        result.Skipped,
		"failed_batches": len(result.FailedBatches),
		"workers":        result.Workers,
		"batches":        result.Batches,
		"elapsed":        time.Since(started).String(),
	})
	if result.Analyzed() == 0 {
		return fmt.Errorf("no report pages could be analyzed (%d found)", result.Documents)
	}

	snapshot := aggregate.Aggregate(result.Records)
	rec.SetCourses(len(snapshot.Courses))

	if err := store.SaveSnapshot(snapshot); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	log.Info("Saved snapshot", logger.Fields{"path": store.Path(), "courses": len(snapshot.Courses)})

	if cfg.MetricsFile != "" {
		if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warn("Could not write metrics", logger.Fields{"path": cfg.MetricsFile})
		}
	}

	summary := Summarize(result, snapshot, cfg.TopN)
	summary.RunID = runID
	summary.CompletedAt = time.Now().UTC()
	summary.OutputFile = store.Path()

	if err := WriteSummary(cmd.OutOrStdout(), summary, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// compile-time check that the analyzer satisfies the runner's contract
var _ runner.Analyzer = (*analyzer.Analyzer)(nil)
