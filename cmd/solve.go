package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inference-sim/fracalloc/alloc"
	"github.com/inference-sim/fracalloc/alloc/config"
	"github.com/inference-sim/fracalloc/alloc/metrics"
)

func newSolveCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Find the allocation with the highest total revenue",
		Long: "Load an allocation problem (JSON or YAML), search every split of the total quantity " +
			"at the configured resolution and report the revenue-maximizing allocation.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd.Context(), v, cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("config", "", "Path to the allocation problem file (JSON, or YAML with .yaml/.yml extension)")
	cmd.Flags().Int("steps", config.DefaultSteps, "Number of intervals the total quantity is divided into")
	cmd.Flags().Float64("interval", 0, "Explicit step size; overrides --steps when positive")
	cmd.Flags().Int("workers", 1, "Evaluation workers; 1 searches sequentially, 0 uses every CPU")
	cmd.Flags().Int("batch-size", alloc.DefaultBatchSize, "Vectors handed to a worker at a time when --workers != 1")
	cmd.Flags().String("output", "text", "Report format (text, json)")
	cmd.Flags().String("output-file", "", "Write the report to this file instead of stdout")
	cmd.Flags().String("metrics-file", "", "Write search metrics in Prometheus text format to this file")
	return cmd
}

func runSolve(ctx context.Context, v *viper.Viper, stdout io.Writer) error {
	path := v.GetString("config")
	if path == "" {
		return fmt.Errorf("--config is required")
	}
	format := v.GetString("output")
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown output format %q; valid: text, json", format)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	uses, err := cfg.Uses()
	if err != nil {
		return err
	}

	interval := v.GetFloat64("interval")
	if interval <= 0 {
		interval = cfg.Interval(v.GetInt("steps"))
	}
	seq, err := alloc.Enumerate(cfg.TotalQuantity, interval, len(uses))
	if err != nil {
		return err
	}
	if count, err := alloc.PartitionCount(cfg.TotalQuantity, interval, len(uses)); err == nil {
		logrus.Infof("Searching %d allocations of %g %s across %d uses (interval %g)",
			count, cfg.TotalQuantity, cfg.QuantityUnit, len(uses), interval)
	}

	recorder := metrics.NewRecorder()
	start := time.Now()
	var res *alloc.Result
	if workers := v.GetInt("workers"); workers == 1 {
		res, err = alloc.Optimize(seq, uses)
	} else {
		res, err = alloc.OptimizeParallel(ctx, seq, uses, alloc.ParallelOptions{
			Workers:   workers,
			BatchSize: v.GetInt("batch-size"),
		})
	}
	elapsed := time.Since(start)
	if err != nil {
		recorder.ObserveError(err)
		writeMetrics(recorder, v.GetString("metrics-file"))
		return err
	}
	recorder.ObserveResult(uses, res, elapsed)
	logrus.Infof("Search complete in %v: %d evaluated, %d excluded", elapsed, res.Evaluated, res.Excluded)
	if res.Excluded > 0 {
		logrus.Warnf("%d allocations were excluded because a price model was undefined there", res.Excluded)
	}

	out := stdout
	if outPath := v.GetString("output-file"); outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	report := newReport(cfg, uses, interval, res)
	if format == "json" {
		err = report.WriteJSON(out)
	} else {
		err = report.WriteText(out)
	}
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	writeMetrics(recorder, v.GetString("metrics-file"))
	return nil
}

func writeMetrics(recorder *metrics.Recorder, path string) {
	if path == "" {
		return
	}
	if err := recorder.WriteTextfile(path); err != nil {
		logrus.Errorf("Failed to write metrics file %s: %v", path, err)
	}
}
