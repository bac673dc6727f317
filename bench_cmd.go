package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"logbench/applog"
	"logbench/bench"
	"logbench/config"
	"logbench/suite"

	"github.com/spf13/cobra"
)

func newBenchCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark console output against the structured logger",
		Long: "Run sequential, parallel and memory trials for plain console output and\n" +
			"the structured logger, and compare them side by side.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Payloads are taken verbatim; binding the flag through viper
			// would split them at commas.
			if cmd.Flags().Changed("payload") {
				payloads, err := cmd.Flags().GetStringArray("payload")
				if err != nil {
					return err
				}
				opts.v.Set("payloads", payloads)
			}
			cfg, err := config.Load(opts.v, opts.cfgFile)
			if err != nil {
				return err
			}
			return runBench(cmd.OutOrStdout(), cfg)
		},
	}

	f := cmd.Flags()
	f.IntP("iterations", "n", suite.DefaultIterations, "Iterations per trial")
	f.IntP("runs", "r", 5, "Runs per trial, the median is reported")
	f.StringArray("payload", nil, "Payload string, repeatable and taken verbatim (default: three messages of increasing length)")
	f.String("sink", "discard", "Where measured output goes: discard, stdout or a file path")
	f.StringP("output", "o", "", "Append the report to this file")
	f.String("metrics-file", "", "Write Prometheus metrics in textfile format to this path")
	f.Float64("tolerance", 0.05, "Allowed throughput deviation across runs")
	f.Duration("cooldown", 0, "Pause between runs")
	_ = opts.v.BindPFlag("iterations", f.Lookup("iterations"))
	_ = opts.v.BindPFlag("runs", f.Lookup("runs"))
	_ = opts.v.BindPFlag("sink", f.Lookup("sink"))
	_ = opts.v.BindPFlag("output", f.Lookup("output"))
	_ = opts.v.BindPFlag("metrics_file", f.Lookup("metrics-file"))
	_ = opts.v.BindPFlag("steady_tolerance", f.Lookup("tolerance"))
	_ = opts.v.BindPFlag("cooldown", f.Lookup("cooldown"))

	return cmd
}

func runBench(out io.Writer, cfg *config.Config) error {
	sink, closeSink, err := openSink(out, cfg.Sink)
	if err != nil {
		return err
	}
	defer closeSink()

	logOpts, err := cfg.Log.Options("logbench.bench")
	if err != nil {
		return err
	}
	facility, err := applog.New(sink, logOpts)
	if err != nil {
		return err
	}

	var sampler bench.MemorySampler
	if ps, err := bench.NewProcessSampler(); err != nil {
		slog.Warn("memory sampling unavailable, memory trials will be skipped", "error", err)
	} else {
		sampler = ps
	}

	rec := bench.NewRecorder()
	h := bench.NewHarness(sampler, rec)

	report, err := suite.Run(out, h, suite.Targets{
		Console: applog.NewConsole(sink),
		Logger:  facility.App,
	}, suite.Params{
		Iterations: cfg.Iterations,
		Payloads:   cfg.Payloads,
		Runs:       cfg.Runs,
		Tolerance:  cfg.SteadyTolerance,
		Cooldown:   cfg.Cooldown,
	})
	if err != nil {
		return fmt.Errorf("benchmark failed: %w", err)
	}

	fmt.Fprint(out, report.String())

	if cfg.Output != "" {
		if err := report.AppendToFile(cfg.Output); err != nil {
			return fmt.Errorf("failed to write to file %s: %w", cfg.Output, err)
		}
		fmt.Fprintf(out, "\nBenchmark results written to: %s\n", cfg.Output)
	}

	if cfg.MetricsFile != "" {
		if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
			return fmt.Errorf("failed to write metrics to %s: %w", cfg.MetricsFile, err)
		}
		slog.Info("metrics written", "path", cfg.MetricsFile)
	}
	return nil
}

// openSink resolves the sink name to a writer for the output under test.
func openSink(stdout io.Writer, name string) (io.Writer, func(), error) {
	switch name {
	case "discard":
		return io.Discard, func() {}, nil
	case "stdout":
		return stdout, func() {}, nil
	}

	f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("open sink %s: %w", name, err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			slog.Error("failed to close sink", "path", name, "error", err)
		}
	}, nil
}
