package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"logbench/applog"
	"logbench/config"
	"logbench/demo"

	"github.com/spf13/cobra"
)

var demoScenarios = []string{"compare", "network", "levels", "cmdline", "clear", "all"}

// allScenarios is what "all" runs; clear is left out so the board survives.
var allScenarios = []string{"compare", "network", "levels", "cmdline"}

func newDemoCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "demo [compare|network|levels|cmdline|clear|all]",
		Short:     "Show console output and structured logs side by side",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: demoScenarios,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.v, opts.cfgFile)
			if err != nil {
				return err
			}
			scenario := "all"
			if len(args) == 1 {
				scenario = args[0]
			}
			return runDemo(cmd.Context(), cmd.OutOrStdout(), cfg, scenario)
		},
	}

	f := cmd.Flags()
	f.StringP("user", "u", "", "User name fed to the comparison scenario")
	f.Duration("network-delay", demo.DefaultNetworkDelay, "Latency of the simulated network request")
	_ = opts.v.BindPFlag("demo.user_name", f.Lookup("user"))
	_ = opts.v.BindPFlag("demo.network_delay", f.Lookup("network-delay"))

	return cmd
}

func runDemo(ctx context.Context, out io.Writer, cfg *config.Config, scenario string) error {
	logOpts, err := cfg.Log.Options("logbench.demo")
	if err != nil {
		return err
	}
	facility, err := applog.New(out, logOpts)
	if err != nil {
		return err
	}

	d := demo.New(facility, applog.NewConsole(out))
	d.Delay = cfg.Demo.NetworkDelay
	facility.UI.Info("demo started", "scenario", scenario)
	d.Board.Add("📱 Demo started")

	steps := map[string]func() error{
		"compare": func() error {
			return d.Compare(cfg.Demo.UserName)
		},
		"network": func() error {
			res, err := d.Network(ctx)
			if err != nil {
				return fmt.Errorf("network simulation: %w", err)
			}
			if !res.Success {
				facility.App.Notice("simulated request failed", "status", res.StatusCode)
			}
			return nil
		},
		"levels": func() error {
			d.Levels()
			return nil
		},
		"cmdline": d.CommandLine,
		"clear": func() error {
			d.Clear()
			return nil
		},
	}

	order := []string{scenario}
	if scenario == "all" {
		order = allScenarios
	}

	var errs []error
	for _, name := range order {
		step, ok := steps[name]
		if !ok {
			return fmt.Errorf("unknown scenario %q", name)
		}
		fmt.Fprintf(out, "\n── %s ──\n", name)
		if err := step(); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			errs = append(errs, err)
		}
	}

	fmt.Fprintln(out, "\n── Message board ──")
	for _, msg := range d.Board.Messages() {
		fmt.Fprintf(out, "  %s\n", msg)
	}
	return errors.Join(errs...)
}
