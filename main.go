package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"logbench/applog"
	"logbench/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// rootOptions are shared by every subcommand.
type rootOptions struct {
	v       *viper.Viper
	cfgFile string
	debug   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{v: config.New()}

	root := &cobra.Command{
		Use:   "logbench",
		Short: "Console output vs structured logging",
		Long: "Compare unstructured console output against a structured, privacy-aware\n" +
			"logging facility, and benchmark the cost of both.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := applog.LevelInfo
			if opts.debug {
				level = applog.LevelDebug
			}
			diag, err := applog.New(cmd.ErrOrStderr(), applog.Options{
				Subsystem: "logbench",
				Level:     level,
				Format:    applog.FormatAuto,
			})
			if err != nil {
				return err
			}
			diag.SetDefault()
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.cfgFile, "config", "c", "", "Path to configuration file (default ./logbench.yaml)")
	pf.BoolVar(&opts.debug, "debug", false, "Enable debug diagnostics on stderr")
	pf.String("log-level", "info", "Level of the logger under test: debug, info, notice, error, fault")
	pf.String("log-format", applog.FormatAuto, "Format of the logger under test: auto, json, text")
	pf.String("log-backend", applog.BackendSlog, "Backend of the logger under test: slog, zerolog")
	pf.Bool("reveal-private", false, "Print private values instead of redacting them")
	_ = opts.v.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = opts.v.BindPFlag("log.format", pf.Lookup("log-format"))
	_ = opts.v.BindPFlag("log.backend", pf.Lookup("log-backend"))
	_ = opts.v.BindPFlag("log.reveal_private", pf.Lookup("reveal-private"))

	root.AddCommand(newBenchCmd(opts))
	root.AddCommand(newDemoCmd(opts))
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "logbench version %s\n", version)
		},
	}
}
