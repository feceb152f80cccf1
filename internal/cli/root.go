// Package cli implements the agentready command tree.
package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"agentready/internal/config"
	"agentready/internal/fetch"
	"agentready/internal/log"
	"agentready/internal/report"
	"agentready/internal/service"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

// ErrNonCompliant reports that at least one checked page did not pass.
var ErrNonCompliant = errors.New("one or more pages did not pass")

type globalOptions struct {
	cfgFile string
	debug   bool
	cfg     *config.Config
}

func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "agentready",
		Short: "Score web pages for AI agent readiness",
		Long: `agentready fetches the initial HTML payload of web pages and scores how well
an automated agent can understand and operate them: document structure,
semantic markup, navigation, forms, content and explicit agent hints.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.cfgFile)
			if err != nil {
				return err
			}
			if opts.debug {
				cfg.Debug = true
			}
			log.InitLogger(cfg.Debug)
			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (yaml, json or env)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(newCheckCommand(opts))
	cmd.AddCommand(newBatchCommand(opts))
	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "agentready version %s\n", Version)
		},
	})

	return cmd
}

// checkFlags are shared by the commands that score pages.
type checkFlags struct {
	format    string
	threshold float64
}

func (f *checkFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", string(report.FormatText), "output format: text, json or table")
	cmd.Flags().Float64Var(&f.threshold, "threshold", 0, "pass threshold in [0,1] (default from config)")
}

func (o *globalOptions) newChecker(cmd *cobra.Command, flags *checkFlags) (*service.Checker, error) {
	policy := o.cfg.Policy()
	if cmd.Flags().Changed("threshold") {
		policy = policy.WithPassThreshold(flags.threshold)
	}

	fetcher, err := fetch.NewHTTPFetcher(o.cfg.FetchOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to create fetcher: %w", err)
	}
	return service.NewChecker(fetcher, policy, service.WithConcurrency(o.cfg.Concurrency))
}

// verdict prints a coloured pass/fail line to stderr for human formats and
// turns a failure into ErrNonCompliant.
func verdict(cmd *cobra.Command, format report.Format, passed bool, detail string) error {
	if format != report.FormatJSON {
		w := cmd.ErrOrStderr()
		if passed {
			color.New(color.FgGreen, color.Bold).Fprintf(w, "PASS %s\n", detail)
		} else {
			color.New(color.FgRed, color.Bold).Fprintf(w, "FAIL %s\n", detail)
		}
	}
	if !passed {
		return ErrNonCompliant
	}
	return nil
}
