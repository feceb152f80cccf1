package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"agentready/internal/model"
	"agentready/internal/report"
	"agentready/internal/util"
)

func newCheckCommand(opts *globalOptions) *cobra.Command {
	var (
		flags    checkFlags
		htmlFile string
	)

	cmd := &cobra.Command{
		Use:   "check <url>",
		Short: "Check a single page",
		Long: `Fetch a page and score it. With --html the markup is read from a local
file instead and the URL only labels the result.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(flags.format)
			if err != nil {
				return err
			}
			target := args[0]
			if htmlFile == "" && !util.IsValidURL(target) {
				return fmt.Errorf("invalid url %q", target)
			}

			checker, err := opts.newChecker(cmd, &flags)
			if err != nil {
				return err
			}

			var result model.ComplianceResult
			if htmlFile != "" {
				raw, err := os.ReadFile(htmlFile)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", htmlFile, err)
				}
				result = checker.CheckHTML(target, string(raw))
			} else {
				result, err = checker.CheckURL(cmd.Context(), target)
				if err != nil {
					return err
				}
			}

			out, err := report.RenderResult(result, format)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)

			return verdict(cmd, format, result.Passed, result.URL)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&htmlFile, "html", "", "score markup from this file instead of fetching")
	return cmd
}
