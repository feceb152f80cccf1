package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"agentready/internal/model"
	"agentready/internal/report"
	"agentready/internal/util"
)

func newBatchCommand(opts *globalOptions) *cobra.Command {
	var (
		flags       checkFlags
		urlFile     string
		summaryOnly bool
	)

	cmd := &cobra.Command{
		Use:   "batch [url...]",
		Short: "Check many pages and summarize them",
		Long: `Check every URL given as an argument or listed in --file (one per line,
blank lines and lines starting with # are ignored; "-" reads stdin).
Results keep the input order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(flags.format)
			if err != nil {
				return err
			}

			urls := append([]string(nil), args...)
			if urlFile != "" {
				listed, err := readURLFile(cmd, urlFile)
				if err != nil {
					return err
				}
				urls = append(urls, listed...)
			}
			if len(urls) == 0 {
				return fmt.Errorf("no URLs given: pass them as arguments or with --file")
			}
			for _, u := range urls {
				if !util.IsValidURL(u) {
					return fmt.Errorf("invalid url %q", u)
				}
			}

			checker, err := opts.newChecker(cmd, &flags)
			if err != nil {
				return err
			}
			results, summary, err := checker.CheckBatch(cmd.Context(), urls)
			if err != nil {
				return err
			}

			var out string
			if summaryOnly {
				out, err = report.RenderSummary(summary, format)
			} else {
				out, err = report.RenderBatch(results, summary, format)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)

			detail := fmt.Sprintf("%d/%d pages passed", summary.PassedCount, summary.Total)
			return verdict(cmd, format, model.AllPassed(results), detail)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&urlFile, "file", "", "file listing URLs, one per line")
	cmd.Flags().BoolVar(&summaryOnly, "summary", false, "print only the batch summary")
	return cmd
}

func readURLFile(cmd *cobra.Command, path string) ([]string, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open url file: %w", err)
		}
		defer f.Close()
		r = f
	}
	return parseURLList(r)
}

func parseURLList(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read url list: %w", err)
	}
	return urls, nil
}
