package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"agentready/internal/model"
)

type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatTable:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want text, json or table)", s)
	}
}

// BatchReport is the JSON document for a batch run.
type BatchReport struct {
	Results []model.ComplianceResult `json:"results"`
	Summary model.BatchSummary       `json:"summary"`
}

// RenderResult renders one result. The table format renders the criterion breakdown.
func RenderResult(r model.ComplianceResult, f Format) (string, error) {
	switch f {
	case FormatJSON:
		return marshal(r)
	case FormatTable:
		return criteriaTable(r), nil
	case FormatText:
		return resultText(r), nil
	default:
		return "", fmt.Errorf("unknown report format %q", f)
	}
}

// RenderSummary renders batch statistics on their own.
func RenderSummary(s model.BatchSummary, f Format) (string, error) {
	switch f {
	case FormatJSON:
		return marshal(s)
	case FormatText, FormatTable:
		return summaryText(s), nil
	default:
		return "", fmt.Errorf("unknown report format %q", f)
	}
}

// RenderBatch renders every result followed by the summary.
func RenderBatch(results []model.ComplianceResult, s model.BatchSummary, f Format) (string, error) {
	switch f {
	case FormatJSON:
		return marshal(BatchReport{Results: results, Summary: s})
	case FormatTable:
		return resultsTable(results) + "\n" + summaryText(s), nil
	case FormatText:
		var sb strings.Builder
		for _, r := range results {
			sb.WriteString(resultText(r))
			sb.WriteString("\n")
		}
		sb.WriteString(summaryText(s))
		return sb.String(), nil
	default:
		return "", fmt.Errorf("unknown report format %q", f)
	}
}

func marshal(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	return string(b) + "\n", nil
}

func status(passed bool) string {
	if passed {
		return "PASSED"
	}
	return "FAILED"
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func resultText(r model.ComplianceResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "URL: %s\n", r.URL)
	fmt.Fprintf(&sb, "Score: %s (%s)\n", percent(r.OverallScore), r.Grade)
	fmt.Fprintf(&sb, "Status: %s\n", status(r.Passed))

	if len(r.CriterionResults) > 0 {
		sb.WriteString("Criteria:\n")
		for _, name := range model.CriterionNames {
			if c, ok := r.CriterionResults[name]; ok {
				fmt.Fprintf(&sb, "  %-12s %s\n", name, percent(c.SubScore))
			}
		}
	}

	writeList(&sb, "Issues", r.Issues)
	writeList(&sb, "Warnings", r.Warnings)
	writeList(&sb, "Recommendations", r.Recommendations)
	return sb.String()
}

func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s:\n", heading)
	for _, item := range items {
		fmt.Fprintf(sb, "  - %s\n", item)
	}
}

func summaryText(s model.BatchSummary) string {
	var sb strings.Builder
	sb.WriteString("Batch Summary\n")
	fmt.Fprintf(&sb, "Total: %d  Passed: %d  Failed: %d\n", s.Total, s.PassedCount, s.FailedCount)
	fmt.Fprintf(&sb, "Average score: %s\n", percent(s.AverageScore))
	fmt.Fprintf(&sb, "Issues: %d  Warnings: %d\n", s.TotalIssueCount, s.TotalWarningCount)

	if len(s.MostCommonIssues) > 0 {
		sb.WriteString("Most common issues:\n")
		for _, f := range s.MostCommonIssues {
			fmt.Fprintf(&sb, "  - %s (%d, %.1f%%)\n", f.Issue, f.Count, f.Percentage)
		}
	}
	if len(s.Recommendations) > 0 {
		sb.WriteString("Recommendations:\n")
		for _, r := range s.Recommendations {
			fmt.Fprintf(&sb, "  - [%s] %s: %s\n", strings.ToUpper(string(r.Priority)), r.Title, r.Description)
		}
	}
	return sb.String()
}

func criteriaTable(r model.ComplianceResult) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle(r.URL)
	t.AppendHeader(table.Row{"Criterion", "Score", "Issues", "Warnings"})
	for _, name := range model.CriterionNames {
		c, ok := r.CriterionResults[name]
		if !ok {
			continue
		}
		t.AppendRow(table.Row{name, percent(c.SubScore), len(c.Issues), len(c.Warnings)})
	}
	t.AppendFooter(table.Row{"Overall", percent(r.OverallScore), r.Grade, status(r.Passed)})
	return t.Render() + "\n"
}

func resultsTable(results []model.ComplianceResult) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "URL", "Score", "Grade", "Status", "Issues", "Warnings"})
	for i, r := range results {
		t.AppendRow(table.Row{
			i + 1,
			r.URL,
			percent(r.OverallScore),
			r.Grade,
			status(r.Passed),
			len(r.Issues),
			len(r.Warnings),
		})
	}
	return t.Render() + "\n"
}
