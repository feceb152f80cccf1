// Package report aggregates compliance results and renders them for people and machines.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"agentready/internal/model"
	"agentready/internal/scoring"
)

const maxCommonIssues = 5

type summaryConfig struct {
	batchID     string
	generatedAt time.Time
	threshold   float64
}

type SummaryOption func(*summaryConfig)

func WithBatchID(id string) SummaryOption {
	return func(c *summaryConfig) { c.batchID = id }
}

func WithGeneratedAt(t time.Time) SummaryOption {
	return func(c *summaryConfig) { c.generatedAt = t }
}

// WithThreshold sets the average score below which the batch is flagged.
func WithThreshold(threshold float64) SummaryOption {
	return func(c *summaryConfig) { c.threshold = threshold }
}

// Summarize aggregates results into batch statistics and rule-based recommendations.
// Failed fetches count toward the totals with a score of zero.
func Summarize(results []model.ComplianceResult, opts ...SummaryOption) model.BatchSummary {
	cfg := summaryConfig{
		batchID:     uuid.NewString(),
		generatedAt: time.Now(),
		threshold:   scoring.DefaultPassThreshold,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	summary := model.BatchSummary{
		BatchID:          cfg.batchID,
		GeneratedAt:      cfg.generatedAt,
		Total:            len(results),
		MostCommonIssues: []model.IssueFrequency{},
		Recommendations:  []model.Recommendation{},
	}

	var scoreSum float64
	for _, r := range results {
		if r.Passed {
			summary.PassedCount++
		} else {
			summary.FailedCount++
		}
		scoreSum += r.OverallScore
		summary.TotalIssueCount += len(r.Issues)
		summary.TotalWarningCount += len(r.Warnings)
	}
	if summary.Total > 0 {
		summary.AverageScore = scoreSum / float64(summary.Total)
	}

	summary.MostCommonIssues = commonIssues(results)
	summary.Recommendations = recommend(summary, cfg.threshold)
	return summary
}

// commonIssues groups identical issue strings, ranks them by count with ties in
// first-seen order, and keeps the top five.
func commonIssues(results []model.ComplianceResult) []model.IssueFrequency {
	counts := make(map[string]int)
	var order []string
	for _, r := range results {
		for _, issue := range r.Issues {
			if _, seen := counts[issue]; !seen {
				order = append(order, issue)
			}
			counts[issue]++
		}
	}

	freqs := make([]model.IssueFrequency, 0, len(order))
	for _, issue := range order {
		freqs = append(freqs, model.IssueFrequency{
			Issue:      issue,
			Count:      counts[issue],
			Percentage: float64(counts[issue]) / float64(len(results)) * 100,
		})
	}
	sort.SliceStable(freqs, func(i, j int) bool {
		return freqs[i].Count > freqs[j].Count
	})

	if len(freqs) > maxCommonIssues {
		freqs = freqs[:maxCommonIssues]
	}
	return freqs
}

func recommend(s model.BatchSummary, threshold float64) []model.Recommendation {
	recs := []model.Recommendation{}

	if s.AverageScore < threshold {
		recs = append(recs, model.Recommendation{
			Priority: model.PriorityHigh,
			Title:    "Improve overall compliance",
			Description: fmt.Sprintf("Average score is %.1f%%, below the %.0f%% pass threshold. "+
				"Serve meaningful, semantically structured content in the initial HTML payload.",
				s.AverageScore*100, threshold*100),
		})
	}

	if len(s.MostCommonIssues) > 0 {
		top := s.MostCommonIssues[0]
		recs = append(recs, model.Recommendation{
			Priority: model.PriorityHigh,
			Title:    "Fix the most common issue",
			Description: fmt.Sprintf("%q affects %d of %d pages (%.1f%%).",
				top.Issue, top.Count, s.Total, top.Percentage),
		})
	}

	if s.FailedCount > 0 {
		recs = append(recs, model.Recommendation{
			Priority:    model.PriorityMedium,
			Title:       "Fix failing pages",
			Description: fmt.Sprintf("%d of %d pages did not pass the compliance check.", s.FailedCount, s.Total),
		})
	}

	return recs
}
