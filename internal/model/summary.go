package model

import "time"

// Priority orders batch recommendations.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// IssueFrequency counts how often one verbatim issue string occurred across a batch.
type IssueFrequency struct {
	Issue      string  `json:"issue"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type Recommendation struct {
	Priority    Priority `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
}

// BatchSummary aggregates the results of one batch run.
type BatchSummary struct {
	BatchID           string           `json:"batch_id"`
	GeneratedAt       time.Time        `json:"generated_at"`
	Total             int              `json:"total"`
	PassedCount       int              `json:"passed_count"`
	FailedCount       int              `json:"failed_count"`
	AverageScore      float64          `json:"average_score"`
	TotalIssueCount   int              `json:"total_issue_count"`
	TotalWarningCount int              `json:"total_warning_count"`
	MostCommonIssues  []IssueFrequency `json:"most_common_issues"`
	Recommendations   []Recommendation `json:"recommendations"`
}

// AllPassed reports whether every result in a batch passed. An empty batch passes.
func AllPassed(results []ComplianceResult) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
