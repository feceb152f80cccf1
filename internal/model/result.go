package model

import "time"

// CriterionName identifies one scored compliance dimension.
type CriterionName string

const (
	CriterionStructure  CriterionName = "structure"
	CriterionSemantic   CriterionName = "semantic"
	CriterionNavigation CriterionName = "navigation"
	CriterionForms      CriterionName = "forms"
	CriterionContent    CriterionName = "content"
	CriterionAgentHints CriterionName = "agent-hints"
)

// CriterionNames lists the criteria in scoring order.
var CriterionNames = []CriterionName{
	CriterionStructure,
	CriterionSemantic,
	CriterionNavigation,
	CriterionForms,
	CriterionContent,
	CriterionAgentHints,
}

// CriterionResult is the outcome of scoring one criterion.
type CriterionResult struct {
	Name     CriterionName `json:"name"`
	SubScore float64       `json:"sub_score"`
	Issues   []string      `json:"issues"`
	Warnings []string      `json:"warnings"`
}

// ComplianceResult is the scored output for one URL. It is never mutated after the
// checker returns it.
type ComplianceResult struct {
	URL              string                            `json:"url"`
	Timestamp        time.Time                         `json:"timestamp"`
	FetchLatencyMs   int64                             `json:"fetch_latency_ms"`
	DocumentFacts    DocumentFacts                     `json:"document_facts"`
	CriterionResults map[CriterionName]CriterionResult `json:"criterion_results"`
	OverallScore     float64                           `json:"overall_score"`
	Grade            string                            `json:"grade"`
	Passed           bool                              `json:"passed"`
	Issues           []string                          `json:"issues"`
	Warnings         []string                          `json:"warnings"`
	Recommendations  []string                          `json:"recommendations"`
}

// Failed builds the zero-score result recorded when a page could not be fetched or parsed.
func Failed(url string, at time.Time, latency time.Duration, reason string) ComplianceResult {
	return ComplianceResult{
		URL:              url,
		Timestamp:        at,
		FetchLatencyMs:   latency.Milliseconds(),
		DocumentFacts:    DocumentFacts{HTMLVersion: "Unknown", SemanticElementCounts: EmptySemanticCounts()},
		CriterionResults: map[CriterionName]CriterionResult{},
		OverallScore:     0,
		Grade:            "F",
		Passed:           false,
		Issues:           []string{reason},
		Warnings:         []string{},
		Recommendations:  []string{},
	}
}
