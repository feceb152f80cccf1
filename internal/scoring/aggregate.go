package scoring

import "agentready/internal/model"

// passEpsilon absorbs float rounding when a score lands on the threshold.
const passEpsilon = 1e-9

// Recommendation texts attached to individual results.
const (
	RecommendAgentAttributes = "Add data-agent-component, data-agent-action and data-agent-content attributes to key regions and controls"
	RecommendStructuredData  = "Add JSON-LD structured data describing the page"
	RecommendAriaLandmarks   = "Add ARIA landmark roles to the major page regions"
	RecommendInitialPayload  = "Serve critical content in the initial HTML payload instead of rendering it with JavaScript"
)

var warningRecommendations = map[string]string{
	WarnNoAgentAttributes: RecommendAgentAttributes,
	WarnNoStructuredData:  RecommendStructuredData,
	WarnNoAriaLandmarks:   RecommendAriaLandmarks,
}

// Evaluation is the scored view of one document.
type Evaluation struct {
	Criteria        []model.CriterionResult
	OverallScore    float64
	Passed          bool
	Grade           string
	Issues          []string
	Warnings        []string
	Recommendations []string
}

// ByName indexes the criterion results.
func (e Evaluation) ByName() map[model.CriterionName]model.CriterionResult {
	out := make(map[model.CriterionName]model.CriterionResult, len(e.Criteria))
	for _, r := range e.Criteria {
		out[r.Name] = r
	}
	return out
}

// Scorer runs the fixed criterion set under one policy.
type Scorer struct {
	policy   Policy
	criteria []Criterion
}

func NewScorer(policy Policy) (*Scorer, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{policy: policy, criteria: Criteria()}, nil
}

func (s *Scorer) Policy() Policy {
	return s.policy
}

// Evaluate scores facts against every criterion and aggregates the outcome.
func (s *Scorer) Evaluate(facts model.DocumentFacts) Evaluation {
	results := make([]model.CriterionResult, 0, len(s.criteria))
	for _, c := range s.criteria {
		results = append(results, c.Score(facts))
	}

	score, passed := Aggregate(results, s.policy)

	eval := Evaluation{
		Criteria:     results,
		OverallScore: score,
		Passed:       passed,
		Grade:        Grade(score),
		Issues:       []string{},
		Warnings:     []string{},
	}
	for _, r := range results {
		eval.Issues = append(eval.Issues, r.Issues...)
		eval.Warnings = append(eval.Warnings, r.Warnings...)
	}
	eval.Recommendations = Recommend(results, passed)
	return eval
}

// Aggregate computes the weighted overall score in [0,1] and whether it passes.
func Aggregate(results []model.CriterionResult, policy Policy) (float64, bool) {
	var score float64
	for _, r := range results {
		score += policy.Weights.For(r.Name) * r.SubScore
	}
	score = clamp01(score)
	return score, score+passEpsilon >= policy.PassThreshold
}

// Grade maps an overall score to a letter. Boundaries use the same tolerance as
// the pass check, so a passing score never grades below C.
func Grade(score float64) string {
	score += passEpsilon
	switch {
	case score >= 0.9:
		return "A"
	case score >= 0.8:
		return "B"
	case score >= 0.7:
		return "C"
	case score >= 0.6:
		return "D"
	default:
		return "F"
	}
}

// Recommend derives per-result recommendations from criterion warnings and the verdict.
func Recommend(results []model.CriterionResult, passed bool) []string {
	recs := []string{}
	for _, r := range results {
		for _, w := range r.Warnings {
			if rec, ok := warningRecommendations[w]; ok {
				recs = append(recs, rec)
			}
		}
	}
	if !passed {
		recs = append(recs, RecommendInitialPayload)
	}
	return recs
}
