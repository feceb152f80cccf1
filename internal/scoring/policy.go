package scoring

import (
	"errors"
	"fmt"
	"math"

	"agentready/internal/model"
)

// DefaultPassThreshold is the minimum overall score for a passing page.
const DefaultPassThreshold = 0.70

const weightTolerance = 1e-9

var ErrInvalidPolicy = errors.New("invalid scoring policy")

// Weights are the contribution of each scored criterion to the overall score.
// The agent-hints criterion has no weight.
type Weights struct {
	Structure  float64 `json:"structure"`
	Semantic   float64 `json:"semantic"`
	Navigation float64 `json:"navigation"`
	Forms      float64 `json:"forms"`
	Content    float64 `json:"content"`
}

// For returns the weight of a criterion, zero for unweighted ones.
func (w Weights) For(name model.CriterionName) float64 {
	switch name {
	case model.CriterionStructure:
		return w.Structure
	case model.CriterionSemantic:
		return w.Semantic
	case model.CriterionNavigation:
		return w.Navigation
	case model.CriterionForms:
		return w.Forms
	case model.CriterionContent:
		return w.Content
	default:
		return 0
	}
}

func (w Weights) Sum() float64 {
	return w.Structure + w.Semantic + w.Navigation + w.Forms + w.Content
}

// Policy is the immutable scoring configuration handed to a Scorer.
type Policy struct {
	Weights       Weights
	PassThreshold float64
}

// DefaultPolicy returns the standard weight table and the 70% pass threshold.
func DefaultPolicy() Policy {
	return Policy{
		Weights: Weights{
			Structure:  0.20,
			Semantic:   0.25,
			Navigation: 0.20,
			Forms:      0.10,
			Content:    0.25,
		},
		PassThreshold: DefaultPassThreshold,
	}
}

// WithPassThreshold returns a copy of the policy with another threshold.
func (p Policy) WithPassThreshold(threshold float64) Policy {
	p.PassThreshold = threshold
	return p
}

func (p Policy) Validate() error {
	w := p.Weights
	for _, v := range []float64{w.Structure, w.Semantic, w.Navigation, w.Forms, w.Content} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%w: negative or NaN weight %v", ErrInvalidPolicy, v)
		}
	}
	if math.Abs(w.Sum()-1.0) > weightTolerance {
		return fmt.Errorf("%w: weights sum to %v, want 1.0", ErrInvalidPolicy, w.Sum())
	}
	if p.PassThreshold < 0 || p.PassThreshold > 1 || math.IsNaN(p.PassThreshold) {
		return fmt.Errorf("%w: pass threshold %v outside [0,1]", ErrInvalidPolicy, p.PassThreshold)
	}
	return nil
}

// String renders the policy for logs.
func (p Policy) String() string {
	w := p.Weights
	return fmt.Sprintf("structure=%.2f semantic=%.2f navigation=%.2f forms=%.2f content=%.2f threshold=%.2f",
		w.Structure, w.Semantic, w.Navigation, w.Forms, w.Content, p.PassThreshold)
}
