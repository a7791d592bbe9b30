package ensemble

import (
	"fmt"
	"math"

	"github.com/aayushsingh8/fake-news-prediction/pkg/prediction"
)

const (
	explanationBothFailed      = "Both models failed to predict"
	explanationTransformerOnly = "Only transformer available"
	explanationDefault         = "Ensemble prediction from transformer and judge models"
)

// DefaultWeights gives the judge model four times the say of the transformer.
var DefaultWeights = prediction.Weights{Transformer: 0.2, Judge: 0.8}

// ValidateWeights rejects negative weights and weights that do not sum to 1.
func ValidateWeights(w prediction.Weights) error {
	if w.Transformer < 0 || w.Judge < 0 {
		return fmt.Errorf("ensemble weights must be non-negative, got transformer=%v judge=%v", w.Transformer, w.Judge)
	}
	if math.Abs(w.Transformer+w.Judge-1) > 1e-9 {
		return fmt.Errorf("ensemble weights must sum to 1.0, got %v", w.Transformer+w.Judge)
	}
	return nil
}

// Combine fuses the two model outputs with DefaultWeights.
func Combine(transformer, judge *prediction.Result) prediction.Ensemble {
	return CombineWeighted(DefaultWeights, transformer, judge)
}

// CombineWeighted never fails: a nil result, or one whose label is UNKNOWN,
// is treated as a failed model and the decision degrades to the other model
// or to UNKNOWN when neither produced a usable label.
func CombineWeighted(w prediction.Weights, transformer, judge *prediction.Result) prediction.Ensemble {
	out := prediction.Ensemble{
		Models:  prediction.Models{Transformer: transformer, Judge: judge},
		Weights: w,
	}

	t := usable(transformer)
	j := usable(judge)

	switch {
	case t == nil && j == nil:
		out.Label = prediction.Unknown
		out.Confidence = 0
		out.Explanation = explanationBothFailed

	case t == nil:
		out.Label = j.Label
		out.Confidence = clamp(j.Score * w.Judge)
		out.Explanation = j.Reasoning

	case j == nil:
		out.Label = t.Label
		out.Confidence = clamp(t.Score * w.Transformer)
		out.Explanation = explanationTransformerOnly

	default:
		fakeScore := t.FakeProbability()*w.Transformer + j.FakeProbability()*w.Judge
		if fakeScore > 0.5 {
			out.Label = prediction.Fake
			out.Confidence = clamp(fakeScore)
		} else {
			out.Label = prediction.Real
			out.Confidence = clamp(1 - fakeScore)
		}
		out.Explanation = j.Reasoning
		if out.Explanation == "" {
			out.Explanation = explanationDefault
		}
	}

	return out
}

func usable(r *prediction.Result) *prediction.Result {
	if r == nil || r.Label == prediction.Unknown {
		return nil
	}
	return r
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
