// Package prediction holds the values exchanged between the model clients,
// the ensemble combiner and the API layer.
package prediction

import (
	"encoding/json"
	"strings"

	"github.com/aayushsingh8/fake-news-prediction/pkg/credibility"
)

type Label string

const (
	Real    Label = "REAL"
	Fake    Label = "FAKE"
	Unknown Label = "UNKNOWN"
)

// ParseLabel accepts REAL/FAKE in any case and surrounding whitespace.
func ParseLabel(s string) Label {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(Real):
		return Real
	case string(Fake):
		return Fake
	default:
		return Unknown
	}
}

// Result is one model's output. It is not modified after the client returns it.
type Result struct {
	Label       Label            `json:"label"`
	Score       float64          `json:"score"`
	Reasoning   string           `json:"reasoning,omitempty"`
	Credibility credibility.Tier `json:"sourceCredibility,omitempty"`
	Model       string           `json:"model,omitempty"`
	TokensUsed  int              `json:"-"`
	Raw         json.RawMessage  `json:"raw,omitempty"`
}

// FakeProbability converts the result into the probability that the content
// is FAKE, regardless of which label the model emitted.
func (r *Result) FakeProbability() float64 {
	if r.Label == Fake {
		return r.Score
	}
	return 1 - r.Score
}

type Models struct {
	Transformer *Result `json:"transformer,omitempty"`
	Judge       *Result `json:"judge,omitempty"`
}

type Weights struct {
	Transformer float64 `json:"transformer" toml:"transformer_weight"`
	Judge       float64 `json:"judge" toml:"judge_weight"`
}

// Ensemble is the fused decision for a single request.
type Ensemble struct {
	Label       Label   `json:"label"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
	Models      Models  `json:"models"`
	Weights     Weights `json:"weights"`
}
