package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/aayushsingh8/fake-news-prediction/pkg/credibility"
	"github.com/aayushsingh8/fake-news-prediction/pkg/prediction"
	"github.com/aayushsingh8/fake-news-prediction/pkg/textclean"
)

type JudgeOptions struct {
	Temperature   float64 `toml:"temperature"`
	MaxInputChars int     `toml:"max_input_chars"`
	MaxTokens     int     `toml:"max_tokens"`
	Boost         float64 `toml:"boost"`
	BoostCap      float64 `toml:"boost_cap"`
}

var DefaultJudgeOptions = JudgeOptions{
	Temperature:   0.05,
	MaxInputChars: 8000,
	MaxTokens:     512,
	Boost:         0.1,
	BoostCap:      0.98,
}

// Judge asks a chat model to classify the text, with the source's
// credibility tier injected as context.
type Judge struct {
	chat       ChatClient
	table      *credibility.Table
	opts       JudgeOptions
	configured bool
}

func NewJudge(chat ChatClient, table *credibility.Table, opts JudgeOptions, configured bool) *Judge {
	return &Judge{chat: chat, table: table, opts: opts, configured: configured}
}

func (j *Judge) Available() bool {
	return j.configured
}

func (j *Judge) Name() string {
	return j.chat.Name()
}

type judgeVerdict struct {
	Label      string   `json:"label"`
	Confidence *float64 `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
}

func (j *Judge) Classify(ctx context.Context, text, sourceURL string) (*prediction.Result, error) {
	tier := credibility.Unknown
	if sourceURL != "" {
		tier = j.table.Classify(sourceURL)
	}

	resp, err := j.chat.Complete(ctx, ChatRequest{
		System:      buildSystemPrompt(tier, sourceURL),
		User:        buildUserPrompt(textclean.Truncate(text, j.opts.MaxInputChars)),
		Temperature: j.opts.Temperature,
		MaxTokens:   j.opts.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	content := cleanJSONResponse(resp.Content)

	verdict, err := parseVerdict(content)
	if err != nil {
		return nil, fmt.Errorf("%w, content: %s", err, content)
	}

	label := prediction.ParseLabel(verdict.Label)
	score := j.adjustConfidence(tier, label, clampUnit(*verdict.Confidence))

	return &prediction.Result{
		Label:       label,
		Score:       score,
		Reasoning:   verdict.Reasoning,
		Credibility: tier,
		Model:       resp.Model,
		TokensUsed:  resp.TokensUsed,
		Raw:         json.RawMessage(content),
	}, nil
}

func parseVerdict(content string) (*judgeVerdict, error) {
	var v judgeVerdict
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if label := prediction.ParseLabel(v.Label); label == prediction.Unknown {
		return nil, fmt.Errorf("invalid label %q", v.Label)
	}

	if v.Confidence == nil || math.IsNaN(*v.Confidence) {
		return nil, errors.New("missing confidence")
	}

	return &v, nil
}

// adjustConfidence boosts the score when the verdict agrees with what the
// source's tier predicts, capped at BoostCap.
func (j *Judge) adjustConfidence(tier credibility.Tier, label prediction.Label, score float64) float64 {
	agrees := (tier == credibility.Tier1 && label == prediction.Real) ||
		(tier == credibility.Misinformation && label == prediction.Fake)
	if !agrees {
		return score
	}
	return math.Min(j.opts.BoostCap, score+j.opts.Boost)
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around JSON.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}
