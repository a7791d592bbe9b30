package llm

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/aayushsingh8/fake-news-prediction/pkg/credibility"
	"github.com/aayushsingh8/fake-news-prediction/pkg/prediction"
	"github.com/go-playground/assert/v2"
)

type fakeChat struct {
	content string
	err     error
	lastReq ChatRequest
}

func (f *fakeChat) Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &ChatResponse{Content: f.content, Model: "test-model", TokensUsed: 42}, nil
}

func (f *fakeChat) Name() string { return "fake/test-model" }

func testJudge(chat ChatClient) *Judge {
	table := credibility.NewTable(credibility.Lists{
		Tier1:          []string{"bbc.com"},
		Tier2:          []string{"cnn.com"},
		Satire:         []string{"theonion.com"},
		Misinformation: []string{"infowars.com"},
	})
	return NewJudge(chat, table, DefaultJudgeOptions, true)
}

func approxEqual(t *testing.T, want, got float64) {
	t.Helper()
	if math.Abs(want-got) > 1e-9 {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain JSON unchanged",
			input: `{"label":"REAL"}`,
			want:  `{"label":"REAL"}`,
		},
		{
			name:  "strips json fenced block",
			input: "```json\n{\"label\":\"REAL\"}\n```",
			want:  `{"label":"REAL"}`,
		},
		{
			name:  "strips plain fenced block",
			input: "```\n{\"label\":\"REAL\"}\n```",
			want:  `{"label":"REAL"}`,
		},
		{
			name:  "trims surrounding whitespace",
			input: "  {\"label\":\"REAL\"}  ",
			want:  `{"label":"REAL"}`,
		},
		{
			name:  "drops surrounding prose",
			input: "Here is my answer: {\"label\":\"FAKE\"} Hope this helps.",
			want:  `{"label":"FAKE"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cleanJSONResponse(tt.input)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJudgeClassify(t *testing.T) {
	chat := &fakeChat{content: "```json\n{\"label\":\"FAKE\",\"confidence\":0.87,\"reasoning\":\"Anonymous sources only.\"}\n```"}

	res, err := testJudge(chat).Classify(context.Background(), "Some article text", "")

	assert.Equal(t, nil, err)
	assert.Equal(t, prediction.Fake, res.Label)
	assert.Equal(t, 0.87, res.Score)
	assert.Equal(t, "Anonymous sources only.", res.Reasoning)
	assert.Equal(t, credibility.Unknown, res.Credibility)
	assert.Equal(t, "test-model", res.Model)
	assert.Equal(t, 42, res.TokensUsed)

	assert.Equal(t, judgeSystemPrompt, chat.lastReq.System)
	assert.Equal(t, userPromptPrefix+"Some article text", chat.lastReq.User)
	assert.Equal(t, 0.05, chat.lastReq.Temperature)
}

func TestJudgeTruncatesInput(t *testing.T) {
	chat := &fakeChat{content: `{"label":"REAL","confidence":0.6,"reasoning":"ok"}`}
	long := strings.Repeat("a", 9000)

	_, err := testJudge(chat).Classify(context.Background(), long, "")

	assert.Equal(t, nil, err)
	assert.Equal(t, len(userPromptPrefix)+8000, len(chat.lastReq.User))
}

func TestJudgeSourceGuidance(t *testing.T) {
	tests := []struct {
		url      string
		tier     credibility.Tier
		contains string
	}{
		{"https://www.bbc.com/news/1", credibility.Tier1, "TIER 1 CREDIBLE SOURCE (https://www.bbc.com/news/1)"},
		{"https://edition.cnn.com/x", credibility.Tier2, "TIER 2 CREDIBLE SOURCE"},
		{"https://www.theonion.com/x", credibility.Satire, "KNOWN SATIRE SITE"},
		{"https://infowars.com/x", credibility.Misinformation, "default to FAKE"},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			chat := &fakeChat{content: `{"label":"REAL","confidence":0.5,"reasoning":"r"}`}

			res, err := testJudge(chat).Classify(context.Background(), "text", tt.url)

			assert.Equal(t, nil, err)
			assert.Equal(t, tt.tier, res.Credibility)
			assert.Equal(t, true, strings.HasPrefix(chat.lastReq.System, judgeSystemPrompt))
			assert.Equal(t, true, strings.Contains(chat.lastReq.System, tt.contains))
		})
	}
}

func TestJudgeConfidenceBoost(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		content string
		label   prediction.Label
		want    float64
	}{
		{
			name:    "tier1 agrees with REAL",
			url:     "https://bbc.com/a",
			content: `{"label":"REAL","confidence":0.8,"reasoning":"r"}`,
			label:   prediction.Real,
			want:    0.9,
		},
		{
			name:    "boost capped",
			url:     "https://bbc.com/a",
			content: `{"label":"REAL","confidence":0.95,"reasoning":"r"}`,
			label:   prediction.Real,
			want:    0.98,
		},
		{
			name:    "tier1 disagrees, no boost",
			url:     "https://bbc.com/a",
			content: `{"label":"FAKE","confidence":0.7,"reasoning":"r"}`,
			label:   prediction.Fake,
			want:    0.7,
		},
		{
			name:    "misinformation agrees with FAKE",
			url:     "https://infowars.com/a",
			content: `{"label":"fake","confidence":0.85,"reasoning":"r"}`,
			label:   prediction.Fake,
			want:    0.95,
		},
		{
			name:    "tier2 never boosted",
			url:     "https://cnn.com/a",
			content: `{"label":"REAL","confidence":0.8,"reasoning":"r"}`,
			label:   prediction.Real,
			want:    0.8,
		},
		{
			name:    "confidence clamped",
			url:     "",
			content: `{"label":"REAL","confidence":7,"reasoning":"r"}`,
			label:   prediction.Real,
			want:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := testJudge(&fakeChat{content: tt.content}).Classify(context.Background(), "text", tt.url)

			assert.Equal(t, nil, err)
			assert.Equal(t, tt.label, res.Label)
			approxEqual(t, tt.want, res.Score)
		})
	}
}

func TestJudgeRejectsBadResponses(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "I think this is fake."},
		{name: "unknown label", content: `{"label":"MISLEADING","confidence":0.9,"reasoning":"r"}`},
		{name: "missing confidence", content: `{"label":"REAL","reasoning":"r"}`},
		{name: "confidence as string", content: `{"label":"REAL","confidence":"high","reasoning":"r"}`},
		{name: "truncated", content: `{"label":"REAL","confidence":0.9,`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := testJudge(&fakeChat{content: tt.content}).Classify(context.Background(), "text", "")

			assert.NotEqual(t, nil, err)
			assert.Equal(t, true, res == nil)
		})
	}
}

func TestJudgeTransportError(t *testing.T) {
	res, err := testJudge(&fakeChat{err: errors.New("status 502")}).Classify(context.Background(), "text", "")

	assert.NotEqual(t, nil, err)
	assert.Equal(t, true, res == nil)
}

func TestJudgeAvailable(t *testing.T) {
	assert.Equal(t, true, testJudge(&fakeChat{}).Available())
	assert.Equal(t, false, NewJudge(&fakeChat{}, credibility.NewTable(credibility.Lists{}), DefaultJudgeOptions, false).Available())
}
