package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aayushsingh8/fake-news-prediction/pkg/prediction"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://router.huggingface.co/hf-inference/models"

var errEmptyPredictions = errors.New("empty prediction list")

// HuggingFaceClient calls a hosted binary sequence-classification model.
type HuggingFaceClient struct {
	token    string
	modelID  string
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

// NewHuggingFaceClient builds a client for modelID. If baseURL is empty the
// inference router is used.
func NewHuggingFaceClient(token, modelID, baseURL string) *HuggingFaceClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &HuggingFaceClient{
		token:    token,
		modelID:  modelID,
		endpoint: strings.TrimRight(baseURL, "/") + "/" + modelID,
		client:   &http.Client{Timeout: 60 * time.Second},
		limiter:  rate.NewLimiter(rate.Every(100*time.Millisecond), 5),
	}
}

func (c *HuggingFaceClient) Available() bool {
	return c.token != ""
}

func (c *HuggingFaceClient) Name() string {
	return "huggingface/" + c.modelID
}

type inferenceRequest struct {
	Inputs  string           `json:"inputs"`
	Options inferenceOptions `json:"options"`
}

type inferenceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify returns the highest-scoring label. Any transport, status or
// decoding problem is returned as an error so the caller can degrade.
func (c *HuggingFaceClient) Classify(ctx context.Context, text string) (*prediction.Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(inferenceRequest{
		Inputs:  text,
		Options: inferenceOptions{WaitForModel: true},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("huggingface request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("huggingface API error (status %d): %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	predictions, err := decodePredictions(respBody)
	if err != nil {
		return nil, err
	}

	top := predictions[0]
	for _, p := range predictions[1:] {
		if p.Score > top.Score {
			top = p
		}
	}

	return &prediction.Result{
		Label: mapLabel(top.Label),
		Score: top.Score,
		Model: c.modelID,
		Raw:   json.RawMessage(respBody),
	}, nil
}

// decodePredictions accepts both the flat [{label,score}] shape and the
// nested [[{label,score}]] shape the router returns for single inputs.
func decodePredictions(body []byte) ([]labelScore, error) {
	var flat []labelScore
	if err := json.Unmarshal(body, &flat); err == nil {
		if len(flat) == 0 {
			return nil, errEmptyPredictions
		}
		return flat, nil
	}

	var nested [][]labelScore
	if err := json.Unmarshal(body, &nested); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if len(nested) == 0 || len(nested[0]) == 0 {
		return nil, errEmptyPredictions
	}
	return nested[0], nil
}

func mapLabel(label string) prediction.Label {
	lower := strings.ToLower(label)
	switch {
	case strings.Contains(lower, "fake") || label == "LABEL_0":
		return prediction.Fake
	case strings.Contains(lower, "real") || label == "LABEL_1":
		return prediction.Real
	default:
		return prediction.Unknown
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
