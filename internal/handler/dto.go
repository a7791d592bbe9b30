package handler

import (
	"encoding/json"

	"github.com/aayushsingh8/fake-news-prediction/pkg/credibility"
	"github.com/aayushsingh8/fake-news-prediction/pkg/prediction"
)

type TextRequest struct {
	Text string `json:"text"`
}

type URLRequest struct {
	URL string `json:"url"`
}

type DocumentRequest struct {
	File     string `json:"file"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
}

// EnsembleRequest carries exactly one of Text, URL or File.
type EnsembleRequest struct {
	Text      string `json:"text"`
	SourceURL string `json:"sourceUrl"`
	URL       string `json:"url"`
	File      string `json:"file"`
	Filename  string `json:"filename"`
	MimeType  string `json:"mimeType"`
}

type PredictionResponse struct {
	Text        string           `json:"text"`
	Label       prediction.Label `json:"label"`
	Score       float64          `json:"score"`
	Explanation string           `json:"explanation"`
	Model       string           `json:"model,omitempty"`
	Filename    string           `json:"filename,omitempty"`
	Raw         json.RawMessage  `json:"raw,omitempty"`
}

type ExtractURLResponse struct {
	ExtractedText string             `json:"extracted_text"`
	Prediction    PredictionResponse `json:"prediction"`
}

type EnsembleResponse struct {
	Text              string              `json:"text"`
	Label             prediction.Label    `json:"label"`
	Score             float64             `json:"score"`
	Explanation       string              `json:"explanation"`
	SourceCredibility credibility.Tier    `json:"sourceCredibility"`
	Ensemble          prediction.Ensemble `json:"ensemble"`
	Raw               prediction.Models   `json:"raw"`
}

type CredibilityResponse struct {
	URL         string           `json:"url"`
	Host        string           `json:"host"`
	Credibility credibility.Tier `json:"credibility"`
}

type TrendingArticleResponse struct {
	Headline    string   `json:"headline"`
	Detail      string   `json:"detail"`
	URL         string   `json:"url"`
	Source      string   `json:"source"`
	Publisher   string   `json:"publisher"`
	PublishedAt string   `json:"published_at"`
	Symbols     []string `json:"symbols"`
	Credibility string   `json:"credibility"`
}

type TrendingResponse struct {
	Articles []TrendingArticleResponse `json:"articles"`
	Total    int                       `json:"total"`
	Limit    int                       `json:"limit"`
	Sources  []string                  `json:"sources"`
}

type UsageResponse struct {
	ApiName      string `json:"api_name"`
	UsageDate    string `json:"usage_date"`
	RequestCount int    `json:"request_count"`
	ErrorCount   int    `json:"error_count"`
	TokenCount   int    `json:"token_count"`
}

type UsageListResponse struct {
	Usage []UsageResponse `json:"usage"`
	Days  int             `json:"days"`
}
