package handler

import (
	"context"
	"log/slog"

	"github.com/aayushsingh8/fake-news-prediction/pkg/ensemble"
	"github.com/aayushsingh8/fake-news-prediction/pkg/prediction"
)

// MeterClassifier records every call to c in the api_usage table under
// apiName. A nil store returns c unchanged.
func MeterClassifier(c ensemble.TextClassifier, store UsageStore, apiName string) ensemble.TextClassifier {
	if store == nil {
		return c
	}
	return &meteredClassifier{TextClassifier: c, store: store, apiName: apiName}
}

func MeterJudge(j ensemble.SourceAwareClassifier, store UsageStore, apiName string) ensemble.SourceAwareClassifier {
	if store == nil {
		return j
	}
	return &meteredJudge{SourceAwareClassifier: j, store: store, apiName: apiName}
}

type meteredClassifier struct {
	ensemble.TextClassifier
	store   UsageStore
	apiName string
}

func (m *meteredClassifier) Classify(ctx context.Context, text string) (*prediction.Result, error) {
	res, err := m.TextClassifier.Classify(ctx, text)
	recordUsage(ctx, m.store, m.apiName, res, err)
	return res, err
}

type meteredJudge struct {
	ensemble.SourceAwareClassifier
	store   UsageStore
	apiName string
}

func (m *meteredJudge) Classify(ctx context.Context, text, sourceURL string) (*prediction.Result, error) {
	res, err := m.SourceAwareClassifier.Classify(ctx, text, sourceURL)
	recordUsage(ctx, m.store, m.apiName, res, err)
	return res, err
}

func recordUsage(ctx context.Context, store UsageStore, apiName string, res *prediction.Result, callErr error) {
	tokens := 0
	if res != nil {
		tokens = res.TokensUsed
	}

	if err := store.RecordUsage(context.WithoutCancel(ctx), apiName, tokens, callErr != nil); err != nil {
		slog.Warn("error recording api usage", "api", apiName, "error", err)
	}
}
