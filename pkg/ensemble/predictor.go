package ensemble

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aayushsingh8/fake-news-prediction/pkg/prediction"
)

type TextClassifier interface {
	Classify(ctx context.Context, text string) (*prediction.Result, error)
	Available() bool
	Name() string
}

type SourceAwareClassifier interface {
	Classify(ctx context.Context, text, sourceURL string) (*prediction.Result, error)
	Available() bool
	Name() string
}

// Predictor runs the transformer and the judge concurrently and combines
// whatever they return once both have settled.
type Predictor struct {
	transformer TextClassifier
	judge       SourceAwareClassifier
	weights     prediction.Weights
}

func NewPredictor(transformer TextClassifier, judge SourceAwareClassifier, weights prediction.Weights) *Predictor {
	return &Predictor{
		transformer: transformer,
		judge:       judge,
		weights:     weights,
	}
}

// Available reports whether both upstream models have credentials.
func (p *Predictor) Available() bool {
	return p.transformer.Available() && p.judge.Available()
}

func (p *Predictor) Weights() prediction.Weights {
	return p.weights
}

func (p *Predictor) Predict(ctx context.Context, text, sourceURL string) prediction.Ensemble {
	var (
		wg                sync.WaitGroup
		transformerResult *prediction.Result
		judgeResult       *prediction.Result
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		res, err := p.transformer.Classify(ctx, text)
		if err != nil {
			slog.Warn("transformer prediction failed", "model", p.transformer.Name(), "error", err)
			return
		}
		transformerResult = res
	}()

	go func() {
		defer wg.Done()
		res, err := p.judge.Classify(ctx, text, sourceURL)
		if err != nil {
			slog.Warn("judge prediction failed", "model", p.judge.Name(), "error", err)
			return
		}
		judgeResult = res
	}()

	wg.Wait()

	return CombineWeighted(p.weights, transformerResult, judgeResult)
}
