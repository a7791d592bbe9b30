package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aayushsingh8/fake-news-prediction/internal/model"
	"github.com/aayushsingh8/fake-news-prediction/pkg/credibility"
	"github.com/aayushsingh8/fake-news-prediction/pkg/news"
)

const trendingCacheKey = "fakenews:cache:trending:%d"

type NewsFetcher interface {
	Fetch(ctx context.Context, limit int) []news.Article
	Sources() []string
}

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type TrendingHandler struct {
	fetcher      NewsFetcher
	table        *credibility.Table
	cache        Cache
	ttl          time.Duration
	defaultLimit int
}

// NewTrendingHandler serves aggregated headlines. cache may be nil.
func NewTrendingHandler(fetcher NewsFetcher, table *credibility.Table, cache Cache, ttl time.Duration, defaultLimit int) *TrendingHandler {
	if defaultLimit < 1 {
		defaultLimit = 20
	}
	return &TrendingHandler{
		fetcher:      fetcher,
		table:        table,
		cache:        cache,
		ttl:          ttl,
		defaultLimit: defaultLimit,
	}
}

func (h *TrendingHandler) GetTrending(c *gin.Context) {
	const maxLimit = 100

	ctx := c.Request.Context()
	limit := getQueryBounded(c, "limit", h.defaultLimit, maxLimit)
	key := fmt.Sprintf(trendingCacheKey, limit)

	if h.cache != nil {
		cached, err := h.cache.Get(ctx, key)
		if err != nil {
			slog.Warn("error reading trending cache", "error", err)
		} else if cached != "" {
			var res TrendingResponse
			if err := json.Unmarshal([]byte(cached), &res); err == nil {
				c.JSON(http.StatusOK, res)
				return
			}
		}
	}

	articles := h.annotate(h.fetcher.Fetch(ctx, limit))

	res := TrendingResponse{
		Articles: make([]TrendingArticleResponse, 0, len(articles)),
		Total:    len(articles),
		Limit:    limit,
		Sources:  h.fetcher.Sources(),
	}
	for _, a := range articles {
		res.Articles = append(res.Articles, TrendingArticleResponse{
			Headline:    a.Headline,
			Detail:      a.Detail,
			URL:         a.URL,
			Source:      a.Source,
			Publisher:   a.Publisher,
			PublishedAt: a.PublishedAt.Format(time.RFC3339),
			Symbols:     a.Symbols,
			Credibility: a.Credibility,
		})
	}

	if h.cache != nil && len(articles) > 0 {
		if data, err := json.Marshal(res); err == nil {
			if err := h.cache.Set(ctx, key, string(data), h.ttl); err != nil {
				slog.Warn("error writing trending cache", "error", err)
			}
		}
	}

	c.JSON(http.StatusOK, res)
}

func (h *TrendingHandler) annotate(articles []news.Article) []model.TrendingArticle {
	out := make([]model.TrendingArticle, 0, len(articles))
	for _, a := range articles {
		symbols := a.Symbols
		if symbols == nil {
			symbols = []string{}
		}
		out = append(out, model.TrendingArticle{
			ExternalID:  a.ExternalID,
			Headline:    a.Headline,
			Detail:      a.Detail,
			URL:         a.URL,
			Source:      a.Source,
			Publisher:   a.Publisher,
			PublishedAt: a.PublishedAt,
			Symbols:     symbols,
			Credibility: string(h.table.Classify(a.URL)),
		})
	}
	return out
}
