package news

import (
	"context"
	"strconv"
	"strings"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

type FinnHubClient struct {
	client *finnhub.DefaultApiService
}

// NewFinnHubClient talks to the Finnhub market news endpoint. baseURL is
// empty in production and points at a test server otherwise.
func NewFinnHubClient(apiKey, baseURL string) *FinnHubClient {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	if baseURL != "" {
		cfg.Servers = []finnhub.ServerConfiguration{{URL: baseURL}}
	}
	client := finnhub.NewAPIClient(cfg).DefaultApi
	return &FinnHubClient{client: client}
}

func (c *FinnHubClient) Fetch(ctx context.Context, limit int) ([]Article, error) {
	res, _, err := c.client.MarketNews(ctx).Category("general").Execute()
	if err != nil {
		return nil, err
	}

	var articles []Article

	for _, news := range res {
		if limit > 0 && len(articles) >= limit {
			break
		}

		a := Article{
			Source: c.Name(),
		}

		if news.Id != nil {
			a.ExternalID = strconv.FormatInt(*news.Id, 10)
		}

		if news.Headline != nil {
			a.Headline = *news.Headline
		}

		if news.Summary != nil {
			a.Detail = *news.Summary
		}

		if news.Url != nil {
			a.URL = *news.Url
		}

		if news.Datetime != nil {
			a.PublishedAt = time.Unix(*news.Datetime, 0).UTC()
		}

		if news.Source != nil {
			a.Publisher = *news.Source
		}

		if news.Related != nil && *news.Related != "" {
			a.Symbols = strings.Split(*news.Related, ",")
		} else {
			a.Symbols = []string{}
		}

		articles = append(articles, a)
	}

	return articles, nil
}

func (c *FinnHubClient) Name() string {
	return "FinnHub"
}
