package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// FeedSource names an RSS or Atom feed.
type FeedSource struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

type RSSClient struct {
	source FeedSource
	parser *gofeed.Parser
}

func NewRSSClient(source FeedSource) *RSSClient {
	parser := gofeed.NewParser()
	parser.UserAgent = "fake-news-prediction/1.0 (+trending)"
	return &RSSClient{source: source, parser: parser}
}

func (c *RSSClient) Name() string {
	return c.source.Name
}

func (c *RSSClient) Fetch(ctx context.Context, limit int) ([]Article, error) {
	feed, err := c.parser.ParseURLWithContext(c.source.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("rss %s: %w", c.source.Name, err)
	}

	publisher := c.source.Name
	if feed.Title != "" {
		publisher = feed.Title
	}

	var articles []Article
	for _, item := range feed.Items {
		if limit > 0 && len(articles) >= limit {
			break
		}
		if item.Link == "" || strings.TrimSpace(item.Title) == "" {
			continue
		}

		id := item.GUID
		if id == "" {
			id = item.Link
		}

		articles = append(articles, Article{
			ExternalID:  generateExternalID(id),
			Headline:    strings.TrimSpace(item.Title),
			Detail:      strings.TrimSpace(item.Description),
			URL:         item.Link,
			Source:      c.Name(),
			Publisher:   publisher,
			PublishedAt: itemTime(item),
			Symbols:     []string{},
		})
	}

	return articles, nil
}

func itemTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC()
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed.UTC()
	}
	return time.Time{}
}
