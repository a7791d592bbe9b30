package news

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Aggregator fans out to every configured source and merges the results.
type Aggregator struct {
	clients []NewsClient
	timeout time.Duration
}

func NewAggregator(timeout time.Duration, clients ...NewsClient) *Aggregator {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Aggregator{clients: clients, timeout: timeout}
}

func (a *Aggregator) Sources() []string {
	names := make([]string, 0, len(a.clients))
	for _, c := range a.clients {
		names = append(names, c.Name())
	}
	return names
}

// Fetch returns up to limit articles, newest first, deduplicated by URL. A
// failing source is logged and skipped.
func (a *Aggregator) Fetch(ctx context.Context, limit int) []Article {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	results := make([][]Article, len(a.clients))
	var wg sync.WaitGroup
	for i, client := range a.clients {
		wg.Add(1)
		go func(i int, client NewsClient) {
			defer wg.Done()

			articles, err := client.Fetch(ctx, limit)
			if err != nil {
				slog.Error("error fetching articles", "source", client.Name(), "error", err)
				return
			}
			slog.Debug("fetch complete", "source", client.Name(), "count", len(articles))
			results[i] = articles
		}(i, client)
	}
	wg.Wait()

	seen := make(map[string]bool)
	var merged []Article
	for _, articles := range results {
		for _, a := range articles {
			if a.URL == "" || seen[a.URL] {
				continue
			}
			seen[a.URL] = true
			merged = append(merged, a)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PublishedAt.After(merged[j].PublishedAt)
	})

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
