package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>BBC News - World</title>
  <link>https://www.bbc.com/news/world</link>
  <item>
    <title>Summit ends with joint statement</title>
    <link>https://www.bbc.com/news/world-1</link>
    <guid>world-1</guid>
    <description>Leaders agreed on a framework.</description>
    <pubDate>Mon, 05 Jan 2026 10:00:00 GMT</pubDate>
  </item>
  <item>
    <title>   </title>
    <link>https://www.bbc.com/news/world-2</link>
  </item>
  <item>
    <title>Storm warning issued</title>
    <link>https://www.bbc.com/news/world-3</link>
    <pubDate>Mon, 05 Jan 2026 08:00:00 GMT</pubDate>
  </item>
</channel>
</rss>`

func TestRSSFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, testFeed)
	}))
	defer srv.Close()

	client := NewRSSClient(FeedSource{Name: "BBC", URL: srv.URL})
	articles, err := client.Fetch(context.Background(), 10)

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(articles))

	a := articles[0]
	assert.Equal(t, "Summit ends with joint statement", a.Headline)
	assert.Equal(t, "Leaders agreed on a framework.", a.Detail)
	assert.Equal(t, "https://www.bbc.com/news/world-1", a.URL)
	assert.Equal(t, "BBC", a.Source)
	assert.Equal(t, "BBC News - World", a.Publisher)
	assert.Equal(t, generateExternalID("world-1"), a.ExternalID)
	assert.Equal(t, 10, a.PublishedAt.Hour())

	assert.Equal(t, generateExternalID("https://www.bbc.com/news/world-3"), articles[1].ExternalID)
}

func TestRSSFetch_Limit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testFeed)
	}))
	defer srv.Close()

	articles, err := NewRSSClient(FeedSource{Name: "BBC", URL: srv.URL}).Fetch(context.Background(), 1)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(articles))
}

func TestRSSFetch_BadFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewRSSClient(FeedSource{Name: "Gone", URL: srv.URL}).Fetch(context.Background(), 5)
	assert.NotEqual(t, nil, err)
}
