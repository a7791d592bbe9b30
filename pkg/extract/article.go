package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

type ArticleOptions struct {
	TimeoutSeconds int      `toml:"timeout_seconds"`
	BackoffMillis  int      `toml:"backoff_ms"`
	MaxBodyBytes   int64    `toml:"max_body_bytes"`
	UserAgents     []string `toml:"user_agents"`
	RemoveTags     []string `toml:"remove_tags"`
	Selectors      []string `toml:"selectors"`
}

var DefaultArticleOptions = ArticleOptions{
	TimeoutSeconds: 10,
	BackoffMillis:  500,
	MaxBodyBytes:   5 << 20,
	UserAgents: []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
		"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1",
	},
	RemoveTags: []string{"script", "style", "nav", "footer", "header", "aside", "iframe", "noscript"},
	Selectors: []string{
		"article",
		`[role="main"]`,
		`[itemprop="articleBody"]`,
		".article-content",
		".article-body",
		".story-body",
		".post-content",
		".entry-content",
		"main",
	},
}

// ArticleExtractor downloads a page and pulls out its main text.
type ArticleExtractor struct {
	client     *http.Client
	timeout    time.Duration
	backoff    time.Duration
	maxBody    int64
	userAgents []string
	removeTags string
	selectors  []string
}

func NewArticleExtractor(opts ArticleOptions) *ArticleExtractor {
	if len(opts.UserAgents) == 0 {
		opts.UserAgents = DefaultArticleOptions.UserAgents
	}
	if len(opts.RemoveTags) == 0 {
		opts.RemoveTags = DefaultArticleOptions.RemoveTags
	}
	if len(opts.Selectors) == 0 {
		opts.Selectors = DefaultArticleOptions.Selectors
	}
	if opts.TimeoutSeconds <= 0 {
		opts.TimeoutSeconds = DefaultArticleOptions.TimeoutSeconds
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultArticleOptions.MaxBodyBytes
	}

	return &ArticleExtractor{
		client:     &http.Client{},
		timeout:    time.Duration(opts.TimeoutSeconds) * time.Second,
		backoff:    time.Duration(opts.BackoffMillis) * time.Millisecond,
		maxBody:    opts.MaxBodyBytes,
		userAgents: append([]string(nil), opts.UserAgents...),
		removeTags: strings.Join(opts.RemoveTags, ", "),
		selectors:  append([]string(nil), opts.Selectors...),
	}
}

// retryable marks an attempt failure that should move on to the next user agent.
type retryable struct {
	timeout bool
	err     error
}

func (r *retryable) Error() string { return r.err.Error() }

// Extract fetches rawURL, cycling through user agents on 5xx, 429, network
// errors and timeouts with exponential backoff between attempts. Other 4xx
// responses fail at once. An empty string with a nil error means the page
// had no text; the caller decides whether that is enough.
func (e *ArticleExtractor) Extract(ctx context.Context, rawURL string) (string, error) {
	target, err := ValidateURL(rawURL)
	if err != nil {
		return "", err
	}

	var last *retryable
	for attempt, userAgent := range e.userAgents {
		if attempt > 0 {
			delay := e.backoff << (attempt - 1)
			select {
			case <-ctx.Done():
				return "", newError(FetchFailed, 0, ctx.Err())
			case <-time.After(delay):
			}
		}

		body, err := e.fetch(ctx, target, userAgent)
		if err == nil {
			return e.parse(body)
		}

		var retry *retryable
		if !errors.As(err, &retry) {
			return "", err
		}
		last = retry

		slog.Debug("article fetch attempt failed", "url", target, "attempt", attempt+1, "error", retry.err)

		if ctx.Err() != nil {
			break
		}
	}

	if last != nil && last.timeout {
		return "", newError(Timeout, 0, last.err)
	}
	var lastErr error
	if last != nil {
		lastErr = last.err
	}
	return "", newError(FetchFailed, 0, fmt.Errorf("all %d attempts failed: %w", len(e.userAgents), lastErr))
}

// ValidateURL accepts absolute http and https URLs only.
func ValidateURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", newError(InvalidURL, 0, err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", newError(InvalidURL, 0, fmt.Errorf("unsupported scheme %q", parsed.Scheme))
	}
	if parsed.Hostname() == "" {
		return "", newError(InvalidURL, 0, errors.New("missing host"))
	}

	return parsed.String(), nil
}

func (e *ArticleExtractor) fetch(ctx context.Context, target, userAgent string) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, target, nil)
	if err != nil {
		return nil, newError(InvalidURL, 0, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, &retryable{timeout: isTimeout(err), err: err}
	}
	defer resp.Body.Close()

	status := resp.StatusCode
	switch {
	case status >= 200 && status < 300:
		body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBody))
		if err != nil {
			return nil, &retryable{timeout: isTimeout(err), err: fmt.Errorf("read body: %w", err)}
		}
		return body, nil

	case status == http.StatusTooManyRequests || status >= 500:
		return nil, &retryable{err: fmt.Errorf("status %d", status)}

	case status == http.StatusForbidden:
		return nil, newError(AccessDenied, status, fmt.Errorf("status %d", status))

	case status == http.StatusNotFound:
		return nil, newError(NotFound, status, fmt.Errorf("status %d", status))

	case status == http.StatusPaymentRequired || status == http.StatusUnavailableForLegalReasons:
		return nil, newError(Paywalled, status, fmt.Errorf("status %d", status))

	case status >= 400:
		return nil, newError(ClientError, status, fmt.Errorf("status %d", status))

	default:
		return nil, &retryable{err: fmt.Errorf("unexpected status %d", status)}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (e *ArticleExtractor) parse(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", newError(FetchFailed, 0, fmt.Errorf("parse html: %w", err))
	}

	doc.Find(e.removeTags).Remove()

	for _, selector := range e.selectors {
		var text string
		doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			text = selectionText(s)
			return text == ""
		})
		if text != "" {
			return text, nil
		}
	}

	return selectionText(doc.Find("body")), nil
}

var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "main": true, "blockquote": true,
	"figcaption": true, "tr": true, "td": true, "th": true, "pre": true,
}

// selectionText concatenates text nodes, separating block elements with a
// space so adjacent paragraphs do not run together.
func selectionText(s *goquery.Selection) string {
	var sb strings.Builder
	for _, n := range s.Nodes {
		writeNodeText(n, &sb)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

func writeNodeText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.CommentNode:
		return
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		sb.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNodeText(c, sb)
	}
	if block {
		sb.WriteByte(' ')
	}
}
