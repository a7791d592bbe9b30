package extract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func testExtractor() *ArticleExtractor {
	opts := DefaultArticleOptions
	opts.BackoffMillis = 1
	return NewArticleExtractor(opts)
}

func TestExtract_ArticleSelector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>t</title><script>var x = 1;</script></head>
<body>
<nav>Home | World | Sport</nav>
<article><h1>Budget passes</h1><p>The council approved the budget.</p><p>Members voted 7 to 2.</p>
<aside>Related stories</aside></article>
<footer>Copyright</footer>
</body></html>`)
	}))
	defer srv.Close()

	text, err := testExtractor().Extract(context.Background(), srv.URL)
	assert.Equal(t, err, nil)
	assert.Equal(t, text, "Budget passes The council approved the budget. Members voted 7 to 2.")
}

func TestExtract_SkipsEmptyMatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<article><script>track()</script></article>
<div class="post-content"><p>Real body text here.</p></div>
</body></html>`)
	}))
	defer srv.Close()

	text, err := testExtractor().Extract(context.Background(), srv.URL)
	assert.Equal(t, err, nil)
	assert.Equal(t, text, "Real body text here.")
}

func TestExtract_FallsBackToBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><header>Site</header><div>First block</div><div>Second block</div></body></html>`)
	}))
	defer srv.Close()

	text, err := testExtractor().Extract(context.Background(), srv.URL)
	assert.Equal(t, err, nil)
	assert.Equal(t, text, "First block Second block")
}

func TestExtract_NonRetryableStatuses(t *testing.T) {
	tests := []struct {
		status int
		kind   Kind
	}{
		{http.StatusForbidden, AccessDenied},
		{http.StatusNotFound, NotFound},
		{http.StatusPaymentRequired, Paywalled},
		{http.StatusUnavailableForLegalReasons, Paywalled},
		{http.StatusGone, ClientError},
		{http.StatusBadRequest, ClientError},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var hits int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&hits, 1)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := testExtractor().Extract(context.Background(), srv.URL)

			var extErr *ExtractionError
			assert.Equal(t, errors.As(err, &extErr), true)
			assert.Equal(t, extErr.Kind, tt.kind)
			assert.Equal(t, extErr.Status, tt.status)
			assert.Equal(t, atomic.LoadInt32(&hits), int32(1))
		})
	}
}

func TestExtract_ServerErrorsExhaustAttempts(t *testing.T) {
	var mu sync.Mutex
	var agents []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		agents = append(agents, r.Header.Get("User-Agent"))
		mu.Unlock()
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testExtractor().Extract(context.Background(), srv.URL)
	assert.Equal(t, KindOf(err), FetchFailed)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, len(agents), len(DefaultArticleOptions.UserAgents))
	for i, ua := range agents {
		assert.Equal(t, ua, DefaultArticleOptions.UserAgents[i])
	}
}

func TestExtract_RetriesRateLimitThenSucceeds(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `<html><body><main>Third time lucky.</main></body></html>`)
	}))
	defer srv.Close()

	text, err := testExtractor().Extract(context.Background(), srv.URL)
	assert.Equal(t, err, nil)
	assert.Equal(t, text, "Third time lucky.")
	assert.Equal(t, atomic.LoadInt32(&hits), int32(3))
}

func TestExtract_TimeoutOnLastAttempt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	e := testExtractor()
	e.timeout = 20 * time.Millisecond
	e.userAgents = e.userAgents[:2]

	_, err := e.Extract(context.Background(), srv.URL)
	assert.Equal(t, KindOf(err), Timeout)
}

func TestExtract_CapsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><p>"+strings.Repeat("a", 64)+"</p></body></html>")
	}))
	defer srv.Close()

	e := testExtractor()
	e.maxBody = 32

	text, err := e.Extract(context.Background(), srv.URL)
	assert.Equal(t, err, nil)
	assert.Equal(t, len(text) < 32, true)
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"https://www.bbc.com/news/world-1", true},
		{"http://example.com", true},
		{"  HTTPS://Example.com/a  ", true},
		{"ftp://example.com/file", false},
		{"javascript:alert(1)", false},
		{"example.com/no-scheme", false},
		{"https://", false},
		{"", false},
		{"http://[::1", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ValidateURL(tt.input)
			if tt.ok {
				assert.Equal(t, err, nil)
				return
			}
			assert.Equal(t, KindOf(err), InvalidURL)
		})
	}
}

func TestExtractionErrorMessages(t *testing.T) {
	kinds := []Kind{InvalidURL, AccessDenied, NotFound, Paywalled, ClientError, FetchFailed, Timeout, InsufficientContent}
	seen := map[string]Kind{}
	for _, k := range kinds {
		msg := (&ExtractionError{Kind: k, Status: 410}).Message()
		assert.NotEqual(t, msg, "")
		if prev, dup := seen[msg]; dup {
			t.Fatalf("kinds %s and %s share message %q", prev, k, msg)
		}
		seen[msg] = k
	}
}

func TestRequireContent(t *testing.T) {
	assert.Equal(t, RequireContent(strings.Repeat("x", 50), 50), nil)
	assert.Equal(t, KindOf(RequireContent("short", 50)), InsufficientContent)
	assert.Equal(t, KindOf(errors.New("plain")), Kind(""))
}
