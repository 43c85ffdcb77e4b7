package fetch

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"
)

const (
	userAgent   = "Mozilla/5.0 (compatible; UptradeAuditBot/1.0)"
	maxBodySize = 5 << 20
)

// Page is one fetched document: body, response headers and status.
type Page struct {
	Body       []byte
	Header     http.Header
	StatusCode int
}

type memoEntry struct {
	page *Page
	err  error
	at   time.Time
	done chan struct{} // non-nil while the fetch is in flight
}

// memoTTL keeps an entry alive long enough for every analyzer in one audit
// run to share it, without serving stale documents to later runs.
const memoTTL = 2 * time.Minute

// Cache fetches pages at most once per URL per audit run. Both the page and
// the PWA analyzers share one instance, so the target document is pulled a
// single time. Errors are memoized too.
type Cache struct {
	client *http.Client

	mu   sync.Mutex
	memo map[string]*memoEntry
}

func NewCache(timeout time.Duration) *Cache {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Cache{
		client: &http.Client{Timeout: timeout},
		memo:   map[string]*memoEntry{},
	}
}

// Get returns the memoized page for url, fetching it on first use.
// Concurrent callers for the same URL share one fetch.
func (c *Cache) Get(ctx context.Context, url string) (*Page, error) {
	c.mu.Lock()
	if e, ok := c.memo[url]; ok {
		if done := e.done; done != nil {
			c.mu.Unlock()
			<-done
			return e.page, e.err
		}
		if time.Since(e.at) < memoTTL {
			c.mu.Unlock()
			return e.page, e.err
		}
	}
	e := &memoEntry{done: make(chan struct{})}
	c.memo[url] = e
	c.mu.Unlock()

	page, err := c.fetch(ctx, url)

	c.mu.Lock()
	e.page, e.err, e.at = page, err, time.Now()
	done := e.done
	e.done = nil
	c.mu.Unlock()
	close(done)

	return page, err
}

func (c *Cache) fetch(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, err
	}

	return &Page{Body: body, Header: resp.Header, StatusCode: resp.StatusCode}, nil
}

// Head issues an uncached HEAD request, used for existence probes.
func (c *Cache) Head(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()
	return resp, nil
}
