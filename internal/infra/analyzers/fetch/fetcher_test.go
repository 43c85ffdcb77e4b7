package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetMemoizesPerURL(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("X-Probe", "yes")
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	c := NewCache(5 * time.Second)
	ctx := context.Background()

	first, err := c.Get(ctx, srv.URL+"/")
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	second, err := c.Get(ctx, srv.URL+"/")
	if err != nil {
		t.Fatalf("second get: %v", err)
	}

	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("server hit %d times, want 1", got)
	}
	if first != second {
		t.Error("memoized calls must return the same page")
	}
	if first.Header.Get("X-Probe") != "yes" || first.StatusCode != http.StatusOK {
		t.Errorf("page = %+v, headers and status must survive memoization", first)
	}
}

func TestGetDeduplicatesConcurrentFetches(t *testing.T) {
	var hits int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		<-release
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewCache(5 * time.Second)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Get(ctx, srv.URL+"/"); err != nil {
				t.Errorf("get: %v", err)
			}
		}()
	}

	// give every goroutine time to reach the cache before the fetch resolves
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("server hit %d times, want a single shared fetch", got)
	}
}

func TestGetMemoizesErrors(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/"
	srv.Close()

	c := NewCache(time.Second)
	ctx := context.Background()

	if _, err := c.Get(ctx, url); err == nil {
		t.Fatal("want a connection error from the closed server")
	}
	if _, err := c.Get(ctx, url); err == nil {
		t.Fatal("the error must be memoized too")
	}
}

func TestHeadIsUncached(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s, want HEAD", r.Method)
		}
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	c := NewCache(time.Second)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		resp, err := c.Head(ctx, srv.URL+"/robots.txt")
		if err != nil {
			t.Fatalf("head: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d", resp.StatusCode)
		}
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("server hit %d times, want 2 uncached probes", got)
	}
}
