// Package pagecache serves HTML pages stale-while-revalidate: a cached page
// is returned immediately while a background request refreshes it.
package pagecache

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// OfflineBody is served with 503 when nothing can be returned
const OfflineBody = "Offline"

// Page is a captured response
type Page struct {
	Status int
	Header http.Header
	Body   []byte
}

// Cache holds precached pages and pages captured at runtime
type Cache struct {
	static  *cache.Cache
	runtime *cache.Cache
	logger  *zap.Logger
	wg      sync.WaitGroup
}

// New creates an empty cache. Runtime pages expire after five minutes.
func New(logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		static:  cache.New(cache.NoExpiration, 0),
		runtime: cache.New(5*time.Minute, 10*time.Minute),
		logger:  logger,
	}
}

// Warm requests each page from next and stores the cacheable ones in the
// static cache. It returns the number of pages stored.
func (c *Cache) Warm(ctx context.Context, next http.Handler, pages []string) int {
	stored := 0
	for _, page := range pages {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, page, nil)
		if err != nil {
			c.logger.Warn("Failed to build precache request", zap.String("page", page), zap.Error(err))
			continue
		}
		req.Header.Set("Accept", "text/html")

		p := capture(next, req)
		if !cacheable(p) {
			c.logger.Warn("Failed to precache page", zap.String("page", page), zap.Int("status", p.Status))
			continue
		}
		c.static.Set(req.URL.RequestURI(), p, cache.NoExpiration)
		stored++
	}
	return stored
}

// Lookup returns the cached page for key, preferring the runtime copy
func (c *Cache) Lookup(key string) (*Page, bool) {
	if v, ok := c.runtime.Get(key); ok {
		return v.(*Page), true
	}
	if v, ok := c.static.Get(key); ok {
		return v.(*Page), true
	}
	return nil, false
}

// Wait blocks until all background revalidations have finished
func (c *Cache) Wait() {
	c.wg.Wait()
}

// Middleware wraps next with the cache. Only GET requests that accept
// text/html are handled; everything else passes straight through.
func (c *Cache) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || !strings.Contains(r.Header.Get("Accept"), "text/html") {
			next.ServeHTTP(w, r)
			return
		}

		key := r.URL.RequestURI()
		if cached, ok := c.Lookup(key); ok && cacheable(cached) {
			c.logger.Debug("Serving cached page", zap.String("page", key))
			write(w, cached)
			c.revalidate(next, r, key)
			return
		}

		p := capture(next, r)
		if p.Status >= http.StatusInternalServerError {
			if fallback, ok := c.Lookup("/"); ok {
				c.logger.Warn("Upstream failed, serving cached root", zap.String("page", key), zap.Int("status", p.Status))
				write(w, fallback)
				return
			}
			http.Error(w, OfflineBody, http.StatusServiceUnavailable)
			return
		}

		if cacheable(p) {
			c.runtime.Set(key, p, cache.DefaultExpiration)
		}
		write(w, p)
	})
}

func (c *Cache) revalidate(next http.Handler, r *http.Request, key string) {
	req := r.Clone(context.WithoutCancel(r.Context()))

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		p := capture(next, req)
		if !cacheable(p) {
			c.logger.Debug("Keeping cached page", zap.String("page", key), zap.Int("status", p.Status))
			return
		}
		c.runtime.Set(key, p, cache.DefaultExpiration)
	}()
}

// cacheable reports whether p is a final successful response
func cacheable(p *Page) bool {
	return p.Status == http.StatusOK && p.Header.Get("Location") == ""
}

func write(w http.ResponseWriter, p *Page) {
	for k, v := range p.Header {
		w.Header()[k] = append([]string(nil), v...)
	}
	w.WriteHeader(p.Status)
	_, _ = w.Write(p.Body)
}

func capture(next http.Handler, r *http.Request) *Page {
	rec := &recorder{header: http.Header{}}
	next.ServeHTTP(rec, r)
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	return &Page{Status: rec.status, Header: rec.header, Body: rec.body.Bytes()}
}

// recorder buffers a response so it can be cached before being written
type recorder struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (r *recorder) Header() http.Header { return r.header }

func (r *recorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
}

func (r *recorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.body.Write(b)
}
