// Package fetch retrieves the initial HTML payload of a page: one GET, no script
// execution, no retries.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"agentready/internal/cache"
	"agentready/internal/log"
)

const (
	DefaultUserAgent    = "agentready/1.0 (+compliance-checker)"
	DefaultTimeout      = 10 * time.Second
	DefaultMaxPageBytes = 5 << 20
)

var (
	ErrInvalidTimeout   = errors.New("timeout must not be negative")
	ErrUnexpectedStatus = errors.New("unexpected status code")
)

// Response is the raw result of a successful fetch.
type Response struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       string
	// Latency covers the request and body read, not time spent throttled.
	Latency time.Duration
}

// Fetcher retrieves one page. Any transport failure or non-2xx status is an error.
type Fetcher interface {
	Fetch(ctx context.Context, targetURL string) (*Response, error)
}

// Error describes why a page was unreachable. Its text is reported verbatim.
type Error struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch %s: %v: %d", e.URL, ErrUnexpectedStatus, e.StatusCode)
	}
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	if e.StatusCode != 0 {
		return ErrUnexpectedStatus
	}
	return e.Err
}

type Options struct {
	UserAgent    string
	Timeout      time.Duration
	MaxPageBytes int64
	// RateLimit is the per-host request rate in requests per second; zero disables it.
	RateLimit float64
	RateBurst int
	// CacheTTL keeps successful responses for reuse; zero disables caching.
	CacheTTL time.Duration
}

func (o Options) withDefaults() Options {
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.MaxPageBytes <= 0 {
		o.MaxPageBytes = DefaultMaxPageBytes
	}
	if o.RateBurst < 1 {
		o.RateBurst = 1
	}
	return o
}

// HTTPFetcher fetches pages over HTTP(S).
type HTTPFetcher struct {
	client *http.Client
	opts   Options
	cache  *cache.Store[*Response]

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewHTTPFetcher(opts Options) (*HTTPFetcher, error) {
	return NewHTTPFetcherWithClient(&http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        64,
			MaxIdleConnsPerHost: 8,
			IdleConnTimeout:     90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}, opts)
}

// NewHTTPFetcherWithClient uses the given client; its Timeout is left untouched and
// the per-fetch timeout is applied through the request context.
func NewHTTPFetcherWithClient(client *http.Client, opts Options) (*HTTPFetcher, error) {
	if opts.Timeout < 0 {
		return nil, ErrInvalidTimeout
	}
	opts = opts.withDefaults()
	return &HTTPFetcher{
		client:   client,
		opts:     opts,
		cache:    cache.New[*Response](opts.CacheTTL),
		limiters: make(map[string]*rate.Limiter),
	}, nil
}

func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL string) (*Response, error) {
	if cached, ok := f.cache.Get(targetURL); ok {
		log.Logger.Debug("serving cached response", zap.String("url", targetURL))
		return cached, nil
	}

	parsed, err := url.Parse(targetURL)
	if err != nil {
		return nil, &Error{URL: targetURL, Err: err}
	}

	// Throttling waits on the caller's context; the timeout covers only the request.
	if limiter := f.limiter(parsed.Host); limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return nil, &Error{URL: targetURL, Err: err}
		}
	}

	start := time.Now()
	if f.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, &Error{URL: targetURL, Err: err}
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		log.Logger.Warn("failed to fetch URL",
			zap.String("url", targetURL),
			zap.Error(err),
		)
		return nil, &Error{URL: targetURL, Err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.Logger.Warn("failed to close response body", zap.Error(cerr))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Logger.Warn("unexpected status code",
			zap.String("url", targetURL),
			zap.Int("status_code", resp.StatusCode),
		)
		return nil, &Error{URL: targetURL, StatusCode: resp.StatusCode}
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, io.LimitReader(resp.Body, f.opts.MaxPageBytes)); err != nil {
		log.Logger.Warn("failed to read response body",
			zap.String("url", targetURL),
			zap.Error(err),
		)
		return nil, &Error{URL: targetURL, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	out := &Response{
		URL:        targetURL,
		StatusCode: resp.StatusCode,
		Headers:    resp.Header.Clone(),
		Body:       sb.String(),
		Latency:    time.Since(start),
	}
	f.cache.Set(targetURL, out)

	log.Logger.Debug("fetched page",
		zap.String("url", targetURL),
		zap.Int("content_length", len(out.Body)),
		zap.Int("status_code", out.StatusCode),
	)
	return out, nil
}

// limiter returns the rate limiter for a host, or nil when limiting is off.
func (f *HTTPFetcher) limiter(host string) *rate.Limiter {
	if f.opts.RateLimit <= 0 {
		return nil
	}
	host = strings.ToLower(host)

	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.limiters[host]
	if !ok {
		l = rate.NewLimiter(rate.Limit(f.opts.RateLimit), f.opts.RateBurst)
		f.limiters[host] = l
	}
	return l
}
