// Package fetch performs the actual network checks: rate-limited,
// retrying HTTP fetches, soft-failure detection, binary change tracking
// and the final outcome classification.
package fetch

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vporoshin/docdecay/internal/cache"
	"github.com/vporoshin/docdecay/internal/model"
	"github.com/vporoshin/docdecay/internal/util"
	"github.com/vporoshin/docdecay/internal/worker"
)

// ErrRobotsDisallowed marks a URL the site's robots.txt forbids for our agent.
var ErrRobotsDisallowed = errors.New("disallowed by robots.txt")

// fetchSleepFunc is the sleep function used between retries (injectable for tests)
var fetchSleepFunc = time.Sleep

// Client is the shared HTTP fetcher. All outbound traffic of the tool goes
// through it: per-host rate limiting, retry with exponential backoff on
// transport errors, capped body reads and optional robots.txt gating.
type Client struct {
	httpClient *http.Client
	limiter    *worker.HostLimiter
	robots     *util.RobotsGate
	store      cache.Cache
	userAgent  string
	maxBody    int64
	retry      model.RetryConfig
	cacheTTL   time.Duration
}

// NewClient builds a fetcher from the HTTP, retry and cache sections of the
// configuration. Pass a nil store to disable caching.
func NewClient(cfg model.HTTPConfig, retry model.RetryConfig, store cache.Cache, ttl time.Duration) *Client {
	maxRedirects := cfg.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = 5
	}

	transport := &http.Transport{
		Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
	}
	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		limiter:   worker.NewHostLimiter(cfg.RequestsPerSecond),
		store:     store,
		userAgent: cfg.UserAgent,
		maxBody:   cfg.MaxBodyBytes,
		retry:     retry,
		cacheTTL:  ttl,
	}
	if c.maxBody <= 0 {
		c.maxBody = 4_000_000
	}
	if c.retry.MaxRetries <= 0 {
		c.retry.MaxRetries = 1
	}
	if c.retry.Base <= 0 {
		c.retry.Base = time.Second
	}
	if c.retry.Multiplier <= 0 {
		c.retry.Multiplier = 4
	}
	if cfg.RespectRobots {
		c.robots = util.NewRobotsGate(cfg.UserAgent, 10*time.Second)
	}
	return c
}

// Get fetches a URL with the full body, retrying transport errors.
func (c *Client) Get(ctx context.Context, rawURL string) model.FetchResult {
	return c.fetch(ctx, http.MethodGet, rawURL)
}

// Head fetches only the headers of a URL, retrying transport errors.
func (c *Client) Head(ctx context.Context, rawURL string) model.FetchResult {
	return c.fetch(ctx, http.MethodHead, rawURL)
}

// fetch runs one rate-limited request with up to MaxRetries attempts. Only
// transport errors are retried; any HTTP status answer is final.
func (c *Client) fetch(ctx context.Context, method, rawURL string) model.FetchResult {
	if method == http.MethodGet && c.store != nil {
		if cached, ok := c.cachedResult(rawURL); ok {
			return cached
		}
	}

	result := model.FetchResult{URL: rawURL, FinalURL: rawURL}

	for attempt := 0; attempt < c.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retry.Base
			for i := 1; i < attempt; i++ {
				delay = time.Duration(float64(delay) * c.retry.Multiplier)
			}
			fetchSleepFunc(delay)
		}

		if err := c.limiter.Wait(ctx, rawURL); err != nil {
			result.Err = err
			result.ErrDetail = err.Error()
			return result
		}

		if c.robots != nil && !c.robots.Allowed(ctx, rawURL) {
			result.Err = ErrRobotsDisallowed
			result.ErrDetail = ErrRobotsDisallowed.Error()
			return result
		}

		res, retryable := c.attempt(ctx, method, rawURL)
		if res.Err == nil || !retryable {
			if res.Err == nil && method == http.MethodGet && c.store != nil {
				c.storeResult(res)
			}
			return res
		}
		result = res

		if ctx.Err() != nil {
			return result
		}
	}
	return result
}

// attempt performs exactly one request. The second return value reports
// whether a failure is worth retrying.
func (c *Client) attempt(ctx context.Context, method, rawURL string) (model.FetchResult, bool) {
	result := model.FetchResult{URL: rawURL, FinalURL: rawURL}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		result.Err = err
		result.ErrDetail = err.Error()
		return result, false
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "*/*")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	result.Elapsed = time.Since(start)
	result.ElapsedMS = float64(result.Elapsed.Microseconds()) / 1000

	if err != nil {
		result.Err = err
		result.ErrDetail = err.Error()
		return result, true
	}
	defer func() { _ = resp.Body.Close() }()

	result.StatusCode = resp.StatusCode
	result.ContentType = resp.Header.Get("Content-Type")
	result.ContentLength = resp.ContentLength
	if resp.Request != nil && resp.Request.URL != nil {
		result.FinalURL = resp.Request.URL.String()
	}

	if method == http.MethodGet {
		body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
		if err != nil {
			result.Err = fmt.Errorf("read body: %w", err)
			result.ErrDetail = result.Err.Error()
			return result, true
		}
		result.Body = body
		result.ContentLength = int64(len(body))
		sum := sha256.Sum256(body)
		result.ContentHash = hex.EncodeToString(sum[:])
	}

	return result, false
}

// cachedEntry is the serialized form of a FetchResult in the cache. The body
// travels base64-encoded through encoding/json.
type cachedEntry struct {
	Result model.FetchResult `json:"result"`
	Body   []byte            `json:"body,omitempty"`
}

func (c *Client) cachedResult(rawURL string) (model.FetchResult, bool) {
	raw, ok := c.store.Get(cache.Key(rawURL))
	if !ok {
		return model.FetchResult{}, false
	}
	var entry cachedEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		_ = c.store.Delete(cache.Key(rawURL))
		return model.FetchResult{}, false
	}
	entry.Result.Body = entry.Body
	return entry.Result, true
}

func (c *Client) storeResult(res model.FetchResult) {
	entry := cachedEntry{Result: res, Body: res.Body}
	entry.Result.Body = nil
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_ = c.store.Set(cache.Key(res.URL), raw, c.cacheTTL)
}

// SetHostRate narrows the limiter ceiling for one host, e.g. when a site
// answers 429.
func (c *Client) SetHostRate(host string, requestsPerSecond float64) {
	c.limiter.SetHostRate(host, requestsPerSecond)
}
