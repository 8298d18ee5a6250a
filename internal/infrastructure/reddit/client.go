// Package reddit is the comment-source collaborator: it fetches thread
// comment trees and subreddit search results over Reddit's public JSON
// endpoints. Rate limiting, backoff and the circuit breaker live here;
// no scoring logic does.
package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/DFATPUNK/scraping-reddit/internal/domain"
)

// ErrSourceForbidden marks a source that refuses access (403/404-class
// responses). Callers skip such sources instead of retrying them.
var ErrSourceForbidden = errors.New("source forbidden or not found")

const (
	defaultBaseURL   = "https://www.reddit.com"
	defaultUserAgent = "ai-agents-scraper/1.0"
	maxAttempts      = 5
	backoffBase      = time.Second
)

// PageCache caches raw endpoint payloads between runs. The Redis
// implementation lives in infrastructure/cache; nil disables caching.
type PageCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
}

// Options configures the client. Zero values fall back to defaults.
type Options struct {
	BaseURL           string
	UserAgent         string
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
	Cache             PageCache
}

// Client fetches Reddit listings with a shared token-bucket rate
// limiter and a circuit breaker around the HTTP edge.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	breaker   *gobreaker.CircuitBreaker
	cache     PageCache
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 1
	}
	if opts.Burst <= 0 {
		opts.Burst = 2
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "reddit",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		baseURL:   opts.BaseURL,
		userAgent: opts.UserAgent,
		http:      &http.Client{Timeout: opts.Timeout},
		limiter:   rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		breaker:   breaker,
		cache:     opts.Cache,
	}
}

// FetchThread loads a thread by URL or permalink and returns the
// submission plus its flattened comments as raw items, capped at limit
// when limit > 0. Discovery order follows display order.
func (c *Client) FetchThread(ctx context.Context, threadURL string, limit int) (*Thread, []domain.RawItem, error) {
	jsonURL, err := c.toJSONURL(threadURL)
	if err != nil {
		return nil, nil, fmt.Errorf("thread url %q: %w", threadURL, err)
	}

	body, err := c.get(ctx, jsonURL)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch thread: %w", err)
	}

	var listings []listing
	if err := json.Unmarshal([]byte(body), &listings); err != nil {
		return nil, nil, fmt.Errorf("decode thread payload: %w", err)
	}
	if len(listings) < 2 || len(listings[0].Data.Children) == 0 {
		return nil, nil, fmt.Errorf("unexpected thread payload shape")
	}

	post := listings[0].Data.Children[0].Data
	thread := &Thread{
		ID:        post.ID,
		Title:     post.Title,
		SelfText:  post.SelfText,
		Subreddit: post.Subreddit,
		Author:    post.Author,
		URL:       permalinkURL(post.Permalink),
	}

	comments := flattenComments(listings[1].Data.Children)
	if limit > 0 && len(comments) > limit {
		comments = comments[:limit]
	}

	items := make([]domain.RawItem, 0, len(comments))
	for i, cm := range comments {
		items = append(items, toRawItem(thread, cm, i))
	}

	log.Debug().Str("thread", thread.ID).Int("comments", len(items)).Msg("Fetched thread")
	return thread, items, nil
}

// Search finds recent submissions matching query within a subreddit and
// returns refs for FetchThread.
func (c *Client) Search(ctx context.Context, subreddit, query string, limit int) ([]ThreadRef, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("restrict_sr", "1")
	q.Set("sort", "new")
	q.Set("limit", strconv.Itoa(limit))
	endpoint := fmt.Sprintf("%s/r/%s/search.json?%s", c.baseURL, url.PathEscape(subreddit), q.Encode())

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("search r/%s %q: %w", subreddit, query, err)
	}

	var result listing
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		return nil, fmt.Errorf("decode search payload: %w", err)
	}

	refs := make([]ThreadRef, 0, len(result.Data.Children))
	for _, ch := range result.Data.Children {
		if ch.Kind != "t3" {
			continue
		}
		refs = append(refs, ThreadRef{
			ID:        ch.Data.ID,
			Subreddit: ch.Data.Subreddit,
			Permalink: permalinkURL(ch.Data.Permalink),
		})
	}
	return refs, nil
}

// get performs one cached, rate-limited, breaker-guarded GET with
// exponential backoff on transient failures. Forbidden sources fail
// fast: retrying a 404 never helps.
func (c *Client) get(ctx context.Context, endpoint string) (string, error) {
	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, endpoint); ok {
			return cached, nil
		}
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}

		body, err := c.breaker.Execute(func() (interface{}, error) {
			return c.doGet(ctx, endpoint)
		})
		if err == nil {
			payload := body.(string)
			if c.cache != nil {
				c.cache.Set(ctx, endpoint, payload)
			}
			return payload, nil
		}
		if errors.Is(err, ErrSourceForbidden) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}

		lastErr = err
		delay := backoffBase * time.Duration(1<<(attempt-1))
		log.Warn().Err(err).Int("attempt", attempt).Dur("backoff", delay).
			Str("endpoint", endpoint).Msg("Transient fetch failure")
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}
	return "", fmt.Errorf("gave up after %d attempts: %w", maxAttempts, lastErr)
}

func (c *Client) doGet(ctx context.Context, endpoint string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%s: %w", endpoint, ErrSourceForbidden)
	default:
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, endpoint)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(data), nil
}

// toJSONURL appends Reddit's .json suffix unless already present, and
// rebases permalinks onto the configured host.
func (c *Client) toJSONURL(threadURL string) (string, error) {
	u, err := url.Parse(threadURL)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		u, err = url.Parse(c.baseURL + threadURL)
		if err != nil {
			return "", err
		}
	}
	path := u.Path
	if !strings.HasSuffix(path, ".json") {
		path = strings.TrimSuffix(path, "/") + "/.json"
	}
	u.Path = path
	u.RawQuery = ""
	return u.String(), nil
}
