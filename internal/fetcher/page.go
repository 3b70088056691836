package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"
	acceptHTML     = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptLanguage = "ro-RO,ro;q=0.9,en-US;q=0.8,en;q=0.7,ru;q=0.6"

	maxBodyBytes = 5 << 20
	maxRedirects = 5
	hostBurst    = 2
)

type page struct {
	body        []byte
	contentType string
	url         *url.URL
}

// pageClient performs GET requests with browser-like headers and a per-host
// rate limit.
type pageClient struct {
	client *http.Client
	limit  rate.Limit

	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	log *slog.Logger
}

func newPageClient(rps float64, log *slog.Logger) *pageClient {
	return &pageClient{
		client: &http.Client{
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		limit:    rate.Limit(rps),
		limiters: make(map[string]*rate.Limiter),
		log:      log,
	}
}

func (c *pageClient) get(ctx context.Context, rawURL string, accept string) (page, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return page{}, permanent(fmt.Errorf("parse URL: %w", err))
	}
	if u.Host == "" {
		return page{}, permanent(errors.New("parse URL: host is missing"))
	}

	if err = c.wait(ctx, u.Host); err != nil {
		return page{}, fmt.Errorf("wait for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return page{}, permanent(fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", acceptLanguage)

	resp, err := c.client.Do(req) //nolint:gosec // URL comes from a filtered user message.
	if err != nil {
		return page{}, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			c.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"url", rawURL)
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return page{}, fmt.Errorf("do request: unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return page{}, fmt.Errorf("read body: %w", err)
	}

	return page{
		body:        body,
		contentType: strings.ToLower(resp.Header.Get("Content-Type")),
		url:         resp.Request.URL,
	}, nil
}

func (c *pageClient) wait(ctx context.Context, host string) error {
	if c.limit <= 0 {
		return nil
	}

	return c.limiter(strings.ToLower(host)).Wait(ctx)
}

func (c *pageClient) limiter(host string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	limiter, ok := c.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(c.limit, hostBurst)
		c.limiters[host] = limiter
	}

	return limiter
}

func (c *pageClient) prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for host, limiter := range c.limiters {
		if limiter.Tokens() >= hostBurst {
			delete(c.limiters, host)
			removed++
		}
	}

	return removed
}
