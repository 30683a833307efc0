// Package slack implements the chat-platform ports over the Slack Web API.
// Calls are form-encoded POSTs against https://slack.com/api; responses
// share the ok/error envelope. Rate-limit signals (HTTP 429 or an in-body
// "ratelimited" error) trigger a server-directed wait and a retry of the
// same call; every other non-ok response is an error.
package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/minsu-dev/fortune-bot/pkg/logger"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://slack.com/api"

// defaultRetryAfter is used when a rate-limited response carries no
// parsable Retry-After header.
const defaultRetryAfter = 2 * time.Second

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	// sleep is the wait primitive for rate-limit retries; injectable so
	// tests do not block.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewClient(token string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
		sleep:   sleepCtx,
	}
}

// envelope is the part of every Slack response shared across methods.
type envelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type responseMetadata struct {
	NextCursor string `json:"next_cursor"`
}

// call POSTs a Web API method and returns the raw body of the first
// successful (ok=true) response. Rate-limit signals are retried
// indefinitely after the server-specified interval plus one second; the
// only way out of the retry loop is success, a non-rate-limit failure, or
// context cancellation.
func (c *Client) call(ctx context.Context, method string, params url.Values) ([]byte, error) {
	endpoint := c.baseURL + "/" + method

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
		if err != nil {
			return nil, fmt.Errorf("%s: building request: %w", method, err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", method, err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: reading response: %w", method, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			if err := c.waitRateLimit(ctx, method, resp.Header.Get("Retry-After")); err != nil {
				return nil, err
			}
			continue
		}

		var env envelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("%s: decoding response: %w", method, err)
		}
		if env.Error == "ratelimited" {
			if err := c.waitRateLimit(ctx, method, resp.Header.Get("Retry-After")); err != nil {
				return nil, err
			}
			continue
		}
		if !env.OK {
			return nil, fmt.Errorf("%s failed: %s", method, env.Error)
		}
		return body, nil
	}
}

func (c *Client) waitRateLimit(ctx context.Context, method, retryAfterHeader string) error {
	wait := defaultRetryAfter
	if secs, err := strconv.Atoi(strings.TrimSpace(retryAfterHeader)); err == nil && secs >= 0 {
		wait = time.Duration(secs) * time.Second
	}
	wait += time.Second

	logger.L().Warn("Slack rate limit hit, waiting before retry",
		zap.String("method", method),
		zap.Duration("wait", wait),
	)
	return c.sleep(ctx, wait)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
