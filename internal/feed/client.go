// Package feed reads check results from a checkup API server.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hamed0406/statuspage/internal/domain"
)

const apiPath = "/api/v1"

var ErrUnexpectedStatus = errors.New("feed: unexpected http status")

// Source is what the status page needs from the network layer.
type Source interface {
	ChecksWithin(ctx context.Context, start, statsStart time.Time) (*domain.Checkup, error)
	NewChecks(ctx context.Context, lastCheckTs int64, timeframe time.Duration) (*domain.Checkup, error)
}

type Client struct {
	base   string
	Client *http.Client
	now    func() time.Time
}

// NewClient builds a client for the API rooted at apiBase
// (e.g. "http://127.0.0.1:8801").
func NewClient(apiBase string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(apiBase)
	if err != nil {
		return nil, fmt.Errorf("feed: parse api base: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("feed: api base %q must be http(s)", apiBase)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base:   strings.TrimRight(apiBase, "/") + apiPath,
		Client: &http.Client{Timeout: timeout},
		now:    time.Now,
	}, nil
}

// ChecksWithin fetches every check at or after start, with statistics
// computed from statsStart. Both are truncated to whole seconds.
func (c *Client) ChecksWithin(ctx context.Context, start, statsStart time.Time) (*domain.Checkup, error) {
	q := url.Values{}
	q.Set("start", strconv.FormatInt(start.Unix(), 10))
	q.Set("stats_start", strconv.FormatInt(statsStart.Unix(), 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/checkup?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("feed: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed: get checkup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	var out domain.Checkup
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("feed: decode checkup: %w", err)
	}
	return &out, nil
}

// NewChecks fetches the checks that follow lastCheckTs (ns). The API filters
// on whole seconds, so the request starts one second after the last check.
// With no check seen yet it falls back to the start of the timeframe.
func (c *Client) NewChecks(ctx context.Context, lastCheckTs int64, timeframe time.Duration) (*domain.Checkup, error) {
	statsStart := c.now().Add(-timeframe)
	return c.ChecksWithin(ctx, NextStart(lastCheckTs, statsStart), statsStart)
}

// NextStart is the start of the incremental window that follows lastCheckTs.
func NextStart(lastCheckTs int64, fallback time.Time) time.Time {
	if lastCheckTs <= 0 {
		return fallback
	}
	return time.Unix(lastCheckTs/int64(time.Second)+1, 0)
}
