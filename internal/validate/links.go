package validate

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/trustlens/trustlens/internal/model"
	"github.com/trustlens/trustlens/internal/util"
)

const linkMaxRetries = 3

// sleepFunc is swapped out in tests so retries do not slow the suite down.
var sleepFunc = time.Sleep

// LinkChecker checks evidence URLs for liveness with bounded concurrency.
// Sites that disallow the checker via robots.txt are skipped rather than hit.
type LinkChecker struct {
	httpClient *http.Client
	robots     *util.RobotsChecker
	maxWorkers int
	userAgent  string
}

// NewLinkChecker creates a checker from the validation configuration.
func NewLinkChecker(cfg model.ValidationConfig) *LinkChecker {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 10
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &LinkChecker{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		robots:     util.NewRobotsChecker(cfg.UserAgent, timeout),
		maxWorkers: workers,
		userAgent:  cfg.UserAgent,
	}
}

// CheckAll annotates each source that has a URL with a liveness check. Sources
// without URLs are left untouched. Failures are recorded per source, never
// returned.
func (l *LinkChecker) CheckAll(ctx context.Context, sources []model.EvidenceSource) {
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, l.maxWorkers)

	for i := range sources {
		if sources[i].URL == "" {
			continue
		}

		wg.Add(1)
		go func(src *model.EvidenceSource) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				src.Check = &model.EvidenceCheck{Error: "cancelled"}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			src.Check = l.checkWithRetry(ctx, src.URL)
		}(&sources[i])
	}

	wg.Wait()
}

func (l *LinkChecker) checkWithRetry(ctx context.Context, rawURL string) *model.EvidenceCheck {
	var check *model.EvidenceCheck
	for attempt := 0; attempt < linkMaxRetries; attempt++ {
		check = l.check(ctx, rawURL)
		if !isRetryable(check) {
			return check
		}
		if attempt < linkMaxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			sleepFunc(backoff)
		}
	}
	return check
}

func (l *LinkChecker) check(ctx context.Context, rawURL string) *model.EvidenceCheck {
	if !l.robots.IsAllowed(ctx, rawURL) {
		return &model.EvidenceCheck{Error: "disallowed by robots.txt"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return &model.EvidenceCheck{Dead: true, Error: fmt.Sprintf("create request: %v", err)}
	}
	req.Header.Set("User-Agent", l.userAgent)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return &model.EvidenceCheck{Dead: true, Error: fmt.Sprintf("request failed: %v", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	check := &model.EvidenceCheck{StatusCode: resp.StatusCode}
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		check.Accessible = true
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		check.Dead = true
	}

	if lastModified := resp.Header.Get("Last-Modified"); lastModified != "" {
		if t, err := time.Parse(time.RFC1123, lastModified); err == nil {
			if time.Since(t) > 3*365*24*time.Hour {
				check.Stale = true
			}
		}
	}

	return check
}

// isRetryable reports whether a check failed in a way worth retrying: server
// errors, rate limiting, or transient network failures.
func isRetryable(check *model.EvidenceCheck) bool {
	if check.StatusCode >= 500 && check.StatusCode < 600 {
		return true
	}
	if check.StatusCode == http.StatusTooManyRequests {
		return true
	}
	if check.Error != "" {
		msg := strings.ToLower(check.Error)
		return strings.Contains(msg, "timeout") ||
			strings.Contains(msg, "connection refused") ||
			strings.Contains(msg, "connection reset")
	}
	return false
}
