package validate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/trustlens/trustlens/internal/model"
)

func newTestChecker() *LinkChecker {
	return NewLinkChecker(model.ValidationConfig{
		Enabled:   true,
		Timeout:   2 * time.Second,
		Workers:   4,
		UserAgent: "trustlens-test/0.1",
	})
}

func TestCheckAll_Statuses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			w.WriteHeader(http.StatusNotFound)
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/gone":
			w.WriteHeader(http.StatusGone)
		case "/old":
			w.Header().Set("Last-Modified", time.Now().Add(-4*365*24*time.Hour).Format(time.RFC1123))
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	sources := []model.EvidenceSource{
		{Name: "ok", URL: server.URL + "/ok"},
		{Name: "gone", URL: server.URL + "/gone"},
		{Name: "old", URL: server.URL + "/old"},
		{Name: "no url"},
	}

	newTestChecker().CheckAll(context.Background(), sources)

	if c := sources[0].Check; c == nil || !c.Accessible || c.Dead {
		t.Errorf("ok source: got %+v", sources[0].Check)
	}
	if c := sources[1].Check; c == nil || c.Accessible || !c.Dead {
		t.Errorf("gone source: got %+v", sources[1].Check)
	}
	if c := sources[2].Check; c == nil || !c.Accessible || !c.Stale {
		t.Errorf("old source: got %+v", sources[2].Check)
	}
	if sources[3].Check != nil {
		t.Error("source without URL should not be checked")
	}
}

func TestCheckAll_RetriesServerErrors(t *testing.T) {
	oldSleep := sleepFunc
	sleepFunc = func(time.Duration) {}
	defer func() { sleepFunc = oldSleep }()

	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sources := []model.EvidenceSource{{Name: "flaky", URL: server.URL + "/flaky"}}
	newTestChecker().CheckAll(context.Background(), sources)

	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
	if c := sources[0].Check; c == nil || !c.Accessible {
		t.Errorf("expected success after retries, got %+v", sources[0].Check)
	}
}

func TestCheckAll_RobotsDisallow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sources := []model.EvidenceSource{
		{Name: "blocked", URL: server.URL + "/private/paper"},
		{Name: "open", URL: server.URL + "/public/paper"},
	}
	newTestChecker().CheckAll(context.Background(), sources)

	if c := sources[0].Check; c == nil || c.Accessible || c.Error == "" {
		t.Errorf("blocked source should be skipped, got %+v", sources[0].Check)
	}
	if c := sources[1].Check; c == nil || !c.Accessible {
		t.Errorf("open source should be checked, got %+v", sources[1].Check)
	}
}
