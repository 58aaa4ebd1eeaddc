package util

import (
	"net/http"
	"net/url"
	"testing"
)

func proxyFor(t *testing.T, fn func(*http.Request) (*url.URL, error), rawURL string) *url.URL {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	proxyURL, err := fn(req)
	if err != nil {
		t.Fatalf("proxy func: %v", err)
	}
	return proxyURL
}

func TestNewProxyFunc(t *testing.T) {
	fn := NewProxyFunc("http://proxy:3128", "http://sproxy:3128", "localhost, internal.example.com")

	if got := proxyFor(t, fn, "https://api.perplexity.ai/chat"); got == nil || got.Host != "sproxy:3128" {
		t.Errorf("https proxy = %v, want sproxy:3128", got)
	}
	if got := proxyFor(t, fn, "http://api.example.org/v1"); got == nil || got.Host != "proxy:3128" {
		t.Errorf("http proxy = %v, want proxy:3128", got)
	}
	if got := proxyFor(t, fn, "http://localhost:11434/api/generate"); got != nil {
		t.Errorf("localhost should bypass the proxy, got %v", got)
	}
	if got := proxyFor(t, fn, "https://db.internal.example.com/q"); got != nil {
		t.Errorf("subdomain of a bypass entry should bypass the proxy, got %v", got)
	}
	if got := proxyFor(t, fn, "https://internal.example.com.evil.org/q"); got == nil {
		t.Error("suffix lookalike host must not bypass the proxy")
	}
}
