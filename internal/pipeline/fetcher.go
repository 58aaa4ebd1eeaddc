// Package pipeline runs the analysis flow for one influencer: fetch recent
// content, extract health claims, verify each claim against scientific
// literature, and fold the outcomes into the influencer's aggregate state.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/trustlens/trustlens/internal/llm"
	"github.com/trustlens/trustlens/internal/model"
)

const fetchPromptFormat = `Find recent health-related content and statements made by %s from the past %s. Focus on specific health claims they have made in podcasts, videos, posts, or interviews. Include direct quotes where possible. Return the content as plain text.`

// ContentFetcher retrieves an influencer's recent health-related output via a
// research-capable provider.
type ContentFetcher struct {
	provider llm.Provider
}

// NewContentFetcher creates a fetcher over the research provider.
func NewContentFetcher(provider llm.Provider) *ContentFetcher {
	return &ContentFetcher{provider: provider}
}

// Fetch returns recent content by the named influencer within timeRange
// (e.g. "30d"). An empty response is an UpstreamFetchError: a claim-free
// answer is indistinguishable from a failed lookup, and the pipeline must not
// silently score an influencer on nothing.
func (f *ContentFetcher) Fetch(ctx context.Context, influencerName, timeRange string) (string, error) {
	resp, err := f.provider.Complete(ctx, llm.CompletionRequest{
		Prompt: fmt.Sprintf(fetchPromptFormat, influencerName, timeRange),
	})
	if err != nil {
		return "", &model.UpstreamFetchError{Provider: f.provider.Name(), Op: "fetch content", Err: err}
	}

	content := strings.TrimSpace(StripHTML(resp.Text))
	if content == "" {
		return "", &model.UpstreamFetchError{Provider: f.provider.Name(), Op: "fetch content"}
	}
	return content, nil
}

// StripHTML reduces markup to its text content. Plain text passes through
// unchanged; some providers wrap answers in fragments of HTML.
func StripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}

	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(s))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(tokenizer.Text())
		}
	}
}
