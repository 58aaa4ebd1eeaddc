package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/trustlens/trustlens/internal/llm"
	"github.com/trustlens/trustlens/internal/model"
)

const extractSystemPrompt = `You are a health claim extraction system. Given content from a health influencer, identify distinct, specific health claims they make. Respond ONLY with a JSON object of the form {"claims":[{"claim":"...","context":"..."}]}. Each claim must be a single verifiable health assertion in one sentence; context is the surrounding statement it came from. Do not include commentary, markdown, or any text outside the JSON object.`

// ClaimExtractor turns fetched content into discrete claim candidates.
type ClaimExtractor struct {
	provider  llm.Provider
	maxClaims int
}

// NewClaimExtractor creates an extractor over the extraction provider,
// capping each run at maxClaims candidates.
func NewClaimExtractor(provider llm.Provider, maxClaims int) *ClaimExtractor {
	if maxClaims <= 0 {
		maxClaims = 100
	}
	return &ClaimExtractor{provider: provider, maxClaims: maxClaims}
}

type extractEnvelope struct {
	Claims []model.ExtractedClaim `json:"claims"`
}

// Extract asks the provider for the claims contained in content. A response
// that is not the expected JSON shape is an ExtractionParseError; the content
// itself came back fine, so this is a distinct failure from a fetch error.
func (e *ClaimExtractor) Extract(ctx context.Context, influencerName, content string) ([]model.ExtractedClaim, error) {
	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		System: extractSystemPrompt,
		Prompt: fmt.Sprintf("Content by %s:\n\n%s", influencerName, content),
	})
	if err != nil {
		return nil, &model.UpstreamFetchError{Provider: e.provider.Name(), Op: "extract claims", Err: err}
	}

	body := stripCodeFence(resp.Text)

	var envelope extractEnvelope
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return nil, &model.ExtractionParseError{Reason: "response is not valid JSON", Err: err}
	}
	if envelope.Claims == nil {
		return nil, &model.ExtractionParseError{Reason: `missing "claims" array`}
	}

	claims := make([]model.ExtractedClaim, 0, len(envelope.Claims))
	for _, c := range envelope.Claims {
		c.Claim = strings.TrimSpace(c.Claim)
		if c.Claim == "" {
			continue
		}
		claims = append(claims, c)
		if len(claims) >= e.maxClaims {
			break
		}
	}
	return claims, nil
}

// stripCodeFence unwraps a ```json ... ``` fenced block. Models add fences
// despite instructions not to.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		// Drop the language tag line.
		first := strings.TrimSpace(s[:idx])
		if first == "" || !strings.ContainsAny(first, "{[") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
