package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/trustlens/trustlens/internal/llm"
	"github.com/trustlens/trustlens/internal/model"
	"github.com/trustlens/trustlens/internal/score"
	"github.com/trustlens/trustlens/internal/validate"
)

const verifySystemPrompt = `You are a scientific fact checker. Verify the given health claim against peer-reviewed scientific literature. Respond ONLY with a JSON object:
{
  "category": one of ["Nutrition", "Medicine", "Mental Health", "Fitness", "General Wellness"],
  "status": "verified" or "debunked",
  "confidenceScore": number between 0 and 1,
  "sources": [{"name": journal or publication name, "title": paper title, "authors": ["..."], "year": "YYYY", "doi": "...", "pubmedId": "...", "url": "...", "excerpt": "...", "type": "supporting" or "contradicting" or "neutral"}],
  "summary": one-paragraph explanation of the judgment
}
Do not include any text outside the JSON object.`

// Verifier judges single claims against scientific literature and
// post-processes the cited evidence.
type Verifier struct {
	provider llm.Provider
	journals *validate.JournalClassifier
	links    *validate.LinkChecker
}

// NewVerifier creates a verifier over the research provider. links may be nil
// to skip URL liveness checks.
func NewVerifier(provider llm.Provider, journals *validate.JournalClassifier, links *validate.LinkChecker) *Verifier {
	return &Verifier{provider: provider, journals: journals, links: links}
}

// Verify judges one claim. Prose or structurally broken responses return a
// VerificationParseError; well-formed JSON with an unexpected status is
// mapped to inconclusive rather than rejected, since the upstream model did
// answer the question asked.
func (v *Verifier) Verify(ctx context.Context, claimText string) (*model.VerificationResult, error) {
	resp, err := v.provider.Complete(ctx, llm.CompletionRequest{
		System: verifySystemPrompt,
		Prompt: fmt.Sprintf("Health claim: %q", claimText),
	})
	if err != nil {
		return nil, &model.UpstreamFetchError{Provider: v.provider.Name(), Op: "verify claim", Err: err}
	}

	result, err := parseVerification(resp.Text)
	if err != nil {
		return nil, err
	}

	v.processEvidence(ctx, result.Sources)
	return result, nil
}

// parseVerification extracts and validates the verifier's JSON judgment.
func parseVerification(text string) (*model.VerificationResult, error) {
	body, ok := outermostObject(stripCodeFence(text))
	if !ok {
		return nil, &model.VerificationParseError{Reason: "no JSON object in response"}
	}

	// Pointer and RawMessage fields distinguish absent keys from zero values.
	var raw struct {
		Category        string                   `json:"category"`
		Status          model.VerificationStatus `json:"status"`
		ConfidenceScore *float64                 `json:"confidenceScore"`
		Sources         json.RawMessage          `json:"sources"`
		Summary         string                   `json:"summary"`
	}
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, &model.VerificationParseError{Reason: "response is not valid JSON", Err: err}
	}

	if raw.Category == "" {
		return nil, &model.VerificationParseError{Reason: "missing category"}
	}
	if raw.Status == "" {
		return nil, &model.VerificationParseError{Reason: "missing status"}
	}
	if raw.ConfidenceScore == nil {
		return nil, &model.VerificationParseError{Reason: "missing confidenceScore"}
	}
	if len(raw.Sources) == 0 || string(raw.Sources) == "null" {
		return nil, &model.VerificationParseError{Reason: "missing sources"}
	}

	result := model.VerificationResult{
		Category:        raw.Category,
		Status:          raw.Status,
		ConfidenceScore: *raw.ConfidenceScore,
		Summary:         raw.Summary,
	}
	if err := json.Unmarshal(raw.Sources, &result.Sources); err != nil {
		return nil, &model.VerificationParseError{Reason: "sources is not an array", Err: err}
	}

	// The verifier is only asked for verified/debunked. Anything else in
	// well-formed JSON becomes inconclusive.
	switch result.Status {
	case model.StatusVerified, model.StatusDebunked:
	default:
		result.Status = model.StatusInconclusive
	}

	if result.ConfidenceScore < 0 {
		result.ConfidenceScore = 0
	}
	if result.ConfidenceScore > 1 {
		result.ConfidenceScore = 1
	}

	return &result, nil
}

// processEvidence derives per-source strength, synthesizes missing URLs from
// identifiers, links sources to the journal catalog, and optionally checks
// URL liveness.
func (v *Verifier) processEvidence(ctx context.Context, sources []model.EvidenceSource) {
	for i := range sources {
		src := &sources[i]

		if src.URL == "" {
			switch {
			case src.DOI != "":
				src.URL = "https://doi.org/" + src.DOI
			case src.PubMedID != "":
				src.URL = "https://pubmed.ncbi.nlm.nih.gov/" + src.PubMedID + "/"
			}
		}

		if src.Type == "" {
			src.Type = model.EvidenceInconclusive
		}
		src.EvidenceStrength = score.EvidenceStrength(*src)

		if v.journals != nil {
			v.journals.Classify(src)
		}
	}

	if v.links != nil {
		v.links.CheckAll(ctx, sources)
	}
}

// outermostObject returns the substring from the first '{' to the last '}'.
// Research providers habitually wrap JSON in citation footnotes or prose.
func outermostObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
