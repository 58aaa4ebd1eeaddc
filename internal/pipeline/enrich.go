package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/trustlens/trustlens/internal/llm"
	"github.com/trustlens/trustlens/internal/model"
)

const enrichPromptFormat = `Provide profile information for the health influencer %q. Respond ONLY with a JSON object:
{"followerCount": total followers across platforms as a number, "socialHandles": [{"platform": "...", "handle": "..."}], "expertise": ["..."], "credentials": "formal credentials if any"}
Do not include any text outside the JSON object.`

// Enricher fetches public profile details for an influencer via the research
// provider.
type Enricher struct {
	provider llm.Provider
}

// NewEnricher creates an enricher over the research provider.
func NewEnricher(provider llm.Provider) *Enricher {
	return &Enricher{provider: provider}
}

// FetchProfile looks up follower count, handles, and expertise for name. The
// follower count in the returned profile is raw; callers normalize it.
func (e *Enricher) FetchProfile(ctx context.Context, name string) (*model.InfluencerProfile, error) {
	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Prompt: fmt.Sprintf(enrichPromptFormat, name),
	})
	if err != nil {
		return nil, &model.UpstreamFetchError{Provider: e.provider.Name(), Op: "fetch profile", Err: err}
	}

	body, ok := outermostObject(stripCodeFence(resp.Text))
	if !ok {
		return nil, &model.UpstreamFetchError{Provider: e.provider.Name(), Op: "fetch profile"}
	}

	var profile model.InfluencerProfile
	if err := json.Unmarshal([]byte(body), &profile); err != nil {
		return nil, &model.UpstreamFetchError{Provider: e.provider.Name(), Op: "fetch profile", Err: err}
	}
	return &profile, nil
}
