package pipeline

import (
	"context"
	"encoding/json"

	"github.com/trustlens/trustlens/internal/llm"
	"github.com/trustlens/trustlens/internal/model"
)

const discoverPrompt = `List 10 currently prominent health influencers with large followings who frequently make specific health claims. Respond ONLY with a JSON object:
{"influencers": [{"name": "...", "expertise": "main area of expertise", "followerCount": number, "credentials": "...", "description": "one sentence"}]}
Do not include any text outside the JSON object.`

type discoverEnvelope struct {
	Influencers []struct {
		Name          string `json:"name"`
		Expertise     string `json:"expertise"`
		FollowerCount int64  `json:"followerCount"`
		Credentials   string `json:"credentials"`
		Description   string `json:"description"`
	} `json:"influencers"`
}

// Discover asks the research provider for new influencer candidates and
// upserts them. Candidates already on record are returned with their stored
// trust score and claim tally; new names get a fresh record with normalized
// follower counts.
func (p *Pipeline) Discover(ctx context.Context) ([]model.DiscoveredInfluencer, error) {
	provider := p.verifier.provider
	resp, err := provider.Complete(ctx, llm.CompletionRequest{Prompt: discoverPrompt})
	if err != nil {
		return nil, &model.UpstreamFetchError{Provider: provider.Name(), Op: "discover influencers", Err: err}
	}

	body, ok := outermostObject(stripCodeFence(resp.Text))
	if !ok {
		return nil, &model.UpstreamFetchError{Provider: provider.Name(), Op: "discover influencers"}
	}

	var envelope discoverEnvelope
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return nil, &model.UpstreamFetchError{Provider: provider.Name(), Op: "discover influencers", Err: err}
	}

	discovered := make([]model.DiscoveredInfluencer, 0, len(envelope.Influencers))
	for _, candidate := range envelope.Influencers {
		if candidate.Name == "" {
			continue
		}

		existing, err := p.store.Influencers.ByName(candidate.Name)
		if err != nil {
			return nil, err
		}

		if existing == nil {
			existing = &model.Influencer{
				Name:          candidate.Name,
				FollowerCount: model.NormalizeFollowerCount(candidate.FollowerCount),
				Credentials:   candidate.Credentials,
				MainFocus:     candidate.Expertise,
			}
			if candidate.Expertise != "" {
				existing.Expertise = []string{candidate.Expertise}
			}
			if err := p.store.Influencers.Create(existing); err != nil {
				return nil, err
			}
			p.log.Info("influencer discovered", "name", existing.Name)
		}

		discovered = append(discovered, model.DiscoveredInfluencer{
			ID:                  existing.ID.String(),
			Name:                existing.Name,
			Expertise:           candidate.Expertise,
			FollowerCount:       existing.FollowerCount,
			Credentials:         existing.Credentials,
			Description:         candidate.Description,
			TrustScore:          existing.TrustScore,
			TotalClaimsAnalyzed: existing.TotalClaimsAnalyzed,
		})
	}
	return discovered, nil
}
