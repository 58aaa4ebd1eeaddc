package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/trustlens/trustlens/internal/logger"
	"github.com/trustlens/trustlens/internal/model"
	"github.com/trustlens/trustlens/internal/score"
	"github.com/trustlens/trustlens/internal/store"
	"github.com/trustlens/trustlens/internal/worker"
)

// Pipeline wires the analysis stages over the store.
type Pipeline struct {
	store     *store.Store
	fetcher   *ContentFetcher
	extractor *ClaimExtractor
	verifier  *Verifier
	enricher  *Enricher
	scorer    *score.Scorer
	cfg       model.AnalysisConfig
	log       *logger.Logger
}

// New assembles a pipeline. enricher may be nil; new influencers then start
// with fallback profile values.
func New(st *store.Store, fetcher *ContentFetcher, extractor *ClaimExtractor, verifier *Verifier, enricher *Enricher, cfg model.AnalysisConfig, log *logger.Logger) *Pipeline {
	if log == nil {
		log = logger.Nop()
	}
	return &Pipeline{
		store:     st,
		fetcher:   fetcher,
		extractor: extractor,
		verifier:  verifier,
		enricher:  enricher,
		scorer:    score.NewScorer(),
		cfg:       cfg,
		log:       log,
	}
}

// AnalyzeRequest names the influencer to analyze and optionally overrides the
// configured window and claim cap.
type AnalyzeRequest struct {
	InfluencerName string
	TimeRange      string
	MaxClaims      int
}

// Analyze runs the full flow for one influencer: fetch content, extract
// claims, verify each claim concurrently, persist, and recompute the
// influencer's aggregate state.
//
// One claim's failure never aborts the run; failures are tallied in the
// summary. The influencer's ActiveAnalysis flag is raised for the duration
// and cleared on every exit path, including errors.
func (p *Pipeline) Analyze(ctx context.Context, req AnalyzeRequest) (*model.AnalysisResult, error) {
	if req.InfluencerName == "" {
		return nil, &model.ValidationError{Field: "influencerName", Reason: "must not be empty"}
	}

	timeRange := req.TimeRange
	if timeRange == "" {
		timeRange = p.cfg.TimeRange
	}

	inf, err := p.resolveInfluencer(ctx, req.InfluencerName)
	if err != nil {
		return nil, err
	}
	log := p.log.With("influencer", inf.Name, "influencerId", inf.ID)

	if err := p.store.Influencers.SetActiveAnalysis(inf.ID, true); err != nil {
		return nil, err
	}
	inf.ActiveAnalysis = true
	defer func() {
		if err := p.store.Influencers.SetActiveAnalysis(inf.ID, false); err != nil {
			log.Error("clear active analysis flag", "error", err)
		}
		inf.ActiveAnalysis = false
	}()

	log.Info("analysis started", "timeRange", timeRange)

	content, err := p.fetcher.Fetch(ctx, inf.Name, timeRange)
	if err != nil {
		return nil, err
	}

	extracted, err := p.extractor.Extract(ctx, inf.Name, content)
	if err != nil {
		return nil, err
	}
	if req.MaxClaims > 0 && len(extracted) > req.MaxClaims {
		extracted = extracted[:req.MaxClaims]
	}
	log.Info("claims extracted", "count", len(extracted))

	now := time.Now().UTC()
	jobs := make([]worker.Job, len(extracted))
	for i, candidate := range extracted {
		jobs[i] = &claimJob{pipeline: p, influencer: inf, candidate: candidate, identified: now}
	}
	results := worker.Run(ctx, p.cfg.VerificationWorkers, jobs)

	var (
		claims  []*model.Claim
		summary model.AnalysisSummary
	)
	for _, r := range results {
		cr := r.(*claimResult)
		if cr.err != nil {
			summary.FailedClaims++
			log.Warn("claim failed", "claim", cr.text, "error", cr.err)
			continue
		}
		summary.TotalClaims++
		if cr.claim.VerificationStatus == model.StatusVerified {
			summary.VerifiedClaims++
		}
		claims = append(claims, cr.claim)
	}

	trust, err := p.recomputeAggregates(inf, now)
	if err != nil {
		return nil, err
	}

	log.Info("analysis finished",
		"totalClaims", summary.TotalClaims,
		"verifiedClaims", summary.VerifiedClaims,
		"failedClaims", summary.FailedClaims,
		"trustScore", trust,
	)

	return &model.AnalysisResult{
		Influencer: inf,
		Claims:     claims,
		TrustScore: trust,
		Summary:    summary,
	}, nil
}

// resolveInfluencer finds the named influencer or creates one, enriching the
// profile when an enricher is available. Enrichment failures degrade to
// fallback values; they never block an analysis.
func (p *Pipeline) resolveInfluencer(ctx context.Context, name string) (*model.Influencer, error) {
	inf, err := p.store.Influencers.ByName(name)
	if err != nil {
		return nil, err
	}
	if inf != nil {
		return inf, nil
	}

	inf = &model.Influencer{
		Name:          name,
		FollowerCount: model.FallbackFollowerCount,
	}
	if p.enricher != nil {
		if profile, err := p.enricher.FetchProfile(ctx, name); err != nil {
			p.log.Warn("profile enrichment failed", "influencer", name, "error", err)
		} else {
			inf.FollowerCount = model.NormalizeFollowerCount(profile.FollowerCount)
			inf.Expertise = profile.Expertise
			inf.Credentials = profile.Credentials
			if err := inf.SetSocialHandles(profile.SocialHandles); err != nil {
				return nil, err
			}
		}
	}

	if err := p.store.Influencers.Create(inf); err != nil {
		// A concurrent run may have created the record between lookup and
		// insert; fall back to theirs.
		if existing, findErr := p.store.Influencers.ByName(name); findErr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	return inf, nil
}

// recomputeAggregates rebuilds the influencer's derived state from the full
// persisted claim set, so repeated runs stay idempotent.
func (p *Pipeline) recomputeAggregates(inf *model.Influencer, analyzedAt time.Time) (float64, error) {
	all, err := p.store.Claims.ByInfluencer(inf.ID)
	if err != nil {
		return 0, err
	}

	counts := make(map[string]int)
	for _, c := range all {
		counts[c.Category]++
	}

	inf.TrustScore = p.scorer.Calculate(all)
	inf.TotalClaimsAnalyzed = len(all)
	inf.LastAnalyzed = &analyzedAt
	if err := inf.SetCategoryCounts(counts); err != nil {
		return 0, err
	}
	if err := p.store.Influencers.Save(inf); err != nil {
		return 0, err
	}
	return inf.TrustScore, nil
}

// ReVerify re-runs verification for one stored claim and overwrites its
// judgment in place. The influencer's aggregates are deliberately left alone;
// callers decide when a full recompute is warranted.
func (p *Pipeline) ReVerify(ctx context.Context, claimID uuid.UUID) (*model.Claim, error) {
	claim, err := p.store.Claims.ByID(claimID)
	if err != nil {
		return nil, err
	}

	result, err := p.verifier.Verify(ctx, claim.Text)
	if err != nil {
		return nil, err
	}

	claim.Category = result.Category
	claim.VerificationStatus = result.Status
	claim.ConfidenceScore = result.ConfidenceScore
	claim.VerificationSummary = result.Summary
	if err := claim.SetSources(result.Sources); err != nil {
		return nil, err
	}
	if err := p.store.Claims.Save(claim); err != nil {
		return nil, err
	}
	return claim, nil
}

// claimJob settles one extracted claim: reuse an existing duplicate or verify
// and persist a new one.
type claimJob struct {
	pipeline   *Pipeline
	influencer *model.Influencer
	candidate  model.ExtractedClaim
	identified time.Time
}

type claimResult struct {
	text  string
	claim *model.Claim
	err   error
}

func (r *claimResult) GetError() error { return r.err }

func (j *claimJob) Execute(ctx context.Context) worker.Result {
	p := j.pipeline

	existing, err := p.store.Claims.FindByText(j.influencer.ID, j.candidate.Claim)
	if err != nil {
		return &claimResult{text: j.candidate.Claim, err: err}
	}
	if existing != nil {
		return &claimResult{text: j.candidate.Claim, claim: existing}
	}

	verification, err := p.verifier.Verify(ctx, j.candidate.Claim)
	if err != nil {
		return &claimResult{text: j.candidate.Claim, err: err}
	}

	claim := &model.Claim{
		InfluencerID:        j.influencer.ID,
		Text:                j.candidate.Claim,
		Category:            verification.Category,
		VerificationStatus:  verification.Status,
		ConfidenceScore:     verification.ConfidenceScore,
		SourceContent:       j.candidate.Context,
		VerificationSummary: verification.Summary,
		DateIdentified:      j.identified,
	}
	if err := claim.SetSources(verification.Sources); err != nil {
		return &claimResult{text: j.candidate.Claim, err: err}
	}

	created, err := p.store.Claims.Create(claim)
	if err != nil {
		return &claimResult{text: j.candidate.Claim, err: err}
	}
	return &claimResult{text: j.candidate.Claim, claim: created}
}
