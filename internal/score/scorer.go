package score

import (
	"github.com/trustlens/trustlens/internal/model"
)

// Trust-score weights. A claim contributes its verification outcome, its
// confidence, and the quality of its cited evidence; the three components
// sum to at most 1.0.
const (
	verifiedWeight   = 0.4
	confidenceWeight = 0.3

	// Per-source quality contributions, capped at 0.3 per source.
	sourceURLWeight        = 0.1
	sourceAuthorsWeight    = 0.1
	sourceSupportingWeight = 0.1
)

// Evidence-strength weights: how well-identified a cited source is.
const (
	strengthDOI     = 0.4
	strengthPubMed  = 0.3
	strengthURL     = 0.2
	strengthAuthors = 0.1
)

// Scorer computes influencer trust scores from claim sets.
type Scorer struct{}

// NewScorer creates a new scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate computes the aggregate trust score for a claim set: the mean of
// per-claim scores, 0 for the empty set. The result is always in [0, 1].
func (s *Scorer) Calculate(claims []model.Claim) float64 {
	if len(claims) == 0 {
		return 0
	}

	var total float64
	for i := range claims {
		total += s.ClaimScore(&claims[i])
	}

	score := total / float64(len(claims))
	return clamp01(score)
}

// ClaimScore computes one claim's contribution:
// 0.4 if verified, plus 0.3 * confidence, plus the mean per-source evidence
// quality (up to 0.3).
func (s *Scorer) ClaimScore(claim *model.Claim) float64 {
	var score float64
	if claim.VerificationStatus == model.StatusVerified {
		score += verifiedWeight
	}
	score += confidenceWeight * clamp01(claim.ConfidenceScore)
	score += s.evidenceQuality(claim.Sources())
	return clamp01(score)
}

// evidenceQuality is the mean of per-source contributions; no sources means
// no contribution.
func (s *Scorer) evidenceQuality(sources []model.EvidenceSource) float64 {
	if len(sources) == 0 {
		return 0
	}

	var total float64
	for _, src := range sources {
		var q float64
		if src.URL != "" {
			q += sourceURLWeight
		}
		if len(src.Authors) > 0 {
			q += sourceAuthorsWeight
		}
		if src.Type == model.EvidenceSupporting {
			q += sourceSupportingWeight
		}
		total += q
	}
	return total / float64(len(sources))
}

// EvidenceStrength scores how well-identified a source is: +0.4 for a DOI,
// +0.3 for a PubMed id, +0.2 for a URL, +0.1 for a non-empty author list,
// capped at 1.0.
func EvidenceStrength(src model.EvidenceSource) float64 {
	var strength float64
	if src.DOI != "" {
		strength += strengthDOI
	}
	if src.PubMedID != "" {
		strength += strengthPubMed
	}
	if src.URL != "" {
		strength += strengthURL
	}
	if len(src.Authors) > 0 {
		strength += strengthAuthors
	}
	if strength > 1.0 {
		strength = 1.0
	}
	return strength
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
