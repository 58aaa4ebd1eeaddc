package model

// Claim categories the verifier is instructed to choose from.
var ClaimCategories = []string{
	"Nutrition",
	"Medicine",
	"Mental Health",
	"Fitness",
	"General Wellness",
}

// ExtractedClaim is one claim/context pair produced by the extraction stage.
type ExtractedClaim struct {
	Claim   string `json:"claim"`
	Context string `json:"context"`
}

// VerificationResult is the verifier's judgment for a single claim.
type VerificationResult struct {
	Category        string             `json:"category"`
	Status          VerificationStatus `json:"status"`
	ConfidenceScore float64            `json:"confidenceScore"`
	Sources         []EvidenceSource   `json:"sources"`
	Summary         string             `json:"summary"`
}

// AnalysisSummary tallies the outcome of one analysis run.
// TotalClaims counts claims that settled successfully (including deduplicated
// reuses); FailedClaims counts per-claim failures that were isolated rather
// than propagated.
type AnalysisSummary struct {
	TotalClaims    int `json:"totalClaims"`
	VerifiedClaims int `json:"verifiedClaims"`
	FailedClaims   int `json:"failedClaims"`
}

// AnalysisResult is the full outcome of one pipeline run.
type AnalysisResult struct {
	Influencer *Influencer     `json:"influencer"`
	Claims     []*Claim        `json:"claims"`
	TrustScore float64         `json:"trustScore"`
	Summary    AnalysisSummary `json:"summary"`
}

// InfluencerProfile is the enrichment payload fetched for a named influencer
// (follower count, handles, expertise).
type InfluencerProfile struct {
	FollowerCount int64          `json:"followerCount"`
	SocialHandles []SocialHandle `json:"socialHandles"`
	Expertise     []string       `json:"expertise"`
	Credentials   string         `json:"credentials,omitempty"`
}

// DiscoveredInfluencer is one candidate returned by the discovery operation,
// merged with any existing record for the same name.
type DiscoveredInfluencer struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Expertise           string  `json:"expertise"`
	FollowerCount       int64   `json:"followerCount"`
	Credentials         string  `json:"credentials,omitempty"`
	Description         string  `json:"description,omitempty"`
	TrustScore          float64 `json:"trustScore"`
	TotalClaimsAnalyzed int     `json:"totalClaimsAnalyzed"`
}

// ClaimStats is the per-influencer claim tally used by the leaderboard.
type ClaimStats struct {
	TotalClaims    int `json:"totalClaims"`
	VerifiedClaims int `json:"verifiedClaims"`
}

// PlatformStats is the dashboard-wide aggregate.
type PlatformStats struct {
	TotalInfluencers  int     `json:"totalInfluencers"`
	TotalClaims       int     `json:"totalClaims"`
	VerifiedClaims    int     `json:"verifiedClaims"`
	AverageTrustScore float64 `json:"averageTrustScore"`
	TrustScoreTrend   float64 `json:"trustScoreTrend"`
}

// TrendPoint is one day of the confidence trend series.
type TrendPoint struct {
	Date  string  `json:"date"`
	Score float64 `json:"score"`
}
