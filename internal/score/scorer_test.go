package score

import (
	"math"
	"testing"

	"github.com/trustlens/trustlens/internal/model"
)

func mustClaim(t *testing.T, status model.VerificationStatus, confidence float64, sources []model.EvidenceSource) model.Claim {
	t.Helper()
	claim := model.Claim{
		Text:               "test claim",
		VerificationStatus: status,
		ConfidenceScore:    confidence,
	}
	if err := claim.SetSources(sources); err != nil {
		t.Fatalf("set sources: %v", err)
	}
	return claim
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculate_EmptySet(t *testing.T) {
	scorer := NewScorer()
	if got := scorer.Calculate(nil); got != 0 {
		t.Errorf("expected 0 for empty set, got %f", got)
	}
	if got := scorer.Calculate([]model.Claim{}); got != 0 {
		t.Errorf("expected 0 for empty slice, got %f", got)
	}
}

func TestCalculate_SingleVerifiedClaim(t *testing.T) {
	scorer := NewScorer()

	// Verified, confidence 0.8, one supporting source with URL but no authors:
	// 0.4 + 0.3*0.8 + (0.1 + 0.1) = 0.84
	claims := []model.Claim{
		mustClaim(t, model.StatusVerified, 0.8, []model.EvidenceSource{
			{Name: "JAMA", URL: "http://x", Type: model.EvidenceSupporting},
		}),
	}

	got := scorer.Calculate(claims)
	if !approx(got, 0.84) {
		t.Errorf("expected 0.84, got %f", got)
	}
}

func TestCalculate_DebunkedClaim(t *testing.T) {
	scorer := NewScorer()

	// Debunked, confidence 0.9, no sources: 0 + 0.27 + 0
	claims := []model.Claim{
		mustClaim(t, model.StatusDebunked, 0.9, nil),
	}

	got := scorer.Calculate(claims)
	if !approx(got, 0.27) {
		t.Errorf("expected 0.27, got %f", got)
	}
}

func TestCalculate_MeanOverClaims(t *testing.T) {
	scorer := NewScorer()

	claims := []model.Claim{
		// 0.4 + 0.3 + 0.3 = 1.0
		mustClaim(t, model.StatusVerified, 1.0, []model.EvidenceSource{
			{Name: "NEJM", URL: "http://x", Authors: []string{"Smith J"}, Type: model.EvidenceSupporting},
		}),
		// 0
		mustClaim(t, model.StatusDebunked, 0, nil),
	}

	got := scorer.Calculate(claims)
	if !approx(got, 0.5) {
		t.Errorf("expected 0.5, got %f", got)
	}
}

func TestCalculate_AlwaysInUnitInterval(t *testing.T) {
	scorer := NewScorer()

	cases := [][]model.Claim{
		nil,
		{mustClaim(t, model.StatusVerified, 5.0, nil)},  // out-of-range confidence
		{mustClaim(t, model.StatusVerified, -1.0, nil)}, // negative confidence
		{
			mustClaim(t, model.StatusVerified, 1.0, []model.EvidenceSource{
				{URL: "http://a", Authors: []string{"A"}, Type: model.EvidenceSupporting},
				{URL: "http://b", Authors: []string{"B"}, Type: model.EvidenceSupporting},
			}),
		},
		{mustClaim(t, model.StatusInconclusive, 0.5, nil)},
	}

	for i, claims := range cases {
		got := scorer.Calculate(claims)
		if got < 0 || got > 1 {
			t.Errorf("case %d: score %f outside [0,1]", i, got)
		}
	}
}

func TestCalculate_InconclusiveGetsNoVerifiedWeight(t *testing.T) {
	scorer := NewScorer()

	claims := []model.Claim{
		mustClaim(t, model.StatusInconclusive, 0.6, nil),
	}

	got := scorer.Calculate(claims)
	if !approx(got, 0.18) {
		t.Errorf("expected 0.18, got %f", got)
	}
}

func TestEvidenceQuality_MeanAcrossSources(t *testing.T) {
	scorer := NewScorer()

	// One full-quality source (0.3), one bare source (0). Mean = 0.15.
	claims := []model.Claim{
		mustClaim(t, model.StatusDebunked, 0, []model.EvidenceSource{
			{URL: "http://a", Authors: []string{"A"}, Type: model.EvidenceSupporting},
			{Name: "blog", Type: model.EvidenceContradicting},
		}),
	}

	got := scorer.Calculate(claims)
	if !approx(got, 0.15) {
		t.Errorf("expected 0.15, got %f", got)
	}
}

func TestEvidenceStrength(t *testing.T) {
	tests := []struct {
		name   string
		source model.EvidenceSource
		want   float64
	}{
		{"empty", model.EvidenceSource{}, 0},
		{"doi only", model.EvidenceSource{DOI: "10.1000/x"}, 0.4},
		{"pubmed only", model.EvidenceSource{PubMedID: "12345"}, 0.3},
		{"url only", model.EvidenceSource{URL: "http://x"}, 0.2},
		{"authors only", model.EvidenceSource{Authors: []string{"Smith J"}}, 0.1},
		{"doi and pubmed", model.EvidenceSource{DOI: "10.1000/x", PubMedID: "12345"}, 0.7},
		{
			"everything caps at 1.0",
			model.EvidenceSource{DOI: "10.1000/x", PubMedID: "12345", URL: "http://x", Authors: []string{"A"}},
			1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvidenceStrength(tt.source); !approx(got, tt.want) {
				t.Errorf("EvidenceStrength() = %f, want %f", got, tt.want)
			}
		})
	}
}
