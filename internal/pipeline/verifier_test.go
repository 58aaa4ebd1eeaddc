package pipeline

import (
	"errors"
	"math"
	"testing"

	"github.com/trustlens/trustlens/internal/model"
)

func TestParseVerification(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantStatus model.VerificationStatus
		wantErr    bool
	}{
		{
			name:       "plain verdict",
			text:       `{"category":"Nutrition","status":"verified","confidenceScore":0.8,"sources":[{"name":"BMJ"}],"summary":"ok"}`,
			wantStatus: model.StatusVerified,
		},
		{
			name:       "debunked",
			text:       `{"category":"Medicine","status":"debunked","confidenceScore":0.9,"sources":[{"name":"Lancet"}],"summary":"no"}`,
			wantStatus: model.StatusDebunked,
		},
		{
			name:       "wrapped in prose",
			text:       "Here is my assessment:\n" + `{"category":"Fitness","status":"verified","confidenceScore":0.5,"sources":[],"summary":"ok"}` + "\n[1] citation",
			wantStatus: model.StatusVerified,
		},
		{
			name:       "fenced",
			text:       "```json\n" + `{"category":"Fitness","status":"verified","confidenceScore":0.5,"sources":[],"summary":"ok"}` + "\n```",
			wantStatus: model.StatusVerified,
		},
		{
			name:       "unknown status becomes inconclusive",
			text:       `{"category":"Nutrition","status":"uncertain","confidenceScore":0.5,"sources":[],"summary":"maybe"}`,
			wantStatus: model.StatusInconclusive,
		},
		{
			name:       "empty sources array is valid",
			text:       `{"category":"Nutrition","status":"verified","confidenceScore":0.5,"sources":[],"summary":"ok"}`,
			wantStatus: model.StatusVerified,
		},
		{
			name:    "prose only",
			text:    "I could not verify this claim.",
			wantErr: true,
		},
		{
			name:    "missing category",
			text:    `{"status":"verified","confidenceScore":0.5,"sources":[],"summary":"ok"}`,
			wantErr: true,
		},
		{
			name:    "missing status",
			text:    `{"category":"Nutrition","confidenceScore":0.5,"sources":[],"summary":"ok"}`,
			wantErr: true,
		},
		{
			name:    "missing confidenceScore",
			text:    `{"category":"Nutrition","status":"verified","sources":[],"summary":"ok"}`,
			wantErr: true,
		},
		{
			name:    "missing sources",
			text:    `{"category":"Nutrition","status":"verified","confidenceScore":0.8,"summary":"ok"}`,
			wantErr: true,
		},
		{
			name:    "null sources",
			text:    `{"category":"Nutrition","status":"verified","confidenceScore":0.8,"sources":null,"summary":"ok"}`,
			wantErr: true,
		},
		{
			name:    "sources not an array",
			text:    `{"category":"Nutrition","status":"verified","confidenceScore":0.8,"sources":"BMJ","summary":"ok"}`,
			wantErr: true,
		},
		{
			name:    "broken json",
			text:    `{"category":"Nutrition","status":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseVerification(tt.text)
			if tt.wantErr {
				var parseErr *model.VerificationParseError
				if !errors.As(err, &parseErr) {
					t.Fatalf("expected VerificationParseError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseVerification: %v", err)
			}
			if result.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", result.Status, tt.wantStatus)
			}
		})
	}
}

func TestParseVerification_ClampsConfidence(t *testing.T) {
	result, err := parseVerification(`{"category":"Nutrition","status":"verified","confidenceScore":1.7,"sources":[],"summary":"ok"}`)
	if err != nil {
		t.Fatalf("parseVerification: %v", err)
	}
	if result.ConfidenceScore != 1 {
		t.Errorf("confidence = %f, want clamped to 1", result.ConfidenceScore)
	}

	result, err = parseVerification(`{"category":"Nutrition","status":"debunked","confidenceScore":-0.2,"sources":[],"summary":"no"}`)
	if err != nil {
		t.Fatalf("parseVerification: %v", err)
	}
	if result.ConfidenceScore != 0 {
		t.Errorf("confidence = %f, want clamped to 0", result.ConfidenceScore)
	}
}

func TestProcessEvidence_SynthesizesURLs(t *testing.T) {
	v := NewVerifier(nil, nil, nil)
	sources := []model.EvidenceSource{
		{Name: "a", DOI: "10.1000/xyz"},
		{Name: "b", PubMedID: "12345"},
		{Name: "c", URL: "https://example.org/keep", DOI: "10.1000/other"},
		{Name: "d"},
	}

	v.processEvidence(nil, sources)

	if sources[0].URL != "https://doi.org/10.1000/xyz" {
		t.Errorf("doi url = %s", sources[0].URL)
	}
	if sources[1].URL != "https://pubmed.ncbi.nlm.nih.gov/12345/" {
		t.Errorf("pubmed url = %s", sources[1].URL)
	}
	if sources[2].URL != "https://example.org/keep" {
		t.Errorf("existing url overwritten: %s", sources[2].URL)
	}
	if sources[3].URL != "" {
		t.Errorf("unidentified source got url %s", sources[3].URL)
	}

	// DOI + synthesized URL: 0.4 + 0.2.
	if math.Abs(sources[0].EvidenceStrength-0.6) > 1e-9 {
		t.Errorf("strength = %f, want 0.6", sources[0].EvidenceStrength)
	}
	if sources[3].Type != model.EvidenceInconclusive {
		t.Errorf("empty type should default to inconclusive, got %s", sources[3].Type)
	}
}
