package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/trustlens/trustlens/internal/llm"
	"github.com/trustlens/trustlens/internal/logger"
	"github.com/trustlens/trustlens/internal/model"
	"github.com/trustlens/trustlens/internal/store"
)

// fakeProvider routes completions by request shape: the stage system prompts
// are distinct, so tests can script each stage independently.
type fakeProvider struct {
	fetchResponse   string
	fetchErr        error
	extractResponse string
	verifyResponse  func(prompt string) (string, error)
	enrichResponse  string
}

func (f *fakeProvider) Name() string                        { return "fake" }
func (f *fakeProvider) IsAvailable(ctx context.Context) bool { return true }

func (f *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	switch {
	case strings.Contains(req.System, "claim extraction"):
		return &llm.CompletionResponse{Text: f.extractResponse}, nil
	case strings.Contains(req.System, "fact checker"):
		text, err := f.verifyResponse(req.Prompt)
		if err != nil {
			return nil, err
		}
		return &llm.CompletionResponse{Text: text}, nil
	case strings.Contains(req.Prompt, "profile information"):
		return &llm.CompletionResponse{Text: f.enrichResponse}, nil
	default:
		if f.fetchErr != nil {
			return nil, f.fetchErr
		}
		return &llm.CompletionResponse{Text: f.fetchResponse}, nil
	}
}

func verdict(status string, confidence float64, withAuthors bool) string {
	authors := ""
	if withAuthors {
		authors = `"authors": ["Walker M"],`
	}
	return fmt.Sprintf(`{
		"category": "Nutrition",
		"status": %q,
		"confidenceScore": %f,
		"sources": [{"name": "Sleep Journal", %s "url": "https://example.org/paper", "type": "supporting"}],
		"summary": "Judgment summary."
	}`, status, confidence, authors)
}

func newTestPipeline(t *testing.T, provider *fakeProvider) (*Pipeline, *store.Store) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrate(&model.Influencer{}, &model.Claim{}, &model.Journal{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	st := store.New(db)
	cfg := model.AnalysisConfig{TimeRange: "30d", MaxClaimsPerAnalysis: 100, VerificationWorkers: 3}
	p := New(
		st,
		NewContentFetcher(provider),
		NewClaimExtractor(provider, cfg.MaxClaimsPerAnalysis),
		NewVerifier(provider, nil, nil),
		nil,
		cfg,
		logger.Nop(),
	)
	return p, st
}

func TestAnalyze_SingleVerifiedClaim(t *testing.T) {
	provider := &fakeProvider{
		fetchResponse:   "Recent podcast statements about sleep and nutrition.",
		extractResponse: `{"claims":[{"claim":"Vitamin D prevents colds","context":"discussed on a podcast"}]}`,
		verifyResponse: func(string) (string, error) {
			return verdict("verified", 0.8, false), nil
		},
	}
	p, st := newTestPipeline(t, provider)

	result, err := p.Analyze(context.Background(), AnalyzeRequest{InfluencerName: "Test Person"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if result.Summary.TotalClaims != 1 || result.Summary.VerifiedClaims != 1 || result.Summary.FailedClaims != 0 {
		t.Errorf("unexpected summary: %+v", result.Summary)
	}

	// 0.4 verified + 0.3*0.8 confidence + 0.2 evidence (url + supporting, no authors).
	if math.Abs(result.TrustScore-0.84) > 1e-9 {
		t.Errorf("trust score = %f, want 0.84", result.TrustScore)
	}

	inf, err := st.Influencers.ByName("Test Person")
	if err != nil || inf == nil {
		t.Fatalf("influencer not persisted: %v", err)
	}
	if inf.ActiveAnalysis {
		t.Error("active analysis flag not cleared")
	}
	if inf.TotalClaimsAnalyzed != 1 || math.Abs(inf.TrustScore-0.84) > 1e-9 {
		t.Errorf("aggregates not persisted: %+v", inf)
	}
	if inf.LastAnalyzed == nil {
		t.Error("last analyzed not set")
	}
	if counts := inf.CategoryCounts(); counts["Nutrition"] != 1 {
		t.Errorf("category counts = %v", counts)
	}
}

func TestAnalyze_FailedClaimIsolated(t *testing.T) {
	provider := &fakeProvider{
		fetchResponse: "content",
		extractResponse: `{"claims":[
			{"claim":"Claim that verifies fine","context":"a"},
			{"claim":"Claim that gets a prose answer","context":"b"},
			{"claim":"Another claim that verifies","context":"c"}
		]}`,
		verifyResponse: func(prompt string) (string, error) {
			if strings.Contains(prompt, "prose answer") {
				return "I could not find enough evidence to say.", nil
			}
			return verdict("verified", 0.5, true), nil
		},
	}
	p, st := newTestPipeline(t, provider)

	result, err := p.Analyze(context.Background(), AnalyzeRequest{InfluencerName: "Test Person"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if result.Summary.FailedClaims != 1 {
		t.Errorf("failed claims = %d, want 1", result.Summary.FailedClaims)
	}
	if result.Summary.TotalClaims != 2 {
		t.Errorf("total claims = %d, want 2", result.Summary.TotalClaims)
	}
	if got := result.Summary.TotalClaims + result.Summary.FailedClaims; got != 3 {
		t.Errorf("settled claims = %d, want all 3 extracted", got)
	}

	inf, _ := st.Influencers.ByName("Test Person")
	if inf.TotalClaimsAnalyzed != 2 {
		t.Errorf("only successful claims should persist, got %d", inf.TotalClaimsAnalyzed)
	}
}

func TestAnalyze_FetchFailureClearsFlag(t *testing.T) {
	provider := &fakeProvider{fetchErr: errors.New("upstream down")}
	p, st := newTestPipeline(t, provider)

	_, err := p.Analyze(context.Background(), AnalyzeRequest{InfluencerName: "Test Person"})
	if err == nil {
		t.Fatal("expected fetch error")
	}
	var fetchErr *model.UpstreamFetchError
	if !errors.As(err, &fetchErr) {
		t.Errorf("expected UpstreamFetchError, got %T", err)
	}

	inf, _ := st.Influencers.ByName("Test Person")
	if inf == nil {
		t.Fatal("influencer should exist even when the run fails")
	}
	if inf.ActiveAnalysis {
		t.Error("active analysis flag not cleared on the error path")
	}
}

func TestAnalyze_RepeatRunDeduplicates(t *testing.T) {
	verifications := 0
	provider := &fakeProvider{
		fetchResponse:   "content",
		extractResponse: `{"claims":[{"claim":"Vitamin D prevents colds","context":"x"}]}`,
		verifyResponse: func(string) (string, error) {
			verifications++
			return verdict("verified", 0.8, false), nil
		},
	}
	p, st := newTestPipeline(t, provider)

	for i := 0; i < 2; i++ {
		result, err := p.Analyze(context.Background(), AnalyzeRequest{InfluencerName: "Test Person"})
		if err != nil {
			t.Fatalf("Analyze run %d: %v", i+1, err)
		}
		if result.Summary.TotalClaims != 1 {
			t.Errorf("run %d: total claims = %d", i+1, result.Summary.TotalClaims)
		}
	}

	if verifications != 1 {
		t.Errorf("expected 1 verification across runs, got %d", verifications)
	}

	var count int64
	st.DB().Model(&model.Claim{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 claim row, got %d", count)
	}
}

func TestAnalyze_MaxClaimsCap(t *testing.T) {
	provider := &fakeProvider{
		fetchResponse: "content",
		extractResponse: `{"claims":[
			{"claim":"first","context":""},
			{"claim":"second","context":""},
			{"claim":"third","context":""}
		]}`,
		verifyResponse: func(string) (string, error) {
			return verdict("verified", 0.5, false), nil
		},
	}
	p, _ := newTestPipeline(t, provider)

	result, err := p.Analyze(context.Background(), AnalyzeRequest{InfluencerName: "Test Person", MaxClaims: 2})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Summary.TotalClaims != 2 {
		t.Errorf("expected cap at 2 claims, got %d", result.Summary.TotalClaims)
	}
}

func TestAnalyze_EmptyName(t *testing.T) {
	p, _ := newTestPipeline(t, &fakeProvider{})

	_, err := p.Analyze(context.Background(), AnalyzeRequest{})
	var validationErr *model.ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestReVerify_OverwritesJudgment(t *testing.T) {
	provider := &fakeProvider{
		fetchResponse:   "content",
		extractResponse: `{"claims":[{"claim":"Vitamin D prevents colds","context":"x"}]}`,
		verifyResponse: func(string) (string, error) {
			return verdict("verified", 0.8, false), nil
		},
	}
	p, st := newTestPipeline(t, provider)

	result, err := p.Analyze(context.Background(), AnalyzeRequest{InfluencerName: "Test Person"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	claimID := result.Claims[0].ID
	scoreBefore := result.TrustScore

	provider.verifyResponse = func(string) (string, error) {
		return verdict("debunked", 0.9, false), nil
	}

	updated, err := p.ReVerify(context.Background(), claimID)
	if err != nil {
		t.Fatalf("ReVerify: %v", err)
	}
	if updated.VerificationStatus != model.StatusDebunked {
		t.Errorf("status = %s, want debunked", updated.VerificationStatus)
	}
	if updated.ConfidenceScore != 0.9 {
		t.Errorf("confidence = %f, want 0.9", updated.ConfidenceScore)
	}

	// Re-verification leaves the aggregate alone.
	inf, _ := st.Influencers.ByName("Test Person")
	if inf.TrustScore != scoreBefore {
		t.Errorf("trust score changed from %f to %f", scoreBefore, inf.TrustScore)
	}
}
