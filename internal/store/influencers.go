package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trustlens/trustlens/internal/model"
)

// InfluencerStore persists influencers.
type InfluencerStore struct {
	db *gorm.DB
}

// Sortable fields exposed to the leaderboard, mapped to columns. Anything
// else falls back to trust score.
var influencerSortColumns = map[string]string{
	"trustScore":          "trust_score",
	"followerCount":       "follower_count",
	"name":                "name",
	"lastAnalyzed":        "last_analyzed",
	"totalClaimsAnalyzed": "total_claims_analyzed",
}

// ListOptions filters and orders the influencer list.
type ListOptions struct {
	MinTrustScore *float64
	SortBy        string
	SortOrder     string // "asc" or "desc"
}

// Create inserts a new influencer.
func (s *InfluencerStore) Create(inf *model.Influencer) error {
	if err := s.db.Create(inf).Error; err != nil {
		return fmt.Errorf("create influencer: %w", err)
	}
	return nil
}

// ByID fetches an influencer or a NotFoundError.
func (s *InfluencerStore) ByID(id uuid.UUID) (*model.Influencer, error) {
	var inf model.Influencer
	err := s.db.First(&inf, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &model.NotFoundError{Entity: "influencer", ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("load influencer: %w", err)
	}
	return &inf, nil
}

// ByName finds an influencer by case-insensitive exact name match. Returns
// (nil, nil) when there is no match.
func (s *InfluencerStore) ByName(name string) (*model.Influencer, error) {
	var inf model.Influencer
	err := s.db.First(&inf, "name_fold = ?", model.FoldName(name)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find influencer by name: %w", err)
	}
	return &inf, nil
}

// Search finds the first influencer whose name contains the query,
// case-insensitively. Returns (nil, nil) when there is no match.
func (s *InfluencerStore) Search(name string) (*model.Influencer, error) {
	var inf model.Influencer
	err := s.db.First(&inf, "name_fold LIKE ?", "%"+model.FoldName(name)+"%").Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("search influencer: %w", err)
	}
	return &inf, nil
}

// List returns influencers filtered and sorted for the leaderboard.
func (s *InfluencerStore) List(opts ListOptions) ([]model.Influencer, error) {
	query := s.db.Model(&model.Influencer{})

	if opts.MinTrustScore != nil {
		query = query.Where("trust_score >= ?", *opts.MinTrustScore)
	}

	column, ok := influencerSortColumns[opts.SortBy]
	if !ok {
		column = "trust_score"
	}
	direction := "DESC"
	if opts.SortOrder == "asc" {
		direction = "ASC"
	}

	var influencers []model.Influencer
	if err := query.Order(column + " " + direction).Find(&influencers).Error; err != nil {
		return nil, fmt.Errorf("list influencers: %w", err)
	}
	return influencers, nil
}

// Save persists all fields of an existing influencer.
func (s *InfluencerStore) Save(inf *model.Influencer) error {
	if err := s.db.Save(inf).Error; err != nil {
		return fmt.Errorf("save influencer: %w", err)
	}
	return nil
}

// SetActiveAnalysis flips the in-flight flag without touching other fields.
// This is the cleanup write that must succeed on every pipeline exit path.
func (s *InfluencerStore) SetActiveAnalysis(id uuid.UUID, active bool) error {
	err := s.db.Model(&model.Influencer{}).
		Where("id = ?", id).
		Update("active_analysis", active).Error
	if err != nil {
		return fmt.Errorf("set active analysis: %w", err)
	}
	return nil
}

// ClaimStats tallies an influencer's claims for the leaderboard.
func (s *InfluencerStore) ClaimStats(id uuid.UUID) (model.ClaimStats, error) {
	var stats model.ClaimStats
	err := s.db.Model(&model.Claim{}).
		Where("influencer_id = ?", id).
		Select("COUNT(*) AS total_claims, COALESCE(SUM(CASE WHEN verification_status = ? THEN 1 ELSE 0 END), 0) AS verified_claims", model.StatusVerified).
		Scan(&stats).Error
	if err != nil {
		return stats, fmt.Errorf("claim stats: %w", err)
	}
	return stats, nil
}

// Stats computes the platform-wide dashboard aggregate. The average trust
// score is reported on a 0-100 scale.
func (s *InfluencerStore) Stats() (model.PlatformStats, error) {
	var stats model.PlatformStats

	var influencerCount int64
	if err := s.db.Model(&model.Influencer{}).Count(&influencerCount).Error; err != nil {
		return stats, fmt.Errorf("count influencers: %w", err)
	}

	var claimCount int64
	if err := s.db.Model(&model.Claim{}).Count(&claimCount).Error; err != nil {
		return stats, fmt.Errorf("count claims: %w", err)
	}

	var verifiedCount int64
	if err := s.db.Model(&model.Claim{}).
		Where("verification_status = ?", model.StatusVerified).
		Count(&verifiedCount).Error; err != nil {
		return stats, fmt.Errorf("count verified claims: %w", err)
	}

	var avgTrust float64
	if influencerCount > 0 {
		row := s.db.Model(&model.Influencer{}).
			Select("COALESCE(AVG(trust_score), 0)").
			Row()
		if err := row.Scan(&avgTrust); err != nil {
			return stats, fmt.Errorf("average trust score: %w", err)
		}
	}

	stats.TotalInfluencers = int(influencerCount)
	stats.TotalClaims = int(claimCount)
	stats.VerifiedClaims = int(verifiedCount)
	stats.AverageTrustScore = avgTrust * 100
	return stats, nil
}
