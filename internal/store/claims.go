package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trustlens/trustlens/internal/model"
)

// ClaimStore persists claims.
type ClaimStore struct {
	db *gorm.DB
}

// ClaimFilter narrows the claim list.
type ClaimFilter struct {
	InfluencerID  *uuid.UUID
	Category      string
	Status        string
	MinConfidence *float64
}

// Create inserts a new claim. If a concurrent identical analysis already
// inserted the same text for this influencer, the unique index fires and the
// existing claim is returned instead.
func (s *ClaimStore) Create(claim *model.Claim) (*model.Claim, error) {
	err := s.db.Create(claim).Error
	if err == nil {
		return claim, nil
	}

	if isUniqueViolation(err) {
		existing, findErr := s.FindByText(claim.InfluencerID, claim.Text)
		if findErr == nil && existing != nil {
			return existing, nil
		}
	}
	return nil, fmt.Errorf("create claim: %w", err)
}

// ByID fetches a claim or a NotFoundError.
func (s *ClaimStore) ByID(id uuid.UUID) (*model.Claim, error) {
	var claim model.Claim
	err := s.db.First(&claim, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &model.NotFoundError{Entity: "claim", ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("load claim: %w", err)
	}
	return &claim, nil
}

// FindByText finds an influencer's claim by case-insensitive exact text
// match. Returns (nil, nil) when there is no match.
func (s *ClaimStore) FindByText(influencerID uuid.UUID, text string) (*model.Claim, error) {
	var claim model.Claim
	err := s.db.First(&claim,
		"influencer_id = ? AND text_fold = ?",
		influencerID, model.FoldClaimText(text),
	).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find claim by text: %w", err)
	}
	return &claim, nil
}

// ByInfluencer returns an influencer's claims, newest first.
func (s *ClaimStore) ByInfluencer(influencerID uuid.UUID) ([]model.Claim, error) {
	var claims []model.Claim
	err := s.db.
		Where("influencer_id = ?", influencerID).
		Order("date_identified DESC").
		Find(&claims).Error
	if err != nil {
		return nil, fmt.Errorf("list claims by influencer: %w", err)
	}
	return claims, nil
}

// List returns claims matching the filter, newest first.
func (s *ClaimStore) List(filter ClaimFilter) ([]model.Claim, error) {
	query := s.db.Model(&model.Claim{})

	if filter.InfluencerID != nil {
		query = query.Where("influencer_id = ?", *filter.InfluencerID)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("verification_status = ?", filter.Status)
	}
	if filter.MinConfidence != nil {
		query = query.Where("confidence_score >= ?", *filter.MinConfidence)
	}

	var claims []model.Claim
	if err := query.Order("date_identified DESC").Find(&claims).Error; err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	return claims, nil
}

// Save persists all fields of an existing claim.
func (s *ClaimStore) Save(claim *model.Claim) error {
	if err := s.db.Save(claim).Error; err != nil {
		return fmt.Errorf("save claim: %w", err)
	}
	return nil
}

// TrendDaily buckets all claims by identification day and averages their
// confidence, oldest day first. Bucketing happens in Go so the query stays
// portable across Postgres and the sqlite test database.
func (s *ClaimStore) TrendDaily() ([]model.TrendPoint, error) {
	var claims []model.Claim
	err := s.db.
		Select("date_identified", "confidence_score").
		Order("date_identified ASC").
		Find(&claims).Error
	if err != nil {
		return nil, fmt.Errorf("load claims for trend: %w", err)
	}

	type bucket struct {
		total float64
		count int
	}
	buckets := make(map[string]*bucket)
	for _, claim := range claims {
		day := claim.DateIdentified.UTC().Format("2006-01-02")
		b, ok := buckets[day]
		if !ok {
			b = &bucket{}
			buckets[day] = b
		}
		b.total += claim.ConfidenceScore
		b.count++
	}

	days := make([]string, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	sort.Strings(days)

	points := make([]model.TrendPoint, 0, len(days))
	for _, day := range days {
		b := buckets[day]
		points = append(points, model.TrendPoint{
			Date:  day,
			Score: b.total / float64(b.count),
		})
	}
	return points, nil
}

// isUniqueViolation recognizes unique-index errors from both Postgres and
// sqlite without binding to driver error types.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
