package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trustlens/trustlens/internal/model"
)

// JournalStore persists known publication sources.
type JournalStore struct {
	db *gorm.DB
}

// Create inserts a new journal.
func (s *JournalStore) Create(journal *model.Journal) error {
	if err := s.db.Create(journal).Error; err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	return nil
}

// ByID fetches a journal or a NotFoundError.
func (s *JournalStore) ByID(id uuid.UUID) (*model.Journal, error) {
	var journal model.Journal
	err := s.db.First(&journal, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &model.NotFoundError{Entity: "journal", ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("load journal: %w", err)
	}
	return &journal, nil
}

// List returns journals by descending impact factor. The category filter is
// applied in Go; the journal collection is small and array-membership SQL is
// not portable to the test database.
func (s *JournalStore) List(trustedOnly bool, category string) ([]model.Journal, error) {
	query := s.db.Model(&model.Journal{})
	if trustedOnly {
		query = query.Where("trusted_source = ?", true)
	}

	var journals []model.Journal
	if err := query.Order("impact_factor DESC").Find(&journals).Error; err != nil {
		return nil, fmt.Errorf("list journals: %w", err)
	}

	if category == "" {
		return journals, nil
	}

	filtered := journals[:0]
	for _, j := range journals {
		for _, c := range j.Categories {
			if c == category {
				filtered = append(filtered, j)
				break
			}
		}
	}
	return filtered, nil
}

// All returns every journal, for building the evidence classifier snapshot.
func (s *JournalStore) All() ([]model.Journal, error) {
	var journals []model.Journal
	if err := s.db.Find(&journals).Error; err != nil {
		return nil, fmt.Errorf("load journals: %w", err)
	}
	return journals, nil
}

// Save persists all fields of an existing journal.
func (s *JournalStore) Save(journal *model.Journal) error {
	if err := s.db.Save(journal).Error; err != nil {
		return fmt.Errorf("save journal: %w", err)
	}
	return nil
}
