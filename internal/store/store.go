// Package store is the persistence layer over the document collections:
// influencers, claims, and journals.
package store

import "gorm.io/gorm"

// Store bundles the per-collection stores over one database handle.
type Store struct {
	Influencers *InfluencerStore
	Claims      *ClaimStore
	Journals    *JournalStore

	db *gorm.DB
}

// New creates a store over the given database.
func New(db *gorm.DB) *Store {
	return &Store{
		Influencers: &InfluencerStore{db: db},
		Claims:      &ClaimStore{db: db},
		Journals:    &JournalStore{db: db},
		db:          db,
	}
}

// DB exposes the underlying handle for migrations.
func (s *Store) DB() *gorm.DB {
	return s.db
}
