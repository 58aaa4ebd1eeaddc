package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Journal is a known publication source used to pre-classify evidence. The
// pipeline works without any journals on file; matching only marks evidence
// from recognized sources.
type Journal struct {
	ID                   uuid.UUID      `json:"id" gorm:"primaryKey;type:uuid"`
	Name                 string         `json:"name" gorm:"not null"`
	TrustedSource        bool           `json:"trustedSource" gorm:"default:true"`
	Domain               string         `json:"domain,omitempty"`
	Categories           pq.StringArray `json:"categories" gorm:"type:text[]"`
	ImpactFactor         float64        `json:"impactFactor"`
	LastVerificationDate *time.Time     `json:"lastVerificationDate"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Journal) TableName() string {
	return "journals"
}

func (j *Journal) BeforeSave(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}
