package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// VerificationStatus is the lifecycle state of a claim's verification.
//
// The verifier itself only ever concludes verified or debunked; inconclusive
// is assigned when the upstream model returns well-formed JSON with a status
// outside those two. Pending and processing are pre-verification states.
type VerificationStatus string

const (
	StatusVerified     VerificationStatus = "verified"
	StatusDebunked     VerificationStatus = "debunked"
	StatusPending      VerificationStatus = "pending"
	StatusProcessing   VerificationStatus = "processing"
	StatusInconclusive VerificationStatus = "inconclusive"
)

// Valid reports whether s is one of the known statuses.
func (s VerificationStatus) Valid() bool {
	switch s {
	case StatusVerified, StatusDebunked, StatusPending, StatusProcessing, StatusInconclusive:
		return true
	}
	return false
}

// EvidenceType classifies how a cited source relates to the claim.
type EvidenceType string

const (
	EvidenceSupporting    EvidenceType = "supporting"
	EvidenceContradicting EvidenceType = "contradicting"
	EvidenceNeutral       EvidenceType = "neutral"
	EvidenceInconclusive  EvidenceType = "inconclusive"
)

// EvidenceSource is one cited source attached to a claim's verification.
// EvidenceStrength is derived deterministically from how well-identified the
// source is (DOI, PubMed id, URL, authors).
type EvidenceSource struct {
	JournalID        *uuid.UUID     `json:"journalId,omitempty"`
	Name             string         `json:"name"`
	Title            string         `json:"title,omitempty"`
	Authors          []string       `json:"authors,omitempty"`
	Year             string         `json:"year,omitempty"`
	DOI              string         `json:"doi,omitempty"`
	PubMedID         string         `json:"pubmedId,omitempty"`
	URL              string         `json:"url,omitempty"`
	Excerpt          string         `json:"excerpt,omitempty"`
	Type             EvidenceType   `json:"type"`
	EvidenceStrength float64        `json:"evidenceStrength"`
	TrustedJournal   bool           `json:"trustedJournal,omitempty"`
	Check            *EvidenceCheck `json:"check,omitempty"`
}

// EvidenceCheck is the result of an optional liveness check of a source URL.
type EvidenceCheck struct {
	Accessible bool   `json:"accessible"`
	StatusCode int    `json:"statusCode,omitempty"`
	Dead       bool   `json:"dead,omitempty"`
	Stale      bool   `json:"stale,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Claim is a single health assertion attributed to an influencer, with its
// verification outcome and cited evidence.
//
// The (influencer_id, text_fold) unique index is the store-level guard
// against duplicate claims created by concurrent identical analysis runs.
type Claim struct {
	ID           uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	InfluencerID uuid.UUID `json:"influencerId" gorm:"type:uuid;not null;uniqueIndex:idx_claims_influencer_text,priority:1"`
	Text         string    `json:"text" gorm:"not null"`
	TextFold     string    `json:"-" gorm:"not null;uniqueIndex:idx_claims_influencer_text,priority:2"`
	Category     string    `json:"category" gorm:"not null"`

	VerificationStatus  VerificationStatus `json:"verificationStatus" gorm:"default:pending"`
	ConfidenceScore     float64            `json:"confidenceScore"`
	SourceContent       string             `json:"sourceContent,omitempty" gorm:"type:text"`
	LinkedJournals      datatypes.JSON     `json:"linkedJournals,omitempty"`
	VerificationSummary string             `json:"verificationSummary,omitempty" gorm:"type:text"`

	DateIdentified time.Time `json:"dateIdentified"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (Claim) TableName() string {
	return "claims"
}

// BeforeSave assigns the id and keeps the fold key in sync with the text.
func (c *Claim) BeforeSave(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.TextFold = FoldClaimText(c.Text)
	return nil
}

// FoldClaimText normalizes claim text for case-insensitive exact matching.
func FoldClaimText(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// Sources decodes the stored evidence records. A corrupt column decodes to nil.
func (c *Claim) Sources() []EvidenceSource {
	if len(c.LinkedJournals) == 0 {
		return nil
	}
	var sources []EvidenceSource
	if err := json.Unmarshal(c.LinkedJournals, &sources); err != nil {
		return nil
	}
	return sources
}

// SetSources encodes evidence records into the JSON column.
func (c *Claim) SetSources(sources []EvidenceSource) error {
	data, err := json.Marshal(sources)
	if err != nil {
		return err
	}
	c.LinkedJournals = datatypes.JSON(data)
	return nil
}
