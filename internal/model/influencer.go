package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Follower-count normalization bounds. These are placeholder heuristics for
// upstream numbers that are frequently absent or nonsensical, not business
// rules.
const (
	MinFollowerCount      int64 = 1_000
	MaxFollowerCount      int64 = 500_000_000
	FallbackFollowerCount int64 = 100_000
)

// SocialHandle is a single platform/handle pair reported for an influencer.
type SocialHandle struct {
	Platform string `json:"platform"`
	Handle   string `json:"handle"`
}

// Influencer is a tracked health influencer and the aggregate state derived
// from their analyzed claim set.
//
// TrustScore is never written directly except to zero at creation; it is
// recomputed by the aggregator from the claim set after every analysis run.
type Influencer struct {
	ID            uuid.UUID      `json:"id" gorm:"primaryKey;type:uuid"`
	Name          string         `json:"name" gorm:"not null"`
	NameFold      string         `json:"-" gorm:"uniqueIndex;not null"` // lowercase lookup/dedup key
	FollowerCount int64          `json:"followerCount"`
	SocialHandles datatypes.JSON `json:"socialHandles,omitempty"`
	Expertise     pq.StringArray `json:"expertise" gorm:"type:text[]"`
	Credentials   string         `json:"credentials,omitempty"`
	MainFocus     string         `json:"mainFocus,omitempty"`

	TrustScore          float64        `json:"trustScore"`
	TotalClaimsAnalyzed int            `json:"totalClaimsAnalyzed"`
	ClaimsByCategory    datatypes.JSON `json:"claimsByCategory,omitempty"`
	LastAnalyzed        *time.Time     `json:"lastAnalyzed"`
	ActiveAnalysis      bool           `json:"activeAnalysis"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Claims []Claim `json:"claims,omitempty" gorm:"foreignKey:InfluencerID"`
}

func (Influencer) TableName() string {
	return "influencers"
}

// BeforeSave assigns the id and keeps the fold key in sync with the name.
func (i *Influencer) BeforeSave(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	i.NameFold = FoldName(i.Name)
	return nil
}

// FoldName normalizes a display name for case-insensitive matching.
func FoldName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// SocialHandleList decodes the stored handles. A corrupt column decodes to nil.
func (i *Influencer) SocialHandleList() []SocialHandle {
	if len(i.SocialHandles) == 0 {
		return nil
	}
	var handles []SocialHandle
	if err := json.Unmarshal(i.SocialHandles, &handles); err != nil {
		return nil
	}
	return handles
}

// SetSocialHandles encodes handles into the JSON column.
func (i *Influencer) SetSocialHandles(handles []SocialHandle) error {
	data, err := json.Marshal(handles)
	if err != nil {
		return err
	}
	i.SocialHandles = datatypes.JSON(data)
	return nil
}

// CategoryCounts decodes the per-category claim tally.
func (i *Influencer) CategoryCounts() map[string]int {
	counts := make(map[string]int)
	if len(i.ClaimsByCategory) == 0 {
		return counts
	}
	if err := json.Unmarshal(i.ClaimsByCategory, &counts); err != nil {
		return make(map[string]int)
	}
	return counts
}

// SetCategoryCounts encodes the per-category claim tally.
func (i *Influencer) SetCategoryCounts(counts map[string]int) error {
	data, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	i.ClaimsByCategory = datatypes.JSON(data)
	return nil
}

// NormalizeFollowerCount clamps an upstream follower count into a sane range.
// Zero or negative values fall back to a fixed default.
func NormalizeFollowerCount(count int64) int64 {
	if count <= 0 {
		return FallbackFollowerCount
	}
	if count < MinFollowerCount {
		return MinFollowerCount
	}
	if count > MaxFollowerCount {
		return MaxFollowerCount
	}
	return count
}
