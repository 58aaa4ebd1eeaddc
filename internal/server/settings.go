package server

import (
	"net/http"
	"regexp"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/trustlens/trustlens/internal/model"
)

var timeRangePattern = regexp.MustCompile(`^\d+[dhm]$`)

// Settings are the runtime-adjustable analysis knobs. They start from the
// loaded configuration and live in memory only; a restart resets them.
// Provider API keys are configuration, not settings, and are never exposed
// here.
type Settings struct {
	mu        sync.RWMutex
	timeRange string
	maxClaims int

	research   string
	extraction string
}

// NewSettings seeds runtime settings from the loaded configuration.
func NewSettings(cfg *model.Config) *Settings {
	return &Settings{
		timeRange:  cfg.Analysis.TimeRange,
		maxClaims:  cfg.Analysis.MaxClaimsPerAnalysis,
		research:   cfg.LLM.Research.Provider + "/" + cfg.LLM.Research.Model,
		extraction: cfg.LLM.Extraction.Provider + "/" + cfg.LLM.Extraction.Model,
	}
}

// Analysis returns the current time range and claim cap.
func (s *Settings) Analysis() (timeRange string, maxClaims int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeRange, s.maxClaims
}

// Update validates and applies new values. Empty fields keep their current
// value.
func (s *Settings) Update(timeRange string, maxClaims int) error {
	if timeRange != "" && !timeRangePattern.MatchString(timeRange) {
		return &model.ValidationError{Field: "timeRange", Reason: `must match a short window token such as "30d" or "12h"`}
	}
	if maxClaims != 0 && (maxClaims < 1 || maxClaims > 1000) {
		return &model.ValidationError{Field: "maxClaimsPerAnalysis", Reason: "must be between 1 and 1000"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if timeRange != "" {
		s.timeRange = timeRange
	}
	if maxClaims != 0 {
		s.maxClaims = maxClaims
	}
	return nil
}

type settingsPayload struct {
	TimeRange            string `json:"timeRange"`
	MaxClaimsPerAnalysis int    `json:"maxClaimsPerAnalysis"`
	ResearchModel        string `json:"researchModel,omitempty"`
	ExtractionModel      string `json:"extractionModel,omitempty"`
}

func (s *Server) getSettings(c *gin.Context) {
	s.settings.mu.RLock()
	defer s.settings.mu.RUnlock()
	c.JSON(http.StatusOK, settingsPayload{
		TimeRange:            s.settings.timeRange,
		MaxClaimsPerAnalysis: s.settings.maxClaims,
		ResearchModel:        s.settings.research,
		ExtractionModel:      s.settings.extraction,
	})
}

func (s *Server) updateSettings(c *gin.Context) {
	var payload settingsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.respondError(c, &model.ValidationError{Field: "body", Reason: err.Error()})
		return
	}

	if err := s.settings.Update(payload.TimeRange, payload.MaxClaimsPerAnalysis); err != nil {
		s.respondError(c, err)
		return
	}
	s.getSettings(c)
}
