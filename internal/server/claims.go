package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/trustlens/trustlens/internal/model"
	"github.com/trustlens/trustlens/internal/pipeline"
	"github.com/trustlens/trustlens/internal/store"
)

type analyzeRequest struct {
	InfluencerID   string `json:"influencerId"`
	InfluencerName string `json:"influencerName"`
	Name           string `json:"name"`
	TimeRange      string `json:"timeRange"`
}

func (s *Server) analyzeClaims(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, &model.ValidationError{Field: "body", Reason: err.Error()})
		return
	}

	name := req.InfluencerName
	if name == "" {
		name = req.Name
	}
	if name == "" && req.InfluencerID != "" {
		id, err := uuid.Parse(req.InfluencerID)
		if err != nil {
			s.respondError(c, &model.ValidationError{Field: "influencerId", Reason: "must be a valid id"})
			return
		}
		inf, err := s.store.Influencers.ByID(id)
		if err != nil {
			s.respondError(c, err)
			return
		}
		name = inf.Name
	}

	timeRange, maxClaims := s.settings.Analysis()
	if req.TimeRange != "" {
		timeRange = req.TimeRange
	}

	result, err := s.pipeline.Analyze(c.Request.Context(), pipeline.AnalyzeRequest{
		InfluencerName: name,
		TimeRange:      timeRange,
		MaxClaims:      maxClaims,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"influencer": result.Influencer,
		"trustScore": result.TrustScore,
		"claims":     result.Claims,
		"summary":    result.Summary,
	})
}

func (s *Server) reverifyClaim(c *gin.Context) {
	id, err := uuid.Parse(c.Param("claimId"))
	if err != nil {
		s.respondError(c, &model.ValidationError{Field: "claimId", Reason: "must be a valid id"})
		return
	}

	claim, err := s.pipeline.ReVerify(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, claim)
}

func (s *Server) listClaims(c *gin.Context) {
	var filter store.ClaimFilter

	if raw := c.Query("influencerId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			s.respondError(c, &model.ValidationError{Field: "influencerId", Reason: "must be a valid id"})
			return
		}
		filter.InfluencerID = &id
	}
	filter.Category = c.Query("category")
	filter.Status = c.Query("verificationStatus")
	if raw := c.Query("minConfidence"); raw != "" {
		min, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.respondError(c, &model.ValidationError{Field: "minConfidence", Reason: "must be a number"})
			return
		}
		filter.MinConfidence = &min
	}

	claims, err := s.store.Claims.List(filter)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, claims)
}
