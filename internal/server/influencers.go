package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/trustlens/trustlens/internal/model"
	"github.com/trustlens/trustlens/internal/store"
)

type influencerSummary struct {
	model.Influencer
	ClaimStats model.ClaimStats `json:"claimStats"`
}

func (s *Server) listInfluencers(c *gin.Context) {
	var opts store.ListOptions
	if raw := c.Query("minTrustScore"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.respondError(c, &model.ValidationError{Field: "minTrustScore", Reason: "must be a number"})
			return
		}
		opts.MinTrustScore = &value
	}
	opts.SortBy = c.Query("sortBy")
	opts.SortOrder = c.Query("sortOrder")

	influencers, err := s.store.Influencers.List(opts)
	if err != nil {
		s.respondError(c, err)
		return
	}

	summaries := make([]influencerSummary, 0, len(influencers))
	for _, inf := range influencers {
		stats, err := s.store.Influencers.ClaimStats(inf.ID)
		if err != nil {
			s.respondError(c, err)
			return
		}
		summaries = append(summaries, influencerSummary{Influencer: inf, ClaimStats: stats})
	}
	c.JSON(http.StatusOK, summaries)
}

func (s *Server) getInfluencer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.respondError(c, &model.ValidationError{Field: "id", Reason: "must be a valid id"})
		return
	}

	inf, err := s.store.Influencers.ByID(id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	claims, err := s.store.Claims.ByInfluencer(id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	inf.Claims = claims
	c.JSON(http.StatusOK, inf)
}

type createInfluencerRequest struct {
	Name string `json:"name"`
}

func (s *Server) createInfluencer(c *gin.Context) {
	var req createInfluencerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, &model.ValidationError{Field: "body", Reason: err.Error()})
		return
	}
	if req.Name == "" {
		s.respondError(c, &model.ValidationError{Field: "name", Reason: "must not be empty"})
		return
	}

	existing, err := s.store.Influencers.ByName(req.Name)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "influencer already exists",
			"influencer": existing,
		})
		return
	}

	inf := &model.Influencer{Name: req.Name, FollowerCount: model.FallbackFollowerCount}
	s.enrichInfluencer(c, inf)

	if err := s.store.Influencers.Create(inf); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inf)
}

// enrichInfluencer fills profile fields from the research provider, keeping
// fallback values when enrichment is unavailable or fails.
func (s *Server) enrichInfluencer(c *gin.Context, inf *model.Influencer) {
	if s.enricher == nil {
		return
	}
	profile, err := s.enricher.FetchProfile(c.Request.Context(), inf.Name)
	if err != nil {
		s.log.Warn("profile enrichment failed", "influencer", inf.Name, "error", err)
		return
	}
	inf.FollowerCount = model.NormalizeFollowerCount(profile.FollowerCount)
	inf.Expertise = profile.Expertise
	inf.Credentials = profile.Credentials
	if err := inf.SetSocialHandles(profile.SocialHandles); err != nil {
		s.log.Warn("encode social handles", "influencer", inf.Name, "error", err)
	}
}

type updateInfluencerRequest struct {
	Name          *string              `json:"name"`
	FollowerCount *int64               `json:"followerCount"`
	SocialHandles []model.SocialHandle `json:"socialHandles"`
}

func (s *Server) updateInfluencer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.respondError(c, &model.ValidationError{Field: "id", Reason: "must be a valid id"})
		return
	}

	inf, err := s.store.Influencers.ByID(id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	var req updateInfluencerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, &model.ValidationError{Field: "body", Reason: err.Error()})
		return
	}

	// Updatable fields are allow-listed; anything else in the body is ignored.
	if req.Name != nil && *req.Name != "" {
		inf.Name = *req.Name
	}
	if req.FollowerCount != nil {
		inf.FollowerCount = model.NormalizeFollowerCount(*req.FollowerCount)
	}
	if req.SocialHandles != nil {
		if err := inf.SetSocialHandles(req.SocialHandles); err != nil {
			s.respondError(c, err)
			return
		}
	}

	if c.Query("refresh") == "true" {
		s.enrichInfluencer(c, inf)
	}

	if err := s.store.Influencers.Save(inf); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inf)
}

func (s *Server) searchInfluencer(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		s.respondError(c, &model.ValidationError{Field: "name", Reason: "must not be empty"})
		return
	}

	inf, err := s.store.Influencers.Search(name)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if inf == nil {
		s.respondError(c, &model.NotFoundError{Entity: "influencer", ID: name})
		return
	}
	c.JSON(http.StatusOK, inf)
}

func (s *Server) discoverInfluencers(c *gin.Context) {
	discovered, err := s.pipeline.Discover(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"influencers": discovered})
}

func (s *Server) platformStats(c *gin.Context) {
	stats, err := s.store.Influencers.Stats()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) trustScoreTrend(c *gin.Context) {
	points, err := s.store.Claims.TrendDaily()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}
