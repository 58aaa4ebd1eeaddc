package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/trustlens/trustlens/internal/model"
)

func (s *Server) listJournals(c *gin.Context) {
	trustedOnly := c.Query("trustedOnly") == "true"
	journals, err := s.store.Journals.List(trustedOnly, c.Query("category"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, journals)
}

func (s *Server) getJournal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.respondError(c, &model.ValidationError{Field: "id", Reason: "must be a valid id"})
		return
	}

	journal, err := s.store.Journals.ByID(id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, journal)
}

type journalRequest struct {
	Name          *string  `json:"name"`
	TrustedSource *bool    `json:"trustedSource"`
	Domain        *string  `json:"domain"`
	Categories    []string `json:"categories"`
	ImpactFactor  *float64 `json:"impactFactor"`
}

func (s *Server) createJournal(c *gin.Context) {
	var req journalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, &model.ValidationError{Field: "body", Reason: err.Error()})
		return
	}
	if req.Name == nil || *req.Name == "" {
		s.respondError(c, &model.ValidationError{Field: "name", Reason: "must not be empty"})
		return
	}

	journal := &model.Journal{Name: *req.Name, TrustedSource: true}
	applyJournalFields(journal, &req)

	if err := s.store.Journals.Create(journal); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, journal)
}

func (s *Server) updateJournal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.respondError(c, &model.ValidationError{Field: "id", Reason: "must be a valid id"})
		return
	}

	journal, err := s.store.Journals.ByID(id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	var req journalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, &model.ValidationError{Field: "body", Reason: err.Error()})
		return
	}

	if req.Name != nil && *req.Name != "" {
		journal.Name = *req.Name
	}
	applyJournalFields(journal, &req)
	now := time.Now().UTC()
	journal.LastVerificationDate = &now

	if err := s.store.Journals.Save(journal); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, journal)
}

func applyJournalFields(journal *model.Journal, req *journalRequest) {
	if req.TrustedSource != nil {
		journal.TrustedSource = *req.TrustedSource
	}
	if req.Domain != nil {
		journal.Domain = *req.Domain
	}
	if req.Categories != nil {
		journal.Categories = req.Categories
	}
	if req.ImpactFactor != nil {
		journal.ImpactFactor = *req.ImpactFactor
	}
}
