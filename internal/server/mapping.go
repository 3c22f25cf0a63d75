package server

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"github.com/spigell/lexnorm/internal/catalog"
	"github.com/spigell/lexnorm/internal/mapping"
	"github.com/spigell/lexnorm/internal/store"
)

type mapContentRequest struct {
	ContentID     uint   `json:"content_id" binding:"required"`
	SettingsID    *uint  `json:"settings_id"`
	JobRoleFilter string `json:"job_role_filter"`
}

type batchMapRequest struct {
	ContentIDs    []uint `json:"content_ids" binding:"required,min=1"`
	SettingsID    *uint  `json:"settings_id"`
	JobRoleFilter string `json:"job_role_filter"`
}

// resultSummary is the listing view of a stored run, without the mapping blob.
type resultSummary struct {
	ID                     uint      `json:"id"`
	ContentID              uint      `json:"content_id"`
	SettingsID             *uint     `json:"settings_id"`
	JobRoleFilter          *string   `json:"job_role_filter"`
	OverallConfidenceScore *string   `json:"overall_confidence_score"`
	StandardsCount         int       `json:"standards_count"`
	CreatedAt              time.Time `json:"created_at"`
}

func (s *Server) mapContent(c *gin.Context) {
	var req mapContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badRequest("invalid mapping payload", err))
		return
	}

	resp, err := s.deps.Mapping.MapContent(c.Request.Context(), mapping.Request{
		ContentID:     req.ContentID,
		SettingsID:    req.SettingsID,
		JobRoleFilter: req.JobRoleFilter,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) batchMap(c *gin.Context) {
	var req batchMapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badRequest("invalid batch payload", err))
		return
	}

	c.JSON(http.StatusOK, s.deps.Mapping.BatchMap(c.Request.Context(), mapping.BatchRequest{
		ContentIDs:    req.ContentIDs,
		SettingsID:    req.SettingsID,
		JobRoleFilter: req.JobRoleFilter,
	}))
}

func (s *Server) listStandards(c *gin.Context) {
	page, err := pageQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	standards, err := s.deps.Catalog.List(c.Request.Context(), store.StandardQuery{
		Search: c.Query("search"),
		Page:   page,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, standards)
}

func (s *Server) jobRoles(c *gin.Context) {
	roles, err := s.deps.Catalog.JobRoles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]gin.H, 0, len(roles))
	for _, role := range roles {
		out = append(out, gin.H{"job_role": role})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) importStandards(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		respondError(c, badRequest("file is required", err))
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		respondError(c, badRequest("only csv files can be imported", nil))
		return
	}

	replace, err := cast.ToBoolE(c.DefaultPostForm("replace", "false"))
	if err != nil {
		respondError(c, badRequest("invalid replace flag", err))
		return
	}

	f, err := header.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	report, err := s.deps.Loader.LoadCSV(c.Request.Context(), f, catalog.Options{Replace: replace})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) listResults(c *gin.Context) {
	page, err := pageQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	query := store.ResultQuery{Page: page}
	if raw := c.Query("content_id"); raw != "" {
		id, err := cast.ToUintE(raw)
		if err != nil {
			respondError(c, badRequest("invalid content_id", err))
			return
		}
		query.ContentID = &id
	}

	runs, err := s.deps.Results.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]resultSummary, 0, len(runs))
	for _, run := range runs {
		out = append(out, resultSummary{
			ID:                     run.ID,
			ContentID:              run.ContentID,
			SettingsID:             run.SettingsID,
			JobRoleFilter:          run.JobRoleFilter,
			OverallConfidenceScore: run.OverallConfidenceScore,
			StandardsCount:         run.StandardsCount,
			CreatedAt:              run.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getResult(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	run, err := s.deps.Results.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}
