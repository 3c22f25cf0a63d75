package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spigell/lexnorm/internal/model"
)

type settingsRequest struct {
	TaskType          string `json:"task_type" binding:"omitempty,oneof=content_summary content_mapping"`
	Country           string `json:"country"`
	StandardName      string `json:"lexnorm_standard"`
	JobRoleFilterHint string `json:"job_role_filter_hint"`
	ModelName         string `json:"llm_model"`
	Prompt            string `json:"llm_prompt"`
}

func (r settingsRequest) toModel() *model.Settings {
	return &model.Settings{
		TaskType:          r.TaskType,
		Country:           r.Country,
		StandardName:      r.StandardName,
		JobRoleFilterHint: r.JobRoleFilterHint,
		ModelName:         r.ModelName,
		Prompt:            r.Prompt,
	}
}

func (s *Server) createSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badRequest("invalid settings payload", err))
		return
	}

	settings := req.toModel()
	if err := s.deps.Settings.Create(c.Request.Context(), settings); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, settings)
}

func (s *Server) listSettings(c *gin.Context) {
	page, err := pageQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	list, err := s.deps.Settings.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) getSettings(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	settings, err := s.deps.Settings.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (s *Server) updateSettings(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badRequest("invalid settings payload", err))
		return
	}

	updated, err := s.deps.Settings.Update(c.Request.Context(), id, req.toModel())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteSettings(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := s.deps.Settings.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Settings deleted successfully"})
}

func (s *Server) listCountries(c *gin.Context) {
	c.JSON(http.StatusOK, model.Countries)
}

func (s *Server) listStandardNames(c *gin.Context) {
	c.JSON(http.StatusOK, model.StandardNames)
}
