package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/spigell/lexnorm/internal/store"
)

type createContentRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type updateContentRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Summary *string `json:"summary"`
}

type summaryRequest struct {
	CustomPrompt string `json:"custom_prompt"`
}

func (s *Server) createContent(c *gin.Context) {
	var req createContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badRequest("invalid content payload", err))
		return
	}

	created, err := s.deps.Contents.Create(c.Request.Context(), req.Title, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) uploadContent(c *gin.Context) {
	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		respondError(c, badRequest("title is required", nil))
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		respondError(c, badRequest("file is required", err))
		return
	}

	f, err := header.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		respondError(c, err)
		return
	}

	created, err := s.deps.Contents.Upload(c.Request.Context(), title, header.Filename, data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) listContent(c *gin.Context) {
	page, err := pageQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	list, err := s.deps.Contents.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) getContent(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	found, err := s.deps.Contents.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func (s *Server) updateContent(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req updateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badRequest("invalid content payload", err))
		return
	}

	updated, err := s.deps.Contents.Update(c.Request.Context(), id, store.ContentUpdate{
		Title:   req.Title,
		Text:    req.Content,
		Summary: req.Summary,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteContent(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := s.deps.Contents.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course content deleted successfully"})
}

// generateSummary accepts the custom prompt as a query parameter or a JSON body.
func (s *Server) generateSummary(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	prompt := c.Query("custom_prompt")
	if prompt == "" && c.Request.ContentLength > 0 {
		var req summaryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, badRequest("invalid summary payload", err))
			return
		}
		prompt = req.CustomPrompt
	}

	updated, err := s.deps.Contents.GenerateSummary(c.Request.Context(), id, prompt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"content_id": updated.ID,
		"summary":    updated.Summary,
	})
}
