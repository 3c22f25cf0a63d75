package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"github.com/spigell/lexnorm/internal/catalog"
	"github.com/spigell/lexnorm/internal/content"
	"github.com/spigell/lexnorm/internal/extractor"
	"github.com/spigell/lexnorm/internal/mapper"
	"github.com/spigell/lexnorm/internal/mapping"
	"github.com/spigell/lexnorm/internal/store"
)

const defaultPageLimit = 100

type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

var errBadRequest = errors.New("bad request")

func respondError(c *gin.Context, err error) {
	status, code := classify(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, errorEnvelope{Error: apiError{Message: err.Error(), Code: code}})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, content.ErrContentNotFound),
		errors.Is(err, mapping.ErrSettingsNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, mapper.ErrNoStandardsAvailable):
		return http.StatusNotFound, "no_standards"
	case errors.Is(err, errBadRequest),
		errors.Is(err, content.ErrInvalidContent),
		errors.Is(err, catalog.ErrMissingColumns):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, extractor.ErrUnsupportedFileType):
		return http.StatusUnsupportedMediaType, "unsupported_file_type"
	case errors.Is(err, extractor.ErrEmptyExtraction),
		errors.Is(err, extractor.ErrUnsupportedEncoding),
		errors.Is(err, extractor.ErrCorruptDocument):
		return http.StatusUnprocessableEntity, "extraction_failed"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func badRequest(msg string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", errBadRequest, msg)
	}
	return fmt.Errorf("%w: %s: %v", errBadRequest, msg, err)
}

func idParam(c *gin.Context) (uint, error) {
	id, err := cast.ToUintE(c.Param("id"))
	if err != nil || id == 0 {
		return 0, badRequest("invalid id "+c.Param("id"), nil)
	}
	return id, nil
}

func pageQuery(c *gin.Context) (store.Page, error) {
	skip, err := cast.ToIntE(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		return store.Page{}, badRequest("invalid skip", nil)
	}
	limit, err := cast.ToIntE(c.DefaultQuery("limit", cast.ToString(defaultPageLimit)))
	if err != nil || limit < 0 {
		return store.Page{}, badRequest("invalid limit", nil)
	}
	return store.Page{Offset: skip, Limit: limit}, nil
}
