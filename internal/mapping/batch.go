package mapping

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/lexnorm/internal/logger"
	"github.com/spigell/lexnorm/internal/model"
)

type BatchRequest struct {
	ContentIDs    []uint `json:"content_ids"`
	SettingsID    *uint  `json:"settings_id,omitempty"`
	JobRoleFilter string `json:"job_role_filter,omitempty"`
}

type BatchFailure struct {
	ContentID uint   `json:"content_id"`
	Error     string `json:"error"`
}

type BatchResult struct {
	ID         uuid.UUID                `json:"batch_id"`
	Successful int                      `json:"successful"`
	Failed     int                      `json:"failed"`
	Results    []*model.MappingResponse `json:"results"`
	Errors     []BatchFailure           `json:"errors"`
}

// BatchMap maps each content id in turn. A failing item is recorded and the batch goes on.
func (s *Service) BatchMap(ctx context.Context, req BatchRequest) *BatchResult {
	result := &BatchResult{
		ID:      uuid.New(),
		Results: make([]*model.MappingResponse, 0, len(req.ContentIDs)),
		Errors:  []BatchFailure{},
	}
	l := s.logger.With(zap.String(logger.FieldBatchID, result.ID.String()))

	l.Info("batch mapping started", zap.Int("items", len(req.ContentIDs)))

	for _, id := range req.ContentIDs {
		resp, err := s.MapContent(ctx, Request{
			ContentID:     id,
			SettingsID:    req.SettingsID,
			JobRoleFilter: req.JobRoleFilter,
		})
		if err != nil {
			l.Warn("batch item failed", zap.Uint(logger.FieldContentID, id), zap.Error(err))
			result.Errors = append(result.Errors, BatchFailure{ContentID: id, Error: err.Error()})
			continue
		}
		result.Results = append(result.Results, resp)
	}

	result.Successful = len(result.Results)
	result.Failed = len(result.Errors)

	l.Info("batch mapping finished",
		zap.Int("successful", result.Successful),
		zap.Int("failed", result.Failed),
	)

	return result
}
