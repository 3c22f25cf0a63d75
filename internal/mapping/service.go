package mapping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/spigell/lexnorm/internal/logger"
	"github.com/spigell/lexnorm/internal/mapper"
	"github.com/spigell/lexnorm/internal/model"
	"github.com/spigell/lexnorm/internal/store"
)

var (
	ErrSettingsNotFound = errors.New("settings not found")
	// ErrPersistenceFailed is logged only, the mapping response is still returned.
	ErrPersistenceFailed = errors.New("mapping run could not be persisted")
)

type ContentSource interface {
	Get(ctx context.Context, id uint) (*model.Content, error)
	EnsureSummary(ctx context.Context, c *model.Content) (string, error)
}

type StandardsSource interface {
	ByJobRole(ctx context.Context, filter string) ([]model.Standard, error)
}

type SettingsSource interface {
	Get(ctx context.Context, id uint) (*model.Settings, error)
}

type RunWriter interface {
	Save(ctx context.Context, run *model.MappingRun) (uint, error)
}

type Mapper interface {
	Map(ctx context.Context, req mapper.Request) (*mapper.Result, error)
}

type Request struct {
	ContentID     uint   `json:"content_id"`
	SettingsID    *uint  `json:"settings_id,omitempty"`
	JobRoleFilter string `json:"job_role_filter,omitempty"`
}

// Service runs the content mapping pipeline: summary, standards, mapping, snapshot.
type Service struct {
	contents  ContentSource
	standards StandardsSource
	settings  SettingsSource
	runs      RunWriter
	mapper    Mapper
	logger    *zap.Logger
}

func NewService(contents ContentSource, standards StandardsSource, settings SettingsSource, runs RunWriter, m Mapper, l *zap.Logger) *Service {
	return &Service{
		contents:  contents,
		standards: standards,
		settings:  settings,
		runs:      runs,
		mapper:    m,
		logger:    logger.WithComponent(l, "mapping"),
	}
}

// MapContent maps one content to the catalog. A missing summary is generated and stored first,
// that write survives a later mapping failure. Persisting the run is best effort.
func (s *Service) MapContent(ctx context.Context, req Request) (*model.MappingResponse, error) {
	l := s.logger.With(zap.Uint(logger.FieldContentID, req.ContentID))

	content, err := s.contents.Get(ctx, req.ContentID)
	if err != nil {
		return nil, err
	}

	summary, err := s.contents.EnsureSummary(ctx, content)
	if err != nil {
		return nil, err
	}

	var settings *model.Settings
	if req.SettingsID != nil {
		settings, err = s.settings.Get(ctx, *req.SettingsID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("%w: id %d", ErrSettingsNotFound, *req.SettingsID)
			}
			return nil, err
		}
	}

	filter := strings.TrimSpace(req.JobRoleFilter)
	mapReq := mapper.Request{Summary: summary}
	if settings != nil {
		if filter == "" {
			filter = strings.TrimSpace(settings.JobRoleFilterHint)
		}
		mapReq.CustomPrompt = settings.Prompt
		mapReq.Model = settings.ModelName
	}

	mapReq.Standards, err = s.standards.ByJobRole(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("load standards: %w", err)
	}
	if len(mapReq.Standards) == 0 {
		if filter != "" {
			return nil, fmt.Errorf("%w for job role %q", mapper.ErrNoStandardsAvailable, filter)
		}
		return nil, fmt.Errorf("%w, import standards first", mapper.ErrNoStandardsAvailable)
	}

	l.Info("mapping content",
		zap.Int("standards", len(mapReq.Standards)),
		zap.String("job_role_filter", filter),
	)

	result, err := s.mapper.Map(ctx, mapReq)
	if err != nil {
		return nil, err
	}

	resp := &model.MappingResponse{
		ContentID:              content.ID,
		MappedStandards:        result.Matches,
		OverallConfidenceScore: result.OverallConfidence,
		OverallGapAnalysis:     result.OverallGapAnalysis,
		SummaryUsed:            summary,
	}

	if id, err := s.persist(ctx, req, filter, resp); err != nil {
		l.Warn("mapping run not persisted", zap.Error(err))
	} else {
		resp.RunID = &id
		l.Info("mapping run persisted", zap.Uint(logger.FieldRunID, id))
	}

	return resp, nil
}

func (s *Service) persist(ctx context.Context, req Request, filter string, resp *model.MappingResponse) (uint, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return 0, fmt.Errorf("%w: encode: %v", ErrPersistenceFailed, err)
	}

	run := &model.MappingRun{
		ContentID:      resp.ContentID,
		SettingsID:     req.SettingsID,
		MappingData:    datatypes.JSON(data),
		StandardsCount: len(resp.MappedStandards),
	}
	if filter != "" {
		run.JobRoleFilter = &filter
	}
	if resp.OverallConfidenceScore != 0 {
		score := fmt.Sprintf("%.1f", resp.OverallConfidenceScore)
		run.OverallConfidenceScore = &score
	}

	id, err := s.runs.Save(ctx, run)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	return id, nil
}
