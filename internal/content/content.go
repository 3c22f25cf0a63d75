package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/lexnorm/internal/logger"
	"github.com/spigell/lexnorm/internal/model"
	"github.com/spigell/lexnorm/internal/store"
)

var (
	ErrContentNotFound = errors.New("course content not found")
	ErrInvalidContent  = errors.New("invalid course content")
)

type Repository interface {
	Create(ctx context.Context, content *model.Content) error
	Get(ctx context.Context, id uint) (*model.Content, error)
	List(ctx context.Context, page store.Page) ([]model.Content, error)
	Update(ctx context.Context, id uint, upd store.ContentUpdate) (*model.Content, error)
	SetSummary(ctx context.Context, id uint, summary string) error
	Delete(ctx context.Context, id uint) error
}

type Extractor interface {
	Extract(filename string, data []byte) (string, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, text, customPrompt string) (string, error)
}

// Service manages course content and its summaries.
type Service struct {
	repo       Repository
	extractor  Extractor
	summarizer Summarizer
	logger     *zap.Logger
}

func NewService(repo Repository, extractor Extractor, summarizer Summarizer, l *zap.Logger) *Service {
	return &Service{
		repo:       repo,
		extractor:  extractor,
		summarizer: summarizer,
		logger:     logger.WithComponent(l, "content"),
	}
}

func (s *Service) Create(ctx context.Context, title, text string) (*model.Content, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidContent)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: content text is required", ErrInvalidContent)
	}

	c := &model.Content{Title: title, Text: text}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}

	s.logger.Info("content created", zap.Uint(logger.FieldContentID, c.ID))

	return c, nil
}

// Upload extracts the text of an uploaded document and stores it as new content.
// Extraction errors are returned unwrapped so callers can match them.
func (s *Service) Upload(ctx context.Context, title, filename string, data []byte) (*model.Content, error) {
	text, err := s.extractor.Extract(filename, data)
	if err != nil {
		return nil, err
	}
	return s.Create(ctx, title, text)
}

func (s *Service) Get(ctx context.Context, id uint) (*model.Content, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, s.wrap(err, id)
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, page store.Page) ([]model.Content, error) {
	return s.repo.List(ctx, page)
}

func (s *Service) Update(ctx context.Context, id uint, upd store.ContentUpdate) (*model.Content, error) {
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", ErrInvalidContent)
	}

	c, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, s.wrap(err, id)
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.wrap(err, id)
	}
	s.logger.Info("content deleted", zap.Uint(logger.FieldContentID, id))
	return nil
}

// GenerateSummary summarizes the content and stores the result, replacing any previous summary.
func (s *Service) GenerateSummary(ctx context.Context, id uint, customPrompt string) (*model.Content, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.summarize(ctx, c, customPrompt); err != nil {
		return nil, err
	}
	return c, nil
}

// EnsureSummary returns the stored summary, generating it with the default prompt when absent.
// The summary is committed on its own, before anything the caller does next.
func (s *Service) EnsureSummary(ctx context.Context, c *model.Content) (string, error) {
	if c.HasSummary() {
		return *c.Summary, nil
	}

	if err := s.summarize(ctx, c, ""); err != nil {
		return "", err
	}
	return *c.Summary, nil
}

func (s *Service) summarize(ctx context.Context, c *model.Content, customPrompt string) error {
	l := s.logger.With(zap.Uint(logger.FieldContentID, c.ID))

	summary, err := s.summarizer.Summarize(ctx, c.Text, customPrompt)
	if err != nil {
		l.Error("summary generation failed", zap.Error(err))
		return err
	}

	if err := s.repo.SetSummary(ctx, c.ID, summary); err != nil {
		return s.wrap(fmt.Errorf("store summary: %w", err), c.ID)
	}
	c.Summary = &summary

	l.Info("summary stored")

	return nil
}

func (s *Service) wrap(err error, id uint) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: id %d", ErrContentNotFound, id)
	}
	return err
}
