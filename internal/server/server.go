package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/lexnorm/internal/catalog"
	"github.com/spigell/lexnorm/internal/logger"
	"github.com/spigell/lexnorm/internal/mapping"
	"github.com/spigell/lexnorm/internal/model"
	"github.com/spigell/lexnorm/internal/store"
)

const shutdownTimeout = 10 * time.Second

type ContentService interface {
	Create(ctx context.Context, title, text string) (*model.Content, error)
	Upload(ctx context.Context, title, filename string, data []byte) (*model.Content, error)
	Get(ctx context.Context, id uint) (*model.Content, error)
	List(ctx context.Context, page store.Page) ([]model.Content, error)
	Update(ctx context.Context, id uint, upd store.ContentUpdate) (*model.Content, error)
	Delete(ctx context.Context, id uint) error
	GenerateSummary(ctx context.Context, id uint, customPrompt string) (*model.Content, error)
}

type MappingService interface {
	MapContent(ctx context.Context, req mapping.Request) (*model.MappingResponse, error)
	BatchMap(ctx context.Context, req mapping.BatchRequest) *mapping.BatchResult
}

type CatalogStore interface {
	List(ctx context.Context, query store.StandardQuery) ([]model.Standard, error)
	JobRoles(ctx context.Context) ([]string, error)
}

type CatalogLoader interface {
	LoadCSV(ctx context.Context, r io.Reader, opts catalog.Options) (*catalog.Report, error)
}

type SettingsStore interface {
	Create(ctx context.Context, settings *model.Settings) error
	Get(ctx context.Context, id uint) (*model.Settings, error)
	List(ctx context.Context, page store.Page) ([]model.Settings, error)
	Update(ctx context.Context, id uint, settings *model.Settings) (*model.Settings, error)
	Delete(ctx context.Context, id uint) error
}

type ResultStore interface {
	Get(ctx context.Context, id uint) (*model.MappingRun, error)
	List(ctx context.Context, query store.ResultQuery) ([]model.MappingRun, error)
}

type Deps struct {
	Contents ContentService
	Mapping  MappingService
	Catalog  CatalogStore
	Loader   CatalogLoader
	Settings SettingsStore
	Results  ResultStore
}

type Server struct {
	Engine *gin.Engine
	deps   Deps
	logger *zap.Logger
}

func New(deps Deps, l *zap.Logger) *Server {
	s := &Server{
		deps:   deps,
		logger: logger.WithComponent(l, "http"),
	}
	s.Engine = s.router()
	return s
}

func (s *Server) router() *gin.Engine {
	router := gin.New()
	router.Use(requestID(), accessLog(s.logger), recovery(s.logger))

	api := router.Group("/api/v1")
	api.GET("/health", s.health)

	contents := api.Group("/content")
	{
		contents.POST("", s.createContent)
		contents.POST("/upload", s.uploadContent)
		contents.GET("", s.listContent)
		contents.GET("/:id", s.getContent)
		contents.PUT("/:id", s.updateContent)
		contents.DELETE("/:id", s.deleteContent)
		contents.POST("/:id/generate-summary", s.generateSummary)
	}

	mappings := api.Group("/mapping")
	{
		mappings.POST("/map-content", s.mapContent)
		mappings.POST("/batch-map", s.batchMap)
		mappings.GET("/standards", s.listStandards)
		mappings.GET("/standards/job-roles", s.jobRoles)
		mappings.POST("/standards/import", s.importStandards)
		mappings.GET("/results", s.listResults)
		mappings.GET("/results/:id", s.getResult)
	}

	settings := api.Group("/settings")
	{
		settings.POST("", s.createSettings)
		settings.GET("", s.listSettings)
		settings.GET("/defaults/countries", s.listCountries)
		settings.GET("/defaults/standards", s.listStandardNames)
		settings.GET("/:id", s.getSettings)
		settings.PUT("/:id", s.updateSettings)
		settings.DELETE("/:id", s.deleteSettings)
	}

	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
