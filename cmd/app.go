package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/spigell/lexnorm/internal/ai"
	"github.com/spigell/lexnorm/internal/ai/gemini"
	"github.com/spigell/lexnorm/internal/catalog"
	"github.com/spigell/lexnorm/internal/config"
	"github.com/spigell/lexnorm/internal/content"
	"github.com/spigell/lexnorm/internal/extractor"
	"github.com/spigell/lexnorm/internal/logger"
	"github.com/spigell/lexnorm/internal/mapper"
	"github.com/spigell/lexnorm/internal/mapping"
	"github.com/spigell/lexnorm/internal/secrets"
	"github.com/spigell/lexnorm/internal/server"
	"github.com/spigell/lexnorm/internal/store"
	"github.com/spigell/lexnorm/internal/summarizer"
)

const geminiKeyEnv = "GEMINI_API_KEY"

var errCompletionDisabled = errors.New("completion service is not configured for this command")

// application wires storage, the completion service and the pipeline services.
type application struct {
	config *config.Config
	logger *zap.Logger
	db     *gorm.DB

	contents *content.Service
	mapping  *mapping.Service
	catalog  *store.CatalogRepo
	loader   *catalog.Loader
	settings *store.SettingsRepo
	results  *store.ResultRepo
}

// newApplication builds the application. Commands that never call the completion service
// pass withAI=false and do not need an API key.
func newApplication(ctx context.Context, withAI bool) (*application, error) {
	log, err := logger.New(logger.Options{
		JSON:  viper.GetBool("json"),
		Debug: viper.GetBool("debug"),

		// stdout carries command output.
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	cfg, err := getConfig()
	if err != nil {
		return nil, fmt.Errorf("getting a config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		return nil, fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(cfg), "", "  ")
	log.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	db, err := store.Open(cfg.Database, log)
	if err != nil {
		return nil, err
	}

	completer, err := newCompleter(ctx, cfg, withAI, log)
	if err != nil {
		closeDB(db)
		return nil, err
	}

	catalogRepo := store.NewCatalogRepo(db)
	settingsRepo := store.NewSettingsRepo(db)
	resultRepo := store.NewResultRepo(db)

	contents := content.NewService(
		store.NewContentRepo(db),
		extractor.New(log),
		summarizer.New(completer, cfg.Prompts.Summary, log),
		log,
	)

	return &application{
		config:   cfg,
		logger:   log,
		db:       db,
		contents: contents,
		mapping: mapping.NewService(
			contents,
			catalogRepo,
			settingsRepo,
			resultRepo,
			mapper.New(completer, catalogRepo, cfg.Prompts.Mapping, cfg.Log.MaxLength, log),
			log,
		),
		catalog:  catalogRepo,
		loader:   catalog.NewLoader(catalogRepo, log),
		settings: settingsRepo,
		results:  resultRepo,
	}, nil
}

func newCompleter(ctx context.Context, cfg *config.Config, withAI bool, log *zap.Logger) (ai.Completer, error) {
	if !withAI {
		return ai.CompleterFunc(func(context.Context, string) (string, error) {
			return "", errCompletionDisabled
		}), nil
	}

	key, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		Env:   geminiKeyEnv,
		File:  cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, err
	}

	return gemini.NewGenerator(ctx, key, cfg.Gemini.Model, cfg.Log.MaxLength, log)
}

func (a *application) server() *server.Server {
	return server.New(server.Deps{
		Contents: a.contents,
		Mapping:  a.mapping,
		Catalog:  a.catalog,
		Loader:   a.loader,
		Settings: a.settings,
		Results:  a.results,
	}, a.logger)
}

func (a *application) Close() {
	closeDB(a.db)
	_ = a.logger.Sync()
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func redacted(cfg *config.Config) config.Config {
	out := *cfg
	if cfg.Gemini != nil {
		g := *cfg.Gemini
		if g.APIKey != "" {
			g.APIKey = "***"
		}
		out.Gemini = &g
	}
	if cfg.Database != nil {
		d := *cfg.Database
		d.DSN = "***"
		d.Replicas = nil
		out.Database = &d
	}
	return out
}
