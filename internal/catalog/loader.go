package catalog

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/spigell/lexnorm/internal/logger"
	"github.com/spigell/lexnorm/internal/model"
)

// Writer stores normalized catalog records.
type Writer interface {
	Insert(ctx context.Context, standards []model.Standard, batchSize int, replace bool) error
}

type Options struct {
	// Replace drops the current catalog in the same transaction as the insert.
	Replace   bool
	BatchSize int
}

type Loader struct {
	writer Writer
	logger *zap.Logger
}

func NewLoader(w Writer, l *zap.Logger) *Loader {
	return &Loader{writer: w, logger: logger.WithComponent(l, "catalog-loader")}
}

// LoadCSV reads, forward-fills and stores a catalog export. Rejected rows are reported,
// they never abort the load.
func (l *Loader) LoadCSV(ctx context.Context, r io.Reader, opts Options) (*Report, error) {
	rows, err := ReadCSV(r)
	if err != nil {
		return nil, err
	}
	return l.Load(ctx, rows, opts)
}

func (l *Loader) Load(ctx context.Context, rows []Row, opts Options) (*Report, error) {
	// Line 1 is the header.
	standards, report := Normalize(rows, 2)

	for _, msg := range report.Errors {
		l.logger.Warn("catalog row rejected", zap.String("reason", msg))
	}

	if err := l.writer.Insert(ctx, standards, opts.BatchSize, opts.Replace); err != nil {
		return nil, fmt.Errorf("store catalog: %w", err)
	}

	l.logger.Info("catalog loaded",
		zap.Int("total", report.Total),
		zap.Int("imported", report.Imported),
		zap.Int("rejected", len(report.Errors)),
		zap.Bool("replace", opts.Replace),
	)

	return &report, nil
}
