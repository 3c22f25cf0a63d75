package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/spigell/lexnorm/internal/model"
)

// ResultQuery filters stored mapping runs. A nil ContentID lists runs of every content.
type ResultQuery struct {
	ContentID *uint
	Page
}

// ResultRepo is an append-only log of mapping runs.
type ResultRepo struct {
	db *gorm.DB
}

func NewResultRepo(db *gorm.DB) *ResultRepo {
	return &ResultRepo{db: db}
}

// Save writes the run inside a transaction and returns its id.
func (r *ResultRepo) Save(ctx context.Context, run *model.MappingRun) (uint, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(run).Error
	})
	if err != nil {
		return 0, err
	}
	return run.ID, nil
}

func (r *ResultRepo) Get(ctx context.Context, id uint) (*model.MappingRun, error) {
	var run model.MappingRun
	if err := r.db.WithContext(ctx).First(&run, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &run, nil
}

// List returns runs newest first.
func (r *ResultRepo) List(ctx context.Context, query ResultQuery) ([]model.MappingRun, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if query.ContentID != nil {
		q = q.Where("content_id = ?", *query.ContentID)
	}

	var runs []model.MappingRun
	if err := query.Page.apply(q).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
