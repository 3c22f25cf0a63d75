package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/spigell/lexnorm/internal/model"
)

// ContentUpdate carries the fields to change. Nil fields are left untouched.
type ContentUpdate struct {
	Title   *string
	Text    *string
	Summary *string
}

type ContentRepo struct {
	db *gorm.DB
}

func NewContentRepo(db *gorm.DB) *ContentRepo {
	return &ContentRepo{db: db}
}

func (r *ContentRepo) Create(ctx context.Context, content *model.Content) error {
	return r.db.WithContext(ctx).Create(content).Error
}

func (r *ContentRepo) Get(ctx context.Context, id uint) (*model.Content, error) {
	var content model.Content
	if err := r.db.WithContext(ctx).First(&content, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &content, nil
}

func (r *ContentRepo) List(ctx context.Context, page Page) ([]model.Content, error) {
	var contents []model.Content
	q := page.apply(r.db.WithContext(ctx).Order("id"))
	if err := q.Find(&contents).Error; err != nil {
		return nil, err
	}
	return contents, nil
}

func (r *ContentRepo) Update(ctx context.Context, id uint, upd ContentUpdate) (*model.Content, error) {
	content, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		content.Title = *upd.Title
	}
	if upd.Text != nil {
		content.Text = *upd.Text
	}
	if upd.Summary != nil {
		content.Summary = upd.Summary
	}

	if err := r.db.WithContext(ctx).Save(content).Error; err != nil {
		return nil, err
	}
	return content, nil
}

// SetSummary stores the summary in its own write, independent of any later mapping run.
func (r *ContentRepo) SetSummary(ctx context.Context, id uint, summary string) error {
	res := r.db.WithContext(ctx).Model(&model.Content{}).Where("id = ?", id).Update("summary", summary)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ContentRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Content{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
