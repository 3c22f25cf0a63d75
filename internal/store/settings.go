package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/spigell/lexnorm/internal/model"
)

type SettingsRepo struct {
	db *gorm.DB
}

func NewSettingsRepo(db *gorm.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

func applyDefaults(settings *model.Settings) {
	if settings.TaskType == "" {
		settings.TaskType = model.TaskContentSummary
	}
	if settings.Country == "" {
		settings.Country = model.DefaultCountry
	}
	if settings.StandardName == "" {
		settings.StandardName = model.DefaultStandardName
	}
}

func (r *SettingsRepo) Create(ctx context.Context, settings *model.Settings) error {
	applyDefaults(settings)
	return r.db.WithContext(ctx).Create(settings).Error
}

func (r *SettingsRepo) Get(ctx context.Context, id uint) (*model.Settings, error) {
	var settings model.Settings
	if err := r.db.WithContext(ctx).First(&settings, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &settings, nil
}

func (r *SettingsRepo) List(ctx context.Context, page Page) ([]model.Settings, error) {
	var list []model.Settings
	if err := page.apply(r.db.WithContext(ctx).Order("id")).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Update overwrites the stored record with settings, keeping its id and creation time.
func (r *SettingsRepo) Update(ctx context.Context, id uint, settings *model.Settings) (*model.Settings, error) {
	current, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	applyDefaults(settings)
	settings.ID = current.ID
	settings.CreatedAt = current.CreatedAt
	if err := r.db.WithContext(ctx).Save(settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *SettingsRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Settings{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
