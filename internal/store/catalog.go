package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/spigell/lexnorm/internal/model"
)

const DefaultInsertBatchSize = 100

// StandardQuery filters catalog listings. Search matches job role, NOS name or PC description.
type StandardQuery struct {
	Search string
	Page
}

// CatalogRepo is the query surface over the standards catalog.
// Catalog order is ascending id.
type CatalogRepo struct {
	db *gorm.DB
}

func NewCatalogRepo(db *gorm.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func (r *CatalogRepo) ordered(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Standard{}).Order("id")
}

func (r *CatalogRepo) List(ctx context.Context, query StandardQuery) ([]model.Standard, error) {
	q := r.ordered(ctx)
	if s := strings.TrimSpace(query.Search); s != "" {
		pattern := containsPattern(s)
		q = q.Where("LOWER(job_role) LIKE LOWER(?) ESCAPE '!' OR LOWER(nos_name) LIKE LOWER(?) ESCAPE '!' OR LOWER(pc_description) LIKE LOWER(?) ESCAPE '!'",
			pattern, pattern, pattern)
	}

	var standards []model.Standard
	if err := query.Page.apply(q).Find(&standards).Error; err != nil {
		return nil, err
	}
	return standards, nil
}

// ByJobRole returns every record whose job role contains filter, case-insensitively.
// An empty filter returns the whole catalog. Roles are folded in Go since SQLite LOWER
// only folds ASCII.
func (r *CatalogRepo) ByJobRole(ctx context.Context, filter string) ([]model.Standard, error) {
	q := r.ordered(ctx)
	if f := strings.TrimSpace(filter); f != "" {
		roles, err := r.JobRoles(ctx)
		if err != nil {
			return nil, err
		}

		matched := matchingRoles(roles, f)
		if len(matched) == 0 {
			return []model.Standard{}, nil
		}
		q = q.Where("job_role IN ?", matched)
	}

	var standards []model.Standard
	if err := q.Find(&standards).Error; err != nil {
		return nil, err
	}
	return standards, nil
}

func (r *CatalogRepo) JobRoles(ctx context.Context) ([]string, error) {
	var roles []string
	if err := r.db.WithContext(ctx).Model(&model.Standard{}).
		Distinct("job_role").
		Order("job_role").
		Pluck("job_role", &roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// FindExact returns the first record in catalog order with both codes, or ErrNotFound.
func (r *CatalogRepo) FindExact(ctx context.Context, nosCode, pcCode string) (*model.Standard, error) {
	var standard model.Standard
	if err := r.ordered(ctx).
		Where("nos_code = ? AND pc_code = ?", nosCode, pcCode).
		First(&standard).Error; err != nil {
		return nil, notFound(err)
	}
	return &standard, nil
}

// FindByNOS returns the first record in catalog order with the NOS code, or ErrNotFound.
func (r *CatalogRepo) FindByNOS(ctx context.Context, nosCode string) (*model.Standard, error) {
	var standard model.Standard
	if err := r.ordered(ctx).
		Where("nos_code = ?", nosCode).
		First(&standard).Error; err != nil {
		return nil, notFound(err)
	}
	return &standard, nil
}

func (r *CatalogRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Standard{}).Count(&n).Error
	return n, err
}

// Insert appends records in batches. When replace is set the existing catalog is removed
// first and both steps share one transaction.
func (r *CatalogRepo) Insert(ctx context.Context, standards []model.Standard, batchSize int, replace bool) error {
	if batchSize <= 0 {
		batchSize = DefaultInsertBatchSize
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if replace {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Standard{}).Error; err != nil {
				return err
			}
		}
		if len(standards) == 0 {
			return nil
		}
		return tx.CreateInBatches(standards, batchSize).Error
	})
}

func matchingRoles(roles []string, filter string) []string {
	needle := strings.ToLower(filter)
	var matched []string
	for _, role := range roles {
		if strings.Contains(strings.ToLower(role), needle) {
			matched = append(matched, role)
		}
	}
	return matched
}
