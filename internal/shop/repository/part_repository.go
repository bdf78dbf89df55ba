package repository

import (
	"context"
	"time"

	"github.com/SORencber/smartpunkt-api/internal/shop/entity"
	"gorm.io/gorm"
)

type PartRepository struct {
	db *gorm.DB
}

func NewPartRepository(db *gorm.DB) *PartRepository {
	return &PartRepository{db: db}
}

func (r *PartRepository) Create(ctx context.Context, part *entity.Part) error {
	return r.db.WithContext(ctx).Create(part).Error
}

func (r *PartRepository) Save(ctx context.Context, part *entity.Part) error {
	return r.db.WithContext(ctx).Save(part).Error
}

func (r *PartRepository) FindByID(ctx context.Context, id string) (*entity.Part, error) {
	var part entity.Part
	if err := r.db.WithContext(ctx).First(&part, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &part, nil
}

// PartListParams narrows List. Zero values mean "no filter".
type PartListParams struct {
	BrandID    string
	ModelID    string
	Category   string
	OnlyActive bool
	Page       int
	PageSize   int
}

func (r *PartRepository) List(ctx context.Context, params PartListParams) ([]entity.Part, int64, error) {
	q := r.db.WithContext(ctx).Model(&entity.Part{})
	if params.BrandID != "" {
		q = q.Where("brand_id = ?", params.BrandID)
	}
	if params.ModelID != "" {
		q = q.Where("model_id = ?", params.ModelID)
	}
	if params.Category != "" {
		q = q.Where("category = ?", params.Category)
	}
	if params.OnlyActive {
		q = q.Where("is_active = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params.Page > 0 && params.PageSize > 0 {
		q = q.Offset((params.Page - 1) * params.PageSize).Limit(params.PageSize)
	}

	var parts []entity.Part
	err := q.Order("updated_at DESC").Find(&parts).Error
	return parts, total, err
}

// ListActive returns every active catalog part, for bulk reconciliation.
func (r *PartRepository) ListActive(ctx context.Context) ([]entity.Part, error) {
	var parts []entity.Part
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&parts).Error
	return parts, err
}

// LatestUpdateForBrand returns the updated_at of the most recently touched
// active part of a brand, or nil when the brand has none.
func (r *PartRepository) LatestUpdateForBrand(ctx context.Context, brandID string) (*time.Time, error) {
	var part entity.Part
	err := r.db.WithContext(ctx).
		Where("brand_id = ? AND is_active = ?", brandID, true).
		Order("updated_at DESC").
		First(&part).Error
	if err != nil {
		if translateNotFound(err) == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	t := part.UpdatedAt
	return &t, nil
}
