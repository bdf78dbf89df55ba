package repository

import (
	"context"

	"github.com/SORencber/smartpunkt-api/internal/shop/entity"
	"gorm.io/gorm"
)

// CatalogRepository covers the small reference tables parts point into.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) CreateBrand(ctx context.Context, brand *entity.Brand) error {
	return r.db.WithContext(ctx).Create(brand).Error
}

func (r *CatalogRepository) ListBrands(ctx context.Context) ([]entity.Brand, error) {
	var brands []entity.Brand
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&brands).Error
	return brands, err
}

func (r *CatalogRepository) FindBrand(ctx context.Context, id string) (*entity.Brand, error) {
	var brand entity.Brand
	if err := r.db.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &brand, nil
}

func (r *CatalogRepository) CreateDeviceType(ctx context.Context, dt *entity.DeviceType) error {
	return r.db.WithContext(ctx).Create(dt).Error
}

func (r *CatalogRepository) ListDeviceTypes(ctx context.Context) ([]entity.DeviceType, error) {
	var types []entity.DeviceType
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&types).Error
	return types, err
}

func (r *CatalogRepository) CreateModel(ctx context.Context, model *entity.DeviceModel) error {
	return r.db.WithContext(ctx).Create(model).Error
}

func (r *CatalogRepository) ListModels(ctx context.Context, brandID string) ([]entity.DeviceModel, error) {
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if brandID != "" {
		q = q.Where("brand_id = ?", brandID)
	}
	var models []entity.DeviceModel
	err := q.Order("name ASC").Find(&models).Error
	return models, err
}
