package repository

import (
	"context"

	"github.com/SORencber/smartpunkt-api/internal/shop/entity"
	"gorm.io/gorm"
)

type BranchRepository struct {
	db *gorm.DB
}

func NewBranchRepository(db *gorm.DB) *BranchRepository {
	return &BranchRepository{db: db}
}

func (r *BranchRepository) Create(ctx context.Context, branch *entity.Branch) error {
	return r.db.WithContext(ctx).Create(branch).Error
}

func (r *BranchRepository) Save(ctx context.Context, branch *entity.Branch) error {
	return r.db.WithContext(ctx).Save(branch).Error
}

func (r *BranchRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.Branch{}, "id = ?", id).Error
}

func (r *BranchRepository) FindByID(ctx context.Context, id string) (*entity.Branch, error) {
	var branch entity.Branch
	if err := r.db.WithContext(ctx).First(&branch, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &branch, nil
}

func (r *BranchRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Branch{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *BranchRepository) List(ctx context.Context) ([]entity.Branch, error) {
	var branches []entity.Branch
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&branches).Error
	return branches, err
}

func (r *BranchRepository) ListActive(ctx context.Context) ([]entity.Branch, error) {
	var branches []entity.Branch
	err := r.db.WithContext(ctx).
		Where("status = ?", entity.BranchStatusActive).
		Order("created_at ASC").
		Find(&branches).Error
	return branches, err
}
