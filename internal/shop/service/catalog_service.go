package service

import (
	"context"
	"fmt"
	"time"

	"github.com/SORencber/smartpunkt-api/internal/shop/entity"
	"github.com/SORencber/smartpunkt-api/internal/shop/repository"
)

// CatalogService manages the reference tables parts classify against.
type CatalogService struct {
	repo *repository.CatalogRepository
}

func NewCatalogService(repo *repository.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

type CreateBrandRequest struct {
	Name string `json:"name" binding:"required"`
}

func (s *CatalogService) CreateBrand(ctx context.Context, req *CreateBrandRequest) (*entity.Brand, error) {
	now := time.Now()
	brand := &entity.Brand{
		ID:        newID(),
		Name:      req.Name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateBrand(ctx, brand); err != nil {
		return nil, fmt.Errorf("create brand: %w", err)
	}
	return brand, nil
}

func (s *CatalogService) ListBrands(ctx context.Context) ([]entity.Brand, error) {
	return s.repo.ListBrands(ctx)
}

type CreateDeviceTypeRequest struct {
	Name string `json:"name" binding:"required"`
}

func (s *CatalogService) CreateDeviceType(ctx context.Context, req *CreateDeviceTypeRequest) (*entity.DeviceType, error) {
	now := time.Now()
	dt := &entity.DeviceType{
		ID:        newID(),
		Name:      req.Name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateDeviceType(ctx, dt); err != nil {
		return nil, fmt.Errorf("create device type: %w", err)
	}
	return dt, nil
}

func (s *CatalogService) ListDeviceTypes(ctx context.Context) ([]entity.DeviceType, error) {
	return s.repo.ListDeviceTypes(ctx)
}

type CreateModelRequest struct {
	Name         string `json:"name" binding:"required"`
	BrandID      string `json:"brand_id" binding:"required"`
	DeviceTypeID string `json:"device_type_id" binding:"required"`
}

func (s *CatalogService) CreateModel(ctx context.Context, req *CreateModelRequest) (*entity.DeviceModel, error) {
	if _, err := s.repo.FindBrand(ctx, req.BrandID); err != nil {
		return nil, err
	}
	now := time.Now()
	model := &entity.DeviceModel{
		ID:           newID(),
		Name:         req.Name,
		BrandID:      req.BrandID,
		DeviceTypeID: req.DeviceTypeID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateModel(ctx, model); err != nil {
		return nil, fmt.Errorf("create model: %w", err)
	}
	return model, nil
}

func (s *CatalogService) ListModels(ctx context.Context, brandID string) ([]entity.DeviceModel, error) {
	return s.repo.ListModels(ctx, brandID)
}
