package service

import (
	"context"
	"fmt"
	"time"

	"github.com/SORencber/smartpunkt-api/internal/shop/entity"
	"github.com/SORencber/smartpunkt-api/internal/shop/repository"
)

// PartService owns the canonical catalog. Every successful create or update
// publishes exactly one PartChange so branch staff get notified that a sync
// may be needed.
type PartService struct {
	repo *repository.PartRepository
	bus  *PartChangeBus
}

func NewPartService(repo *repository.PartRepository, bus *PartChangeBus) *PartService {
	return &PartService{repo: repo, bus: bus}
}

type LocalizedInput struct {
	TR string `json:"tr"`
	DE string `json:"de"`
	EN string `json:"en"`
}

type MoneyInput struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type CreatePartRequest struct {
	DeviceTypeID   string          `json:"device_type_id" binding:"required"`
	BrandID        string          `json:"brand_id" binding:"required"`
	ModelID        string          `json:"model_id" binding:"required"`
	Category       string          `json:"category"`
	Name           LocalizedInput  `json:"name" binding:"required"`
	Description    LocalizedInput  `json:"description"`
	Barcode        *string         `json:"barcode"`
	QRCode         *string         `json:"qr_code"`
	Cost           MoneyInput      `json:"cost"`
	Price          MoneyInput      `json:"price"`
	ServiceFee     MoneyInput      `json:"service_fee"`
	Stock          int             `json:"stock"`
	MinStockLevel  *int            `json:"min_stock_level"`
	ShelfNumber    string          `json:"shelf_number"`
	CompatibleWith []string        `json:"compatible_with"`
}

type UpdatePartRequest struct {
	DeviceTypeID   *string         `json:"device_type_id"`
	BrandID        *string         `json:"brand_id"`
	ModelID        *string         `json:"model_id"`
	Category       *string         `json:"category"`
	Name           *LocalizedInput `json:"name"`
	Description    *LocalizedInput `json:"description"`
	Barcode        *string         `json:"barcode"`
	QRCode         *string         `json:"qr_code"`
	Cost           *MoneyInput     `json:"cost"`
	Price          *MoneyInput     `json:"price"`
	ServiceFee     *MoneyInput     `json:"service_fee"`
	Stock          *int            `json:"stock"`
	MinStockLevel  *int            `json:"min_stock_level"`
	ShelfNumber    *string         `json:"shelf_number"`
	CompatibleWith []string        `json:"compatible_with"`
}

func (in LocalizedInput) toEntity() entity.LocalizedText {
	return entity.LocalizedText{TR: in.TR, DE: in.DE, EN: in.EN}
}

func (in MoneyInput) toEntity() entity.Money {
	currency := in.Currency
	if currency == "" {
		currency = entity.DefaultCurrency
	}
	return entity.Money{Amount: in.Amount, Currency: currency}
}

func (s *PartService) Create(ctx context.Context, actor entity.UserRef, req *CreatePartRequest) (*entity.Part, error) {
	if req.Name.TR == "" || req.Name.DE == "" || req.Name.EN == "" {
		return nil, fmt.Errorf("part name is required in tr, de and en")
	}

	now := time.Now()
	part := &entity.Part{
		ID:             newID(),
		DeviceTypeID:   req.DeviceTypeID,
		BrandID:        req.BrandID,
		ModelID:        req.ModelID,
		Category:       req.Category,
		Name:           req.Name.toEntity(),
		Description:    req.Description.toEntity(),
		Barcode:        req.Barcode,
		QRCode:         req.QRCode,
		Cost:           req.Cost.toEntity(),
		Price:          req.Price.toEntity(),
		ServiceFee:     req.ServiceFee.toEntity(),
		Stock:          req.Stock,
		MinStockLevel:  5,
		ShelfNumber:    "0",
		CompatibleWith: req.CompatibleWith,
		IsActive:       true,
		CreatedBy:      actor,
		UpdatedBy:      actor,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.MinStockLevel != nil {
		part.MinStockLevel = *req.MinStockLevel
	}
	if req.ShelfNumber != "" {
		part.ShelfNumber = req.ShelfNumber
	}

	if err := s.repo.Create(ctx, part); err != nil {
		return nil, fmt.Errorf("create part: %w", err)
	}

	s.bus.Publish(ctx, PartChange{Part: part, Created: true, Actor: actor})
	return part, nil
}

func (s *PartService) Update(ctx context.Context, actor entity.UserRef, id string, req *UpdatePartRequest) (*entity.Part, error) {
	part, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DeviceTypeID != nil {
		part.DeviceTypeID = *req.DeviceTypeID
	}
	if req.BrandID != nil {
		part.BrandID = *req.BrandID
	}
	if req.ModelID != nil {
		part.ModelID = *req.ModelID
	}
	if req.Category != nil {
		part.Category = *req.Category
	}
	if req.Name != nil {
		if req.Name.TR == "" || req.Name.DE == "" || req.Name.EN == "" {
			return nil, fmt.Errorf("part name is required in tr, de and en")
		}
		part.Name = req.Name.toEntity()
	}
	if req.Description != nil {
		part.Description = req.Description.toEntity()
	}
	if req.Barcode != nil {
		part.Barcode = req.Barcode
	}
	if req.QRCode != nil {
		part.QRCode = req.QRCode
	}
	if req.Cost != nil {
		part.Cost = req.Cost.toEntity()
	}
	if req.Price != nil {
		part.Price = req.Price.toEntity()
	}
	if req.ServiceFee != nil {
		part.ServiceFee = req.ServiceFee.toEntity()
	}
	if req.Stock != nil {
		part.Stock = *req.Stock
	}
	if req.MinStockLevel != nil {
		part.MinStockLevel = *req.MinStockLevel
	}
	if req.ShelfNumber != nil {
		part.ShelfNumber = *req.ShelfNumber
	}
	if req.CompatibleWith != nil {
		part.CompatibleWith = req.CompatibleWith
	}
	part.UpdatedBy = actor
	part.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, part); err != nil {
		return nil, fmt.Errorf("update part: %w", err)
	}

	s.bus.Publish(ctx, PartChange{Part: part, Created: false, Actor: actor})
	return part, nil
}

// Delete is a soft delete: the part is flagged inactive, never removed. The
// change still fans out as a part update.
func (s *PartService) Delete(ctx context.Context, actor entity.UserRef, id string) error {
	part, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	part.IsActive = false
	part.UpdatedBy = actor
	part.UpdatedAt = time.Now()
	if err := s.repo.Save(ctx, part); err != nil {
		return fmt.Errorf("deactivate part: %w", err)
	}
	s.bus.Publish(ctx, PartChange{Part: part, Created: false, Actor: actor})
	return nil
}

func (s *PartService) Get(ctx context.Context, id string) (*entity.Part, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *PartService) List(ctx context.Context, params repository.PartListParams) ([]entity.Part, int64, error) {
	return s.repo.List(ctx, params)
}
