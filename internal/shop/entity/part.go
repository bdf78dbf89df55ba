package entity

import (
	"time"

	"gorm.io/gorm"
)

// Part is the canonical catalog record, shared across all branches. Branches
// never edit it directly; they carry their own projection (BranchPart).
type Part struct {
	ID           string `json:"id" gorm:"primaryKey;size:32"`
	DeviceTypeID string `json:"device_type_id" gorm:"size:32;not null"`
	BrandID      string `json:"brand_id" gorm:"size:32;not null;index"`
	ModelID      string `json:"model_id" gorm:"size:32;not null"`
	Category     string `json:"category" gorm:"size:64;index"`

	Name        LocalizedText `json:"name" gorm:"embedded;embeddedPrefix:name_"`
	Description LocalizedText `json:"description" gorm:"embedded;embeddedPrefix:description_"`

	// Barcode/QRCode are optional; uniqueness is sparse (NULLs don't collide).
	Barcode *string `json:"barcode,omitempty" gorm:"size:64;uniqueIndex"`
	QRCode  *string `json:"qr_code,omitempty" gorm:"size:64;uniqueIndex"`

	Cost       Money   `json:"cost" gorm:"embedded;embeddedPrefix:cost_"`
	Price      Money   `json:"price" gorm:"embedded;embeddedPrefix:price_"`
	ServiceFee Money   `json:"service_fee" gorm:"embedded;embeddedPrefix:service_fee_"`
	Margin     float64 `json:"margin" gorm:"type:numeric(7,2);not null;default:0"`

	Stock         int    `json:"stock" gorm:"not null;default:0"`
	MinStockLevel int    `json:"min_stock_level" gorm:"not null;default:5"`
	ShelfNumber   string `json:"shelf_number" gorm:"size:32;not null;default:0"`

	CompatibleWith StringList `json:"compatible_with,omitempty" gorm:"type:jsonb"`

	IsActive bool `json:"is_active" gorm:"not null;default:true;index"`

	CreatedBy UserRef   `json:"created_by" gorm:"embedded;embeddedPrefix:created_by_"`
	UpdatedBy UserRef   `json:"updated_by" gorm:"embedded;embeddedPrefix:updated_by_"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Part) TableName() string {
	return "parts"
}

// BeforeSave re-derives margin on every persist, not just on create.
func (p *Part) BeforeSave(tx *gorm.DB) error {
	if p.Cost.Currency == "" {
		p.Cost.Currency = DefaultCurrency
	}
	if p.Price.Currency == "" {
		p.Price.Currency = DefaultCurrency
	}
	if p.ServiceFee.Currency == "" {
		p.ServiceFee.Currency = DefaultCurrency
	}
	p.Margin = RecomputeMargin(p.Cost.Amount, p.Price.Amount, p.Margin)
	return nil
}
