package entity

import (
	"time"

	"gorm.io/gorm"
)

// BranchPart is a branch-local projection of a catalog Part. The catalog-owned
// fields are mirrored by the sync engine; every branch_-prefixed column is
// owned by the branch and must never be written on a catalog-driven update.
//
// BranchPart has no fixed TableName: each branch stores its rows in its own
// branch_<id>_parts table (see repository.BranchPartRepository). Indexes are
// created there as well, since their names embed the physical table name.
type BranchPart struct {
	ID string `json:"id" gorm:"primaryKey;size:32"`

	// Reference back to the source catalog record. Unique per branch table so
	// a racing double "first sync" cannot leave two rows for one part.
	PartID string `json:"part_id" gorm:"size:32;not null"`

	// Catalog-owned mirror.
	DeviceTypeID   string        `json:"device_type_id" gorm:"size:32;not null"`
	BrandID        string        `json:"brand_id" gorm:"size:32;not null"`
	ModelID        string        `json:"model_id" gorm:"size:32;not null"`
	Category       string        `json:"category" gorm:"size:64"`
	Name           LocalizedText `json:"name" gorm:"embedded;embeddedPrefix:name_"`
	Description    LocalizedText `json:"description" gorm:"embedded;embeddedPrefix:description_"`
	Barcode        *string       `json:"barcode,omitempty" gorm:"size:64"`
	QRCode         *string       `json:"qr_code,omitempty" gorm:"size:64"`
	CompatibleWith StringList    `json:"compatible_with,omitempty" gorm:"type:jsonb"`
	IsActive       bool          `json:"is_active" gorm:"not null;default:true"`

	// Branch-owned. Seeded with defaults on first sync, then only touched by
	// branch-local edits.
	Stock         int     `json:"branch_stock" gorm:"column:branch_stock;not null;default:0"`
	MinStockLevel int     `json:"branch_min_stock_level" gorm:"column:branch_min_stock_level;not null;default:5"`
	Cost          Money   `json:"branch_cost" gorm:"embedded;embeddedPrefix:branch_cost_"`
	Price         Money   `json:"branch_price" gorm:"embedded;embeddedPrefix:branch_price_"`
	Margin        float64 `json:"branch_margin" gorm:"column:branch_margin;type:numeric(7,2);not null;default:20"`
	ShelfNumber   string  `json:"branch_shelf_number" gorm:"column:branch_shelf_number;size:32;not null;default:0"`
	ServiceFee    Money   `json:"branch_service_fee" gorm:"embedded;embeddedPrefix:branch_service_fee_"`

	// Unrecognized catalog fields land here so catalog schema evolution never
	// breaks existing branch rows.
	Extra JSONB `json:"extra,omitempty" gorm:"type:jsonb"`

	CreatedBy UserRef   `json:"created_by" gorm:"embedded;embeddedPrefix:created_by_"`
	UpdatedBy UserRef   `json:"updated_by" gorm:"embedded;embeddedPrefix:updated_by_"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeSave derives the branch margin from branch cost/price only. A branch
// can end up with a very different margin than the catalog.
func (bp *BranchPart) BeforeSave(tx *gorm.DB) error {
	if bp.Cost.Currency == "" {
		bp.Cost.Currency = DefaultCurrency
	}
	if bp.Price.Currency == "" {
		bp.Price.Currency = DefaultCurrency
	}
	if bp.ServiceFee.Currency == "" {
		bp.ServiceFee.Currency = DefaultCurrency
	}
	bp.Margin = RecomputeMargin(bp.Cost.Amount, bp.Price.Amount, bp.Margin)
	return nil
}

// SeedBranchDefaults sets the branch-owned fields to their initial values.
func (bp *BranchPart) SeedBranchDefaults() {
	bp.Stock = 0
	bp.MinStockLevel = 5
	bp.Cost = Money{Amount: 0, Currency: DefaultCurrency}
	bp.Price = Money{Amount: 0, Currency: DefaultCurrency}
	bp.Margin = 20
	bp.ShelfNumber = "0"
	bp.ServiceFee = Money{Amount: 0, Currency: DefaultCurrency}
}

// ApplyCatalogFields copies the catalog-owned whitelist from a Part. This is
// the only place the mirrored field list is enumerated; branch-owned fields
// are deliberately absent.
func (bp *BranchPart) ApplyCatalogFields(p *Part) {
	bp.PartID = p.ID
	bp.DeviceTypeID = p.DeviceTypeID
	bp.BrandID = p.BrandID
	bp.ModelID = p.ModelID
	bp.Category = p.Category
	bp.Name = p.Name
	bp.Description = p.Description
	bp.Barcode = p.Barcode
	bp.QRCode = p.QRCode
	bp.CompatibleWith = p.CompatibleWith
	bp.IsActive = p.IsActive
}
