package entity

import "time"

// DeviceType groups models by hardware kind (phone, tablet, laptop, ...).
type DeviceType struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	Name      string    `json:"name" gorm:"size:64;not null;uniqueIndex"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DeviceType) TableName() string {
	return "device_types"
}

type Brand struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	Name      string    `json:"name" gorm:"size:64;not null;uniqueIndex"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Brand) TableName() string {
	return "brands"
}

// DeviceModel is one concrete device a part can belong to or be compatible
// with.
type DeviceModel struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	BrandID      string    `json:"brand_id" gorm:"size:32;not null;index"`
	DeviceTypeID string    `json:"device_type_id" gorm:"size:32;not null;index"`
	Name         string    `json:"name" gorm:"size:128;not null"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (DeviceModel) TableName() string {
	return "device_models"
}
