package entity

import "time"

const (
	BranchStatusActive   = "active"
	BranchStatusInactive = "inactive"
)

// Branch is the isolation boundary for inventory: every branch owns one
// physical branch_<id>_parts table.
type Branch struct {
	ID              string    `json:"id" gorm:"primaryKey;size:32"`
	Name            string    `json:"name" gorm:"size:128;not null"`
	Code            string    `json:"code" gorm:"size:16;not null;uniqueIndex"`
	Address         string    `json:"address,omitempty" gorm:"type:text"`
	Phone           string    `json:"phone,omitempty" gorm:"size:32"`
	ManagerName     string    `json:"manager_name,omitempty" gorm:"size:128"`
	IsCentral       bool      `json:"is_central" gorm:"not null;default:false"`
	Status          string    `json:"status" gorm:"size:16;not null;default:active;index"`
	DefaultLanguage string    `json:"default_language" gorm:"size:8;not null;default:tr"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Branch) TableName() string {
	return "branches"
}
