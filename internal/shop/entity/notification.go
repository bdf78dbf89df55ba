package entity

import "time"

const (
	NotificationPartCreate = "part_create"
	NotificationPartUpdate = "part_update"
)

// Notification is a branch-targeted feed entry created when a catalog part is
// created or updated. Rows are never deleted here; retention is handled
// elsewhere.
type Notification struct {
	ID       string        `json:"id" gorm:"primaryKey;size:32"`
	Type     string        `json:"type" gorm:"size:16;not null"`
	BranchID string        `json:"branch_id" gorm:"size:32;not null;index"`
	PartID   string        `json:"part_id" gorm:"size:32;not null;index"`
	Message  LocalizedText `json:"message" gorm:"embedded;embeddedPrefix:message_"`
	IsRead   bool          `json:"is_read" gorm:"not null;default:false;index"`

	CreatedBy UserRef   `json:"created_by" gorm:"embedded;embeddedPrefix:created_by_"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
