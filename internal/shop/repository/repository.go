package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidBranch = errors.New("invalid branch id")
)

// Repositories bundles every store behind one constructor.
type Repositories struct {
	Part         *PartRepository
	Branch       *BranchRepository
	BranchPart   *BranchPartRepository
	Notification *NotificationRepository
	Catalog      *CatalogRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Part:         NewPartRepository(db),
		Branch:       NewBranchRepository(db),
		BranchPart:   NewBranchPartRepository(db),
		Notification: NewNotificationRepository(db),
		Catalog:      NewCatalogRepository(db),
	}
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
