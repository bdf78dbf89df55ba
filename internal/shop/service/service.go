package service

import (
	"strings"
	"time"

	"github.com/SORencber/smartpunkt-api/internal/shop/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Services bundles every service behind one constructor so main wires the
// whole application in a single call.
type Services struct {
	Part         *PartService
	Branch       *BranchService
	Sync         *SyncService
	Status       *StatusService
	Notification *NotificationService
	Catalog      *CatalogService
	Bus          *PartChangeBus
}

func NewServices(repos *repository.Repositories, rdb *redis.Client, logger *zap.Logger, statusTTL time.Duration) *Services {
	bus := NewPartChangeBus()

	s := &Services{
		Part:         NewPartService(repos.Part, bus),
		Branch:       NewBranchService(repos.Branch),
		Sync:         NewSyncService(repos.Part, repos.Branch, repos.BranchPart, logger),
		Status:       NewStatusService(repos.Part, repos.BranchPart, rdb, logger, statusTTL),
		Notification: NewNotificationService(repos.Notification, repos.Branch, repos.Part, logger),
		Catalog:      NewCatalogService(repos.Catalog),
		Bus:          bus,
	}

	// Catalog changes fan out to branch feeds and drop stale advisor answers.
	bus.Subscribe(s.Notification.OnPartChange)
	bus.Subscribe(s.Status.OnPartChange)

	return s
}

// newID returns a uuid without hyphens, safe to embed in table names.
func newID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
