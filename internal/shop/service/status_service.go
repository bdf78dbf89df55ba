package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SORencber/smartpunkt-api/internal/shop/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const statusCachePrefix = "inv_status:"

// InventoryStatus is the advisor's answer for one branch/brand pair. The
// heuristic compares the newest catalog update of the brand against the newest
// branch-side row for the same brand; any branch edit therefore also counts as
// "caught up", which is accepted as a coarse signal.
type InventoryStatus struct {
	BranchID            string     `json:"branch_id"`
	BrandID             string     `json:"brand_id"`
	NeedsUpdate         bool       `json:"needs_update"`
	LastPartUpdate      *time.Time `json:"last_part_update,omitempty"`
	LastInventoryUpdate *time.Time `json:"last_inventory_update,omitempty"`
	CheckedAt           time.Time  `json:"checked_at"`
}

// StatusService answers "does this branch need a sync for this brand?",
// caching answers briefly in redis since the check runs on every catalog
// browse.
type StatusService struct {
	parts       *repository.PartRepository
	branchParts *repository.BranchPartRepository
	rdb         *redis.Client
	logger      *zap.Logger
	ttl         time.Duration
}

func NewStatusService(
	parts *repository.PartRepository,
	branchParts *repository.BranchPartRepository,
	rdb *redis.Client,
	logger *zap.Logger,
	ttl time.Duration,
) *StatusService {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &StatusService{parts: parts, branchParts: branchParts, rdb: rdb, logger: logger, ttl: ttl}
}

func statusCacheKey(branchID, brandID string) string {
	return statusCachePrefix + branchID + ":" + brandID
}

func (s *StatusService) Check(ctx context.Context, branchID, brandID string) (*InventoryStatus, error) {
	key := statusCacheKey(branchID, brandID)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var status InventoryStatus
			if err := json.Unmarshal(cached, &status); err == nil {
				return &status, nil
			}
		}
	}

	lastPart, err := s.parts.LatestUpdateForBrand(ctx, brandID)
	if err != nil {
		return nil, fmt.Errorf("latest catalog update: %w", err)
	}
	lastBranch, err := s.branchParts.LatestUpdateForBrand(ctx, branchID, brandID)
	if err != nil {
		return nil, fmt.Errorf("latest branch update: %w", err)
	}

	status := &InventoryStatus{
		BranchID:            branchID,
		BrandID:             brandID,
		LastPartUpdate:      lastPart,
		LastInventoryUpdate: lastBranch,
		CheckedAt:           time.Now(),
	}
	// A branch that never synced the brand needs a sync as soon as the catalog
	// has anything for it.
	if lastPart != nil {
		status.NeedsUpdate = lastBranch == nil || lastPart.After(*lastBranch)
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(status); err == nil {
			if err := s.rdb.Set(ctx, key, payload, s.ttl).Err(); err != nil {
				s.logger.Warn("inventory status cache write failed", zap.Error(err))
			}
		}
	}
	return status, nil
}

// InvalidateBrand drops cached answers for a brand across all branches. Wired
// to the part change bus so a catalog edit is visible immediately instead of
// after the cache TTL. Uses SCAN rather than KEYS to avoid blocking redis.
func (s *StatusService) InvalidateBrand(ctx context.Context, brandID string) {
	if s.rdb == nil {
		return
	}
	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, statusCachePrefix+"*:"+brandID, 100).Result()
		if err != nil {
			s.logger.Warn("inventory status cache scan failed", zap.Error(err))
			return
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				s.logger.Warn("inventory status cache invalidation failed", zap.Error(err))
				return
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}

// OnPartChange subscribes the cache invalidation to catalog changes.
func (s *StatusService) OnPartChange(ctx context.Context, change PartChange) {
	s.InvalidateBrand(ctx, change.Part.BrandID)
}
