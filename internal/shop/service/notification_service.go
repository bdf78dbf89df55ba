package service

import (
	"context"
	"fmt"
	"time"

	"github.com/SORencber/smartpunkt-api/internal/shop/entity"
	"github.com/SORencber/smartpunkt-api/internal/shop/repository"
	"go.uber.org/zap"
)

const unreadLimit = 50

// NotificationService fans catalog changes out to branch feeds. Emission is
// best-effort: a failed fan-out is logged and never fails the catalog write
// that triggered it.
type NotificationService struct {
	notifications *repository.NotificationRepository
	branches      *repository.BranchRepository
	parts         *repository.PartRepository
	logger        *zap.Logger
}

func NewNotificationService(
	notifications *repository.NotificationRepository,
	branches *repository.BranchRepository,
	parts *repository.PartRepository,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		branches:      branches,
		parts:         parts,
		logger:        logger,
	}
}

// OnPartChange is the part change bus subscriber: one notification per active
// branch, inserted as a single batch.
func (s *NotificationService) OnPartChange(ctx context.Context, change PartChange) {
	branches, err := s.branches.ListActive(ctx)
	if err != nil {
		s.logger.Error("notification fan-out: list branches failed", zap.Error(err))
		return
	}
	if len(branches) == 0 {
		return
	}

	kind := entity.NotificationPartUpdate
	if change.Created {
		kind = entity.NotificationPartCreate
	}
	message := buildPartMessage(change.Part, change.Created)

	now := time.Now()
	batch := make([]entity.Notification, 0, len(branches))
	for _, branch := range branches {
		batch = append(batch, entity.Notification{
			ID:        newID(),
			Type:      kind,
			BranchID:  branch.ID,
			PartID:    change.Part.ID,
			Message:   message,
			CreatedBy: change.Actor,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := s.notifications.BulkCreate(ctx, batch); err != nil {
		s.logger.Error("notification fan-out: insert failed",
			zap.String("part_id", change.Part.ID),
			zap.Int("branches", len(batch)),
			zap.Error(err))
		return
	}
	s.logger.Info("part change notified",
		zap.String("part_id", change.Part.ID),
		zap.String("type", kind),
		zap.Int("branches", len(batch)))
}

func buildPartMessage(part *entity.Part, created bool) entity.LocalizedText {
	if created {
		return entity.LocalizedText{
			TR: fmt.Sprintf("Yeni parça eklendi: %s", part.Name.In("tr")),
			DE: fmt.Sprintf("Neues Teil hinzugefügt: %s", part.Name.In("de")),
			EN: fmt.Sprintf("New part added: %s", part.Name.In("en")),
		}
	}
	return entity.LocalizedText{
		TR: fmt.Sprintf("Parça güncellendi: %s", part.Name.In("tr")),
		DE: fmt.Sprintf("Teil aktualisiert: %s", part.Name.In("de")),
		EN: fmt.Sprintf("Part updated: %s", part.Name.In("en")),
	}
}

// PartSummary is the slim catalog view attached to feed entries.
type PartSummary struct {
	ID       string               `json:"id"`
	Name     entity.LocalizedText `json:"name"`
	BrandID  string               `json:"brand_id"`
	ModelID  string               `json:"model_id"`
	Category string               `json:"category"`
	IsActive bool                 `json:"is_active"`
}

type NotificationView struct {
	entity.Notification
	Part *PartSummary `json:"part,omitempty"`
}

// Unread returns the branch's newest unread entries, capped, each carrying a
// summary of the part it refers to. A part deleted from under an old entry
// simply yields a nil summary.
func (s *NotificationService) Unread(ctx context.Context, branchID string) ([]NotificationView, error) {
	items, err := s.notifications.UnreadByBranch(ctx, branchID, unreadLimit)
	if err != nil {
		return nil, err
	}

	views := make([]NotificationView, 0, len(items))
	summaries := make(map[string]*PartSummary)
	for _, n := range items {
		summary, seen := summaries[n.PartID]
		if !seen {
			part, err := s.parts.FindByID(ctx, n.PartID)
			if err == nil {
				summary = &PartSummary{
					ID:       part.ID,
					Name:     part.Name,
					BrandID:  part.BrandID,
					ModelID:  part.ModelID,
					Category: part.Category,
					IsActive: part.IsActive,
				}
			}
			summaries[n.PartID] = summary
		}
		views = append(views, NotificationView{Notification: n, Part: summary})
	}
	return views, nil
}

// MarkRead flips one entry. Returns repository.ErrNotFound when the id does
// not name an unread entry of this branch, which also makes repeat calls
// report not-found rather than flipping anything twice.
func (s *NotificationService) MarkRead(ctx context.Context, branchID, id string) error {
	affected, err := s.notifications.MarkRead(ctx, branchID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// MarkAllRead returns how many entries were flipped.
func (s *NotificationService) MarkAllRead(ctx context.Context, branchID string) (int64, error) {
	return s.notifications.MarkAllRead(ctx, branchID)
}
