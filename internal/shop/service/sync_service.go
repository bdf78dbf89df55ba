package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/SORencber/smartpunkt-api/internal/shop/entity"
	"github.com/SORencber/smartpunkt-api/internal/shop/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SyncService copies catalog parts into branch inventory tables. Targeted sync
// handles an explicit list of parts for one branch; full sync reconciles every
// active part into every active branch as a background job.
type SyncService struct {
	parts       *repository.PartRepository
	branches    *repository.BranchRepository
	branchParts *repository.BranchPartRepository
	logger      *zap.Logger

	jobMu  sync.Mutex
	job    FullSyncStatus
	runGen int
}

func NewSyncService(
	parts *repository.PartRepository,
	branches *repository.BranchRepository,
	branchParts *repository.BranchPartRepository,
	logger *zap.Logger,
) *SyncService {
	return &SyncService{
		parts:       parts,
		branches:    branches,
		branchParts: branchParts,
		logger:      logger,
	}
}

// SyncItem is one entry of a targeted sync request.
type SyncItem struct {
	PartID string `json:"part_id" binding:"required"`
}

// SyncStats counts the outcome of one sync batch. Failed is broken down into
// the three failure classes so the caller can tell bad input from bad state.
type SyncStats struct {
	Total            int `json:"total"`
	Processed        int `json:"processed"`
	Success          int `json:"success"`
	Created          int `json:"created"`
	Updated          int `json:"updated"`
	Failed           int `json:"failed"`
	NotFound         int `json:"not_found"`
	ValidationErrors int `json:"validation_errors"`
	DBErrors         int `json:"db_errors"`
}

type SyncResult struct {
	PartID string `json:"part_id"`
	Action string `json:"action"` // created | updated
}

type SyncError struct {
	PartID string `json:"part_id"`
	Error  string `json:"error"`
}

type SyncReport struct {
	Stats   SyncStats    `json:"stats"`
	Results []SyncResult `json:"results"`
	Errors  []SyncError  `json:"errors"`
}

// AddOrUpdateBranchParts syncs the listed catalog parts into one branch table.
// Items are processed sequentially and independently: a failed item is
// recorded in the report and the batch carries on.
func (s *SyncService) AddOrUpdateBranchParts(ctx context.Context, actor entity.UserRef, branchID string, items []SyncItem) (*SyncReport, error) {
	branch, err := s.branches.FindByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if branch.Status != entity.BranchStatusActive {
		return nil, fmt.Errorf("branch %s is not active", branch.Code)
	}

	report := &SyncReport{
		Stats:   SyncStats{Total: len(items)},
		Results: make([]SyncResult, 0, len(items)),
	}
	for _, item := range items {
		report.Stats.Processed++
		if item.PartID == "" {
			report.Stats.Failed++
			report.Stats.ValidationErrors++
			report.Errors = append(report.Errors, SyncError{Error: "part_id is required"})
			continue
		}

		action, err := s.syncOne(ctx, actor, branchID, item.PartID)
		if err != nil {
			report.Stats.Failed++
			switch {
			case errors.Is(err, repository.ErrNotFound):
				report.Stats.NotFound++
			case errors.Is(err, repository.ErrInvalidBranch):
				report.Stats.ValidationErrors++
			default:
				report.Stats.DBErrors++
			}
			report.Errors = append(report.Errors, SyncError{PartID: item.PartID, Error: err.Error()})
			s.logger.Warn("branch part sync item failed",
				zap.String("branch_id", branchID),
				zap.String("part_id", item.PartID),
				zap.Error(err))
			continue
		}

		report.Stats.Success++
		if action == "created" {
			report.Stats.Created++
		} else {
			report.Stats.Updated++
		}
		report.Results = append(report.Results, SyncResult{PartID: item.PartID, Action: action})
	}
	return report, nil
}

// syncOne upserts one catalog part into the branch table. On first contact the
// row is created with branch defaults; afterwards only the catalog-owned
// mirror is refreshed and every branch_-prefixed field is left untouched.
func (s *SyncService) syncOne(ctx context.Context, actor entity.UserRef, branchID, partID string) (string, error) {
	part, err := s.parts.FindByID(ctx, partID)
	if err != nil {
		return "", err
	}

	existing, err := s.branchParts.FindByPartID(ctx, branchID, partID)
	switch {
	case err == nil:
		return "updated", s.refresh(ctx, actor, branchID, existing, part)
	case errors.Is(err, repository.ErrNotFound):
		// fall through to create
	default:
		return "", err
	}

	bp := &entity.BranchPart{
		ID:        newID(),
		CreatedBy: actor,
		UpdatedBy: actor,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	bp.SeedBranchDefaults()
	bp.ApplyCatalogFields(part)

	if err := s.branchParts.Create(ctx, branchID, bp); err != nil {
		// A concurrent first sync can win the insert race; the unique part_id
		// index turns that into a duplicate-key error, and we fall through to
		// refreshing the row the winner created.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, ferr := s.branchParts.FindByPartID(ctx, branchID, partID)
			if ferr != nil {
				return "", ferr
			}
			return "updated", s.refresh(ctx, actor, branchID, existing, part)
		}
		return "", err
	}
	return "created", nil
}

func (s *SyncService) refresh(ctx context.Context, actor entity.UserRef, branchID string, bp *entity.BranchPart, part *entity.Part) error {
	bp.ApplyCatalogFields(part)
	bp.UpdatedBy = actor
	bp.UpdatedAt = time.Now()
	return s.branchParts.Save(ctx, branchID, bp)
}

// UpdateBranchPartRequest is the whitelist of fields a branch may edit on its
// own row. It intentionally includes both the branch-owned fields and the
// catalog mirror: branch staff may correct a stale mirror locally without
// waiting for central, and the next sync reasserts the catalog values.
type UpdateBranchPartRequest struct {
	Category       *string         `json:"category"`
	Name           *LocalizedInput `json:"name"`
	Description    *LocalizedInput `json:"description"`
	Barcode        *string         `json:"barcode"`
	QRCode         *string         `json:"qr_code"`
	CompatibleWith []string        `json:"compatible_with"`
	IsActive       *bool           `json:"is_active"`

	Stock         *int        `json:"branch_stock"`
	MinStockLevel *int        `json:"branch_min_stock_level"`
	Cost          *MoneyInput `json:"branch_cost"`
	Price         *MoneyInput `json:"branch_price"`
	ShelfNumber   *string     `json:"branch_shelf_number"`
	ServiceFee    *MoneyInput `json:"branch_service_fee"`
}

func (s *SyncService) UpdateBranchPart(ctx context.Context, actor entity.UserRef, branchID, id string, req *UpdateBranchPartRequest) (*entity.BranchPart, error) {
	bp, err := s.branchParts.FindByID(ctx, branchID, id)
	if err != nil {
		return nil, err
	}
	// The backing catalog part must still exist; an orphaned branch row is not
	// editable.
	if _, err := s.parts.FindByID(ctx, bp.PartID); err != nil {
		return nil, err
	}

	if req.Category != nil {
		bp.Category = *req.Category
	}
	if req.Name != nil {
		bp.Name = req.Name.toEntity()
	}
	if req.Description != nil {
		bp.Description = req.Description.toEntity()
	}
	if req.Barcode != nil {
		bp.Barcode = req.Barcode
	}
	if req.QRCode != nil {
		bp.QRCode = req.QRCode
	}
	if req.CompatibleWith != nil {
		bp.CompatibleWith = req.CompatibleWith
	}
	if req.IsActive != nil {
		bp.IsActive = *req.IsActive
	}
	if req.Stock != nil {
		bp.Stock = *req.Stock
	}
	if req.MinStockLevel != nil {
		bp.MinStockLevel = *req.MinStockLevel
	}
	if req.Cost != nil {
		bp.Cost = req.Cost.toEntity()
	}
	if req.Price != nil {
		bp.Price = req.Price.toEntity()
	}
	if req.ShelfNumber != nil {
		bp.ShelfNumber = *req.ShelfNumber
	}
	if req.ServiceFee != nil {
		bp.ServiceFee = req.ServiceFee.toEntity()
	}
	bp.UpdatedBy = actor
	bp.UpdatedAt = time.Now()

	if err := s.branchParts.Save(ctx, branchID, bp); err != nil {
		return nil, fmt.Errorf("update branch part: %w", err)
	}
	return bp, nil
}

func (s *SyncService) GetBranchPart(ctx context.Context, branchID, id string) (*entity.BranchPart, error) {
	return s.branchParts.FindByID(ctx, branchID, id)
}

func (s *SyncService) FindBranchPartByPartID(ctx context.Context, branchID, partID string) (*entity.BranchPart, error) {
	return s.branchParts.FindByPartID(ctx, branchID, partID)
}

// GetOrSyncBranchPart returns the branch projection of a catalog part,
// creating it via a targeted one-item sync when the branch has never seen the
// part before.
func (s *SyncService) GetOrSyncBranchPart(ctx context.Context, actor entity.UserRef, branchID, partID string) (*entity.BranchPart, error) {
	bp, err := s.branchParts.FindByPartID(ctx, branchID, partID)
	if err == nil {
		return bp, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if _, err := s.syncOne(ctx, actor, branchID, partID); err != nil {
		return nil, err
	}
	return s.branchParts.FindByPartID(ctx, branchID, partID)
}

func (s *SyncService) ListBranchParts(ctx context.Context, branchID string, params repository.BranchPartListParams) ([]entity.BranchPart, error) {
	return s.branchParts.List(ctx, branchID, params)
}

// ErrSyncRunning is returned when a full sync is requested while one is
// already in flight.
var ErrSyncRunning = errors.New("a full sync is already running")

// FullSyncStatus is a point-in-time snapshot of the background job.
type FullSyncStatus struct {
	Running       bool          `json:"running"`
	StartedAt     *time.Time    `json:"started_at,omitempty"`
	FinishedAt    *time.Time    `json:"finished_at,omitempty"`
	Duration      time.Duration `json:"duration"`
	BranchesTotal int           `json:"branches_total"`
	BranchesDone  int           `json:"branches_done"`
	CurrentBranch string        `json:"current_branch,omitempty"`
	Stats         SyncStats     `json:"stats"`
	Errors        []SyncError   `json:"errors,omitempty"`
	LastError     string        `json:"last_error,omitempty"`
}

// StartFullSync launches the reconciliation job in-process. Only one job runs
// at a time; a second request while one is in flight gets ErrSyncRunning. The
// job runs detached from the request context so a closed connection does not
// abort it.
func (s *SyncService) StartFullSync(actor entity.UserRef) error {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()
	if s.job.Running {
		return ErrSyncRunning
	}

	now := time.Now()
	s.runGen++
	s.job = FullSyncStatus{Running: true, StartedAt: &now}

	go s.runFullSync(context.Background(), actor, s.runGen)
	return nil
}

// JobStatus returns a copy of the current job state; the errors slice is
// cloned so callers never observe a partially appended one.
func (s *SyncService) JobStatus() FullSyncStatus {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()
	status := s.job
	status.Errors = append([]SyncError(nil), s.job.Errors...)
	return status
}

func (s *SyncService) runFullSync(ctx context.Context, actor entity.UserRef, gen int) {
	s.logger.Info("full branch sync started")

	branches, err := s.branches.ListActive(ctx)
	if err != nil {
		s.finishFullSync(gen, fmt.Errorf("list branches: %w", err))
		return
	}
	parts, err := s.parts.ListActive(ctx)
	if err != nil {
		s.finishFullSync(gen, fmt.Errorf("list parts: %w", err))
		return
	}

	items := make([]SyncItem, len(parts))
	for i, p := range parts {
		items[i] = SyncItem{PartID: p.ID}
	}

	s.updateJob(gen, func(st *FullSyncStatus) {
		st.BranchesTotal = len(branches)
		st.Stats.Total = len(branches) * len(items)
	})

	for _, branch := range branches {
		s.updateJob(gen, func(st *FullSyncStatus) {
			st.CurrentBranch = branch.Code
		})

		report, err := s.AddOrUpdateBranchParts(ctx, actor, branch.ID, items)
		if err != nil {
			s.logger.Error("full sync branch failed",
				zap.String("branch_id", branch.ID),
				zap.Error(err))
			s.updateJob(gen, func(st *FullSyncStatus) {
				st.BranchesDone++
				st.Errors = append(st.Errors, SyncError{Error: fmt.Sprintf("branch %s: %v", branch.Code, err)})
			})
			continue
		}

		s.updateJob(gen, func(st *FullSyncStatus) {
			st.BranchesDone++
			st.Stats.Processed += report.Stats.Processed
			st.Stats.Success += report.Stats.Success
			st.Stats.Created += report.Stats.Created
			st.Stats.Updated += report.Stats.Updated
			st.Stats.Failed += report.Stats.Failed
			st.Stats.NotFound += report.Stats.NotFound
			st.Stats.ValidationErrors += report.Stats.ValidationErrors
			st.Stats.DBErrors += report.Stats.DBErrors
			st.Errors = append(st.Errors, report.Errors...)
		})
	}

	s.finishFullSync(gen, nil)
	s.logger.Info("full branch sync finished",
		zap.Int("branches", len(branches)),
		zap.Int("parts", len(parts)))
}

func (s *SyncService) updateJob(gen int, fn func(*FullSyncStatus)) {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()
	if gen != s.runGen {
		return
	}
	fn(&s.job)
}

func (s *SyncService) finishFullSync(gen int, err error) {
	s.updateJob(gen, func(st *FullSyncStatus) {
		now := time.Now()
		st.Running = false
		st.FinishedAt = &now
		if st.StartedAt != nil {
			st.Duration = now.Sub(*st.StartedAt)
		}
		st.CurrentBranch = ""
		if err != nil {
			st.LastError = err.Error()
		}
	})
}
