package repository

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/SORencber/smartpunkt-api/internal/shop/entity"
	"gorm.io/gorm"
)

// branchIDPattern keeps derived table names safe to interpolate. IDs are
// 32-char hex uuids, but accept test ids too.
var branchIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_]{1,48}$`)

// BranchTableName derives the physical table for a branch deterministically.
func BranchTableName(branchID string) string {
	return "branch_" + branchID + "_parts"
}

// BranchPartRepository is the keyed per-branch store: one physical
// branch_<id>_parts table per branch, created lazily on first access and
// cached for the process lifetime. Repeated calls for the same branch reuse
// the migrated table without any further setup work.
type BranchPartRepository struct {
	db *gorm.DB

	mu       sync.Mutex
	migrated map[string]string // branch id -> table name
}

func NewBranchPartRepository(db *gorm.DB) *BranchPartRepository {
	return &BranchPartRepository{db: db, migrated: make(map[string]string)}
}

// table returns a query handle bound to the branch table, migrating it first
// if this process has not seen the branch yet. Branch existence is the
// caller's concern; this only derives and prepares the physical table.
func (r *BranchPartRepository) table(ctx context.Context, branchID string) (*gorm.DB, error) {
	name, err := r.ensure(branchID)
	if err != nil {
		return nil, err
	}
	return r.db.WithContext(ctx).Table(name), nil
}

func (r *BranchPartRepository) ensure(branchID string) (string, error) {
	if !branchIDPattern.MatchString(branchID) {
		return "", ErrInvalidBranch
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if name, ok := r.migrated[branchID]; ok {
		return name, nil
	}

	name := BranchTableName(branchID)
	if err := r.db.Table(name).AutoMigrate(&entity.BranchPart{}); err != nil {
		return "", fmt.Errorf("migrate %s: %w", name, err)
	}

	// Index names embed the table name, so they are created here rather than
	// via struct tags (tag names would collide across branch tables).
	indexSQL := []string{
		fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS uq_%s_part_id ON %s (part_id)", name, name),
		fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS uq_%s_barcode ON %s (barcode) WHERE barcode IS NOT NULL", name, name),
		fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS uq_%s_qr_code ON %s (qr_code) WHERE qr_code IS NOT NULL", name, name),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_classification ON %s (brand_id, model_id, device_type_id)", name, name),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_is_active ON %s (is_active)", name, name),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_category ON %s (category)", name, name),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_shelf ON %s (branch_shelf_number)", name, name),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_compatible ON %s USING GIN (compatible_with)", name, name),
	}
	for _, sql := range indexSQL {
		if err := r.db.Exec(sql).Error; err != nil {
			return "", fmt.Errorf("index %s: %w", name, err)
		}
	}

	r.migrated[branchID] = name
	return name, nil
}

func (r *BranchPartRepository) Create(ctx context.Context, branchID string, bp *entity.BranchPart) error {
	tbl, err := r.table(ctx, branchID)
	if err != nil {
		return err
	}
	return tbl.Create(bp).Error
}

func (r *BranchPartRepository) Save(ctx context.Context, branchID string, bp *entity.BranchPart) error {
	tbl, err := r.table(ctx, branchID)
	if err != nil {
		return err
	}
	return tbl.Save(bp).Error
}

func (r *BranchPartRepository) FindByID(ctx context.Context, branchID, id string) (*entity.BranchPart, error) {
	tbl, err := r.table(ctx, branchID)
	if err != nil {
		return nil, err
	}
	var bp entity.BranchPart
	if err := tbl.Where("id = ?", id).First(&bp).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &bp, nil
}

// FindByPartID resolves the branch projection of a catalog part.
func (r *BranchPartRepository) FindByPartID(ctx context.Context, branchID, partID string) (*entity.BranchPart, error) {
	tbl, err := r.table(ctx, branchID)
	if err != nil {
		return nil, err
	}
	var bp entity.BranchPart
	if err := tbl.Where("part_id = ?", partID).First(&bp).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &bp, nil
}

// BranchPartListParams narrows List. Nil/zero values mean "no filter".
type BranchPartListParams struct {
	ShelfNumber string
	MinStock    *int
	OnlyActive  bool
}

func (r *BranchPartRepository) List(ctx context.Context, branchID string, params BranchPartListParams) ([]entity.BranchPart, error) {
	tbl, err := r.table(ctx, branchID)
	if err != nil {
		return nil, err
	}
	q := tbl
	if params.ShelfNumber != "" {
		q = q.Where("branch_shelf_number = ?", params.ShelfNumber)
	}
	if params.MinStock != nil {
		q = q.Where("branch_stock >= ?", *params.MinStock)
	}
	if params.OnlyActive {
		q = q.Where("is_active = ?", true)
	}
	var items []entity.BranchPart
	err = q.Order("updated_at DESC").Find(&items).Error
	return items, err
}

// LatestUpdateForBrand returns the updated_at of the branch's most recently
// touched projection of a brand's parts, or nil when the branch has none.
func (r *BranchPartRepository) LatestUpdateForBrand(ctx context.Context, branchID, brandID string) (*time.Time, error) {
	tbl, err := r.table(ctx, branchID)
	if err != nil {
		return nil, err
	}
	var bp entity.BranchPart
	err = tbl.Where("brand_id = ?", brandID).Order("updated_at DESC").First(&bp).Error
	if err != nil {
		if translateNotFound(err) == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	t := bp.UpdatedAt
	return &t, nil
}
