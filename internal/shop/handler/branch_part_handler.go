package handler

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/SORencber/smartpunkt-api/internal/shop/repository"
	"github.com/SORencber/smartpunkt-api/internal/shop/service"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// BranchPartHandler serves the per-branch inventory surface: targeted sync,
// listing, staleness checks, local edits and export.
type BranchPartHandler struct {
	sync   *service.SyncService
	status *service.StatusService
}

func NewBranchPartHandler(sync *service.SyncService, status *service.StatusService) *BranchPartHandler {
	return &BranchPartHandler{sync: sync, status: status}
}

type syncRequest struct {
	BranchID string             `json:"branch_id" binding:"required"`
	Parts    []service.SyncItem `json:"parts" binding:"required"`
}

// Sync handles POST /branch-parts: copy the listed catalog parts into the
// branch table and report per-item outcomes.
func (h *BranchPartHandler) Sync(c *gin.Context) {
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	if len(req.Parts) == 0 {
		BadRequest(c, "parts must not be empty")
		return
	}
	if !branchAccess(c, req.BranchID) {
		return
	}

	report, err := h.sync.AddOrUpdateBranchParts(c.Request.Context(), GetUserRef(c), req.BranchID, req.Parts)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Branch not found")
			return
		}
		InternalError(c, "Sync failed: "+err.Error())
		return
	}
	Success(c, report)
}

// List handles GET /branch-parts. With part_id it resolves (and lazily syncs)
// a single part; otherwise it lists the branch inventory with filters.
func (h *BranchPartHandler) List(c *gin.Context) {
	branchID := c.Query("branch_id")
	if branchID == "" {
		BadRequest(c, "branch_id is required")
		return
	}
	if !branchAccess(c, branchID) {
		return
	}

	if partID := c.Query("part_id"); partID != "" {
		bp, err := h.sync.GetOrSyncBranchPart(c.Request.Context(), GetUserRef(c), branchID, partID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				NotFound(c, "Part not found")
				return
			}
			if errors.Is(err, repository.ErrInvalidBranch) {
				BadRequest(c, "Invalid branch id")
				return
			}
			InternalError(c, "Lookup failed: "+err.Error())
			return
		}
		Success(c, bp)
		return
	}

	params := repository.BranchPartListParams{
		ShelfNumber: c.Query("shelf_number"),
		OnlyActive:  c.Query("active") == "true",
	}
	if ms := c.Query("min_stock"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil {
			params.MinStock = &v
		}
	}

	items, err := h.sync.ListBranchParts(c.Request.Context(), branchID, params)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidBranch) {
			BadRequest(c, "Invalid branch id")
			return
		}
		InternalError(c, "List failed: "+err.Error())
		return
	}
	Success(c, gin.H{"items": items, "total": len(items)})
}

// Status handles GET /branch-parts/status: does this branch need a sync for
// this brand?
func (h *BranchPartHandler) Status(c *gin.Context) {
	branchID := c.Query("branch_id")
	brandID := c.Query("brand_id")
	if branchID == "" || brandID == "" {
		BadRequest(c, "branch_id and brand_id are required")
		return
	}
	if !branchAccess(c, branchID) {
		return
	}

	status, err := h.status.Check(c.Request.Context(), branchID, brandID)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidBranch) {
			BadRequest(c, "Invalid branch id")
			return
		}
		InternalError(c, "Status check failed: "+err.Error())
		return
	}
	Success(c, status)
}

// Update handles PUT /branch-parts/:id. Branch staff edit their own row;
// both the branch-owned fields and the local catalog mirror are writable.
func (h *BranchPartHandler) Update(c *gin.Context) {
	branchID := c.Query("branch_id")
	if branchID == "" {
		BadRequest(c, "branch_id is required")
		return
	}
	if !branchAccess(c, branchID) {
		return
	}

	var req service.UpdateBranchPartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	bp, err := h.sync.UpdateBranchPart(c.Request.Context(), GetUserRef(c), branchID, c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Branch part not found")
			return
		}
		if errors.Is(err, repository.ErrInvalidBranch) {
			BadRequest(c, "Invalid branch id")
			return
		}
		InternalError(c, "Update failed: "+err.Error())
		return
	}
	Success(c, bp)
}

// Export handles GET /branch-parts/export: the branch inventory as an xlsx
// download for offline stock taking.
func (h *BranchPartHandler) Export(c *gin.Context) {
	branchID := c.Query("branch_id")
	if branchID == "" {
		BadRequest(c, "branch_id is required")
		return
	}
	if !branchAccess(c, branchID) {
		return
	}

	lang := c.DefaultQuery("lang", "en")
	items, err := h.sync.ListBranchParts(c.Request.Context(), branchID, repository.BranchPartListParams{})
	if err != nil {
		if errors.Is(err, repository.ErrInvalidBranch) {
			BadRequest(c, "Invalid branch id")
			return
		}
		InternalError(c, "Export failed: "+err.Error())
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Inventory"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"Part ID", "Name", "Category", "Barcode", "Shelf", "Stock", "Min Stock", "Cost", "Price", "Margin %", "Active", "Updated At"}
	for i, title := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, title)
	}

	for row, bp := range items {
		barcode := ""
		if bp.Barcode != nil {
			barcode = *bp.Barcode
		}
		values := []interface{}{
			bp.PartID,
			bp.Name.In(lang),
			bp.Category,
			barcode,
			bp.ShelfNumber,
			bp.Stock,
			bp.MinStockLevel,
			fmt.Sprintf("%.2f %s", bp.Cost.Amount, bp.Cost.Currency),
			fmt.Sprintf("%.2f %s", bp.Price.Amount, bp.Price.Currency),
			bp.Margin,
			bp.IsActive,
			bp.UpdatedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("inventory_%s_%s.xlsx", branchID, time.Now().Format("20060102"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="`+url.PathEscape(filename)+`"`)
	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "Export failed: "+err.Error())
	}
}
