package handler

import (
	"errors"

	"github.com/SORencber/smartpunkt-api/internal/shop/repository"
	"github.com/SORencber/smartpunkt-api/internal/shop/service"
	"github.com/gin-gonic/gin"
)

// PartHandler serves the central catalog. Writes are restricted to admin and
// central staff at the route level.
type PartHandler struct {
	svc *service.PartService
}

func NewPartHandler(svc *service.PartService) *PartHandler {
	return &PartHandler{svc: svc}
}

func (h *PartHandler) Create(c *gin.Context) {
	var req service.CreatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	part, err := h.svc.Create(c.Request.Context(), GetUserRef(c), &req)
	if err != nil {
		BadRequest(c, "Create failed: "+err.Error())
		return
	}
	Created(c, part)
}

func (h *PartHandler) Update(c *gin.Context) {
	var req service.UpdatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	part, err := h.svc.Update(c.Request.Context(), GetUserRef(c), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Part not found")
			return
		}
		BadRequest(c, "Update failed: "+err.Error())
		return
	}
	Success(c, part)
}

func (h *PartHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), GetUserRef(c), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Part not found")
			return
		}
		InternalError(c, "Delete failed: "+err.Error())
		return
	}
	Success(c, gin.H{"message": "Part deactivated"})
}

func (h *PartHandler) Get(c *gin.Context) {
	part, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Part not found")
			return
		}
		InternalError(c, "Lookup failed: "+err.Error())
		return
	}
	Success(c, part)
}

func (h *PartHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	params := repository.PartListParams{
		BrandID:    c.Query("brand_id"),
		ModelID:    c.Query("model_id"),
		Category:   c.Query("category"),
		OnlyActive: c.Query("active") != "false",
		Page:       page,
		PageSize:   pageSize,
	}

	parts, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		InternalError(c, "List failed: "+err.Error())
		return
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	Success(c, ListResponse{
		Items: parts,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages,
		},
	})
}
