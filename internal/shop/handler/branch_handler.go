package handler

import (
	"errors"

	"github.com/SORencber/smartpunkt-api/internal/shop/repository"
	"github.com/SORencber/smartpunkt-api/internal/shop/service"
	"github.com/gin-gonic/gin"
)

type BranchHandler struct {
	svc *service.BranchService
}

func NewBranchHandler(svc *service.BranchService) *BranchHandler {
	return &BranchHandler{svc: svc}
}

func (h *BranchHandler) Create(c *gin.Context) {
	var req service.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	branch, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		BadRequest(c, "Create failed: "+err.Error())
		return
	}
	Created(c, branch)
}

func (h *BranchHandler) Update(c *gin.Context) {
	var req service.UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	branch, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Branch not found")
			return
		}
		BadRequest(c, "Update failed: "+err.Error())
		return
	}
	Success(c, branch)
}

func (h *BranchHandler) Deactivate(c *gin.Context) {
	if err := h.svc.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Branch not found")
			return
		}
		InternalError(c, "Deactivate failed: "+err.Error())
		return
	}
	Success(c, gin.H{"message": "Branch deactivated"})
}

func (h *BranchHandler) Get(c *gin.Context) {
	branch, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Branch not found")
			return
		}
		InternalError(c, "Lookup failed: "+err.Error())
		return
	}
	Success(c, branch)
}

func (h *BranchHandler) List(c *gin.Context) {
	var (
		branches interface{}
		err      error
	)
	if c.Query("active") == "true" {
		branches, err = h.svc.ListActive(c.Request.Context())
	} else {
		branches, err = h.svc.List(c.Request.Context())
	}
	if err != nil {
		InternalError(c, "List failed: "+err.Error())
		return
	}
	Success(c, gin.H{"items": branches})
}
