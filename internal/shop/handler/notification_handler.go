package handler

import (
	"errors"

	"github.com/SORencber/smartpunkt-api/internal/shop/repository"
	"github.com/SORencber/smartpunkt-api/internal/shop/service"
	"github.com/gin-gonic/gin"
)

// NotificationHandler serves the branch feed of catalog changes.
type NotificationHandler struct {
	svc *service.NotificationService
}

func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) Unread(c *gin.Context) {
	branchID := c.Query("branch_id")
	if branchID == "" {
		BadRequest(c, "branch_id is required")
		return
	}
	if !branchAccess(c, branchID) {
		return
	}

	items, err := h.svc.Unread(c.Request.Context(), branchID)
	if err != nil {
		InternalError(c, "List failed: "+err.Error())
		return
	}
	Success(c, gin.H{"items": items, "total": len(items)})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	branchID := c.Query("branch_id")
	if branchID == "" {
		BadRequest(c, "branch_id is required")
		return
	}
	if !branchAccess(c, branchID) {
		return
	}

	if err := h.svc.MarkRead(c.Request.Context(), branchID, c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Notification not found or already read")
			return
		}
		InternalError(c, "Update failed: "+err.Error())
		return
	}
	Success(c, gin.H{"message": "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	branchID := c.Query("branch_id")
	if branchID == "" {
		BadRequest(c, "branch_id is required")
		return
	}
	if !branchAccess(c, branchID) {
		return
	}

	count, err := h.svc.MarkAllRead(c.Request.Context(), branchID)
	if err != nil {
		InternalError(c, "Update failed: "+err.Error())
		return
	}
	Success(c, gin.H{"marked": count})
}
