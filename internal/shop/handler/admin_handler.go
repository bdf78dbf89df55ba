package handler

import (
	"errors"

	"github.com/SORencber/smartpunkt-api/internal/shop/service"
	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the bulk reconciliation job.
type AdminHandler struct {
	sync *service.SyncService
}

func NewAdminHandler(sync *service.SyncService) *AdminHandler {
	return &AdminHandler{sync: sync}
}

// StartFullSync handles POST /admin/sync-branch-parts: kick off the background
// job and answer 202 immediately. A second start while one runs gets 409.
func (h *AdminHandler) StartFullSync(c *gin.Context) {
	if err := h.sync.StartFullSync(GetUserRef(c)); err != nil {
		if errors.Is(err, service.ErrSyncRunning) {
			Conflict(c, err.Error())
			return
		}
		InternalError(c, "Start failed: "+err.Error())
		return
	}
	Accepted(c, h.sync.JobStatus())
}

// FullSyncStatus handles GET /admin/sync-branch-parts.
func (h *AdminHandler) FullSyncStatus(c *gin.Context) {
	Success(c, h.sync.JobStatus())
}
