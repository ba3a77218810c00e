package handler

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/wahajaslm/tarco/internal/service"
)

// AdminHandler handles administrative endpoints.
type AdminHandler struct {
	worker *service.IndexWorker
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(worker *service.IndexWorker) *AdminHandler {
	return &AdminHandler{worker: worker}
}

// Reindex handles POST /admin/reindex
// @Summary Rebuild the vector index
// @Description Re-embed and index every leaf nomenclature item. Runs in the background; poll /admin/reindex/status for progress.
// @Tags admin
// @Produce json
// @Success 202 {object} APIResponse "Reindex started"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 409 {object} APIResponse "Reindex already in progress"
// @Security BearerAuth
// @Router /admin/reindex [post]
func (h *AdminHandler) Reindex(c *gin.Context) {
	if h.worker.Running() {
		RespondError(c, 409, "REINDEX_IN_PROGRESS", "a reindex is already running")
		return
	}

	go func() {
		if _, err := h.worker.Reindex(context.Background()); err != nil {
			log.Printf("admin handler: background reindex failed: %v", err)
		}
	}()

	RespondAccepted(c, gin.H{"status": "started"})
}

// ReindexStatus handles GET /admin/reindex/status
// @Summary Report reindex progress
// @Tags admin
// @Produce json
// @Success 200 {object} APIResponse "Current reindex state"
// @Security BearerAuth
// @Router /admin/reindex/status [get]
func (h *AdminHandler) ReindexStatus(c *gin.Context) {
	RespondOK(c, gin.H{"running": h.worker.Running()})
}
