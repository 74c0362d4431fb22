package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yunqiangwu/etf-grid-master/internal/api/models"
	"github.com/yunqiangwu/etf-grid-master/internal/history"
)

// HistoryHandler serves the saved-run log.
type HistoryHandler struct {
	store history.Store
}

func NewHistoryHandler(store history.Store) *HistoryHandler {
	return &HistoryHandler{store: store}
}

// ListRuns handles GET /api/v1/history.
func (h *HistoryHandler) ListRuns(c *gin.Context) {
	records, err := h.store.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "HISTORY_ERROR", err.Error())
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	c.JSON(http.StatusOK, models.HistoryResponse{Records: records})
}

// DeleteRun handles DELETE /api/v1/history/:id.
func (h *HistoryHandler) DeleteRun(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, history.ErrNotFound) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "no saved run with id "+id)
			return
		}
		respondError(c, http.StatusInternalServerError, "HISTORY_ERROR", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}
