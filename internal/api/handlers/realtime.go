package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yunqiangwu/etf-grid-master/internal/data"
)

// RealtimeHandler passes the current quote through to the form, which
// uses it to prefill the initial base price.
type RealtimeHandler struct {
	quotes *data.QuoteClient
}

func NewRealtimeHandler(quotes *data.QuoteClient) *RealtimeHandler {
	return &RealtimeHandler{quotes: quotes}
}

// GetQuote handles GET /api/v1/realtime/:symbol.
func (h *RealtimeHandler) GetQuote(c *gin.Context) {
	symbol := c.Param("symbol")
	quote, err := h.quotes.RealtimeQuote(c.Request.Context(), symbol)
	if err != nil {
		respondError(c, http.StatusBadGateway, "DATA_FETCH_ERROR", err.Error())
		return
	}
	c.JSON(http.StatusOK, quote)
}
