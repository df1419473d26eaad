package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/varlik-app/varlik/internal/service"
)

// RefreshRunner triggers one refresh cycle with overlap suppression.
// The boolean result is false when a cycle was already in flight and the
// trigger was coalesced.
type RefreshRunner interface {
	RunNow(ctx context.Context) (service.RefreshSummary, bool, error)
}

// MarketHandler serves the public catalog, per-instrument history and
// the admin refresh trigger.
type MarketHandler struct {
	market  *service.MarketService
	refresh RefreshRunner
	logger  *logrus.Logger
}

func NewMarketHandler(market *service.MarketService, refresh RefreshRunner, logger *logrus.Logger) *MarketHandler {
	return &MarketHandler{market: market, refresh: refresh, logger: logger}
}

// ListAssets returns the priced catalog, optionally filtered by
// ?type=gold|currency|crypto and ?query= substring search. Partial
// provider outages shorten the list instead of failing the request.
func (h *MarketHandler) ListAssets(c *gin.Context) {
	entries := h.market.Catalog(c.Request.Context(), c.Query("type"), c.Query("query"))
	c.JSON(http.StatusOK, entries)
}

// GetHistory returns stored or synthetic price history for one
// instrument. Range codes: 1D, 1W, 1M, 3M, 1Y.
func (h *MarketHandler) GetHistory(c *gin.Context) {
	rangeCode := c.DefaultQuery("range", "1D")
	result, err := h.market.History(c.Request.Context(), c.Param("asset_key"), rangeCode)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Errorf("Error fetching history for %s: %v", c.Param("asset_key"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// TriggerRefresh runs one refresh cycle on demand. Admin only; a cycle
// already in flight is reported as a conflict rather than queued.
func (h *MarketHandler) TriggerRefresh(c *gin.Context) {
	summary, started, err := h.refresh.RunNow(c.Request.Context())
	if !started {
		c.JSON(http.StatusConflict, gin.H{"error": "refresh already in progress"})
		return
	}
	if err != nil {
		h.logger.Errorf("Manual refresh failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed", "summary": summary})
		return
	}
	c.JSON(http.StatusOK, summary)
}
