package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/varlik-app/varlik/internal/auth"
	"github.com/varlik-app/varlik/internal/service"
)

// WatchlistHandler serves the per-user watchlist.
type WatchlistHandler struct {
	watchlist *service.WatchlistService
	logger    *logrus.Logger
}

func NewWatchlistHandler(watchlist *service.WatchlistService, logger *logrus.Logger) *WatchlistHandler {
	return &WatchlistHandler{watchlist: watchlist, logger: logger}
}

func (h *WatchlistHandler) List(c *gin.Context) {
	identity, ok := auth.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	entries, err := h.watchlist.List(c.Request.Context(), identity.UserID)
	if err != nil {
		h.logger.Errorf("Error listing watchlist for %s: %v", identity.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

type addWatchlistRequest struct {
	AssetKey string `json:"asset_key" binding:"required"`
}

func (h *WatchlistHandler) Add(c *gin.Context) {
	identity, ok := auth.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	var req addWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.watchlist.Add(c.Request.Context(), identity.UserID, req.AssetKey)
	switch {
	case errors.Is(err, service.ErrUnknownAssetKey):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyWatched):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		h.logger.Errorf("Error adding watchlist item for %s: %v", identity.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
	default:
		c.JSON(http.StatusCreated, gin.H{"asset_key": req.AssetKey})
	}
}

func (h *WatchlistHandler) Remove(c *gin.Context) {
	identity, ok := auth.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	removed, err := h.watchlist.Remove(c.Request.Context(), identity.UserID, c.Param("asset_key"))
	if err != nil {
		h.logger.Errorf("Error removing watchlist item for %s: %v", identity.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "watchlist item not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
