package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/varlik-app/varlik/internal/auth"
	"github.com/varlik-app/varlik/internal/service"
)

// PortfolioHandler serves the live portfolio valuation.
type PortfolioHandler struct {
	portfolio *service.PortfolioService
	logger    *logrus.Logger
}

func NewPortfolioHandler(portfolio *service.PortfolioService, logger *logrus.Logger) *PortfolioHandler {
	return &PortfolioHandler{portfolio: portfolio, logger: logger}
}

// GetSummary values the caller's positions at current market rates in
// their base currency.
func (h *PortfolioHandler) GetSummary(c *gin.Context) {
	identity, ok := auth.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	summary, err := h.portfolio.Summary(c.Request.Context(), identity.UserID)
	if err != nil {
		h.logger.Errorf("Error building portfolio summary for %s: %v", identity.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
