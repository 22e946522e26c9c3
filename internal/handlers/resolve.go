package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flixfinder/flixfinder/internal/constants"
)

// handleResolve performs the per-click debrid resolution and redirects the
// player straight to the unlocked URL.
func (h *Handler) handleResolve(c *gin.Context) {
	service := c.Param("service")
	infoHash := c.Param("infoHash")
	token := c.Query("token")

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout)
	defer cancel()

	result, err := h.engine.Resolve(ctx, service, infoHash, token)
	if err != nil {
		h.logger.Warnf("[Resolve] %s/%s: %v", service, infoHash, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.Redirect(http.StatusFound, result.URL)
}
