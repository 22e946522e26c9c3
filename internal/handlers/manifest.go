package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flixfinder/flixfinder/internal/constants"
	"github.com/flixfinder/flixfinder/internal/models"
)

func (h *Handler) handleManifest(c *gin.Context) {
	c.JSON(http.StatusOK, h.createManifest())
}

func (h *Handler) createManifest() models.Manifest {
	return models.Manifest{
		ID:          constants.AddonID,
		Version:     constants.AddonVersion,
		Name:        constants.AddonName,
		Description: constants.AddonDescription,
		Types:       []string{"movie", "series", "anime"},
		Resources:   []string{"stream"},
		Catalogs:    []models.Catalog{},
		IDPrefixes:  []string{"tt", "kitsu:"},
		BehaviorHints: &models.BehaviorHints{
			Configurable: true,
		},
	}
}
