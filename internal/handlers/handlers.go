// Package handlers implements HTTP request handlers for the Stremio addon API.
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/flixfinder/flixfinder/internal/config"
	"github.com/flixfinder/flixfinder/internal/debrid"
	"github.com/flixfinder/flixfinder/internal/metadata"
	"github.com/flixfinder/flixfinder/internal/pipeline"
	"github.com/flixfinder/flixfinder/pkg/logger"
)

// Handler handles HTTP requests for the Stremio addon.
type Handler struct {
	config     *config.Config
	metadata   *metadata.Service
	aggregator *pipeline.Aggregator
	engine     *debrid.Engine
	logger     logger.Logger
}

// New creates a Handler wired to the given collaborators.
func New(cfg *config.Config, meta *metadata.Service, aggregator *pipeline.Aggregator, engine *debrid.Engine) *Handler {
	return &Handler{
		config:     cfg,
		metadata:   meta,
		aggregator: aggregator,
		engine:     engine,
		logger:     logger.New(),
	}
}

// RegisterRoutes registers all HTTP routes for the Stremio addon.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.handleHome)

	r.GET("/configure", h.handleConfigure)
	r.GET("/:configuration/configure", h.handleConfigure)

	r.GET("/manifest.json", h.handleManifest)
	r.GET("/:configuration/manifest.json", h.handleManifest)

	// Streams, with and without the .json extension
	r.GET("/:configuration/stream/:type/:id", h.handleStreamWrapper)

	r.GET("/resolve/:service/:infoHash", h.handleResolve)
}

func (h *Handler) handleHome(c *gin.Context) {
	c.String(200, "Welcome to Flix-Finder! Visit /configure to set up the addon.")
}

func (h *Handler) handleStreamWrapper(c *gin.Context) {
	stripJSONExtension(c, "id")
	h.handleStream(c)
}

// stripJSONExtension removes a trailing .json from a path parameter.
func stripJSONExtension(c *gin.Context, paramName string) {
	value := c.Param(paramName)
	if strings.HasSuffix(value, ".json") {
		for i, param := range c.Params {
			if param.Key == paramName {
				c.Params[i].Value = strings.TrimSuffix(value, ".json")
				break
			}
		}
	}
}
