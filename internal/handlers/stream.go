package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/flixfinder/flixfinder/internal/config"
	"github.com/flixfinder/flixfinder/internal/constants"
	"github.com/flixfinder/flixfinder/internal/metadata"
	"github.com/flixfinder/flixfinder/internal/models"
	"github.com/flixfinder/flixfinder/internal/pipeline"
)

// handleStream serves the stream list for one title. Every failure mode
// degrades to an HTTP 200 with an empty or reduced list; Stremio clients
// treat anything else as an addon outage.
func (h *Handler) handleStream(c *gin.Context) {
	userData := config.DecodeUserConfig(c.Param("configuration"))
	cfg := config.AggregationFromUserData(userData, h.config)

	q, err := pipeline.ParseStreamID(c.Param("id"), models.MediaType(c.Param("type")))
	if err != nil {
		h.logger.Warnf("[Stream] %v", err)
		c.JSON(http.StatusOK, models.StreamResponse{Streams: []models.Stream{}})
		return
	}

	meta, err := h.metadata.Lookup(q.BaseID, cinemetaType(q.MediaType))
	if err != nil {
		h.logger.Warnf("[Stream] metadata lookup failed for %s: %v", q.BaseID, err)
		c.JSON(http.StatusOK, models.StreamResponse{Streams: []models.Stream{}})
		return
	}
	q.Title = meta.Name
	q.Year = meta.Year
	if q.MediaType != models.MediaTypeAnime && metadata.IsAnime(meta) {
		q.MediaType = models.MediaTypeAnime
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout)
	defer cancel()

	candidates := h.aggregator.Search(ctx, q, cfg)

	if cfg.DebridService != "" && cfg.DebridToken != "" {
		if cfg.InstantResolve {
			candidates = h.engine.ResolveBatch(ctx, cfg.DebridService, cfg.DebridToken, candidates)
		} else {
			candidates = lazyResolveLinks(candidates, cfg, requestBaseURL(c))
		}
	}

	streams := make([]models.Stream, 0, len(candidates)+1)
	for _, cand := range candidates {
		stream := models.Stream{
			Name:     cand.Name,
			Title:    cand.Title,
			InfoHash: cand.InfoHash,
			URL:      cand.URL,
		}
		if stream.InfoHash != "" {
			stream.BehaviorHints = &models.BehaviorHints{NotWebReady: true}
		}
		streams = append(streams, stream)
	}
	streams = append(streams, supportStream())

	c.JSON(http.StatusOK, models.StreamResponse{Streams: streams})
}

// lazyResolveLinks swaps each candidate's info hash for a resolve URL that
// runs the debrid transfer only when the entry is actually clicked.
func lazyResolveLinks(candidates []models.StreamCandidate, cfg *config.AggregationConfig, baseURL string) []models.StreamCandidate {
	badge := constants.ProviderBadges[cfg.DebridService]
	out := make([]models.StreamCandidate, 0, len(candidates))
	for _, c := range candidates {
		c.URL = fmt.Sprintf("%s/resolve/%s/%s?token=%s",
			baseURL, cfg.DebridService, c.InfoHash, url.QueryEscape(cfg.DebridToken))
		c.InfoHash = ""
		if badge != "" {
			c.Name = fmt.Sprintf("[%s] %s", badge, constants.AddonName)
		}
		out = append(out, c)
	}
	return out
}

func supportStream() models.Stream {
	return models.Stream{
		Name:        constants.AddonName,
		Title:       "Configure this addon",
		ExternalURL: "/configure",
	}
}

// cinemetaType maps the internal media type onto the content types
// Cinemeta actually serves.
func cinemetaType(t models.MediaType) string {
	if t == models.MediaTypeMovie {
		return "movie"
	}
	return "series"
}

func requestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, c.Request.Host)
}
