// Package metadata implements the client for the Cinemeta metadata
// collaborator, which maps media identifiers to titles, years and genre
// hints used to build search queries.
package metadata

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/flixfinder/flixfinder/internal/cache"
	"github.com/flixfinder/flixfinder/internal/constants"
	"github.com/flixfinder/flixfinder/internal/database"
	"github.com/flixfinder/flixfinder/internal/models"
	"github.com/flixfinder/flixfinder/pkg/httputil"
	"github.com/flixfinder/flixfinder/pkg/logger"
	"github.com/flixfinder/flixfinder/pkg/ratelimiter"
)

const cinemetaAPIBase = "https://v3-cinemeta.strem.io/meta"

// Service resolves media identifiers against Cinemeta with two cache
// layers: in-memory LRU first, then the bbolt store.
type Service struct {
	baseURL     string
	cache       *cache.LRUCache
	db          database.Database
	rateLimiter *ratelimiter.TokenBucket
	httpClient  *http.Client
	logger      logger.Logger
}

type metaResponse struct {
	Meta struct {
		Name        string   `json:"name"`
		Year        string   `json:"year"`
		ReleaseInfo string   `json:"releaseInfo"`
		Genres      []string `json:"genres"`
		Country     string   `json:"country"`
	} `json:"meta"`
}

// New creates a Cinemeta client backed by the given caches.
func New(memCache *cache.LRUCache, db database.Database) *Service {
	return &Service{
		baseURL:     cinemetaAPIBase,
		cache:       memCache,
		db:          db,
		rateLimiter: ratelimiter.NewTokenBucket(constants.CinemetaRateLimit, constants.CinemetaRateBurst),
		httpClient:  httputil.NewHTTPClient(10 * time.Second),
		logger:      logger.New(),
	}
}

// SetBaseURL overrides the Cinemeta endpoint, used by tests.
func (s *Service) SetBaseURL(u string) {
	s.baseURL = u
}

// Lookup fetches metadata for id. mediaType is the Stremio content type
// ("movie" or "series"). A nil error with a nil Meta never happens: a miss
// is an error.
func (s *Service) Lookup(id, mediaType string) (*models.Meta, error) {
	cacheKey := fmt.Sprintf("meta:%s:%s", mediaType, id)
	if data, found := s.cache.Get(cacheKey); found {
		return data.(*models.Meta), nil
	}

	if s.db != nil {
		if cached, err := s.db.GetCachedMeta(cacheKey); err == nil && cached != nil {
			meta := &models.Meta{
				ID:      id,
				Name:    cached.Title,
				Year:    cached.Year,
				Genres:  cached.Genres,
				Country: cached.Country,
			}
			s.cache.Set(cacheKey, meta)
			return meta, nil
		}
	}

	s.rateLimiter.Wait()

	url := fmt.Sprintf("%s/%s/%s.json", s.baseURL, mediaType, id)
	s.logger.Debugf("[Cinemeta] fetching metadata for %s (%s)", id, mediaType)

	resp, err := s.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cinemeta error: status %d", resp.StatusCode)
	}

	var mr metaResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("failed to decode metadata response: %w", err)
	}
	if mr.Meta.Name == "" {
		return nil, fmt.Errorf("no metadata found for %s", id)
	}

	meta := &models.Meta{
		ID:      id,
		Name:    mr.Meta.Name,
		Year:    parseYear(mr.Meta.Year, mr.Meta.ReleaseInfo),
		Genres:  mr.Meta.Genres,
		Country: mr.Meta.Country,
	}

	s.cache.Set(cacheKey, meta)
	if s.db != nil {
		if err := s.db.StoreMetaCache(&database.MetaCache{
			ID:      cacheKey,
			Type:    mediaType,
			Title:   meta.Name,
			Year:    meta.Year,
			Genres:  meta.Genres,
			Country: meta.Country,
		}); err != nil {
			s.logger.Warnf("[Cinemeta] failed to persist metadata for %s: %v", id, err)
		}
	}

	return meta, nil
}

// parseYear extracts a release year from Cinemeta's year or releaseInfo
// fields, which look like "2019" or "2015-2019".
func parseYear(year, releaseInfo string) int {
	for _, raw := range []string{year, releaseInfo} {
		raw = strings.TrimSpace(raw)
		if len(raw) >= 4 {
			if y, err := strconv.Atoi(raw[:4]); err == nil {
				return y
			}
		}
	}
	return 0
}
