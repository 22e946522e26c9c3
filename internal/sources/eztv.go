package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/flixfinder/flixfinder/internal/constants"
	"github.com/flixfinder/flixfinder/internal/models"
	"github.com/flixfinder/flixfinder/pkg/httputil"
	"github.com/flixfinder/flixfinder/pkg/logger"
	"github.com/flixfinder/flixfinder/pkg/ratelimiter"
)

const eztvAPIBase = "https://eztvx.to/api"

// EZTV serves series torrents keyed by IMDB id, with structured per-episode
// metadata. That structure is why it ranks first for dedup preference.
type EZTV struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *ratelimiter.TokenBucket
	logger      logger.Logger
}

type eztvTorrent struct {
	ID        int    `json:"id"`
	Hash      string `json:"hash"`
	Filename  string `json:"filename"`
	MagnetURL string `json:"magnet_url"`
	Title     string `json:"title"`
	Season    string `json:"season"`
	Episode   string `json:"episode"`
	Seeds     int    `json:"seeds"`
	Peers     int    `json:"peers"`
	SizeBytes string `json:"size_bytes"`
}

type eztvResponse struct {
	TorrentsCount int           `json:"torrents_count"`
	Torrents      []eztvTorrent `json:"torrents"`
}

func NewEZTV() *EZTV {
	return &EZTV{
		baseURL:     eztvAPIBase,
		httpClient:  httputil.NewHTTPClient(15 * time.Second),
		rateLimiter: ratelimiter.NewTokenBucket(constants.IndexerRateLimit, constants.IndexerRateBurst),
		logger:      logger.New(),
	}
}

func (e *EZTV) Name() string { return constants.SourceEZTV }

// SetBaseURL overrides the API endpoint, used by tests.
func (e *EZTV) SetBaseURL(u string) { e.baseURL = u }

func (e *EZTV) Eligible(mediaType models.MediaType) bool {
	return mediaType == models.MediaTypeSeries || mediaType == models.MediaTypeAnime
}

func (e *EZTV) Search(ctx context.Context, q models.SearchQuery) ([]models.RawHit, error) {
	if !strings.HasPrefix(q.BaseID, "tt") {
		return nil, nil
	}
	e.rateLimiter.Wait()

	apiURL := fmt.Sprintf("%s/get-torrents?imdb_id=%s&limit=100",
		e.baseURL, url.QueryEscape(strings.TrimPrefix(q.BaseID, "tt")))
	e.logger.Debugf("[EZTV] searching torrents - URL: %s", apiURL)

	var resp eztvResponse
	if err := fetchJSON(ctx, e.httpClient, apiURL, &resp); err != nil {
		return nil, fmt.Errorf("failed to search EZTV: %w", err)
	}

	hits := make([]models.RawHit, 0, len(resp.Torrents))
	for _, t := range resp.Torrents {
		size, _ := strconv.ParseInt(t.SizeBytes, 10, 64)
		hits = append(hits, models.RawHit{
			Title:     t.Title,
			Size:      size,
			Seeders:   t.Seeds,
			InfoHash:  t.Hash,
			MagnetURI: t.MagnetURL,
			Source:    e.Name(),
		})
	}

	e.logger.Debugf("[EZTV] found %d torrents for %s", len(hits), q.BaseID)
	return hits, nil
}
