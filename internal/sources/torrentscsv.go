package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/flixfinder/flixfinder/internal/constants"
	"github.com/flixfinder/flixfinder/internal/models"
	"github.com/flixfinder/flixfinder/pkg/httputil"
	"github.com/flixfinder/flixfinder/pkg/logger"
	"github.com/flixfinder/flixfinder/pkg/ratelimiter"
)

const torrentsCSVAPIBase = "https://torrents-csv.com"

// TorrentsCSV queries the torrents-csv.com community dataset.
type TorrentsCSV struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *ratelimiter.TokenBucket
	logger      logger.Logger
}

type torrentsCSVTorrent struct {
	RowID     int64  `json:"rowid"`
	InfoHash  string `json:"infohash"`
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
	Seeders   int    `json:"seeders"`
	Leechers  int    `json:"leechers"`
}

type torrentsCSVResponse struct {
	Torrents []torrentsCSVTorrent `json:"torrents"`
	Next     int64                `json:"next"`
}

func NewTorrentsCSV() *TorrentsCSV {
	return &TorrentsCSV{
		baseURL:     torrentsCSVAPIBase,
		httpClient:  httputil.NewHTTPClient(15 * time.Second),
		rateLimiter: ratelimiter.NewTokenBucket(constants.IndexerRateLimit, constants.IndexerRateBurst),
		logger:      logger.New(),
	}
}

func (t *TorrentsCSV) Name() string { return constants.SourceTorrentsCSV }

// SetBaseURL overrides the API endpoint, used by tests.
func (t *TorrentsCSV) SetBaseURL(u string) { t.baseURL = u }

func (t *TorrentsCSV) Eligible(models.MediaType) bool { return true }

func (t *TorrentsCSV) Search(ctx context.Context, q models.SearchQuery) ([]models.RawHit, error) {
	t.rateLimiter.Wait()

	apiURL := fmt.Sprintf("%s/service/search?q=%s&size=50",
		t.baseURL, url.QueryEscape(QueryString(q)))
	t.logger.Debugf("[TorrentsCSV] searching torrents - URL: %s", apiURL)

	var resp torrentsCSVResponse
	if err := fetchJSON(ctx, t.httpClient, apiURL, &resp); err != nil {
		return nil, fmt.Errorf("failed to search TorrentsCSV: %w", err)
	}

	hits := make([]models.RawHit, 0, len(resp.Torrents))
	for _, tor := range resp.Torrents {
		hits = append(hits, models.RawHit{
			Title:    tor.Name,
			Size:     tor.SizeBytes,
			Seeders:  tor.Seeders,
			InfoHash: tor.InfoHash,
			Source:   t.Name(),
		})
	}

	t.logger.Debugf("[TorrentsCSV] found %d torrents for %q", len(hits), QueryString(q))
	return hits, nil
}
