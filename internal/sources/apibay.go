package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/flixfinder/flixfinder/internal/constants"
	"github.com/flixfinder/flixfinder/internal/models"
	"github.com/flixfinder/flixfinder/pkg/httputil"
	"github.com/flixfinder/flixfinder/pkg/logger"
	"github.com/flixfinder/flixfinder/pkg/ratelimiter"
)

const (
	apibayAPIBase       = "https://apibay.org"
	apibayVideoCategory = "video"

	// Apibay signals an empty result set with a single placeholder row.
	apibayEmptyID = "0"
)

// Apibay is the JSON API in front of The Pirate Bay.
type Apibay struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *ratelimiter.TokenBucket
	logger      logger.Logger
}

type apibayTorrent struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	InfoHash string `json:"info_hash"`
	Seeders  string `json:"seeders"`
	Leechers string `json:"leechers"`
	Size     string `json:"size"`
	Category string `json:"category"`
}

func NewApibay() *Apibay {
	return &Apibay{
		baseURL:     apibayAPIBase,
		httpClient:  httputil.NewHTTPClient(15 * time.Second),
		rateLimiter: ratelimiter.NewTokenBucket(constants.IndexerRateLimit, constants.IndexerRateBurst),
		logger:      logger.New(),
	}
}

func (a *Apibay) Name() string { return constants.SourceApibay }

// SetBaseURL overrides the API endpoint, used by tests.
func (a *Apibay) SetBaseURL(u string) { a.baseURL = u }

func (a *Apibay) Eligible(models.MediaType) bool { return true }

func (a *Apibay) Search(ctx context.Context, q models.SearchQuery) ([]models.RawHit, error) {
	a.rateLimiter.Wait()

	apiURL := fmt.Sprintf("%s/q.php?q=%s&cat=%s",
		a.baseURL, url.QueryEscape(QueryString(q)), apibayVideoCategory)
	a.logger.Debugf("[Apibay] searching torrents - URL: %s", apiURL)

	var torrents []apibayTorrent
	if err := fetchJSON(ctx, a.httpClient, apiURL, &torrents); err != nil {
		return nil, fmt.Errorf("failed to search Apibay: %w", err)
	}

	hits := make([]models.RawHit, 0, len(torrents))
	for _, t := range torrents {
		if t.ID == apibayEmptyID {
			continue
		}
		size, _ := strconv.ParseInt(t.Size, 10, 64)
		seeders, _ := strconv.Atoi(t.Seeders)
		hits = append(hits, models.RawHit{
			Title:    t.Name,
			Size:     size,
			Seeders:  seeders,
			InfoHash: t.InfoHash,
			Source:   a.Name(),
		})
	}

	a.logger.Debugf("[Apibay] found %d torrents for %q", len(hits), QueryString(q))
	return hits, nil
}
