package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/flixfinder/flixfinder/internal/constants"
	"github.com/flixfinder/flixfinder/internal/models"
	"github.com/flixfinder/flixfinder/pkg/httputil"
	"github.com/flixfinder/flixfinder/pkg/logger"
	"github.com/flixfinder/flixfinder/pkg/ratelimiter"
)

const knabenAPIBase = "https://api.knaben.org/v1"

// Knaben is a meta-indexer aggregating many trackers behind one JSON API.
type Knaben struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *ratelimiter.TokenBucket
	logger      logger.Logger
}

type knabenRequest struct {
	SearchField    string `json:"search_field"`
	Query          string `json:"query"`
	OrderBy        string `json:"order_by"`
	OrderDirection string `json:"order_direction"`
	From           int    `json:"from"`
	Size           int    `json:"size"`
	HideUnsafe     bool   `json:"hide_unsafe"`
	HideXXX        bool   `json:"hide_xxx"`
}

type knabenHit struct {
	Title        string `json:"title"`
	Hash         string `json:"hash"`
	MagnetURL    string `json:"magnetUrl"`
	Link         string `json:"link"`
	Bytes        int64  `json:"bytes"`
	Seeders      int    `json:"seeders"`
	CachedOrigin string `json:"cachedOrigin"`
}

type knabenResponse struct {
	Hits []knabenHit `json:"hits"`
}

func NewKnaben() *Knaben {
	return &Knaben{
		baseURL:     knabenAPIBase,
		httpClient:  httputil.NewHTTPClient(15 * time.Second),
		rateLimiter: ratelimiter.NewTokenBucket(constants.IndexerRateLimit, constants.IndexerRateBurst),
		logger:      logger.New(),
	}
}

func (k *Knaben) Name() string { return constants.SourceKnaben }

// SetBaseURL overrides the API endpoint, used by tests.
func (k *Knaben) SetBaseURL(u string) { k.baseURL = u }

func (k *Knaben) Eligible(models.MediaType) bool { return true }

func (k *Knaben) Search(ctx context.Context, q models.SearchQuery) ([]models.RawHit, error) {
	k.rateLimiter.Wait()

	payload, err := json.Marshal(knabenRequest{
		SearchField:    "title",
		Query:          QueryString(q),
		OrderBy:        "seeders",
		OrderDirection: "desc",
		Size:           50,
		HideUnsafe:     true,
		HideXXX:        true,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, k.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search Knaben: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Knaben API error: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var kr knabenResponse
	if err := json.Unmarshal(body, &kr); err != nil {
		return nil, fmt.Errorf("failed to decode Knaben response: %w", err)
	}

	hits := make([]models.RawHit, 0, len(kr.Hits))
	for _, h := range kr.Hits {
		magnet := h.MagnetURL
		if magnet == "" {
			magnet = h.Link
		}
		hits = append(hits, models.RawHit{
			Title:     h.Title,
			Size:      h.Bytes,
			Seeders:   h.Seeders,
			InfoHash:  h.Hash,
			MagnetURI: magnet,
			Source:    k.Name(),
		})
	}

	k.logger.Debugf("[Knaben] found %d torrents for %q", len(hits), QueryString(q))
	return hits, nil
}
