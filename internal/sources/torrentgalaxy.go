package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustin/go-humanize"

	"github.com/flixfinder/flixfinder/internal/constants"
	"github.com/flixfinder/flixfinder/internal/models"
	"github.com/flixfinder/flixfinder/pkg/httputil"
	"github.com/flixfinder/flixfinder/pkg/logger"
	"github.com/flixfinder/flixfinder/pkg/ratelimiter"
)

const (
	torrentGalaxyBaseURL = "https://torrentgalaxy.to"
	torrentGalaxyMaxRows = 15
)

// TorrentGalaxy scrapes torrentgalaxy.to search pages. Magnets sit directly
// on the result rows, so no detail fetch is needed.
type TorrentGalaxy struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *ratelimiter.TokenBucket
	logger      logger.Logger
}

func NewTorrentGalaxy() *TorrentGalaxy {
	return &TorrentGalaxy{
		baseURL:     torrentGalaxyBaseURL,
		httpClient:  httputil.NewHTTPClient(15 * time.Second),
		rateLimiter: ratelimiter.NewTokenBucket(constants.IndexerRateLimit, constants.IndexerRateBurst),
		logger:      logger.New(),
	}
}

func (t *TorrentGalaxy) Name() string { return constants.SourceTorrentGalaxy }

// SetBaseURL overrides the site root, used by tests.
func (t *TorrentGalaxy) SetBaseURL(u string) { t.baseURL = u }

func (t *TorrentGalaxy) Eligible(models.MediaType) bool { return true }

func (t *TorrentGalaxy) Search(ctx context.Context, q models.SearchQuery) ([]models.RawHit, error) {
	t.rateLimiter.Wait()

	searchURL := fmt.Sprintf("%s/torrents.php?search=%s&lang=0&nox=2",
		t.baseURL, url.QueryEscape(QueryString(q)))
	doc, err := fetchDocument(ctx, t.httpClient, searchURL)
	if err != nil {
		return nil, fmt.Errorf("failed to search TorrentGalaxy: %w", err)
	}

	var hits []models.RawHit
	doc.Find(".tgxtablerow").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if i >= torrentGalaxyMaxRows {
			return false
		}

		nameLink := row.Find(`a[href^="/torrent/"]`).First()
		name, ok := nameLink.Attr("title")
		if !ok || name == "" {
			name = strings.TrimSpace(nameLink.Text())
		}
		magnet, _ := row.Find(`a[href^="magnet:"]`).First().Attr("href")
		if name == "" || magnet == "" {
			return true
		}

		sizeText := strings.TrimSpace(row.Find("span.badge-secondary").First().Text())
		size, _ := humanize.ParseBytes(sizeText)
		seeders, _ := strconv.Atoi(strings.TrimSpace(
			row.Find(`span[style*="color:green"], font[color="green"]`).First().Text()))

		hits = append(hits, models.RawHit{
			Title:     name,
			Size:      int64(size),
			Seeders:   seeders,
			MagnetURI: magnet,
			Source:    t.Name(),
		})
		return true
	})

	t.logger.Debugf("[TorrentGalaxy] found %d torrents for %q", len(hits), QueryString(q))
	return hits, nil
}
