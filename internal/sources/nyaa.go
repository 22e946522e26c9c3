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

const nyaaBaseURL = "https://nyaa.si"

// Nyaa scrapes nyaa.si, the de facto anime tracker. It only serves anime
// queries; release groups there name episodes "Title - 05" rather than
// SxxExx, so the adapter builds its own query form.
type Nyaa struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *ratelimiter.TokenBucket
	logger      logger.Logger
}

func NewNyaa() *Nyaa {
	return &Nyaa{
		baseURL:     nyaaBaseURL,
		httpClient:  httputil.NewHTTPClient(15 * time.Second),
		rateLimiter: ratelimiter.NewTokenBucket(constants.IndexerRateLimit, constants.IndexerRateBurst),
		logger:      logger.New(),
	}
}

func (n *Nyaa) Name() string { return constants.SourceNyaa }

// SetBaseURL overrides the site root, used by tests.
func (n *Nyaa) SetBaseURL(u string) { n.baseURL = u }

func (n *Nyaa) Eligible(mediaType models.MediaType) bool {
	return mediaType == models.MediaTypeAnime
}

func (n *Nyaa) Search(ctx context.Context, q models.SearchQuery) ([]models.RawHit, error) {
	n.rateLimiter.Wait()

	// 1_2 is the English-translated anime category; s=seeders keeps the
	// useful rows on page one.
	searchURL := fmt.Sprintf("%s/?f=0&c=1_2&s=seeders&o=desc&q=%s",
		n.baseURL, url.QueryEscape(n.queryString(q)))
	doc, err := fetchDocument(ctx, n.httpClient, searchURL)
	if err != nil {
		return nil, fmt.Errorf("failed to search Nyaa: %w", err)
	}

	var hits []models.RawHit
	doc.Find("table.torrent-list tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 6 {
			return
		}

		name := strings.TrimSpace(cells.Eq(1).Find("a:not(.comments)").Last().Text())
		magnet, _ := row.Find(`a[href^="magnet:"]`).First().Attr("href")
		if name == "" || magnet == "" {
			return
		}

		size, _ := humanize.ParseBytes(strings.TrimSpace(cells.Eq(3).Text()))
		seeders, _ := strconv.Atoi(strings.TrimSpace(cells.Eq(5).Text()))

		hits = append(hits, models.RawHit{
			Title:     name,
			Size:      int64(size),
			Seeders:   seeders,
			MagnetURI: magnet,
			Source:    n.Name(),
		})
	})

	n.logger.Debugf("[Nyaa] found %d torrents for %q", len(hits), n.queryString(q))
	return hits, nil
}

func (n *Nyaa) queryString(q models.SearchQuery) string {
	if q.Episode > 0 {
		return fmt.Sprintf("%s %02d", q.Title, q.Episode)
	}
	return q.Title
}
