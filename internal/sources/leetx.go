package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
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
	leetxBaseURL = "https://1337x.to"

	// Each hit costs an extra detail-page fetch for the magnet link, so the
	// scraper caps how many rows it follows.
	leetxMaxRows = 10
)

// trailing digits are the seed counter the site appends to the size cell
var leetxSizeSuffix = regexp.MustCompile(`\d+$`)

// Leetx scrapes 1337x search result and detail pages.
type Leetx struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *ratelimiter.TokenBucket
	logger      logger.Logger
}

func NewLeetx() *Leetx {
	return &Leetx{
		baseURL:     leetxBaseURL,
		httpClient:  httputil.NewHTTPClient(15 * time.Second),
		rateLimiter: ratelimiter.NewTokenBucket(constants.IndexerRateLimit, constants.IndexerRateBurst),
		logger:      logger.New(),
	}
}

func (l *Leetx) Name() string { return constants.SourceLeetx }

// SetBaseURL overrides the site root, used by tests.
func (l *Leetx) SetBaseURL(u string) { l.baseURL = u }

func (l *Leetx) Eligible(models.MediaType) bool { return true }

func (l *Leetx) Search(ctx context.Context, q models.SearchQuery) ([]models.RawHit, error) {
	l.rateLimiter.Wait()

	searchURL := fmt.Sprintf("%s/search/%s/1/", l.baseURL, url.PathEscape(QueryString(q)))
	doc, err := fetchDocument(ctx, l.httpClient, searchURL)
	if err != nil {
		return nil, fmt.Errorf("failed to search 1337x: %w", err)
	}

	var hits []models.RawHit
	rows := doc.Find(".table-list tbody tr")
	rows.EachWithBreak(func(i int, row *goquery.Selection) bool {
		if i >= leetxMaxRows || ctx.Err() != nil {
			return false
		}

		nameLink := row.Find(".coll-1.name a").Last()
		name := strings.TrimSpace(nameLink.Text())
		detailPath, _ := nameLink.Attr("href")
		if name == "" || detailPath == "" {
			return true
		}

		seeders, _ := strconv.Atoi(strings.TrimSpace(row.Find(".coll-2.seeds").Text()))
		sizeText := leetxSizeSuffix.ReplaceAllString(strings.TrimSpace(row.Find(".coll-4.size").Text()), "")
		size, _ := humanize.ParseBytes(strings.TrimSpace(sizeText))

		magnet, err := l.fetchMagnet(ctx, detailPath)
		if err != nil {
			l.logger.Debugf("[1337x] skipping %q: %v", name, err)
			return true
		}

		hits = append(hits, models.RawHit{
			Title:     name,
			Size:      int64(size),
			Seeders:   seeders,
			MagnetURI: magnet,
			Source:    l.Name(),
		})
		return true
	})

	l.logger.Debugf("[1337x] found %d torrents for %q", len(hits), QueryString(q))
	return hits, nil
}

// fetchMagnet follows a result row to its detail page, where the magnet
// link lives.
func (l *Leetx) fetchMagnet(ctx context.Context, detailPath string) (string, error) {
	doc, err := fetchDocument(ctx, l.httpClient, l.baseURL+detailPath)
	if err != nil {
		return "", err
	}
	magnet, ok := doc.Find(`a[href^="magnet:?xt=urn:btih"]`).First().Attr("href")
	if !ok {
		return "", fmt.Errorf("no magnet link on detail page")
	}
	return magnet, nil
}
