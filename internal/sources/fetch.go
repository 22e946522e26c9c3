package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/avast/retry-go/v4"

	"github.com/flixfinder/flixfinder/internal/constants"
	"github.com/flixfinder/flixfinder/pkg/httputil"
)

// fetchBytes performs an idempotent GET with a bounded retry. Non-200
// responses count as failures.
func fetchBytes(ctx context.Context, client *http.Client, url string, headers map[string]string) ([]byte, error) {
	var body []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}
			for k, v := range headers {
				req.Header.Set(k, v)
			}
			resp, err := client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("unexpected status %d", resp.StatusCode)
			}
			body, err = io.ReadAll(resp.Body)
			return err
		},
		retry.Attempts(uint(constants.IndexerFetchAttempts)),
		retry.Delay(300*time.Millisecond),
		retry.DelayType(retry.FixedDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	return body, err
}

// fetchJSON fetches url and decodes the response body into v.
func fetchJSON(ctx context.Context, client *http.Client, url string, v interface{}) error {
	body, err := fetchBytes(ctx, client, url, map[string]string{
		"Accept": "application/json",
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

// fetchDocument fetches an HTML page with browser-like headers and parses
// it for the scraper sources.
func fetchDocument(ctx context.Context, client *http.Client, url string) (*goquery.Document, error) {
	body, err := fetchBytes(ctx, client, url, map[string]string{
		"User-Agent":      httputil.BrowserUserAgent,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.5",
	})
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(string(body)))
}
