package debrid

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/flixfinder/flixfinder/internal/constants"
	"github.com/flixfinder/flixfinder/internal/errors"
	"github.com/flixfinder/flixfinder/internal/models"
	"github.com/flixfinder/flixfinder/pkg/httputil"
	"github.com/flixfinder/flixfinder/pkg/logger"
)

const (
	offcloudBaseURL    = "https://offcloud.com/api"
	offcloudPollBudget = 18
)

// Offcloud drives the Offcloud cloud-download API. Transfers are keyed by
// request id; existing cloud history is scanned before submitting anew.
type Offcloud struct {
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
	logger       logger.Logger
}

func NewOffcloud() *Offcloud {
	return &Offcloud{
		baseURL:      offcloudBaseURL,
		httpClient:   httputil.NewHTTPClient(30 * time.Second),
		pollInterval: constants.DebridPollInterval,
		logger:       logger.New(),
	}
}

func (o *Offcloud) ID() string { return constants.ProviderOffcloud }

func (o *Offcloud) SetBaseURL(u string)             { o.baseURL = u }
func (o *Offcloud) SetPollInterval(d time.Duration) { o.pollInterval = d }

type offcloudCloudResponse struct {
	RequestID    string `json:"requestId"`
	Status       string `json:"status"`
	OriginalLink string `json:"originalLink"`
	ErrorMessage string `json:"not_available"`
}

type offcloudHistoryEntry struct {
	RequestID    string `json:"requestId"`
	Status       string `json:"status"`
	OriginalLink string `json:"originalLink"`
}

type offcloudStatusResponse struct {
	Requests []struct {
		RequestID string `json:"requestId"`
		Status    string `json:"status"`
	} `json:"requests"`
}

type offcloudExploreResponse []string

func (o *Offcloud) Resolve(ctx context.Context, infoHash, token string) (*models.PlaybackResult, error) {
	requestID, reused, err := o.locateOrCreate(ctx, infoHash, token)
	if err != nil {
		return nil, err
	}

	polls, err := pollUntilReady(ctx, o.ID(), offcloudPollBudget, o.pollInterval, func(ctx context.Context) (transferState, error) {
		statusURL := fmt.Sprintf("%s/cloud/status?key=%s", o.baseURL, url.QueryEscape(token))
		var status offcloudStatusResponse
		body := map[string]interface{}{"requestIds": []string{requestID}}
		if err := postJSON(ctx, o.httpClient, statusURL, nil, body, &status); err != nil {
			return statePending, errors.NewTransferFailedError("offcloud status check failed", err)
		}
		for _, r := range status.Requests {
			if r.RequestID != requestID {
				continue
			}
			switch r.Status {
			case "downloaded":
				return stateReady, nil
			case "error", "canceled":
				return stateFailed, nil
			}
		}
		return statePending, nil
	})
	if err != nil {
		return nil, err
	}

	exploreURL := fmt.Sprintf("%s/cloud/explore/%s?key=%s", o.baseURL, requestID, url.QueryEscape(token))
	var links offcloudExploreResponse
	if err := getJSON(ctx, o.httpClient, exploreURL, nil, &links); err != nil {
		return nil, errors.NewNoDownloadURLError(o.ID())
	}

	// Explore returns bare URLs; the file name is the last path segment.
	files := make([]transferFile, 0, len(links))
	for _, link := range links {
		files = append(files, transferFile{Name: path.Base(link), Link: link})
	}
	best, ok := pickPlayableFile(files)
	if !ok {
		return nil, errors.NewNoPlayableFileError(o.ID())
	}

	o.logger.Debugf("[Offcloud] resolved %s in %d polls (reused=%t)", infoHash, polls, reused)
	return &models.PlaybackResult{URL: best.Link, Title: best.Name, Cached: reused || polls == 1}, nil
}

func (o *Offcloud) locateOrCreate(ctx context.Context, infoHash, token string) (string, bool, error) {
	historyURL := fmt.Sprintf("%s/cloud/history?key=%s", o.baseURL, url.QueryEscape(token))
	var history []offcloudHistoryEntry
	if err := getJSON(ctx, o.httpClient, historyURL, nil, &history); err == nil {
		for _, entry := range history {
			if strings.Contains(strings.ToLower(entry.OriginalLink), infoHash) {
				return entry.RequestID, true, nil
			}
		}
	}

	cloudURL := fmt.Sprintf("%s/cloud?key=%s", o.baseURL, url.QueryEscape(token))
	var created offcloudCloudResponse
	body := map[string]interface{}{"url": magnetFor(infoHash)}
	if err := postJSON(ctx, o.httpClient, cloudURL, nil, body, &created); err != nil {
		return "", false, errors.NewTransferFailedError("offcloud submission failed", err)
	}
	if created.RequestID == "" {
		return "", false, errors.NewTransferFailedError("offcloud rejected the magnet", nil)
	}
	return created.RequestID, false, nil
}
