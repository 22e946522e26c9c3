package debrid

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/flixfinder/flixfinder/internal/constants"
	"github.com/flixfinder/flixfinder/internal/errors"
	"github.com/flixfinder/flixfinder/internal/models"
	"github.com/flixfinder/flixfinder/pkg/httputil"
	"github.com/flixfinder/flixfinder/pkg/logger"
)

const (
	premiumizeBaseURL      = "https://www.premiumize.me/api"
	premiumizePollBudget   = 20
	premiumizePollInterval = 1200 * time.Millisecond
)

// Premiumize drives the Premiumize.me API. Cached content is served
// straight through directdl; anything else goes through a transfer that
// is polled on a slightly slower cadence than the other providers.
type Premiumize struct {
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
	logger       logger.Logger
}

func NewPremiumize() *Premiumize {
	return &Premiumize{
		baseURL:      premiumizeBaseURL,
		httpClient:   httputil.NewHTTPClient(30 * time.Second),
		pollInterval: premiumizePollInterval,
		logger:       logger.New(),
	}
}

func (p *Premiumize) ID() string { return constants.ProviderPremiumize }

func (p *Premiumize) SetBaseURL(u string)             { p.baseURL = u }
func (p *Premiumize) SetPollInterval(d time.Duration) { p.pollInterval = d }

type premiumizeCacheResponse struct {
	Status   string `json:"status"`
	Response []bool `json:"response"`
}

type premiumizeDirectDLResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Content []struct {
		Path string `json:"path"`
		Size int64  `json:"size"`
		Link string `json:"link"`
	} `json:"content"`
}

type premiumizeTransferResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

type premiumizeTransferList struct {
	Status    string `json:"status"`
	Transfers []struct {
		ID      string `json:"id"`
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"transfers"`
}

func (p *Premiumize) Resolve(ctx context.Context, infoHash, token string) (*models.PlaybackResult, error) {
	magnet := magnetFor(infoHash)

	cached, err := p.isCached(ctx, infoHash, token)
	if err == nil && cached {
		result, err := p.directDownload(ctx, magnet, token)
		if err == nil {
			result.Cached = true
			return result, nil
		}
	}

	form := url.Values{"apikey": {token}, "src": {magnet}}
	var created premiumizeTransferResponse
	if err := postForm(ctx, p.httpClient, p.baseURL+"/transfer/create", nil, form, &created); err != nil {
		return nil, errors.NewTransferFailedError("premiumize transfer creation failed", err)
	}
	if created.Status != "success" {
		return nil, errors.NewTransferFailedError(premiumizeMessage(created.Message), nil)
	}

	polls, err := pollUntilReady(ctx, p.ID(), premiumizePollBudget, p.pollInterval, func(ctx context.Context) (transferState, error) {
		listURL := fmt.Sprintf("%s/transfer/list?apikey=%s", p.baseURL, url.QueryEscape(token))
		var list premiumizeTransferList
		if err := getJSON(ctx, p.httpClient, listURL, nil, &list); err != nil {
			return statePending, errors.NewTransferFailedError("premiumize status check failed", err)
		}
		for _, t := range list.Transfers {
			if t.ID == created.ID {
				switch t.Status {
				case "finished", "seeding":
					return stateReady, nil
				case "error", "banned", "deleted", "timeout":
					return stateFailed, nil
				}
				return statePending, nil
			}
		}
		return statePending, nil
	})
	if err != nil {
		return nil, err
	}

	result, err := p.directDownload(ctx, magnet, token)
	if err != nil {
		return nil, err
	}
	result.Cached = polls == 1
	p.logger.Debugf("[Premiumize] resolved %s in %d polls", infoHash, polls)
	return result, nil
}

func (p *Premiumize) isCached(ctx context.Context, infoHash, token string) (bool, error) {
	checkURL := fmt.Sprintf("%s/cache/check?apikey=%s&items[]=%s",
		p.baseURL, url.QueryEscape(token), url.QueryEscape(infoHash))
	var check premiumizeCacheResponse
	if err := getJSON(ctx, p.httpClient, checkURL, nil, &check); err != nil {
		return false, err
	}
	return check.Status == "success" && len(check.Response) > 0 && check.Response[0], nil
}

func (p *Premiumize) directDownload(ctx context.Context, magnet, token string) (*models.PlaybackResult, error) {
	form := url.Values{"apikey": {token}, "src": {magnet}}
	var dl premiumizeDirectDLResponse
	if err := postForm(ctx, p.httpClient, p.baseURL+"/transfer/directdl", nil, form, &dl); err != nil {
		return nil, errors.NewNoDownloadURLError(p.ID())
	}
	if dl.Status != "success" {
		return nil, errors.NewTransferFailedError(premiumizeMessage(dl.Message), nil)
	}

	files := make([]transferFile, 0, len(dl.Content))
	for _, c := range dl.Content {
		files = append(files, transferFile{Name: c.Path, Size: c.Size, Link: c.Link})
	}
	best, ok := pickPlayableFile(files)
	if !ok {
		return nil, errors.NewNoPlayableFileError(p.ID())
	}
	if best.Link == "" {
		return nil, errors.NewNoDownloadURLError(p.ID())
	}
	return &models.PlaybackResult{URL: best.Link, Title: best.Name}, nil
}

func premiumizeMessage(message string) string {
	if message != "" {
		return "premiumize error: " + message
	}
	return "premiumize rejected the transfer"
}
