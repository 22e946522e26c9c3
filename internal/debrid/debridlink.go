package debrid

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/flixfinder/flixfinder/internal/constants"
	"github.com/flixfinder/flixfinder/internal/errors"
	"github.com/flixfinder/flixfinder/internal/models"
	"github.com/flixfinder/flixfinder/pkg/httputil"
	"github.com/flixfinder/flixfinder/pkg/logger"
)

const (
	debridLinkBaseURL    = "https://debrid-link.com/api/v2"
	debridLinkPollBudget = 18
)

// DebridLink drives the Debrid-Link seedbox API. The service keeps a
// per-account transfer list, so an existing transfer for the hash is
// reused instead of re-submitted.
type DebridLink struct {
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
	logger       logger.Logger
}

func NewDebridLink() *DebridLink {
	return &DebridLink{
		baseURL:      debridLinkBaseURL,
		httpClient:   httputil.NewHTTPClient(30 * time.Second),
		pollInterval: constants.DebridPollInterval,
		logger:       logger.New(),
	}
}

func (d *DebridLink) ID() string { return constants.ProviderDebridLink }

func (d *DebridLink) SetBaseURL(u string)              { d.baseURL = u }
func (d *DebridLink) SetPollInterval(iv time.Duration) { d.pollInterval = iv }

type debridLinkTorrent struct {
	ID              string  `json:"id"`
	HashString      string  `json:"hashString"`
	Status          int     `json:"status"`
	DownloadPercent float64 `json:"downloadPercent"`
	Files           []struct {
		Name        string `json:"name"`
		Size        int64  `json:"size"`
		DownloadURL string `json:"downloadUrl"`
	} `json:"files"`
}

type debridLinkListResponse struct {
	Success bool                `json:"success"`
	Value   []debridLinkTorrent `json:"value"`
}

type debridLinkAddResponse struct {
	Success bool              `json:"success"`
	Value   debridLinkTorrent `json:"value"`
	Error   string            `json:"error"`
}

func (d *DebridLink) Resolve(ctx context.Context, infoHash, token string) (*models.PlaybackResult, error) {
	headers := bearer(token)

	transferID, reused, err := d.locateOrCreate(ctx, infoHash, headers)
	if err != nil {
		return nil, err
	}

	var current debridLinkTorrent
	polls, err := pollUntilReady(ctx, d.ID(), debridLinkPollBudget, d.pollInterval, func(ctx context.Context) (transferState, error) {
		var list debridLinkListResponse
		if err := getJSON(ctx, d.httpClient, d.baseURL+"/seedbox/list", headers, &list); err != nil {
			return statePending, errors.NewTransferFailedError("debrid-link status check failed", err)
		}
		for _, t := range list.Value {
			if t.ID == transferID {
				current = t
				if t.DownloadPercent >= 100 {
					return stateReady, nil
				}
				// Status codes below zero mark failed transfers.
				if t.Status < 0 {
					return stateFailed, nil
				}
				return statePending, nil
			}
		}
		// An async submission may not show up in the list yet.
		return statePending, nil
	})
	if err != nil {
		return nil, err
	}

	files := make([]transferFile, 0, len(current.Files))
	for _, f := range current.Files {
		files = append(files, transferFile{Name: f.Name, Size: f.Size, Link: f.DownloadURL})
	}
	best, ok := pickPlayableFile(files)
	if !ok {
		return nil, errors.NewNoPlayableFileError(d.ID())
	}
	if best.Link == "" {
		return nil, errors.NewNoDownloadURLError(d.ID())
	}

	d.logger.Debugf("[DebridLink] resolved %s in %d polls (reused=%t)", infoHash, polls, reused)
	return &models.PlaybackResult{URL: best.Link, Title: best.Name, Cached: reused || polls == 1}, nil
}

// locateOrCreate finds an existing transfer for the hash in the seedbox
// list or submits the magnet as a new one.
func (d *DebridLink) locateOrCreate(ctx context.Context, infoHash string, headers map[string]string) (string, bool, error) {
	var list debridLinkListResponse
	if err := getJSON(ctx, d.httpClient, d.baseURL+"/seedbox/list", headers, &list); err == nil {
		for _, t := range list.Value {
			if strings.EqualFold(t.HashString, infoHash) {
				return t.ID, true, nil
			}
		}
	}

	var added debridLinkAddResponse
	body := map[string]interface{}{"url": magnetFor(infoHash), "async": true}
	if err := postJSON(ctx, d.httpClient, d.baseURL+"/seedbox/add", headers, body, &added); err != nil {
		return "", false, errors.NewTransferFailedError("debrid-link magnet submission failed", err)
	}
	if !added.Success || added.Value.ID == "" {
		return "", false, errors.NewTransferFailedError(debridLinkMessage(added.Error), nil)
	}
	return added.Value.ID, false, nil
}

func debridLinkMessage(code string) string {
	if code != "" {
		return "debrid-link error: " + code
	}
	return "debrid-link rejected the magnet"
}
