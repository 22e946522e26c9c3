package debrid

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/flixfinder/flixfinder/internal/constants"
	"github.com/flixfinder/flixfinder/internal/errors"
	"github.com/flixfinder/flixfinder/internal/models"
	"github.com/flixfinder/flixfinder/pkg/httputil"
	"github.com/flixfinder/flixfinder/pkg/logger"
)

const (
	realDebridBaseURL    = "https://api.real-debrid.com/rest/1.0"
	realDebridPollBudget = 12
)

// RealDebrid drives the Real-Debrid torrent API: add magnet, select files,
// poll until downloaded, then unrestrict the chosen link.
type RealDebrid struct {
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
	logger       logger.Logger
}

func NewRealDebrid() *RealDebrid {
	return &RealDebrid{
		baseURL:      realDebridBaseURL,
		httpClient:   httputil.NewHTTPClient(30 * time.Second),
		pollInterval: constants.DebridPollInterval,
		logger:       logger.New(),
	}
}

func (r *RealDebrid) ID() string { return constants.ProviderRealDebrid }

// SetBaseURL and SetPollInterval override the API endpoint and the poll
// cadence, used by tests.
func (r *RealDebrid) SetBaseURL(u string)             { r.baseURL = u }
func (r *RealDebrid) SetPollInterval(d time.Duration) { r.pollInterval = d }

type realDebridAddResponse struct {
	ID string `json:"id"`
}

type realDebridTorrentInfo struct {
	Status string `json:"status"`
	Files  []struct {
		ID       int    `json:"id"`
		Path     string `json:"path"`
		Bytes    int64  `json:"bytes"`
		Selected int    `json:"selected"`
	} `json:"files"`
	Links []string `json:"links"`
}

type realDebridUnrestrictResponse struct {
	Download string `json:"download"`
}

func (r *RealDebrid) Resolve(ctx context.Context, infoHash, token string) (*models.PlaybackResult, error) {
	headers := bearer(token)

	var added realDebridAddResponse
	form := url.Values{"magnet": {magnetFor(infoHash)}}
	if err := postForm(ctx, r.httpClient, r.baseURL+"/torrents/addMagnet", headers, form, &added); err != nil {
		return nil, errors.NewTransferFailedError("real-debrid magnet submission failed", err)
	}

	var info realDebridTorrentInfo
	selected := false
	polls, err := pollUntilReady(ctx, r.ID(), realDebridPollBudget, r.pollInterval, func(ctx context.Context) (transferState, error) {
		if err := getJSON(ctx, r.httpClient, r.baseURL+"/torrents/info/"+added.ID, headers, &info); err != nil {
			return statePending, errors.NewTransferFailedError("real-debrid status check failed", err)
		}
		switch info.Status {
		case "downloaded":
			return stateReady, nil
		case "error", "virus", "dead", "magnet_error":
			return stateFailed, nil
		case "waiting_files_selection":
			if !selected {
				if err := r.selectFiles(ctx, added.ID, info, headers); err != nil {
					return statePending, err
				}
				selected = true
			}
		}
		return statePending, nil
	})
	if err != nil {
		return nil, err
	}

	if len(info.Links) == 0 {
		return nil, errors.NewNoPlayableFileError(r.ID())
	}

	var unrestricted realDebridUnrestrictResponse
	form = url.Values{"link": {info.Links[0]}}
	if err := postForm(ctx, r.httpClient, r.baseURL+"/unrestrict/link", headers, form, &unrestricted); err != nil {
		return nil, errors.NewNoDownloadURLError(r.ID())
	}
	if unrestricted.Download == "" {
		return nil, errors.NewNoDownloadURLError(r.ID())
	}

	r.logger.Debugf("[RealDebrid] resolved %s in %d polls", infoHash, polls)
	return &models.PlaybackResult{URL: unrestricted.Download, Cached: polls == 1}, nil
}

// selectFiles marks the playable file for download. Real-Debrid only lists
// links for selected files, so the pick happens here rather than after the
// transfer completes.
func (r *RealDebrid) selectFiles(ctx context.Context, torrentID string, info realDebridTorrentInfo, headers map[string]string) error {
	files := make([]transferFile, 0, len(info.Files))
	for _, f := range info.Files {
		files = append(files, transferFile{ID: strconv.Itoa(f.ID), Name: f.Path, Size: f.Bytes})
	}

	choice := "all"
	if best, ok := pickPlayableFile(files); ok {
		choice = best.ID
	}
	form := url.Values{"files": {choice}}
	endpoint := fmt.Sprintf("%s/torrents/selectFiles/%s", r.baseURL, torrentID)
	if err := postForm(ctx, r.httpClient, endpoint, headers, form, nil); err != nil {
		return errors.NewTransferFailedError("real-debrid file selection failed", err)
	}
	return nil
}
