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
	torboxBaseURL    = "https://api.torbox.app/v1/api"
	torboxPollBudget = 18
)

// Torbox drives the TorBox torrent API: create, poll the list entry until
// the download is present, then request a per-file download link.
type Torbox struct {
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
	logger       logger.Logger
}

func NewTorbox() *Torbox {
	return &Torbox{
		baseURL:      torboxBaseURL,
		httpClient:   httputil.NewHTTPClient(30 * time.Second),
		pollInterval: constants.DebridPollInterval,
		logger:       logger.New(),
	}
}

func (t *Torbox) ID() string { return constants.ProviderTorbox }

func (t *Torbox) SetBaseURL(u string)             { t.baseURL = u }
func (t *Torbox) SetPollInterval(d time.Duration) { t.pollInterval = d }

type torboxCreateResponse struct {
	Success bool   `json:"success"`
	Detail  string `json:"detail"`
	Data    struct {
		TorrentID int64 `json:"torrent_id"`
	} `json:"data"`
}

type torboxListResponse struct {
	Success bool `json:"success"`
	Data    struct {
		ID               int64  `json:"id"`
		DownloadState    string `json:"download_state"`
		DownloadPresent  bool   `json:"download_present"`
		DownloadFinished bool   `json:"download_finished"`
		Files            []struct {
			ID        int64  `json:"id"`
			Name      string `json:"name"`
			ShortName string `json:"short_name"`
			Size      int64  `json:"size"`
		} `json:"files"`
	} `json:"data"`
}

type torboxLinkResponse struct {
	Success bool   `json:"success"`
	Data    string `json:"data"`
}

func (t *Torbox) Resolve(ctx context.Context, infoHash, token string) (*models.PlaybackResult, error) {
	headers := bearer(token)

	form := url.Values{"magnet": {magnetFor(infoHash)}}
	var created torboxCreateResponse
	if err := postForm(ctx, t.httpClient, t.baseURL+"/torrents/createtorrent", headers, form, &created); err != nil {
		return nil, errors.NewTransferFailedError("torbox torrent creation failed", err)
	}
	if !created.Success {
		return nil, errors.NewTransferFailedError(torboxDetail(created.Detail, "torbox rejected the magnet"), nil)
	}

	var listed torboxListResponse
	polls, err := pollUntilReady(ctx, t.ID(), torboxPollBudget, t.pollInterval, func(ctx context.Context) (transferState, error) {
		listURL := fmt.Sprintf("%s/torrents/mylist?id=%d", t.baseURL, created.Data.TorrentID)
		if err := getJSON(ctx, t.httpClient, listURL, headers, &listed); err != nil {
			return statePending, errors.NewTransferFailedError("torbox status check failed", err)
		}
		if !listed.Success {
			return stateFailed, nil
		}
		switch {
		case listed.Data.DownloadPresent || listed.Data.DownloadFinished:
			return stateReady, nil
		case listed.Data.DownloadState == "failed" || listed.Data.DownloadState == "stalled (no seeds)":
			return stateFailed, nil
		}
		return statePending, nil
	})
	if err != nil {
		return nil, err
	}

	files := make([]transferFile, 0, len(listed.Data.Files))
	for _, f := range listed.Data.Files {
		name := f.ShortName
		if name == "" {
			name = f.Name
		}
		files = append(files, transferFile{ID: strconv.FormatInt(f.ID, 10), Name: name, Size: f.Size})
	}
	best, ok := pickPlayableFile(files)
	if !ok {
		return nil, errors.NewNoPlayableFileError(t.ID())
	}

	linkURL := fmt.Sprintf("%s/torrents/requestdl?token=%s&torrent_id=%d&file_id=%s",
		t.baseURL, url.QueryEscape(token), created.Data.TorrentID, best.ID)
	var link torboxLinkResponse
	if err := getJSON(ctx, t.httpClient, linkURL, headers, &link); err != nil {
		return nil, errors.NewNoDownloadURLError(t.ID())
	}
	if !link.Success || link.Data == "" {
		return nil, errors.NewNoDownloadURLError(t.ID())
	}

	t.logger.Debugf("[Torbox] resolved %s in %d polls", infoHash, polls)
	return &models.PlaybackResult{URL: link.Data, Title: best.Name, Cached: polls == 1}, nil
}

func torboxDetail(detail, fallback string) string {
	if detail != "" {
		return detail
	}
	return fallback
}
