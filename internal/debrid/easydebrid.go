package debrid

import (
	"context"
	"net/http"
	"time"

	"github.com/flixfinder/flixfinder/internal/constants"
	"github.com/flixfinder/flixfinder/internal/errors"
	"github.com/flixfinder/flixfinder/internal/models"
	"github.com/flixfinder/flixfinder/pkg/httputil"
	"github.com/flixfinder/flixfinder/pkg/logger"
)

const easyDebridBaseURL = "https://easydebrid.com/api/v1"

// EasyDebrid is a cache-only service: it either already has the torrent
// and produces links immediately, or the resolution fails. There is no
// transfer to poll.
type EasyDebrid struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

func NewEasyDebrid() *EasyDebrid {
	return &EasyDebrid{
		baseURL:    easyDebridBaseURL,
		httpClient: httputil.NewHTTPClient(30 * time.Second),
		logger:     logger.New(),
	}
}

func (e *EasyDebrid) ID() string { return constants.ProviderEasyDebrid }

func (e *EasyDebrid) SetBaseURL(u string) { e.baseURL = u }

type easyDebridLookupResponse struct {
	Cached []bool `json:"cached"`
}

type easyDebridGenerateResponse struct {
	Files []struct {
		URL      string `json:"url"`
		Filename string `json:"filename"`
		Size     int64  `json:"size"`
	} `json:"files"`
	Error string `json:"error"`
}

func (e *EasyDebrid) Resolve(ctx context.Context, infoHash, token string) (*models.PlaybackResult, error) {
	headers := bearer(token)
	magnet := magnetFor(infoHash)

	var lookup easyDebridLookupResponse
	body := map[string]interface{}{"urls": []string{magnet}}
	if err := postJSON(ctx, e.httpClient, e.baseURL+"/link/lookup", headers, body, &lookup); err != nil {
		return nil, errors.NewTransferFailedError("easydebrid cache lookup failed", err)
	}
	if len(lookup.Cached) == 0 || !lookup.Cached[0] {
		return nil, errors.NewNotReadyError(e.ID(), 1)
	}

	var generated easyDebridGenerateResponse
	body = map[string]interface{}{"url": magnet}
	if err := postJSON(ctx, e.httpClient, e.baseURL+"/link/generate", headers, body, &generated); err != nil {
		return nil, errors.NewNoDownloadURLError(e.ID())
	}
	if generated.Error != "" {
		return nil, errors.NewTransferFailedError("easydebrid error: "+generated.Error, nil)
	}

	files := make([]transferFile, 0, len(generated.Files))
	for _, f := range generated.Files {
		files = append(files, transferFile{Name: f.Filename, Size: f.Size, Link: f.URL})
	}
	best, ok := pickPlayableFile(files)
	if !ok {
		return nil, errors.NewNoPlayableFileError(e.ID())
	}

	e.logger.Debugf("[EasyDebrid] resolved %s from cache", infoHash)
	return &models.PlaybackResult{URL: best.Link, Title: best.Name, Cached: true}, nil
}
