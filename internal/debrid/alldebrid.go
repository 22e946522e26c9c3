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
	allDebridBaseURL    = "https://api.alldebrid.com/v4"
	allDebridAgent      = "flixfinder"
	allDebridPollBudget = 18
)

// AllDebrid drives the AllDebrid magnet API: upload, poll magnet status,
// then unlock the chosen file link.
type AllDebrid struct {
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
	logger       logger.Logger
}

func NewAllDebrid() *AllDebrid {
	return &AllDebrid{
		baseURL:      allDebridBaseURL,
		httpClient:   httputil.NewHTTPClient(30 * time.Second),
		pollInterval: constants.DebridPollInterval,
		logger:       logger.New(),
	}
}

func (a *AllDebrid) ID() string { return constants.ProviderAllDebrid }

func (a *AllDebrid) SetBaseURL(u string)             { a.baseURL = u }
func (a *AllDebrid) SetPollInterval(d time.Duration) { a.pollInterval = d }

type allDebridError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type allDebridUploadResponse struct {
	Status string `json:"status"`
	Data   struct {
		Magnets []struct {
			ID    int64           `json:"id"`
			Ready bool            `json:"ready"`
			Error *allDebridError `json:"error,omitempty"`
		} `json:"magnets"`
	} `json:"data"`
	Error *allDebridError `json:"error,omitempty"`
}

type allDebridStatusResponse struct {
	Status string `json:"status"`
	Data   struct {
		Magnets []struct {
			ID     int64  `json:"id"`
			Status string `json:"status"`
			Links  []struct {
				Link     string `json:"link"`
				Filename string `json:"filename"`
				Size     int64  `json:"size"`
			} `json:"links"`
		} `json:"magnets"`
	} `json:"data"`
	Error *allDebridError `json:"error,omitempty"`
}

type allDebridUnlockResponse struct {
	Status string `json:"status"`
	Data   struct {
		Link string `json:"link"`
	} `json:"data"`
	Error *allDebridError `json:"error,omitempty"`
}

func (a *AllDebrid) Resolve(ctx context.Context, infoHash, token string) (*models.PlaybackResult, error) {
	form := url.Values{}
	form.Set("agent", allDebridAgent)
	form.Set("apikey", token)
	form.Add("magnets[]", magnetFor(infoHash))

	var uploaded allDebridUploadResponse
	if err := postForm(ctx, a.httpClient, a.baseURL+"/magnet/upload", nil, form, &uploaded); err != nil {
		return nil, errors.NewTransferFailedError("alldebrid magnet upload failed", err)
	}
	if uploaded.Error != nil || len(uploaded.Data.Magnets) == 0 {
		return nil, errors.NewTransferFailedError(allDebridMessage(uploaded.Error, "alldebrid rejected the magnet"), nil)
	}
	magnet := uploaded.Data.Magnets[0]
	if magnet.Error != nil {
		return nil, errors.NewTransferFailedError(magnet.Error.Message, nil)
	}

	var status allDebridStatusResponse
	polls, err := pollUntilReady(ctx, a.ID(), allDebridPollBudget, a.pollInterval, func(ctx context.Context) (transferState, error) {
		statusURL := fmt.Sprintf("%s/magnet/status?agent=%s&apikey=%s&id=%d",
			a.baseURL, allDebridAgent, url.QueryEscape(token), magnet.ID)
		if err := getJSON(ctx, a.httpClient, statusURL, nil, &status); err != nil {
			return statePending, errors.NewTransferFailedError("alldebrid status check failed", err)
		}
		if status.Error != nil || len(status.Data.Magnets) == 0 {
			return stateFailed, nil
		}
		switch status.Data.Magnets[0].Status {
		case "Ready":
			return stateReady, nil
		case "Error", "Upload fail", "File too big", "Internal error":
			return stateFailed, nil
		}
		return statePending, nil
	})
	if err != nil {
		return nil, err
	}

	files := make([]transferFile, 0, len(status.Data.Magnets[0].Links))
	for i, link := range status.Data.Magnets[0].Links {
		files = append(files, transferFile{ID: strconv.Itoa(i), Name: link.Filename, Size: link.Size, Link: link.Link})
	}
	best, ok := pickPlayableFile(files)
	if !ok {
		return nil, errors.NewNoPlayableFileError(a.ID())
	}

	unlockURL := fmt.Sprintf("%s/link/unlock?agent=%s&apikey=%s&link=%s",
		a.baseURL, allDebridAgent, url.QueryEscape(token), url.QueryEscape(best.Link))
	var unlocked allDebridUnlockResponse
	if err := getJSON(ctx, a.httpClient, unlockURL, nil, &unlocked); err != nil {
		return nil, errors.NewNoDownloadURLError(a.ID())
	}
	if unlocked.Error != nil || unlocked.Data.Link == "" {
		return nil, errors.NewNoDownloadURLError(a.ID())
	}

	a.logger.Debugf("[AllDebrid] resolved %s in %d polls", infoHash, polls)
	return &models.PlaybackResult{URL: unlocked.Data.Link, Title: best.Name, Cached: magnet.Ready || polls == 1}, nil
}

func allDebridMessage(e *allDebridError, fallback string) string {
	if e != nil && e.Message != "" {
		return e.Message
	}
	return fallback
}
