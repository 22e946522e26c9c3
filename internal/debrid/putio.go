package debrid

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/flixfinder/flixfinder/internal/constants"
	"github.com/flixfinder/flixfinder/internal/errors"
	"github.com/flixfinder/flixfinder/internal/models"
	"github.com/flixfinder/flixfinder/pkg/httputil"
	"github.com/flixfinder/flixfinder/pkg/logger"
)

const (
	putioBaseURL    = "https://api.put.io/v2"
	putioPollBudget = 25
)

// Putio drives the put.io transfers API. Unlike the pure debrid services
// put.io lands transfers in a real file tree, so resolution walks the
// finished transfer's folder to pick the playable file.
type Putio struct {
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
	logger       logger.Logger
}

func NewPutio() *Putio {
	return &Putio{
		baseURL:      putioBaseURL,
		httpClient:   httputil.NewHTTPClient(30 * time.Second),
		pollInterval: constants.DebridPollInterval,
		logger:       logger.New(),
	}
}

func (p *Putio) ID() string { return constants.ProviderPutio }

func (p *Putio) SetBaseURL(u string)             { p.baseURL = u }
func (p *Putio) SetPollInterval(d time.Duration) { p.pollInterval = d }

type putioTransfer struct {
	ID         int64  `json:"id"`
	Status     string `json:"status"`
	FileID     int64  `json:"file_id"`
	ErrorMsg   string `json:"error_message"`
	SourceHash string `json:"hash"`
}

type putioTransferResponse struct {
	Transfer putioTransfer `json:"transfer"`
	Status   string        `json:"status"`
}

type putioTransferListResponse struct {
	Transfers []putioTransfer `json:"transfers"`
}

type putioFile struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	FileType    string `json:"file_type"`
	ContentType string `json:"content_type"`
}

type putioFilesResponse struct {
	Files  []putioFile `json:"files"`
	Parent putioFile   `json:"parent"`
}

type putioURLResponse struct {
	URL string `json:"url"`
}

func (p *Putio) Resolve(ctx context.Context, infoHash, token string) (*models.PlaybackResult, error) {
	headers := bearer(token)

	transferID, reused, err := p.locateOrCreate(ctx, infoHash, headers)
	if err != nil {
		return nil, err
	}

	var fileID int64
	polls, err := pollUntilReady(ctx, p.ID(), putioPollBudget, p.pollInterval, func(ctx context.Context) (transferState, error) {
		var resp putioTransferResponse
		statusURL := fmt.Sprintf("%s/transfers/%d", p.baseURL, transferID)
		if err := getJSON(ctx, p.httpClient, statusURL, headers, &resp); err != nil {
			return statePending, errors.NewTransferFailedError("put.io status check failed", err)
		}
		switch resp.Transfer.Status {
		case "COMPLETED", "SEEDING":
			fileID = resp.Transfer.FileID
			return stateReady, nil
		case "ERROR":
			return stateFailed, nil
		}
		return statePending, nil
	})
	if err != nil {
		return nil, err
	}

	best, err := p.pickFile(ctx, fileID, headers)
	if err != nil {
		return nil, err
	}

	var dl putioURLResponse
	dlURL := fmt.Sprintf("%s/files/%s/url", p.baseURL, best.ID)
	if err := getJSON(ctx, p.httpClient, dlURL, headers, &dl); err != nil {
		return nil, errors.NewNoDownloadURLError(p.ID())
	}
	if dl.URL == "" {
		return nil, errors.NewNoDownloadURLError(p.ID())
	}

	p.logger.Debugf("[Putio] resolved %s in %d polls (reused=%t)", infoHash, polls, reused)
	return &models.PlaybackResult{URL: dl.URL, Title: best.Name, Cached: reused || polls == 1}, nil
}

func (p *Putio) locateOrCreate(ctx context.Context, infoHash string, headers map[string]string) (int64, bool, error) {
	var list putioTransferListResponse
	if err := getJSON(ctx, p.httpClient, p.baseURL+"/transfers/list", headers, &list); err == nil {
		for _, t := range list.Transfers {
			if strings.EqualFold(t.SourceHash, infoHash) {
				return t.ID, true, nil
			}
		}
	}

	form := url.Values{"url": {magnetFor(infoHash)}}
	var created putioTransferResponse
	if err := postForm(ctx, p.httpClient, p.baseURL+"/transfers/add", headers, form, &created); err != nil {
		return 0, false, errors.NewTransferFailedError("put.io transfer submission failed", err)
	}
	if created.Transfer.ID == 0 {
		return 0, false, errors.NewTransferFailedError("put.io rejected the magnet", nil)
	}
	return created.Transfer.ID, false, nil
}

// putioMaxListings bounds the folder walk; transfers never nest deeper in
// practice and a cycle in the listing must not hang a resolution.
const putioMaxListings = 10

// pickFile resolves the transfer's root file id to a playable file. A
// single-file transfer points straight at the file; a folder transfer is
// walked recursively since releases often nest episodes in season folders.
func (p *Putio) pickFile(ctx context.Context, rootID int64, headers map[string]string) (transferFile, error) {
	files, err := p.collectFiles(ctx, rootID, headers)
	if err != nil {
		return transferFile{}, err
	}
	best, ok := pickPlayableFile(files)
	if !ok {
		return transferFile{}, errors.NewNoPlayableFileError(p.ID())
	}
	return best, nil
}

// collectFiles gathers every file under rootID, descending into FOLDER
// entries with a stack. Folders themselves are never candidates.
func (p *Putio) collectFiles(ctx context.Context, rootID int64, headers map[string]string) ([]transferFile, error) {
	stack := []int64{rootID}
	var files []transferFile

	for listings := 0; len(stack) > 0 && listings < putioMaxListings; listings++ {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		listURL := fmt.Sprintf("%s/files/list?parent_id=%d", p.baseURL, id)
		var listing putioFilesResponse
		if err := getJSON(ctx, p.httpClient, listURL, headers, &listing); err != nil {
			return nil, errors.NewNoPlayableFileError(p.ID())
		}

		// Listing a plain file returns it as the parent with no children.
		if len(listing.Files) == 0 && id == rootID && listing.Parent.ID != 0 && listing.Parent.FileType != "FOLDER" {
			return []transferFile{{
				ID:   strconv.FormatInt(listing.Parent.ID, 10),
				Name: listing.Parent.Name,
				Size: listing.Parent.Size,
			}}, nil
		}

		for _, f := range listing.Files {
			if f.FileType == "FOLDER" {
				stack = append(stack, f.ID)
				continue
			}
			files = append(files, transferFile{ID: strconv.FormatInt(f.ID, 10), Name: f.Name, Size: f.Size})
		}
	}
	return files, nil
}
