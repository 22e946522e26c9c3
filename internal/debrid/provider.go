// Package debrid implements the resolution engine: it turns an info hash
// into a directly playable HTTP URL through one of the supported debrid
// services, driving each service's submit, poll, select-file and unlock
// protocol.
package debrid

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/flixfinder/flixfinder/internal/errors"
	"github.com/flixfinder/flixfinder/internal/models"
)

// Provider is one debrid service adapter.
type Provider interface {
	// ID returns the provider id used in configuration and URLs.
	ID() string
	// Resolve turns an info hash into a playable URL, blocking through the
	// service's transfer polling. Failures are always *errors.ResolutionError.
	Resolve(ctx context.Context, infoHash, token string) (*models.PlaybackResult, error)
}

// transferState is the provider-neutral classification of a transfer.
// Every service-specific status string maps onto one of these three.
type transferState int

const (
	statePending transferState = iota
	stateReady
	stateFailed
)

// transferFile is a provider-neutral view of one file inside a transfer.
type transferFile struct {
	ID   string
	Name string
	Size int64
	Link string
}

// videoExtensions is the playable-file allow list.
var videoExtensions = map[string]bool{
	".mkv":  true,
	".mp4":  true,
	".avi":  true,
	".mov":  true,
	".m4v":  true,
	".wmv":  true,
	".ts":   true,
	".m2ts": true,
	".webm": true,
}

// magnetFor synthesizes a minimal magnet URI for an info hash.
func magnetFor(infoHash string) string {
	return fmt.Sprintf("magnet:?xt=urn:btih:%s", infoHash)
}

// pollUntilReady calls check once per attempt until it reports ready, up to
// budget attempts with a fixed sleep between them. It returns the number of
// polls performed. A transfer still pending when the budget runs out yields
// a NotReady error; a failed transfer yields TransferFailed.
func pollUntilReady(ctx context.Context, provider string, budget int, interval time.Duration, check func(ctx context.Context) (transferState, error)) (int, error) {
	for attempt := 1; attempt <= budget; attempt++ {
		state, err := check(ctx)
		if err != nil {
			return attempt, err
		}
		switch state {
		case stateReady:
			return attempt, nil
		case stateFailed:
			return attempt, errors.NewTransferFailedError(
				fmt.Sprintf("%s transfer failed", provider), nil)
		}
		if attempt == budget {
			break
		}
		select {
		case <-ctx.Done():
			return attempt, errors.NewNotReadyError(provider, attempt)
		case <-time.After(interval):
		}
	}
	return budget, errors.NewNotReadyError(provider, budget)
}

// pickPlayableFile selects the largest file with a known video extension,
// falling back to the largest file overall. It fails only on an empty list.
func pickPlayableFile(files []transferFile) (transferFile, bool) {
	var best, bestVideo transferFile
	var haveAny, haveVideo bool

	for _, f := range files {
		if !haveAny || f.Size > best.Size {
			best = f
			haveAny = true
		}
		if videoExtensions[strings.ToLower(filepath.Ext(f.Name))] {
			if !haveVideo || f.Size > bestVideo.Size {
				bestVideo = f
				haveVideo = true
			}
		}
	}

	if haveVideo {
		return bestVideo, true
	}
	return best, haveAny
}
