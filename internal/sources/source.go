// Package sources contains one adapter per torrent indexer. Each adapter
// takes a search query and returns raw hits in a common shape; everything
// indexer-specific stays behind the Source interface.
package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/flixfinder/flixfinder/internal/constants"
	"github.com/flixfinder/flixfinder/internal/models"
)

// Source is the adapter contract for a single indexer.
type Source interface {
	// Name returns the registry id of the source.
	Name() string
	// Eligible reports whether the source serves the given media type.
	Eligible(mediaType models.MediaType) bool
	// Search returns raw hits for the query. An error means the source is
	// unavailable; the caller treats it as an empty result.
	Search(ctx context.Context, q models.SearchQuery) ([]models.RawHit, error)
}

// Registry holds all known sources in priority order.
type Registry struct {
	ordered []Source
}

// NewRegistry creates a registry with the default source set.
func NewRegistry() *Registry {
	r := &Registry{}
	for _, s := range []Source{
		NewEZTV(),
		NewNyaa(),
		NewKnaben(),
		NewApibay(),
		NewTorrentsCSV(),
		NewLeetx(),
		NewTorrentGalaxy(),
	} {
		r.Register(s)
	}
	return r
}

// Register inserts s keeping the registry sorted by priority rank.
func (r *Registry) Register(s Source) {
	rank := Priority(s.Name())
	for i, existing := range r.ordered {
		if Priority(existing.Name()) > rank {
			r.ordered = append(r.ordered[:i], append([]Source{s}, r.ordered[i:]...)...)
			return
		}
	}
	r.ordered = append(r.ordered, s)
}

// Enabled returns the sources eligible for mediaType, restricted to the
// enabled set when non-empty and preserving priority order. Unknown names
// in enabled are ignored.
func (r *Registry) Enabled(enabled []string, mediaType models.MediaType) []Source {
	allow := map[string]bool{}
	for _, name := range enabled {
		allow[strings.ToLower(name)] = true
	}

	var selected []Source
	for _, s := range r.ordered {
		if !s.Eligible(mediaType) {
			continue
		}
		if len(allow) > 0 && !allow[s.Name()] {
			continue
		}
		selected = append(selected, s)
	}
	return selected
}

// All returns every registered source in priority order.
func (r *Registry) All() []Source {
	return r.ordered
}

// Priority returns the dedup/merge rank of a source name; unknown sources
// rank last.
func Priority(name string) int {
	if rank, ok := constants.SourcePriority[name]; ok {
		return rank
	}
	return len(constants.SourcePriority)
}

// QueryString builds the search string for a query: title plus year for
// movies, a zero-padded SxxExx for series with a known season/episode, or
// Exx when only the episode is known (the anime convention).
func QueryString(q models.SearchQuery) string {
	switch {
	case q.MediaType == models.MediaTypeMovie && q.Year > 0:
		return fmt.Sprintf("%s %d", q.Title, q.Year)
	case q.HasEpisode():
		return fmt.Sprintf("%s S%02dE%02d", q.Title, q.Season, q.Episode)
	case q.Episode > 0:
		return fmt.Sprintf("%s E%02d", q.Title, q.Episode)
	case q.Season > 0:
		return fmt.Sprintf("%s S%02d", q.Title, q.Season)
	default:
		return q.Title
	}
}
