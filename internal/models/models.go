// Package models defines the data types flowing through the aggregation
// pipeline and the resolution engine.
package models

import "strings"

// MediaType classifies the content being searched.
type MediaType string

const (
	MediaTypeMovie  MediaType = "movie"
	MediaTypeSeries MediaType = "series"
	MediaTypeAnime  MediaType = "anime"
)

// SearchQuery is derived once per request and treated as immutable.
type SearchQuery struct {
	BaseID    string
	Title     string
	Year      int
	Season    int
	Episode   int
	MediaType MediaType
}

// HasEpisode reports whether both season and episode are known.
func (q SearchQuery) HasEpisode() bool {
	return q.Season > 0 && q.Episode > 0
}

// RawHit is an indexer-native record. It only lives through normalization.
type RawHit struct {
	Title     string
	Size      int64
	Seeders   int
	InfoHash  string // hex or base32, any case
	MagnetURI string
	Source    string
}

// StreamCandidate is the canonical unit flowing through the pipeline.
// Candidates are value records: the pipeline filters, reorders and dedups
// them but never mutates fields in place. InfoHash, when present, is always
// 40 lower-case hex characters.
type StreamCandidate struct {
	Name     string `json:"name,omitempty"`
	Title    string `json:"title,omitempty"` // "<release>\n<size> | S:<seeders> | <source>"
	InfoHash string `json:"infoHash,omitempty"`
	URL      string `json:"url,omitempty"`
	Source   string `json:"-"`
}

// TitleLine returns the release-name line of the two-line title.
func (c StreamCandidate) TitleLine() string {
	if i := strings.IndexByte(c.Title, '\n'); i >= 0 {
		return c.Title[:i]
	}
	return c.Title
}

// MetaLine returns the "<size> | S:<seeders> | <source>" summary line.
func (c StreamCandidate) MetaLine() string {
	if i := strings.IndexByte(c.Title, '\n'); i >= 0 {
		return c.Title[i+1:]
	}
	return ""
}

// PlaybackResult is the terminal output of a successful resolution.
// Cached marks content the provider already had ready, with no fetch delay.
type PlaybackResult struct {
	URL    string
	Title  string
	Cached bool
}

// Meta is the metadata collaborator's view of a title.
type Meta struct {
	ID      string
	Name    string
	Year    int
	Genres  []string
	Country string
}
