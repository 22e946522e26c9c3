package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flixfinder/flixfinder/internal/constants"
	"github.com/flixfinder/flixfinder/internal/models"
)

func TestRegistryOrderedByPriority(t *testing.T) {
	r := NewRegistry()

	var names []string
	for _, s := range r.All() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{
		constants.SourceEZTV,
		constants.SourceNyaa,
		constants.SourceKnaben,
		constants.SourceApibay,
		constants.SourceTorrentsCSV,
		constants.SourceLeetx,
		constants.SourceTorrentGalaxy,
	}, names)
}

func TestEnabledEligibility(t *testing.T) {
	r := NewRegistry()

	var movieNames []string
	for _, s := range r.Enabled(nil, models.MediaTypeMovie) {
		movieNames = append(movieNames, s.Name())
	}
	// eztv and nyaa do not serve movies
	assert.NotContains(t, movieNames, constants.SourceEZTV)
	assert.NotContains(t, movieNames, constants.SourceNyaa)
	assert.Contains(t, movieNames, constants.SourceKnaben)

	var animeNames []string
	for _, s := range r.Enabled(nil, models.MediaTypeAnime) {
		animeNames = append(animeNames, s.Name())
	}
	assert.Contains(t, animeNames, constants.SourceNyaa)
	assert.Contains(t, animeNames, constants.SourceEZTV)

	var seriesNames []string
	for _, s := range r.Enabled(nil, models.MediaTypeSeries) {
		seriesNames = append(seriesNames, s.Name())
	}
	assert.Contains(t, seriesNames, constants.SourceEZTV)
	assert.NotContains(t, seriesNames, constants.SourceNyaa)
}

func TestEnabledIntersection(t *testing.T) {
	r := NewRegistry()

	selected := r.Enabled([]string{constants.SourceKnaben, "unknown"}, models.MediaTypeMovie)
	assert.Len(t, selected, 1)
	assert.Equal(t, constants.SourceKnaben, selected[0].Name())
}

func TestQueryString(t *testing.T) {
	tests := []struct {
		name     string
		query    models.SearchQuery
		expected string
	}{
		{"movie with year", models.SearchQuery{Title: "The Matrix", Year: 1999, MediaType: models.MediaTypeMovie}, "The Matrix 1999"},
		{"series episode", models.SearchQuery{Title: "Show", Season: 1, Episode: 2, MediaType: models.MediaTypeSeries}, "Show S01E02"},
		{"anime episode only", models.SearchQuery{Title: "Anime", Episode: 5, MediaType: models.MediaTypeAnime}, "Anime E05"},
		{"season only", models.SearchQuery{Title: "Show", Season: 3, MediaType: models.MediaTypeSeries}, "Show S03"},
		{"bare title", models.SearchQuery{Title: "Show", MediaType: models.MediaTypeSeries}, "Show"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, QueryString(tt.query))
		})
	}
}
