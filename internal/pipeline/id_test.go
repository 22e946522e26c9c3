package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flixfinder/flixfinder/internal/models"
)

func TestParseStreamIDMovie(t *testing.T) {
	q, err := ParseStreamID("tt0133093", models.MediaTypeMovie)
	require.NoError(t, err)
	assert.Equal(t, "tt0133093", q.BaseID)
	assert.Equal(t, models.MediaTypeMovie, q.MediaType)
	assert.Zero(t, q.Season)
	assert.Zero(t, q.Episode)
}

func TestParseStreamIDSeries(t *testing.T) {
	q, err := ParseStreamID("tt0944947:3:9", models.MediaTypeSeries)
	require.NoError(t, err)
	assert.Equal(t, "tt0944947", q.BaseID)
	assert.Equal(t, models.MediaTypeSeries, q.MediaType)
	assert.Equal(t, 3, q.Season)
	assert.Equal(t, 9, q.Episode)
}

func TestParseStreamIDSeriesUpgradesMovieHint(t *testing.T) {
	q, err := ParseStreamID("tt0944947:1:1", models.MediaTypeMovie)
	require.NoError(t, err)
	assert.Equal(t, models.MediaTypeSeries, q.MediaType)
}

func TestParseStreamIDKitsu(t *testing.T) {
	q, err := ParseStreamID("kitsu:44042:5", models.MediaTypeSeries)
	require.NoError(t, err)
	assert.Equal(t, "kitsu:44042", q.BaseID)
	assert.Equal(t, models.MediaTypeAnime, q.MediaType)
	assert.Zero(t, q.Season)
	assert.Equal(t, 5, q.Episode)
}

func TestParseStreamIDStripsJSONSuffix(t *testing.T) {
	q, err := ParseStreamID("tt0133093.json", models.MediaTypeMovie)
	require.NoError(t, err)
	assert.Equal(t, "tt0133093", q.BaseID)
}

func TestParseStreamIDInvalid(t *testing.T) {
	for _, id := range []string{"", "0133093", "tt1:x:2", "tt1:1", "tt1:0:1", "kitsu:", "kitsu:1:abc"} {
		_, err := ParseStreamID(id, models.MediaTypeMovie)
		assert.Error(t, err, "id %q should be rejected", id)
	}
}
