package debrid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flixfinder/flixfinder/internal/constants"
	"github.com/flixfinder/flixfinder/internal/errors"
	"github.com/flixfinder/flixfinder/internal/models"
)

// stubProvider resolves only the hashes listed in urls.
type stubProvider struct {
	id   string
	urls map[string]string
}

func (s *stubProvider) ID() string { return s.id }

func (s *stubProvider) Resolve(_ context.Context, infoHash, _ string) (*models.PlaybackResult, error) {
	if url, ok := s.urls[infoHash]; ok {
		return &models.PlaybackResult{URL: url, Cached: true}, nil
	}
	return nil, errors.NewNotReadyError(s.id, 3)
}

func stubEngine(urls map[string]string) *Engine {
	e := NewEngine()
	e.Register(&stubProvider{id: constants.ProviderRealDebrid, urls: urls})
	return e
}

func page(hashes ...string) []models.StreamCandidate {
	var out []models.StreamCandidate
	for _, h := range hashes {
		out = append(out, models.StreamCandidate{
			Name:     constants.AddonName,
			Title:    h + "\n1.5 GB | S:10 | eztv",
			InfoHash: h,
			Source:   constants.SourceEZTV,
		})
	}
	return out
}

func TestResolveUnknownProvider(t *testing.T) {
	e := NewEngine()
	_, err := e.Resolve(context.Background(), "nosuch", "hash", "token")
	assert.True(t, errors.IsKind(err, errors.KindProviderUnsupported))
}

func TestResolveMissingToken(t *testing.T) {
	e := NewEngine()
	_, err := e.Resolve(context.Background(), constants.ProviderRealDebrid, "hash", "")
	assert.True(t, errors.IsKind(err, errors.KindProviderUnsupported))
}

func TestResolveBatchPartialSuccess(t *testing.T) {
	e := stubEngine(map[string]string{
		"h3": "https://cdn.example/h3.mkv",
		"h5": "https://cdn.example/h5.mkv",
	})

	out := e.ResolveBatch(context.Background(), constants.ProviderRealDebrid, "token",
		page("h1", "h2", "h3", "h4", "h5"))

	// Only the resolved entries survive; the three failures are dropped.
	require.Len(t, out, 2)
	assert.Equal(t, "https://cdn.example/h3.mkv", out[0].URL)
	assert.Equal(t, "https://cdn.example/h5.mkv", out[1].URL)
	assert.Empty(t, out[0].InfoHash)
	assert.Contains(t, out[0].Name, "[RD+]")
}

func TestResolveBatchTotalFailure(t *testing.T) {
	e := stubEngine(nil)
	original := page("h1", "h2", "h3", "h4", "h5")

	out := e.ResolveBatch(context.Background(), constants.ProviderRealDebrid, "token", original)

	// One synthesized error entry plus the five original candidates.
	require.Len(t, out, 6)
	assert.Equal(t, constants.ProviderHomeURLs[constants.ProviderRealDebrid], out[0].URL)
	assert.Contains(t, out[0].Title, "resolution failed")
	for i, c := range out[1:] {
		assert.Equal(t, original[i].InfoHash, c.InfoHash)
	}
}

func TestResolveBatchUnsupportedProviderPassesThrough(t *testing.T) {
	e := NewEngine()
	original := page("h1", "h2")

	out := e.ResolveBatch(context.Background(), "nosuch", "token", original)
	assert.Equal(t, original, out)

	out = e.ResolveBatch(context.Background(), constants.ProviderRealDebrid, "", original)
	assert.Equal(t, original, out)
}

func TestResolveBatchEmptyPage(t *testing.T) {
	e := stubEngine(nil)
	out := e.ResolveBatch(context.Background(), constants.ProviderRealDebrid, "token", nil)
	assert.Empty(t, out)
}
