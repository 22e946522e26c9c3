package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flixfinder/flixfinder/internal/config"
	"github.com/flixfinder/flixfinder/internal/constants"
	"github.com/flixfinder/flixfinder/internal/models"
	"github.com/flixfinder/flixfinder/internal/sources"
)

type fakeSource struct {
	name string
	hits []models.RawHit
	err  error
}

func (f *fakeSource) Name() string                   { return f.name }
func (f *fakeSource) Eligible(models.MediaType) bool { return true }
func (f *fakeSource) Search(context.Context, models.SearchQuery) ([]models.RawHit, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}

type panickySource struct{ name string }

func (p *panickySource) Name() string                   { return p.name }
func (p *panickySource) Eligible(models.MediaType) bool { return true }
func (p *panickySource) Search(context.Context, models.SearchQuery) ([]models.RawHit, error) {
	panic("scraper blew up")
}

func hit(title, hash, source string, seeders int) models.RawHit {
	return models.RawHit{
		Title:    title,
		Size:     1500000000,
		Seeders:  seeders,
		InfoHash: hash,
		Source:   source,
	}
}

func testQuery() models.SearchQuery {
	return models.SearchQuery{BaseID: "tt1", Title: "The Matrix", Year: 1999, MediaType: models.MediaTypeMovie}
}

func TestSearchAbsorbsSourceFailures(t *testing.T) {
	reg := &sources.Registry{}
	reg.Register(&fakeSource{name: constants.SourceKnaben, hits: []models.RawHit{
		hit("The.Matrix.1999.1080p", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", constants.SourceKnaben, 100),
	}})
	reg.Register(&fakeSource{name: constants.SourceApibay, err: errors.New("boom")})
	reg.Register(&panickySource{name: constants.SourceTorrentsCSV})

	out := New(reg).Search(context.Background(), testQuery(), &config.AggregationConfig{Sort: config.SortQualitySeeders})

	assert.Len(t, out, 1)
	assert.Equal(t, "The.Matrix.1999.1080p", out[0].TitleLine())
}

func TestSearchTotalFailureYieldsEmptyList(t *testing.T) {
	reg := &sources.Registry{}
	reg.Register(&fakeSource{name: constants.SourceKnaben, err: errors.New("down")})

	out := New(reg).Search(context.Background(), testQuery(), &config.AggregationConfig{Sort: config.SortQualitySeeders})
	assert.Empty(t, out)
}

func TestSearchDropsHitsWithoutHashOrMagnet(t *testing.T) {
	reg := &sources.Registry{}
	reg.Register(&fakeSource{name: constants.SourceKnaben, hits: []models.RawHit{
		{Title: "No.Hash.1080p", Source: constants.SourceKnaben},
		hit("Good.1080p", "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", constants.SourceKnaben, 1),
	}})

	out := New(reg).Search(context.Background(), testQuery(), &config.AggregationConfig{Sort: config.SortQualitySeeders})
	assert.Len(t, out, 1)
	assert.Equal(t, "Good.1080p", out[0].TitleLine())
}

func TestTruncateReservesNoisyQuota(t *testing.T) {
	var candidates []models.StreamCandidate
	for i := 0; i < 12; i++ {
		candidates = append(candidates, candidate(fmt.Sprintf("P%d", i), fmt.Sprintf("p%d", i), constants.SourceEZTV))
	}
	for i := 0; i < 6; i++ {
		candidates = append(candidates, candidate(fmt.Sprintf("N%d", i), fmt.Sprintf("n%d", i), constants.SourceLeetx))
	}

	out := truncate(candidates, 10)

	assert.Len(t, out, 10)
	noisy := 0
	for _, c := range out {
		if constants.NoisySources[c.Source] {
			noisy++
		}
	}
	// maxResults/5 capped at 2
	assert.Equal(t, 2, noisy)
}

func TestTruncateBackfillsWhenPrimaryShort(t *testing.T) {
	candidates := []models.StreamCandidate{
		candidate("P0", "p0", constants.SourceEZTV),
	}
	for i := 0; i < 8; i++ {
		candidates = append(candidates, candidate(fmt.Sprintf("N%d", i), fmt.Sprintf("n%d", i), constants.SourceTorrentGalaxy))
	}

	out := truncate(candidates, 5)

	assert.Len(t, out, 5)
	assert.Equal(t, constants.SourceEZTV, out[0].Source)
}

func TestTruncateNoopUnderLimit(t *testing.T) {
	candidates := []models.StreamCandidate{candidate("P0", "p0", constants.SourceEZTV)}
	assert.Len(t, truncate(candidates, 10), 1)
	assert.Len(t, truncate(candidates, 0), 1)
}
