package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flixfinder/flixfinder/internal/config"
	"github.com/flixfinder/flixfinder/internal/models"
)

func tagged(release, size string, seeders int) models.StreamCandidate {
	return models.StreamCandidate{
		Title:    fmt.Sprintf("%s\n%s | S:%d | eztv", release, size, seeders),
		InfoHash: fmt.Sprintf("%040d", seeders),
	}
}

func TestSortQualitySeeders(t *testing.T) {
	candidates := []models.StreamCandidate{
		{Title: "Movie.1080p.WEB\n2.0 GB | S:50 | eztv", InfoHash: "c"},
		{Title: "Movie.720p.WEB\n1.0 GB | S:1000 | eztv", InfoHash: "d"},
		{Title: "Movie.2160p.WEB\n8.0 GB | S:10 | eztv", InfoHash: "a"},
		{Title: "Movie.1080p.BluRay\n4.0 GB | S:500 | eztv", InfoHash: "b"},
	}

	sortCandidates(candidates, config.SortQualitySeeders)

	var order []string
	for _, c := range candidates {
		order = append(order, c.InfoHash)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, order)
}

func TestSortSeeders(t *testing.T) {
	candidates := []models.StreamCandidate{
		tagged("Movie.2160p", "8.0 GB", 10),
		tagged("Movie.720p", "1.0 GB", 1000),
	}

	sortCandidates(candidates, config.SortSeeders)

	assert.Contains(t, candidates[0].TitleLine(), "720p")
}

func TestSortSizeParsesMetaLine(t *testing.T) {
	candidates := []models.StreamCandidate{
		{Title: "Movie.A\n700 MB | S:5 | eztv", InfoHash: "small"},
		{Title: "Movie.B\n4.2 GB | S:5 | eztv", InfoHash: "big"},
	}

	sortCandidates(candidates, config.SortSize)

	assert.Equal(t, "big", candidates[0].InfoHash)
}

func TestQualityTier(t *testing.T) {
	assert.Equal(t, 4, qualityTier("Movie.2160p.WEB"))
	assert.Equal(t, 4, qualityTier("Movie.4K.HDR.BluRay"))
	assert.Equal(t, 3, qualityTier("Movie.1080p.WEB"))
	assert.Equal(t, 2, qualityTier("Movie.720p.HDTV"))
	assert.Equal(t, 1, qualityTier("Movie.480p.DVDRip"))
	assert.Equal(t, 0, qualityTier("Movie.DVDSCR"))
}
