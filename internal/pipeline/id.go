// Package pipeline turns a parsed stream request into an ordered list of
// stream candidates: concurrent indexer fan-out, normalization, merge,
// dedup, filtering, sorting and truncation.
package pipeline

import (
	"strconv"
	"strings"

	"github.com/flixfinder/flixfinder/internal/errors"
	"github.com/flixfinder/flixfinder/internal/models"
)

// ParseStreamID decodes a Stremio content id into a SearchQuery skeleton.
// Supported forms: "tt123" (movie or series), "tt123:1:2" (series with
// season and episode) and "kitsu:123:5" (anime, episode only). The title
// and year are filled in later from metadata.
func ParseStreamID(id string, typeHint models.MediaType) (models.SearchQuery, error) {
	id = strings.TrimSuffix(id, ".json")

	if rest, ok := strings.CutPrefix(id, "kitsu:"); ok {
		parts := strings.Split(rest, ":")
		if parts[0] == "" {
			return models.SearchQuery{}, errors.NewInvalidIDError(id)
		}
		q := models.SearchQuery{
			BaseID:    "kitsu:" + parts[0],
			MediaType: models.MediaTypeAnime,
		}
		if len(parts) > 1 {
			ep, err := strconv.Atoi(parts[1])
			if err != nil || ep <= 0 {
				return models.SearchQuery{}, errors.NewInvalidIDError(id)
			}
			q.Episode = ep
		}
		return q, nil
	}

	if !strings.HasPrefix(id, "tt") {
		return models.SearchQuery{}, errors.NewInvalidIDError(id)
	}

	parts := strings.Split(id, ":")
	q := models.SearchQuery{BaseID: parts[0], MediaType: typeHint}
	if q.MediaType == "" {
		q.MediaType = models.MediaTypeMovie
	}

	switch len(parts) {
	case 1:
		return q, nil
	case 3:
		season, err1 := strconv.Atoi(parts[1])
		episode, err2 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || season <= 0 || episode <= 0 {
			return models.SearchQuery{}, errors.NewInvalidIDError(id)
		}
		q.Season = season
		q.Episode = episode
		if q.MediaType == models.MediaTypeMovie {
			q.MediaType = models.MediaTypeSeries
		}
		return q, nil
	default:
		return models.SearchQuery{}, errors.NewInvalidIDError(id)
	}
}
