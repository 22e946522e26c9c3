package metadata

import (
	"strings"

	"github.com/flixfinder/flixfinder/internal/models"
)

// IsAnime classifies a title as anime from its genre/country hints:
// an explicit "anime" genre, or "animation" with a Japanese country.
func IsAnime(meta *models.Meta) bool {
	if meta == nil {
		return false
	}

	animation := false
	for _, genre := range meta.Genres {
		switch {
		case strings.Contains(strings.ToLower(genre), "anime"):
			return true
		case strings.EqualFold(genre, "animation"):
			animation = true
		}
	}
	return animation && isJapan(meta.Country)
}

func isJapan(country string) bool {
	c := strings.ToLower(strings.TrimSpace(country))
	return c == "jp" || c == "jpn" || strings.Contains(c, "japan")
}
