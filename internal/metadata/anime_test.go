package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flixfinder/flixfinder/internal/models"
)

func TestIsAnime(t *testing.T) {
	tests := []struct {
		name     string
		meta     *models.Meta
		expected bool
	}{
		{"nil meta", nil, false},
		{"anime genre", &models.Meta{Genres: []string{"Anime"}}, true},
		{"anime genre any country", &models.Meta{Genres: []string{"anime"}, Country: "US"}, true},
		{"animation from japan", &models.Meta{Genres: []string{"Animation"}, Country: "Japan"}, true},
		{"animation with jp code", &models.Meta{Genres: []string{"Animation"}, Country: "JP"}, true},
		{"western animation", &models.Meta{Genres: []string{"Animation"}, Country: "US"}, false},
		{"animation no country", &models.Meta{Genres: []string{"Animation"}}, false},
		{"live action from japan", &models.Meta{Genres: []string{"Drama"}, Country: "Japan"}, false},
		{"no genres", &models.Meta{Country: "Japan"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsAnime(tt.meta))
		})
	}
}
