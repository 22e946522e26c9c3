package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExactEpisodeMatch(t *testing.T) {
	tests := []struct {
		title    string
		season   int
		episode  int
		expected bool
	}{
		{"Show.S01E01.1080p", 1, 1, true},
		{"Show S01E01 1080p", 1, 1, true},
		{"Show.1x01.720p", 1, 1, true},
		{"Show Season 1 Episode 1", 1, 1, true},
		{"show.s01e01.webrip", 1, 1, true},
		{"Show.S1E1.1080p", 1, 1, true},

		// Wrong season or episode
		{"Show.S02E01.1080p", 1, 1, false},
		{"Show.S01E02.1080p", 1, 1, false},
		{"Show.2x01.720p", 1, 1, false},

		// Range packs are rejected even when the range starts at the
		// wanted episode
		{"Show.S01E01-E03.1080p", 1, 1, false},
		{"Show.S01E01-03.1080p", 1, 1, false},
		{"Show.1x01-03.720p", 1, 1, false},

		// No episode token at all
		{"Show.Complete.1080p", 1, 1, false},
		{"Show.Season.1.1080p", 1, 1, false},

		// Season/episode above nine with and without padding
		{"Show.S10E12.1080p", 10, 12, true},
		{"Show.S10E12.1080p", 10, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.expected, isExactEpisodeMatch(tt.title, tt.season, tt.episode))
		})
	}
}

func TestAnimeEpisodeMatch(t *testing.T) {
	tests := []struct {
		title    string
		episode  int
		expected bool
	}{
		{"[Group] Anime Title - 05 [1080p]", 5, true},
		{"[Group] Anime Title E05 [1080p]", 5, true},
		{"Anime Title Episode 5", 5, true},
		{"Anime Title EP05", 5, true},

		{"[Group] Anime Title - 06 [1080p]", 5, false},
		{"[Group] Anime Title - 01-26 [Batch]", 5, false},
		{"Anime Title E01-E26", 5, false},
		{"Anime Title Complete", 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.expected, isAnimeEpisodeMatch(tt.title, tt.episode))
		})
	}
}
