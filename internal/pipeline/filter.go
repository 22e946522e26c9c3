package pipeline

import (
	"strings"

	"github.com/flixfinder/flixfinder/internal/models"
)

// filterEpisode drops candidates that do not name the exact wanted episode.
// Anime queries use the season-less matcher. Queries without episode
// information pass everything through.
func filterEpisode(candidates []models.StreamCandidate, q models.SearchQuery) []models.StreamCandidate {
	if q.Episode <= 0 {
		return candidates
	}

	out := candidates[:0:0]
	for _, c := range candidates {
		title := c.TitleLine()
		if q.MediaType == models.MediaTypeAnime {
			// Anime releases mostly skip the season token, but accept the
			// SxxExx spelling too when the season is known.
			if isAnimeEpisodeMatch(title, q.Episode) ||
				(q.HasEpisode() && isExactEpisodeMatch(title, q.Season, q.Episode)) {
				out = append(out, c)
			}
			continue
		}
		if isExactEpisodeMatch(title, q.Season, q.Episode) {
			out = append(out, c)
		}
	}
	return out
}

// filterQuality keeps candidates whose title line contains at least one of
// the allowed quality tokens. An empty allow list disables the filter.
func filterQuality(candidates []models.StreamCandidate, qualities []string) []models.StreamCandidate {
	if len(qualities) == 0 {
		return candidates
	}

	out := candidates[:0:0]
	for _, c := range candidates {
		title := strings.ToLower(c.TitleLine())
		for _, quality := range qualities {
			if strings.Contains(title, strings.ToLower(quality)) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// filterKeywords applies include terms as an AND filter and exclude terms
// as a NOT-OR filter, both case-insensitive substring matches on the title
// line.
func filterKeywords(candidates []models.StreamCandidate, include, exclude []string) []models.StreamCandidate {
	if len(include) == 0 && len(exclude) == 0 {
		return candidates
	}

	out := candidates[:0:0]
candidates:
	for _, c := range candidates {
		title := strings.ToLower(c.TitleLine())
		for _, kw := range include {
			if !strings.Contains(title, strings.ToLower(kw)) {
				continue candidates
			}
		}
		for _, kw := range exclude {
			if strings.Contains(title, strings.ToLower(kw)) {
				continue candidates
			}
		}
		out = append(out, c)
	}
	return out
}
