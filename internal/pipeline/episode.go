package pipeline

import (
	"fmt"
	"regexp"
)

// Range packs bundle several episodes in one torrent and must be rejected
// even when the range starts at the wanted episode.
var (
	rangeSeasonPattern = regexp.MustCompile(`(?i)s\d{1,2}[ ._]?e\d{1,3}[ ._]?-[ ._]?e?\d{1,3}`)
	rangeCrossPattern  = regexp.MustCompile(`(?i)\b\d{1,2}x\d{2,3}[ ._]?-[ ._]?\d{2,3}\b`)
	rangeBatchPattern  = regexp.MustCompile(`(?i)\b(?:e|ep[ ._]?)?\d{1,3}[ ._]?-[ ._]?(?:e|ep[ ._]?)?\d{1,3}\b`)
)

// isExactEpisodeMatch reports whether the release title names exactly the
// wanted season/episode. It tolerates SxxExx, NxNN and "Season N Episode N"
// spellings with dot, space or underscore separators, and rejects
// multi-episode range packs outright.
func isExactEpisodeMatch(title string, season, episode int) bool {
	if rangeSeasonPattern.MatchString(title) || rangeCrossPattern.MatchString(title) {
		return false
	}

	patterns := []string{
		fmt.Sprintf(`(?i)\bs0*%d[ ._]?e0*%d\b`, season, episode),
		fmt.Sprintf(`(?i)\b%dx0*%d\b`, season, episode),
		fmt.Sprintf(`(?i)\bseason[ ._]+0*%d[ ._]+episode[ ._]+0*%d\b`, season, episode),
	}
	for _, p := range patterns {
		if regexp.MustCompile(p).MatchString(title) {
			return true
		}
	}
	return false
}

// isAnimeEpisodeMatch is the season-less variant: anime releases are
// commonly named "Title - 05" or "Title E05" with no season token.
func isAnimeEpisodeMatch(title string, episode int) bool {
	if rangeBatchPattern.MatchString(title) {
		return false
	}

	patterns := []string{
		fmt.Sprintf(`(?i)\be(?:p[ ._]?|pisode[ ._]?)?0*%d\b`, episode),
		fmt.Sprintf(`\b%02d\b`, episode),
	}
	for _, p := range patterns {
		if regexp.MustCompile(p).MatchString(title) {
			return true
		}
	}
	return false
}
