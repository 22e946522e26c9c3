package pipeline

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cehbz/torrentname"
	"github.com/dustin/go-humanize"

	"github.com/flixfinder/flixfinder/internal/config"
	"github.com/flixfinder/flixfinder/internal/constants"
	"github.com/flixfinder/flixfinder/internal/models"
)

// qualityTierRank maps each recognized tier token to its rank, best first
// in constants.QualityTiers so 2160p scores highest.
var qualityTierRank = map[string]int{}

func init() {
	for i, tier := range constants.QualityTiers {
		qualityTierRank[tier] = len(constants.QualityTiers) - i
	}
}

var seedersPattern = regexp.MustCompile(`S:(\d+)`)

type sortKey struct {
	tier    int
	seeders int
	bytes   uint64
}

// candidateSortKey derives the composite ranking key for one candidate.
// The quality tier comes from the parsed release name; seeders and bytes
// are read back out of the formatted meta line.
func candidateSortKey(c models.StreamCandidate) sortKey {
	key := sortKey{tier: qualityTier(c.TitleLine())}

	meta := c.MetaLine()
	if m := seedersPattern.FindStringSubmatch(meta); m != nil {
		key.seeders, _ = strconv.Atoi(m[1])
	}
	if sizeField, _, ok := strings.Cut(meta, " |"); ok {
		key.bytes, _ = humanize.ParseBytes(strings.TrimSpace(sizeField))
	}
	return key
}

func qualityTier(title string) int {
	if parsed := torrentname.Parse(title); parsed != nil {
		res := strings.ToLower(parsed.Resolution)
		if res == "4k" {
			res = "2160p"
		}
		if tier, ok := qualityTierRank[res]; ok {
			return tier
		}
	}
	// Fallback for names the release parser cannot classify.
	lower := strings.ToLower(title)
	for token, tier := range qualityTierRank {
		if strings.Contains(lower, token) {
			return tier
		}
	}
	if strings.Contains(lower, "4k") || strings.Contains(lower, "uhd") {
		return qualityTierRank["2160p"]
	}
	return 0
}

// components returns the key fields in the priority order implied by the
// sort mode, everything compared descending.
func (k sortKey) components(mode config.SortMode) [3]uint64 {
	switch mode {
	case config.SortQualitySize:
		return [3]uint64{uint64(k.tier), k.bytes, uint64(k.seeders)}
	case config.SortSeeders:
		return [3]uint64{uint64(k.seeders), uint64(k.tier), k.bytes}
	case config.SortSize:
		return [3]uint64{k.bytes, uint64(k.tier), uint64(k.seeders)}
	default: // quality_seeders
		return [3]uint64{uint64(k.tier), uint64(k.seeders), k.bytes}
	}
}

// sortCandidates orders candidates by the composite key implied by the
// sort mode. The sort is stable so the merged order breaks remaining ties.
func sortCandidates(candidates []models.StreamCandidate, mode config.SortMode) {
	type ranked struct {
		candidate models.StreamCandidate
		key       [3]uint64
	}
	items := make([]ranked, len(candidates))
	for i, c := range candidates {
		items[i] = ranked{c, candidateSortKey(c).components(mode)}
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].key, items[j].key
		for n := range a {
			if a[n] != b[n] {
				return a[n] > b[n]
			}
		}
		return false
	})

	for i, item := range items {
		candidates[i] = item.candidate
	}
}
