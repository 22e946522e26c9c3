package pipeline

import (
	"github.com/flixfinder/flixfinder/internal/models"
	"github.com/flixfinder/flixfinder/internal/sources"
)

// interleave merges per-source lists round-robin: position i of the output
// takes the i-th item of each list in the given order, skipping lists that
// are exhausted. The lists must already be in source-priority order. This
// keeps one prolific source from occupying the whole head of the page.
func interleave(lists [][]models.StreamCandidate) []models.StreamCandidate {
	total := 0
	for _, l := range lists {
		total += len(l)
	}

	merged := make([]models.StreamCandidate, 0, total)
	for i := 0; len(merged) < total; i++ {
		for _, l := range lists {
			if i < len(l) {
				merged = append(merged, l[i])
			}
		}
	}
	return merged
}

// dedupByHash keeps exactly one candidate per info hash. The survivor sits
// at the position of the first occurrence but carries the representative
// from the highest-priority source reporting that hash.
func dedupByHash(merged []models.StreamCandidate) []models.StreamCandidate {
	seen := make(map[string]int, len(merged))
	out := make([]models.StreamCandidate, 0, len(merged))

	for _, c := range merged {
		at, ok := seen[c.InfoHash]
		if !ok {
			seen[c.InfoHash] = len(out)
			out = append(out, c)
			continue
		}
		if sources.Priority(c.Source) < sources.Priority(out[at].Source) {
			out[at] = c
		}
	}
	return out
}
