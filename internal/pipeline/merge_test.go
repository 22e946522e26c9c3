package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flixfinder/flixfinder/internal/constants"
	"github.com/flixfinder/flixfinder/internal/models"
)

func candidate(name, hash, source string) models.StreamCandidate {
	return models.StreamCandidate{
		Name:     constants.AddonName,
		Title:    name + "\n1.5 GB | S:10 | " + source,
		InfoHash: hash,
		Source:   source,
	}
}

func TestInterleaveRoundRobin(t *testing.T) {
	a := []models.StreamCandidate{
		candidate("A1", "a1", constants.SourceEZTV),
		candidate("A2", "a2", constants.SourceEZTV),
		candidate("A3", "a3", constants.SourceEZTV),
	}
	b := []models.StreamCandidate{
		candidate("B1", "b1", constants.SourceKnaben),
		candidate("B2", "b2", constants.SourceKnaben),
	}
	c := []models.StreamCandidate{
		candidate("C1", "c1", constants.SourceApibay),
		candidate("C2", "c2", constants.SourceApibay),
		candidate("C3", "c3", constants.SourceApibay),
		candidate("C4", "c4", constants.SourceApibay),
	}

	merged := interleave([][]models.StreamCandidate{a, b, c})

	var order []string
	for _, m := range merged {
		order = append(order, m.TitleLine())
	}
	assert.Equal(t, []string{"A1", "B1", "C1", "A2", "B2", "C2", "A3", "C3", "C4"}, order)
}

func TestInterleaveEmptyLists(t *testing.T) {
	assert.Empty(t, interleave(nil))
	assert.Empty(t, interleave([][]models.StreamCandidate{nil, nil}))
}

func TestDedupPrefersHigherPrioritySource(t *testing.T) {
	merged := []models.StreamCandidate{
		candidate("from apibay", "dupe", constants.SourceApibay),
		candidate("other", "other", constants.SourceKnaben),
		candidate("from eztv", "dupe", constants.SourceEZTV),
	}

	out := dedupByHash(merged)

	assert.Len(t, out, 2)
	// Survivor keeps the first occurrence position but carries the
	// higher-priority source's entry.
	assert.Equal(t, "dupe", out[0].InfoHash)
	assert.Equal(t, constants.SourceEZTV, out[0].Source)
	assert.Equal(t, "from eztv", out[0].TitleLine())
	assert.Equal(t, "other", out[1].InfoHash)
}

func TestDedupKeepsLowerPriorityOut(t *testing.T) {
	merged := []models.StreamCandidate{
		candidate("from eztv", "dupe", constants.SourceEZTV),
		candidate("from apibay", "dupe", constants.SourceApibay),
	}

	out := dedupByHash(merged)

	assert.Len(t, out, 1)
	assert.Equal(t, constants.SourceEZTV, out[0].Source)
}
