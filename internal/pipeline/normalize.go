package pipeline

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/flixfinder/flixfinder/internal/constants"
	"github.com/flixfinder/flixfinder/internal/models"
	"github.com/flixfinder/flixfinder/internal/sources"
)

// normalizeHits converts indexer-native hits into canonical candidates.
// Hits lacking a usable info hash are dropped; base32 hashes come out as
// 40-char lower-case hex.
func normalizeHits(hits []models.RawHit) []models.StreamCandidate {
	candidates := make([]models.StreamCandidate, 0, len(hits))
	for _, hit := range hits {
		hash := sources.NormalizeInfoHash(hit.InfoHash)
		if hash == "" {
			hash = sources.ExtractInfoHash(hit.MagnetURI)
		}
		if hash == "" {
			continue
		}

		size := "?"
		if hit.Size > 0 {
			size = humanize.Bytes(uint64(hit.Size))
		}
		candidates = append(candidates, models.StreamCandidate{
			Name:     constants.AddonName,
			Title:    fmt.Sprintf("%s\n%s | S:%d | %s", hit.Title, size, hit.Seeders, hit.Source),
			InfoHash: hash,
			Source:   hit.Source,
		})
	}
	return candidates
}
