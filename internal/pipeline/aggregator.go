package pipeline

import (
	"context"
	"sync"

	"github.com/flixfinder/flixfinder/internal/config"
	"github.com/flixfinder/flixfinder/internal/constants"
	"github.com/flixfinder/flixfinder/internal/models"
	"github.com/flixfinder/flixfinder/internal/sources"
	"github.com/flixfinder/flixfinder/pkg/logger"
)

// Aggregator owns the search half of the addon. It never returns an error:
// every per-source failure is absorbed, and total failure yields an empty
// list.
type Aggregator struct {
	registry *sources.Registry
	logger   logger.Logger
}

func New(registry *sources.Registry) *Aggregator {
	return &Aggregator{
		registry: registry,
		logger:   logger.New(),
	}
}

// Search fans out to every enabled source, then normalizes, merges, dedups,
// filters, sorts and truncates the hits into the final candidate page.
func (a *Aggregator) Search(ctx context.Context, q models.SearchQuery, cfg *config.AggregationConfig) []models.StreamCandidate {
	enabled := a.registry.Enabled(cfg.Sources, q.MediaType)
	if len(enabled) == 0 || q.Title == "" {
		return nil
	}

	perSource := a.fanOut(ctx, enabled, q)

	lists := make([][]models.StreamCandidate, len(perSource))
	for i, hits := range perSource {
		lists[i] = normalizeHits(hits)
	}

	candidates := dedupByHash(interleave(lists))
	candidates = filterEpisode(candidates, q)
	candidates = filterQuality(candidates, cfg.Quality)
	candidates = filterKeywords(candidates, cfg.Include, cfg.Exclude)
	sortCandidates(candidates, cfg.Sort)
	candidates = truncate(candidates, cfg.MaxResults)

	a.logger.Infof("[Aggregator] %d candidates for %q (%s)", len(candidates), q.Title, q.MediaType)
	return candidates
}

// fanOut runs one bounded search per source concurrently. Each branch is
// fully isolated: a timeout, error or panic in one source yields an empty
// list for that source only.
func (a *Aggregator) fanOut(ctx context.Context, enabled []sources.Source, q models.SearchQuery) [][]models.RawHit {
	results := make([][]models.RawHit, len(enabled))

	var wg sync.WaitGroup
	for i, src := range enabled {
		wg.Add(1)
		go func(i int, src sources.Source) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					a.logger.Errorf("[Aggregator] source %s panicked: %v", src.Name(), r)
				}
			}()

			searchCtx, cancel := context.WithTimeout(ctx, constants.SourceSearchTimeout)
			defer cancel()

			hits, err := src.Search(searchCtx, q)
			if err != nil {
				a.logger.Warnf("[Aggregator] source %s failed: %v", src.Name(), err)
				return
			}
			results[i] = hits
		}(i, src)
	}
	wg.Wait()

	return results
}

// truncate cuts the sorted list to maxResults while reserving a small quota
// of slots for the noisier scraper sources, so they can neither dominate a
// full page nor be squeezed out of one.
func truncate(candidates []models.StreamCandidate, maxResults int) []models.StreamCandidate {
	if maxResults <= 0 || len(candidates) <= maxResults {
		return candidates
	}

	quota := maxResults / 5
	if quota < 1 {
		quota = 1
	}
	if quota > 2 {
		quota = 2
	}

	var primary, noisy []models.StreamCandidate
	for _, c := range candidates {
		if constants.NoisySources[c.Source] {
			noisy = append(noisy, c)
		} else {
			primary = append(primary, c)
		}
	}

	primaryTake := maxResults - quota
	if primaryTake > len(primary) {
		primaryTake = len(primary)
	}
	noisyTake := maxResults - primaryTake
	if noisyTake > len(noisy) {
		noisyTake = len(noisy)
		primaryTake = maxResults - noisyTake
		if primaryTake > len(primary) {
			primaryTake = len(primary)
		}
	}

	out := make([]models.StreamCandidate, 0, maxResults)
	for _, c := range candidates {
		if constants.NoisySources[c.Source] {
			if noisyTake > 0 {
				out = append(out, c)
				noisyTake--
			}
		} else if primaryTake > 0 {
			out = append(out, c)
			primaryTake--
		}
		if len(out) == maxResults {
			break
		}
	}
	return out
}
