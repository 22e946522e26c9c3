package debrid

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/flixfinder/flixfinder/internal/constants"
	"github.com/flixfinder/flixfinder/internal/errors"
	"github.com/flixfinder/flixfinder/internal/models"
	"github.com/flixfinder/flixfinder/pkg/logger"
	"github.com/flixfinder/flixfinder/pkg/ratelimiter"
)

// Engine routes resolutions to the configured provider and enforces the
// batch policy for stream pages.
type Engine struct {
	providers   map[string]Provider
	rateLimiter *ratelimiter.TokenBucket
	logger      logger.Logger
}

// NewEngine creates an engine with the default provider set.
func NewEngine() *Engine {
	e := &Engine{
		providers:   map[string]Provider{},
		rateLimiter: ratelimiter.NewTokenBucket(constants.DebridRateLimit, constants.DebridRateBurst),
		logger:      logger.New(),
	}
	for _, p := range []Provider{
		NewRealDebrid(),
		NewAllDebrid(),
		NewTorbox(),
		NewDebridLink(),
		NewPremiumize(),
		NewOffcloud(),
		NewPutio(),
		NewEasyDebrid(),
	} {
		e.Register(p)
	}
	return e
}

// Register adds or replaces a provider adapter.
func (e *Engine) Register(p Provider) {
	e.providers[strings.ToLower(p.ID())] = p
}

// Resolve resolves a single info hash through the named provider. An
// unknown provider id or an empty token yields ProviderUnsupported.
func (e *Engine) Resolve(ctx context.Context, providerID, infoHash, token string) (*models.PlaybackResult, error) {
	p, ok := e.providers[strings.ToLower(providerID)]
	if !ok || token == "" {
		return nil, errors.NewProviderUnsupportedError(providerID)
	}

	e.rateLimiter.Wait()
	result, err := p.Resolve(ctx, strings.ToLower(infoHash), token)
	if err != nil {
		e.logger.Warnf("[Engine] %s failed to resolve %s: %v", p.ID(), infoHash, err)
		return nil, err
	}
	return result, nil
}

// ResolveBatch resolves a candidate page strictly one at a time; the
// sequential order is deliberate, it keeps the addon inside provider rate
// limits. Per-candidate failures are swallowed: with at least one success
// only the resolved entries are returned, and when every candidate fails
// the page degrades to one synthesized error entry followed by the
// original unresolved candidates. An unsupported provider passes the page
// through untouched.
func (e *Engine) ResolveBatch(ctx context.Context, providerID, token string, candidates []models.StreamCandidate) []models.StreamCandidate {
	id := strings.ToLower(providerID)
	if _, ok := e.providers[id]; !ok || token == "" {
		return candidates
	}

	var resolved []models.StreamCandidate
	var firstErr error
	for _, c := range candidates {
		result, err := e.Resolve(ctx, id, c.InfoHash, token)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		resolved = append(resolved, resolvedCandidate(c, id, result))
	}

	if len(resolved) > 0 {
		return resolved
	}
	if firstErr == nil {
		return candidates
	}

	message := firstErr.Error()
	var re *errors.ResolutionError
	if stderrors.As(firstErr, &re) {
		message = re.Message
	}
	errorEntry := models.StreamCandidate{
		Name:  constants.AddonName,
		Title: fmt.Sprintf("%s resolution failed\n%s", constants.ProviderBadges[id], message),
		URL:   constants.ProviderHomeURLs[id],
	}
	return append([]models.StreamCandidate{errorEntry}, candidates...)
}

func resolvedCandidate(c models.StreamCandidate, providerID string, result *models.PlaybackResult) models.StreamCandidate {
	badge := constants.ProviderBadges[providerID]
	if result.Cached {
		badge += "+"
	}
	return models.StreamCandidate{
		Name:     fmt.Sprintf("[%s] %s", badge, constants.AddonName),
		Title:    c.Title,
		URL:      result.URL,
		InfoHash: "",
		Source:   c.Source,
	}
}
