package config

import (
	"encoding/base64"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/flixfinder/flixfinder/internal/constants"
)

// SortMode enumerates the composite sort orders for the result list.
type SortMode string

const (
	SortQualitySeeders SortMode = "quality_seeders"
	SortQualitySize    SortMode = "quality_size"
	SortSeeders        SortMode = "seeders"
	SortSize           SortMode = "size"
)

// AggregationConfig is the per-request, read-only pipeline configuration.
// Unknown or invalid values are defaulted rather than rejected.
type AggregationConfig struct {
	Quality    []string // OR filter on the title line; empty = any
	Include    []string // AND filter, case-insensitive substrings
	Exclude    []string // NOT-OR filter
	Sort       SortMode
	MaxResults int      // 0 = unbounded
	Sources    []string // empty = all sources eligible for the media type

	DebridService string
	DebridToken   string

	// InstantResolve resolves the whole page up front instead of handing
	// out lazy per-click resolve links.
	InstantResolve bool
}

var knownQualities = map[string]bool{}

func init() {
	for _, tier := range constants.QualityTiers {
		knownQualities[tier] = true
	}
}

var knownSortModes = map[SortMode]bool{
	SortQualitySeeders: true,
	SortQualitySize:    true,
	SortSeeders:        true,
	SortSize:           true,
}

// DecodeUserConfig decodes a base64url-encoded JSON configuration segment
// from the addon URL. Malformed input yields an empty map.
func DecodeUserConfig(encoded string) map[string]interface{} {
	result := map[string]interface{}{}
	if encoded == "" {
		return result
	}

	// Stremio clients may hand back '+' as ' ' and standard-alphabet input.
	raw := strings.ReplaceAll(encoded, " ", "+")
	normalized := strings.NewReplacer("-", "+", "_", "/").Replace(raw)
	if pad := len(normalized) % 4; pad != 0 {
		normalized += strings.Repeat("=", 4-pad)
	}

	data, err := base64.StdEncoding.DecodeString(normalized)
	if err != nil {
		return result
	}
	json.Unmarshal(data, &result)
	return result
}

// AggregationFromUserData builds an AggregationConfig from decoded user
// configuration, falling back to process defaults for debrid credentials.
func AggregationFromUserData(user map[string]interface{}, base *Config) *AggregationConfig {
	cfg := &AggregationConfig{
		Sort:       SortQualitySeeders,
		MaxResults: constants.DefaultMaxResults,
	}
	if base != nil {
		cfg.DebridService = base.DebridService
		cfg.DebridToken = base.DebridToken
	}

	cfg.Quality = parseQualityList(stringValue(user, "quality"))
	cfg.Include = splitList(stringValue(user, "include"))
	cfg.Exclude = splitList(stringValue(user, "exclude"))
	cfg.Sources = splitList(stringValue(user, "sources"))

	if mode := SortMode(strings.ToLower(stringValue(user, "sort"))); knownSortModes[mode] {
		cfg.Sort = mode
	}

	if raw := stringValue(user, "maxResults"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			cfg.MaxResults = n
		}
	} else if f, ok := user["maxResults"].(float64); ok && f >= 0 {
		cfg.MaxResults = int(f)
	}

	if svc := strings.ToLower(stringValue(user, "debrid")); svc != "" && svc != "none" {
		cfg.DebridService = svc
	}
	if token := strings.TrimSpace(stringValue(user, "debridToken")); token != "" {
		cfg.DebridToken = token
	}
	if b, ok := user["instant"].(bool); ok {
		cfg.InstantResolve = b
	} else if strings.EqualFold(stringValue(user, "instant"), "true") {
		cfg.InstantResolve = true
	}

	return cfg
}

// parseQualityList keeps only recognized tier tokens; "any", unknown tokens
// and an empty value all mean no quality filter.
func parseQualityList(raw string) []string {
	var tiers []string
	for _, tok := range splitList(raw) {
		tok = strings.ToLower(tok)
		if tok == "any" {
			return nil
		}
		if knownQualities[tok] {
			tiers = append(tiers, tok)
		}
	}
	return tiers
}

func splitList(raw string) []string {
	var items []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

func stringValue(user map[string]interface{}, key string) string {
	if user == nil {
		return ""
	}
	if s, ok := user[key].(string); ok {
		return s
	}
	return ""
}
