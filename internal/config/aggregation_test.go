package config

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flixfinder/flixfinder/internal/constants"
)

func encodeConfig(t *testing.T, cfg map[string]interface{}) string {
	t.Helper()
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

func TestDecodeUserConfig(t *testing.T) {
	encoded := encodeConfig(t, map[string]interface{}{"quality": "1080p", "sort": "seeders"})

	decoded := DecodeUserConfig(encoded)
	assert.Equal(t, "1080p", decoded["quality"])
	assert.Equal(t, "seeders", decoded["sort"])
}

func TestDecodeUserConfigMalformed(t *testing.T) {
	assert.Empty(t, DecodeUserConfig(""))
	assert.Empty(t, DecodeUserConfig("%%%not-base64%%%"))
	assert.Empty(t, DecodeUserConfig(base64.RawURLEncoding.EncodeToString([]byte("not json"))))
}

func TestAggregationDefaults(t *testing.T) {
	cfg := AggregationFromUserData(nil, nil)

	assert.Equal(t, SortQualitySeeders, cfg.Sort)
	assert.Equal(t, constants.DefaultMaxResults, cfg.MaxResults)
	assert.Empty(t, cfg.Quality)
	assert.Empty(t, cfg.Sources)
	assert.False(t, cfg.InstantResolve)
}

func TestAggregationFromUserData(t *testing.T) {
	user := map[string]interface{}{
		"quality":     "1080p, 2160p, garbage",
		"include":     "hevc",
		"exclude":     "cam,hdts",
		"sort":        "quality_size",
		"maxResults":  float64(25),
		"debrid":      "RealDebrid",
		"debridToken": " tok ",
		"instant":     true,
	}

	cfg := AggregationFromUserData(user, nil)

	assert.Equal(t, []string{"1080p", "2160p"}, cfg.Quality)
	assert.Equal(t, []string{"hevc"}, cfg.Include)
	assert.Equal(t, []string{"cam", "hdts"}, cfg.Exclude)
	assert.Equal(t, SortQualitySize, cfg.Sort)
	assert.Equal(t, 25, cfg.MaxResults)
	assert.Equal(t, "realdebrid", cfg.DebridService)
	assert.Equal(t, "tok", cfg.DebridToken)
	assert.True(t, cfg.InstantResolve)
}

func TestAggregationQualityAny(t *testing.T) {
	cfg := AggregationFromUserData(map[string]interface{}{"quality": "any"}, nil)
	assert.Nil(t, cfg.Quality)
}

func TestAggregationUnknownSortFallsBack(t *testing.T) {
	cfg := AggregationFromUserData(map[string]interface{}{"sort": "bogus"}, nil)
	assert.Equal(t, SortQualitySeeders, cfg.Sort)
}

func TestAggregationInheritsProcessDebrid(t *testing.T) {
	base := &Config{DebridService: "alldebrid", DebridToken: "server-token"}

	cfg := AggregationFromUserData(nil, base)
	assert.Equal(t, "alldebrid", cfg.DebridService)
	assert.Equal(t, "server-token", cfg.DebridToken)

	// Per-request values win over server defaults
	cfg = AggregationFromUserData(map[string]interface{}{"debrid": "torbox", "debridToken": "user"}, base)
	assert.Equal(t, "torbox", cfg.DebridService)
	assert.Equal(t, "user", cfg.DebridToken)
}
