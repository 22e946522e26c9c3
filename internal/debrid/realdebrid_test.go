package debrid

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flixfinder/flixfinder/internal/errors"
)

func newRealDebridServer(t *testing.T, statuses []string) *httptest.Server {
	t.Helper()
	infoCalls := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/torrents/addMagnet", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"id": "tor1"})
	})
	mux.HandleFunc("/torrents/info/tor1", func(w http.ResponseWriter, r *http.Request) {
		status := statuses[infoCalls]
		if infoCalls < len(statuses)-1 {
			infoCalls++
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"files": []map[string]interface{}{
				{"id": 1, "path": "/movie.mkv", "bytes": 5000},
				{"id": 2, "path": "/sample.mkv", "bytes": 50},
			},
			"links": []string{"https://real-debrid.example/d/abc"},
		})
	})
	mux.HandleFunc("/torrents/selectFiles/tor1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/unrestrict/link", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"download": "https://cdn.real-debrid.example/movie.mkv"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRealDebridResolve(t *testing.T) {
	srv := newRealDebridServer(t, []string{"waiting_files_selection", "downloading", "downloaded"})

	rd := NewRealDebrid()
	rd.SetBaseURL(srv.URL)
	rd.SetPollInterval(time.Millisecond)

	result, err := rd.Resolve(context.Background(), "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "test-token")

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.real-debrid.example/movie.mkv", result.URL)
	assert.False(t, result.Cached)
}

func TestRealDebridResolveCached(t *testing.T) {
	srv := newRealDebridServer(t, []string{"downloaded"})

	rd := NewRealDebrid()
	rd.SetBaseURL(srv.URL)
	rd.SetPollInterval(time.Millisecond)

	result, err := rd.Resolve(context.Background(), "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "test-token")

	require.NoError(t, err)
	assert.True(t, result.Cached)
}

func TestRealDebridResolveDeadTorrent(t *testing.T) {
	srv := newRealDebridServer(t, []string{"downloading", "dead"})

	rd := NewRealDebrid()
	rd.SetBaseURL(srv.URL)
	rd.SetPollInterval(time.Millisecond)

	_, err := rd.Resolve(context.Background(), "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "test-token")

	assert.True(t, errors.IsKind(err, errors.KindTransferFailed))
}
