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
)

func TestDebridLinkResolveAsyncAddLag(t *testing.T) {
	// The async seedbox add may take a beat before the transfer shows up
	// in the list; absence is pending, not failure.
	listCalls := 0
	ready := debridLinkTorrent{
		ID:              "dl1",
		HashString:      "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
		DownloadPercent: 100,
	}
	ready.Files = []struct {
		Name        string `json:"name"`
		Size        int64  `json:"size"`
		DownloadURL string `json:"downloadUrl"`
	}{
		{Name: "ep.mkv", Size: 700000000, DownloadURL: "https://debrid-link.example/ep.mkv"},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/seedbox/list", func(w http.ResponseWriter, r *http.Request) {
		listCalls++
		resp := debridLinkListResponse{Success: true}
		// First call is locateOrCreate, second is the first poll.
		if listCalls >= 3 {
			resp.Value = []debridLinkTorrent{ready}
		}
		json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/seedbox/add", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(debridLinkAddResponse{Success: true, Value: debridLinkTorrent{ID: "dl1"}})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	d := NewDebridLink()
	d.SetBaseURL(srv.URL)
	d.SetPollInterval(time.Millisecond)

	result, err := d.Resolve(context.Background(), "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "test-token")

	require.NoError(t, err)
	assert.Equal(t, "https://debrid-link.example/ep.mkv", result.URL)
	assert.False(t, result.Cached)
	assert.GreaterOrEqual(t, listCalls, 3)
}
