// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agents

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholar-engine/pkg/types"
)

func backendConfig(url string) types.BackendConfig {
	return types.BackendConfig{Enabled: true, BaseURL: url, HealthTimeout: time.Second}
}

func testHTTPConfig() types.HTTPConfig {
	return types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "scholar-engine-test"}
}

func TestRemoteAvailable(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		healthy bool
	}{
		{"healthy", http.StatusOK, `{"status": "healthy", "futurehouse_available": true}`, true},
		{"ok alias", http.StatusOK, `{"status": "ok"}`, true},
		{"degraded", http.StatusOK, `{"status": "degraded"}`, false},
		{"server error", http.StatusInternalServerError, `{}`, false},
		{"garbage body", http.StatusOK, `not json`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/health", r.URL.Path)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			r := NewRemoteStrategy(backendConfig(ts.URL), testHTTPConfig(), ts.Client(), nil)
			assert.Equal(t, tt.healthy, r.Available(context.Background()))
		})
	}
}

func TestRemoteAvailableDisabled(t *testing.T) {
	r := NewRemoteStrategy(types.BackendConfig{Enabled: false, BaseURL: "http://unused"}, testHTTPConfig(), nil, nil)
	assert.False(t, r.Available(context.Background()))

	r = NewRemoteStrategy(types.BackendConfig{Enabled: true}, testHTTPConfig(), nil, nil)
	assert.False(t, r.Available(context.Background()), "no base URL means unavailable")
}

func TestRemoteAvailableUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	r := NewRemoteStrategy(backendConfig(url), testHTTPConfig(), nil, nil)
	assert.False(t, r.Available(context.Background()), "transport errors report unavailable, never surface")
}

func TestRemoteSearchLiterature(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/research", r.URL.Path)

		var req researchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "CROW", req.Agent)
		assert.Equal(t, "ocean acidification", req.Query)
		assert.EqualValues(t, 5, req.Options["max_results"])

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"agent":   "CROW",
			"data": map[string]any{
				"sources": []map[string]any{
					{"id": "s1", "title": "Acidification Trends", "year": 2022, "relevance_score": 0.9},
				},
				"total_results": 1,
			},
		})
	}))
	defer ts.Close()

	r := NewRemoteStrategy(backendConfig(ts.URL), testHTTPConfig(), ts.Client(), nil)
	lit, err := r.SearchLiterature(context.Background(), "ocean acidification", SearchOptions{MaxResults: 5})
	require.NoError(t, err)
	require.Len(t, lit.Sources, 1)
	assert.Equal(t, "Acidification Trends", lit.Sources[0].Title)
	assert.Equal(t, 2022, lit.Sources[0].Year)
}

func TestRemoteReportedFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "agent overloaded"})
	}))
	defer ts.Close()

	r := NewRemoteStrategy(backendConfig(ts.URL), testHTTPConfig(), ts.Client(), nil)
	_, err := r.SearchLiterature(context.Background(), "q", SearchOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agent overloaded")
}

func TestRemoteSynthesizeParsesFreeForm(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req researchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "FALCON", req.Agent)

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"agent":   "FALCON",
			"data": map[string]any{
				"executive_summary": "Signals are consistent.",
				"key_findings":      []string{"one", "two"},
				"confidence":        0.75,
			},
		})
	}))
	defer ts.Close()

	r := NewRemoteStrategy(backendConfig(ts.URL), testHTTPConfig(), ts.Client(), nil)
	syn, err := r.SynthesizeResearch(context.Background(), nil, "question", SynthesisOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Signals are consistent.", syn.Summary)
	assert.Equal(t, []string{"one", "two"}, syn.KeyFindings)
	assert.InDelta(t, 0.75, syn.Confidence, 1e-9)
}

func TestFutureHouseAvailable(t *testing.T) {
	full := types.FutureHouseConfig{Enabled: true, BaseURL: "https://api.example.com", APIKey: "key"}
	s := NewFutureHouseStrategy(full, testHTTPConfig(), nil, nil)
	assert.True(t, s.Available(context.Background()))

	for name, cfg := range map[string]types.FutureHouseConfig{
		"disabled":    {Enabled: false, BaseURL: "https://api.example.com", APIKey: "key"},
		"no base url": {Enabled: true, APIKey: "key"},
		"no key":      {Enabled: true, BaseURL: "https://api.example.com"},
	} {
		t.Run(name, func(t *testing.T) {
			s := NewFutureHouseStrategy(cfg, testHTTPConfig(), nil, nil)
			assert.False(t, s.Available(context.Background()))
		})
	}
}

func TestFutureHouseSearchSendsBearerAuth(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/agents/crow/search", r.URL.Path)
		assert.Equal(t, "Bearer fh-secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		json.NewEncoder(w).Encode(map[string]any{
			"sources": []map[string]any{
				{"title": "Direct API Paper", "doi": "10.1/x", "year": 2024},
			},
			"total_results": 40,
		})
	}))
	defer ts.Close()

	cfg := types.FutureHouseConfig{Enabled: true, BaseURL: ts.URL, APIKey: "fh-secret"}
	s := NewFutureHouseStrategy(cfg, testHTTPConfig(), ts.Client(), nil)

	lit, err := s.SearchLiterature(context.Background(), "anything", SearchOptions{MaxResults: 3})
	require.NoError(t, err)
	require.Len(t, lit.Sources, 1)
	assert.Equal(t, "10.1/x", lit.Sources[0].ID, "missing ID falls back to DOI")
	assert.Equal(t, 40, lit.TotalResults)
}

func TestFutureHouseErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	cfg := types.FutureHouseConfig{Enabled: true, BaseURL: ts.URL, APIKey: "bad"}
	s := NewFutureHouseStrategy(cfg, testHTTPConfig(), ts.Client(), nil)

	_, err := s.SearchLiterature(context.Background(), "q", SearchOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
