package heroku

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sw33tLie/lctracker/pkg/providers"
	"github.com/sw33tLie/lctracker/pkg/whttp"
)

func serve(t *testing.T, status int, body string) *Provider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/alice", r.URL.Path)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	client, err := whttp.NewClient(whttp.Options{})
	require.NoError(t, err)
	return NewProvider(client, srv.URL)
}

func TestFetchStats(t *testing.T) {
	p := serve(t, http.StatusOK, `{
		"status": "success", "message": "retrieved",
		"totalSolved": 53, "totalQuestions": 3300,
		"easySolved": 30, "totalEasy": 830,
		"mediumSolved": 20, "totalMedium": 1730,
		"hardSolved": 3, "totalHard": 740,
		"acceptanceRate": 66.67, "ranking": 123456,
		"contributionPoints": 250, "reputation": 12
	}`)

	stats, err := p.FetchStats(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, providers.NormalizedStats{
		Source:             providers.SourceHeroku,
		TotalSolved:        53,
		EasySolved:         30,
		MediumSolved:       20,
		HardSolved:         3,
		TotalEasy:          830,
		TotalMedium:        1730,
		TotalHard:          740,
		Ranking:            123456,
		Reputation:         12,
		AcceptanceRate:     66.67,
		ContributionPoints: 250,
	}, stats)
}

func TestFetchStats_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"status error", http.StatusOK, `{"status":"error","message":"user does not exist"}`, "heroku-leetcode-api: user not found: user does not exist"},
		{"status error without message", http.StatusOK, `{"status":"error"}`, "heroku-leetcode-api: user not found"},
		{"html error page", http.StatusServiceUnavailable, `<html><head><title>Application Error</title></head></html>`, "heroku-leetcode-api: request failed with status 503 (Application Error)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := serve(t, tt.status, tt.body)
			_, err := p.FetchStats(context.Background(), "alice")
			assert.ErrorIs(t, err, providers.ErrDataUnavailable)
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
