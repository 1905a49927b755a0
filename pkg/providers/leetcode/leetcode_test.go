package leetcode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sw33tLie/lctracker/pkg/providers"
	"github.com/sw33tLie/lctracker/pkg/whttp"
)

const profileResponse = `{
  "data": {
    "matchedUser": {
      "username": "alice",
      "submitStats": {
        "acSubmissionNum": [
          {"difficulty": "All", "count": 53, "submissions": 120},
          {"difficulty": "Easy", "count": 30, "submissions": 70},
          {"difficulty": "Medium", "count": 20, "submissions": 40},
          {"difficulty": "Hard", "count": 3, "submissions": 10}
        ],
        "totalSubmissionNum": [
          {"difficulty": "All", "count": 60, "submissions": 180},
          {"difficulty": "Easy", "count": 31, "submissions": 90}
        ]
      },
      "profile": {"ranking": 123456, "reputation": 12}
    },
    "allQuestionsCount": [
      {"difficulty": "All", "count": 3300},
      {"difficulty": "Easy", "count": 830},
      {"difficulty": "Medium", "count": 1730},
      {"difficulty": "Hard", "count": 740}
    ]
  }
}`

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := whttp.NewClient(whttp.Options{})
	require.NoError(t, err)
	return NewProvider(client, srv.URL)
}

func TestFetchStats(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, referer, r.Header.Get("Referer"))

		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req.Variables["username"])
		assert.Contains(t, req.Query, "matchedUser")

		w.Write([]byte(profileResponse))
	})

	stats, err := p.FetchStats(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, providers.NormalizedStats{
		Source:         providers.SourceLeetCodeGraphQL,
		TotalSolved:    53,
		EasySolved:     30,
		MediumSolved:   20,
		HardSolved:     3,
		TotalEasy:      830,
		TotalMedium:    1730,
		TotalHard:      740,
		Ranking:        123456,
		Reputation:     12,
		AcceptanceRate: 66.67,
	}, stats)
}

func TestFetchStats_UserNotFound(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "graphql errors",
			body:    `{"errors":[{"message":"That user does not exist."}],"data":{"matchedUser":null}}`,
			wantErr: "leetcode-graphql: user not found or GraphQL error: That user does not exist.",
		},
		{
			name:    "null user",
			body:    `{"data":{"matchedUser":null,"allQuestionsCount":[]}}`,
			wantErr: "leetcode-graphql: user not found or GraphQL error",
		},
		{
			name:    "not json",
			body:    `<html>oops</html>`,
			wantErr: "leetcode-graphql: malformed GraphQL response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			_, err := p.FetchStats(context.Background(), "ghost")
			require.Error(t, err)
			assert.ErrorIs(t, err, providers.ErrDataUnavailable)
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestFetchStats_HTTPError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	_, err := p.FetchStats(context.Background(), "alice")
	assert.EqualError(t, err, "leetcode-graphql: request failed with status 429")
}

func TestAcceptanceRate(t *testing.T) {
	tests := []struct {
		accepted, submissions int64
		want                  float64
	}{
		{120, 180, 66.67},
		{1, 3, 33.33},
		{5, 5, 100},
		{0, 10, 0},
		{10, 0, 0},
	}
	for _, tt := range tests {
		if got := acceptanceRate(tt.accepted, tt.submissions); got != tt.want {
			t.Errorf("acceptanceRate(%d, %d) = %v, want %v", tt.accepted, tt.submissions, got, tt.want)
		}
	}
}

func TestRecentAccepted(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.EqualValues(t, 8, req.Variables["limit"])
		assert.Contains(t, req.Query, "recentAcSubmissionList")

		w.Write([]byte(`{"data":{"recentAcSubmissionList":[
			{"id":"1","title":"Two Sum","titleSlug":"two-sum","timestamp":"1700000300"},
			{"id":"2","title":"Add Two Numbers","titleSlug":"add-two-numbers","timestamp":1700000200}
		]}}`))
	})

	subs, err := p.RecentAccepted(context.Background(), "alice", 8)
	require.NoError(t, err)
	assert.Equal(t, []providers.Submission{
		{Title: "Two Sum", TitleSlug: "two-sum", Timestamp: 1700000300},
		{Title: "Add Two Numbers", TitleSlug: "add-two-numbers", Timestamp: 1700000200},
	}, subs)
}

func TestRecentAccepted_Error(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"rate limited"}]}`))
	})
	_, err := p.RecentAccepted(context.Background(), "alice", 5)
	assert.EqualError(t, err, "leetcode-graphql: recent submissions error: rate limited")
}
