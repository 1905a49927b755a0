package leetcode

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"

	"github.com/sw33tLie/lctracker/pkg/providers"
	"github.com/sw33tLie/lctracker/pkg/whttp"
	"github.com/tidwall/gjson"
)

const (
	DefaultEndpoint = "https://leetcode.com/graphql"
	referer         = "https://leetcode.com"
)

// Provider talks to LeetCode's own GraphQL API. It is both a stats provider
// and the recent accepted submissions feed.
type Provider struct {
	client   *whttp.Client
	endpoint string
}

// NewProvider builds a GraphQL provider. An empty endpoint uses DefaultEndpoint.
func NewProvider(client *whttp.Client, endpoint string) *Provider {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Provider{client: client, endpoint: endpoint}
}

func (p *Provider) Name() providers.Source { return providers.SourceLeetCodeGraphQL }

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// query sends one GraphQL operation and returns the raw response body.
func (p *Provider) query(ctx context.Context, query string, variables map[string]interface{}) (string, error) {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return "", err
	}

	res, err := p.client.SendHTTPRequest(ctx, &whttp.WHTTPReq{
		Method: "POST",
		URL:    p.endpoint,
		Body:   body,
		Headers: []whttp.WHTTPHeader{
			{Name: "Content-Type", Value: "application/json"},
			{Name: "Referer", Value: referer},
		},
	})
	if err != nil {
		return "", err
	}

	if !res.OK() {
		return "", res.StatusError()
	}

	if !gjson.Valid(res.BodyString) {
		return "", errors.New("malformed GraphQL response")
	}

	return res.BodyString, nil
}

// graphqlError returns the first error message of a response, if any.
func graphqlError(body string) (string, bool) {
	errs := gjson.Get(body, "errors")
	if !errs.Exists() || errs.Type == gjson.Null {
		return "", false
	}
	return errs.Get("0.message").String(), true
}

type bucket struct {
	solved int
	total  int
}

// FetchStats implements providers.StatsProvider.
func (p *Provider) FetchStats(ctx context.Context, username string) (providers.NormalizedStats, error) {
	body, err := p.query(ctx, userProfileQuery, map[string]interface{}{"username": username})
	if err != nil {
		return providers.NormalizedStats{}, providers.Fail(p.Name(), err)
	}

	msg, hasErrors := graphqlError(body)
	user := gjson.Get(body, "data.matchedUser")
	if hasErrors || !user.IsObject() {
		if msg != "" {
			return providers.NormalizedStats{}, providers.Failf(p.Name(), "user not found or GraphQL error: %s", msg)
		}
		return providers.NormalizedStats{}, providers.Failf(p.Name(), "user not found or GraphQL error")
	}

	buckets := map[string]*bucket{
		"easy":   {},
		"medium": {},
		"hard":   {},
		"all":    {},
	}

	var totalAccepted, totalSubmissions int64

	for _, item := range user.Get("submitStats.acSubmissionNum").Array() {
		diff := strings.ToLower(item.Get("difficulty").String())
		if b, ok := buckets[diff]; ok {
			b.solved = int(item.Get("count").Int())
		}
		if diff == "all" {
			totalAccepted = item.Get("submissions").Int()
		}
	}

	for _, item := range user.Get("submitStats.totalSubmissionNum").Array() {
		if strings.ToLower(item.Get("difficulty").String()) == "all" {
			totalSubmissions = item.Get("submissions").Int()
		}
	}

	for _, item := range gjson.Get(body, "data.allQuestionsCount").Array() {
		diff := strings.ToLower(item.Get("difficulty").String())
		if b, ok := buckets[diff]; ok {
			b.total = int(item.Get("count").Int())
		}
	}

	return providers.NormalizedStats{
		Source:         p.Name(),
		TotalSolved:    buckets["all"].solved,
		EasySolved:     buckets["easy"].solved,
		MediumSolved:   buckets["medium"].solved,
		HardSolved:     buckets["hard"].solved,
		TotalEasy:      buckets["easy"].total,
		TotalMedium:    buckets["medium"].total,
		TotalHard:      buckets["hard"].total,
		Ranking:        int(user.Get("profile.ranking").Int()),
		Reputation:     int(user.Get("profile.reputation").Int()),
		AcceptanceRate: acceptanceRate(totalAccepted, totalSubmissions),
		// Not exposed by this query.
		ContributionPoints: 0,
	}, nil
}

// acceptanceRate is accepted/submitted as a percentage rounded to 2 decimals.
func acceptanceRate(accepted, submissions int64) float64 {
	if submissions <= 0 {
		return 0
	}
	rate := float64(accepted) / float64(submissions) * 100
	return math.Round(rate*100) / 100
}

// RecentAccepted implements providers.RecentFeed.
func (p *Provider) RecentAccepted(ctx context.Context, username string, limit int) ([]providers.Submission, error) {
	body, err := p.query(ctx, recentAcSubmissionsQuery, map[string]interface{}{"username": username, "limit": limit})
	if err != nil {
		return nil, providers.Fail(p.Name(), err)
	}

	if msg, ok := graphqlError(body); ok {
		return nil, providers.Failf(p.Name(), "recent submissions error: %s", msg)
	}

	list := gjson.Get(body, "data.recentAcSubmissionList")
	if !list.IsArray() {
		return nil, providers.Failf(p.Name(), "recent submissions missing from response")
	}

	var subs []providers.Submission
	for _, item := range list.Array() {
		subs = append(subs, providers.Submission{
			Title:     item.Get("title").String(),
			TitleSlug: item.Get("titleSlug").String(),
			// LeetCode sends the timestamp as a string; gjson parses either form.
			Timestamp: item.Get("timestamp").Int(),
		})
	}
	return subs, nil
}
