package heroku

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/sw33tLie/lctracker/pkg/providers"
	"github.com/sw33tLie/lctracker/pkg/whttp"
	"github.com/tidwall/gjson"
)

const DefaultEndpoint = "https://leetcode-stats-api.herokuapp.com"

// Provider reads the legacy leetcode-stats-api. It is the only source with
// contribution points.
type Provider struct {
	client   *whttp.Client
	endpoint string
}

func NewProvider(client *whttp.Client, endpoint string) *Provider {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Provider{client: client, endpoint: strings.TrimRight(endpoint, "/")}
}

func (p *Provider) Name() providers.Source { return providers.SourceHeroku }

func (p *Provider) FetchStats(ctx context.Context, username string) (providers.NormalizedStats, error) {
	res, err := p.client.SendHTTPRequest(ctx, &whttp.WHTTPReq{
		Method: "GET",
		URL:    p.endpoint + "/" + url.PathEscape(username),
	})
	if err != nil {
		return providers.NormalizedStats{}, providers.Fail(p.Name(), err)
	}

	if !res.OK() {
		return providers.NormalizedStats{}, providers.Fail(p.Name(), res.StatusError())
	}

	body := res.BodyString
	if !gjson.Valid(body) {
		return providers.NormalizedStats{}, providers.Fail(p.Name(), errors.New("malformed response"))
	}

	if gjson.Get(body, "status").String() == "error" {
		if msg := gjson.Get(body, "message").String(); msg != "" {
			return providers.NormalizedStats{}, providers.Failf(p.Name(), "user not found: %s", msg)
		}
		return providers.NormalizedStats{}, providers.Failf(p.Name(), "user not found")
	}

	return providers.NormalizedStats{
		Source:             p.Name(),
		TotalSolved:        int(gjson.Get(body, "totalSolved").Int()),
		EasySolved:         int(gjson.Get(body, "easySolved").Int()),
		MediumSolved:       int(gjson.Get(body, "mediumSolved").Int()),
		HardSolved:         int(gjson.Get(body, "hardSolved").Int()),
		TotalEasy:          int(gjson.Get(body, "totalEasy").Int()),
		TotalMedium:        int(gjson.Get(body, "totalMedium").Int()),
		TotalHard:          int(gjson.Get(body, "totalHard").Int()),
		Ranking:            int(gjson.Get(body, "ranking").Int()),
		Reputation:         int(gjson.Get(body, "reputation").Int()),
		AcceptanceRate:     gjson.Get(body, "acceptanceRate").Float(),
		ContributionPoints: int(gjson.Get(body, "contributionPoints").Int()),
	}, nil
}
