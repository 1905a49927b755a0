package alfa

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/sw33tLie/lctracker/pkg/providers"
	"github.com/sw33tLie/lctracker/pkg/whttp"
	"github.com/tidwall/gjson"
)

const DefaultEndpoint = "https://alfa-leetcode-api.onrender.com"

// Provider reads the community alfa-leetcode-api aggregator. It has no
// reputation, acceptance rate or contribution points.
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

func (p *Provider) Name() providers.Source { return providers.SourceAlfa }

func (p *Provider) FetchStats(ctx context.Context, username string) (providers.NormalizedStats, error) {
	res, err := p.client.SendHTTPRequest(ctx, &whttp.WHTTPReq{
		Method: "GET",
		URL:    p.endpoint + "/" + url.PathEscape(username) + "/solved",
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

	// A zero solved count means the aggregator has nothing usable for this
	// user, so the next provider gets a chance.
	if truthy(gjson.Get(body, "error")) || !truthy(gjson.Get(body, "solvedProblem")) {
		return providers.NormalizedStats{}, providers.Failf(p.Name(), "user not found")
	}

	return providers.NormalizedStats{
		Source:       p.Name(),
		TotalSolved:  int(gjson.Get(body, "solvedProblem").Int()),
		EasySolved:   int(gjson.Get(body, "easySolved").Int()),
		MediumSolved: int(gjson.Get(body, "mediumSolved").Int()),
		HardSolved:   int(gjson.Get(body, "hardSolved").Int()),
		TotalEasy:    int(gjson.Get(body, "totalEasy").Int()),
		TotalMedium:  int(gjson.Get(body, "totalMedium").Int()),
		TotalHard:    int(gjson.Get(body, "totalHard").Int()),
		Ranking:      int(gjson.Get(body, "ranking").Int()),
	}, nil
}

// truthy reports whether r is a JavaScript-truthy value. Missing fields are falsy.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.True, gjson.JSON:
		return true
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	default:
		return false
	}
}
