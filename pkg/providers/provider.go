package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Source identifies which provider produced a set of stats.
type Source string

const (
	SourceLeetCodeGraphQL Source = "leetcode-graphql"
	SourceAlfa            Source = "alfa-leetcode-api"
	SourceHeroku          Source = "heroku-leetcode-api"
)

var (
	// ErrDataUnavailable matches every failure returned by a single provider.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrAllProvidersFailed matches the error returned when a fallback chain is exhausted.
	ErrAllProvidersFailed = errors.New("all providers failed")
)

// NormalizedStats is the common statistics shape every provider maps into.
// Zero means unknown for ranking, reputation, acceptance rate and contribution points.
type NormalizedStats struct {
	Source             Source  `json:"source"`
	TotalSolved        int     `json:"totalSolved"`
	EasySolved         int     `json:"easySolved"`
	MediumSolved       int     `json:"mediumSolved"`
	HardSolved         int     `json:"hardSolved"`
	TotalEasy          int     `json:"totalEasy"`
	TotalMedium        int     `json:"totalMedium"`
	TotalHard          int     `json:"totalHard"`
	Ranking            int     `json:"ranking"`
	Reputation         int     `json:"reputation"`
	AcceptanceRate     float64 `json:"acceptanceRate"`
	ContributionPoints int     `json:"contributionPoints"`
}

// StatsProvider fetches a user's aggregate stats from one external source.
type StatsProvider interface {
	Name() Source
	FetchStats(ctx context.Context, username string) (NormalizedStats, error)
}

// Submission is one recently accepted submission.
type Submission struct {
	Title     string
	TitleSlug string
	Timestamp int64 // Unix seconds
}

// RecentFeed lists a user's most recent accepted submissions, newest first.
type RecentFeed interface {
	RecentAccepted(ctx context.Context, username string, limit int) ([]Submission, error)
}

// ProviderError is a failure of a single provider.
type ProviderError struct {
	Provider Source
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) Is(target error) bool { return target == ErrDataUnavailable }

// Fail wraps err as a failure of provider src.
func Fail(src Source, err error) error {
	var pe *ProviderError
	if errors.As(err, &pe) && pe.Provider == src {
		return err
	}
	return &ProviderError{Provider: src, Err: err}
}

// Failf builds a failure of provider src from a formatted message.
func Failf(src Source, format string, args ...interface{}) error {
	return &ProviderError{Provider: src, Err: fmt.Errorf(format, args...)}
}

// AllFailedError carries every provider failure, in the order attempted.
type AllFailedError struct {
	Errors []error
}

func (e *AllFailedError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return "all providers failed: " + strings.Join(msgs, "; ")
}

func (e *AllFailedError) Unwrap() []error { return e.Errors }

func (e *AllFailedError) Is(target error) bool { return target == ErrAllProvidersFailed }

// Ordered picks providers by name in the given order. Unknown or repeated
// names are rejected.
func Ordered(names []string, available ...StatsProvider) ([]StatsProvider, error) {
	byName := make(map[Source]StatsProvider, len(available))
	for _, p := range available {
		byName[p.Name()] = p
	}

	seen := make(map[Source]bool, len(names))
	out := make([]StatsProvider, 0, len(names))
	for _, n := range names {
		src := Source(strings.TrimSpace(n))
		p, ok := byName[src]
		if !ok {
			return nil, fmt.Errorf("unknown provider %q", n)
		}
		if seen[src] {
			return nil, fmt.Errorf("provider %q listed twice", n)
		}
		seen[src] = true
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, errors.New("no providers configured")
	}
	return out, nil
}
