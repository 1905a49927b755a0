package syncing

import (
	"context"
	"regexp"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sw33tLie/lctracker/pkg/storage"
)

const maxFeedLimit = 20

var digitsPattern = regexp.MustCompile(`\d+`)

// feedLimit is how many recent submissions to request for a given delta.
func feedLimit(delta int) int {
	return min(delta+5, maxFeedLimit)
}

// problemNumber is the first run of digits in slug, or 0.
func problemNumber(slug string) int {
	m := digitsPattern.FindString(slug)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// enrich records the newest delta accepted submissions as the problems that
// were just solved. It is a guess by recency and count, never verified
// against earlier syncs. Failures are logged and swallowed. It returns how
// many rows were stored.
func (s *Syncer) enrich(ctx context.Context, log logrus.FieldLogger, username string, delta int, now time.Time) int {
	if s.feed == nil || delta <= 0 {
		return 0
	}

	subs, err := s.feed.RecentAccepted(ctx, username, feedLimit(delta))
	if err != nil {
		log.Errorf("Failed to fetch recent submissions: %v", err)
		return 0
	}

	if len(subs) > delta {
		subs = subs[:delta]
	}
	if len(subs) == 0 {
		return 0
	}

	rows := make([]storage.RecentSubmission, 0, len(subs))
	for _, sub := range subs {
		rows = append(rows, storage.RecentSubmission{
			Username:      username,
			ProblemTitle:  sub.Title,
			ProblemNumber: problemNumber(sub.TitleSlug),
			ProblemSlug:   sub.TitleSlug,
			Difficulty:    "",
			SubmittedAt:   time.Unix(sub.Timestamp, 0).UTC(),
			SyncedAt:      now,
		})
	}

	if err := s.store.InsertRecentSubmissions(ctx, rows); err != nil {
		log.Errorf("Failed to store recent submissions: %v", err)
		return 0
	}

	log.Debugf("Stored %d recent submissions", len(rows))
	return len(rows)
}
