package syncing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sw33tLie/lctracker/pkg/providers"
	"github.com/sw33tLie/lctracker/pkg/storage"
)

var (
	ErrMissingUsername = errors.New("username parameter is required")
	ErrInvalidUsername = errors.New("invalid username format")
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateUsername checks the username charset before any I/O happens.
func ValidateUsername(username string) error {
	if username == "" {
		return ErrMissingUsername
	}
	if !usernamePattern.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

// Fetcher returns fresh stats for a username. *providers.Fallback satisfies it.
type Fetcher interface {
	FetchStats(ctx context.Context, username string) (providers.NormalizedStats, error)
}

// Store is the persistence the sync pipeline needs. *storage.DB satisfies it.
type Store interface {
	GetSnapshot(ctx context.Context, username string) (*storage.Snapshot, error)
	UpsertSnapshot(ctx context.Context, s storage.Snapshot) error
	InsertSolveEvent(ctx context.Context, e storage.SolveEvent) error
	InsertRecentSubmissions(ctx context.Context, subs []storage.RecentSubmission) error
	LatestSyncEvent(ctx context.Context, username string) (*storage.SyncEvent, error)
	InsertSyncEvent(ctx context.Context, e storage.SyncEvent) error
}

// Config holds everything a Syncer needs.
type Config struct {
	Fetcher Fetcher
	Store   Store
	Feed    providers.RecentFeed // optional; nil skips enrichment
	Log     logrus.FieldLogger   // optional; nil = no logging
	Now     func() time.Time     // optional; defaults to time.Now
}

// Syncer runs the fetch, reconcile, enrich and log pipeline for one username
// at a time. It holds no per-user state and is safe for concurrent use.
type Syncer struct {
	fetcher Fetcher
	store   Store
	feed    providers.RecentFeed
	log     logrus.FieldLogger
	now     func() time.Time
}

func New(cfg Config) (*Syncer, error) {
	if cfg.Store == nil {
		return nil, storage.ErrStoreUnavailable
	}
	if cfg.Fetcher == nil {
		return nil, errors.New("syncing: a stats fetcher is required")
	}

	log := cfg.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Syncer{
		fetcher: cfg.Fetcher,
		store:   cfg.Store,
		feed:    cfg.Feed,
		log:     log,
		now:     now,
	}, nil
}

// Result is the outcome of one successful sync.
type Result struct {
	Username string
	Snapshot storage.Snapshot
	Delta    int
	Source   providers.Source
	Message  string

	SolveEventLogged    bool
	SubmissionsRecorded int
	SyncEventLogged     bool
}

// Sync fetches fresh stats for username and reconciles them with the store.
//
// Snapshot reads and writes and the solve history insert are fatal. Writes
// that already happened are not rolled back. Enrichment and sync history
// failures are logged and do not fail the sync.
func (s *Syncer) Sync(ctx context.Context, username string) (*Result, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}

	log := s.log.WithField("username", username)

	stats, err := s.fetcher.FetchStats(ctx, username)
	if err != nil {
		return nil, err
	}
	log = log.WithField("provider", stats.Source)

	prev, err := s.store.GetSnapshot(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	prevTotal := 0
	if prev != nil {
		prevTotal = prev.TotalSolved
	}
	delta := stats.TotalSolved - prevTotal
	now := s.now().UTC()

	snap := newSnapshot(username, stats, delta, now)
	if err := s.store.UpsertSnapshot(ctx, snap); err != nil {
		return nil, fmt.Errorf("database upsert error: %w", err)
	}

	res := &Result{
		Username: username,
		Snapshot: snap,
		Delta:    delta,
		Source:   stats.Source,
		Message:  "Stats synced successfully",
	}

	if delta > 0 {
		res.Message = fmt.Sprintf("New problems solved: %d", delta)

		err := s.store.InsertSolveEvent(ctx, storage.SolveEvent{
			Username:       username,
			ProblemsSolved: delta,
			TotalAtTime:    stats.TotalSolved,
			SolvedAt:       now,
		})
		if err != nil {
			return nil, fmt.Errorf("database insert error: %w", err)
		}
		res.SolveEventLogged = true

		res.SubmissionsRecorded = s.enrich(ctx, log, username, delta, now)
	} else if delta < 0 {
		log.Warnf("Total solved went down by %d", -delta)
	}

	res.SyncEventLogged = s.logSync(ctx, log, username, stats, now)

	log.WithField("delta", delta).Info(res.Message)
	return res, nil
}

// newSnapshot builds the full replacement row. Fields the active provider
// does not report are stored as 0.
func newSnapshot(username string, stats providers.NormalizedStats, delta int, now time.Time) storage.Snapshot {
	return storage.Snapshot{
		Username:           username,
		TotalSolved:        stats.TotalSolved,
		EasySolved:         stats.EasySolved,
		MediumSolved:       stats.MediumSolved,
		HardSolved:         stats.HardSolved,
		TotalEasy:          stats.TotalEasy,
		TotalMedium:        stats.TotalMedium,
		TotalHard:          stats.TotalHard,
		AcceptanceRate:     stats.AcceptanceRate,
		Ranking:            stats.Ranking,
		ContributionPoints: stats.ContributionPoints,
		Reputation:         stats.Reputation,
		LastDelta:          delta,
		UpdatedAt:          now,
	}
}
