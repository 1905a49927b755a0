package syncing

import (
	"context"
	"errors"
	"time"

	"github.com/sourcegraph/conc/pool"
)

const defaultConcurrency = 5

// Outcome is the result of syncing one username as part of a batch.
type Outcome struct {
	Username string
	Result   *Result
	Err      error
}

// SyncAll syncs every username with at most concurrency syncs in flight.
// Outcomes come back in input order. One user failing never stops the others.
func (s *Syncer) SyncAll(ctx context.Context, usernames []string, concurrency int) []Outcome {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	outcomes := make([]Outcome, len(usernames))
	p := pool.New().WithMaxGoroutines(concurrency)
	for i, username := range usernames {
		p.Go(func() {
			res, err := s.Sync(ctx, username)
			outcomes[i] = Outcome{Username: username, Result: res, Err: err}
		})
	}
	p.Wait()

	return outcomes
}

// Poll syncs usernames right away and then once every interval until ctx is
// done. onCycle, if set, receives each cycle's outcomes.
func (s *Syncer) Poll(ctx context.Context, interval time.Duration, usernames []string, concurrency int, onCycle func([]Outcome)) error {
	if interval <= 0 {
		return errors.New("poll interval must be positive")
	}

	s.log.Infof("Starting poller for %d users (interval: %s)", len(usernames), interval)

	runCycle := func() {
		started := time.Now()
		outcomes := s.SyncAll(ctx, usernames, concurrency)
		failed := 0
		for _, o := range outcomes {
			if o.Err != nil {
				failed++
				s.log.WithField("username", o.Username).Warnf("Sync failed: %v", o.Err)
			}
		}
		s.log.Infof("Poll cycle finished in %s: %d synced, %d failed", time.Since(started).Round(time.Millisecond), len(outcomes)-failed, failed)
		if onCycle != nil {
			onCycle(outcomes)
		}
	}

	runCycle()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			runCycle()
		}
	}
}
