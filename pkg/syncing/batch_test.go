package syncing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sw33tLie/lctracker/pkg/providers"
)

// perUserFetcher returns stats keyed by username and fails unknown users.
type perUserFetcher struct {
	mu    sync.Mutex
	stats map[string]int
	calls int
}

func (f *perUserFetcher) FetchStats(ctx context.Context, username string) (providers.NormalizedStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	total, ok := f.stats[username]
	if !ok {
		return providers.NormalizedStats{}, &providers.AllFailedError{Errors: []error{providers.Failf(providers.SourceHeroku, "user not found")}}
	}
	return stats(total), nil
}

func TestSyncAll_KeepsOrderAndIsolatesFailures(t *testing.T) {
	db := openTestDB(t)
	fetcher := &perUserFetcher{stats: map[string]int{"alice": 10, "bob": 20, "carol": 30}}
	s := newTestSyncer(t, db, fetcher, nil, nil)

	usernames := []string{"carol", "ghost", "alice", "bob"}
	outcomes := s.SyncAll(context.Background(), usernames, 2)
	require.Len(t, outcomes, 4)

	for i, o := range outcomes {
		assert.Equal(t, usernames[i], o.Username)
	}
	assert.ErrorIs(t, outcomes[1].Err, providers.ErrAllProvidersFailed)
	assert.Nil(t, outcomes[1].Result)
	assert.Equal(t, 30, outcomes[0].Result.Snapshot.TotalSolved)
	assert.Equal(t, 10, outcomes[2].Result.Delta)
	assert.Equal(t, 20, outcomes[3].Result.Delta)

	snaps, err := db.ListSnapshots(context.Background())
	require.NoError(t, err)
	assert.Len(t, snaps, 3)
}

func TestPoll_RunsImmediatelyAndStopsOnCancel(t *testing.T) {
	fetcher := &perUserFetcher{stats: map[string]int{"alice": 10}}
	s := newTestSyncer(t, openTestDB(t), fetcher, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cycles := make(chan []Outcome, 10)
	done := make(chan error, 1)
	go func() {
		done <- s.Poll(ctx, 20*time.Millisecond, []string{"alice"}, 1, func(o []Outcome) { cycles <- o })
	}()

	for i := 0; i < 2; i++ {
		select {
		case o := <-cycles:
			require.Len(t, o, 1)
			assert.NoError(t, o[0].Err)
		case <-time.After(5 * time.Second):
			t.Fatal("poll cycle did not run")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not stop")
	}
}

func TestPoll_RejectsNonPositiveInterval(t *testing.T) {
	s := newTestSyncer(t, openTestDB(t), &perUserFetcher{}, nil, nil)
	err := s.Poll(context.Background(), 0, []string{"alice"}, 1, nil)
	assert.Error(t, err)
}
