package syncing

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sw33tLie/lctracker/pkg/providers"
	"github.com/sw33tLie/lctracker/pkg/storage"
)

// statsChanged compares the fields the sync history is deduplicated on.
func statsChanged(last *storage.SyncEvent, stats providers.NormalizedStats) bool {
	return last == nil ||
		last.TotalSolved != stats.TotalSolved ||
		last.EasySolved != stats.EasySolved ||
		last.MediumSolved != stats.MediumSolved ||
		last.HardSolved != stats.HardSolved ||
		last.Ranking != stats.Ranking
}

// logSync appends a sync_history row unless nothing changed since the last
// one. Store errors are logged and swallowed. It reports whether a row was
// written.
func (s *Syncer) logSync(ctx context.Context, log logrus.FieldLogger, username string, stats providers.NormalizedStats, now time.Time) bool {
	last, err := s.store.LatestSyncEvent(ctx, username)
	if err != nil {
		log.Errorf("Failed to read last sync: %v", err)
		return false
	}

	if !statsChanged(last, stats) {
		log.Debug("Stats unchanged since last sync, skipping sync history")
		return false
	}

	err = s.store.InsertSyncEvent(ctx, storage.SyncEvent{
		Username:           username,
		TotalSolved:        stats.TotalSolved,
		EasySolved:         stats.EasySolved,
		MediumSolved:       stats.MediumSolved,
		HardSolved:         stats.HardSolved,
		AcceptanceRate:     stats.AcceptanceRate,
		Ranking:            stats.Ranking,
		ContributionPoints: stats.ContributionPoints,
		Reputation:         stats.Reputation,
		SyncedAt:           now,
	})
	if err != nil {
		log.Errorf("Failed to store sync history: %v", err)
		return false
	}
	return true
}
