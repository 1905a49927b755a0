package utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// lockRetryDelay is how often a waiting sync checks whether the holder is done.
const lockRetryDelay = 500 * time.Millisecond

// SyncLock keeps two lctracker sync or poll processes from writing the same
// database at once. The lock lives next to the database as "<db>.lock".
type SyncLock struct {
	fl *flock.Flock
}

// AcquireSyncLock takes the sync lock for the database at dbPath. If another
// process holds it, it logs once and waits until the lock is free or ctx is done.
func AcquireSyncLock(ctx context.Context, dbPath string) (*SyncLock, error) {
	dbFile, err := GetAbsDBPath(dbPath)
	if err != nil {
		return nil, fmt.Errorf("resolving database path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dbFile), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	fl := flock.New(dbFile + ".lock")
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", fl.Path(), err)
	}
	if !ok {
		Log.WithField("lock", fl.Path()).Warn("Another lctracker sync is running against this database, waiting")
		ok, err = fl.TryLockContext(ctx, lockRetryDelay)
		if err != nil {
			return nil, fmt.Errorf("waiting for %s: %w", fl.Path(), err)
		}
		if !ok {
			return nil, fmt.Errorf("waiting for %s: %w", fl.Path(), ctx.Err())
		}
	}
	return &SyncLock{fl: fl}, nil
}

// Release gives the lock back. The lock file itself is left in place.
func (l *SyncLock) Release() error {
	if err := l.fl.Unlock(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("unlocking %s: %w", l.fl.Path(), err)
	}
	return nil
}

// GetAbsDBPath turns the configured db.path into an absolute path. Empty
// means ~/.config/lctracker/lctracker.sqlite.
func GetAbsDBPath(dbPath string) (string, error) {
	if dbPath != "" {
		return filepath.Abs(dbPath)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "lctracker", "lctracker.sqlite"), nil
}
