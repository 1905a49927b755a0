package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sw33tLie/lctracker/internal/utils"
	"github.com/sw33tLie/lctracker/pkg/storage"
	"github.com/sw33tLie/lctracker/pkg/syncing"
)

const defaultSyncTimeout = 60 * time.Second

// Syncer runs one sync. *syncing.Syncer satisfies it.
type Syncer interface {
	Sync(ctx context.Context, username string) (*syncing.Result, error)
}

// Reader serves the read-only dashboard endpoints. *storage.DB satisfies it.
type Reader interface {
	GetSnapshot(ctx context.Context, username string) (*storage.Snapshot, error)
	ListSnapshots(ctx context.Context) ([]storage.Snapshot, error)
	ListSolveEvents(ctx context.Context, username string, limit int) ([]storage.SolveEvent, error)
	ListSyncEvents(ctx context.Context, username string, limit int) ([]storage.SyncEvent, error)
	ListRecentSubmissions(ctx context.Context, username string, limit int) ([]storage.RecentSubmission, error)
}

// Server exposes the sync endpoint and the read API. A nil Syncer or Reader
// means the store is not configured, and the matching endpoints answer 500.
type Server struct {
	Syncer      Syncer
	Reader      Reader
	SyncTimeout time.Duration
}

func New(syncer Syncer, reader Reader) *Server {
	return &Server{
		Syncer:      syncer,
		Reader:      reader,
		SyncTimeout: defaultSyncTimeout,
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /sync", s.handleSync)
	mux.HandleFunc("GET /api/sync", s.handleSync)
	mux.HandleFunc("GET /api/snapshots", s.handleSnapshots)
	mux.HandleFunc("GET /api/users/{username}", s.handleUser)

	return mux
}

// Start serves on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.Log.Infof("Starting server on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
