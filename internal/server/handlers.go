package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sw33tLie/lctracker/internal/utils"
	"github.com/sw33tLie/lctracker/pkg/providers"
	"github.com/sw33tLie/lctracker/pkg/storage"
	"github.com/sw33tLie/lctracker/pkg/syncing"
)

const defaultHistoryLimit = 10

type errorResponse struct {
	Error string `json:"error"`
}

type SyncResponse struct {
	Success     bool             `json:"success"`
	Username    string           `json:"username"`
	TotalSolved int              `json:"totalSolved"`
	Snapshot    storage.Snapshot `json:"snapshot"`
	Delta       int              `json:"delta"`
	Source      providers.Source `json:"source"`
	Message     string           `json:"message"`
}

type UserResponse struct {
	Snapshot          storage.Snapshot           `json:"snapshot"`
	SolveHistory      []storage.SolveEvent       `json:"solve_history"`
	SyncHistory       []storage.SyncEvent        `json:"sync_history"`
	RecentSubmissions []storage.RecentSubmission `json:"recent_submissions"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utils.Log.Warnf("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if err := syncing.ValidateUsername(username); err != nil {
		if errors.Is(err, syncing.ErrMissingUsername) {
			writeError(w, http.StatusBadRequest, "Username parameter is required")
		} else {
			writeError(w, http.StatusBadRequest, "Invalid username format")
		}
		return
	}

	if s.Syncer == nil {
		writeError(w, http.StatusInternalServerError, "Database connection not configured")
		return
	}

	timeout := s.SyncTimeout
	if timeout <= 0 {
		timeout = defaultSyncTimeout
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	res, err := s.Syncer.Sync(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, providers.ErrAllProvidersFailed):
			writeError(w, http.StatusNotFound, fmt.Sprintf("Failed to fetch LeetCode data for %s: %v", username, err))
		case errors.Is(err, storage.ErrStoreUnavailable):
			writeError(w, http.StatusInternalServerError, "Database connection not configured")
		default:
			utils.Log.WithField("username", username).Errorf("Sync error: %v", err)
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, SyncResponse{
		Success:     true,
		Username:    res.Username,
		TotalSolved: res.Snapshot.TotalSolved,
		Snapshot:    res.Snapshot,
		Delta:       res.Delta,
		Source:      res.Source,
		Message:     res.Message,
	})
}

func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	if s.Reader == nil {
		writeError(w, http.StatusInternalServerError, "Database connection not configured")
		return
	}

	snapshots, err := s.Reader.ListSnapshots(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snapshots)
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if err := syncing.ValidateUsername(username); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid username format")
		return
	}

	if s.Reader == nil {
		writeError(w, http.StatusInternalServerError, "Database connection not configured")
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	ctx := r.Context()
	snap, err := s.Reader.GetSnapshot(ctx, username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if snap == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("No data for %s yet. Sync it first.", username))
		return
	}

	resp := UserResponse{Snapshot: *snap}
	if resp.SolveHistory, err = s.Reader.ListSolveEvents(ctx, username, limit); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if resp.SyncHistory, err = s.Reader.ListSyncEvents(ctx, username, limit); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if resp.RecentSubmissions, err = s.Reader.ListRecentSubmissions(ctx, username, limit); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
