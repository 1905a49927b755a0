package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const snapshotColumns = "username, total_solved, easy_solved, medium_solved, hard_solved, total_easy, total_medium, total_hard, acceptance_rate, ranking, contribution_points, reputation, last_delta, updated_at"

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSnapshot(row rowScanner) (Snapshot, error) {
	var s Snapshot
	var updatedAt string
	err := row.Scan(&s.Username, &s.TotalSolved, &s.EasySolved, &s.MediumSolved, &s.HardSolved,
		&s.TotalEasy, &s.TotalMedium, &s.TotalHard, &s.AcceptanceRate, &s.Ranking,
		&s.ContributionPoints, &s.Reputation, &s.LastDelta, &updatedAt)
	if err != nil {
		return Snapshot{}, err
	}
	s.UpdatedAt = parseTime(updatedAt)
	return s, nil
}

// GetSnapshot returns the stored snapshot for username, or nil if there is none.
func (d *DB) GetSnapshot(ctx context.Context, username string) (*Snapshot, error) {
	row := d.sql.QueryRowContext(ctx, "SELECT "+snapshotColumns+" FROM leetcode_snapshot WHERE username = ?", username)
	s, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpsertSnapshot replaces every column of the username's row.
func (d *DB) UpsertSnapshot(ctx context.Context, s Snapshot) error {
	_, err := d.sql.ExecContext(ctx, `
INSERT INTO leetcode_snapshot(`+snapshotColumns+`)
VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(username) DO UPDATE SET
  total_solved = excluded.total_solved,
  easy_solved = excluded.easy_solved,
  medium_solved = excluded.medium_solved,
  hard_solved = excluded.hard_solved,
  total_easy = excluded.total_easy,
  total_medium = excluded.total_medium,
  total_hard = excluded.total_hard,
  acceptance_rate = excluded.acceptance_rate,
  ranking = excluded.ranking,
  contribution_points = excluded.contribution_points,
  reputation = excluded.reputation,
  last_delta = excluded.last_delta,
  updated_at = excluded.updated_at`,
		s.Username, s.TotalSolved, s.EasySolved, s.MediumSolved, s.HardSolved,
		s.TotalEasy, s.TotalMedium, s.TotalHard, s.AcceptanceRate, s.Ranking,
		s.ContributionPoints, s.Reputation, s.LastDelta, formatTime(s.UpdatedAt))
	return err
}

// ListSnapshots returns every snapshot, highest total solved first.
func (d *DB) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT "+snapshotColumns+" FROM leetcode_snapshot ORDER BY total_solved DESC, username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := []Snapshot{}
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return snapshots, nil
}

type UserStats struct {
	Username    string
	TotalSolved int
	LastDelta   int
	SolveEvents int
	SyncEvents  int
	Submissions int
	UpdatedAt   time.Time
}

// GetStats summarizes what is stored for every tracked username.
func (d *DB) GetStats(ctx context.Context) ([]UserStats, error) {
	query := `
		SELECT
			s.username,
			s.total_solved,
			s.last_delta,
			(SELECT COUNT(*) FROM solve_history h WHERE h.username = s.username),
			(SELECT COUNT(*) FROM sync_history y WHERE y.username = s.username),
			(SELECT COUNT(*) FROM recent_submissions r WHERE r.username = s.username),
			s.updated_at
		FROM
			leetcode_snapshot s
		ORDER BY
			s.username;
	`
	rows, err := d.sql.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []UserStats
	for rows.Next() {
		var s UserStats
		var updatedAt string
		if err := rows.Scan(&s.Username, &s.TotalSolved, &s.LastDelta, &s.SolveEvents, &s.SyncEvents, &s.Submissions, &updatedAt); err != nil {
			return nil, err
		}
		s.UpdatedAt = parseTime(updatedAt)
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
