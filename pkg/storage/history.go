package storage

import (
	"context"
	"database/sql"
	"errors"
)

// InsertSolveEvent appends a row to solve_history.
func (d *DB) InsertSolveEvent(ctx context.Context, e SolveEvent) error {
	_, err := d.sql.ExecContext(ctx, `INSERT INTO solve_history(username, problems_solved, total_at_time, solved_at) VALUES(?,?,?,?)`,
		e.Username, e.ProblemsSolved, e.TotalAtTime, formatTime(e.SolvedAt))
	return err
}

// ListSolveEvents returns the newest solve events. An empty username lists
// events across all users.
func (d *DB) ListSolveEvents(ctx context.Context, username string, limit int) ([]SolveEvent, error) {
	q := "SELECT id, username, problems_solved, total_at_time, solved_at FROM solve_history"
	args := []interface{}{}
	if username != "" {
		q += " WHERE username = ?"
		args = append(args, username)
	}
	q += " ORDER BY solved_at DESC, id DESC LIMIT ?"
	args = append(args, clampLimit(limit))

	rows, err := d.sql.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []SolveEvent{}
	for rows.Next() {
		var e SolveEvent
		var solvedAt string
		if err := rows.Scan(&e.ID, &e.Username, &e.ProblemsSolved, &e.TotalAtTime, &solvedAt); err != nil {
			return nil, err
		}
		e.SolvedAt = parseTime(solvedAt)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

const syncColumns = "id, username, total_solved, easy_solved, medium_solved, hard_solved, acceptance_rate, ranking, contribution_points, reputation, synced_at"

func scanSyncEvent(row rowScanner) (SyncEvent, error) {
	var e SyncEvent
	var syncedAt string
	err := row.Scan(&e.ID, &e.Username, &e.TotalSolved, &e.EasySolved, &e.MediumSolved, &e.HardSolved,
		&e.AcceptanceRate, &e.Ranking, &e.ContributionPoints, &e.Reputation, &syncedAt)
	if err != nil {
		return SyncEvent{}, err
	}
	e.SyncedAt = parseTime(syncedAt)
	return e, nil
}

// LatestSyncEvent returns the most recent sync_history row for username, or
// nil if none was logged yet.
func (d *DB) LatestSyncEvent(ctx context.Context, username string) (*SyncEvent, error) {
	row := d.sql.QueryRowContext(ctx, "SELECT "+syncColumns+" FROM sync_history WHERE username = ? ORDER BY synced_at DESC, id DESC LIMIT 1", username)
	e, err := scanSyncEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// InsertSyncEvent appends a row to sync_history.
func (d *DB) InsertSyncEvent(ctx context.Context, e SyncEvent) error {
	_, err := d.sql.ExecContext(ctx, `INSERT INTO sync_history(username, total_solved, easy_solved, medium_solved, hard_solved, acceptance_rate, ranking, contribution_points, reputation, synced_at) VALUES(?,?,?,?,?,?,?,?,?,?)`,
		e.Username, e.TotalSolved, e.EasySolved, e.MediumSolved, e.HardSolved,
		e.AcceptanceRate, e.Ranking, e.ContributionPoints, e.Reputation, formatTime(e.SyncedAt))
	return err
}

// ListSyncEvents returns the newest sync_history rows for username.
func (d *DB) ListSyncEvents(ctx context.Context, username string, limit int) ([]SyncEvent, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT "+syncColumns+" FROM sync_history WHERE username = ? ORDER BY synced_at DESC, id DESC LIMIT ?", username, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []SyncEvent{}
	for rows.Next() {
		e, err := scanSyncEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// InsertRecentSubmissions stores all rows in one transaction.
func (d *DB) InsertRecentSubmissions(ctx context.Context, subs []RecentSubmission) (err error) {
	if len(subs) == 0 {
		return nil
	}

	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO recent_submissions(username, problem_title, problem_number, problem_slug, difficulty, submitted_at, synced_at) VALUES(?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range subs {
		if _, err = stmt.ExecContext(ctx, s.Username, s.ProblemTitle, s.ProblemNumber, s.ProblemSlug, s.Difficulty, formatTime(s.SubmittedAt), formatTime(s.SyncedAt)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListRecentSubmissions returns the newest recent_submissions rows for username.
func (d *DB) ListRecentSubmissions(ctx context.Context, username string, limit int) ([]RecentSubmission, error) {
	rows, err := d.sql.QueryContext(ctx, `SELECT id, username, problem_title, problem_number, problem_slug, difficulty, submitted_at, synced_at FROM recent_submissions WHERE username = ? ORDER BY submitted_at DESC, id DESC LIMIT ?`, username, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := []RecentSubmission{}
	for rows.Next() {
		var s RecentSubmission
		var submittedAt, syncedAt string
		if err := rows.Scan(&s.ID, &s.Username, &s.ProblemTitle, &s.ProblemNumber, &s.ProblemSlug, &s.Difficulty, &submittedAt, &syncedAt); err != nil {
			return nil, err
		}
		s.SubmittedAt = parseTime(submittedAt)
		s.SyncedAt = parseTime(syncedAt)
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return subs, nil
}
