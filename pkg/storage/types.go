package storage

import "time"

// Snapshot is the latest known stats for one username (leetcode_snapshot).
type Snapshot struct {
	Username           string    `json:"username"`
	TotalSolved        int       `json:"total_solved"`
	EasySolved         int       `json:"easy_solved"`
	MediumSolved       int       `json:"medium_solved"`
	HardSolved         int       `json:"hard_solved"`
	TotalEasy          int       `json:"total_easy"`
	TotalMedium        int       `json:"total_medium"`
	TotalHard          int       `json:"total_hard"`
	AcceptanceRate     float64   `json:"acceptance_rate"`
	Ranking            int       `json:"ranking"`
	ContributionPoints int       `json:"contribution_points"`
	Reputation         int       `json:"reputation"`
	LastDelta          int       `json:"last_delta"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// SolveEvent records positive progress between two syncs (solve_history).
type SolveEvent struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	ProblemsSolved int       `json:"problems_solved"`
	TotalAtTime    int       `json:"total_at_time"`
	SolvedAt       time.Time `json:"solved_at"`
}

// SyncEvent is one entry of the deduplicated sync audit trail (sync_history).
type SyncEvent struct {
	ID                 int64     `json:"id"`
	Username           string    `json:"username"`
	TotalSolved        int       `json:"total_solved"`
	EasySolved         int       `json:"easy_solved"`
	MediumSolved       int       `json:"medium_solved"`
	HardSolved         int       `json:"hard_solved"`
	AcceptanceRate     float64   `json:"acceptance_rate"`
	Ranking            int       `json:"ranking"`
	ContributionPoints int       `json:"contribution_points"`
	Reputation         int       `json:"reputation"`
	SyncedAt           time.Time `json:"synced_at"`
}

// RecentSubmission is a best-effort guess at one newly solved problem
// (recent_submissions). Difficulty is never filled in.
type RecentSubmission struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	ProblemTitle  string    `json:"problem_title"`
	ProblemNumber int       `json:"problem_number"`
	ProblemSlug   string    `json:"problem_slug"`
	Difficulty    string    `json:"difficulty"`
	SubmittedAt   time.Time `json:"submitted_at"`
	SyncedAt      time.Time `json:"synced_at"`
}
