package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sw33tLie/lctracker/internal/utils"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Interact with the lctracker database",
}

// shellCmd opens sqlite3 on the tracker database. Extra arguments are run as
// a single statement instead of starting an interactive session.
var shellCmd = &cobra.Command{
	Use:   "shell [sql]",
	Short: "Open sqlite3 on the lctracker database, or run one statement",
	Example: `  lctracker db shell
  lctracker db shell "SELECT username, total_solved FROM leetcode_snapshot"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbFile, err := utils.GetAbsDBPath(viper.GetString("db.path"))
		if err != nil {
			return err
		}
		if _, err := os.Stat(dbFile); err != nil {
			return fmt.Errorf("no database at %s yet, run `lctracker sync` first", dbFile)
		}

		sqlite3, err := exec.LookPath("sqlite3")
		if err != nil {
			return errors.New("db shell needs the sqlite3 binary on PATH")
		}

		sqliteArgs := []string{"-header", "-column", dbFile}
		if len(args) > 0 {
			sqliteArgs = append(sqliteArgs, strings.Join(args, " "))
		} else {
			utils.Log.Infof("Tables: leetcode_snapshot, solve_history, sync_history, recent_submissions (%s)", dbFile)
		}

		c := exec.Command(sqlite3, sqliteArgs...)
		c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
		return c.Run()
	},
}

// dbStatsCmd represents the stats command
var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints per-user counts of what is stored in the database.",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats(context.Background())
		if err != nil {
			return err
		}

		if len(stats) == 0 {
			fmt.Println("No users synced yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "USERNAME\tSOLVED\tLAST DELTA\tSOLVE EVENTS\tSYNC EVENTS\tSUBMISSIONS\tUPDATED\t")

		var totalSolveEvents, totalSyncEvents, totalSubmissions int
		for _, s := range stats {
			fmt.Fprintf(w, "%s\t%d\t%+d\t%d\t%d\t%d\t%s\t\n",
				s.Username, s.TotalSolved, s.LastDelta, s.SolveEvents, s.SyncEvents, s.Submissions,
				s.UpdatedAt.Local().Format("2006-01-02 15:04"))
			totalSolveEvents += s.SolveEvents
			totalSyncEvents += s.SyncEvents
			totalSubmissions += s.Submissions
		}

		fmt.Fprintln(w, " \t \t \t \t \t \t \t")
		fmt.Fprintf(w, "TOTAL\t \t \t%d\t%d\t%d\t \t\n", totalSolveEvents, totalSyncEvents, totalSubmissions)

		w.Flush()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(shellCmd)
	dbCmd.AddCommand(dbStatsCmd)
}
