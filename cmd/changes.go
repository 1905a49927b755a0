package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/lctracker/pkg/syncing"
)

var changesCmd = &cobra.Command{
	Use:   "changes",
	Short: "Show recent solve events (default 50)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		username, _ := cmd.Flags().GetString("user")
		if username != "" {
			if err := syncing.ValidateUsername(username); err != nil {
				return err
			}
		}

		db, _, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		events, err := db.ListSolveEvents(context.Background(), username, limit)
		if err != nil {
			return err
		}
		for _, e := range events {
			ts := e.SolvedAt.Local().Format("2006-01-02 15:04:05")
			fmt.Printf("%s  %-20s  +%d  (total %d)\n", ts, e.Username, e.ProblemsSolved, e.TotalAtTime)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(changesCmd)
	changesCmd.Flags().Int("limit", 50, "Number of recent events to show")
	changesCmd.Flags().StringP("user", "u", "", "Only show events for this username")
}
