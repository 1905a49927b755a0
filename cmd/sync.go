package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sw33tLie/lctracker/internal/utils"
	"github.com/sw33tLie/lctracker/pkg/syncing"
)

// syncCmd implements: lctracker sync <username> [username...]
var syncCmd = &cobra.Command{
	Use:   "sync [usernames...]",
	Short: "Sync one or more users now and print the results",
	Long:  "Sync one or more users now. Without arguments, syncs poll.usernames from the config file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		usernames := args
		if len(usernames) == 0 {
			usernames = utils.SplitList(viper.GetStringSlice("poll.usernames"))
		}
		if len(usernames) == 0 {
			return errors.New("no usernames given and poll.usernames is empty")
		}
		for _, u := range usernames {
			if err := syncing.ValidateUsername(u); err != nil {
				return fmt.Errorf("%s: %w", u, err)
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return withLockedSyncer(ctx, func(s *syncing.Syncer) error {
			concurrency, _ := cmd.Flags().GetInt("concurrency")
			outcomes := s.SyncAll(ctx, usernames, concurrency)
			printOutcomes(outcomes)
			for _, o := range outcomes {
				if o.Err != nil {
					return errors.New("some users failed to sync")
				}
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().Int("concurrency", 5, "Number of users synced at the same time")
}

// withLockedSyncer opens the database under the process lock and hands a
// ready Syncer to fn.
func withLockedSyncer(ctx context.Context, fn func(*syncing.Syncer) error) error {
	lock, err := utils.AcquireSyncLock(ctx, viper.GetString("db.path"))
	if err != nil {
		return err
	}
	defer lock.Release()

	db, _, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := newSyncer(db)
	if err != nil {
		return err
	}
	return fn(s)
}

func printOutcomes(outcomes []syncing.Outcome) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "USERNAME\tSOLVED\tDELTA\tSOURCE\tMESSAGE\t")
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\t%v\t\n", o.Username, o.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%+d\t%s\t%s\t\n", o.Username, o.Result.Snapshot.TotalSolved, o.Result.Delta, o.Result.Source, o.Result.Message)
	}
	w.Flush()
}
