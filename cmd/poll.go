package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sw33tLie/lctracker/internal/utils"
	"github.com/sw33tLie/lctracker/pkg/syncing"
)

// pollCmd implements: lctracker poll
// Runs in the foreground until interrupted, syncing poll.usernames every
// poll.interval.
var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Periodically sync the users listed in poll.usernames",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return errors.New("poll takes no arguments, set poll.usernames in the config file")
		}

		usernames := utils.SplitList(viper.GetStringSlice("poll.usernames"))
		if len(usernames) == 0 {
			utils.Log.Info("No users to poll. Add them to poll.usernames in ~/.lctracker.yaml")
			return nil
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		interval := durationFlagOr(cmd, "interval", "poll.interval")
		concurrency := viper.GetInt("poll.concurrency")
		verbose, _ := cmd.Flags().GetBool("print")

		return withLockedSyncer(ctx, func(s *syncing.Syncer) error {
			var onCycle func([]syncing.Outcome)
			if verbose {
				onCycle = printOutcomes
			}
			err := s.Poll(ctx, interval, usernames, concurrency, onCycle)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(pollCmd)
	pollCmd.Flags().Duration("interval", 0, "Time between poll cycles (overrides poll.interval)")
	pollCmd.Flags().Bool("print", false, "Print a result table after every cycle")
}
