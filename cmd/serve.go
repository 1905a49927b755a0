package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sw33tLie/lctracker/internal/server"
	"github.com/sw33tLie/lctracker/internal/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API (GET /sync?username=...)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(nil, nil)
		srv.SyncTimeout = viper.GetDuration("server.sync_timeout")

		db, dbPath, err := openDB()
		if err != nil {
			// Keep serving so clients get a clear 500 instead of a refused connection.
			utils.Log.Errorf("Database unavailable (%s): %v", dbPath, err)
		} else {
			defer db.Close()

			syncer, err := newSyncer(db)
			if err != nil {
				return err
			}
			srv.Syncer = syncer
			srv.Reader = db

			pollInterval := durationFlagOr(cmd, "poll-interval", "poll.interval")
			usernames := utils.SplitList(viper.GetStringSlice("poll.usernames"))
			if withPoller, _ := cmd.Flags().GetBool("poll"); withPoller && len(usernames) > 0 {
				concurrency := viper.GetInt("poll.concurrency")
				go func() {
					if err := syncer.Poll(ctx, pollInterval, usernames, concurrency, nil); err != nil && !errors.Is(err, context.Canceled) {
						utils.Log.Errorf("Background poller stopped: %v", err)
					}
				}()
			}
		}

		return srv.Start(ctx, viper.GetString("server.listen"))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().Bool("poll", false, "Also sync poll.usernames in the background every poll.interval")
	serveCmd.Flags().Duration("poll-interval", 0, "Time between background poll cycles (overrides poll.interval)")
	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}
