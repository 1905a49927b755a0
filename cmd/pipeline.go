package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sw33tLie/lctracker/internal/utils"
	"github.com/sw33tLie/lctracker/pkg/providers"
	"github.com/sw33tLie/lctracker/pkg/providers/alfa"
	"github.com/sw33tLie/lctracker/pkg/providers/heroku"
	"github.com/sw33tLie/lctracker/pkg/providers/leetcode"
	"github.com/sw33tLie/lctracker/pkg/storage"
	"github.com/sw33tLie/lctracker/pkg/syncing"
	"github.com/sw33tLie/lctracker/pkg/whttp"
)

// openDB opens the configured database, creating it if needed.
func openDB() (*storage.DB, string, error) {
	dbPath, err := utils.GetAbsDBPath(viper.GetString("db.path"))
	if err != nil {
		return nil, "", err
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, dbPath, err
	}
	return db, dbPath, nil
}

// newSyncer wires the configured providers, in configured order, to db.
func newSyncer(db *storage.DB) (*syncing.Syncer, error) {
	client, err := whttp.NewClient(whttp.Options{
		Timeout:  viper.GetDuration("http.timeout"),
		RetryMax: viper.GetInt("http.retry_max"),
		Proxy:    viper.GetString("http.proxy"),
		Log:      utils.Log,
	})
	if err != nil {
		return nil, err
	}

	lc := leetcode.NewProvider(client, viper.GetString("providers.leetcode.endpoint"))
	ordered, err := providers.Ordered(
		utils.SplitList(viper.GetStringSlice("providers.order")),
		lc,
		alfa.NewProvider(client, viper.GetString("providers.alfa.endpoint")),
		heroku.NewProvider(client, viper.GetString("providers.heroku.endpoint")),
	)
	if err != nil {
		return nil, fmt.Errorf("providers.order: %w", err)
	}

	return syncing.New(syncing.Config{
		Fetcher: providers.NewFallback(utils.Log, ordered...),
		Store:   db,
		// Recent submissions only come from LeetCode itself.
		Feed: lc,
		Log:  utils.Log,
	})
}

// durationFlagOr prefers an explicitly set flag over the config key.
func durationFlagOr(cmd *cobra.Command, flag, key string) time.Duration {
	if cmd.Flags().Changed(flag) {
		d, _ := cmd.Flags().GetDuration(flag)
		return d
	}
	return viper.GetDuration(key)
}
