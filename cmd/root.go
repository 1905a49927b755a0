package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/lctracker/internal/utils"
	"github.com/sw33tLie/lctracker/pkg/providers"
	"github.com/sw33tLie/lctracker/pkg/providers/alfa"
	"github.com/sw33tLie/lctracker/pkg/providers/heroku"
	"github.com/sw33tLie/lctracker/pkg/providers/leetcode"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lctracker",
	Short: "Track LeetCode progress across users.",
	Long: `lctracker polls LeetCode statistics for a set of users, keeps the latest snapshot
of each one in SQLite and records solve and sync history over time.

Stats come from LeetCode's GraphQL API first, then alfa-leetcode-api and
leetcode-stats-api as fallbacks.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.lctracker.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("proxy", "", "", "HTTP Proxy for provider requests (Useful for debugging. Example: http://127.0.0.1:8080)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().String("dbpath", "", "Path to SQLite DB file (default: ~/.config/lctracker/lctracker.sqlite)")
	viper.BindPFlag("db.path", rootCmd.PersistentFlags().Lookup("dbpath"))
	viper.BindPFlag("http.proxy", rootCmd.PersistentFlags().Lookup("proxy"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".lctracker")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("lctracker")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.lctracker.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s\n", err)
			}
		} else {
			fmt.Printf("Error reading config file: %s\n", err)
		}
	}

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	if err := utils.SetLogLevel(levelString); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func setDefaults() {
	viper.SetDefault("db.path", "")
	viper.SetDefault("server.listen", ":8080")
	viper.SetDefault("server.sync_timeout", 60*time.Second)
	viper.SetDefault("http.timeout", 15*time.Second)
	viper.SetDefault("http.retry_max", 0)
	viper.SetDefault("providers.order", []string{
		string(providers.SourceLeetCodeGraphQL),
		string(providers.SourceAlfa),
		string(providers.SourceHeroku),
	})
	viper.SetDefault("providers.leetcode.endpoint", leetcode.DefaultEndpoint)
	viper.SetDefault("providers.alfa.endpoint", alfa.DefaultEndpoint)
	viper.SetDefault("providers.heroku.endpoint", heroku.DefaultEndpoint)
	viper.SetDefault("poll.usernames", []string{})
	viper.SetDefault("poll.interval", 6*time.Hour)
	viper.SetDefault("poll.concurrency", 5)
}
