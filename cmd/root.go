// Package cmd provides the CLI commands for habitd.
package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/manav03panchal/habitd/internal/config"
	"github.com/manav03panchal/habitd/internal/logging"
	"github.com/manav03panchal/habitd/internal/notify"
	"github.com/manav03panchal/habitd/internal/runtime"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagDebug  bool
	flagJSON   bool
	flagDBPath string
)

// ctx is the shared runtime context.
var ctx *runtime.Context

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "habitd",
	Short: "Habit-tracking backend with scheduled reminders",
	Long: `habitd is a habit-tracking backend. Users create recurring habits,
optionally pair a habit with a pleasant reward habit, and receive
scheduled telegram reminders.

Examples:
  habitd serve
  habitd remind
  habitd user create --username alice`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "completion" || cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		// Optional .env file for local development.
		_ = godotenv.Load()

		logCfg := logging.DefaultConfig()
		if flagDebug {
			logCfg = logging.DebugConfig()
		}
		logCfg.JSON = flagJSON
		logging.Init(logCfg)

		opts := runtime.DefaultOptions()
		opts.Config = config.Load()
		if flagDBPath != "" {
			opts.DBPath = flagDBPath
		}
		cfg := opts.Config
		client := notify.NewHTTPClient(cfg.Notify.SendTimeout, cfg.Notify.MaxRetries, cfg.Notify.RetryDelays)
		opts.Sender = notify.NewTelegramSender(cfg.Notify.TelegramToken, client)

		var err error
		ctx, err = runtime.New(opts)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if ctx != nil {
			return ctx.Close()
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "log-json", false,
		"Log in JSON format")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "",
		"Database directory (default: XDG data dir)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("habitd %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
	},
}
