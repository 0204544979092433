package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nhle/notekeeper/internal/model"
)

var (
	cfgPath string
	verbose bool

	// env is opened before every subcommand and closed after it.
	env *environment
)

// rootCmd runs the reminder agent when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "notekeeper",
	Short: "Notes with wall-clock reminders",
	Long: `notekeeper stores notes and reminders locally and raises an alert
when a reminder comes due. Without a subcommand it runs the reminder agent.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := model.LoadConfig(cfgPath)
		if err != nil {
			return err
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel(cfg.Log.Level),
		}))
		slog.SetDefault(logger)

		env, err = openEnvironment(cfgPath, cfg, logger)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if env == nil {
			return nil
		}
		return env.Close()
	},
	RunE: runAgent,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fatal("notekeeper", closeAfterFailure(env, err))
	}
}

// closeAfterFailure releases e after a failed command. PersistentPostRunE does
// not run when RunE fails, so the environment is still open here.
func closeAfterFailure(e *environment, err error) error {
	if e == nil {
		return err
	}
	if cerr := e.Close(); cerr != nil {
		return errors.Join(err, cerr)
	}
	return err
}

// logLevel maps the configured level name to a slog level. --verbose wins.
func logLevel(name string) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", model.DefaultConfigPath(), "Path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}
