package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/notekeeper/internal/app"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the reminder agent in the foreground",
	Args:  cobra.NoArgs,
	RunE:  runAgent,
}

// runAgent re-arms every pending reminder and then waits for alerts until
// the user quits.
func runAgent(cmd *cobra.Command, args []string) error {
	count, err := env.service.RestoreSchedules(cmd.Context())
	if err != nil {
		env.logger.Warn("some reminders could not be scheduled", "error", err)
	}
	env.logger.Info("reminders armed", "count", count)

	p := tea.NewProgram(
		app.New(env.service, env.scheduler, env.prefs, env.logger),
		tea.WithoutRenderer(),
		tea.WithContext(cmd.Context()),
	)
	// A cancelled context (SIGINT, SIGTERM) is a normal shutdown.
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running agent: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)
}
