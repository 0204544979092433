package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/notekeeper/internal/notes"
)

var (
	remindAt   string
	remindIn   time.Duration
	remindAdd  bool
	remindAll  bool
	remindJSON bool
)

// Accepted --at layouts, tried in order. The last two are local time.
var remindLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02T15:04"}

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Manage reminders",
}

var remindSetCmd = &cobra.Command{
	Use:   "set NOTE_ID",
	Short: "Set the reminder of a note, replacing any it already has",
	Long: `Set the reminder of a note. Use --at for a wall-clock time or --in for a
delay from now. With --add the note keeps its existing reminders.

Alerts are delivered by the running agent; a reminder set here is armed
the next time the agent starts or its schedules are restored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := reminderTime(time.Now())
		if err != nil {
			return err
		}

		set := env.service.SetReminder
		if remindAdd {
			set = env.service.CreateReminder
		}
		r, err := set(cmd.Context(), args[0], at)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", r.ID, r.Date.Local().Format(time.RFC1123))
		return nil
	},
}

var remindListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reminders, earliest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rs := env.service.ListReminders(ctx)
		if !remindAll {
			rs = notes.ActiveReminders(rs)
		}
		views := notes.SortedReminders(rs, env.service.ListNotes(ctx))
		if remindJSON {
			return writeJSON(cmd.OutOrStdout(), views)
		}

		now := time.Now()
		for _, v := range views {
			state := "pending"
			switch {
			case v.IsCompleted:
				state = "done"
			case v.IsDue(now):
				state = "due"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-7s  %s  %s\n",
				v.ID, state, v.Date.Local().Format("2006-01-02 15:04"), v.NoteTitle)
		}
		return nil
	},
}

var remindDoneCmd = &cobra.Command{
	Use:   "done ID",
	Short: "Mark a reminder completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := env.service.CompleteReminder(cmd.Context(), args[0])
		return err
	},
}

var remindRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a reminder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return env.service.DeleteReminder(cmd.Context(), args[0])
	},
}

// reminderTime resolves --at or --in against now.
func reminderTime(now time.Time) (time.Time, error) {
	switch {
	case remindAt != "" && remindIn != 0:
		return time.Time{}, errors.New("use either --at or --in, not both")
	case remindIn != 0:
		return now.Add(remindIn).UTC(), nil
	case remindAt != "":
		for _, layout := range remindLayouts {
			if t, err := time.ParseInLocation(layout, remindAt, time.Local); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("cannot parse --at %q, expected RFC 3339 or \"2006-01-02 15:04\"", remindAt)
	default:
		return time.Time{}, errors.New("one of --at or --in is required")
	}
}

func init() {
	rootCmd.AddCommand(remindCmd)
	remindCmd.AddCommand(remindSetCmd, remindListCmd, remindDoneCmd, remindRmCmd)

	remindSetCmd.Flags().StringVar(&remindAt, "at", "", "When to fire, e.g. \"2026-10-15 09:30\"")
	remindSetCmd.Flags().DurationVar(&remindIn, "in", 0, "Fire after this delay, e.g. 90m")
	remindSetCmd.Flags().BoolVar(&remindAdd, "add", false, "Keep the note's existing reminders")
	remindListCmd.Flags().BoolVar(&remindAll, "all", false, "Include completed reminders")
	remindListCmd.Flags().BoolVar(&remindJSON, "json", false, "Output in JSON format")
}
