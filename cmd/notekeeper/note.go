package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nhle/notekeeper/internal/model"
	"github.com/nhle/notekeeper/internal/notes"
)

var (
	noteTitle   string
	noteContent string
	noteColor   string
	noteQuery   string
	noteJSON    bool
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Create, list and edit notes",
}

var noteAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a note",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := env.service.CreateNote(cmd.Context(), model.NoteDraft{
			Title:   noteTitle,
			Content: noteContent,
			Color:   noteColor,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), n.ID)
		return nil
	},
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, pinned first and most recent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		all := notes.SortByUpdated(notes.FilterNotes(env.service.ListNotes(cmd.Context()), noteQuery))
		if noteJSON {
			return writeJSON(cmd.OutOrStdout(), all)
		}

		pinned, others := notes.SplitPinned(all)
		out := cmd.OutOrStdout()
		for _, n := range pinned {
			printNote(out, n, "*")
		}
		for _, n := range others {
			printNote(out, n, " ")
		}
		return nil
	},
}

var noteEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change a note's title, content or color",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := env.service.GetNote(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("title") {
			n.Title = noteTitle
		}
		if flags.Changed("content") {
			n.Content = noteContent
		}
		if flags.Changed("color") {
			n.Color = noteColor
		}
		_, err = env.service.UpdateNote(cmd.Context(), n)
		return err
	},
}

var notePinCmd = &cobra.Command{
	Use:   "pin ID",
	Short: "Toggle whether a note is pinned",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := env.service.GetNote(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		n, err = env.service.TogglePin(cmd.Context(), n)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "pinned: %t\n", n.IsPinned)
		return nil
	},
}

var noteRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a note and its reminders",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return env.service.DeleteNote(cmd.Context(), args[0])
	},
}

func printNote(w io.Writer, n model.Note, marker string) {
	title := n.Title
	if title == "" {
		title = notes.UntitledNote
	}
	bell := ""
	if n.HasReminder() {
		bell = " [reminder]"
	}
	fmt.Fprintf(w, "%s %s  %s%s\n", marker, n.ID, title, bell)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(noteCmd)
	noteCmd.AddCommand(noteAddCmd, noteListCmd, noteEditCmd, notePinCmd, noteRmCmd)

	for _, c := range []*cobra.Command{noteAddCmd, noteEditCmd} {
		c.Flags().StringVar(&noteTitle, "title", "", "Note title")
		c.Flags().StringVar(&noteContent, "content", "", "Note body")
		c.Flags().StringVar(&noteColor, "color", "", "Note color, e.g. #ffeb3b")
	}
	noteListCmd.Flags().StringVarP(&noteQuery, "query", "q", "", "Only notes whose title or content contains this text")
	noteListCmd.Flags().BoolVar(&noteJSON, "json", false, "Output in JSON format")
}
