package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Log metrics for a day",
	Long: `Log metrics for a day. Only the flags you pass are written; anything
already logged for that day is kept.

Examples:
  healthctl add --steps 8200 --sleep 7.5
  healthctl add --date 2024-01-14 --mood good --notes "Evening run"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := entryFromFlags(cmd)
		if err != nil {
			return err
		}

		saved, err := store.SaveEntry(cmd.Context(), entry)
		if err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(cmd.OutOrStdout(), "%s Saved %s\n", green("✓"), saved.Date)
		printEntry(cmd.OutOrStdout(), *saved)
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <date>",
	Short: "Show the entry for a day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := domain.ParseDate(args[0])
		if err != nil {
			return err
		}

		entry, err := store.GetEntryByDate(cmd.Context(), date)
		if err != nil {
			return fmt.Errorf("%s: %w", date, err)
		}

		printEntry(cmd.OutOrStdout(), *entry)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <date>",
	Short: "Remove the entry for a day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := domain.ParseDate(args[0])
		if err != nil {
			return err
		}

		if err := store.DeleteEntry(cmd.Context(), date); err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted %s\n", green("✓"), date)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries, most recent first",
	Long: `List entries, most recent first.

Examples:
  healthctl list
  healthctl list --last 7
  healthctl list --from 2024-01-01 --to 2024-01-31`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		last, _ := cmd.Flags().GetInt("last")
		fromStr, _ := cmd.Flags().GetString("from")
		toStr, _ := cmd.Flags().GetString("to")

		var entries []domain.Entry
		var err error
		switch {
		case cmd.Flags().Changed("last"):
			entries, err = store.GetLastNDays(ctx, last)
		case fromStr != "" || toStr != "":
			from, to := domain.NewDate(1, 1, 1), domain.NewDate(9999, 12, 31)
			if fromStr != "" {
				if from, err = domain.ParseDate(fromStr); err != nil {
					return err
				}
			}
			if toStr != "" {
				if to, err = domain.ParseDate(toStr); err != nil {
					return err
				}
			}
			entries, err = store.GetEntriesInRange(ctx, from, to)
		default:
			entries = store.GetEntries(ctx)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Fprintf(out, "%s No entries\n", yellow("ℹ"))
			return nil
		}
		for _, e := range entries {
			printEntry(out, e)
		}
		return nil
	},
}

func init() {
	addCmd.Flags().String("date", "", "day to log (YYYY-MM-DD, default today)")
	addCmd.Flags().Float64("steps", 0, "step count")
	addCmd.Flags().Float64("heart-rate", 0, "resting heart rate in bpm")
	addCmd.Flags().Float64("sleep", 0, "hours slept")
	addCmd.Flags().Float64("water", 0, "glasses of water")
	addCmd.Flags().Float64("calories", 0, "calories eaten")
	addCmd.Flags().String("mood", "", "free-form mood")
	addCmd.Flags().String("notes", "", "free-form notes")

	listCmd.Flags().Int("last", 0, "only entries from the last N days")
	listCmd.Flags().String("from", "", "first day to include (YYYY-MM-DD)")
	listCmd.Flags().String("to", "", "last day to include (YYYY-MM-DD)")

	rootCmd.AddCommand(addCmd, getCmd, deleteCmd, listCmd)
}

// entryFromFlags sets only the fields whose flags were passed.
func entryFromFlags(cmd *cobra.Command) (domain.Entry, error) {
	flags := cmd.Flags()
	entry := domain.Entry{Date: store.Today()}

	if s, _ := flags.GetString("date"); s != "" {
		date, err := domain.ParseDate(s)
		if err != nil {
			return domain.Entry{}, err
		}
		entry.Date = date
	}

	numbers := []struct {
		flag  string
		field **float64
	}{
		{"steps", &entry.Steps},
		{"heart-rate", &entry.HeartRate},
		{"sleep", &entry.Sleep},
		{"water", &entry.Water},
		{"calories", &entry.Calories},
	}
	for _, n := range numbers {
		if flags.Changed(n.flag) {
			v, _ := flags.GetFloat64(n.flag)
			*n.field = domain.Ptr(v)
		}
	}
	if flags.Changed("mood") {
		v, _ := flags.GetString("mood")
		entry.Mood = domain.Ptr(v)
	}
	if flags.Changed("notes") {
		v, _ := flags.GetString("notes")
		entry.Notes = domain.Ptr(v)
	}

	return entry, nil
}

func printEntry(w io.Writer, e domain.Entry) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s\n", cyan(e.Date))

	metrics := []struct {
		label string
		value *float64
		unit  string
	}{
		{"Steps", e.Steps, ""},
		{"Heart rate", e.HeartRate, " bpm"},
		{"Sleep", e.Sleep, " h"},
		{"Water", e.Water, " glasses"},
		{"Calories", e.Calories, " kcal"},
	}
	for _, m := range metrics {
		if m.value != nil {
			fmt.Fprintf(w, "  %-11s %s%s\n", m.label+":", strconv.FormatFloat(*m.value, 'f', -1, 64), m.unit)
		}
	}
	if e.Mood != nil {
		fmt.Fprintf(w, "  %-11s %s\n", "Mood:", *e.Mood)
	}
	if e.Notes != nil {
		fmt.Fprintf(w, "  %-11s %s\n", "Notes:", *e.Notes)
	}
}
