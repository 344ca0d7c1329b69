package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
	"github.com/comitanigiacomo/kanso-health/internal/core/services"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show averages over every logged day",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats := services.CalculateStats(store.GetEntries(cmd.Context()))
		out := cmd.OutOrStdout()

		bold := color.New(color.Bold).SprintFunc()
		fmt.Fprintf(out, "%s (%d entries)\n", bold("Averages"), stats.TotalEntries)
		fmt.Fprintf(out, "  Steps:      %.0f\n", stats.AvgSteps)
		fmt.Fprintf(out, "  Heart rate: %.1f bpm\n", stats.AvgHeartRate)
		fmt.Fprintf(out, "  Sleep:      %.1f h\n", stats.AvgSleep)
		fmt.Fprintf(out, "  Water:      %.1f glasses\n", stats.AvgWater)
		fmt.Fprintf(out, "  Calories:   %.0f kcal\n", stats.AvgCalories)
		return nil
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score the most recent entry against your goals (0-100)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		score := services.CalculateHealthScore(store.GetEntries(ctx), store.GetGoals(ctx))

		c := color.New(color.FgRed)
		switch {
		case score >= 80:
			c = color.New(color.FgGreen)
		case score >= 50:
			c = color.New(color.FgYellow)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Health score: %s\n", c.Sprint(score))
		return nil
	},
}

var flagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "List health warnings for the most recent entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		flags := services.DetectHealthFlags(store.GetEntries(ctx), store.GetGoals(ctx))
		out := cmd.OutOrStdout()

		if len(flags) == 0 {
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Fprintf(out, "%s No health flags\n", green("✓"))
			return nil
		}

		red := color.New(color.FgRed).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		for _, f := range flags {
			marker := yellow("⚠")
			if f.Type == domain.FlagDanger {
				marker = red("✗")
			}
			fmt.Fprintf(out, "%s [%s] %s\n", marker, f.Metric, f.Message)
		}
		return nil
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Suggest what to work on based on the most recent entry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		entries := store.GetEntries(ctx)
		if len(entries) == 0 {
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Fprintf(out, "%s Log an entry first\n", yellow("ℹ"))
			return nil
		}

		priorities := map[string]*color.Color{
			services.PriorityHigh:   color.New(color.FgRed),
			services.PriorityMedium: color.New(color.FgYellow),
			services.PriorityLow:    color.New(color.FgGreen),
		}
		for _, r := range services.Recommend(entries[0], store.GetGoals(ctx)) {
			fmt.Fprintf(out, "%s %-9s %s\n", priorities[r.Priority].Sprintf("%-6s", r.Priority), r.Category, r.Message)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd, scoreCmd, flagsCmd, recommendCmd)
}
