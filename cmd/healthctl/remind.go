package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
	"github.com/comitanigiacomo/kanso-health/internal/core/workers"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Daily reminder and API passcode helpers",
}

var remindNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show when the daily reminder fires next",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		settings := store.GetSettings(cmd.Context())

		hour, minute, ok := settings.Reminder()
		if !ok {
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Fprintf(out, "%s No reminder scheduled\n", yellow("ℹ"))
			return nil
		}

		next := workers.NextOccurrence(clock(), hour, minute)
		fmt.Fprintf(out, "Next reminder: %s\n", next.Format("2006-01-02 15:04"))
		return nil
	},
}

var remindSetCmd = &cobra.Command{
	Use:   "set <HH:MM|off>",
	Short: "Set the daily reminder time, or turn reminders off",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		settings := store.GetSettings(ctx)

		if strings.EqualFold(args[0], "off") {
			settings.Notifications = false
		} else {
			settings.Notifications = true
			settings.ReminderTime = domain.Ptr(args[0])
		}

		if _, err := store.UpdateSettings(ctx, settings); err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(cmd.OutOrStdout(), "%s Reminder updated\n", green("✓"))
		return nil
	},
}

var hashPasscodeCmd = &cobra.Command{
	Use:         "hash-passcode <passcode>",
	Short:       "Print the bcrypt hash to use as AUTH_PASSCODE_HASH",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationNoStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := domain.HashPasscode(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

var clock = time.Now

func init() {
	remindCmd.AddCommand(remindNextCmd, remindSetCmd, hashPasscodeCmd)
	rootCmd.AddCommand(remindCmd)
}
