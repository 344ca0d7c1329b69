package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the stored document",
	Long: `Delete the stored document. The next "healthctl init" or API start seeds it
again from the default dataset.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("refusing to clear without --yes")
		}

		if err := store.Clear(cmd.Context()); err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(cmd.OutOrStdout(), "%s Cleared %q\n", green("✓"), store.Key())
		return nil
	},
}

func init() {
	clearCmd.Flags().Bool("yes", false, "confirm deletion")
	rootCmd.AddCommand(clearCmd)
}
