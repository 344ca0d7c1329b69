package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Seed the store from the default dataset if it is empty",
	Long: `Seed the record store on first run.

An existing document is never touched, even a corrupt one. When the default
dataset cannot be read an empty document is written instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := store.Initialize(ctx); err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(cmd.OutOrStdout(), "%s Store ready under %q (%d entries)\n",
			green("✓"), store.Key(), len(store.GetEntries(ctx)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
