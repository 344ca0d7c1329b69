package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
	"github.com/comitanigiacomo/kanso-health/internal/core/services"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the document as JSON or the entries as CSV",
	Long: `Write the document as JSON or the entries as CSV.

Examples:
  healthctl export > backup.json
  healthctl export --format csv --output health.csv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		var data []byte
		switch format {
		case "json":
			var err error
			if data, err = store.ExportJSON(ctx); err != nil {
				return err
			}
		case "csv":
			doc, err := store.GetAll(ctx)
			if errors.Is(err, domain.ErrDocumentNotFound) {
				doc = domain.NewEmptyDocument()
			} else if err != nil {
				return err
			}
			data = services.ExportCSV(doc.Entries)
		default:
			return fmt.Errorf("unknown format %q (want json or csv)", format)
		}

		if output == "" || output == "-" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(output, data, 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(cmd.ErrOrStderr(), "%s Exported to %s\n", green("✓"), output)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the whole document with a JSON backup",
	Long: `Replace the whole document with a JSON backup. Use "-" to read stdin.

The payload is validated first; a rejected file leaves the stored data untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to read backup: %w", err)
		}

		result := store.ImportJSON(cmd.Context(), data)
		if !result.Success {
			return fmt.Errorf("import rejected: %s", result.Message)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", green("✓"), result.Message)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", "json", "json or csv")
	exportCmd.Flags().StringP("output", "o", "", "file to write (default stdout)")
	rootCmd.AddCommand(exportCmd, importCmd)
}
