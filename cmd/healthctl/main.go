package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-health/internal/adapters/defaults"
	"github.com/comitanigiacomo/kanso-health/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-health/internal/config"
	"github.com/comitanigiacomo/kanso-health/internal/core/services"
	"github.com/comitanigiacomo/kanso-health/internal/logging"
)

var (
	envFile  string
	store    *services.RecordStore
	backends *repository.Backends
)

const annotationNoStore = "no-store"

var rootCmd = &cobra.Command{
	Use:   "healthctl",
	Short: "Inspect and edit the Kanso Health record store",
	Long: `healthctl works directly on the configured health document storage.

It reads the same environment as the API server (STORAGE_BACKEND, STORAGE_DIR,
DATABASE_DSN, REDIS_HOST, ...), so both can share one document.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[annotationNoStore] == "true" || store != nil {
			return nil
		}
		return openStore(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if backends != nil {
			_ = backends.Close()
			backends = nil
			store = nil
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
}

func openStore(ctx context.Context) error {
	cfg, err := config.NewConfig(envFile)
	if err != nil {
		return err
	}

	log := logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   false,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
		Environment:   cfg.AppEnv,
	})
	if cfg.Log.File == "" {
		log.SetOutput(os.Stderr)
	}

	b, err := repository.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	backends = b

	store = services.NewRecordStore(b.Storage, defaults.NewFileSource(cfg.Defaults.Path), log).WithKey(cfg.Storage.Key)
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		red := color.New(color.FgRed).SprintFunc()
		fmt.Fprintf(os.Stderr, "%s %v\n", red("Error:"), err)
		os.Exit(1)
	}
}
