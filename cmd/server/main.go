package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yukikurage/crew-scheduling-api/internal/config"
	"github.com/yukikurage/crew-scheduling-api/internal/database"
	"github.com/yukikurage/crew-scheduling-api/internal/logger"
)

var (
	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "crew-scheduling-api",
	Short: "Crew scheduling API",
	Long: `Crew scheduling API serves the driver schedule grid and coordinates task
assignment: fan-out creates, conflict resolution, drag-and-drop moves and
bulk assignment.

Run without a subcommand to start the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		if log, err = logger.Build(cfg.LogLevel, cfg.LogEncoding); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the database and start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply schema migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Connect(cfg, log); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		return database.Migrate(database.GetDB(), log)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if log != nil {
			log.Error("command failed", zap.Error(err))
		}
		os.Exit(1)
	}
}
