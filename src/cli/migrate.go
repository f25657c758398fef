package cli

import (
	"fmt"
	"quest/src/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	logger, cleanup := bootstrap()
	defer cleanup()

	applied, err := repository.Migrate(cmd.Context())
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if len(applied) == 0 {
		logger.Info("Database schema is up to date")
		return nil
	}
	logger.Info("Migrations applied", zap.Strings("versions", applied))
	return nil
}
