package main

import (
	"fmt"

	"github.com/raneshrk02/smart-plant-monitoring/pkg/config"
	"github.com/raneshrk02/smart-plant-monitoring/pkg/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE:  runMigrateUp,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List pending migrations",
	RunE:  runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

func openDatabase() (*database.DatabaseManager, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return database.NewDatabaseManager(cfg.Database)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	dbManager, err := openDatabase()
	if err != nil {
		return err
	}
	defer dbManager.Close()

	return dbManager.Init()
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	dbManager, err := openDatabase()
	if err != nil {
		return err
	}
	defer dbManager.Close()

	runner, err := database.NewMigrationsRunner(dbManager.GetDB())
	if err != nil {
		return err
	}
	runner.DisableLogging()

	pending, err := runner.Pending()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(pending) == 0 {
		fmt.Fprintf(out, "Schema is up to date (%d migrations applied)\n", len(runner.Migrations()))
		return nil
	}

	fmt.Fprintf(out, "%d pending migration(s):\n", len(pending))
	for _, m := range pending {
		fmt.Fprintf(out, "  %06d  %s\n", m.Version, m.Name)
	}
	return nil
}
