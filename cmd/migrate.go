package cmd

import (
	"log"

	"github.com/spf13/cobra"

	config "complaint-desk.com/complaint-desk/internal/configs"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadDatabase()

		db, err := config.OpenDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		if err := config.Migrate(db); err != nil {
			return err
		}

		log.Printf("%s schema is up to date", cfg.DatabaseDriver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
