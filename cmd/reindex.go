package cmd

import (
	"log"

	"github.com/spf13/cobra"

	config "complaint-desk.com/complaint-desk/internal/configs"
	repository "complaint-desk.com/complaint-desk/internal/repositories"
)

var reindexBatchSize int

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the complaint search index",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadDatabase()
		database := config.NewDatabaseClient(cfg.DatabaseDriver, cfg.DatabaseDSN)

		n, err := repository.NewComplaintRepository(database).Reindex(cmd.Context(), reindexBatchSize)
		if err != nil {
			return err
		}

		log.Printf("indexed %d complaints", n)
		return nil
	},
}

func init() {
	reindexCmd.Flags().IntVar(&reindexBatchSize, "batch-size", 500, "complaints loaded per batch")
	rootCmd.AddCommand(reindexCmd)
}
