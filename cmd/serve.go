package cmd

import (
	"fmt"
	"os"

	"github.com/ScribblesProject/tams/internal/stubserver"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local stub of the TAMS backend",
	Long: `Serve the TAMS wire contract over a local sqlite database. Intended for
development and testing against a client without the real service.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		log := newLogger()
		defer log.Sync()

		dbPath := os.Getenv("TAMS_DB")
		if dbPath == "" {
			dbPath = "tams.db"
		}
		addr := os.Getenv("TAMS_ADDR")
		if addr == "" {
			addr = ":8000"
		}

		store, err := stubserver.OpenStore(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer store.Close()

		log.Info("stub server listening", zap.String("addr", addr), zap.String("db", dbPath))
		router := stubserver.NewRouter(store, log)
		if err := router.Run(addr); err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	},
}
