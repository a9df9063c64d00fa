package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	tamssync "github.com/ScribblesProject/tams/internal/sync"
	"github.com/ScribblesProject/tams/pkg/models"
	"github.com/spf13/cobra"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the asset list and report only when it changes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		log := newLogger()
		defer log.Sync()
		client := newClient(log)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		refresher := tamssync.NewRefresher(client, log, func(assets []models.Asset) {
			fmt.Printf("--- %d assets ---\n", len(assets))
			for _, asset := range assets {
				fmt.Printf("%5d  %-24s locations=%d\n", asset.ID, asset.Name, len(asset.Locations))
			}
		})

		ticker := time.NewTicker(watchInterval)
		defer ticker.Stop()

		refresher.Refresh(ctx)
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				refresher.Refresh(ctx)
			}
		}
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 5*time.Second, "Polling interval")
}
