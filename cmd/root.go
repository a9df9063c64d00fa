package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ScribblesProject/tams/internal/backend"
	"github.com/ScribblesProject/tams/internal/core/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "tams",
	Short: "TAMS asset catalog client",
	Long:  `Browse, create, update and geo-tag assets against a TAMS backend.`,
}

func Execute() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() *zap.Logger {
	return logger.NewLogger(debug || os.Getenv("TAMS_DEBUG") != "")
}

func newClient(log *zap.Logger) *backend.Client {
	baseURL := os.Getenv("TAMS_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}

	timeout := backend.DefaultTimeout
	if raw := os.Getenv("TAMS_HTTP_TIMEOUT"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			log.Warn("invalid TAMS_HTTP_TIMEOUT, using default", zap.String("value", raw))
		} else {
			timeout = time.Duration(seconds) * time.Second
		}
	}

	return backend.NewClient(baseURL, timeout, log)
}
