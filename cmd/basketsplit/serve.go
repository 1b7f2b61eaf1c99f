package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/basketsplit/basketsplit/internal/api"
	"github.com/basketsplit/basketsplit/internal/infrastructure/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		logger := newLogger(cfg)
		registry := newRegistry(logger)

		repo, err := storage.NewStorage(cfg.Storage.DatabasePath)
		if err != nil {
			return err
		}
		defer repo.Close()

		logger.Info("storage ready", slog.String("path", cfg.Storage.DatabasePath))

		server := api.NewServer(api.Config{
			Port:           cfg.Server.Port,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Retailer:       cfg.Parser.Retailer,
			UploadDir:      cfg.Parser.UploadDir,
		}, repo, registry, logger.With("system", "api"))

		return server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
