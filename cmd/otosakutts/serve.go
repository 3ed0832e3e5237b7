package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/example/go-otosaku-tts/internal/server"
	"github.com/example/go-otosaku-tts/internal/tts"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the OtosakuTTS HTTP server",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			svc, err := tts.NewService(cfg)
			if err != nil {
				return err
			}
			defer svc.Close()

			handler := server.NewHandler(svc,
				server.WithWorkers(workers),
				server.WithLogger(slog.Default()),
			)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.Start(ctx, cfg.Server.ListenAddr, handler)
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 2, "Max concurrently served synthesis requests")

	return cmd
}
