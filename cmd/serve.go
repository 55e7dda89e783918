package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/status-im/cards-loader/config"
	"github.com/status-im/cards-loader/core"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the card data over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(opts.configPath)
			if err != nil {
				return fmt.Errorf("error loading config: %w", err)
			}

			// Create context with cancellation
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			// Handle graceful shutdown
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigChan)
			go func() {
				select {
				case <-sigChan:
					log.Println("Received shutdown signal, stopping services...")
					cancel()
				case <-ctx.Done():
				}
			}()

			registry, err := core.Setup(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to setup services: %w", err)
			}

			if err := registry.StartAll(ctx); err != nil {
				return fmt.Errorf("failed to start services: %w", err)
			}

			<-ctx.Done()
			registry.StopAll()
			log.Println("All services stopped")
			return nil
		},
	}
}
