package core

import (
	"context"

	"github.com/status-im/cards-loader/api"
	"github.com/status-im/cards-loader/cards_data"
	"github.com/status-im/cards-loader/config"
)

// Setup creates and registers all services
func Setup(ctx context.Context, cfg *config.Config) (*Registry, error) {
	registry := NewRegistry()

	// Cards data service owns the loader and the periodic reload
	cardsService, err := cards_data.NewService(cfg)
	if err != nil {
		return nil, err
	}
	registry.Register(cardsService)

	// HTTP server is registered last so it stops first
	server := api.New(cfg.Server.Port, cardsService)
	registry.Register(server)

	return registry, nil
}
