package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/omicreativedev/tunepeep/internal/auth"
	"github.com/omicreativedev/tunepeep/internal/services"
	"github.com/omicreativedev/tunepeep/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	store := services.NewFileTokenStore(config.TokenPath())
	svc := services.NewCatalogService(services.CatalogOpts{
		BaseURL: config.API.BaseURL,
		State:   auth.NewState(),
		Store:   store,
		Logger:  logger,
	})

	// The raw API client shares the catalog client's credential file, so
	// a sign-in through either surface authorizes both.
	source := services.NewRefreshSource(config.API.BaseURL, http.DefaultClient, store)
	apiService := services.NewAPIService(config.API.BaseURL, nil, source)

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Service: svc,
		API:     apiService,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "tunepeep",
		Usage:    "Browse, review, and curate the TunePeep music catalog",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		switch {
		case errors.Is(err, shared.ErrNotAuthenticated):
			logger.Warn("sign in first: tunepeep auth login")
			os.Exit(1)
		case errors.Is(err, shared.ErrForbidden):
			logger.Warn("this operation needs the ADMIN role")
			os.Exit(1)
		default:
			logger.Fatalf("application error: %v", err)
		}
	}
}
