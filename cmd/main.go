package main

import (
	"context"
	"os"

	"github.com/mossriver/poolside/internal/idp"
	"github.com/mossriver/poolside/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.WithLogger(shared.NewLogger(nil), "run", shared.GenerateID())

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	adapter := idp.NewCognitoAdapter(logger)
	runner := NewRunner(RunnerOpts{
		Config:  config,
		Adapter: adapter,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "poolside",
		Usage:    "Sign in to AWS Cognito user pools from the terminal",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
