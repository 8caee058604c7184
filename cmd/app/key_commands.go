package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/cardvault/cmd/app/commands"
	"github.com/allisson/cardvault/internal/app"
	"github.com/allisson/cardvault/internal/config"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-encryption-key",
			Usage: "Generate a data encryption key, optionally wrapped by KMS",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "kms-provider",
					Sources: cli.EnvVars("KMS_PROVIDER"),
					Usage:   "KMS provider (google, aws, azure, hashivault, localsecrets)",
				},
				&cli.StringFlag{
					Name:    "kms-key-uri",
					Sources: cli.EnvVars("KMS_KEY_URI"),
					Usage:   "KMS key URI",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateEncryptionKey(
					ctx,
					container.KMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("kms-provider"),
					cmd.String("kms-key-uri"),
				)
			},
		},
		{
			Name:  "create-api-key",
			Usage: "Generate an API key and the hash to add to API_KEY_HASHES",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				apiKeys, err := container.APIKeyService()
				if err != nil {
					return err
				}

				return commands.RunCreateAPIKey(apiKeys, commands.DefaultIO().Writer, cmd.String("format"))
			},
		},
	}
}
