// Command soundmood runs the SoundCloud mood playlist relay.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/justestif/go-soundmood/internal/auth"
	"github.com/justestif/go-soundmood/internal/config"
	"github.com/justestif/go-soundmood/internal/mood"
	"github.com/justestif/go-soundmood/internal/pkce"
	"github.com/justestif/go-soundmood/internal/playlist"
	"github.com/justestif/go-soundmood/internal/soundcloud"
	"github.com/justestif/go-soundmood/internal/web"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "soundmood",
	})

	app := &cli.Command{
		Name:    "soundmood",
		Usage:   "Relay for SoundCloud OAuth and mood-based playlist generation",
		Version: "1.0.0",
		Commands: []*cli.Command{
			serveCommand(logger),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

func serveCommand(logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the relay HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to optional TOML config file",
				Value:   "config.toml",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return err
			}

			store := pkce.NewStore()
			client := soundcloud.NewClient()
			authenticator := auth.New(cfg, store, client)
			planner := mood.NewPlanner(nil)
			playlists := playlist.NewService(client, planner, nil, logger.With("component", "playlist"))

			handlers := web.NewHandlers(authenticator, client, playlists, logger.With("component", "web"))
			server := web.NewServer(cfg, handlers, logger)

			logger.Info("configured", "env", cfg.Environment, "redirect_uri", cfg.RedirectURI)
			return server.Run()
		},
	}
}
