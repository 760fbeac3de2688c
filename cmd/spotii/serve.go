package main

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"spotii/internal/server"
	"spotii/internal/setup"
)

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authorize spotii with your Spotify account",
		Args:  exactArgs(0, "spotii login"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Spotify.ClientID == "" || a.cfg.Spotify.ClientSecret == "" {
				setup.PrintInstructions(a.out)
				return usageError{msg: "SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET are required to log in"}
			}
			if err := setup.Login(cmd.Context(), a.out, a.cfg.Spotify, a.tokens); err != nil {
				return err
			}
			a.out.Success("Logged in. Token saved to " + a.tokens.Path())
			return nil
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  exactArgs(0, "spotii serve"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			gen, err := a.generator("")
			if err != nil {
				return err
			}
			srv := &server.Server{Generator: gen, Logger: slog.Default()}

			sp, err := a.newSpotify(ctx, a.cfg.Spotify)
			switch {
			case errors.Is(err, setup.ErrNotLoggedIn):
				a.out.Warn("Not logged in to Spotify; playlist routes will answer 401. Run `spotii login`.")
			case err != nil:
				return err
			default:
				srv.Saver = a.assembler(gen, sp)
				srv.Library = sp
			}

			a.out.Info("Listening on " + addr)
			return srv.Run(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :3000)")
	return cmd
}
