package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/hired-always/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		port      int
		url       string
		noBrowser bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local companion server",
		Long: `Start an HTTP server on 127.0.0.1 that the browser extension talks to. It
accepts the PING / AUTOFILL_NOW trigger messages for the attached Chrome tab,
extracts job metadata and exposes the application tracker.

With --url the tab navigates there on start and, when the profile sets
autoFillOnLoad, fills it right away.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}

			filler, release, err := a.newFiller(ctx)
			if err != nil {
				return err
			}
			defer release()

			t, err := a.openTracker(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = t.Close() }()

			cfg := server.Config{
				Port:    a.cfg.Port,
				Token:   a.cfg.Token,
				Filler:  filler,
				Tracker: t,
				Logger:  a.logger,
			}

			if !noBrowser {
				tab, closeTab, err := a.openTab(ctx)
				if err != nil {
					return err
				}
				defer closeTab()
				cfg.Page = tab

				if url != "" {
					if err := tab.Navigate(ctx, url); err != nil {
						return err
					}
					if res, ran, err := filler.AutoTrigger(ctx, tab); err != nil {
						a.logger.Warn("cli: auto fill failed", "error", err)
					} else if ran {
						a.report(cmd, res)
					}
				}
			}

			srv, err := server.New(cfg)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}
			return srv.Start(ctx)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (default 8765)")
	cmd.Flags().StringVar(&url, "url", "", "Page to open in the attached tab on start")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Serve extraction and tracking only, without a Chrome tab")
	cmd.MarkFlagsMutuallyExclusive("url", "no-browser")
	return cmd
}
