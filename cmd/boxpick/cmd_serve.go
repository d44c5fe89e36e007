package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/packhouse/boxpick/internal/catalog"
	"github.com/packhouse/boxpick/internal/configstore"
	"github.com/packhouse/boxpick/internal/projectconfig"
	"github.com/packhouse/boxpick/internal/webserver"
)

func newServeCommand() *cobra.Command {
	var port int
	var catalogPath string
	var dbPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the store configuration and recommendation API server",
		Long: `Run the HTTP API consumed by the store dashboard.

Endpoints cover per-store packing rules, recommendation engine
configuration, and ranked box recommendations for an item. The server
binds to loopback and shuts down gracefully on SIGINT/SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := projectconfig.Load(".")
			if err != nil {
				return err
			}
			if port == 0 {
				port = proj.Server.Port
			}
			if catalogPath == "" {
				catalogPath = proj.Defaults.Catalog
			}
			if dbPath == "" {
				dbPath = proj.Store.DB
			}

			store, err := configstore.Open(dbPath)
			if err != nil {
				return fmt.Errorf("opening config database: %w", err)
			}
			defer store.Close() //nolint:errcheck

			var cat *catalog.Catalog
			if _, statErr := os.Stat(catalogPath); statErr == nil {
				cat, err = catalog.Load(catalogPath)
				if err != nil {
					return err
				}
			} else {
				slog.Warn("no box catalog found; recommendation endpoint disabled", "path", catalogPath)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := webserver.New(webserver.Config{
				Port:           port,
				AllowedOrigins: proj.Server.AllowedOrigins,
			}, store, cat)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Box catalog file (YAML)")
	cmd.Flags().StringVar(&dbPath, "db", "", "Config database path")

	return cmd
}
