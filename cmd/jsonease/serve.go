package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/iilei/jsonease/internal/log"
	"github.com/iilei/jsonease/internal/server"
	"github.com/iilei/jsonease/pkg/config"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	defaults := config.NewConfig()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := server.New(a.cfg, log.Default)
			if err != nil {
				return err
			}
			srv := &http.Server{
				Addr:              a.cfg.Server.Addr,
				Handler:           api,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx := cmd.Context()
			errCh := make(chan error, 1)
			go func() {
				log.Default.Infow("listening", "addr", srv.Addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			log.Default.Infow("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().String("addr", defaults.Server.Addr, "Listen address")
	cmd.Flags().StringSlice("allowed-origins", defaults.Server.AllowedOrigins, "CORS allowed origins")
	return cmd
}
