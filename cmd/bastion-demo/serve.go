package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bastion-ui/bastion/internal/demo"
	"github.com/bastion-ui/bastion/pkg/live"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the simulated demo backend",
		Long: `Starts the simulated backend the demo front-end fetches from:

  GET  /api/users/{id}   user payload, with ?status=, ?delay= and ?garbage= failure knobs
  POST /api/register     server-side half of the registration form flow
  GET  /metrics          Prometheus metrics
  GET  /live             websocket stream of resource transitions`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "listen address")
	return cmd
}

func runServe(addr string) error {
	logger := slog.Default().With("component", "serve")

	hub := live.NewHub(logger)
	defer hub.Close()

	server := demo.NewServer(
		demo.WithLogger(logger),
		demo.WithHub(hub),
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("demo backend listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}
