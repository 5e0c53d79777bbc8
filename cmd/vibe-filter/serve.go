package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-filter/internal/api"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve frequency, pathogenicity and regulatory lookups over HTTP",
		Example: `  vibe-filter serve --addr :8080
  curl localhost:8080/variants/12-25245351-C-A/frequency?sources=KG,TOPMED`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), viper.GetString("serve.addr"))
		},
	}

	cmd.Flags().String("addr", ":8080", "Listen address")
	_ = viper.BindPFlag("serve.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func runServe(ctx context.Context, addr string) error {
	svc, closeStore, err := newService(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	e := api.NewServer(svc, logger, version).Echo()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}
