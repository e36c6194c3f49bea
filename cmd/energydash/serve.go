package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jgoulah/energydash/internal/dashboard"
	"github.com/jgoulah/energydash/internal/webui"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web dashboard",
	Long: `Starts the web dashboard. Every page action is forwarded to the energy
monitor API; charts are rendered server side.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, or :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	s, err := newSession(true)
	if err != nil {
		return err
	}
	defer s.Close()

	addr := serveAddr
	if addr == "" {
		addr = s.cfg.GetServerAddr()
	}

	page := webui.NewPage()
	registry := dashboard.NewRegistry()
	s.controller(page).Bind(registry)

	srv := &http.Server{
		Addr:              addr,
		Handler:           webui.NewRouter(page, s.board, registry, s.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	fmt.Printf("✓ Dashboard listening on %s (backend %s)\n", addr, s.client.BaseURL())

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving dashboard: %w", err)
		}
		return nil
	case <-cmd.Context().Done():
	}

	fmt.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("graceful shutdown failed", zap.Error(err))
		return fmt.Errorf("shutting down: %w", err)
	}

	mounted, destroyed := s.board.Stats()
	s.logger.Debug("chart board at shutdown", zap.Int("mounted", mounted), zap.Int("destroyed", destroyed))
	return nil
}
