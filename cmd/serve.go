package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordiz/internal/api"
	"github.com/abhisek/wordiz/internal/auth"
	"github.com/abhisek/wordiz/internal/logging"
	"github.com/abhisek/wordiz/internal/provision"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Wordiz API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		log := logging.Setup(os.Stdout, level, true)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
		if !issuer.Enabled() {
			log.Warn("WORDIZ_JWT_SECRET not set, every request acts as the default learner",
				slog.String("learner", auth.DefaultLearner))
		}

		svc := provision.NewLocal(st.CatalogRepo(), st.SessionRepo(), provision.WithProgress(st.ProgressRepo()))
		handler := api.New(svc, api.Options{
			Issuer:      issuer,
			CORSOrigins: cfg.CORSOrigins,
			Logger:      log,
			Timeout:     30 * time.Second,
		})

		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("listening", slog.String("addr", cfg.Addr), slog.String("db", st.Dialect()))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("serve: %w", err)
		case <-ctx.Done():
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides WORDIZ_ADDR)")
}
