package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/lildude/fitpal/internal/coach"
	"github.com/lildude/fitpal/internal/handlers/api"
	"github.com/lildude/fitpal/internal/integration"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(rt *runtime) error {
			ai, err := coach.New(coach.Config{
				APIKey:    rt.cfg.AIAPIKey,
				BaseURL:   rt.cfg.AIBaseURL,
				Model:     rt.cfg.AIModel,
				PlanModel: rt.cfg.AIPlanModel,
			}, rt.log)
			if errors.Is(err, coach.ErrNotConfigured) {
				rt.log.Warn("AI_API_KEY not set, AI features are disabled")
			} else if err != nil {
				return err
			}

			conn := integration.New(integration.Config{
				ClientID:     rt.cfg.HonorHealthClientID,
				ClientSecret: rt.cfg.HonorHealthClientSecret,
				RedirectURL:  rt.cfg.HonorHealthRedirectURI,
				AuthURL:      rt.cfg.HonorHealthAuthURL,
				TokenURL:     rt.cfg.HonorHealthTokenURL,
				StateToken:   rt.cfg.StateToken,
			}, rt.state, rt.store, rt.log)

			srv := &http.Server{
				Addr:              ":" + rt.cfg.Port,
				Handler:           api.NewRouter(api.NewHandler(rt.state, ai, conn, rt.log)),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				srv.Shutdown(shutdownCtx) //nolint:errcheck
			}()

			rt.log.WithField("port", rt.cfg.Port).Info("starting server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
