package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"agentready/internal/api/v1/handler"
	"agentready/internal/api/v1/router"
	"agentready/internal/debug"
	"agentready/internal/log"
	"agentready/internal/metrics"
)

const (
	pprofAddr       = ":6060"
	shutdownTimeout = 5 * time.Second
)

func newServeCommand(opts *globalOptions) *cobra.Command {
	var flags checkFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compliance checker over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			checker, err := opts.newChecker(cmd, &flags)
			if err != nil {
				return err
			}
			cfg := opts.cfg

			routerOpts := router.Options{
				RateLimit: cfg.APIRateLimit,
				RateBurst: cfg.APIRateBurst,
			}
			if cfg.BasicAuthEnabled() {
				routerOpts.BasicAuthUser = cfg.BasicAuthUser
				routerOpts.BasicAuthPass = cfg.BasicAuthPass
				log.Logger.Info("basic auth enabled for the API")
			}

			server := &http.Server{
				Addr:              cfg.ListenAddr,
				Handler:           router.New(handler.New(checker), routerOpts),
				ReadHeaderTimeout: 5 * time.Second,
			}
			metricsServer := &http.Server{
				Addr:              cfg.MetricsAddr,
				Handler:           router.NewMetricsRouter(metrics.NewRegistry()),
				ReadHeaderTimeout: 5 * time.Second,
			}
			servers := []*http.Server{server, metricsServer}

			if cfg.IsDev {
				pprof := debug.NewPprofServer(pprofAddr)
				debug.StartPprof(pprof)
				servers = append(servers, pprof)
			}

			errCh := make(chan error, 2)
			listen := func(name string, srv *http.Server) {
				log.Logger.Info(name+" started", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- fmt.Errorf("%s failed: %w", name, err)
				}
			}
			go listen("api server", server)
			go listen("metrics server", metricsServer)

			var serveErr error
			select {
			case <-cmd.Context().Done():
			case serveErr = <-errCh:
			}
			log.Logger.Info("shutting down servers gracefully")

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			for _, srv := range servers {
				if err := srv.Shutdown(ctx); err != nil {
					log.Logger.Error("server forced to shutdown", zap.String("addr", srv.Addr), zap.Error(err))
				}
			}
			log.Logger.Info("servers exited")
			return serveErr
		},
	}

	cmd.Flags().Float64Var(&flags.threshold, "threshold", 0, "pass threshold in [0,1] (default from config)")
	return cmd
}
