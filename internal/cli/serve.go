package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rustyeddy/tradegym/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(rc *RootConfig) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve environments over HTTP",
		Long: `Serve gym environments over a JSON HTTP API. Every environment shares the
configured candle series; each has its own account and cursor.

Endpoints:
  POST   /api/envs              create an environment
  POST   /api/envs/:id/reset    start an episode
  POST   /api/envs/:id/step     apply {"action": 0|1|2}
  GET    /api/envs/:id/stats    episode statistics
  DELETE /api/envs/:id          drop the environment
  GET    /metrics               Prometheus metrics

Example:
  tradegym serve --addr :8080 --config gym.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rc.cfg
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			series, err := cfg.LoadSeries()
			if err != nil {
				return fmt.Errorf("load data: %w", err)
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			srv, err := server.New(server.Config{
				Addr:     cfg.Server.Addr,
				Series:   series,
				Params:   cfg.Env,
				Logger:   rc.log,
				Registry: reg,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rc.log.Info("serving environments",
				zap.String("dataset", series.Source),
				zap.Int("candles", series.Len()),
			)
			return srv.Start(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
