package commands

import (
	"os/signal"
	"syscall"

	"github.com/hupe1980/easystore"
	"github.com/hupe1980/easystore/internal/server"
	"github.com/hupe1980/easystore/metric"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func (a *app) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve downloads over HTTP",
		Long: `Serve file downloads over HTTP until interrupted.

Routes:
  GET /files/<disk>/<path>   download a file as an attachment
  GET /disks                 list disks and their operations
  GET /healthz               liveness check
  GET /metrics               Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			metrics := metric.NewPrometheus(reg)

			logger := a.cfg.Logger()
			opts := append(a.cfg.Options(), easystore.WithMetricsCollector(metrics))
			store := easystore.New(a.store.Registry(), opts...).OnDisk(a.store.DefaultDisk())

			cfg := server.Config{
				Addr:              a.cfg.Server.Addr,
				RequestsPerSecond: a.cfg.Server.RequestsPerSecond,
				Burst:             a.cfg.Server.Burst,
				ShutdownTimeout:   a.cfg.Server.ShutdownTimeoutDuration(),
			}
			if addr != "" {
				cfg.Addr = addr
			}

			srv := server.New(store, cfg, server.WithLogger(logger), server.WithMetrics(metrics, reg))
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from configuration)")
	return cmd
}
