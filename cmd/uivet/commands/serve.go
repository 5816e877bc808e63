package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/uivet/uivet/internal/httpserve"
	"github.com/uivet/uivet/internal/observability"
)

// ServeCommand holds configuration for the serve command.
type ServeCommand struct {
	configPath string
	host       string
	port       int
	debug      bool
}

// NewServeCommand creates the HTTP server command.
func NewServeCommand() *cobra.Command {
	sc := &ServeCommand{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP validation API",
		Long: `Serve the validator over HTTP. POST /v1/validate accepts a JSON
body with "code" and "framework" fields and returns the validation
result. /healthz, /readyz and /metrics are mounted alongside.

Shuts down gracefully on SIGINT or SIGTERM.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          sc.run,
	}

	cmd.Flags().StringVar(&sc.host, "host", "", "Bind host (overrides config)")
	cmd.Flags().IntVar(&sc.port, "port", 0, "Bind port (overrides config)")
	cmd.Flags().BoolVar(&sc.debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&sc.configPath, "config", "", "Config file path")

	return cmd
}

func (sc *ServeCommand) run(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime(sc.configPath)
	if err != nil {
		return err
	}

	providers, err := initObservability(rt.cfg, observability.ModeServe, sc.debug)
	if err != nil {
		return err
	}

	defer func() {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
		}
	}()

	red, redErr := observability.NewREDMetrics(providers.Meter)
	if redErr != nil {
		return redErr
	}

	srv, err := httpserve.New(httpserve.Options{
		Host:            sc.resolveHost(rt),
		Port:            sc.resolvePort(rt),
		ReadTimeout:     time.Duration(rt.cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout:    time.Duration(rt.cfg.Server.WriteTimeoutSec) * time.Second,
		IdleTimeout:     time.Duration(rt.cfg.Server.IdleTimeoutSec) * time.Second,
		MaxBodyBytes:    int64(rt.cfg.Validator.MaxInputBytes),
		Validator:       rt.newValidator(),
		Logger:          providers.Logger,
		Metrics:         red,
		Tracer:          providers.Tracer,
		MetricsEndpoint: true,
	})
	if err != nil {
		return err
	}

	if addr := rt.cfg.Telemetry.DiagnosticsAddr; addr != "" {
		diag, diagErr := observability.NewDiagnosticsServer(addr)
		if diagErr != nil {
			return diagErr
		}

		defer func() { _ = diag.Close() }()

		providers.Logger.Info("diagnostics server listening", "addr", diag.Addr())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}

func (sc *ServeCommand) resolveHost(rt *runtime) string {
	if sc.host != "" {
		return sc.host
	}

	return rt.cfg.Server.Host
}

func (sc *ServeCommand) resolvePort(rt *runtime) int {
	if sc.port > 0 {
		return sc.port
	}

	return rt.cfg.Server.Port
}
