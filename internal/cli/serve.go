package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rshade/carbonfocus/internal/api"
	"github.com/rshade/carbonfocus/internal/config"
	"github.com/rshade/carbonfocus/internal/engine"
)

// NewServeCmd creates the serve command, which runs the HTTP API until
// SIGINT or SIGTERM.
func NewServeCmd(ver string) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the emission calculator HTTP API",
		Long: `Serves the calculator over HTTP:

  POST /api/calculate   full monthly estimate
  POST /api/transport   transport only
  POST /api/energy      home energy only
  POST /api/food        diet category or itemised food
  GET  /api/factors     emission factor table in use
  GET  /healthz         liveness
  GET  /metrics         Prometheus metrics

The emission factor table is loaded before the listener opens; an invalid
table stops the command without binding.`,
		Example: `  carbonfocus serve
  carbonfocus serve --listen :9090 --factors ./factors.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			serverCfg := cfg.Server
			if listen != "" {
				serverCfg.ListenAddr = listen
			}
			if err := validateServerConfig(cfg, serverCfg); err != nil {
				return err
			}

			table, err := loadTable(cmd)
			if err != nil {
				return err
			}
			eng, err := engine.New(table)
			if err != nil {
				return err
			}

			srv, err := api.New(eng, serverCfg, api.WithLogger(baseLogger), api.WithVersion(ver))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cmd.PrintErrf("Serving on http://%s (emission factors: %s)\n", serverCfg.ListenAddr, table.Source())
			if err := srv.Run(ctx); err != nil {
				return fmt.Errorf("api server: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "",
		fmt.Sprintf("listen address (default from config, %s)", config.DefaultListenAddr))
	return cmd
}

func validateServerConfig(cfg *config.Config, serverCfg config.ServerConfig) error {
	check := *cfg
	check.Server = serverCfg
	if err := check.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
