package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/config"
	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/daemon"
	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/logging"
	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/version"
)

func main() {
	var cfgPath string

	root := &cobra.Command{
		Use:     "thinksimd",
		Short:   "thinksim daemon – budget-guided generation service",
		Version: version.Full(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck // best-effort

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server, err := daemon.NewServer(cfg, logger)
			if err != nil {
				return err
			}
			return server.Run(ctx)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "Path to config file (default: configs/config.yaml)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
