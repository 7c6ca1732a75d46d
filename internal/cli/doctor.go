package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

// NewDoctorCmd returns a health-check command validating config and environment.
func NewDoctorCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Validate configuration, credentials, and daemon reachability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config OK. Providers: %d, models: %d, candidates: %d\n",
				len(cfg.Providers), len(cfg.Models), len(cfg.Dispatch.Candidates))

			for name, p := range cfg.Providers {
				switch p.Type {
				case "simulator", "ollama":
					fmt.Fprintf(out, "Provider %s (%s): no credential needed\n", name, p.Type)
				default:
					if p.APIKey == "" {
						env := p.APIKeyEnv
						if env == "" {
							env = "api_key"
						}
						fmt.Fprintf(out, "Provider %s (%s): MISSING credential (set %s)\n", name, p.Type, env)
					} else {
						fmt.Fprintf(out, "Provider %s (%s): credential present\n", name, p.Type)
					}
				}
			}

			client := &http.Client{Timeout: 2 * time.Second}
			resp, err := client.Get(daemonURL(cfg.Server.Addr) + "/health")
			if err != nil {
				fmt.Fprintf(out, "Daemon: not reachable at %s (%v)\n", cfg.Server.Addr, err)
				return nil
			}
			defer resp.Body.Close()
			fmt.Fprintf(out, "Daemon: reachable, status %d\n", resp.StatusCode)
			return nil
		},
	}
}
