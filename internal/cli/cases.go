package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/casestudy"
)

// NewCasesCmd lists the case-study catalog with suggested budgets.
func NewCasesCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "cases",
		Short: "List available case studies and their suggested budgets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			catalog := casestudy.Builtin()
			if cfg.Cases.Path != "" {
				catalog, err = casestudy.LoadCatalog(cfg.Cases.Path)
				if err != nil {
					return fmt.Errorf("load case catalog: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			for _, name := range catalog.Names() {
				cs, _ := catalog.Get(name)
				budgets := make([]string, 0, 3)
				for _, b := range cs.SuggestedBudgets() {
					budgets = append(budgets, fmt.Sprintf("%d", b))
				}
				fmt.Fprintf(out, "%s (budgets: %s)\n", cs.Name, strings.Join(budgets, ", "))
				if cs.Description != "" {
					fmt.Fprintf(out, "  %s\n", cs.Description)
				}
				fmt.Fprintf(out, "  prompt: %s\n", cs.Prompt)
			}
			return nil
		},
	}
}
