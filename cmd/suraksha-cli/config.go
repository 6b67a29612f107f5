package main

import (
	"fmt"

	"suraksha_mesh/internal/config"

	"github.com/spf13/cobra"
)

func configCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Inspect service configuration",
	}
	c.AddCommand(configValidateCmd())
	return c
}

func configValidateCmd() *cobra.Command {
	var path string
	c := &cobra.Command{
		Use:   "validate",
		Short: "Load and validate a config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			src := path
			if src == "" {
				src = "configs/config.yml"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (port %s, db %s, simulator %s)\n",
				src, cfg.Port, cfg.DB.Path, simulatorSummary(cfg.Simulator))
			return nil
		},
	}
	c.Flags().StringVar(&path, "config", "", "path to config file (default configs/config.yml)")
	return c
}

func simulatorSummary(s config.SimulatorConfig) string {
	if !s.Enabled {
		return "off"
	}
	return fmt.Sprintf("%d workers every %s", len(s.Workers), s.Tick)
}
