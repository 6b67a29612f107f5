package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd()
	root.SilenceUsage = true
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suraksha-cli",
		Short: "Offline tools for the SurakshaMesh safety service",
		Long:  "suraksha-cli classifies telemetry files without a running server and checks service configuration.",
	}

	cmd.AddCommand(classifyCmd())
	cmd.AddCommand(configCmd())

	return cmd
}
