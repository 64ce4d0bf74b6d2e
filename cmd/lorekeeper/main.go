package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"lorekeeper/internal/errutil"
)

func main() {
	root := &cobra.Command{
		Use:           "lorekeeper",
		Short:         "Authoritative world state for LLM-narrated sessions",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "Project config file")
	root.AddCommand(initCmd())
	root.AddCommand(applyCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(queryCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		errutil.LogError(slog.Default(), "command failed", err)
		os.Exit(1)
	}
}
