package main

import "github.com/spf13/cobra"

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Inspect the session and its journal from the CLI",
	}
	cmd.AddCommand(queryStateCmd())
	cmd.AddCommand(queryContextCmd())
	cmd.AddCommand(queryHistoryCmd())
	cmd.AddCommand(queryOutcomesCmd())
	cmd.AddCommand(querySQLCmd())
	return cmd
}
