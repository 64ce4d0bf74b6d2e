package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func queryStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Print a snapshot of the world as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			sess, err := p.openSession(nil)
			if err != nil {
				return err
			}

			payload, err := json.MarshalIndent(sess.Snapshot(), "", "  ")
			if err != nil {
				return fmt.Errorf("encoding snapshot: %w", err)
			}
			fmt.Fprintln(os.Stdout, string(payload))
			return nil
		},
	}
}

func queryContextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "context [topic...]",
		Short: "Render prompt context for the given topics, or all of them",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			sess, err := p.openSession(nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, sess.Context(args...))
			return nil
		},
	}
}
