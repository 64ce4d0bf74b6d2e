package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"lorekeeper/internal/engine"
	"lorekeeper/internal/metrics"
	"lorekeeper/internal/session"
)

func applyCmd() *cobra.Command {
	var batchID string
	var dryRun bool
	var eventsOnly bool
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "apply [file|-]",
		Short: "Apply the events of one narrator response",
		Long:  "Reads a narrator response (narration followed by an EVENTS: section) from a file or stdin, applies its events and saves the session.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := "-"
			if len(args) == 1 {
				source = args[0]
			}
			return runApply(source, batchID, dryRun, eventsOnly, asJSON)
		},
	}
	cmd.Flags().StringVar(&batchID, "batch-id", "", "Idempotency key (default: a new ULID)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report outcomes without changing the session")
	cmd.Flags().BoolVar(&eventsOnly, "events", false, "Input is the events section only")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func runApply(source, batchID string, dryRun, eventsOnly, asJSON bool) error {
	ctx := context.Background()

	p, err := loadProject()
	if err != nil {
		return err
	}

	raw, err := readSource(source)
	if err != nil {
		return err
	}
	in := session.TurnInput{BatchID: batchID}
	if eventsOnly {
		in.Events = raw
	} else {
		in.Output = raw
	}

	var result *session.TurnResult
	if dryRun {
		sess, err := p.openSession(nil)
		if err != nil {
			return err
		}
		result = sess.DryRun(ctx, in)
	} else {
		st, err := openStore(ctx, p.cfg.Store.DSN)
		if err != nil {
			return err
		}
		defer st.Close(ctx)

		sess, err := p.openSession(st, metrics.Observer{})
		if err != nil {
			return err
		}
		result, err = sess.Turn(ctx, in)
		if err != nil {
			return err
		}
	}

	if asJSON {
		payload, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(payload))
		return nil
	}
	printTurn(os.Stdout, result, dryRun)
	return nil
}

func readSource(source string) (string, error) {
	var (
		data []byte
		err  error
	)
	if source == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", source, err)
	}
	return string(data), nil
}

func printTurn(out io.Writer, result *session.TurnResult, dryRun bool) {
	label := "Batch"
	if dryRun {
		label = "Dry run"
	}
	counts := result.Report.Counts
	fmt.Fprintf(out, "%s %s: %d applied, %d rejected, %d deferred\n", label, result.BatchID, counts.Applied, counts.Rejected, counts.Deferred)
	if result.ParseProblem != "" {
		fmt.Fprintf(out, "  Events could not be parsed: %s\n", result.ParseProblem)
	}
	for _, o := range result.Report.Outcomes {
		if o.Status == engine.StatusApplied {
			continue
		}
		kind := string(o.Kind)
		if o.Type != "" {
			kind = o.Type
		}
		fmt.Fprintf(out, "  - [%d] %s %s: %s (%s)\n", o.Index, kind, o.Status, o.Message, o.Code)
	}
	if result.Context != "" {
		fmt.Fprintf(out, "\nRequested context:\n%s\n", result.Context)
	}
}
