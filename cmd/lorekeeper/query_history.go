package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"lorekeeper/internal/save"
)

func queryHistoryCmd() *cobra.Command {
	var limit int
	var all bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List journaled batches, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryHistory(limit, all)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of batches (0 for all)")
	cmd.Flags().BoolVar(&all, "all", false, "Include batches from every session")
	return cmd
}

func runQueryHistory(limit int, all bool) error {
	ctx := context.Background()

	p, err := loadProject()
	if err != nil {
		return err
	}

	sessionID := ""
	if !all {
		file, err := save.Read(p.cfg.Save)
		if err != nil {
			return err
		}
		sessionID = file.Header.SessionID
	}

	st, err := openStore(ctx, p.cfg.Store.DSN)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	batches, err := st.ListBatches(ctx, sessionID, limit)
	if err != nil {
		return err
	}
	if len(batches) == 0 {
		fmt.Fprintln(os.Stdout, "No batches recorded.")
		return nil
	}
	for _, b := range batches {
		fmt.Fprintf(os.Stdout, "%s  %s  applied=%d rejected=%d deferred=%d\n", b.CreatedAt.Local().Format(time.DateTime), b.ID, b.Applied, b.Rejected, b.Deferred)
		if all {
			fmt.Fprintf(os.Stdout, "  session: %s\n", b.SessionID)
		}
	}
	return nil
}

func queryOutcomesCmd() *cobra.Command {
	var showPayload bool
	cmd := &cobra.Command{
		Use:   "outcomes <batch-id>",
		Short: "Show the per-event outcomes of a journaled batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryOutcomes(args[0], showPayload)
		},
	}
	cmd.Flags().BoolVar(&showPayload, "payload", false, "Print each event's raw payload")
	return cmd
}

func runQueryOutcomes(batchID string, showPayload bool) error {
	ctx := context.Background()

	p, err := loadProject()
	if err != nil {
		return err
	}

	st, err := openStore(ctx, p.cfg.Store.DSN)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	outcomes, err := st.ListOutcomes(ctx, batchID)
	if err != nil {
		return err
	}
	if len(outcomes) == 0 {
		fmt.Fprintf(os.Stdout, "No outcomes found for batch %q.\n", batchID)
		return nil
	}
	for _, o := range outcomes {
		kind := o.Kind
		if o.Type != "" {
			kind = o.Type
		}
		if o.Code == "" {
			fmt.Fprintf(os.Stdout, "[%d] %s %s\n", o.Index, kind, o.Status)
		} else {
			fmt.Fprintf(os.Stdout, "[%d] %s %s: %s (%s)\n", o.Index, kind, o.Status, o.Message, o.Code)
		}
		if showPayload && o.Payload != "" {
			fmt.Fprintf(os.Stdout, "    %s\n", o.Payload)
		}
	}
	return nil
}
