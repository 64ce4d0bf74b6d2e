package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lorekeeper/internal/errutil"
	"lorekeeper/internal/mcp"
	"lorekeeper/internal/metrics"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(metricsAddr)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. 127.0.0.1:9100")
	return cmd
}

func runServe(metricsAddr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := loadProject()
	if err != nil {
		return err
	}

	st, err := openStore(ctx, p.cfg.Store.DSN)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	sess, err := p.openSession(st, metrics.Observer{})
	if err != nil {
		return err
	}

	if metricsAddr != "" {
		metricsServer := metrics.NewServer(metricsAddr)
		errCh, err := metricsServer.Start()
		if err != nil {
			return err
		}
		go func() {
			if serveErr, ok := <-errCh; ok {
				errutil.LogError(p.logger, "metrics server failed", serveErr)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Stop(shutdownCtx); err != nil {
				errutil.LogError(p.logger, "stopping metrics server", err)
			}
		}()
	}

	p.logger.Info("serving session", "session_id", sess.ID(), "save", p.cfg.Save)
	server := mcp.NewServer(sess, st, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
