// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/mcq-engine/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the question generation HTTP API",
	Long: `Serve starts the HTTP API immediately and loads the lexicon in the
background. /readyz and POST /api/mcqs answer 503 until loading completes.

Routes:
  POST /api/mcqs   text/plain body or multipart "file" field
  GET  /healthz    liveness
  GET  /readyz     readiness`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	pcfg, err := pipelineConfig(cmd)
	if err != nil {
		return err
	}
	scfg, err := serverConfig()
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		scfg.Addr = addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(scfg, logger.Named("server"))
	startErr := make(chan error, 1)
	go func() {
		p, err := buildPipeline(ctx, pcfg)
		if err != nil {
			logger.Error("startup failed", zap.Error(err))
			startErr <- err
			stop()
			return
		}
		srv.SetGenerator(p)
	}()

	if err := srv.Run(ctx); err != nil {
		return err
	}
	select {
	case err := <-startErr:
		return err
	default:
		return nil
	}
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")

	rootCmd.AddCommand(serveCmd)
}
