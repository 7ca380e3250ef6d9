package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nice7girl/bws-invest-agent/internal/app"
	"github.com/nice7girl/bws-invest-agent/internal/config"
	"github.com/nice7girl/bws-invest-agent/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newApplication assembles the app from configuration; called once per
// command invocation.
func newApplication() *app.Application {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)
	return app.New(cfg, logger)
}
