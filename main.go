package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spanalyzer/spanalyzer/cmd"
)

func main() {
	// Ctrl-C cancels the context; in-flight requests stop and the analyze
	// command exits without writing a partial report.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Execute(ctx)
}
