package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"banguat/internal/app"
)

func main() {
	// Root context bound to OS signals so serve shuts down gracefully.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := app.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
