package main

import (
	"context"
	"os"
	"os/signal"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	status := run(ctx, os.Args[1:], defaultDeps())
	stop()

	if status != StatusOK {
		os.Exit(1)
	}
}
