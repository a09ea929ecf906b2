// Package main is the entry point for the catr CLI application.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/eykd/catr-go/cmd"
)

func main() {
	// Create a context that is cancelled on SIGINT (Ctrl+C).
	// The emitter stops before opening the next source once it fires.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)

	code := cmd.RunCLI(ctx, cmd.NewRootCmd(), os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
