// Package main is the entry point for dirrank.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/idelchi/dirrank/internal/cli"
)

// version is set at build time.
//
//nolint:gochecknoglobals // Version is injected via ldflags
var version = "unknown - unofficial & generated by unknown"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := cli.New(version).Execute(ctx)

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
