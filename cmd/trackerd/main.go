// Package main is the entrypoint for the tracker daemon.
// trackerd serves the timer control API and persists session snapshots.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/okolari/tracktimer/internal/server"
)

func main() {
	ctx := context.Background()
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	return server.Run(ctx, server.Params{Name: "trackerd"}, nil)
}
