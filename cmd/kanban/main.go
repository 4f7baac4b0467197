// Package main provides the kanban CLI.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/fatih/color"

	"github.com/nielpattin/SA25-26-ClassN02-Group-2-sub003/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
