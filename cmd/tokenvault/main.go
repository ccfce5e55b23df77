package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tokenvault/cmd/tokenvault/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(commands.ExitCode(err))
}
