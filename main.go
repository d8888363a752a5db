package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/ObiAU/smartpost/cmd"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute(ctx)
}
