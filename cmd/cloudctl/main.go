package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/cloudstore/internal/cloudctl"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cloudctl.Run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
