package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	appLog "trashplan/internal/log"
)

const version = "0.0.1"

func main() {
	// Values from .env feed the flags' environment sources.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		appLog.Error("failed to load .env", err)
	}

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := newCommand(os.Stdout, http.DefaultClient)
	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
