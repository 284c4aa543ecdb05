// Package main runs the Spidr interest form as an interactive terminal
// session and prints the submitted record to stdout.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-spidrform/internal/app"
	"github.com/goliatone/go-spidrform/internal/config"
	"github.com/goliatone/go-spidrform/pkg/renderers/tui"
)

func main() {
	confirm := flag.Bool("confirm", false, "ask before submitting")
	cfg, err := config.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[SPIDRFORM] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []tui.Option{tui.WithOutput(os.Stderr)}
	if *confirm {
		opts = append(opts, tui.WithConfirmSubmit())
	}

	err = app.RunTerminal(ctx, cfg, log.Default(), os.Stdout, opts...)
	switch {
	case errors.Is(err, tui.ErrAborted):
		fmt.Fprintln(os.Stderr, "aborted")
		os.Exit(130)
	case err != nil:
		log.Fatalf("terminal form: %v", err)
	}
}
