// Package main serves the Spidr interest form over HTTP.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-spidrform/internal/app"
	"github.com/goliatone/go-spidrform/internal/config"
)

func main() {
	cfg, err := config.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[SPIDRFORM] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunServer(ctx, cfg, log.Default()); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
