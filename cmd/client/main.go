package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/scholarsphere/internal/buildinfo"
	"github.com/dmitrijs2005/scholarsphere/internal/client/cli"
	"github.com/dmitrijs2005/scholarsphere/internal/client/config"
	"github.com/dmitrijs2005/scholarsphere/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	logger, err := logging.New(cfg.LogBackend, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() { _ = logging.Sync(logger) }()

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		_ = logging.Sync(logger)
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
