package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/useradmin/internal/devapi"
	"github.com/dmitrijs2005/useradmin/internal/logging"
)

func initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func main() {

	cfg, err := devapi.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.LogBackend, cfg.LogLevel, os.Stdout)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	srv, err := devapi.NewServer(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()
	initSignalHandler(cancelFunc)

	if err := srv.Run(ctx); err != nil {
		logger.Error(ctx, "dev api stopped", "err", err)
		os.Exit(1)
	}
}
