package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/john/elegoo_hub/bridge"
	"github.com/john/elegoo_hub/logger"
	"github.com/john/elegoo_hub/moonraker"
	"github.com/john/elegoo_hub/publish"
)

func main() {
	configPath := flag.String("config", "", "optional YAML configuration file")
	once := flag.Bool("once", false, "run a single polling cycle and exit")
	flag.Parse()

	// Load configuration.
	cfg, err := LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	if err := logger.Init(cfg.Log); err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	fetcher := moonraker.NewClient(cfg.FetchTimeout(), logger.New("moonraker"))
	publisher := publish.NewClient(cfg.Hub.URL, cfg.Hub.Secret, cfg.PublishTimeout())

	hub := bridge.New(bridge.Config{
		Registry: cfg.Printers,
		Interval: cfg.PollInterval(),
		Endpoint: publisher.Endpoint(),
	}, fetcher, publisher, nil, logger.New("bridge"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *once {
		hub.RunCycle(ctx)
		return
	}

	// Handle graceful shutdown.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("Received signal, shutting down")
		cancel()
	}()

	_ = hub.Run(ctx)
}
