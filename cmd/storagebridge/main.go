package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	intRedis "github.com/retail-ai-inc/storagebridge/internal/db/redis"
	"github.com/retail-ai-inc/storagebridge/pkg/bridge"
	"github.com/retail-ai-inc/storagebridge/pkg/config"
	"github.com/retail-ai-inc/storagebridge/pkg/logger"
	"github.com/retail-ai-inc/storagebridge/pkg/port"
	"github.com/retail-ai-inc/storagebridge/pkg/state"
	"github.com/retail-ai-inc/storagebridge/pkg/transport/redis"
	"github.com/retail-ai-inc/storagebridge/pkg/utils"
)

func main() {
	// Initialize context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Capture system interrupt signal
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		logger.Log.Info("Received interrupt signal, exiting...")
		cancel()
	}()

	// Load configuration
	cfg := config.NewConfig()
	log := logger.InitLogger(cfg.LogLevel)

	store, err := state.Open(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Errorf("Failed to close storage: %v", err)
		}
	}()

	loop := port.NewLoop(log)
	save, loadRequest, loadResponse := cfg.PortNames()
	app := port.NewApp(loop, save, loadRequest, loadResponse)

	// Wiring must be complete before any message is dispatched.
	b := bridge.New(store, log, bridge.WithKey(cfg.Storage.Key))
	if err := b.Init(ctx, app); err != nil {
		log.Fatalf("Failed to initialize storage bridge: %v", err)
	}
	defer b.Close()

	var wg sync.WaitGroup
	switch strings.ToLower(cfg.Transport.Type) {
	case "redis":
		client, err := intRedis.GetRedisClient(ctx, cfg.Transport.Connection)
		if err != nil {
			log.Fatalf("[Redis] Failed to connect transport: %v", err)
		}
		defer client.Close()

		tr := redis.NewRedisTransport(client, cfg.Transport.ChannelPrefix, app, log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := tr.Run(ctx); err != nil {
				log.Errorf("[Redis] Transport stopped: %v", err)
				cancel()
			}
		}()
	case "":
		log.Warn("No transport configured, ports are only reachable in-process.")
	default:
		log.Fatalf("Unknown transport type: %s", cfg.Transport.Type)
	}

	// Start monitoring goroutine: log the stored document size every interval
	if cfg.EnableDocumentMonitoring {
		utils.StartDocumentMonitoring(ctx, store, b.Key(), log, cfg.MonitorInterval)
	}

	loop.Run(ctx)
	wg.Wait()
	logger.Log.Info("Program has exited")
}
