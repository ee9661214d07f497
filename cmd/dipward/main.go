// Command dipward runs the buy-the-dip trading bot. Every poll interval it
// compares the current price against a rolling average and the last executed
// buy, and on a dip places a market buy followed by a take-profit sell.
//
// Usage:
//
//	dipward --config config.yaml
//	dipward (uses CLI arguments)
//
// Required environment variables:
//
//	For Binance: BINANCE_API_KEY, BINANCE_API_SECRET
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/dipward/dipward/config"
	"github.com/dipward/dipward/internal/clients"
	"github.com/dipward/dipward/internal/services/gateway"
	"github.com/dipward/dipward/internal/services/pricer"
	"github.com/dipward/dipward/internal/services/trader"
	"github.com/dipward/dipward/internal/storage/tradewal"
	"go.uber.org/zap"
)

func main() {
	configs, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	for _, cfg := range configs {
		t, store, err := buildTrader(logger, cfg)
		if err != nil {
			log.Fatal(err)
		}
		defer store.Close()

		wg.Add(1)
		go func(cfg config.Config) {
			defer wg.Done()
			runLoop(ctx, logger, cfg, t)
		}(cfg)
	}

	wg.Wait()
}

func buildTrader(logger *zap.Logger, cfg config.Config) (*trader.Trader, *tradewal.Store, error) {
	// config.Get already rejects non-binance platforms, keep the guard local too
	if cfg.Platform != "binance" {
		return nil, nil, fmt.Errorf("trading on platform %q is not supported, use binance", cfg.Platform)
	}

	apiKey := os.Getenv("BINANCE_API_KEY")
	apiSecret := os.Getenv("BINANCE_API_SECRET")
	if apiKey == "" || apiSecret == "" {
		log.Fatal("BINANCE_API_KEY and BINANCE_API_SECRET environment variables must be set")
	}

	client := clients.NewBinanceClient(apiKey, apiSecret)

	source, err := pricer.NewBinancePriceSource(client, pricer.AverageConfig{
		Type:   cfg.AverageType,
		Period: cfg.AveragePeriod,
	})
	if err != nil {
		return nil, nil, err
	}

	// one WAL directory per pair so concurrent pairs never share segments
	store, err := tradewal.NewStore(filepath.Join(cfg.WalDir, cfg.Trading.Pair.String()))
	if err != nil {
		return nil, nil, err
	}

	t, err := trader.NewTrader(logger, cfg.Trading, source, gateway.NewBinanceGateway(client), store)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	return t, store, nil
}

func runLoop(ctx context.Context, logger *zap.Logger, cfg config.Config, t *trader.Trader) {
	logger.Info("trade loop started",
		zap.String("pair", cfg.Trading.Pair.String()),
		zap.Duration("poll_interval", cfg.PollPriceInterval))

	ticker := time.NewTicker(cfg.PollPriceInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("trade loop stopped", zap.String("pair", cfg.Trading.Pair.String()))
			return
		case <-ticker.C:
			if err := t.Trade(ctx); err != nil {
				logger.Error("trade cycle failed",
					zap.String("pair", cfg.Trading.Pair.String()),
					zap.Error(err))
			}
		}
	}
}
