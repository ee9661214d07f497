// Package config loads bot configuration from a yaml file or CLI flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dipward/dipward/internal/domain"
	"github.com/dipward/dipward/internal/services/indicator"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration for one trading pair.
type Config struct {
	Platform          string
	Trading           domain.TradingConfig
	AverageType       indicator.MovingAverageType
	AveragePeriod     int
	PollPriceInterval time.Duration
	WalDir            string
}

type configTmp struct {
	Platform           string        `yaml:"platform"`
	Pair               string        `yaml:"pair"`
	QuoteAssetQuantity string        `yaml:"quote_asset_quantity"`
	BuyPercentage      string        `yaml:"buy_percentage"`
	SellPercentage     string        `yaml:"sell_percentage"`
	DumpPercentage     string        `yaml:"dump_percentage"`
	AverageType        string        `yaml:"average_type,omitempty"`
	AveragePeriod      int           `yaml:"average_period,omitempty"`
	PollPriceInterval  time.Duration `yaml:"poll_price_interval,omitempty"`
	WalDir             string        `yaml:"wal_dir,omitempty"`
}

const (
	defaultAveragePeriod     = 30
	defaultPollPriceInterval = time.Minute
	defaultWalDir            = "./wal"
)

// Get loads configs from the yaml file passed via --config, or falls back to
// a single config built from CLI flags.
func Get() ([]Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	pairFlag := flag.String("pair", "BTC_USDT", "trade pair, example: BTC_USDT")
	platformFlag := flag.String("platform", "binance", "trading platform, only binance is supported")
	quantityFlag := flag.String("quantity", "100", "quote asset quantity spent per buy")
	buyFlag := flag.String("buy-percentage", "-0.03", "re-arm threshold below the last buy price, signed fraction")
	sellFlag := flag.String("sell-percentage", "0.03", "take-profit distance above the buy price, signed fraction")
	dumpFlag := flag.String("dump-percentage", "-0.002", "dump threshold below the rolling average, signed fraction")
	pollFlag := flag.Duration("poll-price-interval", defaultPollPriceInterval, "poll market price interval")
	flag.Parse()

	if *configPath != "" {
		return getYaml(*configPath)
	}

	tmp := configTmp{
		Platform:           *platformFlag,
		Pair:               *pairFlag,
		QuoteAssetQuantity: *quantityFlag,
		BuyPercentage:      *buyFlag,
		SellPercentage:     *sellFlag,
		DumpPercentage:     *dumpFlag,
		PollPriceInterval:  *pollFlag,
	}

	cfg, err := tmp.build()
	if err != nil {
		return nil, err
	}

	return []Config{cfg}, nil
}

func getYaml(path string) ([]Config, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tmps []configTmp
	if err := yaml.Unmarshal(payload, &tmps); err != nil {
		return nil, err
	}

	configs := make([]Config, 0, len(tmps))
	for i, tmp := range tmps {
		cfg, err := tmp.build()
		if err != nil {
			return nil, fmt.Errorf("config entry %d: %w", i, err)
		}
		configs = append(configs, cfg)
	}

	return configs, nil
}

func (t configTmp) build() (Config, error) {
	pair, err := pairFromString(t.Pair)
	if err != nil {
		return Config{}, err
	}

	quantity, err := decimal.NewFromString(t.QuoteAssetQuantity)
	if err != nil {
		return Config{}, fmt.Errorf("incorrect 'quote_asset_quantity' %q: %w", t.QuoteAssetQuantity, err)
	}
	buy, err := decimal.NewFromString(t.BuyPercentage)
	if err != nil {
		return Config{}, fmt.Errorf("incorrect 'buy_percentage' %q: %w", t.BuyPercentage, err)
	}
	sell, err := decimal.NewFromString(t.SellPercentage)
	if err != nil {
		return Config{}, fmt.Errorf("incorrect 'sell_percentage' %q: %w", t.SellPercentage, err)
	}
	dump, err := decimal.NewFromString(t.DumpPercentage)
	if err != nil {
		return Config{}, fmt.Errorf("incorrect 'dump_percentage' %q: %w", t.DumpPercentage, err)
	}

	switch t.Platform {
	case "binance":
	case "bybit":
		// bybit serves price quotes and candle backfill only
		return Config{}, fmt.Errorf("platform 'bybit' cannot trade, use 'binance'")
	case "":
		return Config{}, fmt.Errorf("'platform' is not set")
	default:
		return Config{}, fmt.Errorf("unsupported 'platform' %q", t.Platform)
	}

	averageType := indicator.MovingAverageType(strings.ToUpper(t.AverageType))
	if t.AverageType == "" {
		averageType = indicator.SMA
	}
	switch averageType {
	case indicator.SMA, indicator.CMA, indicator.EMA:
	default:
		return Config{}, fmt.Errorf("unsupported 'average_type' %q", t.AverageType)
	}

	cfg := Config{
		Platform: t.Platform,
		Trading: domain.TradingConfig{
			Pair:               pair,
			QuoteAssetQuantity: quantity,
			BuyPercentage:      buy,
			SellPercentage:     sell,
			DumpPercentage:     dump,
		},
		AverageType:       averageType,
		AveragePeriod:     t.AveragePeriod,
		PollPriceInterval: t.PollPriceInterval,
		WalDir:            t.WalDir,
	}

	if cfg.AveragePeriod == 0 {
		cfg.AveragePeriod = defaultAveragePeriod
	}
	if cfg.PollPriceInterval == 0 {
		cfg.PollPriceInterval = defaultPollPriceInterval
	}
	if cfg.WalDir == "" {
		cfg.WalDir = defaultWalDir
	}

	if err := cfg.Trading.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func pairFromString(s string) (domain.Pair, error) {
	parts := strings.Split(s, "_")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return domain.Pair{}, fmt.Errorf("invalid pair %q, expected format BASE_QUOTE", s)
	}
	return domain.Pair{Base: parts[0], Quote: parts[1]}, nil
}
