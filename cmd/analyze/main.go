package main

import (
	"context"
	"flag"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/eshbtc/finport/internal/analytics"
	"github.com/eshbtc/finport/internal/cache"
	"github.com/eshbtc/finport/internal/config"
	"github.com/eshbtc/finport/internal/database"
	"github.com/eshbtc/finport/internal/kafka"
)

func main() {
	ticker := flag.String("ticker", "", "security ticker to analyze")
	comparisons := flag.String("comparisons", "SPY,QQQ", "comma-separated comparison tickers for correlations")
	lookback := flag.Int("lookback", 365, "lookback window in days for cycle and correlation analysis")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := newLogger(cfg.Logging.Level)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if *ticker == "" {
		log.Fatal("-ticker is required")
	}

	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = rdb.Close() }()
	}
	store := cache.NewCachingStore(rdb, cfg.Redis.TTL, db)

	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.AnalyticsTopic)
	defer producer.Close()

	svc := analytics.NewService(store, producer, log)
	ctx := context.Background()

	indicators, err := svc.ComputeIndicators(ctx, *ticker, nil, nil)
	if err != nil {
		log.Fatal("indicator computation failed", zap.String("ticker", *ticker), zap.Error(err))
	}
	log.Info("indicators computed",
		zap.String("ticker", indicators.Security.Symbol),
		zap.Int("indicators", len(indicators.Indicators)))

	cycles, err := svc.AnalyzeSwapCycles(ctx, *ticker, *lookback)
	if err != nil {
		log.Fatal("swap cycle analysis failed", zap.String("ticker", *ticker), zap.Error(err))
	}
	log.Info("swap cycles detected",
		zap.String("ticker", cycles.Security.Symbol),
		zap.Int("cycles", len(cycles.Cycles)))

	vol, err := svc.AnalyzeVolatilityCycles(ctx, *ticker, *lookback)
	if err != nil {
		log.Fatal("volatility analysis failed", zap.String("ticker", *ticker), zap.Error(err))
	}
	log.Info("volatility cycles classified",
		zap.String("ticker", vol.Security.Symbol),
		zap.Int("days", len(vol.Series)))

	comps := splitTickers(*comparisons)
	corr, err := svc.ComputeCorrelations(ctx, *ticker, comps, *lookback)
	if err != nil {
		log.Fatal("correlation computation failed", zap.String("ticker", *ticker), zap.Error(err))
	}
	log.Info("correlations computed",
		zap.String("ticker", corr.Security.Symbol),
		zap.Int("pairs", len(corr.Correlations)),
		zap.Strings("skipped", corr.Skipped))
}

func splitTickers(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if level != "" {
		if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
			return nil, err
		}
	}
	return cfg.Build()
}
