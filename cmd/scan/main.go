// Command scan replays detection over a historical block range and
// prints every token the live pipeline would have caught. With
// DATABASE_URL set, detections are also journaled to Postgres.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"eth-token-sniper/internal/config"
	"eth-token-sniper/internal/detection"
	"eth-token-sniper/internal/ethrpc"
	"eth-token-sniper/internal/storage"
	"eth-token-sniper/internal/storage/postgres"
)

func main() {
	var (
		envFile  = flag.String("env", ".env", "path to .env file")
		strategy = flag.String("strategy", "data", "extraction strategy: data or topic")
		from     = flag.Uint64("from", 0, "first block of the scan range")
		to       = flag.Uint64("to", 0, "last block of the scan range")
	)
	flag.Parse()

	godotenv.Load(*envFile)

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.RFC3339,
	}))
	slog.SetDefault(logger)

	if *to == 0 || *to < *from {
		logger.Error("a block range is required: -from N -to M")
		os.Exit(1)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	opts := detection.Options{
		Endpoint:       cfg.WSSURL,
		WantedDeployer: common.HexToAddress(cfg.Wanted),
		VerifyCallers:  cfg.VerifyCallers,
		Logger:         logger,
	}

	var extractor detection.Strategy
	switch *strategy {
	case "data":
		opts.FilterAddress = cfg.Deployer
		extractor = detection.NewDataFieldStrategy(
			common.HexToAddress(cfg.Wanted),
			common.HexToAddress(cfg.Unwanted),
		)
	case "topic":
		opts.FilterTopics = []string{cfg.TargetTopic}
		extractor = detection.NewIndexedTopicStrategy(common.HexToAddress(cfg.Wanted))
	default:
		logger.Error("unknown strategy", "strategy", *strategy)
		os.Exit(1)
	}

	var journal storage.DetectionStore
	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("journal connect failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := pool.EnsureSchema(ctx); err != nil {
			logger.Error("journal schema failed", "error", err)
			os.Exit(1)
		}
		journal = postgres.NewDetectionStore(pool)
	}

	source := ethrpc.NewTxClient(cfg.WSSURL)
	scanner := detection.NewRangeScanner(opts, source, extractor)

	matches, err := scanner.ScanRange(ctx, *from, *to)
	if err != nil {
		logger.Error("scan failed", "error", err)
		os.Exit(1)
	}

	for _, m := range matches {
		fmt.Printf("block %d  token %s  tx %s  verified=%v\n",
			m.Block, m.Token, m.TxHash, m.Verified)

		if journal == nil {
			continue
		}
		err := journal.Insert(ctx, &storage.Detection{
			TxHash:     m.TxHash,
			Token:      m.Token,
			Block:      int64(m.Block),
			Strategy:   *strategy,
			Verified:   m.Verified,
			DetectedAt: time.Now().Unix(),
		})
		if err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			logger.Warn("journal insert failed", "tx_hash", m.TxHash, "error", err)
		}
	}

	logger.Info("scan complete", "blocks", *to-*from+1, "detections", len(matches))
}
