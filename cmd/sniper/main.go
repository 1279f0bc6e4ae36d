// Command sniper watches a token factory's log stream and reports the
// first deployment by the wanted deployer. With a private key configured
// it also fires a Uniswap V2 buy of the detected token.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"eth-token-sniper/internal/config"
	"eth-token-sniper/internal/detection"
	"eth-token-sniper/internal/observability"
	"eth-token-sniper/internal/trading"
)

// buyAmount is the fixed input-token amount spent per detection, in the
// input token's smallest unit (10 tokens at 18 decimals).
var buyAmount = new(big.Int).SetUint64(10_000_000_000_000_000_000)

func main() {
	var (
		envFile  = flag.String("env", ".env", "path to .env file")
		strategy = flag.String("strategy", "data", "extraction strategy: data or topic")
	)
	flag.Parse()

	godotenv.Load(*envFile)

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.RFC3339,
	}))
	slog.SetDefault(logger)

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			logger.Info("metrics listener started", "addr", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				logger.Error("metrics listener failed", "error", err)
			}
		}()
	}

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

	var callback detection.Callback
	if cfg.PrivateKey != "" {
		client, err := ethclient.Dial(cfg.RPCURL)
		if err != nil {
			logger.Error("rpc dial failed", "error", err)
			os.Exit(1)
		}
		defer client.Close()

		trader, err := trading.NewTrader(client, cfg.PrivateKey, big.NewInt(cfg.ChainID), logger)
		if err != nil {
			logger.Error("trader setup failed", "error", err)
			os.Exit(1)
		}
		logger.Info("trade callback armed", "account", trader.From().Hex())

		input := common.HexToAddress(cfg.InputToken)
		callback = func(token string) error {
			buyCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			hash, err := trader.BuyToken(buyCtx, input, common.HexToAddress(token), buyAmount)
			if err != nil {
				return fmt.Errorf("buy %s: %w", token, err)
			}
			logger.Info("buy submitted", "token", token, "tx_hash", hash.Hex())
			return nil
		}
	}

	detector := detection.NewDetector(opts, extractor)

	token, err := detector.Detect(ctx, callback)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("shutting down")
	case err != nil:
		logger.Error("detection failed", "error", err)
		os.Exit(1)
	case token == "":
		logger.Info("stream ended without a detection")
	default:
		fmt.Println(token)
	}
}
