// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"os"
	"strconv"
)

// Built-in defaults. Every one of them can be overridden from the
// environment.
const (
	// DefaultTargetTopic is the deployment event signature watched by
	// the topic-filtered subscription.
	DefaultTargetTopic = "0xf9d151d23a5253296eb20ab40959cf48828ea2732d337416716e302ed83ca658"
	// DefaultDeployer is the factory contract whose logs we subscribe to.
	DefaultDeployer = "0x71B8EFC8BCaD65a5D9386D07f2Dff57ab4EAf533"
	// DefaultWanted is the deployer address that finalizes a detection.
	DefaultWanted = "0x81F7cA6AF86D1CA6335E44A2C28bC88807491415"
	// DefaultUnwanted is the deployer address that is always skipped.
	DefaultUnwanted = "0x03Fb99ea8d3A832729a69C3e8273533b52f30D1A"
	// DefaultInputToken funds the swap side of the trade callback.
	DefaultInputToken = "0x0b3e328455c4059eeb9e3f84b5543f74e24e7e1b"
	// DefaultChainID is Base mainnet.
	DefaultChainID = 8453
)

// ErrMissingEndpoint means WSS_URL was not set.
var ErrMissingEndpoint = errors.New("WSS_URL is required")

// Config is the full runtime configuration.
type Config struct {
	// WSSURL is the JSON-RPC WebSocket endpoint. Required.
	WSSURL string
	// VerifyCallers enables transaction-sender verification for
	// ambiguous candidates.
	VerifyCallers bool

	Deployer    string
	TargetTopic string
	Wanted      string
	Unwanted    string

	// PrivateKey enables the trade callback when set.
	PrivateKey string
	// RPCURL is the HTTP endpoint used for trade submission. Falls back
	// to WSSURL when empty (ethclient speaks both).
	RPCURL string
	// InputToken is swapped for the detected token.
	InputToken string
	// ChainID selects the signing chain.
	ChainID int64

	// MetricsAddr enables the /metrics listener when set, e.g. ":9090".
	MetricsAddr string
	// DatabaseURL enables the Postgres detection journal when set.
	DatabaseURL string
}

// FromEnv builds a Config from the environment. The stream endpoint is
// the only required value; everything else has a default.
func FromEnv() (*Config, error) {
	cfg := &Config{
		WSSURL:        os.Getenv("WSS_URL"),
		VerifyCallers: true,
		Deployer:      envOr("DEPLOYER_ADDRESS", DefaultDeployer),
		TargetTopic:   envOr("TARGET_TOPIC", DefaultTargetTopic),
		Wanted:        envOr("WANTED_ADDRESS", DefaultWanted),
		Unwanted:      envOr("UNWANTED_ADDRESS", DefaultUnwanted),
		PrivateKey:    os.Getenv("PRIVATE_KEY"),
		RPCURL:        os.Getenv("RPC_URL"),
		InputToken:    envOr("INPUT_TOKEN", DefaultInputToken),
		ChainID:       DefaultChainID,
		MetricsAddr:   os.Getenv("METRICS_ADDR"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
	}

	if cfg.WSSURL == "" {
		return nil, ErrMissingEndpoint
	}

	// An unparseable flag keeps verification on; detection must not get
	// laxer because of a typo.
	if v := os.Getenv("USE_TX_VERIFICATION"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cfg.VerifyCallers = parsed
		}
	}

	if v := os.Getenv("CHAIN_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, errors.New("CHAIN_ID must be an integer")
		}
		cfg.ChainID = id
	}

	if cfg.RPCURL == "" {
		cfg.RPCURL = cfg.WSSURL
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
