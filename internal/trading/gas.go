// Package trading executes swaps through the Uniswap V2 router. It is
// the production implementation of the detection callback.
package trading

import "math/big"

// GasConfig sets the gas parameters for submitted transactions. A
// non-nil GasPrice selects a legacy transaction; otherwise the EIP-1559
// fields apply.
type GasConfig struct {
	GasLimit             uint64
	GasPrice             *big.Int
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

func gwei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000))
}

// DefaultGasConfig is tuned for low-traffic conditions: a generous limit
// with minimal fees.
func DefaultGasConfig() GasConfig {
	return GasConfig{
		GasLimit:             5_000_000,
		MaxFeePerGas:         big.NewInt(2_500_000),
		MaxPriorityFeePerGas: big.NewInt(1_500_000),
	}
}

// FastGasConfig pays moderate priority for faster inclusion.
func FastGasConfig() GasConfig {
	return GasConfig{
		GasLimit:             800_000,
		MaxFeePerGas:         gwei(5),
		MaxPriorityFeePerGas: gwei(2),
	}
}

// TurboGasConfig pays heavily for next-block inclusion.
func TurboGasConfig() GasConfig {
	return GasConfig{
		GasLimit:             500_000,
		MaxFeePerGas:         gwei(20),
		MaxPriorityFeePerGas: gwei(10),
	}
}

// WithGasLimit returns a copy with the gas limit replaced.
func (g GasConfig) WithGasLimit(limit uint64) GasConfig {
	g.GasLimit = limit
	return g
}

// WithLegacyGasPrice returns a copy configured for a legacy transaction.
func (g GasConfig) WithLegacyGasPrice(price *big.Int) GasConfig {
	g.GasPrice = price
	g.MaxFeePerGas = nil
	g.MaxPriorityFeePerGas = nil
	return g
}

// WithEIP1559 returns a copy configured for a dynamic-fee transaction.
func (g GasConfig) WithEIP1559(maxFee, tip *big.Int) GasConfig {
	g.GasPrice = nil
	g.MaxFeePerGas = maxFee
	g.MaxPriorityFeePerGas = tip
	return g
}
