package trading

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGasPresets(t *testing.T) {
	def := DefaultGasConfig()
	assert.Equal(t, uint64(5_000_000), def.GasLimit)
	assert.Equal(t, big.NewInt(2_500_000), def.MaxFeePerGas)
	assert.Equal(t, big.NewInt(1_500_000), def.MaxPriorityFeePerGas)
	assert.Nil(t, def.GasPrice)

	fast := FastGasConfig()
	assert.Equal(t, uint64(800_000), fast.GasLimit)
	assert.Equal(t, gwei(5), fast.MaxFeePerGas)
	assert.Equal(t, gwei(2), fast.MaxPriorityFeePerGas)

	turbo := TurboGasConfig()
	assert.Equal(t, uint64(500_000), turbo.GasLimit)
	assert.Equal(t, gwei(20), turbo.MaxFeePerGas)
	assert.Equal(t, gwei(10), turbo.MaxPriorityFeePerGas)
}

func TestGasConfig_WithLegacyGasPrice(t *testing.T) {
	cfg := DefaultGasConfig().WithLegacyGasPrice(gwei(3))

	assert.Equal(t, gwei(3), cfg.GasPrice)
	assert.Nil(t, cfg.MaxFeePerGas)
	assert.Nil(t, cfg.MaxPriorityFeePerGas)
}

func TestGasConfig_WithEIP1559(t *testing.T) {
	cfg := FastGasConfig().WithLegacyGasPrice(gwei(3)).WithEIP1559(gwei(8), gwei(4))

	assert.Nil(t, cfg.GasPrice)
	assert.Equal(t, gwei(8), cfg.MaxFeePerGas)
	assert.Equal(t, gwei(4), cfg.MaxPriorityFeePerGas)
}

func TestGasConfig_WithGasLimit(t *testing.T) {
	cfg := DefaultGasConfig().WithGasLimit(1_000_000)
	assert.Equal(t, uint64(1_000_000), cfg.GasLimit)
}
