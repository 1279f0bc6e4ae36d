package trading

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPrivateKey = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func newTestTrader(t *testing.T) *Trader {
	t.Helper()
	trader, err := NewTrader(nil, testPrivateKey, big.NewInt(8453), nil)
	require.NoError(t, err)
	return trader
}

func TestNewTrader_DerivesAddress(t *testing.T) {
	trader := newTestTrader(t)
	assert.Equal(t,
		common.HexToAddress("0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"),
		trader.From())
}

func TestNewTrader_AcceptsUnprefixedKey(t *testing.T) {
	withPrefix := newTestTrader(t)

	without, err := NewTrader(nil, testPrivateKey[2:], big.NewInt(8453), nil)
	require.NoError(t, err)
	assert.Equal(t, withPrefix.From(), without.From())
}

func TestNewTrader_RejectsBadKey(t *testing.T) {
	_, err := NewTrader(nil, "0xnothex", big.NewInt(8453), nil)
	assert.Error(t, err)
}

func TestRouterABI_SwapSelector(t *testing.T) {
	trader := newTestTrader(t)

	path := []common.Address{
		common.HexToAddress("0x0b3e328455c4059eeb9e3f84b5543f74e24e7e1b"),
		common.HexToAddress("0x2222222222222222222222222222222222222222"),
	}
	data, err := trader.routerABI.Pack("swapExactTokensForTokens",
		big.NewInt(1000), big.NewInt(1), path, trader.From(), big.NewInt(1_700_000_000))
	require.NoError(t, err)

	// swapExactTokensForTokens(uint256,uint256,address[],address,uint256)
	assert.Equal(t, []byte{0x38, 0xed, 0x17, 0x39}, data[:4])
}

func TestERC20ABI_Selectors(t *testing.T) {
	trader := newTestTrader(t)

	approve, err := trader.erc20ABI.Pack("approve", trader.router, maxUint256)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x09, 0x5e, 0xa7, 0xb3}, approve[:4])

	allowance, err := trader.erc20ABI.Pack("allowance", trader.From(), trader.router)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xdd, 0x62, 0xed, 0x3e}, allowance[:4])
}

func TestDeadline(t *testing.T) {
	now := time.Now().Unix()
	deadline := Deadline(300).Int64()

	assert.GreaterOrEqual(t, deadline, now+300)
	assert.Less(t, deadline, now+310)
}

func TestMaxUint256(t *testing.T) {
	assert.Equal(t, 256, maxUint256.BitLen())
}
