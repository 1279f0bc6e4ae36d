package trading

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// RouterAddressHex is the Uniswap V2 router on Base.
const RouterAddressHex = "0x4752ba5dbc23f44d87826276bf6fd6b1c372ad24"

const routerABIJSON = `[
	{"constant":false,"inputs":[{"name":"amountIn","type":"uint256"},{"name":"amountOutMin","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],"name":"swapExactTokensForTokens","outputs":[{"name":"amounts","type":"uint256[]"}],"payable":false,"stateMutability":"nonpayable","type":"function"}
]`

const erc20ABIJSON = `[
	{"constant":false,"inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"payable":false,"stateMutability":"nonpayable","type":"function"},
	{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}
]`

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// Trader submits approvals and swaps against the Uniswap V2 router,
// signing with a locally held key. Construct it once at startup so the
// detection callback pays no setup cost.
type Trader struct {
	client    *ethclient.Client
	key       *ecdsa.PrivateKey
	from      common.Address
	chainID   *big.Int
	router    common.Address
	routerABI abi.ABI
	erc20ABI  abi.ABI
	gas       GasConfig
	logger    *slog.Logger
}

// NewTrader builds a Trader around an ethclient and a hex-encoded
// private key. The key may carry a 0x prefix.
func NewTrader(client *ethclient.Client, privateKeyHex string, chainID *big.Int, logger *slog.Logger) (*Trader, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	routerABI, err := abi.JSON(strings.NewReader(routerABIJSON))
	if err != nil {
		return nil, fmt.Errorf("parse router abi: %w", err)
	}
	erc20ABI, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		return nil, fmt.Errorf("parse erc20 abi: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Trader{
		client:    client,
		key:       key,
		from:      crypto.PubkeyToAddress(key.PublicKey),
		chainID:   chainID,
		router:    common.HexToAddress(RouterAddressHex),
		routerABI: routerABI,
		erc20ABI:  erc20ABI,
		gas:       DefaultGasConfig(),
		logger:    logger,
	}, nil
}

// SetGasConfig replaces the gas parameters for subsequent transactions.
func (t *Trader) SetGasConfig(cfg GasConfig) {
	t.gas = cfg
}

// From returns the trading account's address.
func (t *Trader) From() common.Address {
	return t.from
}

// Allowance returns how much of token the router may spend on our behalf.
func (t *Trader) Allowance(ctx context.Context, token common.Address) (*big.Int, error) {
	data, err := t.erc20ABI.Pack("allowance", t.from, t.router)
	if err != nil {
		return nil, fmt.Errorf("pack allowance: %w", err)
	}

	out, err := t.client.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call allowance: %w", err)
	}

	results, err := t.erc20ABI.Unpack("allowance", out)
	if err != nil {
		return nil, fmt.Errorf("unpack allowance: %w", err)
	}
	return results[0].(*big.Int), nil
}

// Approve grants the router spending rights over token.
func (t *Trader) Approve(ctx context.Context, token common.Address, amount *big.Int) (common.Hash, error) {
	data, err := t.erc20ABI.Pack("approve", t.router, amount)
	if err != nil {
		return common.Hash{}, fmt.Errorf("pack approve: %w", err)
	}

	hash, err := t.send(ctx, token, data)
	if err != nil {
		return common.Hash{}, fmt.Errorf("send approve: %w", err)
	}
	t.logger.Info("approval submitted", "token", token.Hex(), "tx_hash", hash.Hex())
	return hash, nil
}

// SwapExactTokensForTokens swaps amountIn along path, requiring at least
// amountOutMin of the final token.
func (t *Trader) SwapExactTokensForTokens(ctx context.Context, amountIn, amountOutMin *big.Int, path []common.Address, deadline *big.Int) (common.Hash, error) {
	data, err := t.routerABI.Pack("swapExactTokensForTokens",
		amountIn, amountOutMin, path, t.from, deadline)
	if err != nil {
		return common.Hash{}, fmt.Errorf("pack swap: %w", err)
	}

	hash, err := t.send(ctx, t.router, data)
	if err != nil {
		return common.Hash{}, fmt.Errorf("send swap: %w", err)
	}
	t.logger.Info("swap submitted",
		"amount_in", amountIn.String(), "tx_hash", hash.Hex())
	return hash, nil
}

// BuyToken swaps amountIn of the input token for the detected token,
// approving the router first when the current allowance is short.
func (t *Trader) BuyToken(ctx context.Context, input, token common.Address, amountIn *big.Int) (common.Hash, error) {
	allowance, err := t.Allowance(ctx, input)
	if err != nil {
		return common.Hash{}, err
	}
	if allowance.Cmp(amountIn) < 0 {
		if _, err := t.Approve(ctx, input, maxUint256); err != nil {
			return common.Hash{}, err
		}
	}

	return t.SwapExactTokensForTokens(ctx,
		amountIn, big.NewInt(1),
		[]common.Address{input, token},
		Deadline(300))
}

// Deadline returns a swap deadline the given number of seconds from now.
func Deadline(seconds int64) *big.Int {
	return big.NewInt(time.Now().Unix() + seconds)
}

// send signs and submits a transaction carrying data to the given
// address, using the configured gas parameters.
func (t *Trader) send(ctx context.Context, to common.Address, data []byte) (common.Hash, error) {
	nonce, err := t.client.PendingNonceAt(ctx, t.from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("pending nonce: %w", err)
	}

	var tx *types.Transaction
	if t.gas.GasPrice != nil {
		tx = types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			GasPrice: t.gas.GasPrice,
			Gas:      t.gas.GasLimit,
			To:       &to,
			Data:     data,
		})
	} else {
		tx = types.NewTx(&types.DynamicFeeTx{
			ChainID:   t.chainID,
			Nonce:     nonce,
			GasTipCap: t.gas.MaxPriorityFeePerGas,
			GasFeeCap: t.gas.MaxFeePerGas,
			Gas:       t.gas.GasLimit,
			To:        &to,
			Data:      data,
		})
	}

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(t.chainID), t.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("sign transaction: %w", err)
	}

	if err := t.client.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("send transaction: %w", err)
	}
	return signed.Hash(), nil
}
