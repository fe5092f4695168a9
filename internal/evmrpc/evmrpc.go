package evmrpc

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/0xGeorgii/interstellar/internal/model"
	"github.com/0xGeorgii/interstellar/internal/utils/config"
	"github.com/0xGeorgii/interstellar/internal/utils/logger"
)

// ABI of the escrow ledger contract: one contract holds every escrow, keyed
// by an id derived from (order hash, hash lock).
const escrowABI = `[
	{"type":"function","name":"createEscrow","stateMutability":"payable","inputs":[{"name":"orderHash","type":"bytes32"},{"name":"hashlock","type":"bytes32"},{"name":"withdrawalStart","type":"uint256"},{"name":"cancellationStart","type":"uint256"}],"outputs":[{"name":"escrowId","type":"bytes32"}]},
	{"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[{"name":"escrowId","type":"bytes32"},{"name":"secret","type":"bytes32"}],"outputs":[]},
	{"type":"function","name":"cancel","stateMutability":"nonpayable","inputs":[{"name":"escrowId","type":"bytes32"}],"outputs":[]},
	{"type":"function","name":"escrows","stateMutability":"view","inputs":[{"name":"escrowId","type":"bytes32"}],"outputs":[{"name":"state","type":"uint8"},{"name":"amount","type":"uint256"},{"name":"createdBlock","type":"uint256"}]}
]`

type EvmRPC struct {
	appConfig *config.AppConfig
	logger    *logger.Logger
	client    *ethclient.Client
	contract  *bind.BoundContract
	signerKey *ecdsa.PrivateKey
	chainID   *big.Int
}

func New(appConfig *config.AppConfig, logger *logger.Logger) (*EvmRPC, error) {
	client, err := ethclient.Dial(appConfig.Ethereum.RPCEndpoint)
	if err != nil {
		return nil, err
	}

	parsed, err := abi.JSON(strings.NewReader(escrowABI))
	if err != nil {
		return nil, err
	}

	contractAddr := common.HexToAddress(appConfig.Ethereum.EscrowContractAddr)
	contract := bind.NewBoundContract(contractAddr, parsed, client, client, client)

	key, err := crypto.HexToECDSA(strings.TrimPrefix(appConfig.Ethereum.ResolverPrivateKey, "0x"))
	if err != nil {
		return nil, err
	}

	return &EvmRPC{
		appConfig: appConfig,
		logger:    logger,
		client:    client,
		contract:  contract,
		signerKey: key,
		chainID:   big.NewInt(appConfig.Ethereum.ChainID),
	}, nil
}

func (e *EvmRPC) Chain() model.Chain {
	return model.ChainEthereum
}

func (e *EvmRPC) Client() *ethclient.Client {
	return e.client
}

// CreateAndFund submits the escrow-creation transaction with the locked
// amount as native value and waits for it to be mined. The escrow id is
// derived client-side the same way the contract derives it.
func (e *EvmRPC) CreateAndFund(ctx context.Context, params model.EscrowCreateParams) (string, string, error) {
	orderHash, err := hashArg(params.OrderID)
	if err != nil {
		return "", "", model.Invalid("order_id", "not a 32-byte hex hash")
	}
	hashlock, err := hashArg(params.HashLock)
	if err != nil {
		return "", "", model.Invalid("hash_lock", "not a 32-byte hex hash")
	}

	amount, ok := params.Amount.BigInt()
	if !ok {
		return "", "", model.Invalid("amount", "not a decimal string")
	}

	value := new(big.Int).Set(amount)
	if params.SafetyDeposit != "" {
		deposit, ok := new(big.Int).SetString(params.SafetyDeposit, 10)
		if !ok {
			return "", "", model.Invalid("safety_deposit", "not a decimal string")
		}
		// the deposit rides along as extra native value, claimable by
		// whoever completes the escrow
		value.Add(value, deposit)
	}

	opts, err := bind.NewKeyedTransactorWithChainID(e.signerKey, e.chainID)
	if err != nil {
		return "", "", err
	}
	opts.Context = ctx
	opts.Value = value

	tx, err := e.contract.Transact(opts, "createEscrow",
		orderHash,
		hashlock,
		big.NewInt(params.WithdrawalStart.Unix()),
		big.NewInt(params.CancellationStart.Unix()),
	)
	if err != nil {
		e.logger.Error("[CreateAndFund][Transact]", map[string]string{
			"order_id": params.OrderID,
			"error":    err.Error(),
		})
		return "", "", model.Transient(err)
	}

	receipt, err := bind.WaitMined(ctx, e.client, tx)
	if err != nil {
		return "", "", model.Transient(err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		e.logger.Error("[CreateAndFund][WaitMined] transaction reverted", map[string]string{
			"order_id": params.OrderID,
			"tx_hash":  tx.Hash().Hex(),
		})
		return "", "", model.Transient(errTxReverted)
	}

	escrowID := crypto.Keccak256Hash(orderHash[:], hashlock[:])
	return escrowID.Hex(), tx.Hash().Hex(), nil
}

func (e *EvmRPC) GetFundingStatus(ctx context.Context, escrow *model.Escrow) (*model.FundingStatus, error) {
	escrowID, err := hashArg(escrow.Ref)
	if err != nil {
		return nil, model.Invalid("ref", "not a 32-byte hex hash")
	}

	var out []interface{}
	err = e.contract.Call(&bind.CallOpts{Context: ctx}, &out, "escrows", escrowID)
	if err != nil {
		return nil, model.Transient(err)
	}

	amount := out[1].(*big.Int)
	createdBlock := out[2].(*big.Int)

	if createdBlock.Sign() == 0 {
		// escrow not on chain yet
		return &model.FundingStatus{Amount: "0"}, nil
	}

	latest, err := e.client.BlockNumber(ctx)
	if err != nil {
		return nil, model.Transient(err)
	}

	confirmations := uint64(0)
	if latest >= createdBlock.Uint64() {
		confirmations = latest - createdBlock.Uint64() + 1
	}

	return &model.FundingStatus{
		Confirmed:     confirmations >= e.appConfig.Ethereum.Confirmations,
		Confirmations: confirmations,
		Amount:        amount.String(),
	}, nil
}

func (e *EvmRPC) Unlock(ctx context.Context, escrow *model.Escrow, secret []byte) (string, error) {
	escrowID, err := hashArg(escrow.Ref)
	if err != nil {
		return "", model.Invalid("ref", "not a 32-byte hex hash")
	}

	var secretArg [32]byte
	copy(secretArg[:], secret)

	opts, err := bind.NewKeyedTransactorWithChainID(e.signerKey, e.chainID)
	if err != nil {
		return "", err
	}
	opts.Context = ctx

	tx, err := e.contract.Transact(opts, "withdraw", escrowID, secretArg)
	if err != nil {
		return "", model.Transient(err)
	}

	if err := e.waitSuccess(ctx, tx); err != nil {
		return "", err
	}
	return tx.Hash().Hex(), nil
}

func (e *EvmRPC) Refund(ctx context.Context, escrow *model.Escrow) (string, error) {
	escrowID, err := hashArg(escrow.Ref)
	if err != nil {
		return "", model.Invalid("ref", "not a 32-byte hex hash")
	}

	opts, err := bind.NewKeyedTransactorWithChainID(e.signerKey, e.chainID)
	if err != nil {
		return "", err
	}
	opts.Context = ctx

	tx, err := e.contract.Transact(opts, "cancel", escrowID)
	if err != nil {
		return "", model.Transient(err)
	}

	if err := e.waitSuccess(ctx, tx); err != nil {
		return "", err
	}
	return tx.Hash().Hex(), nil
}

func (e *EvmRPC) Health(ctx context.Context) error {
	_, err := e.client.BlockNumber(ctx)
	if err != nil {
		return model.Transient(err)
	}
	return nil
}

func (e *EvmRPC) waitSuccess(ctx context.Context, tx *types.Transaction) error {
	receipt, err := bind.WaitMined(ctx, e.client, tx)
	if err != nil {
		return model.Transient(err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return model.Transient(errTxReverted)
	}
	return nil
}

func hashArg(s string) ([32]byte, error) {
	var out [32]byte
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return out, err
	}
	if len(raw) != 32 {
		return out, errBadHashLength
	}
	copy(out[:], raw)
	return out, nil
}
