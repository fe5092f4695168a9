package stellarrpc

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/strkey"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"

	"github.com/0xGeorgii/interstellar/internal/model"
	"github.com/0xGeorgii/interstellar/internal/stellarrpc/soroban"
	"github.com/0xGeorgii/interstellar/internal/utils/config"
	"github.com/0xGeorgii/interstellar/internal/utils/logger"
)

// StellarRPC drives the Soroban escrow contract: envelopes are built and
// signed with the resolver keypair, simulated and submitted over Soroban
// RPC, sequence numbers come from Horizon.
type StellarRPC struct {
	appConfig  *config.AppConfig
	logger     *logger.Logger
	horizon    *horizonclient.Client
	soroban    soroban.IClient
	kp         *keypair.Full
	passphrase string
	contractID string
}

func New(appConfig *config.AppConfig, logger *logger.Logger) (*StellarRPC, error) {
	kp, err := keypair.ParseFull(appConfig.Stellar.ResolverSecret)
	if err != nil {
		return nil, err
	}

	return &StellarRPC{
		appConfig: appConfig,
		logger:    logger,
		horizon: &horizonclient.Client{
			HorizonURL: appConfig.Stellar.HorizonURL,
		},
		soroban:    soroban.New(appConfig, logger),
		kp:         kp,
		passphrase: appConfig.Stellar.NetworkPassphrase,
		contractID: appConfig.Stellar.EscrowContractID,
	}, nil
}

func NewWithClients(appConfig *config.AppConfig, logger *logger.Logger, horizon *horizonclient.Client, sorobanClient soroban.IClient) (*StellarRPC, error) {
	rpc, err := New(appConfig, logger)
	if err != nil {
		return nil, err
	}
	if horizon != nil {
		rpc.horizon = horizon
	}
	if sorobanClient != nil {
		rpc.soroban = sorobanClient
	}
	return rpc, nil
}

func (s *StellarRPC) Chain() model.Chain {
	return model.ChainStellar
}

// CreateAndFund invokes the contract's create entry, which pulls the locked
// amount from the resolver account atomically. The escrow ref on Stellar is
// the order hash itself: the contract keys escrows by it.
func (s *StellarRPC) CreateAndFund(ctx context.Context, params model.EscrowCreateParams) (string, string, error) {
	orderHash, err := bytesArg(params.OrderID)
	if err != nil {
		return "", "", model.Invalid("order_id", "not a 32-byte hex hash")
	}
	hashlock, err := bytesArg(params.HashLock)
	if err != nil {
		return "", "", model.Invalid("hash_lock", "not a 32-byte hex hash")
	}

	amount, ok := params.Amount.BigInt()
	if !ok {
		return "", "", model.Invalid("amount", "not a decimal string")
	}

	args := xdr.ScVec{
		scBytes(orderHash),
		scBytes(hashlock),
		scI128(amount),
		scU64(uint64(params.WithdrawalStart.Unix())),
		scU64(uint64(params.CancellationStart.Unix())),
	}

	txHash, err := s.invoke(ctx, "create", args)
	if err != nil {
		return "", "", err
	}
	return params.OrderID, txHash, nil
}

// GetFundingStatus reports confirmation depth of the create transaction.
// Soroban contract calls settle atomically, so a successful create implies
// the escrow holds the full locked amount.
func (s *StellarRPC) GetFundingStatus(ctx context.Context, escrow *model.Escrow) (*model.FundingStatus, error) {
	if escrow.FundTxHash == "" {
		return &model.FundingStatus{Amount: "0"}, nil
	}

	tx, err := s.soroban.GetTransaction(ctx, escrow.FundTxHash)
	if err != nil {
		return nil, model.Transient(err)
	}

	switch tx.Status {
	case soroban.TxStatusSuccess:
	case soroban.TxStatusNotFound, soroban.TxStatusPending:
		return &model.FundingStatus{Amount: "0"}, nil
	default:
		return nil, fmt.Errorf("create transaction failed: %s", tx.Status)
	}

	latest, err := s.soroban.GetLatestLedger(ctx)
	if err != nil {
		return nil, model.Transient(err)
	}

	confirmations := uint64(0)
	if latest.Sequence >= tx.Ledger {
		confirmations = uint64(latest.Sequence-tx.Ledger) + 1
	}

	return &model.FundingStatus{
		Confirmed:     confirmations >= s.appConfig.Stellar.Confirmations,
		Confirmations: confirmations,
		Amount:        escrow.Amount,
	}, nil
}

func (s *StellarRPC) Unlock(ctx context.Context, escrow *model.Escrow, secret []byte) (string, error) {
	orderHash, err := bytesArg(escrow.Ref)
	if err != nil {
		return "", model.Invalid("ref", "not a 32-byte hex hash")
	}

	args := xdr.ScVec{
		scBytes(orderHash),
		scBytes(secret),
	}
	return s.invoke(ctx, "withdraw", args)
}

func (s *StellarRPC) Refund(ctx context.Context, escrow *model.Escrow) (string, error) {
	orderHash, err := bytesArg(escrow.Ref)
	if err != nil {
		return "", model.Invalid("ref", "not a 32-byte hex hash")
	}

	args := xdr.ScVec{scBytes(orderHash)}
	return s.invoke(ctx, "cancel", args)
}

func (s *StellarRPC) Health(ctx context.Context) error {
	if err := s.soroban.GetHealth(ctx); err != nil {
		return model.Transient(err)
	}
	return nil
}

// invoke builds, simulates, signs and submits one contract invocation, then
// polls until the transaction leaves PENDING.
func (s *StellarRPC) invoke(ctx context.Context, function string, args xdr.ScVec) (string, error) {
	scAddr, err := s.contractAddress()
	if err != nil {
		return "", err
	}

	op := &txnbuild.InvokeHostFunction{
		HostFunction: xdr.HostFunction{
			Type: xdr.HostFunctionTypeHostFunctionTypeInvokeContract,
			InvokeContract: &xdr.InvokeContractArgs{
				ContractAddress: scAddr,
				FunctionName:    xdr.ScSymbol(function),
				Args:            args,
			},
		},
		SourceAccount: s.kp.Address(),
	}

	simTx, err := s.buildTransaction(op, txnbuild.MinBaseFee)
	if err != nil {
		return "", err
	}

	simB64, err := simTx.Base64()
	if err != nil {
		return "", err
	}

	sim, err := s.soroban.SimulateTransaction(ctx, simB64)
	if err != nil {
		return "", model.Transient(err)
	}
	if sim.Error != "" {
		return "", fmt.Errorf("simulation failed: %s", sim.Error)
	}

	var sorobanData xdr.SorobanTransactionData
	if err := xdr.SafeUnmarshalBase64(sim.TransactionData, &sorobanData); err != nil {
		return "", err
	}
	op.Ext = xdr.TransactionExt{V: 1, SorobanData: &sorobanData}

	minFee, err := strconv.ParseInt(sim.MinResourceFee, 10, 64)
	if err != nil {
		minFee = 0
	}

	tx, err := s.buildTransaction(op, txnbuild.MinBaseFee+minFee)
	if err != nil {
		return "", err
	}

	tx, err = tx.Sign(s.passphrase, s.kp)
	if err != nil {
		return "", err
	}

	signedB64, err := tx.Base64()
	if err != nil {
		return "", err
	}

	sent, err := s.soroban.SendTransaction(ctx, signedB64)
	if err != nil {
		return "", model.Transient(err)
	}
	if sent.Status == soroban.TxStatusError {
		s.logger.Error("[invoke][SendTransaction]", map[string]string{
			"function": function,
			"xdr":      sent.ErrorResultXdr,
		})
		return "", fmt.Errorf("submission rejected: %s", sent.ErrorResultXdr)
	}

	return sent.Hash, s.waitConfirmed(ctx, sent.Hash)
}

func (s *StellarRPC) buildTransaction(op txnbuild.Operation, baseFee int64) (*txnbuild.Transaction, error) {
	account, err := s.horizon.AccountDetail(horizonclient.AccountRequest{AccountID: s.kp.Address()})
	if err != nil {
		return nil, model.Transient(err)
	}

	return txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &account,
		IncrementSequenceNum: true,
		BaseFee:              baseFee,
		Preconditions: txnbuild.Preconditions{
			TimeBounds: txnbuild.NewTimeout(300),
		},
		Operations: []txnbuild.Operation{op},
	})
}

func (s *StellarRPC) waitConfirmed(ctx context.Context, hash string) error {
	for {
		tx, err := s.soroban.GetTransaction(ctx, hash)
		if err != nil {
			return model.Transient(err)
		}

		switch tx.Status {
		case soroban.TxStatusSuccess:
			return nil
		case soroban.TxStatusFailed:
			return fmt.Errorf("transaction failed: %s", tx.ResultXdr)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

func (s *StellarRPC) contractAddress() (xdr.ScAddress, error) {
	raw, err := strkey.Decode(strkey.VersionByteContract, s.contractID)
	if err != nil {
		return xdr.ScAddress{}, model.Invalid("contract_id", "malformed contract strkey")
	}

	var contractHash xdr.Hash
	copy(contractHash[:], raw)

	return xdr.ScAddress{
		Type:       xdr.ScAddressTypeScAddressTypeContract,
		ContractId: &contractHash,
	}, nil
}

func scBytes(b []byte) xdr.ScVal {
	sc := xdr.ScBytes(b)
	return xdr.ScVal{Type: xdr.ScValTypeScvBytes, Bytes: &sc}
}

func scU64(v uint64) xdr.ScVal {
	u := xdr.Uint64(v)
	return xdr.ScVal{Type: xdr.ScValTypeScvU64, U64: &u}
}

func scI128(v *big.Int) xdr.ScVal {
	hi := new(big.Int).Rsh(v, 64)
	lo := new(big.Int).And(v, new(big.Int).SetUint64(^uint64(0)))

	parts := xdr.Int128Parts{
		Hi: xdr.Int64(hi.Int64()),
		Lo: xdr.Uint64(lo.Uint64()),
	}
	return xdr.ScVal{Type: xdr.ScValTypeScvI128, I128: &parts}
}

func bytesArg(s string) ([]byte, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, err
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("expected 32 bytes, got %d", len(raw))
	}
	return raw, nil
}
