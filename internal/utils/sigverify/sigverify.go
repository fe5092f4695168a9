package sigverify

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stellar/go/keypair"

	"github.com/0xGeorgii/interstellar/internal/model"
)

// ErrBadSignature distinguishes a well-formed signature that fails
// verification from a malformed request.
var ErrBadSignature = errors.New("signature does not match signer")

// VerifyOrder checks the maker signature over the canonical order_data
// encoding using the source chain's signing scheme: EIP-191 personal-sign
// recovery for Ethereum, ed25519 for Stellar.
func VerifyOrder(order *model.Order) error {
	payload, err := order.OrderData.CanonicalJSON()
	if err != nil {
		return model.Invalid("order_data", err.Error())
	}

	switch order.OrderData.SrcChain {
	case model.ChainEthereum:
		return verifyEthereum(payload, order.Signature.SignedMessage, order.Signature.SignerAddress)
	case model.ChainStellar:
		return verifyStellar(payload, order.Signature.SignedMessage, order.Signature.SignerAddress)
	default:
		return model.Invalid("src_chain", "unsupported signing scheme")
	}
}

func verifyEthereum(payload []byte, sigHex, signer string) error {
	sig, err := hexutil.Decode(sigHex)
	if err != nil {
		return model.Invalid("signature", "malformed hex signature")
	}
	if len(sig) != crypto.SignatureLength {
		return model.Invalid("signature", "wrong signature length")
	}

	// wallets encode the recovery id as 27/28
	if sig[crypto.SignatureLength-1] >= 27 {
		sig[crypto.SignatureLength-1] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash(payload), sig)
	if err != nil {
		return ErrBadSignature
	}

	recovered := crypto.PubkeyToAddress(*pub)
	if !strings.EqualFold(recovered.Hex(), signer) {
		return ErrBadSignature
	}
	return nil
}

func verifyStellar(payload []byte, sigB64, signer string) error {
	kp, err := keypair.ParseAddress(signer)
	if err != nil {
		return model.Invalid("signer_address", "malformed stellar address")
	}

	sig, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		return model.Invalid("signature", "malformed base64 signature")
	}

	if err := kp.Verify(payload, sig); err != nil {
		return ErrBadSignature
	}
	return nil
}
