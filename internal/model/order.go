package model

import (
	"encoding/hex"
	"encoding/json"

	"github.com/ethereum/go-ethereum/crypto"
)

// OrderData is the maker-signed body of a swap order. It is immutable once
// accepted; the hash of its canonical encoding is the order identity.
type OrderData struct {
	Salt       string `json:"salt" binding:"required"`
	SrcChain   Chain  `json:"src_chain" binding:"required"`
	DstChain   Chain  `json:"dst_chain" binding:"required"`
	MakeAmount string `json:"make_amount" binding:"required"`
	TakeAmount string `json:"take_amount" binding:"required"`
	// HashLock is the maker-chosen commitment: hex sha256 of the secret the
	// maker holds until both escrows are confirmed funded.
	HashLock string `json:"hash_lock" binding:"required"`
}

type Signature struct {
	SignedMessage string `json:"signed_message" binding:"required"`
	SignerAddress string `json:"signer_address" binding:"required"`
}

type Order struct {
	OrderData OrderData `json:"order_data" binding:"required"`
	Signature Signature `json:"signature" binding:"required"`
}

// CanonicalJSON is the byte encoding makers sign: JSON with the fixed field
// order of OrderData and no extra whitespace.
func (d OrderData) CanonicalJSON() ([]byte, error) {
	return json.Marshal(d)
}

// ID returns the content address of the order: hex keccak256 of the
// canonical order_data encoding, 0x-prefixed.
func (d OrderData) ID() (string, error) {
	payload, err := d.CanonicalJSON()
	if err != nil {
		return "", err
	}

	return "0x" + hex.EncodeToString(crypto.Keccak256(payload)), nil
}
