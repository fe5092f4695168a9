package evmrpc

import "errors"

var (
	errTxReverted    = errors.New("transaction reverted")
	errBadHashLength = errors.New("hash must be 32 bytes")
)
