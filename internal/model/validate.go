package model

// ValidateOrderData enforces the order-level invariants: positive amounts,
// a distinct supported chain pair, a well-formed hash lock, and a take/make
// rate inside the slippage band. Amounts are compared as quoted, without
// chain-decimal normalization; rate policy beyond the band is external.
func ValidateOrderData(d OrderData, slippageBps int64) error {
	if !d.SrcChain.Supported() {
		return Invalid("src_chain", "unsupported chain")
	}
	if !d.DstChain.Supported() {
		return Invalid("dst_chain", "unsupported chain")
	}
	if d.SrcChain == d.DstChain {
		return Invalid("dst_chain", "source and destination chains must differ")
	}

	makeAmount := &Amount{Value: d.MakeAmount}
	takeAmount := &Amount{Value: d.TakeAmount}
	if !makeAmount.Positive() {
		return Invalid("make_amount", "must be a positive decimal string")
	}
	if !takeAmount.Positive() {
		return Invalid("take_amount", "must be a positive decimal string")
	}
	if !WithinSlippage(makeAmount, takeAmount, slippageBps) {
		return Invalid("take_amount", "rate outside acceptable slippage band")
	}

	if len(normalizeHex(d.HashLock)) != 64 {
		return Invalid("hash_lock", "must be a 32-byte hex digest")
	}

	return nil
}
