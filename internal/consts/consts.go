package consts

const (
	ETH_DECIMALS = 18
	XLM_DECIMALS = 7

	// Secrets are 32-byte preimages; hash locks are their sha256 digests.
	SECRET_LENGTH   = 32
	HASHLOCK_LENGTH = 32

	BPS_DENOMINATOR = 10000
)
