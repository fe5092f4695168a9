package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/0xGeorgii/interstellar/internal/consts"
)

// SecretMatchesHashLock reports whether sha256(secret) equals the hash lock.
// Both sides accept optional 0x prefixes and mixed case. The preimage must be
// exactly 32 bytes; the escrow contracts take a fixed-width secret, so a
// longer preimage would pass here and then never match on chain.
func SecretMatchesHashLock(secretHex, hashLockHex string) ([]byte, bool) {
	secret, err := hex.DecodeString(normalizeHex(secretHex))
	if err != nil || len(secret) != consts.SECRET_LENGTH {
		return nil, false
	}

	digest := sha256.Sum256(secret)
	return secret, hex.EncodeToString(digest[:]) == normalizeHex(hashLockHex)
}

func normalizeHex(s string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"))
}
