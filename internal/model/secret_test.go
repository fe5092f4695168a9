package model

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretMatchesHashLock(t *testing.T) {
	secret := make([]byte, 32)
	for i := range secret {
		secret[i] = byte(i)
	}
	digest := sha256.Sum256(secret)

	secretHex := hex.EncodeToString(secret)
	hashLockHex := hex.EncodeToString(digest[:])

	got, ok := SecretMatchesHashLock(secretHex, hashLockHex)
	require.True(t, ok)
	assert.Equal(t, secret, got)

	// prefixes and case are tolerated on both sides
	_, ok = SecretMatchesHashLock("0x"+secretHex, "0X"+hashLockHex)
	assert.True(t, ok)

	_, ok = SecretMatchesHashLock(secretHex, hex.EncodeToString(make([]byte, 32)))
	assert.False(t, ok)

	_, ok = SecretMatchesHashLock("zzzz", hashLockHex)
	assert.False(t, ok)
}

func TestSecretMatchesHashLockRequires32Bytes(t *testing.T) {
	// a hash lock committing to an off-size preimage is unusable on chain,
	// so the check refuses it even when the digest matches
	for _, n := range []int{16, 31, 33, 64} {
		secret := make([]byte, n)
		for i := range secret {
			secret[i] = byte(i + 1)
		}
		digest := sha256.Sum256(secret)

		_, ok := SecretMatchesHashLock(hex.EncodeToString(secret), hex.EncodeToString(digest[:]))
		assert.False(t, ok, "preimage of %d bytes must be rejected", n)
	}
}
