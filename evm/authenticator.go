// Package evm provides the go-ethereum backed implementations of the
// engine's chain-facing interfaces: wallet signature authentication, Paid
// event decoding, and the JSON-RPC event source.
package evm

import (
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	baselock "github.com/baselock/baselock-go"
)

// Authenticator verifies EIP-191 personal-sign signatures, the scheme
// browser wallets use for plain-text message signing.
type Authenticator struct{}

var _ baselock.Authenticator = Authenticator{}

// Verify reports whether signature was produced by the key controlling
// address over the prefixed hash of message. Malformed signatures return
// false.
func (Authenticator) Verify(address common.Address, message string, signature []byte) bool {
	if len(signature) != crypto.SignatureLength {
		return false
	}

	// Wallets encode the recovery id as 27/28; SigToPub expects 0/1.
	sig := make([]byte, crypto.SignatureLength)
	copy(sig, signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	if sig[crypto.RecoveryIDOffset] > 1 {
		return false
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return false
	}
	return crypto.PubkeyToAddress(*pub) == address
}
