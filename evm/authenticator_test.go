package evm

import (
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	baselock "github.com/baselock/baselock-go"
)

// walletSign reproduces what a browser wallet does for personal_sign:
// sign the prefixed hash and report the recovery id as 27/28.
func walletSign(t *testing.T, message string) ([]byte, common.Address) {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	if err != nil {
		t.Fatalf("signing: %v", err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, crypto.PubkeyToAddress(key.PublicKey)
}

func TestVerifyValidSignature(t *testing.T) {
	msg := baselock.UnlockMessage("my-lock")
	sig, addr := walletSign(t, msg)

	if !(Authenticator{}).Verify(addr, msg, sig) {
		t.Error("valid signature rejected")
	}
}

func TestVerifyRawRecoveryID(t *testing.T) {
	// Some signers return the recovery id as 0/1 without the legacy offset.
	msg := baselock.CreateMessage("my-lock")
	sig, addr := walletSign(t, msg)
	sig[crypto.RecoveryIDOffset] -= 27

	if !(Authenticator{}).Verify(addr, msg, sig) {
		t.Error("raw recovery id rejected")
	}
}

func TestVerifyWrongMessage(t *testing.T) {
	sig, addr := walletSign(t, baselock.UnlockMessage("my-lock"))

	if (Authenticator{}).Verify(addr, baselock.UnlockMessage("other-lock"), sig) {
		t.Error("signature accepted for a different lock")
	}
	if (Authenticator{}).Verify(addr, baselock.CreateMessage("my-lock"), sig) {
		t.Error("unlock signature accepted for lock creation")
	}
}

func TestVerifyWrongAddress(t *testing.T) {
	msg := baselock.UnlockMessage("my-lock")
	sig, _ := walletSign(t, msg)
	_, other := walletSign(t, msg)

	if (Authenticator{}).Verify(other, msg, sig) {
		t.Error("signature accepted for an address that did not sign")
	}
}

func TestVerifyMalformedSignature(t *testing.T) {
	msg := baselock.UnlockMessage("my-lock")
	sig, addr := walletSign(t, msg)

	cases := []struct {
		name string
		sig  []byte
	}{
		{"empty", nil},
		{"truncated", sig[:crypto.SignatureLength-1]},
		{"oversized", append(append([]byte{}, sig...), 0)},
		{"bad recovery id", func() []byte {
			bad := append([]byte{}, sig...)
			bad[crypto.RecoveryIDOffset] = 9
			return bad
		}()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if (Authenticator{}).Verify(addr, msg, tc.sig) {
				t.Error("malformed signature accepted")
			}
		})
	}
}

func TestVerifyDoesNotMutateSignature(t *testing.T) {
	msg := baselock.UnlockMessage("my-lock")
	sig, addr := walletSign(t, msg)
	before := append([]byte{}, sig...)

	(Authenticator{}).Verify(addr, msg, sig)

	for i := range sig {
		if sig[i] != before[i] {
			t.Fatal("Verify mutated the caller's signature buffer")
		}
	}
}
