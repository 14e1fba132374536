package evm

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	baselock "github.com/baselock/baselock-go"
)

func paidEntry(amount *big.Int, token common.Address) baselock.LogEntry {
	return baselock.LogEntry{
		Address: common.HexToAddress("0x5CB532D8799b36a6E5dfa1663b6cFDDdDB431405"),
		Topics: []common.Hash{
			PaidEventID,
			common.BytesToHash(common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa").Bytes()),
			common.BytesToHash(common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb").Bytes()),
			baselock.LinkIDCommitment("my-lock"),
		},
		Data: append(
			common.LeftPadBytes(amount.Bytes(), 32),
			common.LeftPadBytes(token.Bytes(), 32)...,
		),
	}
}

func TestDecodeValidLog(t *testing.T) {
	token := common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913")
	event, err := (Decoder{}).Decode(paidEntry(big.NewInt(5_000000), token))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"); event.Payer != want {
		t.Errorf("payer = %s, want %s", event.Payer, want)
	}
	if want := common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"); event.Receiver != want {
		t.Errorf("receiver = %s, want %s", event.Receiver, want)
	}
	if event.LinkIDCommitment != baselock.LinkIDCommitment("my-lock") {
		t.Errorf("link id commitment = %s", event.LinkIDCommitment)
	}
	if event.Amount.Cmp(big.NewInt(5_000000)) != 0 {
		t.Errorf("amount = %s", event.Amount)
	}
	if event.Token != token {
		t.Errorf("token = %s", event.Token)
	}
}

func TestDecodeNativeAssetToken(t *testing.T) {
	event, err := (Decoder{}).Decode(paidEntry(big.NewInt(1485000000000000), baselock.ZeroAddress))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Token != baselock.ZeroAddress {
		t.Errorf("token = %s, want zero address", event.Token)
	}
}

func TestDecodeRejectsMalformedLogs(t *testing.T) {
	valid := paidEntry(big.NewInt(1), baselock.ZeroAddress)

	cases := []struct {
		name   string
		mutate func(e baselock.LogEntry) baselock.LogEntry
	}{
		{"no topics", func(e baselock.LogEntry) baselock.LogEntry {
			e.Topics = nil
			return e
		}},
		{"missing indexed field", func(e baselock.LogEntry) baselock.LogEntry {
			e.Topics = e.Topics[:3]
			return e
		}},
		{"foreign selector", func(e baselock.LogEntry) baselock.LogEntry {
			topics := append([]common.Hash{}, e.Topics...)
			topics[0] = common.HexToHash("0xdeadbeef")
			e.Topics = topics
			return e
		}},
		{"truncated data", func(e baselock.LogEntry) baselock.LogEntry {
			e.Data = e.Data[:31]
			return e
		}},
		{"empty data", func(e baselock.LogEntry) baselock.LogEntry {
			e.Data = nil
			return e
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := (Decoder{}).Decode(tc.mutate(valid))
			if !errors.Is(err, baselock.ErrEventMismatch) {
				t.Errorf("got %v, want ErrEventMismatch", err)
			}
		})
	}
}

func TestPaidEventSelector(t *testing.T) {
	// The selector is the keccak digest of the canonical signature.
	want := baselock.LinkIDCommitment("Paid(address,address,string,uint256,address)")
	if PaidEventID != want {
		t.Errorf("selector = %s, want %s", PaidEventID, want)
	}
}
