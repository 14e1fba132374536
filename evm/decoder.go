package evm

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	baselock "github.com/baselock/baselock-go"
)

// paidEventABI describes the payment contract's Paid event. linkId is an
// indexed string, so its topic carries the keccak256 digest of the value.
const paidEventABI = `[{"anonymous":false,"inputs":[
	{"indexed":true,"internalType":"address","name":"payer","type":"address"},
	{"indexed":true,"internalType":"address","name":"receiver","type":"address"},
	{"indexed":true,"internalType":"string","name":"linkId","type":"string"},
	{"indexed":false,"internalType":"uint256","name":"amount","type":"uint256"},
	{"indexed":false,"internalType":"address","name":"token","type":"address"}],
	"name":"Paid","type":"event"}]`

var (
	paidABI abi.ABI

	// PaidEventID is the Paid event selector,
	// keccak256("Paid(address,address,string,uint256,address)").
	PaidEventID common.Hash
)

func init() {
	parsed, err := abi.JSON(strings.NewReader(paidEventABI))
	if err != nil {
		panic(fmt.Sprintf("evm: parsing Paid event ABI: %v", err))
	}
	paidABI = parsed
	PaidEventID = paidABI.Events["Paid"].ID
}

// Decoder decodes Paid event logs into typed payment events.
type Decoder struct{}

var _ baselock.EventDecoder = Decoder{}

// Decode returns the typed payment event for a Paid log entry. Logs whose
// topic count, selector, or data do not fully match the event shape are
// rejected with baselock.ErrEventMismatch.
func (Decoder) Decode(entry baselock.LogEntry) (*baselock.PaymentEvent, error) {
	if len(entry.Topics) != 4 {
		return nil, fmt.Errorf("%w: got %d topics, want 4", baselock.ErrEventMismatch, len(entry.Topics))
	}
	if entry.Topics[0] != PaidEventID {
		return nil, fmt.Errorf("%w: unknown selector %s", baselock.ErrEventMismatch, entry.Topics[0])
	}

	values, err := paidABI.Unpack("Paid", entry.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: unpacking data: %v", baselock.ErrEventMismatch, err)
	}
	if len(values) != 2 {
		return nil, fmt.Errorf("%w: got %d data fields, want 2", baselock.ErrEventMismatch, len(values))
	}

	amount, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%w: amount is not uint256", baselock.ErrEventMismatch)
	}
	token, ok := values[1].(common.Address)
	if !ok {
		return nil, fmt.Errorf("%w: token is not address", baselock.ErrEventMismatch)
	}

	return &baselock.PaymentEvent{
		Payer:            common.BytesToAddress(entry.Topics[1].Bytes()),
		Receiver:         common.BytesToAddress(entry.Topics[2].Bytes()),
		LinkIDCommitment: entry.Topics[3],
		Amount:           amount,
		Token:            token,
	}, nil
}
