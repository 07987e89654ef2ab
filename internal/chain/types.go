package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// Backend is the narrow RPC surface the pipeline consumes. *Client
// implements it against real nodes; tests substitute fakes.
type Backend interface {
	// NonceAt returns the account nonce at the latest block.
	NonceAt(ctx context.Context, account common.Address) (uint64, error)

	// SuggestGasPrice returns the node's current gas price.
	SuggestGasPrice(ctx context.Context) (*big.Int, error)

	// SendTransaction broadcasts a signed transaction.
	SendTransaction(ctx context.Context, tx *ethtypes.Transaction) error

	// TransactionReceipt returns the receipt for a mined transaction,
	// or ethereum.NotFound while it is still pending.
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error)

	// ChainID returns the chain id used for replay-protected signing.
	ChainID(ctx context.Context) (*big.Int, error)
}

// OutcomeState classifies the terminal result of a confirmation wait.
type OutcomeState string

const (
	OutcomePending   OutcomeState = "pending"
	OutcomeConfirmed OutcomeState = "confirmed"
	OutcomeReverted  OutcomeState = "reverted"
	OutcomeTimedOut  OutcomeState = "timed_out"
	OutcomeRPCFailed OutcomeState = "rpc_failed"
)

// Outcome is the result of polling for a transaction receipt.
// Once a state other than OutcomePending is reached it is terminal.
type Outcome struct {
	State       OutcomeState
	BlockNumber *big.Int
	GasUsed     uint64
	Attempts    int
	Err         error
}

// Terminal reports whether no further state transitions can occur.
func (o Outcome) Terminal() bool {
	return o.State != OutcomePending
}

// RPCError is a transport or node-level failure. The caller may retry
// the whole operation with freshly fetched state (nonce, gas price);
// nothing retries automatically.
type RPCError struct {
	Op  string
	Err error
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error during %s: %v", e.Op, e.Err)
}

func (e *RPCError) Unwrap() error {
	return e.Err
}

// SubmissionRejected means the node refused the transaction before
// broadcast. Retrying with identical inputs will fail identically.
type SubmissionRejected struct {
	Reason string
	Err    error
}

func (e *SubmissionRejected) Error() string {
	return fmt.Sprintf("transaction rejected by node: %s", e.Reason)
}

func (e *SubmissionRejected) Unwrap() error {
	return e.Err
}
