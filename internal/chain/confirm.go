package chain

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultPollAttempts bounds the receipt polling loop.
	DefaultPollAttempts = 30
	// DefaultPollInterval is the fixed delay between attempts; there is
	// deliberately no backoff, mined-or-not does not change with waiting
	// longer per attempt.
	DefaultPollInterval = 2 * time.Second
)

// ReceiptSource is the single RPC call the poller needs.
type ReceiptSource interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error)
}

// Poller waits for transaction receipts. Each Wait call owns its own
// attempt counter, so independent submissions can poll concurrently
// through one shared Poller without touching shared state.
type Poller struct {
	source   ReceiptSource
	attempts int
	interval time.Duration
}

// NewPoller creates a Poller; non-positive parameters fall back to the
// reference defaults (30 attempts, 2s interval).
func NewPoller(source ReceiptSource, attempts int, interval time.Duration) *Poller {
	if attempts <= 0 {
		attempts = DefaultPollAttempts
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		source:   source,
		attempts: attempts,
		interval: interval,
	}
}

// Wait polls for the receipt of txHash until a terminal outcome:
//
//   - receipt with success status  -> OutcomeConfirmed (block, gas used)
//   - receipt with failure status  -> OutcomeReverted, immediately; a
//     mined-but-failed transaction never succeeds on re-poll
//   - attempts exhausted           -> OutcomeTimedOut; ambiguous, the
//     transaction may still confirm later and the caller must re-query
//   - caller cancellation/deadline -> OutcomeTimedOut with the ctx error
//   - any other receipt-query error -> OutcomeRPCFailed
//
// The inter-attempt sleep is a cancellable timed wait, never a busy loop.
func (p *Poller) Wait(ctx context.Context, txHash common.Hash) Outcome {
	for attempt := 1; attempt <= p.attempts; attempt++ {
		receipt, err := p.source.TransactionReceipt(ctx, txHash)

		switch {
		case err == nil:
			return receiptOutcome(txHash, receipt, attempt)

		case errors.Is(err, ethereum.NotFound):
			// Not mined yet, keep polling.

		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return Outcome{State: OutcomeTimedOut, Attempts: attempt, Err: err}

		default:
			return Outcome{
				State:    OutcomeRPCFailed,
				Attempts: attempt,
				Err:      &RPCError{Op: "get transaction receipt", Err: err},
			}
		}

		if attempt == p.attempts {
			break
		}

		select {
		case <-ctx.Done():
			return Outcome{State: OutcomeTimedOut, Attempts: attempt, Err: ctx.Err()}
		case <-time.After(p.interval):
		}
	}

	log.Warn().
		Str("tx_hash", txHash.Hex()).
		Int("attempts", p.attempts).
		Msg("No receipt within polling bound, transaction may still confirm later")

	return Outcome{State: OutcomeTimedOut, Attempts: p.attempts}
}

func receiptOutcome(txHash common.Hash, receipt *ethtypes.Receipt, attempt int) Outcome {
	if receipt.Status == ethtypes.ReceiptStatusSuccessful {
		log.Info().
			Str("tx_hash", txHash.Hex()).
			Str("block", receipt.BlockNumber.String()).
			Uint64("gas_used", receipt.GasUsed).
			Msg("Report transaction confirmed")

		return Outcome{
			State:       OutcomeConfirmed,
			BlockNumber: receipt.BlockNumber,
			GasUsed:     receipt.GasUsed,
			Attempts:    attempt,
		}
	}

	// Low gas usage on a revert usually points at a signature or ABI
	// mismatch rejected at the top of the contract; the contract's own
	// revert reason is the authoritative diagnostic where available.
	log.Warn().
		Str("tx_hash", txHash.Hex()).
		Str("block", receipt.BlockNumber.String()).
		Uint64("gas_used", receipt.GasUsed).
		Msg("Report transaction reverted")

	return Outcome{
		State:       OutcomeReverted,
		BlockNumber: receipt.BlockNumber,
		GasUsed:     receipt.GasUsed,
		Attempts:    attempt,
	}
}
