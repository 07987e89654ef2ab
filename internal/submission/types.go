package submission

import (
	"math/big"
	"time"

	"github/gather/report-gateway/internal/chain"
	"github/gather/report-gateway/internal/report"
)

// Status is the lifecycle state of a submission record.
// Every state except StatusPending and StatusSubmitted is terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSubmitted Status = "submitted"
	StatusConfirmed Status = "confirmed"
	StatusReverted  Status = "reverted"
	StatusTimedOut  Status = "timed_out"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return s != StatusPending && s != StatusSubmitted
}

// Submission tracks one report through the pipeline.
type Submission struct {
	ID          string
	Report      *report.Report
	Status      Status
	TxHash      string
	BlockNumber *big.Int
	GasUsed     uint64
	// Stage names the pipeline step a failure occurred in; Detail carries
	// the raw error so callers can diagnose without log access.
	Stage     string
	Detail    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func statusFromOutcome(state chain.OutcomeState) Status {
	switch state {
	case chain.OutcomeConfirmed:
		return StatusConfirmed
	case chain.OutcomeReverted:
		return StatusReverted
	case chain.OutcomeTimedOut:
		return StatusTimedOut
	default:
		return StatusFailed
	}
}
