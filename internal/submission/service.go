package submission

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github/gather/report-gateway/internal/chain"
	"github/gather/report-gateway/internal/metrics"
	"github/gather/report-gateway/internal/report"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Service runs reports through the sign-submit-confirm pipeline and keeps
// a registry of their lifecycle. Records are kept in memory only; a
// submission is transient pipeline state, the chain itself is the durable
// record.
type Service interface {
	// Enqueue registers a submission and processes it asynchronously.
	Enqueue(ctx context.Context, r *report.Report) *Submission

	// Run processes a report synchronously and returns the terminal record.
	Run(ctx context.Context, r *report.Report) *Submission

	// Get returns a copy of the submission with the given id.
	Get(id string) (*Submission, bool)

	// List returns copies of all known submissions.
	List() []*Submission
}

type service struct {
	submitter chain.Submitter
	poller    *chain.Poller
	metrics   *metrics.Service

	// processTimeout caps background processing of enqueued submissions.
	processTimeout time.Duration

	mu      sync.RWMutex
	records map[string]*Submission
}

// NewService creates a submission service.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(submitter chain.Submitter, poller *chain.Poller, metricsService *metrics.Service, processTimeout time.Duration) Service {
	if processTimeout <= 0 {
		processTimeout = 5 * time.Minute
	}
	return &service{
		submitter:      submitter,
		poller:         poller,
		metrics:        metricsService,
		processTimeout: processTimeout,
		records:        make(map[string]*Submission),
	}
}

// Enqueue registers the report and runs the pipeline in its own goroutine.
// Each submission polls independently; one slow confirmation never blocks
// unrelated reports.
func (s *service) Enqueue(_ context.Context, r *report.Report) *Submission {
	sub := s.register(r)

	go func() {
		// The request context dies with the HTTP request; processing
		// continues on its own bounded context.
		ctx, cancel := context.WithTimeout(context.Background(), s.processTimeout)
		defer cancel()
		s.process(ctx, sub.ID, r)
	}()

	return sub
}

// Run processes the report synchronously.
func (s *service) Run(ctx context.Context, r *report.Report) *Submission {
	sub := s.register(r)
	s.process(ctx, sub.ID, r)
	result, _ := s.Get(sub.ID)
	return result
}

func (s *service) Get(id string) (*Submission, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.records[id]
	if !ok {
		return nil, false
	}
	return copyOf(sub), true
}

func (s *service) List() []*Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Submission, 0, len(s.records))
	for _, sub := range s.records {
		out = append(out, copyOf(sub))
	}
	return out
}

func (s *service) register(r *report.Report) *Submission {
	now := time.Now()
	sub := &Submission{
		ID:        uuid.NewString(),
		Report:    r,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.records[sub.ID] = sub
	s.mu.Unlock()

	return copyOf(sub)
}

// process drives one submission to a terminal state. All failure states
// are terminal; nothing here retries.
func (s *service) process(ctx context.Context, id string, r *report.Report) {
	start := time.Now()

	txHash, err := s.submitter.Submit(ctx, r)
	if err != nil {
		s.fail(id, err)
		s.metrics.SubmissionsTotal.WithLabelValues(string(StatusFailed)).Inc()
		return
	}

	s.update(id, func(sub *Submission) {
		sub.Status = StatusSubmitted
		sub.TxHash = txHash.Hex()
	})

	outcome := s.poller.Wait(ctx, txHash)

	s.metrics.ReceiptPolls.Add(float64(outcome.Attempts))
	s.metrics.ConfirmDuration.Observe(time.Since(start).Seconds())

	status := statusFromOutcome(outcome.State)
	s.metrics.SubmissionsTotal.WithLabelValues(string(status)).Inc()

	s.update(id, func(sub *Submission) {
		sub.Status = status
		sub.BlockNumber = outcome.BlockNumber
		sub.GasUsed = outcome.GasUsed
		if outcome.Err != nil {
			sub.Stage = "confirm"
			sub.Detail = outcome.Err.Error()
		}
	})
}

// fail records a pre-broadcast failure with the pipeline stage it
// happened in.
func (s *service) fail(id string, err error) {
	stage := failureStage(err)

	log.Error().
		Err(err).
		Str("submission_id", id).
		Str("stage", stage).
		Msg("Report submission failed")

	s.update(id, func(sub *Submission) {
		sub.Status = StatusFailed
		sub.Stage = stage
		sub.Detail = err.Error()
	})
}

func (s *service) update(id string, mutate func(*Submission)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.records[id]
	if !ok {
		return
	}
	mutate(sub)
	sub.UpdatedAt = time.Now()
}

func failureStage(err error) string {
	var signingErr *report.SigningError
	var rejected *chain.SubmissionRejected
	var rpcErr *chain.RPCError

	switch {
	case errors.As(err, &signingErr):
		return "sign"
	case errors.As(err, &rejected):
		return "submit"
	case errors.As(err, &rpcErr):
		return "rpc"
	default:
		return "encode"
	}
}

func copyOf(sub *Submission) *Submission {
	c := *sub
	if sub.BlockNumber != nil {
		c.BlockNumber = new(big.Int).Set(sub.BlockNumber)
	}
	return &c
}
