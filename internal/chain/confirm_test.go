package chain_test

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github/gather/report-gateway/internal/chain"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedReceipts struct {
	mu    sync.Mutex
	calls int
	fn    func(call int) (*ethtypes.Receipt, error)
}

func (s *scriptedReceipts) TransactionReceipt(_ context.Context, _ common.Hash) (*ethtypes.Receipt, error) {
	s.mu.Lock()
	s.calls++
	call := s.calls
	s.mu.Unlock()
	return s.fn(call)
}

func successReceipt(block int64, gasUsed uint64) *ethtypes.Receipt {
	return &ethtypes.Receipt{
		Status:      ethtypes.ReceiptStatusSuccessful,
		BlockNumber: big.NewInt(block),
		GasUsed:     gasUsed,
	}
}

func TestWaitConfirmed(t *testing.T) {
	source := &scriptedReceipts{fn: func(call int) (*ethtypes.Receipt, error) {
		if call < 3 {
			return nil, ethereum.NotFound
		}
		return successReceipt(42, 61_234), nil
	}}
	poller := chain.NewPoller(source, 5, time.Millisecond)

	outcome := poller.Wait(context.Background(), common.Hash{0x01})

	assert.Equal(t, chain.OutcomeConfirmed, outcome.State)
	assert.Equal(t, int64(42), outcome.BlockNumber.Int64())
	assert.Equal(t, uint64(61_234), outcome.GasUsed)
	assert.Equal(t, 3, outcome.Attempts)
	assert.True(t, outcome.Terminal())
	require.NoError(t, outcome.Err)
}

func TestWaitRevertedStopsImmediately(t *testing.T) {
	source := &scriptedReceipts{fn: func(_ int) (*ethtypes.Receipt, error) {
		return &ethtypes.Receipt{
			Status:      ethtypes.ReceiptStatusFailed,
			BlockNumber: big.NewInt(7),
			GasUsed:     21_064,
		}, nil
	}}
	poller := chain.NewPoller(source, 5, time.Millisecond)

	outcome := poller.Wait(context.Background(), common.Hash{0x02})

	assert.Equal(t, chain.OutcomeReverted, outcome.State)
	assert.Equal(t, 1, outcome.Attempts)
	assert.Equal(t, 1, source.calls, "a reverted transaction must not be re-polled")
}

func TestWaitTimesOutAfterBound(t *testing.T) {
	source := &scriptedReceipts{fn: func(_ int) (*ethtypes.Receipt, error) {
		return nil, ethereum.NotFound
	}}
	poller := chain.NewPoller(source, 4, time.Millisecond)

	outcome := poller.Wait(context.Background(), common.Hash{0x03})

	assert.Equal(t, chain.OutcomeTimedOut, outcome.State)
	assert.Equal(t, 4, outcome.Attempts)
	assert.Equal(t, 4, source.calls)
}

func TestWaitContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	source := &scriptedReceipts{fn: func(call int) (*ethtypes.Receipt, error) {
		if call == 1 {
			cancel()
		}
		return nil, ethereum.NotFound
	}}
	poller := chain.NewPoller(source, 100, time.Minute)

	outcome := poller.Wait(ctx, common.Hash{0x04})

	assert.Equal(t, chain.OutcomeTimedOut, outcome.State)
	require.ErrorIs(t, outcome.Err, context.Canceled)
}

func TestWaitRPCFailure(t *testing.T) {
	source := &scriptedReceipts{fn: func(_ int) (*ethtypes.Receipt, error) {
		return nil, errors.New("connection refused")
	}}
	poller := chain.NewPoller(source, 5, time.Millisecond)

	outcome := poller.Wait(context.Background(), common.Hash{0x05})

	assert.Equal(t, chain.OutcomeRPCFailed, outcome.State)

	var rpcErr *chain.RPCError
	require.ErrorAs(t, outcome.Err, &rpcErr)
	assert.Equal(t, "get transaction receipt", rpcErr.Op)
}

func TestWaitConcurrentSubmissionsAreIndependent(t *testing.T) {
	source := &scriptedReceipts{fn: func(_ int) (*ethtypes.Receipt, error) {
		return successReceipt(1, 60_000), nil
	}}
	poller := chain.NewPoller(source, 3, time.Millisecond)

	var wg sync.WaitGroup
	outcomes := make([]chain.Outcome, 4)
	for i := range outcomes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i] = poller.Wait(context.Background(), common.Hash{byte(i)})
		}(i)
	}
	wg.Wait()

	for _, outcome := range outcomes {
		assert.Equal(t, chain.OutcomeConfirmed, outcome.State)
		assert.Equal(t, 1, outcome.Attempts)
	}
}

func TestNewPollerDefaults(t *testing.T) {
	source := &scriptedReceipts{fn: func(_ int) (*ethtypes.Receipt, error) {
		return successReceipt(1, 1), nil
	}}

	// non-positive parameters fall back to the defaults
	poller := chain.NewPoller(source, 0, 0)
	outcome := poller.Wait(context.Background(), common.Hash{})
	assert.Equal(t, chain.OutcomeConfirmed, outcome.State)
}
