package submission_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github/gather/report-gateway/internal/chain"
	"github/gather/report-gateway/internal/metrics"
	"github/gather/report-gateway/internal/report"
	"github/gather/report-gateway/internal/submission"
	"github/gather/report-gateway/internal/test"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport(t *testing.T) *report.Report {
	t.Helper()

	r, err := report.New("srv-1", "user-1", big.NewInt(1700000000),
		[]*big.Int{
			big.NewInt(1), big.NewInt(2), big.NewInt(3),
			big.NewInt(4), big.NewInt(5), big.NewInt(6),
		},
		[]*big.Int{big.NewInt(10), big.NewInt(-20)},
	)
	require.NoError(t, err)
	return r
}

func newTestService(t *testing.T, backend *test.ChainBackend) submission.Service {
	t.Helper()

	keyPair, err := report.NewKeyPairFromHex(test.PrivateKeyHex)
	require.NoError(t, err)

	submitter := chain.NewSubmitter(backend, keyPair, common.HexToAddress(test.ContractAddressHex), 500_000)
	poller := chain.NewPoller(backend, 5, time.Millisecond)

	return submission.NewService(submitter, poller, metrics.New(), time.Minute)
}

func TestRunConfirmed(t *testing.T) {
	backend := &test.ChainBackend{}
	svc := newTestService(t, backend)

	sub := svc.Run(context.Background(), testReport(t))

	require.NotNil(t, sub)
	assert.Equal(t, submission.StatusConfirmed, sub.Status)
	assert.True(t, sub.Status.Terminal())
	assert.NotEmpty(t, sub.TxHash)
	assert.Equal(t, int64(1), sub.BlockNumber.Int64())
	assert.Equal(t, uint64(60_000), sub.GasUsed)
	assert.Empty(t, sub.Stage)
}

func TestRunReverted(t *testing.T) {
	backend := &test.ChainBackend{
		TransactionReceiptFunc: func(_ context.Context, txHash common.Hash) (*ethtypes.Receipt, error) {
			return &ethtypes.Receipt{
				Status:      ethtypes.ReceiptStatusFailed,
				BlockNumber: big.NewInt(9),
				GasUsed:     21_072,
				TxHash:      txHash,
			}, nil
		},
	}
	svc := newTestService(t, backend)

	sub := svc.Run(context.Background(), testReport(t))

	assert.Equal(t, submission.StatusReverted, sub.Status)
	assert.Equal(t, int64(9), sub.BlockNumber.Int64())
}

func TestRunFailedSubmitStage(t *testing.T) {
	backend := &test.ChainBackend{
		SendTransactionFunc: func(_ context.Context, _ *ethtypes.Transaction) error {
			return &rejectingNodeError{}
		},
	}
	svc := newTestService(t, backend)

	sub := svc.Run(context.Background(), testReport(t))

	assert.Equal(t, submission.StatusFailed, sub.Status)
	assert.Equal(t, "submit", sub.Stage)
	assert.Contains(t, sub.Detail, "execution reverted")
	assert.Empty(t, sub.TxHash)
}

type rejectingNodeError struct{}

func (e *rejectingNodeError) Error() string  { return "execution reverted" }
func (e *rejectingNodeError) ErrorCode() int { return 3 }

func TestRunTimedOut(t *testing.T) {
	backend := &test.ChainBackend{
		TransactionReceiptFunc: func(_ context.Context, _ common.Hash) (*ethtypes.Receipt, error) {
			return nil, ethereum.NotFound
		},
	}
	svc := newTestService(t, backend)

	sub := svc.Run(context.Background(), testReport(t))

	// ambiguous: the transaction was broadcast and may still confirm
	assert.Equal(t, submission.StatusTimedOut, sub.Status)
	assert.NotEmpty(t, sub.TxHash)
}

func TestEnqueueProcessesAsynchronously(t *testing.T) {
	backend := &test.ChainBackend{}
	svc := newTestService(t, backend)

	sub := svc.Enqueue(context.Background(), testReport(t))
	require.NotNil(t, sub)
	assert.NotEmpty(t, sub.ID)

	require.Eventually(t, func() bool {
		current, ok := svc.Get(sub.ID)
		return ok && current.Status == submission.StatusConfirmed
	}, 5*time.Second, 5*time.Millisecond)
}

func TestGetUnknownID(t *testing.T) {
	svc := newTestService(t, &test.ChainBackend{})

	_, ok := svc.Get("does-not-exist")
	assert.False(t, ok)
}

func TestGetReturnsCopies(t *testing.T) {
	backend := &test.ChainBackend{}
	svc := newTestService(t, backend)

	sub := svc.Run(context.Background(), testReport(t))

	first, ok := svc.Get(sub.ID)
	require.True(t, ok)
	first.Status = submission.StatusFailed
	first.BlockNumber.SetInt64(999)

	second, ok := svc.Get(sub.ID)
	require.True(t, ok)
	assert.Equal(t, submission.StatusConfirmed, second.Status)
	assert.Equal(t, int64(1), second.BlockNumber.Int64())
}

func TestListReturnsAllRecords(t *testing.T) {
	backend := &test.ChainBackend{}
	svc := newTestService(t, backend)

	svc.Run(context.Background(), testReport(t))
	svc.Run(context.Background(), testReport(t))

	assert.Len(t, svc.List(), 2)
}
