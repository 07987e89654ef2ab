package test

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// ChainBackend is an in-memory chain.Backend. The zero value behaves
// like a healthy node that mines every transaction on the first receipt
// poll; individual calls can be overridden per test via the function
// fields.
type ChainBackend struct {
	NonceAtFunc            func(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPriceFunc    func(ctx context.Context) (*big.Int, error)
	SendTransactionFunc    func(ctx context.Context, tx *ethtypes.Transaction) error
	TransactionReceiptFunc func(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error)
	ChainIDFunc            func(ctx context.Context) (*big.Int, error)

	mu   sync.Mutex
	sent []*ethtypes.Transaction
}

func (b *ChainBackend) NonceAt(ctx context.Context, account common.Address) (uint64, error) {
	if b.NonceAtFunc != nil {
		return b.NonceAtFunc(ctx, account)
	}
	return uint64(len(b.SentTransactions())), nil
}

func (b *ChainBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	if b.SuggestGasPriceFunc != nil {
		return b.SuggestGasPriceFunc(ctx)
	}
	return big.NewInt(1_000_000_000), nil
}

func (b *ChainBackend) SendTransaction(ctx context.Context, tx *ethtypes.Transaction) error {
	if b.SendTransactionFunc != nil {
		return b.SendTransactionFunc(ctx, tx)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, tx)
	return nil
}

func (b *ChainBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error) {
	if b.TransactionReceiptFunc != nil {
		return b.TransactionReceiptFunc(ctx, txHash)
	}

	for _, tx := range b.SentTransactions() {
		if tx.Hash() == txHash {
			return &ethtypes.Receipt{
				Status:      ethtypes.ReceiptStatusSuccessful,
				BlockNumber: big.NewInt(1),
				GasUsed:     60_000,
				TxHash:      txHash,
			}, nil
		}
	}
	return nil, ethereum.NotFound
}

func (b *ChainBackend) ChainID(ctx context.Context) (*big.Int, error) {
	if b.ChainIDFunc != nil {
		return b.ChainIDFunc(ctx)
	}
	return big.NewInt(31337), nil
}

// SentTransactions returns all transactions recorded by the default
// SendTransaction implementation.
func (b *ChainBackend) SentTransactions() []*ethtypes.Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]*ethtypes.Transaction, len(b.sent))
	copy(out, b.sent)
	return out
}
