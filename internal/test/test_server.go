package test

import (
	"testing"
	"time"

	"github/gather/report-gateway/internal/api"
	"github/gather/report-gateway/internal/api/router"
	"github/gather/report-gateway/internal/chain"
	"github/gather/report-gateway/internal/config"
	"github/gather/report-gateway/internal/metrics"
	"github/gather/report-gateway/internal/report"
	"github/gather/report-gateway/internal/submission"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

// PrivateKeyHex is a well-known development key (hardhat account #0).
// It controls no real funds.
const PrivateKeyHex = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

// ContractAddressHex is an arbitrary destination contract for tests.
const ContractAddressHex = "0x5FbDB2315678afecb367f032d93F642f64180aa3"

// DefaultTestConfig returns a server config suitable for in-process
// tests: no real RPC endpoints, fast polling.
func DefaultTestConfig() config.Server {
	cfg := config.DefaultServiceConfigFromEnv()
	cfg.Chain.RPCURLs = nil
	cfg.Chain.ContractAddress = ContractAddressHex
	cfg.Chain.PrivateKey = PrivateKeyHex
	cfg.Poller.Attempts = 5
	cfg.Poller.Interval = time.Millisecond
	return cfg
}

// WithTestServer runs closure against a fully wired server backed by a
// fresh in-memory ChainBackend.
func WithTestServer(t *testing.T, closure func(s *api.Server)) {
	t.Helper()

	WithTestServerBackend(t, &ChainBackend{}, closure)
}

// WithTestServerBackend is WithTestServer with a caller-controlled
// backend, for tests that script RPC behavior.
func WithTestServerBackend(t *testing.T, backend *ChainBackend, closure func(s *api.Server)) {
	t.Helper()

	cfg := DefaultTestConfig()

	keyPair, err := report.NewKeyPairFromHex(cfg.Chain.PrivateKey)
	require.NoError(t, err)

	contract := common.HexToAddress(cfg.Chain.ContractAddress)
	submitter := chain.NewSubmitter(backend, keyPair, contract, cfg.Chain.GasLimit)
	poller := chain.NewPoller(backend, cfg.Poller.Attempts, cfg.Poller.Interval)

	s := api.NewServer(cfg)
	s.Metrics = metrics.New()
	s.Chain = backend
	s.Submission = submission.NewService(submitter, poller, s.Metrics, time.Minute)

	router.Init(s)

	closure(s)
}
