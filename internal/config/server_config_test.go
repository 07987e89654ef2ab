package config_test

import (
	"encoding/json"
	"testing"
	"time"

	"github/gather/report-gateway/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultServiceConfigFromEnv(t *testing.T) {
	cfg := config.DefaultServiceConfigFromEnv()

	assert.Equal(t, ":8080", cfg.Echo.ListenAddress)
	assert.Equal(t, uint64(500000), cfg.Chain.GasLimit)
	assert.Equal(t, 30, cfg.Poller.Attempts)
	assert.Equal(t, 2*time.Second, cfg.Poller.Interval)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GATHER_CHAIN_RPC_URLS", "http://node-a:8545, http://node-b:8545,")
	t.Setenv("GATHER_POLLER_ATTEMPTS", "3")

	cfg := config.DefaultServiceConfigFromEnv()

	assert.Equal(t, []string{"http://node-a:8545", "http://node-b:8545"}, cfg.Chain.RPCURLs)
	assert.Equal(t, 3, cfg.Poller.Attempts)
}

func TestPrivateKeyNeverSerialized(t *testing.T) {
	t.Setenv("GATHER_CHAIN_PRIVATE_KEY", "0xdeadbeef")

	cfg := config.DefaultServiceConfigFromEnv()
	require.Equal(t, "0xdeadbeef", cfg.Chain.PrivateKey)

	out, err := json.Marshal(cfg)
	require.NoError(t, err)

	assert.NotContains(t, string(out), "deadbeef")
	assert.NotContains(t, string(out), "PrivateKey")
}
