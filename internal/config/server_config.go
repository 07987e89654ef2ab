package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EchoServer holds the configuration of the HTTP layer.
type EchoServer struct {
	ListenAddress                  string
	HideInternalServerErrorDetails bool
}

// Logger holds the zerolog configuration.
type Logger struct {
	Level              string
	PrettyPrintConsole bool
}

// Chain holds everything needed to talk to the destination chain.
// PrivateKey is excluded from JSON on purpose, it must never be printed.
type Chain struct {
	RPCURLs         []string
	ContractAddress string
	PrivateKey      string `json:"-"`
	GasLimit        uint64
	RequestTimeout  time.Duration
}

// Poller holds the receipt confirmation polling parameters.
type Poller struct {
	Attempts int
	Interval time.Duration
}

// Server is the root configuration of the service.
type Server struct {
	Echo   EchoServer
	Logger Logger
	Chain  Chain
	Poller Poller
}

// DefaultServiceConfigFromEnv returns the service config, defaults overridden
// by GATHER_* environment variables (e.g. GATHER_CHAIN_RPC_URLS).
func DefaultServiceConfigFromEnv() Server {
	v := viper.New()
	v.SetEnvPrefix("GATHER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("echo.listen_address", ":8080")
	v.SetDefault("echo.hide_internal_server_error_details", true)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.pretty_print_console", false)
	v.SetDefault("chain.rpc_urls", "")
	v.SetDefault("chain.contract_address", "")
	v.SetDefault("chain.private_key", "")
	v.SetDefault("chain.gas_limit", 500000)
	v.SetDefault("chain.request_timeout", 15*time.Second)
	v.SetDefault("poller.attempts", 30)
	v.SetDefault("poller.interval", 2*time.Second)

	return Server{
		Echo: EchoServer{
			ListenAddress:                  v.GetString("echo.listen_address"),
			HideInternalServerErrorDetails: v.GetBool("echo.hide_internal_server_error_details"),
		},
		Logger: Logger{
			Level:              v.GetString("logger.level"),
			PrettyPrintConsole: v.GetBool("logger.pretty_print_console"),
		},
		Chain: Chain{
			RPCURLs:         splitNonEmpty(v.GetString("chain.rpc_urls")),
			ContractAddress: v.GetString("chain.contract_address"),
			PrivateKey:      v.GetString("chain.private_key"),
			GasLimit:        v.GetUint64("chain.gas_limit"),
			RequestTimeout:  v.GetDuration("chain.request_timeout"),
		},
		Poller: Poller{
			Attempts: v.GetInt("poller.attempts"),
			Interval: v.GetDuration("poller.interval"),
		},
	}
}

func splitNonEmpty(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
