package command

import (
	"context"
	"time"

	"github/gather/report-gateway/internal/api"
	"github/gather/report-gateway/internal/api/router"
	"github/gather/report-gateway/internal/chain"
	"github/gather/report-gateway/internal/config"
	"github/gather/report-gateway/internal/metrics"
	"github/gather/report-gateway/internal/report"
	"github/gather/report-gateway/internal/submission"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// NewSubcommandGroup wraps subcommands under a common parent that prints
// its own help when invoked bare.
func NewSubcommandGroup(use string, subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use: use,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				log.Error().Err(err).Msg("Failed to print help")
			}
		},
	}

	cmd.AddCommand(subcommands...)

	return cmd
}

// InitServer wires all components of a fully functional server from the
// given config: RPC client, signing key, submitter, poller, metrics,
// submission service and the HTTP router.
func InitServer(cfg config.Server) (*api.Server, error) {
	if !common.IsHexAddress(cfg.Chain.ContractAddress) {
		return nil, errors.Errorf("invalid contract address %q", cfg.Chain.ContractAddress)
	}

	keyPair, err := report.NewKeyPairFromHex(cfg.Chain.PrivateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load signing key")
	}

	client, err := chain.NewClient(cfg.Chain.RPCURLs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to RPC nodes")
	}

	contract := common.HexToAddress(cfg.Chain.ContractAddress)
	submitter := chain.NewSubmitter(client, keyPair, contract, cfg.Chain.GasLimit)
	poller := chain.NewPoller(client, cfg.Poller.Attempts, cfg.Poller.Interval)

	s := api.NewServer(cfg)
	s.Metrics = metrics.New()
	s.Chain = client
	s.Submission = submission.NewService(submitter, poller, s.Metrics, 0)

	router.Init(s)

	return s, nil
}

// WithServer runs closure against a fully wired server and tears it down
// afterwards. Intended for one-shot CLI commands, not for serving HTTP.
func WithServer(ctx context.Context, cfg config.Server, closure func(ctx context.Context, s *api.Server) error) error {
	config.InitLogger(cfg)

	s, err := InitServer(cfg)
	if err != nil {
		return err
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if errs := s.Shutdown(shutdownCtx); len(errs) > 0 {
			log.Error().Errs("errors", errs).Msg("Errors during server shutdown")
		}
	}()

	return closure(ctx, s)
}
