package submit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/gather/report-gateway/internal/api"
	"github/gather/report-gateway/internal/config"
	"github/gather/report-gateway/internal/report"
	"github/gather/report-gateway/internal/submission"
	"github/gather/report-gateway/internal/util"
	"github/gather/report-gateway/internal/util/command"
)

const (
	serverIDFlag  = "server-id"
	userCodeFlag  = "user-code"
	timestampFlag = "timestamp"
	sensorsFlag   = "sensors"
	locationFlag  = "location"
)

// New submits a single report from the command line and waits for its
// terminal outcome. Exits non-zero unless the report confirmed.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Signs and submits one report, waits for confirmation",
		Run: func(cmd *cobra.Command, _ []string) {
			r, err := reportFromFlags(cmd)
			if err != nil {
				log.Fatal().Err(err).Msg("Invalid report arguments")
			}

			cfg := config.DefaultServiceConfigFromEnv()

			err = command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
				sub := s.Submission.Run(ctx, r)

				out, err := json.MarshalIndent(submissionResult(sub), "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))

				if sub.Status != submission.StatusConfirmed {
					os.Exit(1)
				}
				return nil
			})
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to submit report")
			}
		},
	}

	cmd.Flags().String(serverIDFlag, "", "Server identifier (required)")
	cmd.Flags().String(userCodeFlag, "", "User code (required)")
	cmd.Flags().String(timestampFlag, "", "Unix timestamp in seconds (required)")
	cmd.Flags().StringSlice(sensorsFlag, nil, "Six sensor readings as decimal integers (required)")
	cmd.Flags().StringSlice(locationFlag, nil, "Two scaled location words as decimal integers (required)")

	for _, flag := range []string{serverIDFlag, userCodeFlag, timestampFlag, sensorsFlag, locationFlag} {
		_ = cmd.MarkFlagRequired(flag)
	}

	return cmd
}

func reportFromFlags(cmd *cobra.Command) (*report.Report, error) {
	serverID, err := cmd.Flags().GetString(serverIDFlag)
	if err != nil {
		return nil, err
	}
	userCode, err := cmd.Flags().GetString(userCodeFlag)
	if err != nil {
		return nil, err
	}
	timestampRaw, err := cmd.Flags().GetString(timestampFlag)
	if err != nil {
		return nil, err
	}
	sensorsRaw, err := cmd.Flags().GetStringSlice(sensorsFlag)
	if err != nil {
		return nil, err
	}
	locationRaw, err := cmd.Flags().GetStringSlice(locationFlag)
	if err != nil {
		return nil, err
	}

	timestamp, err := util.ParseBigInt(timestampRaw)
	if err != nil {
		return nil, err
	}
	sensors, err := util.ParseBigInts(sensorsRaw)
	if err != nil {
		return nil, err
	}
	location, err := util.ParseBigInts(locationRaw)
	if err != nil {
		return nil, err
	}

	return report.New(serverID, userCode, timestamp, sensors, location)
}

type result struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	TxHash      string `json:"txHash,omitempty"`
	BlockNumber string `json:"blockNumber,omitempty"`
	GasUsed     uint64 `json:"gasUsed,omitempty"`
	Stage       string `json:"stage,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

func submissionResult(sub *submission.Submission) result {
	res := result{
		ID:      sub.ID,
		Status:  string(sub.Status),
		TxHash:  sub.TxHash,
		GasUsed: sub.GasUsed,
		Stage:   sub.Stage,
		Detail:  sub.Detail,
	}
	if sub.BlockNumber != nil {
		res.BlockNumber = sub.BlockNumber.String()
	}
	return res
}
