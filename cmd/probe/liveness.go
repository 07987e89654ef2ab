package probe

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/gather/report-gateway/internal/config"
)

func newLiveness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liveness",
		Short: "Runs the liveness probe against the local server",
		Run: func(cmd *cobra.Command, _ []string) {
			verbose, err := cmd.Flags().GetBool(verboseFlag)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to parse flags")
			}

			cfg := config.DefaultServiceConfigFromEnv()
			runProbe(probeURL(cfg, "/-/healthy"), cfg.Chain.RequestTimeout, verbose)
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Print the probe response body")

	return cmd
}
