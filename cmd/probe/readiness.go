package probe

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/gather/report-gateway/internal/config"
)

func newReadiness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Runs the readiness probe against the local server",
		Run: func(cmd *cobra.Command, _ []string) {
			verbose, err := cmd.Flags().GetBool(verboseFlag)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to parse flags")
			}

			cfg := config.DefaultServiceConfigFromEnv()
			runProbe(probeURL(cfg, "/-/ready"), cfg.Chain.RequestTimeout, verbose)
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Print the probe response body")

	return cmd
}

// probeURL targets the local management endpoint; a listen address
// without a host binds all interfaces, the probe goes via localhost.
func probeURL(cfg config.Server, path string) string {
	addr := cfg.Echo.ListenAddress
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return fmt.Sprintf("http://%s%s", addr, path)
}

func runProbe(url string, timeout time.Duration, verbose bool) {
	client := &http.Client{Timeout: timeout}

	res, err := client.Get(url) //nolint:noctx // one-shot probe process, timeout via client
	if err != nil {
		log.Fatal().Err(err).Str("url", url).Msg("Probe request failed")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		log.Fatal().Err(err).Str("url", url).Msg("Failed to read probe response")
	}

	if verbose {
		fmt.Println(string(body))
	}

	if res.StatusCode != http.StatusOK {
		log.Fatal().Int("status", res.StatusCode).Str("url", url).Msg("Probe failed")
	}
}
