// check_probed runs a named check on a probed instance and relays its
// status line and exit code.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/CarltonSoftware/nagios-plugins/internal/config"
	"github.com/CarltonSoftware/nagios-plugins/internal/plugin"
)

const name = "probed"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	var (
		host    string
		check   string
		key     string
		timeout time.Duration
		code    = int(plugin.Unknown)
	)
	cmd := &cobra.Command{
		Use:           "check_probed",
		Short:         "Run a check on a remote probed and relay the result",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if key == "" {
				cfg, err := config.FromEnv()
				if err != nil {
					return err
				}
				key = cfg.ProbedAPIKey
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			output, c, err := fetch(ctx, host, check, key)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, output)
			code = c
			return nil
		},
	}
	cmd.SetOut(stdout)
	cmd.SetArgs(args)

	fs := cmd.Flags()
	fs.StringVarP(&host, "host", "H", "http://127.0.0.1:5667", "probed base `URL`")
	fs.StringVarP(&check, "name", "n", "", "check `NAME` as configured on probed")
	fs.StringVarP(&key, "key", "k", "", "API key (default $PROBED_API_KEY)")
	fs.DurationVar(&timeout, "timeout", 60*time.Second, "abort after this long")
	_ = cmd.MarkFlagRequired("name")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(stdout, plugin.UnknownOutcome(name, err).String())
		return int(plugin.Unknown)
	}
	return code
}

func fetch(ctx context.Context, host, check, key string) (string, int, error) {
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	u := strings.TrimRight(host, "/") + "/api/checks/" + url.PathEscape(check)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", 0, err
	}
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", 0, err
	}
	if resp.StatusCode != http.StatusOK {
		if msg := gjson.GetBytes(body, "error").String(); msg != "" {
			return "", 0, fmt.Errorf("probed returned %s: %s", resp.Status, msg)
		}
		return "", 0, fmt.Errorf("probed returned %s", resp.Status)
	}

	output := gjson.GetBytes(body, "output")
	c := gjson.GetBytes(body, "code")
	if !output.Exists() || !c.Exists() {
		return "", 0, fmt.Errorf("malformed probed response")
	}
	n := int(c.Int())
	if n < int(plugin.OK) || n > int(plugin.Unknown) {
		n = int(plugin.Unknown)
	}
	return output.String(), n, nil
}
