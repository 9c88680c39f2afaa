// check_statuspage reports the overall indicator of a hosted status page.
package main

import (
	"context"

	"github.com/spf13/pflag"

	"github.com/CarltonSoftware/nagios-plugins/internal/checks"
	"github.com/CarltonSoftware/nagios-plugins/internal/cli"
	"github.com/CarltonSoftware/nagios-plugins/internal/plugin"
	"github.com/CarltonSoftware/nagios-plugins/internal/statuspage"
)

func main() {
	var p checks.StatusPageParams
	cli.Main(cli.Plugin{
		Name:      "check_statuspage",
		CheckName: "statuspage",
		Short:     "Check a status page (GitHub by default)",
		Flags: func(fs *pflag.FlagSet) {
			fs.StringVarP(&p.URL, "url", "u", statuspage.GitHubURL, "status JSON endpoint")
			fs.StringVarP(&p.Service, "service", "S", "GitHub", "service name used in messages")
		},
		Build: func(_ context.Context, env *cli.Env, _ checks.Thresholds) (*plugin.Check, error) {
			return checks.NewStatusPage(env.Deps(), p)
		},
	})
}
