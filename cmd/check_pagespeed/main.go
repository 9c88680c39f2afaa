// check_pagespeed reports the PageSpeed Insights performance score of a page.
package main

import (
	"context"

	"github.com/spf13/pflag"

	"github.com/CarltonSoftware/nagios-plugins/internal/checks"
	"github.com/CarltonSoftware/nagios-plugins/internal/cli"
	"github.com/CarltonSoftware/nagios-plugins/internal/plugin"
)

func main() {
	var p checks.PageSpeedParams
	cli.Main(cli.Plugin{
		Name:       "check_pagespeed",
		CheckName:  "pagespeed",
		Short:      "Check the PageSpeed Insights score of a URL",
		Thresholds: true,
		Flags: func(fs *pflag.FlagSet) {
			fs.StringVarP(&p.URL, "url", "u", "", "URL to query (including protocol)")
			fs.StringVarP(&p.Strategy, "strategy", "s", "desktop", "strategy to use (desktop/mobile)")
		},
		Build: func(_ context.Context, env *cli.Env, th checks.Thresholds) (*plugin.Check, error) {
			return checks.NewPageSpeed(env.Deps(), p, th)
		},
	})
}
