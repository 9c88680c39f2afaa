// check_cloudwatch reports the most recent value of a CloudWatch metric.
package main

import (
	"context"
	"time"

	"github.com/spf13/pflag"

	"github.com/CarltonSoftware/nagios-plugins/internal/checks"
	"github.com/CarltonSoftware/nagios-plugins/internal/cli"
	"github.com/CarltonSoftware/nagios-plugins/internal/cloudwatch"
	"github.com/CarltonSoftware/nagios-plugins/internal/plugin"
)

func main() {
	var (
		p      checks.CloudWatchParams
		region string
		period int
		window int
	)
	cli.Main(cli.Plugin{
		Name:       "check_cloudwatch",
		CheckName:  "cloudwatch",
		Short:      "Check the most recent datapoint of a CloudWatch metric",
		Thresholds: true,
		Flags: func(fs *pflag.FlagSet) {
			fs.StringVarP(&p.Namespace, "namespace", "n", cloudwatch.DefaultNamespace, "the namespace containing the metric")
			fs.StringVarP(&p.Metric, "metric", "m", "", "the name of the metric to query")
			fs.StringToStringVarP(&p.Dimensions, "dimension", "d", nil, "dimensions to query as `Key=Value,...`")
			fs.IntVarP(&period, "period", "p", 60, "the metric resolution in seconds")
			fs.StringVarP(&p.Statistic, "statistic", "s", cloudwatch.DefaultStatistic, "statistic to monitor (Average, Minimum, Maximum, Sum, SampleCount or pNN)")
			fs.StringVarP(&region, "region", "R", "", "AWS region (defaults to AWS_REGION)")
			fs.IntVar(&window, "window", 600, "how far back to look for datapoints, in seconds")
		},
		Build: func(ctx context.Context, env *cli.Env, th checks.Thresholds) (*plugin.Check, error) {
			if region != "" {
				env.Config.AWSRegion = region
			}
			deps, err := env.AWSDeps(ctx)
			if err != nil {
				return nil, err
			}
			p.Period = time.Duration(period) * time.Second
			p.Window = time.Duration(window) * time.Second
			return checks.NewCloudWatch(deps, p, th)
		},
	})
}
