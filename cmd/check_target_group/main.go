// check_target_group reports an EC2 metric for every instance registered to a
// load balancer target group or running in an auto scaling group.
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
		p      checks.TargetGroupParams
		period int
		window int
	)
	cli.Main(cli.Plugin{
		Name:       "check_target_group",
		CheckName:  "targetgroup",
		Short:      "Check an EC2 metric across the members of a target group",
		Thresholds: true,
		Flags: func(fs *pflag.FlagSet) {
			fs.StringVarP(&p.TargetGroupARN, "targetgroup", "t", "", "ARN of the target group to query")
			fs.StringVarP(&p.AutoScalingGroup, "asg", "a", "", "name of an auto scaling group to query instead")
			fs.StringVarP(&p.Metric, "metric", "m", "", "name of the metric to query")
			fs.IntVarP(&period, "period", "p", 60, "metric resolution in seconds")
			fs.StringVarP(&p.Statistic, "statistic", "s", cloudwatch.DefaultStatistic, "statistic to monitor")
			fs.IntVar(&window, "window", 600, "how far back to look for datapoints, in seconds")
		},
		Build: func(ctx context.Context, env *cli.Env, th checks.Thresholds) (*plugin.Check, error) {
			deps, err := env.AWSDeps(ctx)
			if err != nil {
				return nil, err
			}
			p.Period = time.Duration(period) * time.Second
			p.Window = time.Duration(window) * time.Second
			return checks.NewTargetGroup(deps, p, th)
		},
	})
}
