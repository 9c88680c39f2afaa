// check_ebs_volume reports an AWS/EBS metric for each volume attached to an
// instance.
package main

import (
	"context"
	"time"

	"github.com/spf13/pflag"

	"github.com/CarltonSoftware/nagios-plugins/internal/checks"
	"github.com/CarltonSoftware/nagios-plugins/internal/cli"
	"github.com/CarltonSoftware/nagios-plugins/internal/cloudwatch"
	"github.com/CarltonSoftware/nagios-plugins/internal/ebs"
	"github.com/CarltonSoftware/nagios-plugins/internal/plugin"
)

func main() {
	var (
		p      checks.EBSParams
		period int
		window int
	)
	cli.Main(cli.Plugin{
		Name:       "check_ebs_volume",
		CheckName:  "ebs",
		Short:      "Check an EBS metric for the volumes attached to an instance",
		Thresholds: true,
		Flags: func(fs *pflag.FlagSet) {
			fs.StringVarP(&p.InstanceID, "instance", "i", "", "EC2 instance id")
			fs.StringVarP(&p.Metric, "metric", "m", "VolumeQueueLength", "AWS/EBS metric to query")
			fs.IntVarP(&period, "period", "p", 300, "metric resolution in seconds")
			fs.StringVarP(&p.Statistic, "statistic", "s", cloudwatch.DefaultStatistic, "statistic to monitor")
			fs.IntVar(&window, "window", int(ebs.DefaultWindow/time.Second), "how far back to look for datapoints, in seconds")
		},
		Build: func(ctx context.Context, env *cli.Env, th checks.Thresholds) (*plugin.Check, error) {
			deps, err := env.AWSDeps(ctx)
			if err != nil {
				return nil, err
			}
			p.Period = time.Duration(period) * time.Second
			p.Window = time.Duration(window) * time.Second
			return checks.NewEBS(deps, p, th)
		},
	})
}
