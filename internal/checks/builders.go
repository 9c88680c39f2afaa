// Package checks assembles plugin checks from parameters, either given on a
// command line or read from a definitions file.
package checks

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/CarltonSoftware/nagios-plugins/internal/cloudwatch"
	"github.com/CarltonSoftware/nagios-plugins/internal/ebs"
	"github.com/CarltonSoftware/nagios-plugins/internal/pagespeed"
	"github.com/CarltonSoftware/nagios-plugins/internal/plugin"
	"github.com/CarltonSoftware/nagios-plugins/internal/statuspage"
	"github.com/CarltonSoftware/nagios-plugins/internal/targetgroup"
)

// Deps are the remote API clients checks are built on. Only the clients a
// check needs have to be set.
type Deps struct {
	CloudWatch   cloudwatch.API
	TargetHealth targetgroup.TargetHealthAPI
	AutoScaling  targetgroup.AutoScalingAPI
	Volumes      ebs.VolumesAPI
	HTTP         *http.Client
	PageSpeedKey string
	Logger       *zap.Logger
}

type Thresholds struct {
	Warning  string
	Critical string
}

type CloudWatchParams struct {
	Namespace  string
	Metric     string
	Dimensions map[string]string
	Statistic  string
	Period     time.Duration
	Window     time.Duration
}

type TargetGroupParams struct {
	TargetGroupARN   string
	AutoScalingGroup string
	Metric           string
	Statistic        string
	Period           time.Duration
	Window           time.Duration
}

type EBSParams struct {
	InstanceID string
	Metric     string
	Statistic  string
	Period     time.Duration
	Window     time.Duration
}

type StatusPageParams struct {
	URL     string
	Service string
}

type PageSpeedParams struct {
	URL      string
	Strategy string
}

func newCheck(d Deps, name string, r plugin.Resource, contexts ...plugin.Context) *plugin.Check {
	c := plugin.NewCheck(name, r, contexts...)
	if d.Logger != nil {
		c.Logger = d.Logger
	}
	return c
}

func checkStatistic(stat string) error {
	if stat != "" && !cloudwatch.ValidStatistic(stat) {
		return fmt.Errorf("unknown statistic %q", stat)
	}
	return nil
}

func NewCloudWatch(d Deps, p CloudWatchParams, th Thresholds) (*plugin.Check, error) {
	if d.CloudWatch == nil {
		return nil, fmt.Errorf("cloudwatch client not configured")
	}
	if p.Metric == "" {
		return nil, fmt.Errorf("metric is required")
	}
	if err := checkStatistic(p.Statistic); err != nil {
		return nil, err
	}
	sc, err := plugin.NewScalarContext(p.Metric, th.Warning, th.Critical)
	if err != nil {
		return nil, err
	}
	res := &cloudwatch.MetricResource{
		Client: cloudwatch.NewClient(d.CloudWatch),
		Query: cloudwatch.Query{
			Namespace:  p.Namespace,
			MetricName: p.Metric,
			Dimensions: p.Dimensions,
			Statistic:  p.Statistic,
			Period:     p.Period,
			Window:     p.Window,
		},
	}
	return newCheck(d, "cloudwatch", res, sc), nil
}

func NewTargetGroup(d Deps, p TargetGroupParams, th Thresholds) (*plugin.Check, error) {
	if d.CloudWatch == nil {
		return nil, fmt.Errorf("cloudwatch client not configured")
	}
	if p.Metric == "" {
		return nil, fmt.Errorf("metric is required")
	}
	if err := checkStatistic(p.Statistic); err != nil {
		return nil, err
	}

	var members targetgroup.Lister
	switch {
	case p.TargetGroupARN != "" && p.AutoScalingGroup != "":
		return nil, fmt.Errorf("target group and auto scaling group are mutually exclusive")
	case p.TargetGroupARN != "":
		if d.TargetHealth == nil {
			return nil, fmt.Errorf("elbv2 client not configured")
		}
		members = targetgroup.TargetGroupMembers(d.TargetHealth, p.TargetGroupARN)
	case p.AutoScalingGroup != "":
		if d.AutoScaling == nil {
			return nil, fmt.Errorf("autoscaling client not configured")
		}
		members = targetgroup.AutoScalingMembers(d.AutoScaling, p.AutoScalingGroup)
	default:
		return nil, fmt.Errorf("a target group ARN or auto scaling group is required")
	}

	sc, err := plugin.NewScalarContext(p.Metric, th.Warning, th.Critical)
	if err != nil {
		return nil, err
	}
	res := &targetgroup.InstanceMetricResource{
		Members:    members,
		Metrics:    cloudwatch.NewClient(d.CloudWatch),
		MetricName: p.Metric,
		Statistic:  p.Statistic,
		Period:     p.Period,
		Window:     p.Window,
	}
	c := newCheck(d, "targetgroup", res, sc)
	c.Summary = plugin.FixedOK(targetgroup.OKSummary)
	return c, nil
}

func NewEBS(d Deps, p EBSParams, th Thresholds) (*plugin.Check, error) {
	if d.CloudWatch == nil || d.Volumes == nil {
		return nil, fmt.Errorf("cloudwatch and ec2 clients are required")
	}
	if p.InstanceID == "" || p.Metric == "" {
		return nil, fmt.Errorf("instance id and metric are required")
	}
	if err := checkStatistic(p.Statistic); err != nil {
		return nil, err
	}
	sc, err := plugin.NewScalarContext(p.Metric, th.Warning, th.Critical)
	if err != nil {
		return nil, err
	}
	res := &ebs.VolumeMetricResource{
		Volumes:    d.Volumes,
		Metrics:    cloudwatch.NewClient(d.CloudWatch),
		InstanceID: p.InstanceID,
		MetricName: p.Metric,
		Statistic:  p.Statistic,
		Period:     p.Period,
		Window:     p.Window,
	}
	return newCheck(d, "ebs", res, sc), nil
}

func NewStatusPage(d Deps, p StatusPageParams) (*plugin.Check, error) {
	if p.URL == "" {
		p.URL = statuspage.GitHubURL
	}
	if p.Service == "" {
		p.Service = "GitHub"
	}
	res := &statuspage.Resource{Client: &statuspage.Client{HTTP: httpClient(d), URL: p.URL}}
	return newCheck(d, "statuspage", res, statuspage.Context{Service: p.Service}), nil
}

func NewPageSpeed(d Deps, p PageSpeedParams, th Thresholds) (*plugin.Check, error) {
	if p.URL == "" {
		return nil, fmt.Errorf("url is required")
	}
	if p.Strategy == "" {
		p.Strategy = "desktop"
	}
	if !pagespeed.ValidStrategy(p.Strategy) {
		return nil, fmt.Errorf("strategy must be desktop or mobile, got %q", p.Strategy)
	}
	score, err := plugin.NewScalarContext(pagespeed.ScoreContext, th.Warning, th.Critical)
	if err != nil {
		return nil, err
	}
	res := &pagespeed.Resource{
		Client:   &pagespeed.Client{HTTP: httpClient(d), APIKey: d.PageSpeedKey},
		URL:      p.URL,
		Strategy: p.Strategy,
	}
	return newCheck(d, "pagespeed", res, score, plugin.NewNullContext(pagespeed.StatsContext)), nil
}

func httpClient(d Deps) *http.Client {
	if d.HTTP != nil {
		return d.HTTP
	}
	return http.DefaultClient
}
