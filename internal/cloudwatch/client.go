// Package cloudwatch queries CloudWatch metric statistics and reduces them to
// the most recent sample.
package cloudwatch

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/CarltonSoftware/nagios-plugins/internal/sample"
)

const (
	DefaultNamespace = "AWS/EC2"
	DefaultStatistic = "Average"
	DefaultPeriod    = 60 * time.Second
	DefaultWindow    = 600 * time.Second
)

// API is the subset of the CloudWatch client used here.
type API interface {
	GetMetricStatistics(ctx context.Context, params *cloudwatch.GetMetricStatisticsInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricStatisticsOutput, error)
}

// Query selects one statistic of one metric over a trailing window.
type Query struct {
	Namespace  string
	MetricName string
	Dimensions map[string]string
	Statistic  string
	Period     time.Duration
	Window     time.Duration
}

func (q Query) withDefaults() Query {
	if q.Namespace == "" {
		q.Namespace = DefaultNamespace
	}
	if q.Statistic == "" {
		q.Statistic = DefaultStatistic
	}
	if q.Period <= 0 {
		q.Period = DefaultPeriod
	}
	if q.Window <= 0 {
		q.Window = DefaultWindow
	}
	return q
}

type Client struct {
	API API
	Now func() time.Time
}

func NewClient(api API) *Client {
	return &Client{API: api, Now: time.Now}
}

// Samples returns the datapoints of q in the order the API returned them.
func (c *Client) Samples(ctx context.Context, q Query) ([]sample.Sample, error) {
	q = q.withDefaults()
	if q.MetricName == "" {
		return nil, fmt.Errorf("metric name is required")
	}
	stat, err := normalizeStatistic(q.Statistic)
	if err != nil {
		return nil, err
	}
	q.Statistic = stat
	out, err := c.API.GetMetricStatistics(ctx, c.input(q))
	if err != nil {
		return nil, fmt.Errorf("get metric statistics %s/%s: %w", q.Namespace, q.MetricName, err)
	}

	samples := make([]sample.Sample, 0, len(out.Datapoints))
	for _, dp := range out.Datapoints {
		v, ok := statisticValue(dp, q.Statistic)
		if !ok {
			continue
		}
		samples = append(samples, sample.Sample{
			Timestamp: aws.ToTime(dp.Timestamp),
			Value:     v,
			Unit:      string(dp.Unit),
		})
	}
	return samples, nil
}

// Latest returns the newest sample of q. ok is false when CloudWatch had no
// datapoints in the window.
func (c *Client) Latest(ctx context.Context, q Query) (s sample.Sample, ok bool, err error) {
	samples, err := c.Samples(ctx, q)
	if err != nil {
		return sample.Sample{}, false, err
	}
	s, ok = sample.Latest(samples)
	return s, ok, nil
}

func (c *Client) input(q Query) *cloudwatch.GetMetricStatisticsInput {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	end := now().UTC()
	start := end.Add(-q.Window)

	in := &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String(q.Namespace),
		MetricName: aws.String(q.MetricName),
		Dimensions: dimensions(q.Dimensions),
		StartTime:  aws.Time(start),
		EndTime:    aws.Time(end),
		Period:     aws.Int32(int32(q.Period / time.Second)),
	}
	if isExtended(q.Statistic) {
		in.ExtendedStatistics = []string{q.Statistic}
	} else {
		in.Statistics = []types.Statistic{types.Statistic(q.Statistic)}
	}
	return in
}

// ParseStatistic validates a basic statistic name.
func ParseStatistic(s string) (types.Statistic, error) {
	for _, v := range types.Statistic("").Values() {
		if strings.EqualFold(string(v), s) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown statistic %q", s)
}

func normalizeStatistic(s string) (string, error) {
	if isExtended(s) {
		return s, nil
	}
	v, err := ParseStatistic(s)
	return string(v), err
}

// ValidStatistic reports whether s is a basic statistic or a pNN percentile.
func ValidStatistic(s string) bool {
	if isExtended(s) {
		return true
	}
	_, err := ParseStatistic(s)
	return err == nil
}

func isExtended(s string) bool {
	if len(s) < 2 || s[0] != 'p' {
		return false
	}
	v, err := strconv.ParseFloat(s[1:], 64)
	return err == nil && v >= 0 && v <= 100
}

func statisticValue(dp types.Datapoint, stat string) (float64, bool) {
	if isExtended(stat) {
		v, ok := dp.ExtendedStatistics[stat]
		return v, ok
	}
	var p *float64
	switch types.Statistic(stat) {
	case types.StatisticAverage:
		p = dp.Average
	case types.StatisticMinimum:
		p = dp.Minimum
	case types.StatisticMaximum:
		p = dp.Maximum
	case types.StatisticSum:
		p = dp.Sum
	case types.StatisticSampleCount:
		p = dp.SampleCount
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// dimensions converts a name/value map to API dimensions sorted by name so
// requests are deterministic.
func dimensions(m map[string]string) []types.Dimension {
	if len(m) == 0 {
		return nil
	}
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	out := make([]types.Dimension, 0, len(names))
	for _, k := range names {
		out = append(out, types.Dimension{Name: aws.String(k), Value: aws.String(m[k])})
	}
	return out
}
