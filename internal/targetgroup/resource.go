package targetgroup

import (
	"context"
	"fmt"
	"time"

	"github.com/CarltonSoftware/nagios-plugins/internal/cloudwatch"
	"github.com/CarltonSoftware/nagios-plugins/internal/plugin"
)

// OKSummary is the status text when every instance is within thresholds.
const OKSummary = "All instances are within the given thresholds"

// InstanceMetricResource reports the newest value of one EC2 metric for each
// member instance. Instances are queried one after another; the first error
// aborts the probe.
type InstanceMetricResource struct {
	Members    Lister
	Metrics    *cloudwatch.Client
	MetricName string
	Statistic  string
	Period     time.Duration
	// Window defaults to cloudwatch.DefaultWindow.
	Window time.Duration
}

func (r *InstanceMetricResource) Probe(ctx context.Context) ([]plugin.Metric, error) {
	ids, err := r.Members(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no targets: %w", plugin.ErrNoData)
	}

	metrics := make([]plugin.Metric, 0, len(ids))
	for _, id := range ids {
		m, err := r.Metrics.LatestMetric(ctx, cloudwatch.Query{
			Namespace:  "AWS/EC2",
			MetricName: r.MetricName,
			Dimensions: map[string]string{"InstanceId": id},
			Statistic:  r.Statistic,
			Period:     r.Period,
			Window:     r.Window,
		}, id, r.MetricName)
		if err != nil {
			return nil, fmt.Errorf("instance %s: %w", id, err)
		}
		metrics = append(metrics, m)
	}
	return metrics, nil
}
