package ebs

import (
	"context"
	"fmt"
	"time"

	"github.com/CarltonSoftware/nagios-plugins/internal/cloudwatch"
	"github.com/CarltonSoftware/nagios-plugins/internal/plugin"
)

// DefaultWindow is how far back volume metrics are searched. AWS/EBS
// publishes at five minute resolution and lags, so the EC2 default of ten
// minutes often finds nothing.
const DefaultWindow = 30 * time.Minute

// VolumeMetricResource reports an AWS/EBS metric for every volume attached
// to an instance.
type VolumeMetricResource struct {
	Volumes    VolumesAPI
	Metrics    *cloudwatch.Client
	InstanceID string
	MetricName string
	Statistic  string
	Period     time.Duration
	Window     time.Duration
}

func (r *VolumeMetricResource) Probe(ctx context.Context) ([]plugin.Metric, error) {
	vols, err := AttachedVolumes(ctx, r.Volumes, r.InstanceID)
	if err != nil {
		return nil, err
	}
	if len(vols) == 0 {
		return nil, fmt.Errorf("no volumes attached to %s: %w", r.InstanceID, plugin.ErrNoData)
	}

	window := r.Window
	if window <= 0 {
		window = DefaultWindow
	}
	metrics := make([]plugin.Metric, 0, len(vols))
	for _, v := range vols {
		m, err := r.Metrics.LatestMetric(ctx, cloudwatch.Query{
			Namespace:  "AWS/EBS",
			MetricName: r.MetricName,
			Dimensions: map[string]string{"VolumeId": v.ID},
			Statistic:  r.Statistic,
			Period:     r.Period,
			Window:     window,
		}, v.Label(), r.MetricName)
		if err != nil {
			return nil, fmt.Errorf("volume %s: %w", v.ID, err)
		}
		metrics = append(metrics, m)
	}
	return metrics, nil
}
