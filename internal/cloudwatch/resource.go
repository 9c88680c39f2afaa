package cloudwatch

import (
	"context"

	"github.com/CarltonSoftware/nagios-plugins/internal/plugin"
)

// LatestMetric queries q and returns its newest sample as a plugin metric
// labelled name and evaluated by contextName. An empty window yields a
// NoData metric rather than an error.
func (c *Client) LatestMetric(ctx context.Context, q Query, name, contextName string) (plugin.Metric, error) {
	m := plugin.Metric{Name: name, Context: contextName}
	s, ok, err := c.Latest(ctx, q)
	if err != nil {
		return m, err
	}
	if !ok {
		m.NoData = true
		return m, nil
	}
	m.Value = s.Value
	m.Unit = PerfUnit(s.Unit)
	return m, nil
}

// MetricResource reports the newest value of a single metric.
type MetricResource struct {
	Client *Client
	Query  Query
}

func (r *MetricResource) Probe(ctx context.Context) ([]plugin.Metric, error) {
	m, err := r.Client.LatestMetric(ctx, r.Query, r.Query.MetricName, r.Query.MetricName)
	if err != nil {
		return nil, err
	}
	return []plugin.Metric{m}, nil
}
