package plugin

import (
	"strconv"
	"strings"
)

// Metric is one measured value handed from a Resource to a Context.
type Metric struct {
	Name    string
	Value   float64
	Unit    string
	Min     *float64
	Max     *float64
	Context string // defaults to Name

	// NoData marks a metric whose source returned no samples.
	NoData bool
	// Text carries non-numeric values (e.g. a status indicator). Text
	// metrics produce no performance data.
	Text string
}

// ContextName is the name of the Context that evaluates m.
func (m Metric) ContextName() string {
	if m.Context != "" {
		return m.Context
	}
	return m.Name
}

func (m Metric) ValueString() string {
	switch {
	case m.NoData:
		return "no data"
	case m.Text != "":
		return m.Text
	}
	return formatFloat(m.Value) + m.Unit
}

// Perfdata renders m as 'label'=value[UOM];warn;crit;min;max with trailing
// empty fields removed.
func (m Metric) Perfdata(warn, crit *Range) string {
	if m.Text != "" {
		return ""
	}
	value := "U"
	if !m.NoData {
		value = formatFloat(m.Value) + m.Unit
	}
	fields := []string{value, warn.String(), crit.String(), optFloat(m.Min), optFloat(m.Max)}
	return quoteLabel(m.Name) + "=" + strings.TrimRight(strings.Join(fields, ";"), ";")
}

// Float64 returns a pointer to v, for Metric.Min and Metric.Max.
func Float64(v float64) *float64 { return &v }

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func quoteLabel(label string) string {
	if !strings.ContainsAny(label, " '=\"") {
		return label
	}
	return "'" + strings.ReplaceAll(label, "'", "''") + "'"
}
