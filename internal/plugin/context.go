package plugin

import "fmt"

// Result is the evaluation of one Metric.
type Result struct {
	State  State
	Hint   string
	Metric Metric
}

func (r Result) String() string {
	if r.Hint != "" {
		return r.Hint
	}
	return r.Metric.Name + " is " + r.Metric.ValueString()
}

// Context turns a Metric into a Result and renders its performance data.
type Context interface {
	Name() string
	Evaluate(m Metric) Result
	Perfdata(m Metric) string
}

// ScalarContext checks a numeric metric against warning and critical ranges.
type ScalarContext struct {
	name     string
	warning  *Range
	critical *Range
}

func NewScalarContext(name, warning, critical string) (*ScalarContext, error) {
	w, err := ParseRange(warning)
	if err != nil {
		return nil, fmt.Errorf("warning: %w", err)
	}
	c, err := ParseRange(critical)
	if err != nil {
		return nil, fmt.Errorf("critical: %w", err)
	}
	return &ScalarContext{name: name, warning: w, critical: c}, nil
}

func (c *ScalarContext) Name() string { return c.name }

func (c *ScalarContext) Evaluate(m Metric) Result {
	if m.NoData {
		return Result{State: Unknown, Hint: m.Name + ": no data", Metric: m}
	}
	if !c.critical.Match(m.Value) {
		return Result{State: Critical, Hint: fmt.Sprintf("%s is %s (%s)", m.Name, m.ValueString(), c.critical.Violation()), Metric: m}
	}
	if !c.warning.Match(m.Value) {
		return Result{State: Warning, Hint: fmt.Sprintf("%s is %s (%s)", m.Name, m.ValueString(), c.warning.Violation()), Metric: m}
	}
	return Result{State: OK, Metric: m}
}

func (c *ScalarContext) Perfdata(m Metric) string {
	return m.Perfdata(c.warning, c.critical)
}

// NewNullContext returns a context that never alerts. It still emits
// performance data.
func NewNullContext(name string) Context {
	return &ScalarContext{name: name}
}
