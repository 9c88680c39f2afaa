package plugin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrNoData is returned by a Resource that found nothing to report.
var ErrNoData = errors.New("no data")

// Resource acquires the metrics a check evaluates.
type Resource interface {
	Probe(ctx context.Context) ([]Metric, error)
}

// ResourceFunc adapts a function to Resource.
type ResourceFunc func(ctx context.Context) ([]Metric, error)

func (f ResourceFunc) Probe(ctx context.Context) ([]Metric, error) { return f(ctx) }

// Check binds a Resource to the Contexts that evaluate its metrics.
type Check struct {
	Name     string
	Resource Resource
	Contexts map[string]Context
	Summary  Summary
	Logger   *zap.Logger
}

func NewCheck(name string, r Resource, contexts ...Context) *Check {
	c := &Check{
		Name:     name,
		Resource: r,
		Contexts: make(map[string]Context, len(contexts)),
		Summary:  DefaultSummary{},
		Logger:   zap.NewNop(),
	}
	for _, ctx := range contexts {
		c.Contexts[ctx.Name()] = ctx
	}
	return c
}

// Outcome is the evaluated result of one check run.
type Outcome struct {
	Name     string
	State    State
	Summary  string
	Perfdata []string
	Results  []Result
}

// Code is the process exit code for o.
func (o Outcome) Code() int { return int(o.State) }

// String renders the status line: "NAME STATE - summary | perfdata".
func (o Outcome) String() string {
	var b strings.Builder
	if o.Name != "" {
		b.WriteString(strings.ToUpper(o.Name))
		b.WriteByte(' ')
	}
	b.WriteString(o.State.String())
	if o.Summary != "" {
		b.WriteString(" - ")
		b.WriteString(o.Summary)
	}
	if len(o.Perfdata) > 0 {
		b.WriteString(" | ")
		b.WriteString(strings.Join(o.Perfdata, " "))
	}
	return b.String()
}

// UnknownOutcome reports err as an UNKNOWN result of check name.
func UnknownOutcome(name string, err error) Outcome {
	return Outcome{Name: name, State: Unknown, Summary: err.Error()}
}

// Run probes the resource and evaluates every metric. Errors and panics
// from the resource become UNKNOWN.
func (c *Check) Run(ctx context.Context) (out Outcome) {
	log := c.Logger
	if log == nil {
		log = zap.NewNop()
	}
	defer func() {
		if p := recover(); p != nil {
			out = UnknownOutcome(c.Name, fmt.Errorf("panic: %v", p))
			log.Error("check_panic", zap.String("check", c.Name), zap.Any("panic", p))
		}
	}()

	metrics, err := c.Resource.Probe(ctx)
	if err == nil && len(metrics) == 0 {
		err = ErrNoData
	}
	if err != nil {
		log.Warn("check_probe_error", zap.String("check", c.Name), zap.Error(err))
		return UnknownOutcome(c.Name, err)
	}

	out = c.evaluate(metrics)
	log.Info("check_finished",
		zap.String("check", c.Name),
		zap.String("state", out.State.String()),
		zap.String("summary", out.Summary),
		zap.Int("metrics", len(metrics)),
	)
	return out
}

func (c *Check) evaluate(metrics []Metric) Outcome {
	out := Outcome{Name: c.Name, State: OK}
	for _, m := range metrics {
		cx, ok := c.Contexts[m.ContextName()]
		if !ok {
			return UnknownOutcome(c.Name, fmt.Errorf("no context %q for metric %q", m.ContextName(), m.Name))
		}
		r := cx.Evaluate(m)
		out.Results = append(out.Results, r)
		out.State = Worst(out.State, r.State)
		if p := cx.Perfdata(m); p != "" {
			out.Perfdata = append(out.Perfdata, p)
		}
	}

	summary := c.Summary
	if summary == nil {
		summary = DefaultSummary{}
	}
	if out.State == OK {
		out.Summary = summary.OK(out.Results)
	} else {
		out.Summary = summary.Problem(out.Results)
	}
	return out
}
