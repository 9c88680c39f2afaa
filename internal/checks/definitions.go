package checks

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/CarltonSoftware/nagios-plugins/internal/plugin"
)

const (
	KindCloudWatch  = "cloudwatch"
	KindTargetGroup = "targetgroup"
	KindEBS         = "ebs"
	KindStatusPage  = "statuspage"
	KindPageSpeed   = "pagespeed"
)

// Definition is one named check in a definitions file.
type Definition struct {
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"`
	Warning  string `yaml:"warning"`
	Critical string `yaml:"critical"`

	Namespace        string            `yaml:"namespace"`
	Metric           string            `yaml:"metric"`
	Dimensions       map[string]string `yaml:"dimensions"`
	Statistic        string            `yaml:"statistic"`
	Period           time.Duration     `yaml:"period"`
	Window           time.Duration     `yaml:"window"`
	TargetGroupARN   string            `yaml:"target_group_arn"`
	AutoScalingGroup string            `yaml:"auto_scaling_group"`
	InstanceID       string            `yaml:"instance_id"`
	URL              string            `yaml:"url"`
	Service          string            `yaml:"service"`
	Strategy         string            `yaml:"strategy"`
}

type file struct {
	Checks []Definition `yaml:"checks"`
}

// Load reads and validates a definitions file.
func Load(path string) ([]Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

func Parse(raw []byte) ([]Definition, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse checks: %w", err)
	}
	seen := make(map[string]bool, len(f.Checks))
	for i, d := range f.Checks {
		if d.Name == "" {
			return nil, fmt.Errorf("checks[%d]: name is required", i)
		}
		if seen[d.Name] {
			return nil, fmt.Errorf("checks[%d]: duplicate name %q", i, d.Name)
		}
		seen[d.Name] = true
		switch d.Kind {
		case KindCloudWatch, KindTargetGroup, KindEBS, KindStatusPage, KindPageSpeed:
		default:
			return nil, fmt.Errorf("check %q: unknown kind %q", d.Name, d.Kind)
		}
	}
	return f.Checks, nil
}

func (d Definition) thresholds() Thresholds {
	return Thresholds{Warning: d.Warning, Critical: d.Critical}
}

// Build creates the check described by d, named after it.
func (d Definition) Build(deps Deps) (*plugin.Check, error) {
	var (
		c   *plugin.Check
		err error
	)
	switch d.Kind {
	case KindCloudWatch:
		c, err = NewCloudWatch(deps, CloudWatchParams{
			Namespace:  d.Namespace,
			Metric:     d.Metric,
			Dimensions: d.Dimensions,
			Statistic:  d.Statistic,
			Period:     d.Period,
			Window:     d.Window,
		}, d.thresholds())
	case KindTargetGroup:
		c, err = NewTargetGroup(deps, TargetGroupParams{
			TargetGroupARN:   d.TargetGroupARN,
			AutoScalingGroup: d.AutoScalingGroup,
			Metric:           d.Metric,
			Statistic:        d.Statistic,
			Period:           d.Period,
			Window:           d.Window,
		}, d.thresholds())
	case KindEBS:
		c, err = NewEBS(deps, EBSParams{
			InstanceID: d.InstanceID,
			Metric:     d.Metric,
			Statistic:  d.Statistic,
			Period:     d.Period,
			Window:     d.Window,
		}, d.thresholds())
	case KindStatusPage:
		c, err = NewStatusPage(deps, StatusPageParams{URL: d.URL, Service: d.Service})
	case KindPageSpeed:
		c, err = NewPageSpeed(deps, PageSpeedParams{URL: d.URL, Strategy: d.Strategy}, d.thresholds())
	default:
		err = fmt.Errorf("unknown kind %q", d.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("check %q: %w", d.Name, err)
	}
	c.Name = d.Name
	return c, nil
}

// Registry holds definitions by name.
type Registry struct {
	defs  map[string]Definition
	names []string
}

func NewRegistry(defs []Definition) *Registry {
	r := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		r.defs[d.Name] = d
		r.names = append(r.names, d.Name)
	}
	return r
}

func (r *Registry) Get(name string) (Definition, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// Names lists the definitions in file order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}
