package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"

	"github.com/CarltonSoftware/nagios-plugins/internal/checks"
	"github.com/CarltonSoftware/nagios-plugins/internal/plugin"
)

func testPlugin(value *float64, gotTh *checks.Thresholds) Plugin {
	var metric string
	return Plugin{
		Name:       "check_test",
		CheckName:  "test",
		Thresholds: true,
		Flags: func(fs *pflag.FlagSet) {
			fs.StringVarP(&metric, "metric", "m", "load", "metric name")
		},
		Build: func(_ context.Context, env *Env, th checks.Thresholds) (*plugin.Check, error) {
			if gotTh != nil {
				*gotTh = th
			}
			if value == nil {
				return nil, errors.New("nothing to measure")
			}
			sc, err := plugin.NewScalarContext(metric, th.Warning, th.Critical)
			if err != nil {
				return nil, err
			}
			res := plugin.ResourceFunc(func(context.Context) ([]plugin.Metric, error) {
				return []plugin.Metric{{Name: metric, Value: *value}}, nil
			})
			return plugin.NewCheck("built", res, sc), nil
		},
	}
}

func TestExecute_ExitCodes(t *testing.T) {
	t.Setenv("LOG_DIR", t.TempDir())
	v := 85.0
	var th checks.Thresholds
	var out bytes.Buffer

	code := Execute(testPlugin(&v, &th), []string{"-w", "80", "-c", "90", "-m", "cpu"}, &out)
	assert.Equal(t, 1, code)
	assert.Equal(t, checks.Thresholds{Warning: "80", Critical: "90"}, th)
	assert.Equal(t, "TEST WARNING - cpu is 85 (outside range 80) | cpu=85;80;90\n", out.String())

	out.Reset()
	v = 10
	assert.Equal(t, 0, Execute(testPlugin(&v, nil), []string{"--warning=80"}, &out))
	assert.True(t, strings.HasPrefix(out.String(), "TEST OK"))
}

func TestExecute_BuildErrorIsUnknown(t *testing.T) {
	t.Setenv("LOG_DIR", t.TempDir())
	var out bytes.Buffer
	code := Execute(testPlugin(nil, nil), nil, &out)
	assert.Equal(t, 3, code)
	assert.Equal(t, "TEST UNKNOWN - nothing to measure\n", out.String())
}

func TestExecute_BadFlagIsUnknown(t *testing.T) {
	t.Setenv("LOG_DIR", t.TempDir())
	var out bytes.Buffer
	v := 1.0
	code := Execute(testPlugin(&v, nil), []string{"--no-such-flag"}, &out)
	assert.Equal(t, 3, code)
	assert.True(t, strings.HasPrefix(out.String(), "TEST UNKNOWN - "), out.String())
}

func TestExecute_NameDefaultsToBinary(t *testing.T) {
	t.Setenv("LOG_DIR", t.TempDir())
	v := 1.0
	p := testPlugin(&v, nil)
	p.CheckName = ""

	var out bytes.Buffer
	assert.Equal(t, 0, Execute(p, nil, &out))
	assert.True(t, strings.HasPrefix(out.String(), "CHECK_TEST OK"), out.String())

	out.Reset()
	assert.Equal(t, 3, Execute(p, []string{"--bogus"}, &out))
	assert.True(t, strings.HasPrefix(out.String(), "CHECK_TEST UNKNOWN - "), out.String())
}

func TestExecute_BadRangeIsUnknown(t *testing.T) {
	t.Setenv("LOG_DIR", t.TempDir())
	var out bytes.Buffer
	v := 1.0
	code := Execute(testPlugin(&v, nil), []string{"-c", "9:1"}, &out)
	assert.Equal(t, 3, code)
	assert.Contains(t, out.String(), "critical: range")
}
