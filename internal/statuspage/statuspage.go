// Package statuspage checks a hosted status page such as GitHub's.
package statuspage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/CarltonSoftware/nagios-plugins/internal/plugin"
)

const GitHubURL = "https://www.githubstatus.com/api/v2/status.json"

// Status is the overall indicator published by a status page.
type Status struct {
	Indicator   string
	Description string
}

type Client struct {
	HTTP *http.Client
	URL  string
}

// legacy maps the old {"status":"good|minor|major"} format onto indicators.
var legacy = map[string]string{
	"good":  "none",
	"minor": "minor",
	"major": "major",
}

// Fetch reads the current status. Both the Statuspage v2 format and the
// legacy single-field format are understood.
func (c *Client) Fetch(ctx context.Context) (Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return Status{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Status{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return Status{}, fmt.Errorf("status page returned %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Status{}, err
	}
	if !gjson.ValidBytes(body) {
		return Status{}, fmt.Errorf("status page returned invalid JSON")
	}

	if ind := gjson.GetBytes(body, "status.indicator"); ind.Exists() {
		return Status{
			Indicator:   ind.String(),
			Description: gjson.GetBytes(body, "status.description").String(),
		}, nil
	}
	if st := gjson.GetBytes(body, "status"); st.Type == gjson.String {
		ind, ok := legacy[st.String()]
		if !ok {
			ind = st.String()
		}
		return Status{Indicator: ind}, nil
	}
	return Status{}, fmt.Errorf("status page response has no status")
}

// Resource exposes the status indicator as a text metric named "status".
type Resource struct {
	Client *Client
}

func (r *Resource) Probe(ctx context.Context) ([]plugin.Metric, error) {
	st, err := r.Client.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return []plugin.Metric{{Name: "status", Text: st.Indicator, Context: "status"}}, nil
}

// Context maps indicators to states. Service names the page owner in
// messages.
type Context struct {
	Service string
}

func (c Context) Name() string { return "status" }

func (c Context) Evaluate(m plugin.Metric) plugin.Result {
	switch strings.ToLower(m.Text) {
	case "none", "good":
		return plugin.Result{State: plugin.OK, Hint: c.Service + " is running OK", Metric: m}
	case "minor", "maintenance":
		return plugin.Result{State: plugin.Warning, Hint: c.Service + " are reporting minor problems", Metric: m}
	case "major", "critical":
		return plugin.Result{State: plugin.Critical, Hint: c.Service + " are reporting major problems", Metric: m}
	}
	return plugin.Result{State: plugin.Unknown, Hint: fmt.Sprintf("%s status %q not recognised", c.Service, m.Text), Metric: m}
}

func (c Context) Perfdata(plugin.Metric) string { return "" }
