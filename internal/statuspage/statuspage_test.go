package statuspage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/CarltonSoftware/nagios-plugins/internal/plugin"
)

func serve(t *testing.T, code int, body string) *Client {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return &Client{HTTP: ts.Client(), URL: ts.URL}
}

func run(c *Client) plugin.Outcome {
	return plugin.NewCheck("github", &Resource{Client: c}, Context{Service: "GitHub"}).Run(context.Background())
}

func TestFetch_V2(t *testing.T) {
	c := serve(t, 200, `{"page":{"id":"x"},"status":{"indicator":"minor","description":"Partial outage"}}`)
	st, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if st.Indicator != "minor" || st.Description != "Partial outage" {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestFetch_Legacy(t *testing.T) {
	st, err := serve(t, 200, `{"status":"good","last_updated":"2012-12-07T18:11:55Z"}`).Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if st.Indicator != "none" {
		t.Fatalf("want none, got %q", st.Indicator)
	}
}

func TestCheck_States(t *testing.T) {
	cases := []struct {
		indicator string
		want      plugin.State
		line      string
	}{
		{"none", plugin.OK, "GITHUB OK - GitHub is running OK"},
		{"minor", plugin.Warning, "GITHUB WARNING - GitHub are reporting minor problems"},
		{"major", plugin.Critical, "GITHUB CRITICAL - GitHub are reporting major problems"},
		{"critical", plugin.Critical, "GITHUB CRITICAL - GitHub are reporting major problems"},
		{"sideways", plugin.Unknown, `GITHUB UNKNOWN - GitHub status "sideways" not recognised`},
	}
	for _, c := range cases {
		out := run(serve(t, 200, `{"status":{"indicator":"`+c.indicator+`"}}`))
		if out.State != c.want {
			t.Fatalf("%s: want %v got %v", c.indicator, c.want, out.State)
		}
		if out.String() != c.line {
			t.Fatalf("%s: want %q got %q", c.indicator, c.line, out.String())
		}
	}
}

func TestCheck_HTTPErrorIsUnknown(t *testing.T) {
	out := run(serve(t, 503, `oops`))
	if out.State != plugin.Unknown {
		t.Fatalf("want UNKNOWN, got %v", out.State)
	}
}

func TestCheck_MissingStatusIsUnknown(t *testing.T) {
	out := run(serve(t, 200, `{"page":{}}`))
	if out.State != plugin.Unknown {
		t.Fatalf("want UNKNOWN, got %v", out.State)
	}
}
