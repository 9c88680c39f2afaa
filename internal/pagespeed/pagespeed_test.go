package pagespeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CarltonSoftware/nagios-plugins/internal/plugin"
)

const lighthouse = `{
  "id": "https://example.com/",
  "lighthouseResult": {
    "categories": {"performance": {"score": 0.734}},
    "audits": {
      "resource-summary": {
        "details": {
          "items": [
            {"resourceType": "total", "requestCount": 42, "transferSize": 1048576},
            {"resourceType": "script", "requestCount": 12, "transferSize": 400000},
            {"resourceType": "stylesheet", "requestCount": 3, "transferSize": 50000},
            {"resourceType": "image", "requestCount": 20, "transferSize": 500000},
            {"resourceType": "font", "requestCount": 2, "transferSize": 40000},
            {"resourceType": "document", "requestCount": 1, "transferSize": 30000},
            {"resourceType": "other", "requestCount": 4, "transferSize": 28576}
          ]
        }
      }
    }
  }
}`

func newServer(t *testing.T, code int, body string, gotQuery *string) *Client {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotQuery != nil {
			*gotQuery = r.URL.RawQuery
		}
		w.WriteHeader(code)
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return &Client{HTTP: ts.Client(), Endpoint: ts.URL, APIKey: "k"}
}

func TestRun_ParsesReport(t *testing.T) {
	var q string
	c := newServer(t, 200, lighthouse, &q)
	rep, err := c.Run(context.Background(), "https://example.com/", "mobile")
	require.NoError(t, err)

	assert.Equal(t, 73.0, rep.Score)
	assert.Equal(t, int64(42), rep.Stats.NumberResources)
	assert.Equal(t, int64(1048576), rep.Stats.TotalRequestBytes)
	assert.Equal(t, int64(37), rep.Stats.NumberStaticResources)
	assert.Equal(t, int64(400000), rep.Stats.JavascriptResponseBytes)
	assert.Equal(t, int64(3), rep.Stats.NumberCSSResources)
	assert.Contains(t, q, "strategy=mobile")
	assert.Contains(t, q, "key=k")
	assert.Contains(t, q, "url=https%3A%2F%2Fexample.com%2F")
}

func TestRun_RejectsStrategy(t *testing.T) {
	_, err := (&Client{HTTP: http.DefaultClient}).Run(context.Background(), "https://example.com", "tablet")
	assert.Error(t, err)
}

func TestRun_APIError(t *testing.T) {
	c := newServer(t, 400, `{"error":{"code":400,"message":"API key not valid"}}`, nil)
	_, err := c.Run(context.Background(), "https://example.com", "desktop")
	assert.EqualError(t, err, "pagespeed: API key not valid")
}

func TestResource_ThroughCheck(t *testing.T) {
	c := newServer(t, 200, lighthouse, nil)
	score, err := plugin.NewScalarContext(ScoreContext, "80:", "50:")
	require.NoError(t, err)
	chk := plugin.NewCheck("pagespeed",
		&Resource{Client: c, URL: "https://example.com/", Strategy: "desktop"},
		score, plugin.NewNullContext(StatsContext))

	out := chk.Run(context.Background())
	assert.Equal(t, plugin.Warning, out.State)
	assert.Equal(t, "score is 73 (outside range 80:)", out.Summary)
	require.Len(t, out.Perfdata, 11)
	assert.Equal(t, "score=73;80:;50:;0;100", out.Perfdata[0])
	assert.Equal(t, "numberResources=42;;;0", out.Perfdata[1])
}
