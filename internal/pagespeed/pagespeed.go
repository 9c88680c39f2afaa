// Package pagespeed checks a page with the PageSpeed Insights API.
package pagespeed

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/CarltonSoftware/nagios-plugins/internal/plugin"
)

const DefaultEndpoint = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

// Report is the part of a Lighthouse run the check reports on.
type Report struct {
	Score float64
	Stats Stats
}

// Stats summarises requests by resource type.
type Stats struct {
	NumberResources         int64
	TotalRequestBytes       int64
	NumberStaticResources   int64
	HTMLResponseBytes       int64
	CSSResponseBytes        int64
	ImageResponseBytes      int64
	JavascriptResponseBytes int64
	OtherResponseBytes      int64
	NumberJsResources       int64
	NumberCSSResources      int64
}

type Client struct {
	HTTP     *http.Client
	Endpoint string
	APIKey   string
}

// ValidStrategy reports whether s is a strategy the API accepts.
func ValidStrategy(s string) bool {
	return s == "desktop" || s == "mobile"
}

// Run analyses pageURL with the given strategy.
func (c *Client) Run(ctx context.Context, pageURL, strategy string) (Report, error) {
	if !ValidStrategy(strategy) {
		return Report{}, fmt.Errorf("strategy must be desktop or mobile, got %q", strategy)
	}
	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	q := url.Values{}
	q.Set("url", pageURL)
	q.Set("strategy", strategy)
	q.Set("category", "performance")
	if c.APIKey != "" {
		q.Set("key", c.APIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return Report{}, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Report{}, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Report{}, err
	}
	if resp.StatusCode/100 != 2 {
		if msg := gjson.GetBytes(body, "error.message"); msg.Exists() {
			return Report{}, fmt.Errorf("pagespeed: %s", msg.String())
		}
		return Report{}, fmt.Errorf("pagespeed returned %s", resp.Status)
	}
	return parseReport(body)
}

func parseReport(body []byte) (Report, error) {
	lh := gjson.GetBytes(body, "lighthouseResult")
	if !lh.Exists() {
		return Report{}, fmt.Errorf("pagespeed response has no lighthouseResult")
	}
	score := lh.Get("categories.performance.score")
	if !score.Exists() || score.Type != gjson.Number {
		return Report{}, fmt.Errorf("pagespeed response has no performance score")
	}

	items := lh.Get("audits.resource-summary.details.items")
	count := func(kind string) int64 {
		return items.Get(`#(resourceType=="` + kind + `").requestCount`).Int()
	}
	size := func(kind string) int64 {
		return items.Get(`#(resourceType=="` + kind + `").transferSize`).Int()
	}

	return Report{
		Score: math.Round(score.Float() * 100),
		Stats: Stats{
			NumberResources:         count("total"),
			TotalRequestBytes:       size("total"),
			NumberStaticResources:   count("script") + count("stylesheet") + count("image") + count("font"),
			HTMLResponseBytes:       size("document"),
			CSSResponseBytes:        size("stylesheet"),
			ImageResponseBytes:      size("image"),
			JavascriptResponseBytes: size("script"),
			OtherResponseBytes:      size("other"),
			NumberJsResources:       count("script"),
			NumberCSSResources:      count("stylesheet"),
		},
	}, nil
}

// ScoreContext is the context that thresholds the performance score.
// StatsContext carries the resource statistics without alerting.
const (
	ScoreContext = "score"
	StatsContext = "default"
)

// Resource reports the score and the resource statistics of one page.
type Resource struct {
	Client   *Client
	URL      string
	Strategy string
}

func (r *Resource) Probe(ctx context.Context) ([]plugin.Metric, error) {
	rep, err := r.Client.Run(ctx, r.URL, r.Strategy)
	if err != nil {
		return nil, err
	}
	zero := plugin.Float64(0)
	stat := func(name string, v int64) plugin.Metric {
		return plugin.Metric{Name: name, Value: float64(v), Min: zero, Context: StatsContext}
	}
	s := rep.Stats
	return []plugin.Metric{
		{Name: "score", Value: rep.Score, Min: zero, Max: plugin.Float64(100), Context: ScoreContext},
		stat("numberResources", s.NumberResources),
		stat("totalRequestBytes", s.TotalRequestBytes),
		stat("numberStaticResources", s.NumberStaticResources),
		stat("htmlResponseBytes", s.HTMLResponseBytes),
		stat("cssResponseBytes", s.CSSResponseBytes),
		stat("imageResponseBytes", s.ImageResponseBytes),
		stat("javascriptResponseBytes", s.JavascriptResponseBytes),
		stat("otherResponseBytes", s.OtherResponseBytes),
		stat("numberJsResources", s.NumberJsResources),
		stat("numberCssResources", s.NumberCSSResources),
	}, nil
}
