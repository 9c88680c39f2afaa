package plugin

import "strings"

// Summary renders the text part of the status line.
type Summary interface {
	OK(results []Result) string
	Problem(results []Result) string
}

// DefaultSummary reports the first result when everything is fine and the
// hints of the worst results otherwise.
type DefaultSummary struct{}

func (DefaultSummary) OK(results []Result) string {
	if len(results) == 0 {
		return ""
	}
	return results[0].String()
}

func (DefaultSummary) Problem(results []Result) string {
	worst := OK
	for _, r := range results {
		worst = Worst(worst, r.State)
	}
	var parts []string
	for _, r := range results {
		if r.State == worst {
			parts = append(parts, r.String())
		}
	}
	return strings.Join(parts, ", ")
}

// FixedOK uses a fixed sentence when all results are OK.
type FixedOK string

func (s FixedOK) OK([]Result) string { return string(s) }

func (FixedOK) Problem(results []Result) string { return DefaultSummary{}.Problem(results) }
