package plugin

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Range is a threshold in the usual monitoring-plugin range syntax:
//
//	10      0 <= v <= 10
//	10:     v >= 10
//	~:10    v <= 10
//	10:20   10 <= v <= 20
//	@10:20  alert when 10 <= v <= 20
type Range struct {
	Start  float64
	End    float64
	Invert bool
	raw    string
}

// ParseRange parses s. An empty string means "no threshold" and yields nil.
func ParseRange(s string) (*Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	r := &Range{raw: s, End: math.Inf(1)}
	body := s
	if strings.HasPrefix(body, "@") {
		r.Invert = true
		body = body[1:]
	}

	start, end, hasColon := strings.Cut(body, ":")
	if !hasColon {
		start, end = "", body
	}

	switch start {
	case "":
		r.Start = 0
	case "~":
		r.Start = math.Inf(-1)
	default:
		v, err := strconv.ParseFloat(start, 64)
		if err != nil || math.IsNaN(v) {
			return nil, fmt.Errorf("range %q: invalid start %q", s, start)
		}
		r.Start = v
	}

	if end != "" {
		v, err := strconv.ParseFloat(end, 64)
		if err != nil || math.IsNaN(v) {
			return nil, fmt.Errorf("range %q: invalid end %q", s, end)
		}
		r.End = v
	} else if !hasColon {
		return nil, fmt.Errorf("range %q: missing end", s)
	}

	if r.Start > r.End {
		return nil, fmt.Errorf("range %q: start %v is greater than end %v", s, r.Start, r.End)
	}
	return r, nil
}

// Match reports whether v is acceptable under r. A nil range accepts anything.
func (r *Range) Match(v float64) bool {
	if r == nil {
		return true
	}
	inside := v >= r.Start && v <= r.End
	if r.Invert {
		return !inside
	}
	return inside
}

// Violation describes why v does not match r.
func (r *Range) Violation() string {
	if r.Invert {
		return "inside range " + r.raw
	}
	return "outside range " + r.raw
}

func (r *Range) String() string {
	if r == nil {
		return ""
	}
	return r.raw
}
