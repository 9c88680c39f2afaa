package plugin

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	cases := []struct {
		in         string
		start, end float64
		invert     bool
	}{
		{"10", 0, 10, false},
		{"10:", 10, math.Inf(1), false},
		{"~:10", math.Inf(-1), 10, false},
		{"10:20", 10, 20, false},
		{"@10:20", 10, 20, true},
		{"-5:5", -5, 5, false},
		{"0.5:1.5", 0.5, 1.5, false},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			r, err := ParseRange(c.in)
			require.NoError(t, err)
			require.NotNil(t, r)
			assert.Equal(t, c.start, r.Start)
			assert.Equal(t, c.end, r.End)
			assert.Equal(t, c.invert, r.Invert)
			assert.Equal(t, c.in, r.String())
		})
	}
}

func TestParseRange_EmptyIsNil(t *testing.T) {
	r, err := ParseRange("  ")
	require.NoError(t, err)
	assert.Nil(t, r)
	assert.True(t, r.Match(1e9))
	assert.Equal(t, "", r.String())
}

func TestParseRange_Invalid(t *testing.T) {
	for _, in := range []string{"abc", "20:10", "1:x", "@", "NaN", "nan:", "~:NaN", "@NaN:5"} {
		_, err := ParseRange(in)
		assert.Error(t, err, in)
	}
}

func TestRange_Match(t *testing.T) {
	r, _ := ParseRange("10")
	assert.True(t, r.Match(0))
	assert.True(t, r.Match(10))
	assert.False(t, r.Match(10.1))
	assert.False(t, r.Match(-1))

	inv, _ := ParseRange("@10:20")
	assert.True(t, inv.Match(9))
	assert.False(t, inv.Match(15))
	assert.Equal(t, "inside range @10:20", inv.Violation())
}
