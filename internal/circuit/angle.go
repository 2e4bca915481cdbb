package circuit

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// anglePattern matches one angle literal inside a larger expression.
const anglePattern = `-?(?:\d*\.?\d*\s*\*?\s*pi(?:\s*/\s*\d+\.?\d*)?|\d+\.?\d*(?:[eE][+\-]?\d+)?)`

// piExprRegex matches: pi, 2pi, 2*pi, pi/2, 3pi/4, 3*pi/4, -pi, -3*pi/4
var piExprRegex = regexp.MustCompile(`^(-?)(\d*\.?\d*)\s*\*?\s*pi(?:\s*/\s*(\d+\.?\d*))?$`)

// ParseAngle parses a plain number or a pi expression such as "pi/2",
// "3*pi/4" or "-pi". The bool is false when s is not an angle.
func ParseAngle(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	}

	m := piExprRegex.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return 0, false
	}

	coeff := 1.0
	if m[2] != "" {
		var err error
		if coeff, err = strconv.ParseFloat(m[2], 64); err != nil {
			return 0, false
		}
	}
	v := coeff * math.Pi
	if m[3] != "" {
		denom, err := strconv.ParseFloat(m[3], 64)
		if err != nil || denom == 0 {
			return 0, false
		}
		v /= denom
	}
	if m[1] == "-" {
		v = -v
	}
	return v, true
}

var piForms = []struct {
	value   float64
	display string
}{
	{2 * math.Pi, "2*pi"},
	{math.Pi, "pi"},
	{math.Pi / 2, "pi/2"},
	{math.Pi / 3, "pi/3"},
	{math.Pi / 4, "pi/4"},
	{math.Pi / 6, "pi/6"},
	{math.Pi / 8, "pi/8"},
	{3 * math.Pi / 4, "3*pi/4"},
	{3 * math.Pi / 2, "3*pi/2"},
	{2 * math.Pi / 3, "2*pi/3"},
}

// FormatAngle renders an angle, using pi notation for common fractions.
func FormatAngle(v float64) string {
	for _, pf := range piForms {
		if math.Abs(v-pf.value) < 1e-10 {
			return pf.display
		}
		if math.Abs(v+pf.value) < 1e-10 {
			return "-" + pf.display
		}
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
