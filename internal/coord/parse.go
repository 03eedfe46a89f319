// Package coord parses heterogeneous coordinate text into validated decimal
// degrees and resolves latitude/longitude columns in free-form sample tables.
package coord

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Axis selects which world-bounds check applies to a parsed value.
type Axis int

const (
	AxisLat Axis = iota
	AxisLon
)

func (a Axis) String() string {
	if a == AxisLon {
		return "lon"
	}
	return "lat"
}

// bounds returns the inclusive valid range for the axis.
func (a Axis) bounds() (float64, float64) {
	if a == AxisLon {
		return -180, 180
	}
	return -90, 90
}

// ErrUnparseable marks raw text that matches neither the decimal nor the
// degree/minute/second grammar.
var ErrUnparseable = eris.New("coord: unparseable value")

// ErrOutOfRange marks a parseable value outside world bounds on the strict
// path.
var ErrOutOfRange = eris.New("coord: value out of range")

var (
	plainRe = regexp.MustCompile(`^[+-]?\d+(?:[.,]\d+)?$`)

	// Degree/minute/second token with optional hemisphere suffix. The degree,
	// minute and second marks each accept the common ASCII and unicode
	// variants seen in field uploads.
	dmsRe = regexp.MustCompile(
		`^\s*([+-])?\s*` +
			`(\d+(?:[.,]\d+)?)` +
			`(?:\s*[°ºdD]\s*` +
			`(\d+(?:[.,]\d+)?)?` +
			`(?:\s*['′mM]\s*` +
			`(\d+(?:[.,]\d+)?)?` +
			`(?:\s*(?:"|″|”|s|S))?` +
			`)?` +
			`)?` +
			`\s*([NnSsEeWw])?\s*$`)
)

// Loose is the manual-correction parse result: the value is returned even
// when it lies outside world bounds, with OutOfRange set so a human can
// review it instead of the input being rejected outright.
type Loose struct {
	Value      float64
	OutOfRange bool
}

// Parse converts raw coordinate text to decimal degrees on the strict path
// used for jitter input. Accepted forms: plain decimals with dot or comma
// separator (unicode minus normalized), and DMS tokens with an optional
// trailing hemisphere letter that overrides any leading sign. Values outside
// world bounds return ErrOutOfRange.
func Parse(raw string, axis Axis) (float64, error) {
	v, err := parse(raw, axis)
	if err != nil {
		return 0, err
	}
	lo, hi := axis.bounds()
	if v < lo || v > hi {
		return 0, eris.Wrapf(ErrOutOfRange, "%s %q", axis, raw)
	}
	return v, nil
}

// ParseLoose converts raw coordinate text with the same grammar as Parse but
// flags out-of-range values instead of rejecting them.
func ParseLoose(raw string, axis Axis) (Loose, error) {
	v, err := parse(raw, axis)
	if err != nil {
		return Loose{}, err
	}
	lo, hi := axis.bounds()
	return Loose{Value: v, OutOfRange: v < lo || v > hi}, nil
}

func parse(raw string, axis Axis) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, eris.Wrapf(ErrUnparseable, "%s: empty", axis)
	}
	s = strings.ReplaceAll(s, "−", "-")

	if plainRe.MatchString(s) {
		return toFloat(s)
	}

	m := dmsRe.FindStringSubmatch(s)
	if m == nil {
		return 0, eris.Wrapf(ErrUnparseable, "%s %q", axis, raw)
	}
	sign, degTok, minTok, secTok, hem := m[1], m[2], m[3], m[4], strings.ToUpper(m[5])

	deg, err := toFloat(degTok)
	if err != nil {
		return 0, eris.Wrapf(ErrUnparseable, "%s %q", axis, raw)
	}

	var abs float64
	if minTok == "" && secTok == "" && strings.ContainsAny(degTok, ".,") {
		// A bare fractional degree token with no minute/second part is
		// decimal degrees, not minutes.
		abs = absf(deg)
	} else {
		abs = absf(deg)
		if minTok != "" {
			minu, err := toFloat(minTok)
			if err != nil {
				return 0, eris.Wrapf(ErrUnparseable, "%s %q", axis, raw)
			}
			abs += minu / 60
		}
		if secTok != "" {
			sec, err := toFloat(secTok)
			if err != nil {
				return 0, eris.Wrapf(ErrUnparseable, "%s %q", axis, raw)
			}
			abs += sec / 3600
		}
	}

	switch {
	case hem == "N" || hem == "E":
		return abs, nil
	case hem == "S" || hem == "W":
		return -abs, nil
	case sign == "-":
		return -abs, nil
	default:
		return abs, nil
	}
}

func toFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, eris.Wrapf(ErrUnparseable, "%q", s)
	}
	return v, nil
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
