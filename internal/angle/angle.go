// Package angle holds the unit conversions and normalisations shared by the
// ephemeris packages.
//
// Values that cross package boundaries are typed with soniakeys/unit so the
// radian/degree distinction travels with the value: unit.Angle and unit.RA are
// radians, and callers ask for degrees explicitly with Deg().
package angle

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	sexa "github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"
)

// ErrSyntax is returned by ParseDegrees for input it cannot read.
var ErrSyntax = errors.New("angle: invalid syntax")

// Rad2Deg converts radians to degrees.
func Rad2Deg(r float64) float64 {
	return r * 180.0 / math.Pi
}

// pmod is unit.PMod with the result forced strictly below y. For tiny
// negative x, x+y rounds to y itself.
func pmod(x, y float64) float64 {
	r := unit.PMod(x, y)
	if r >= y {
		r = 0
	}
	return r
}

// Normalize360 reduces d degrees into [0, 360).
func Normalize360(d float64) float64 {
	return pmod(d, 360.0)
}

// Normalize180 reduces d degrees into [-180, 180).
func Normalize180(d float64) float64 {
	return pmod(d+180.0, 360.0) - 180.0
}

// Limit maps a into [0, 2π).
func Limit(a unit.Angle) unit.Angle {
	return unit.Angle(pmod(a.Rad(), 2*math.Pi))
}

// Signed maps a into [-π, π).
func Signed(a unit.Angle) unit.Angle {
	return unit.Angle(pmod(a.Rad()+math.Pi, 2*math.Pi) - math.Pi)
}

// Asin is math.Asin with x clamped to [-1, 1]. Rounding at the poles and at
// zenith/nadir can push the argument a few ulps outside the domain.
func Asin(x float64) float64 {
	return math.Asin(clamp1(x))
}

// Acos is math.Acos with x clamped to [-1, 1].
func Acos(x float64) float64 {
	return math.Acos(clamp1(x))
}

func clamp1(x float64) float64 {
	switch {
	case x > 1:
		return 1
	case x < -1:
		return -1
	}
	return x
}

// Sexagesimal is an angle or time split into whole units, minutes and
// seconds. Whole, Min and Sec are never negative; Neg carries the sign.
type Sexagesimal struct {
	Neg   bool
	Whole int
	Min   int
	Sec   float64
}

// Split decomposes v (degrees or hours) into sexagesimal parts.
func Split(v float64) Sexagesimal {
	s := Sexagesimal{Neg: v < 0}
	v = math.Abs(v)
	s.Whole = int(v)
	rem := (v - float64(s.Whole)) * 60
	s.Min = int(rem)
	s.Sec = (rem - float64(s.Min)) * 60
	return s
}

// Value recombines the parts into decimal units.
func (s Sexagesimal) Value() float64 {
	return unit.FromSexa(s.sign(), s.Whole, s.Min, s.Sec)
}

func (s Sexagesimal) sign() byte {
	if s.Neg {
		return '-'
	}
	return '+'
}

// ParseDegrees reads decimal degrees ("-112.074") or sexagesimal degrees with
// ':' or whitespace separators ("33:26:54.2", "-112 4 26"). A trailing N, S,
// E or W hemisphere letter is accepted; S and W negate.
func ParseDegrees(s string) (float64, error) {
	str := strings.TrimSpace(s)
	if str == "" {
		return 0, fmt.Errorf("%w: empty angle", ErrSyntax)
	}
	neg := false
	switch str[len(str)-1] {
	case 'S', 's', 'W', 'w':
		neg = true
		str = strings.TrimSpace(str[:len(str)-1])
	case 'N', 'n', 'E', 'e':
		str = strings.TrimSpace(str[:len(str)-1])
	}
	if strings.HasPrefix(str, "-") {
		neg = !neg
		str = str[1:]
	} else {
		str = strings.TrimPrefix(str, "+")
	}

	fields := strings.FieldsFunc(str, func(r rune) bool {
		return r == ':' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 || len(fields) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	if len(fields) == 1 {
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("%w: %q", ErrSyntax, s)
		}
		if neg {
			v = -v
		}
		return v, nil
	}

	var sx Sexagesimal
	sx.Neg = neg
	parts := []*int{&sx.Whole, &sx.Min}
	for i, f := range fields {
		if i < 2 {
			n, err := strconv.Atoi(f)
			if err != nil || n < 0 {
				return 0, fmt.Errorf("%w: %q", ErrSyntax, s)
			}
			*parts[i] = n
			continue
		}
		sec, err := strconv.ParseFloat(f, 64)
		if err != nil || sec < 0 {
			return 0, fmt.Errorf("%w: %q", ErrSyntax, s)
		}
		sx.Sec = sec
	}
	if sx.Min >= 60 || sx.Sec >= 60 {
		return 0, fmt.Errorf("%w: %q: minutes and seconds must be below 60", ErrSyntax, s)
	}
	return sx.Value(), nil
}

// FormatAngle renders a in degrees, arcminutes and arcseconds with prec
// decimal places on the seconds.
func FormatAngle(a unit.Angle, prec int) string {
	return fmt.Sprintf("%.*s", prec, sexa.FmtAngle(a))
}

// FormatRA renders ra in hours, minutes and seconds.
func FormatRA(ra unit.RA, prec int) string {
	return fmt.Sprintf("%.*s", prec, sexa.FmtRA(ra))
}

// FormatHourAngle renders a signed hour angle in hours, minutes and seconds.
func FormatHourAngle(h unit.HourAngle, prec int) string {
	return fmt.Sprintf("%.*s", prec, sexa.FmtHourAngle(h))
}

// FormatLat renders latitude degrees as d:mm:ss.sN or S, a form ParseDegrees
// reads back.
func FormatLat(deg float64) string {
	return formatHemisphere(deg, 'N', 'S')
}

// FormatLon renders longitude degrees as d:mm:ss.sE or W.
func FormatLon(deg float64) string {
	return formatHemisphere(deg, 'E', 'W')
}

func formatHemisphere(deg float64, pos, neg byte) string {
	s := Split(deg)
	// Round to a tenth of a second before carrying, or 59.96 prints as 60.0.
	s.Sec = math.Round(s.Sec*10) / 10
	if s.Sec >= 60 {
		s.Sec -= 60
		s.Min++
	}
	if s.Min >= 60 {
		s.Min -= 60
		s.Whole++
	}
	h := pos
	if s.Neg && (s.Whole != 0 || s.Min != 0 || s.Sec != 0) {
		h = neg
	}
	return fmt.Sprintf("%d:%02d:%04.1f%c", s.Whole, s.Min, s.Sec, h)
}
