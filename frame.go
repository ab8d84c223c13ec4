package daynight

import (
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/unit"

	"github.com/thurmanmarka/daynight/internal/angle"
	"github.com/thurmanmarka/daynight/internal/moon"
	"github.com/thurmanmarka/daynight/internal/sky"
	"github.com/thurmanmarka/daynight/internal/sun"
	"github.com/thurmanmarka/daynight/internal/timeutil"
)

// Band is the illumination of a place, from the Sun's altitude there.
type Band int

const (
	Night Band = iota
	AstronomicalTwilight
	NauticalTwilight
	CivilTwilight
	Day
)

var bandNames = [...]string{"night", "astronomical twilight", "nautical twilight", "civil twilight", "day"}

func (b Band) String() string {
	if b < Night || b > Day {
		return fmt.Sprintf("Band(%d)", int(b))
	}
	return bandNames[b]
}

// BandFor classifies a Sun altitude in degrees: day above 0°, then civil,
// nautical and astronomical twilight down to -6°, -12° and -18°.
func BandFor(altDeg float64) Band {
	switch {
	case altDeg > 0:
		return Day
	case altDeg > -6:
		return CivilTwilight
	case altDeg > -12:
		return NauticalTwilight
	case altDeg > -18:
		return AstronomicalTwilight
	}
	return Night
}

// Frame is everything a day/night map needs for one instant.
type Frame struct {
	Time           time.Time
	Moment         JulianMoment
	GST            unit.Angle // Greenwich mean sidereal time, [0, 2π)
	Sun            Equatorial
	Moon           Equatorial
	MoonDistanceKm float64
	SunPoint       GeoPoint // sub-solar point
	MoonPoint      GeoPoint // sub-lunar point
}

// FrameAt computes the Frame for t. Nothing is cached; call it per frame.
func FrameAt(t time.Time) Frame {
	m := timeutil.ToJulianMoment(t)
	gst := timeutil.SiderealTime(0, m)
	sEq := sun.Equatorial(m.JT)
	mEq, dist := moon.Equatorial(m.JT)
	return Frame{
		Time:           t,
		Moment:         m,
		GST:            gst,
		Sun:            sEq,
		Moon:           mEq,
		MoonDistanceKm: dist,
		SunPoint:       sky.SubPoint(sEq, gst),
		MoonPoint:      sky.SubPoint(mEq, gst),
	}
}

// SunAltitude returns the Sun's geometric altitude in degrees at p.
func (f Frame) SunAltitude(p GeoPoint) float64 {
	return sky.Altitude(f.Sun, f.GST, p)
}

// MoonAltitude returns the Moon's geocentric altitude in degrees at p.
func (f Frame) MoonAltitude(p GeoPoint) float64 {
	return sky.Altitude(f.Moon, f.GST, p)
}

// Illumination returns the band p is in.
func (f Frame) Illumination(p GeoPoint) Band {
	return BandFor(f.SunAltitude(p))
}

// Terminator returns, for longitudes from -180° in steps of lonStepDeg, the
// latitude where the Sun is on the horizon. A non-positive step means 1°.
func (f Frame) Terminator(lonStepDeg float64) []GeoPoint {
	if lonStepDeg <= 0 {
		lonStepDeg = 1
	}
	sδ, cδ := f.Sun.Dec.Sincos()
	if math.Abs(sδ) < 1e-12 {
		// Equinox: the terminator is the pair of meridians at H = ±90°.
		sδ = math.Copysign(1e-12, sδ)
	}

	n := int(math.Ceil(360 / lonStepDeg))
	pts := make([]GeoPoint, 0, n)
	for i := 0; i < n; i++ {
		lon := -180 + float64(i)*lonStepDeg
		h := sky.HourAngle(f.Sun, f.GST, unit.AngleFromDeg(lon))
		// sinδ sinφ + cosδ cosφ cosH = 0
		φ := math.Atan(-cδ * h.Cos() / sδ)
		pts = append(pts, sky.NewGeoPoint(angle.Rad2Deg(φ), lon))
	}
	return pts
}

// GroundTrack returns the sub-points of body at t+k·step for every k with
// |k·step| <= span, recomputing the body's position at each sample.
func GroundTrack(body Body, t time.Time, span, step time.Duration) ([]GeoPoint, error) {
	if step <= 0 {
		return nil, fmt.Errorf("ground track step must be positive, got %v", step)
	}
	if span < 0 {
		span = -span
	}
	k := int(span / step)
	centre := timeutil.ToJulianMoment(t)
	stepDays := step.Hours() / 24
	pts := make([]GeoPoint, 0, 2*k+1)
	for i := -k; i <= k; i++ {
		m := centre.AddDays(float64(i) * stepDays)
		eq, err := ComputeEquatorial(body, m.JT)
		if err != nil {
			return nil, err
		}
		pts = append(pts, sky.SubPoint(eq, timeutil.SiderealTime(0, m)))
	}
	return pts, nil
}
