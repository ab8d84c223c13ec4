package moon

import (
	"math"
	"time"

	"github.com/thurmanmarka/daynight/internal/angle"
	"github.com/thurmanmarka/daynight/internal/sky"
	"github.com/thurmanmarka/daynight/internal/solver"
	"github.com/thurmanmarka/daynight/internal/timeutil"
)

const (
	// horizonRefractionDeg is the standard refraction at the horizon.
	horizonRefractionDeg = 34.0 / 60.0
	// radiusRatio is the Moon's radius in Earth equatorial radii.
	radiusRatio = 0.2725076
)

// ApparentHorizonAltitude returns the topocentric altitude (degrees) of the
// Moon's centre when its upper limb touches the refracted horizon. The
// semidiameter shrinks with distance.
func ApparentHorizonAltitude(distanceKm float64) float64 {
	if distanceKm <= sky.EarthRadiusKm {
		distanceKm = MeanDistanceKm
	}
	sd := math.Asin(radiusRatio * sky.EarthRadiusKm / distanceKm)
	return -(horizonRefractionDeg + angle.Rad2Deg(sd))
}

// RiseSet holds lunar rise and set times in UTC.
type RiseSet struct {
	Rise time.Time
	Set  time.Time
}

// Altitude returns the Moon's topocentric altitude (degrees) seen from obs at
// t, relative to the distance-dependent apparent horizon. Zero means the upper
// limb is on the horizon.
func Altitude(obs sky.GeoPoint, t time.Time) float64 {
	m := timeutil.ToJulianMoment(t)
	gst := timeutil.SiderealTime(0, m)
	eq, dist := Equatorial(m.JT)
	topo := sky.Topocentric(eq, dist, gst, obs)
	return sky.Altitude(topo, gst, obs) - ApparentHorizonAltitude(dist)
}

// ScanDay samples Altitude over the local calendar day of date and refines
// every crossing of targetAlt.
func ScanDay(obs sky.GeoPoint, date time.Time, targetAlt float64, s solver.Sampling) solver.Scan {
	start, end := timeutil.LocalDay(date)
	f := func(t time.Time) float64 { return Altitude(obs, t) }
	return solver.ScanAltitude(f, start, end, targetAlt, s.Config(end.Sub(start)))
}

// RiseSetForDate computes the Moon's rise and set times for the local
// calendar date of date (its Location defines midnight) at obs.
//
// Returned Rise and Set are in UTC. okRise/okSet report whether each event
// occurs on that date; the Moon skips one of them roughly once a month.
func RiseSetForDate(obs sky.GeoPoint, date time.Time) (rs RiseSet, okRise, okSet bool) {
	start, end := timeutil.LocalDay(date)
	cfg := solver.DefaultSampling.Config(end.Sub(start))
	f := func(t time.Time) float64 { return Altitude(obs, t) }

	if r := solver.FindAltitudeEvent(f, start, end, 0, solver.CrossingUp, cfg); r.OK {
		rs.Rise, okRise = r.Time.UTC(), true
	}
	if r := solver.FindAltitudeEvent(f, start, end, 0, solver.CrossingDown, cfg); r.OK {
		rs.Set, okSet = r.Time.UTC(), true
	}
	return rs, okRise, okSet
}
