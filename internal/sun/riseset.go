package sun

import (
	"time"

	"github.com/thurmanmarka/daynight/internal/sky"
	"github.com/thurmanmarka/daynight/internal/solver"
	"github.com/thurmanmarka/daynight/internal/timeutil"
)

// StandardZenith is the commonly used zenith angle (in degrees) for sunrise/sunset:
// 90°50' ≈ 90.833°, accounting for refraction + Sun's apparent radius.
const StandardZenith = 90.833

// ApparentHorizonAltitude is the altitude (in degrees) of the Sun's centre
// when the upper limb touches a standard refracted horizon.
const ApparentHorizonAltitude = 90 - StandardZenith

// Altitude returns the Sun's geometric altitude in degrees for obs at t.
func Altitude(obs sky.GeoPoint, t time.Time) float64 {
	m := timeutil.ToJulianMoment(t)
	return sky.Altitude(Equatorial(m.JT), timeutil.SiderealTime(0, m), obs)
}

// ScanDay samples the Sun's altitude over the local calendar day of date (in
// date's Location) and refines every crossing of targetAlt.
func ScanDay(obs sky.GeoPoint, date time.Time, targetAlt float64, s solver.Sampling) solver.Scan {
	start, end := timeutil.LocalDay(date)
	f := func(t time.Time) float64 { return Altitude(obs, t) }
	return solver.ScanAltitude(f, start, end, targetAlt, s.Config(end.Sub(start)))
}

// RiseSetForDate computes sunrise and sunset for the Sun on the local calendar
// date of date for an observer at obs. Returned times are in UTC.
// `zenith` is in degrees; for standard sunrise/sunset use StandardZenith.
func RiseSetForDate(obs sky.GeoPoint, date time.Time, zenith float64) (sunriseUTC, sunsetUTC time.Time, okRise, okSet bool) {
	return eventsForDateAtAltitude(obs, date, 90.0-zenith)
}

// TwilightForDate computes the times when the Sun crosses a given altitude
// (in degrees) during the local calendar day: "dawn" as the upward crossing,
// "dusk" as the downward crossing. Returned times are in UTC.
func TwilightForDate(obs sky.GeoPoint, date time.Time, targetAlt float64) (dawnUTC, duskUTC time.Time, okDawn, okDusk bool) {
	return eventsForDateAtAltitude(obs, date, targetAlt)
}

func eventsForDateAtAltitude(obs sky.GeoPoint, date time.Time, targetAlt float64) (riseUTC, setUTC time.Time, okRise, okSet bool) {
	start, end := timeutil.LocalDay(date)
	cfg := solver.DefaultSampling.Config(end.Sub(start))
	f := func(t time.Time) float64 { return Altitude(obs, t) }

	rise := solver.FindAltitudeEvent(f, start, end, targetAlt, solver.CrossingUp, cfg)
	set := solver.FindAltitudeEvent(f, start, end, targetAlt, solver.CrossingDown, cfg)
	if rise.OK {
		riseUTC, okRise = rise.Time.UTC(), true
	}
	if set.OK {
		setUTC, okSet = set.Time.UTC(), true
	}
	return riseUTC, setUTC, okRise, okSet
}
