// Package daynight computes where the Sun and Moon are, where on the Earth
// they stand overhead, how high they are for an observer, and when they rise
// and set.
//
// Every function is a pure function of its arguments; nothing is cached and
// all of it is safe for concurrent use.
//
// Unit conventions:
//   - right ascension is unit.RA and declination, latitude, longitude and
//     sidereal time are unit.Angle, all in radians;
//   - altitudes are float64 degrees, positive above the horizon;
//   - JT is Julian centuries since J2000.0.
package daynight

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/soniakeys/unit"

	"github.com/thurmanmarka/daynight/internal/moon"
	"github.com/thurmanmarka/daynight/internal/sky"
	"github.com/thurmanmarka/daynight/internal/sun"
	"github.com/thurmanmarka/daynight/internal/timeutil"
)

// JulianMoment is a timestamp on the Julian day scale: JD and JT.
type JulianMoment = timeutil.JulianMoment

// Equatorial is a geocentric right ascension and declination.
type Equatorial = sky.Equatorial

// GeoPoint is a geographic longitude and latitude, east and north positive.
type GeoPoint = sky.GeoPoint

// Horizontal is an altitude and azimuth, in degrees.
type Horizontal = sky.Horizontal

// NewGeoPoint builds a GeoPoint from latitude and longitude in degrees.
func NewGeoPoint(latDeg, lonDeg float64) GeoPoint {
	return sky.NewGeoPoint(latDeg, lonDeg)
}

// Body represents a celestial body.
type Body int

const (
	Sun Body = iota
	Moon
)

func (b Body) String() string {
	switch b {
	case Sun:
		return "sun"
	case Moon:
		return "moon"
	}
	return fmt.Sprintf("Body(%d)", int(b))
}

// ParseBody accepts "sun" or "moon".
func ParseBody(s string) (Body, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sun":
		return Sun, nil
	case "moon":
		return Moon, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrNotImplemented, s)
}

// Coordinates represent an observer's location.
type Coordinates struct {
	Lat       float64 // degrees, north positive
	Lon       float64 // degrees, east positive (west negative, e.g. -105 for 105°W)
	Elevation float64 // meters above sea level (reserved for future use)
}

// GeoPoint converts c to the radian form used by the computations.
func (c Coordinates) GeoPoint() GeoPoint {
	return sky.NewGeoPoint(c.Lat, c.Lon)
}

var (
	// ErrNoRiseNoSet is returned when a body does not rise or set on that date at that location.
	ErrNoRiseNoSet = errors.New("body does not rise or set on this date")

	// ErrNotImplemented is returned when that body isn't supported.
	ErrNotImplemented = errors.New("not implemented for this body")

	// ErrInvalidDate is returned by Timestamp for calendar fields that do not
	// name a real date and time.
	ErrInvalidDate = timeutil.ErrInvalidDate
)

// Timestamp validates calendar fields and returns the instant they name in
// loc (UTC when nil). Fields that time.Date would normalise, such as
// February 30 or hour 24, are rejected with ErrInvalidDate.
func Timestamp(year int, month time.Month, day, hour, min, sec int, loc *time.Location) (time.Time, error) {
	return timeutil.Civil(year, month, day, hour, min, sec, loc)
}

// JulianMomentOf returns the Julian day and Julian centuries of t. The zone
// of t does not matter.
func JulianMomentOf(t time.Time) JulianMoment {
	return timeutil.ToJulianMoment(t)
}

// JulianDay returns the Julian day at 0h UT of a Gregorian calendar date.
func JulianDay(year int, month time.Month, day int) float64 {
	return timeutil.CalendarJD(year, month, day)
}

// SiderealTime returns mean sidereal time at east longitude lon, in [0, 2π).
// lon = 0 gives Greenwich mean sidereal time.
func SiderealTime(lon unit.Angle, m JulianMoment) unit.Angle {
	return timeutil.SiderealTime(lon, m)
}

// ComputeEquatorial returns the body's geocentric right ascension and
// declination at jt Julian centuries since J2000.
func ComputeEquatorial(body Body, jt float64) (Equatorial, error) {
	switch body {
	case Sun:
		return sun.Equatorial(jt), nil
	case Moon:
		eq, _ := moon.Equatorial(jt)
		return eq, nil
	}
	return Equatorial{}, fmt.Errorf("%w: %v", ErrNotImplemented, body)
}

// ComputeSubPoint returns the point on the Earth where a body at eq is at the
// zenith at moment m.
func ComputeSubPoint(eq Equatorial, m JulianMoment) GeoPoint {
	return sky.SubPoint(eq, timeutil.SiderealTime(0, m))
}

// ComputeAltitude returns the geometric altitude in degrees of a body at eq
// for an observer at obs at moment m.
func ComputeAltitude(eq Equatorial, m JulianMoment, obs GeoPoint) float64 {
	return sky.Altitude(eq, timeutil.SiderealTime(0, m), obs)
}

// ComputeHorizontal returns altitude and azimuth (from north, eastward) of a
// body at eq for obs at moment m.
func ComputeHorizontal(eq Equatorial, m JulianMoment, obs GeoPoint) Horizontal {
	return sky.HorizontalFor(eq, timeutil.SiderealTime(0, m), obs)
}
