// Package sky relates geocentric equatorial coordinates to points on the
// Earth: the sub-point directly beneath a body and a body's altitude above an
// observer's horizon.
//
// All angles are soniakeys/unit values (radians). Altitudes are returned in
// degrees because that is what horizon thresholds are written in.
package sky

import (
	"math"

	"github.com/soniakeys/unit"

	"github.com/thurmanmarka/daynight/internal/angle"
)

// Equatorial is a geocentric right ascension and declination.
type Equatorial struct {
	RA  unit.RA    // [0, 2π)
	Dec unit.Angle // [-π/2, π/2]
}

// NewEquatorial builds an Equatorial from radians, wrapping ra into [0, 2π).
func NewEquatorial(ra, dec float64) Equatorial {
	return Equatorial{
		RA:  unit.RA(angle.Limit(unit.Angle(ra))),
		Dec: unit.Angle(dec),
	}
}

// GeoPoint is a geographic position, east longitude positive.
type GeoPoint struct {
	Lon unit.Angle // [-π, π)
	Lat unit.Angle // [-π/2, π/2]
}

// NewGeoPoint builds a GeoPoint from degrees.
func NewGeoPoint(latDeg, lonDeg float64) GeoPoint {
	return GeoPoint{
		Lon: angle.Signed(unit.AngleFromDeg(lonDeg)),
		Lat: unit.AngleFromDeg(latDeg),
	}
}

// LatDeg returns the latitude in degrees.
func (p GeoPoint) LatDeg() float64 { return p.Lat.Deg() }

// LonDeg returns the longitude in degrees, [-180, 180).
func (p GeoPoint) LonDeg() float64 { return p.Lon.Deg() }

// SubPoint returns the point on the Earth where the body is at the zenith.
// gst is Greenwich sidereal time.
//
// Latitude equals declination; longitude is RA - GST, the inverse of the hour
// angle relation used by HourAngle.
func SubPoint(eq Equatorial, gst unit.Angle) GeoPoint {
	return GeoPoint{
		Lon: angle.Signed(eq.RA.Angle() - gst),
		Lat: eq.Dec,
	}
}

// HourAngle returns the local hour angle of the body for an observer at
// longitude lon, in [-π, π). Positive west of the meridian.
func HourAngle(eq Equatorial, gst, lon unit.Angle) unit.HourAngle {
	return angle.Signed(gst + lon - eq.RA.Angle()).HourAngle()
}

// Altitude returns the geometric altitude of the body above the observer's
// horizon in degrees.
func Altitude(eq Equatorial, gst unit.Angle, obs GeoPoint) float64 {
	h := HourAngle(eq, gst, obs.Lon)
	return angle.Rad2Deg(altitude(eq.Dec, obs.Lat, h))
}

func altitude(dec, lat unit.Angle, h unit.HourAngle) float64 {
	sδ, cδ := dec.Sincos()
	sφ, cφ := lat.Sincos()
	return angle.Asin(sδ*sφ + cδ*cφ*h.Cos())
}

// Horizontal holds an observer-relative direction.
type Horizontal struct {
	Alt float64 // degrees above the horizon
	Az  float64 // degrees, 0 = north, clockwise
}

// HorizontalFor returns altitude and azimuth of the body for obs.
func HorizontalFor(eq Equatorial, gst unit.Angle, obs GeoPoint) Horizontal {
	h := HourAngle(eq, gst, obs.Lon)
	sH, cH := h.Sincos()
	sφ, cφ := obs.Lat.Sincos()
	tδ := eq.Dec.Tan()

	// Meeus eq. 13.5 measures azimuth from the south; shift to north.
	az := math.Atan2(sH, cH*sφ-tδ*cφ) + math.Pi
	return Horizontal{
		Alt: angle.Rad2Deg(altitude(eq.Dec, obs.Lat, h)),
		Az:  angle.Normalize360(angle.Rad2Deg(az)),
	}
}

// Separation returns the angular distance between two directions, [0, π].
func Separation(a, b Equatorial) unit.Angle {
	sa, ca := a.Dec.Sincos()
	sb, cb := b.Dec.Sincos()
	return unit.Angle(angle.Acos(sa*sb + ca*cb*math.Cos(a.RA.Rad()-b.RA.Rad())))
}

// EarthRadiusKm is the equatorial radius used for parallax.
const EarthRadiusKm = 6378.14

// HorizontalParallax returns the equatorial horizontal parallax of a body at
// distanceKm from the Earth's centre.
func HorizontalParallax(distanceKm float64) unit.Angle {
	if distanceKm <= EarthRadiusKm {
		return unit.AngleFromDeg(1)
	}
	return unit.Angle(math.Asin(EarthRadiusKm / distanceKm))
}

// Topocentric shifts a geocentric position of a near body (the Moon) to the
// direction seen by a sea-level observer. Meeus ch. 40 with ρ ≈ 0.99883.
func Topocentric(eq Equatorial, distanceKm float64, gst unit.Angle, obs GeoPoint) Equatorial {
	const rho = 0.99883

	π := HorizontalParallax(distanceKm)
	sπ := π.Sin()
	sφ, cφ := obs.Lat.Sincos()
	ρsφ, ρcφ := rho*sφ, rho*cφ

	sδ, cδ := eq.Dec.Sincos()
	H := HourAngle(eq, gst, obs.Lon)
	sH, cH := H.Sincos()

	Δα := math.Atan2(-ρcφ*sπ*sH, cδ-ρcφ*sπ*cH)
	δ := math.Atan2((sδ-ρsφ*sπ)*math.Cos(Δα), cδ-ρcφ*sπ*cH)
	return NewEquatorial(eq.RA.Rad()+Δα, δ)
}

// Pixel maps p onto an equirectangular image of width w and height h with
// longitude -180 at x = 0 and latitude +90 at y = 0.
func (p GeoPoint) Pixel(w, h float64) (x, y float64) {
	x = w * (p.LonDeg() + 180.0) / 360.0
	y = h * (90.0 - p.LatDeg()) / 180.0
	return x, y
}
