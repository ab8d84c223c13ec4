// Package sun implements a low-precision apparent solar position and the
// rise, set and twilight searches built on it.
package sun

import (
	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/unit"

	"github.com/thurmanmarka/daynight/internal/angle"
	"github.com/thurmanmarka/daynight/internal/sky"
)

// MeanLongitude returns the geometric mean longitude of the Sun, referred to
// the mean equinox of date, for jt Julian centuries since J2000.
func MeanLongitude(jt float64) unit.Angle {
	return unit.AngleFromDeg(angle.Normalize360(280.46646 + jt*(36000.76983+jt*0.0003032)))
}

// MeanAnomaly returns the mean anomaly of the Sun.
func MeanAnomaly(jt float64) unit.Angle {
	return unit.AngleFromDeg(angle.Normalize360(357.52911 + jt*(35999.05029-jt*0.0001537)))
}

// EquationOfCenter returns C for mean anomaly m.
func EquationOfCenter(jt float64, m unit.Angle) unit.Angle {
	c := (1.914602-jt*(0.004817+jt*0.000014))*m.Sin() +
		(0.019993-jt*0.000101)*(2*m).Sin() +
		0.000289*(3*m).Sin()
	return unit.AngleFromDeg(c)
}

// TrueLongitude returns the Sun's geometric ecliptic longitude, [0, 2π).
func TrueLongitude(jt float64) unit.Angle {
	return angle.Limit(MeanLongitude(jt) + EquationOfCenter(jt, MeanAnomaly(jt)))
}

// node is the longitude of the Moon's ascending node in the abbreviated form
// used for the apparent corrections.
func node(jt float64) unit.Angle {
	return unit.AngleFromDeg(125.04 - 1934.136*jt)
}

// ApparentLongitude returns the true longitude corrected for nutation and
// aberration.
func ApparentLongitude(jt float64) unit.Angle {
	Ω := node(jt)
	return angle.Limit(TrueLongitude(jt) - unit.AngleFromDeg(0.00569+0.00478*Ω.Sin()))
}

// MeanObliquity returns the mean obliquity of the ecliptic.
func MeanObliquity(jt float64) unit.Angle {
	return unit.AngleFromDeg(23.439291 - 0.0130042*jt)
}

// ApparentObliquity adds the leading nutation term to MeanObliquity.
func ApparentObliquity(jt float64) unit.Angle {
	return MeanObliquity(jt) + unit.AngleFromDeg(0.00256*node(jt).Cos())
}

// Equatorial returns the apparent geocentric right ascension and declination
// of the Sun for jt Julian centuries since J2000.
//
// Ecliptic latitude is taken as zero. Error is below 0.01° over several
// centuries around J2000.
func Equatorial(jt float64) sky.Equatorial {
	λ := ApparentLongitude(jt)
	sε, cε := ApparentObliquity(jt).Sincos()
	α, δ := coord.EclToEq(λ, 0, sε, cε)
	return sky.Equatorial{RA: α, Dec: δ}
}

// AUKm is the astronomical unit in km.
const AUKm = 149597870.7

// DistanceAU returns the Earth-Sun distance in astronomical units.
func DistanceAU(jt float64) float64 {
	e := 0.016708634 - jt*(0.000042037+jt*0.0000001267)
	m := MeanAnomaly(jt)
	ν := m + EquationOfCenter(jt, m)
	return 1.000001018 * (1 - e*e) / (1 + e*ν.Cos())
}
