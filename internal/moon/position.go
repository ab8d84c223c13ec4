// Package moon implements a truncated lunar theory and the Moon's rise and
// set search.
//
// The series are the largest terms of Meeus, Astronomical Algorithms ch. 47
// (ELP-2000/82 abridged): 32 longitude, 20 latitude and 27 distance terms plus
// the A1..A3 additive corrections. Worst case error against the full tables
// is about 0.05° in longitude and 0.02° in latitude, a few hundred km in
// distance.
package moon

import (
	"math"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/unit"

	"github.com/thurmanmarka/daynight/internal/angle"
	"github.com/thurmanmarka/daynight/internal/sky"
	"github.com/thurmanmarka/daynight/internal/sun"
)

// MeanDistanceKm is the constant part of the Earth-Moon distance series.
const MeanDistanceKm = 385000.56

// term is one periodic term: multiples of D, M, M', F and a coefficient in
// 1e-6 degrees (longitude, latitude) or metres (distance).
type term struct {
	d, m, mp, f float64
	coeff       float64
}

var longitudeTerms = []term{
	{0, 0, 1, 0, 6288774},
	{2, 0, -1, 0, 1274027},
	{2, 0, 0, 0, 658314},
	{0, 0, 2, 0, 213618},
	{0, 1, 0, 0, -185116},
	{0, 0, 0, 2, -114332},
	{2, 0, -2, 0, 58793},
	{2, -1, -1, 0, 57066},
	{2, 0, 1, 0, 53322},
	{2, -1, 0, 0, 45758},
	{0, 1, -1, 0, -40923},
	{1, 0, 0, 0, -34720},
	{0, 1, 1, 0, -30383},
	{2, 0, 0, -2, 15327},
	{0, 0, 1, 2, -12528},
	{0, 0, 1, -2, 10980},
	{4, 0, -1, 0, 10675},
	{0, 0, 3, 0, 10034},
	{4, 0, -2, 0, 8548},
	{2, 1, -1, 0, -7888},
	{2, 1, 0, 0, -6766},
	{1, 0, -1, 0, -5163},
	{1, 1, 0, 0, 4987},
	{2, -1, 1, 0, 4036},
	{2, 0, 2, 0, 3994},
	{4, 0, 0, 0, 3861},
	{2, 0, -3, 0, 3665},
	{0, 1, -2, 0, -2689},
	{2, 0, -1, 2, -2602},
	{2, -1, -2, 0, 2390},
	{1, 0, 1, 0, -2348},
	{2, -2, 0, 0, 2236},
}

var latitudeTerms = []term{
	{0, 0, 0, 1, 5128122},
	{0, 0, 1, 1, 280602},
	{0, 0, 1, -1, 277693},
	{2, 0, 0, -1, 173237},
	{2, 0, -1, 1, 55413},
	{2, 0, -1, -1, 46271},
	{2, 0, 0, 1, 32573},
	{0, 0, 2, 1, 17198},
	{2, 0, 1, -1, 9266},
	{0, 0, 2, -1, 8822},
	{2, -1, 0, -1, 8216},
	{2, 0, -2, -1, 4324},
	{2, 0, 1, 1, 4200},
	{2, 1, 0, -1, -3359},
	{2, -1, -1, 1, 2463},
	{2, -1, 0, 1, 2211},
	{2, -1, -1, -1, 2065},
	{0, 1, -1, -1, -1870},
	{4, 0, -1, -1, 1828},
	{0, 1, 0, 1, -1794},
}

var distanceTerms = []term{
	{0, 0, 1, 0, -20905355},
	{2, 0, -1, 0, -3699111},
	{2, 0, 0, 0, -2955968},
	{0, 0, 2, 0, -569925},
	{0, 1, 0, 0, 48888},
	{0, 0, 0, 2, -3149},
	{2, 0, -2, 0, 246158},
	{2, -1, -1, 0, -152138},
	{2, 0, 1, 0, -170733},
	{2, -1, 0, 0, -204586},
	{0, 1, -1, 0, -129620},
	{1, 0, 0, 0, 108743},
	{0, 1, 1, 0, 104755},
	{2, 0, 0, -2, 10321},
	{0, 0, 1, -2, 79661},
	{4, 0, -1, 0, -34782},
	{0, 0, 3, 0, -23210},
	{4, 0, -2, 0, -21636},
	{2, 1, -1, 0, 24208},
	{2, 1, 0, 0, 30824},
	{1, 0, -1, 0, -8379},
	{1, 1, 0, 0, -16675},
	{2, -1, 1, 0, -12831},
	{2, 0, 2, 0, -10445},
	{4, 0, 0, 0, -11650},
	{2, 0, -3, 0, 14403},
	{0, 1, -2, 0, -7003},
}

// arguments holds the fundamental arguments for one instant, in radians.
type arguments struct {
	lp, d, m, mp, f float64
	e               float64 // Earth orbit eccentricity factor
}

func deg(x float64) float64 { return unit.AngleFromDeg(angle.Normalize360(x)).Rad() }

func fundamentals(jt float64) arguments {
	return arguments{
		lp: deg(218.3164477 + jt*(481267.88123421+jt*(-0.0015786+jt*(1/538841.0-jt/65194000.0)))),
		d:  deg(297.8501921 + jt*(445267.1114034+jt*(-0.0018819+jt*(1/545868.0-jt/113065000.0)))),
		m:  deg(357.5291092 + jt*(35999.0502909+jt*(-0.0001536+jt/24490000.0))),
		mp: deg(134.9633964 + jt*(477198.8675055+jt*(0.0087414+jt*(1/69699.0-jt/14712000.0)))),
		f:  deg(93.2720950 + jt*(483202.0175233+jt*(-0.0036539+jt*(-1/3526000.0+jt/863310000.0)))),
		e:  1 - jt*(0.002516+jt*0.0000074),
	}
}

// arg returns the term's argument and its eccentricity factor.
func (a arguments) arg(t term) (float64, float64) {
	x := t.d*a.d + t.m*a.m + t.mp*a.mp + t.f*a.f
	switch t.m {
	case 1, -1:
		return x, a.e
	case 2, -2:
		return x, a.e * a.e
	}
	return x, 1
}

func (a arguments) sumSin(terms []term) float64 {
	var s float64
	for _, t := range terms {
		x, e := a.arg(t)
		s += t.coeff * e * math.Sin(x)
	}
	return s
}

func (a arguments) sumCos(terms []term) float64 {
	var s float64
	for _, t := range terms {
		x, e := a.arg(t)
		s += t.coeff * e * math.Cos(x)
	}
	return s
}

// Ecliptic returns the Moon's geocentric ecliptic longitude and latitude,
// referred to the mean equinox of date, and its distance in km, for jt
// Julian centuries since J2000.
func Ecliptic(jt float64) (λ, β unit.Angle, distanceKm float64) {
	a := fundamentals(jt)
	a1 := deg(119.75 + 131.849*jt)
	a2 := deg(53.09 + 479264.290*jt)
	a3 := deg(313.45 + 481266.484*jt)

	Σl := a.sumSin(longitudeTerms) +
		3958*math.Sin(a1) + 1962*math.Sin(a.lp-a.f) + 318*math.Sin(a2)
	Σb := a.sumSin(latitudeTerms) -
		2235*math.Sin(a.lp) + 382*math.Sin(a3) + 175*math.Sin(a1-a.f) +
		175*math.Sin(a1+a.f) + 127*math.Sin(a.lp-a.mp) - 115*math.Sin(a.lp+a.mp)
	Σr := a.sumCos(distanceTerms)

	λ = angle.Limit(unit.Angle(a.lp) + unit.AngleFromDeg(Σl*1e-6))
	β = unit.AngleFromDeg(Σb * 1e-6)
	return λ, β, MeanDistanceKm + Σr*1e-3
}

// Equatorial returns the Moon's geocentric right ascension and declination
// and its distance in km.
func Equatorial(jt float64) (sky.Equatorial, float64) {
	λ, β, Δ := Ecliptic(jt)
	sε, cε := sun.MeanObliquity(jt).Sincos()
	α, δ := coord.EclToEq(λ, β, sε, cε)
	return sky.Equatorial{RA: α, Dec: δ}, Δ
}
