package daynight

import (
	"math"
	"time"

	"github.com/thurmanmarka/daynight/internal/angle"
	"github.com/thurmanmarka/daynight/internal/moon"
	"github.com/thurmanmarka/daynight/internal/sky"
	"github.com/thurmanmarka/daynight/internal/sun"
	"github.com/thurmanmarka/daynight/internal/timeutil"
)

// MoonPhase describes the illuminated fraction and qualitative phase
// of the Moon at a given instant.
type MoonPhase struct {
	Time       time.Time // the instant this phase is evaluated at
	Fraction   float64   // illuminated fraction [0..1], 0=new, 1=full
	Elongation float64   // Sun-Moon angular separation in degrees [0..180]
	Age        float64   // Moon minus Sun ecliptic longitude, degrees [0..360)
	Waxing     bool      // true while Age < 180
	Name       string    // e.g. "New Moon", "Waxing Crescent", "First Quarter", ...
}

// MoonPhaseAt computes the Moon's illuminated fraction and qualitative phase
// at t. Phase does not depend on the observer, so only the instant matters.
//
// The error return is always nil.
func MoonPhaseAt(t time.Time) (MoonPhase, error) {
	m := timeutil.ToJulianMoment(t)

	sEq := sun.Equatorial(m.JT)
	mEq, dist := moon.Equatorial(m.JT)

	// Elongation ψ, then the phase angle i seen from the Moon (Meeus 48.3).
	ψ := sky.Separation(sEq, mEq)
	r := sun.DistanceAU(m.JT) * sun.AUKm
	sψ, cψ := ψ.Sincos()
	i := math.Atan2(r*sψ, dist-r*cψ)

	λm, _, _ := moon.Ecliptic(m.JT)
	age := angle.Limit(λm - sun.ApparentLongitude(m.JT)).Deg()

	return MoonPhase{
		Time:       t,
		Fraction:   (1 + math.Cos(i)) / 2,
		Elongation: ψ.Deg(),
		Age:        age,
		Waxing:     age < 180,
		Name:       phaseName(age),
	}, nil
}

// Half-widths, in degrees of age, of the principal phases. The new and full
// windows are where less than 1% of the disc is lit or dark.
const (
	syzygyWindow  = 11.5
	quarterWindow = 6.0
)

var phaseNames = [...]string{
	"New Moon", "Waxing Crescent", "First Quarter", "Waxing Gibbous",
	"Full Moon", "Waning Gibbous", "Last Quarter", "Waning Crescent",
}

// phaseName names the phase for an age in degrees [0, 360).
func phaseName(age float64) string {
	// Principal phase k sits at k·90°.
	k := math.Round(age / 90)
	w := quarterWindow
	if int(k)%2 == 0 {
		w = syzygyWindow
	}
	if math.Abs(age-90*k) < w {
		return phaseNames[2*(int(k)%4)]
	}
	// Intermediate phases fill the octants between.
	return phaseNames[2*int(age/90)+1]
}
