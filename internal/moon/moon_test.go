package moon

import (
	"math"
	"testing"
	"time"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"

	"github.com/thurmanmarka/daynight/internal/sky"
	"github.com/thurmanmarka/daynight/internal/timeutil"
)

func angleDiffDeg(a, b float64) float64 {
	d := math.Abs(math.Mod(a-b, 360))
	if d > 180 {
		d = 360 - d
	}
	return d
}

func TestEcliptic_MeeusExample(t *testing.T) {
	// Meeus example 47.a: 1992 April 12, 0h TD.
	jt := timeutil.JulianCenturies(2448724.5)
	λ, β, Δ := Ecliptic(jt)

	if d := angleDiffDeg(λ.Deg(), 133.162655); d > 0.02 {
		t.Errorf("λ = %.6f°, want 133.162655°", λ.Deg())
	}
	if d := math.Abs(β.Deg() + 3.229126); d > 0.02 {
		t.Errorf("β = %.6f°, want -3.229126°", β.Deg())
	}
	if d := math.Abs(Δ - 368409.7); d > 100 {
		t.Errorf("Δ = %.1f km, want 368409.7 km", Δ)
	}

	// The example's apparent place adds nutation, worth about 0.005°.
	eq, _ := Equatorial(jt)
	if d := angleDiffDeg(eq.RA.Deg(), 134.688470); d > 0.05 {
		t.Errorf("RA = %.6f°, want 134.688470°", eq.RA.Deg())
	}
	if d := math.Abs(eq.Dec.Deg() - 13.768368); d > 0.05 {
		t.Errorf("Dec = %.6f°, want 13.768368°", eq.Dec.Deg())
	}
}

func TestEcliptic_MatchesFullSeries(t *testing.T) {
	start := timeutil.CalendarJD(1950, time.January, 1)
	for i := 0; i < 400; i++ {
		jd := start + float64(i)*273.37
		jt := timeutil.JulianCenturies(jd)

		λ, β, Δ := Ecliptic(jt)
		wλ, wβ, wΔ := moonposition.Position(jd)

		if d := angleDiffDeg(λ.Deg(), wλ.Deg()); d > 0.05 {
			t.Errorf("JD %.2f: λ %.4f° vs %.4f°", jd, λ.Deg(), wλ.Deg())
		}
		if d := math.Abs(β.Deg() - wβ.Deg()); d > 0.05 {
			t.Errorf("JD %.2f: β %.4f° vs %.4f°", jd, β.Deg(), wβ.Deg())
		}
		if d := math.Abs(Δ - wΔ); d > 100 {
			t.Errorf("JD %.2f: Δ %.1f km vs %.1f km", jd, Δ, wΔ)
		}

		eq, _ := Equatorial(jt)
		sε, cε := nutation.MeanObliquity(jd).Sincos()
		wα, wδ := coord.EclToEq(wλ, wβ, sε, cε)
		if d := angleDiffDeg(eq.RA.Deg(), wα.Deg()); d > 0.1 {
			t.Errorf("JD %.2f: RA %.4f° vs %.4f°", jd, eq.RA.Deg(), wα.Deg())
		}
		if d := math.Abs(eq.Dec.Deg() - wδ.Deg()); d > 0.1 {
			t.Errorf("JD %.2f: Dec %.4f° vs %.4f°", jd, eq.Dec.Deg(), wδ.Deg())
		}
	}
}

func TestEquatorial_Ranges(t *testing.T) {
	for jt := -0.5; jt < 2.5; jt += 0.0137 {
		eq, dist := Equatorial(jt)
		if eq.RA < 0 || eq.RA.Rad() >= 2*math.Pi {
			t.Fatalf("JT %v: RA %v outside [0, 2π)", jt, eq.RA.Rad())
		}
		// Lunar declination never exceeds 23.44° + 5.15°.
		if math.Abs(eq.Dec.Deg()) > 28.8 {
			t.Fatalf("JT %v: declination %v", jt, eq.Dec.Deg())
		}
		if dist < 355000 || dist > 408000 {
			t.Fatalf("JT %v: distance %v km", jt, dist)
		}
	}
}

func TestApparentHorizonAltitude(t *testing.T) {
	near := ApparentHorizonAltitude(356500)
	far := ApparentHorizonAltitude(406700)
	if !(near < far) {
		t.Errorf("perigee horizon %.4f should sit below apogee horizon %.4f", near, far)
	}
	for _, h := range []float64{near, far, ApparentHorizonAltitude(0)} {
		if h > -0.8 || h < -0.9 {
			t.Errorf("horizon altitude %.4f outside [-0.9, -0.8]", h)
		}
	}
}

func TestRiseSetForDate_Bracket(t *testing.T) {
	obs := sky.NewGeoPoint(33.4484, -112.0740)
	locPHX, err := time.LoadLocation("America/Phoenix")
	if err != nil {
		t.Fatalf("failed to load America/Phoenix: %v", err)
	}

	found := 0
	for day := 1; day <= 30; day++ {
		date := time.Date(2025, time.November, day, 12, 0, 0, 0, locPHX)
		rs, okRise, okSet := RiseSetForDate(obs, date)

		start, end := timeutil.LocalDay(date)
		for _, ev := range []struct {
			ok bool
			t  time.Time
		}{{okRise, rs.Rise}, {okSet, rs.Set}} {
			if !ev.ok {
				continue
			}
			found++
			if ev.t.Before(start) || !ev.t.Before(end) {
				t.Errorf("%s: event %v outside local day", date.Format("2006-01-02"), ev.t)
			}
			if alt := Altitude(obs, ev.t); math.Abs(alt) > 0.1 {
				t.Errorf("%s: altitude at event %v = %.3f°, want ~0", date.Format("2006-01-02"), ev.t, alt)
			}
		}
	}
	// The Moon skips a rise and a set once each per month.
	if found < 56 {
		t.Errorf("found %d events in November, want at least 56", found)
	}
}
