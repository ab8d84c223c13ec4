package daynight

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/soniakeys/unit"
)

func TestJulianMoment_J2000(t *testing.T) {
	if jd := JulianDay(2000, time.January, 1); jd != 2451544.5 {
		t.Errorf("JulianDay(2000-01-01) = %v, want 2451544.5", jd)
	}
	m := JulianMomentOf(time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC))
	if math.Abs(m.JD-2451545.0) > 1e-9 || math.Abs(m.JT) > 1e-12 {
		t.Errorf("J2000 moment = %+v", m)
	}

	// Zone must not matter.
	loc := time.FixedZone("UTC-7", -7*3600)
	local := JulianMomentOf(time.Date(2000, time.January, 1, 5, 0, 0, 0, loc))
	if math.Abs(local.JD-m.JD) > 1e-9 {
		t.Errorf("JD in UTC-7 = %v, want %v", local.JD, m.JD)
	}
}

func TestJulianMoment_Monotonic(t *testing.T) {
	start := time.Date(1969, time.July, 20, 20, 17, 0, 0, time.UTC)
	prev := JulianMomentOf(start)
	for i := 1; i < 200; i++ {
		cur := JulianMomentOf(start.Add(time.Duration(i) * 37 * time.Hour))
		if cur.JD <= prev.JD || cur.JT <= prev.JT {
			t.Fatalf("not increasing at step %d: %+v after %+v", i, cur, prev)
		}
		prev = cur
	}
}

func TestSiderealTime(t *testing.T) {
	m := JulianMomentOf(time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC))
	if g := SiderealTime(0, m).Deg(); math.Abs(g-280.46061837) > 1e-6 {
		t.Errorf("GMST at J2000 = %.8f°", g)
	}

	// Meeus example 12.b: 1987 April 10, 19h21m00s UT, 8h34m57.0896s.
	m = JulianMomentOf(time.Date(1987, time.April, 10, 19, 21, 0, 0, time.UTC))
	want := unit.NewRA(8, 34, 57.0896).Deg()
	if g := SiderealTime(0, m).Deg(); math.Abs(g-want) > 1e-4 {
		t.Errorf("GMST 1987-04-10 = %.6f°, want %.6f°", g, want)
	}

	for _, lon := range []float64{-179.9, -45, 0, 90, 180} {
		for y := 1800; y <= 2200; y += 50 {
			m := JulianMomentOf(time.Date(y, time.March, 3, 3, 3, 3, 0, time.UTC))
			s := SiderealTime(unit.AngleFromDeg(lon), m).Rad()
			if s < 0 || s >= 2*math.Pi {
				t.Errorf("SiderealTime(%v, %d) = %v outside [0, 2π)", lon, y, s)
			}
		}
	}
}

func TestTimestamp(t *testing.T) {
	got, err := Timestamp(2024, time.February, 29, 23, 59, 59, nil)
	if err != nil {
		t.Fatalf("leap day: %v", err)
	}
	if got.Location() != time.UTC {
		t.Errorf("nil location gave %v", got.Location())
	}

	bad := []struct {
		y           int
		mo          time.Month
		d, h, mi, s int
	}{
		{2025, time.February, 29, 0, 0, 0},
		{2025, time.April, 31, 0, 0, 0},
		{2025, time.January, 1, 24, 0, 0},
		{2025, time.January, 1, 0, 60, 0},
		{2025, time.Month(13), 1, 0, 0, 0},
	}
	for _, b := range bad {
		if _, err := Timestamp(b.y, b.mo, b.d, b.h, b.mi, b.s, time.UTC); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("Timestamp(%v) error = %v, want ErrInvalidDate", b, err)
		}
	}
}

func TestParseBody(t *testing.T) {
	for in, want := range map[string]Body{"sun": Sun, "Moon": Moon, " SUN ": Sun} {
		got, err := ParseBody(in)
		if err != nil || got != want {
			t.Errorf("ParseBody(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseBody("mars"); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("ParseBody(mars) error = %v", err)
	}
}

func TestComputeEquatorial_UnknownBody(t *testing.T) {
	if _, err := ComputeEquatorial(Body(9), 0); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("ComputeEquatorial error = %v", err)
	}
	_, err := ComputeRiseSet(time.Now(), NewGeoPoint(0, 0), SearchOptions{Body: Body(9)})
	if !errors.Is(err, ErrNotImplemented) {
		t.Errorf("ComputeRiseSet error = %v", err)
	}
	if _, err := GroundTrack(Body(9), time.Now(), time.Hour, time.Minute); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("GroundTrack error = %v", err)
	}
}

func TestSubPointIsZenith(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 100; i++ {
		m := JulianMomentOf(start.Add(time.Duration(i) * 89 * time.Hour))
		for _, body := range []Body{Sun, Moon} {
			eq, err := ComputeEquatorial(body, m.JT)
			if err != nil {
				t.Fatal(err)
			}
			p := ComputeSubPoint(eq, m)
			if lat := p.LatDeg(); lat < -90 || lat > 90 {
				t.Fatalf("%v latitude %v", body, lat)
			}
			if lon := p.LonDeg(); lon < -180 || lon >= 180 {
				t.Fatalf("%v longitude %v", body, lon)
			}
			if alt := ComputeAltitude(eq, m, p); math.Abs(alt-90) > 1e-5 {
				t.Errorf("%v altitude at sub-point = %.8f", body, alt)
			}
			if h := ComputeHorizontal(eq, m, p); math.Abs(h.Alt-90) > 1e-5 {
				t.Errorf("%v horizontal altitude at sub-point = %.8f", body, h.Alt)
			}
		}
	}
}

func TestSunDeclinationBound(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	for d := 0; d < 366; d++ {
		m := JulianMomentOf(start.AddDate(0, 0, d))
		eq, _ := ComputeEquatorial(Sun, m.JT)
		if dec := eq.Dec.Deg(); math.Abs(dec) > 23.45 {
			t.Fatalf("day %d: declination %.4f", d, dec)
		}
	}
}

func TestComputeRiseSet_EquatorEquinox(t *testing.T) {
	date := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)
	r, err := ComputeRiseSet(date, NewGeoPoint(0, 0), SearchOptions{Body: Sun})
	if err != nil {
		t.Fatal(err)
	}
	if !r.HasRise || !r.HasSet || r.State != Normal {
		t.Fatalf("result = %+v", r)
	}
	// The equation of time shifts both events by about 7 minutes in March.
	const tol = 10 * time.Minute
	six := date.Add(6 * time.Hour)
	eighteen := date.Add(18 * time.Hour)
	if d := r.Rise.Sub(six); d < -tol || d > tol {
		t.Errorf("rise %v, %v from 06:00", r.Rise, d)
	}
	if d := r.Set.Sub(eighteen); d < -tol || d > tol {
		t.Errorf("set %v, %v from 18:00", r.Set, d)
	}
	if r.MaxAltitude < 85 || r.MinAltitude > -85 {
		t.Errorf("extremes %.2f..%.2f", r.MinAltitude, r.MaxAltitude)
	}
}

func TestComputeRiseSet_Polar(t *testing.T) {
	cases := []struct {
		name  string
		date  time.Time
		state DayState
	}{
		{"midsummer", time.Date(2025, time.June, 21, 0, 0, 0, 0, time.UTC), PolarDay},
		{"midwinter", time.Date(2025, time.December, 21, 0, 0, 0, 0, time.UTC), PolarNight},
	}
	obs := NewGeoPoint(80, 15)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := ComputeRiseSet(tc.date, obs, SearchOptions{Body: Sun, TargetAlt: -0.833})
			if err != nil {
				t.Fatal(err)
			}
			if r.HasRise || r.HasSet {
				t.Errorf("unexpected crossing: %+v", r)
			}
			if r.State != tc.state {
				t.Errorf("state = %v, want %v", r.State, tc.state)
			}
			switch tc.state {
			case PolarDay:
				if r.MinAltitude <= 0 {
					t.Errorf("min altitude %.2f, want > 0", r.MinAltitude)
				}
			case PolarNight:
				if r.MaxAltitude >= -0.833 {
					t.Errorf("max altitude %.2f, want < -0.833", r.MaxAltitude)
				}
			}
		})
	}
}

func TestComputeRiseSet_Location(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatal(err)
	}
	date := time.Date(2025, time.August, 1, 15, 0, 0, 0, loc)
	r, err := ComputeRiseSet(date, NewGeoPoint(35.6762, 139.6503), SearchOptions{
		Body:      Moon,
		Step:      10 * time.Minute,
		Tolerance: 5 * time.Second,
	})
	if err != nil {
		t.Fatal(err)
	}
	start := time.Date(2025, time.August, 1, 0, 0, 0, 0, loc)
	for _, ev := range []struct {
		ok bool
		t  time.Time
	}{{r.HasRise, r.Rise}, {r.HasSet, r.Set}} {
		if !ev.ok {
			continue
		}
		if ev.t.Location() != loc {
			t.Errorf("event %v not in %v", ev.t, loc)
		}
		if ev.t.Before(start) || !ev.t.Before(start.AddDate(0, 0, 1)) {
			t.Errorf("event %v outside local day", ev.t)
		}
	}
}

func TestComputeRiseSet_CoarseStep(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}
	date := time.Date(2025, time.October, 3, 0, 0, 0, 0, loc)
	obs := NewGeoPoint(40.7128, -74.0060)

	want, err := ComputeRiseSet(date, obs, SearchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	// Steps of a day or more are capped at 6h instead of hiding both events.
	got, err := ComputeRiseSet(date, obs, SearchOptions{Step: 25 * time.Hour})
	if err != nil {
		t.Fatal(err)
	}
	if got.State != Normal || !got.HasRise || !got.HasSet {
		t.Fatalf("result = %+v, want a normal day", got)
	}
	if d := got.Rise.Sub(want.Rise).Abs(); d > time.Minute {
		t.Errorf("rise %v, default step gives %v", got.Rise, want.Rise)
	}
	if d := got.Set.Sub(want.Set).Abs(); d > time.Minute {
		t.Errorf("set %v, default step gives %v", got.Set, want.Set)
	}
}

func TestBandFor(t *testing.T) {
	cases := []struct {
		alt  float64
		want Band
	}{
		{45, Day},
		{0.01, Day},
		{0, CivilTwilight},
		{-5.9, CivilTwilight},
		{-6, NauticalTwilight},
		{-11.9, NauticalTwilight},
		{-12, AstronomicalTwilight},
		{-17.9, AstronomicalTwilight},
		{-18, Night},
		{-90, Night},
	}
	for _, tc := range cases {
		if got := BandFor(tc.alt); got != tc.want {
			t.Errorf("BandFor(%v) = %v, want %v", tc.alt, got, tc.want)
		}
	}
	if s := Band(42).String(); s != "Band(42)" {
		t.Errorf("String = %q", s)
	}
}

func TestFrame(t *testing.T) {
	f := FrameAt(time.Date(2025, time.June, 1, 14, 30, 0, 0, time.UTC))

	if got := f.Illumination(f.SunPoint); got != Day {
		t.Errorf("sub-solar point is %v", got)
	}
	anti := NewGeoPoint(-f.SunPoint.LatDeg(), f.SunPoint.LonDeg()+180)
	if got := f.Illumination(anti); got != Night {
		t.Errorf("antisolar point is %v", got)
	}
	if alt := f.MoonAltitude(f.MoonPoint); math.Abs(alt-90) > 1e-5 {
		t.Errorf("Moon altitude at sub-lunar point = %.6f", alt)
	}
	if f.MoonDistanceKm < 355000 || f.MoonDistanceKm > 408000 {
		t.Errorf("Moon distance %.0f km", f.MoonDistanceKm)
	}

	pts := f.Terminator(2)
	if len(pts) != 180 {
		t.Fatalf("terminator has %d points, want 180", len(pts))
	}
	for i, p := range pts {
		want := -180 + 2*float64(i)
		if d := math.Mod(p.LonDeg()-want+540, 360) - 180; math.Abs(d) > 1e-9 {
			t.Fatalf("point %d longitude %v, want %v", i, p.LonDeg(), want)
		}
		if alt := f.SunAltitude(p); math.Abs(alt) > 1e-6 {
			t.Errorf("Sun altitude on terminator at %v = %.8f", p.LonDeg(), alt)
		}
	}
	if n := len(f.Terminator(0)); n != 360 {
		t.Errorf("default step gave %d points", n)
	}
}

func TestGroundTrack(t *testing.T) {
	at := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	pts, err := GroundTrack(Sun, at, 2*time.Hour, 30*time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != 9 {
		t.Fatalf("got %d points, want 9", len(pts))
	}
	mid := FrameAt(at).SunPoint
	if math.Abs(pts[4].LatDeg()-mid.LatDeg()) > 1e-9 || math.Abs(pts[4].LonDeg()-mid.LonDeg()) > 1e-9 {
		t.Errorf("centre %v, want %v", pts[4], mid)
	}
	// The sub-solar point drifts west about 15° an hour.
	for i := 1; i < len(pts); i++ {
		d := pts[i-1].LonDeg() - pts[i].LonDeg()
		if d < 0 {
			d += 360
		}
		if math.Abs(d-7.5) > 0.5 {
			t.Errorf("step %d moved %.3f°", i, d)
		}
	}

	if _, err := GroundTrack(Moon, at, time.Hour, 0); err == nil {
		t.Error("expected error for zero step")
	}
}
