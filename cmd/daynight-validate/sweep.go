package main

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/sixdouglas/suncalc"
	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"

	"github.com/thurmanmarka/daynight"
	"github.com/thurmanmarka/daynight/internal/angle"
	"github.com/thurmanmarka/daynight/internal/moon"
)

// sweepStats collects differences between the engine and the reference
// ephemerides, engine minus reference.
type sweepStats struct {
	gst        stats
	sunSep     stats
	moonLon    stats
	moonLat    stats
	moonDist   stats
	moonSep    stats
	sunAlt     stats
	sunrise    stats
	sunset     stats
	moonEvents stats
}

func newSweepStats() *sweepStats {
	return &sweepStats{
		gst:        stats{name: "GMST vs meeus sidereal.Mean", unit: "arcsec"},
		sunSep:     stats{name: "Sun RA/Dec vs meeus solar.ApparentEquatorial", unit: "arcmin"},
		moonLon:    stats{name: "Moon longitude vs meeus moonposition", unit: "degrees"},
		moonLat:    stats{name: "Moon latitude vs meeus moonposition", unit: "degrees"},
		moonDist:   stats{name: "Moon distance vs meeus moonposition", unit: "km"},
		moonSep:    stats{name: "Moon RA/Dec vs meeus moonposition", unit: "arcmin"},
		sunAlt:     stats{name: "Sun altitude vs suncalc", unit: "degrees"},
		sunrise:    stats{name: "Sunrise vs suncalc", unit: "minutes"},
		sunset:     stats{name: "Sunset vs suncalc", unit: "minutes"},
		moonEvents: stats{name: "Moon altitude at computed rise/set", unit: "degrees"},
	}
}

func (s *sweepStats) all() []*stats {
	return []*stats{&s.gst, &s.sunSep, &s.moonLon, &s.moonLat, &s.moonDist,
		&s.moonSep, &s.sunAlt, &s.sunrise, &s.sunset, &s.moonEvents}
}

var sweepHeader = []string{
	"date", "gst_arcsec", "sun_sep_arcmin",
	"moon_lon_deg", "moon_lat_deg", "moon_dist_km", "moon_sep_arcmin",
	"sun_alt_deg", "sunrise_min", "sunset_min", "moon_phase",
}

// sweep compares one UTC sample per day plus the local day's rise/set
// against the reference ephemerides.
func sweep(start time.Time, days int, coords daynight.Coordinates, loc *time.Location,
	out *csv.Writer, logger *slog.Logger) (*sweepStats, error) {

	st := newSweepStats()
	obs := coords.GeoPoint()

	for d := 0; d < days; d++ {
		date := time.Date(start.Year(), start.Month(), start.Day()+d, 0, 0, 0, 0, loc)
		// Sample at 17 minutes past a different hour each day so the sweep
		// covers all hour angles.
		at := date.Add(time.Duration(d%24)*time.Hour + 17*time.Minute)
		m := daynight.JulianMomentOf(at)
		jd := julian.TimeToJD(at)

		gst := daynight.SiderealTime(0, m).Deg()
		gstErr := angle.Normalize180(gst - sidereal.Mean(jd).Angle().Deg()) * 3600
		st.gst.add(gstErr)

		sunEq, err := daynight.ComputeEquatorial(daynight.Sun, m.JT)
		if err != nil {
			return nil, err
		}
		rα, rδ := solar.ApparentEquatorial(jd)
		sunSep := separationArcmin(sunEq, daynight.Equatorial{RA: rα, Dec: rδ})
		st.sunSep.add(sunSep)

		moonEq, err := daynight.ComputeEquatorial(daynight.Moon, m.JT)
		if err != nil {
			return nil, err
		}
		f := daynight.FrameAt(at)
		wλ, wβ, wΔ := moonposition.Position(jd)
		sε, cε := nutation.MeanObliquity(jd).Sincos()
		wα, wδ := coord.EclToEq(wλ, wβ, sε, cε)
		moonSep := separationArcmin(moonEq, daynight.Equatorial{RA: wα, Dec: wδ})
		st.moonSep.add(moonSep)
		st.moonDist.add(f.MoonDistanceKm - wΔ)

		gλ, gβ, _ := moon.Ecliptic(m.JT)
		lonErr := angle.Normalize180(gλ.Deg() - wλ.Deg())
		latErr := gβ.Deg() - wβ.Deg()
		st.moonLon.add(lonErr)
		st.moonLat.add(latErr)

		sunAlt := f.SunAltitude(obs)
		altErr := sunAlt - suncalc.GetPosition(at, coords.Lat, coords.Lon).Altitude*180/math.Pi
		st.sunAlt.add(altErr)

		riseErr, setErr := math.NaN(), math.NaN()
		if rs, err := daynight.SunriseSunset(coords, date); err == nil {
			ref := suncalc.GetTimes(date.Add(12*time.Hour), coords.Lat, coords.Lon)
			riseErr = diffMinutesSigned(rs.Rise, ref["sunrise"].Value)
			setErr = diffMinutesSigned(rs.Set, ref["sunset"].Value)
			st.sunrise.add(riseErr)
			st.sunset.add(setErr)
		} else {
			logger.Debug("no sunrise/sunset", "date", date.Format("2006-01-02"), "err", err)
		}

		if r, err := daynight.ComputeRiseSet(date, obs, daynight.SearchOptions{Body: daynight.Moon}); err == nil {
			// Altitude above the apparent horizon, zero at a true event.
			if r.HasRise {
				st.moonEvents.add(moon.Altitude(obs, r.Rise))
			}
			if r.HasSet {
				st.moonEvents.add(moon.Altitude(obs, r.Set))
			}
		}

		phase, _ := daynight.MoonPhaseAt(at)

		logger.Debug("sample", "time", at.Format(time.RFC3339),
			"gst_arcsec", gstErr, "sun_arcmin", sunSep, "moon_arcmin", moonSep,
			"sun_alt", altErr, "sunrise", riseErr, "sunset", setErr)

		if out != nil {
			rec := []string{
				date.Format("2006-01-02"),
				fmt.Sprintf("%.4f", gstErr),
				fmt.Sprintf("%.4f", sunSep),
				fmt.Sprintf("%.5f", lonErr),
				fmt.Sprintf("%.5f", latErr),
				fmt.Sprintf("%.1f", f.MoonDistanceKm-wΔ),
				fmt.Sprintf("%.4f", moonSep),
				fmt.Sprintf("%.4f", altErr),
				fmt.Sprintf("%.3f", riseErr),
				fmt.Sprintf("%.3f", setErr),
				phase.Name,
			}
			if err := out.Write(rec); err != nil {
				return nil, fmt.Errorf("write outcsv: %w", err)
			}
		}
	}
	return st, nil
}

func separationArcmin(a, b daynight.Equatorial) float64 {
	sa, ca := a.Dec.Sincos()
	sb, cb := b.Dec.Sincos()
	c := sa*sb + ca*cb*math.Cos(a.RA.Rad()-b.RA.Rad())
	return unit.Angle(math.Acos(math.Min(1, c))).Deg() * 60
}
