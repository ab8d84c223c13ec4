package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/thurmanmarka/daynight"
)

// refMode selects what a reference table lists.
type refMode struct {
	body     daynight.Body
	twilight bool
	kind     daynight.TwilightKind
}

func (m refMode) String() string {
	if !m.twilight {
		return strings.ToUpper(m.body.String())
	}
	switch m.kind {
	case daynight.TwilightCivil:
		return "SUN (CIVIL TWILIGHT)"
	case daynight.TwilightNautical:
		return "SUN (NAUTICAL TWILIGHT)"
	case daynight.TwilightAstronomical:
		return "SUN (ASTRONOMICAL TWILIGHT)"
	}
	return "SUN (UNKNOWN TWILIGHT)"
}

func parseTwilight(s string) (daynight.TwilightKind, error) {
	switch strings.ToLower(s) {
	case "civil":
		return daynight.TwilightCivil, nil
	case "nautical":
		return daynight.TwilightNautical, nil
	case "astronomical":
		return daynight.TwilightAstronomical, nil
	}
	return 0, fmt.Errorf("unknown twilight kind %q (use civil, nautical, or astronomical)", s)
}

type refStats struct {
	rise    stats
	set     stats
	rows    int
	skipped int
}

var refHeader = []string{
	"date", "mode", "rise_signed", "set_signed",
	"phase_fraction", "phase_name", "phase_elongation", "phase_waxing",
}

// compareReference reads a reference table and compares each row with the
// engine. The CSV format is
//
//	date,rise,set
//	2025-01-01,07:32,17:12
//
// with the date as YYYY-MM-DD and rise/set as local HH:MM or HH:MM:SS in
// loc. An empty rise or set cell means the reference has no such event. A
// first row starting with "date" is a header.
func compareReference(r io.Reader, mode refMode, coords daynight.Coordinates, loc *time.Location,
	out *csv.Writer, verbose bool) (*refStats, error) {

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // allow variable, we validate
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty CSV file")
	}

	startIdx := 0
	if len(records[0]) >= 1 && strings.EqualFold(strings.TrimSpace(records[0][0]), "date") {
		startIdx = 1
	}

	st := &refStats{
		rise: stats{name: "Rise signed error, ours - ref", unit: "minutes"},
		set:  stats{name: "Set signed error, ours - ref", unit: "minutes"},
	}

	for i := startIdx; i < len(records); i++ {
		row := records[i]
		st.rows++

		if len(row) < 3 {
			log.Printf("row %d: expected at least 3 columns (date,rise,set), got %d, skipping", i+1, len(row))
			st.skipped++
			continue
		}
		dateStr := strings.TrimSpace(row[0])
		riseStr := strings.TrimSpace(row[1])
		setStr := strings.TrimSpace(row[2])

		date, err := time.ParseInLocation("2006-01-02", dateStr, loc)
		if err != nil {
			log.Printf("row %d: invalid date %q: %v, skipping", i+1, dateStr, err)
			st.skipped++
			continue
		}
		refRise, err := parseLocalTime(date, riseStr)
		if err != nil {
			log.Printf("row %d: invalid rise time %q: %v, skipping", i+1, riseStr, err)
			st.skipped++
			continue
		}
		refSet, err := parseLocalTime(date, setStr)
		if err != nil {
			log.Printf("row %d: invalid set time %q: %v, skipping", i+1, setStr, err)
			st.skipped++
			continue
		}

		var rs daynight.RiseSet
		if mode.twilight {
			// "rise" is dawn and "set" is dusk.
			rs, err = daynight.TwilightFor(coords, date, mode.kind)
		} else {
			rs, err = daynight.RiseSetFor(mode.body, coords, date)
		}
		if err != nil {
			log.Printf("row %d: %v, skipping", i+1, err)
			st.skipped++
			continue
		}

		riseErr := diffMinutesSigned(rs.Rise, refRise)
		setErr := diffMinutesSigned(rs.Set, refSet)
		st.rise.add(riseErr)
		st.set.add(setErr)

		if verbose {
			fmt.Printf("%s %s: rise err=%.2f min (got=%s ref=%s), set err=%.2f min (got=%s ref=%s)\n",
				dateStr, mode,
				riseErr, clock(rs.Rise, loc), clock(refRise, loc),
				setErr, clock(rs.Set, loc), clock(refSet, loc))
		}

		if out == nil {
			continue
		}
		var phaseFraction, phaseName, phaseElongation, phaseWaxing string
		if mode.body == daynight.Moon && !mode.twilight {
			// Phase at local noon for this date.
			mp, err := daynight.MoonPhaseAt(time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, loc))
			if err == nil {
				phaseFraction = fmt.Sprintf("%.6f", mp.Fraction)
				phaseName = mp.Name
				phaseElongation = fmt.Sprintf("%.3f", mp.Elongation)
				phaseWaxing = "waning"
				if mp.Waxing {
					phaseWaxing = "waxing"
				}
			}
		}
		rec := []string{
			dateStr,
			mode.String(),
			fmt.Sprintf("%.6f", riseErr),
			fmt.Sprintf("%.6f", setErr),
			phaseFraction,
			phaseName,
			phaseElongation,
			phaseWaxing,
		}
		if err := out.Write(rec); err != nil {
			return nil, fmt.Errorf("write outcsv: %w", err)
		}
	}
	return st, nil
}

// parseLocalTime combines an HH:MM or HH:MM:SS clock reading with date's
// calendar day and zone. An empty string gives the zero Time.
func parseLocalTime(date time.Time, hhmm string) (time.Time, error) {
	if hhmm == "" || hhmm == "-" {
		return time.Time{}, nil
	}
	layout := "15:04"
	if strings.Count(hhmm, ":") == 2 {
		layout = "15:04:05"
	}
	parsed, err := time.Parse(layout, hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), 0, date.Location()), nil
}

func clock(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "--:--"
	}
	return t.In(loc).Format("15:04")
}
