package main

import (
	"bytes"
	"encoding/csv"
	"io"
	"log"
	"log/slog"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/thurmanmarka/daynight"
)

func TestStats(t *testing.T) {
	var s stats
	if !math.IsNaN(s.mean()) || !math.IsNaN(s.rms()) {
		t.Error("empty stats should report NaN")
	}
	for _, v := range []float64{3, -4, math.NaN(), 1} {
		s.add(v)
	}
	if s.count != 3 || s.min != -4 || s.max != 3 {
		t.Errorf("stats = %+v", s)
	}
	if math.Abs(s.mean()-0) > 1e-12 {
		t.Errorf("mean = %v", s.mean())
	}
	if want := math.Sqrt(26.0 / 3); math.Abs(s.rms()-want) > 1e-12 {
		t.Errorf("rms = %v, want %v", s.rms(), want)
	}
}

func TestParseLocalTime(t *testing.T) {
	loc, err := time.LoadLocation("America/Phoenix")
	if err != nil {
		t.Fatal(err)
	}
	date := time.Date(2025, time.November, 28, 0, 0, 0, 0, loc)

	got, err := parseLocalTime(date, "06:45")
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2025, time.November, 28, 6, 45, 0, 0, loc); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, _ := parseLocalTime(date, "18:48:30"); got.Second() != 30 {
		t.Errorf("seconds lost: %v", got)
	}
	if got, err := parseLocalTime(date, ""); err != nil || !got.IsZero() {
		t.Errorf("empty cell: %v, %v", got, err)
	}
	if _, err := parseLocalTime(date, "25:99"); err == nil {
		t.Error("expected error for 25:99")
	}
}

func TestCompareReference(t *testing.T) {
	log.SetOutput(io.Discard)
	defer log.SetOutput(os.Stderr)

	loc, err := time.LoadLocation("America/Phoenix")
	if err != nil {
		t.Fatal(err)
	}
	const table = `date,rise,set
2025-11-28,07:11,17:21
2025-11-30,07:13,17:21
not-a-date,07:00,17:00
2025-11-29
`
	var buf bytes.Buffer
	out := csv.NewWriter(&buf)
	phoenix := daynight.Coordinates{Lat: 33.4484, Lon: -112.0740}

	st, err := compareReference(strings.NewReader(table), refMode{body: daynight.Sun}, phoenix, loc, out, false)
	if err != nil {
		t.Fatal(err)
	}
	out.Flush()

	if st.rows != 4 || st.skipped != 2 {
		t.Errorf("rows %d skipped %d", st.rows, st.skipped)
	}
	if st.rise.count != 2 || st.set.count != 2 {
		t.Fatalf("counts %d/%d", st.rise.count, st.set.count)
	}
	for _, s := range []*stats{&st.rise, &st.set} {
		if math.Abs(s.min) > 2 || math.Abs(s.max) > 2 {
			t.Errorf("%s: %.2f..%.2f minutes", s.name, s.min, s.max)
		}
	}
	if n := strings.Count(buf.String(), "\n"); n != 2 {
		t.Errorf("outcsv has %d rows, want 2:\n%s", n, buf.String())
	}
}

func TestCompareReference_Twilight(t *testing.T) {
	loc, err := time.LoadLocation("America/Phoenix")
	if err != nil {
		t.Fatal(err)
	}
	kind, err := parseTwilight("Nautical")
	if err != nil {
		t.Fatal(err)
	}
	mode := refMode{body: daynight.Sun, twilight: true, kind: kind}
	if mode.String() != "SUN (NAUTICAL TWILIGHT)" {
		t.Errorf("mode = %q", mode)
	}
	st, err := compareReference(strings.NewReader("2025-11-28,06:14,18:18\n"), mode,
		daynight.Coordinates{Lat: 33.4484, Lon: -112.0740}, loc, nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if st.rise.count != 1 || math.Abs(st.rise.max) > 3 || math.Abs(st.set.max) > 3 {
		t.Errorf("dawn %+v dusk %+v", st.rise, st.set)
	}
	if _, err := parseTwilight("golden"); err == nil {
		t.Error("expected error for unknown twilight kind")
	}
}

func TestSweep(t *testing.T) {
	var buf bytes.Buffer
	out := csv.NewWriter(&buf)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	st, err := sweep(start, 30, daynight.Coordinates{Lat: 51.4779, Lon: -0.0015}, time.UTC, out, logger)
	if err != nil {
		t.Fatal(err)
	}
	out.Flush()

	if st.sunSep.count != 30 || st.moonSep.count != 30 {
		t.Fatalf("counts %d/%d", st.sunSep.count, st.moonSep.count)
	}
	// Limits are in each stat's own unit.
	checks := []struct {
		s   *stats
		max float64
	}{
		{&st.gst, 0.1},
		{&st.sunSep, 1},
		{&st.moonSep, 6},
		{&st.moonLon, 0.05},
		{&st.moonLat, 0.05},
		{&st.moonDist, 100},
		{&st.sunAlt, 0.1},
		{&st.sunrise, 3},
		{&st.sunset, 3},
		{&st.moonEvents, 0.1},
	}
	for _, c := range checks {
		if math.Abs(c.s.min) > c.max || math.Abs(c.s.max) > c.max {
			t.Errorf("%s: %.4f..%.4f exceeds %v %s", c.s.name, c.s.min, c.s.max, c.max, c.s.unit)
		}
	}
	if n := strings.Count(buf.String(), "\n"); n != 30 {
		t.Errorf("outcsv has %d rows, want 30", n)
	}
}
