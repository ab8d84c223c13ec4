// Command daynight-validate measures the engine against reference
// ephemerides.
//
// Without -refcsv it sweeps -days days from -start and compares sidereal
// time, Sun and Moon positions with the full Meeus series, and Sun altitude
// and sunrise/sunset with suncalc. With -refcsv it compares rise/set (or
// twilight) times against a published table instead.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/soniakeys/exit"

	"github.com/thurmanmarka/daynight"
	"github.com/thurmanmarka/daynight/internal/angle"
)

func main() {
	log.SetFlags(0)
	defer exit.Handler()

	var (
		startS   = flag.String("start", "", "first date, YYYY-MM-DD (default: January 1 of this year)")
		days     = flag.Int("days", 365, "number of days to sweep")
		latS     = flag.String("lat", "0", "latitude, decimal or d:m:s degrees (north positive)")
		lonS     = flag.String("lon", "0", "longitude, decimal or d:m:s degrees (east positive, west negative)")
		tzName   = flag.String("tz", "UTC", "IANA time zone name (e.g. America/Phoenix)")
		bodyS    = flag.String("body", "sun", "celestial body for -refcsv: sun or moon")
		twilight = flag.String("twilight", "", "twilight kind for -refcsv: civil, nautical, astronomical (Sun only)")
		refCSV   = flag.String("refcsv", "", "path to reference CSV file (date,rise,set)")
		outCSV   = flag.String("outcsv", "", "optional path to write per-row error CSV")
		verbose  = flag.Bool("verbose", false, "log per-row detail instead of only the summary")
	)
	flag.Parse()

	lat, err := angle.ParseDegrees(*latS)
	if err != nil {
		exit.Log(fmt.Errorf("invalid -lat: %w", err))
	}
	lon, err := angle.ParseDegrees(*lonS)
	if err != nil {
		exit.Log(fmt.Errorf("invalid -lon: %w", err))
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		exit.Log(fmt.Errorf("lat/lon out of range: %v, %v", lat, lon))
	}
	if lat == 0 && lon == 0 {
		log.Println("warning: lat=0 lon=0 (Gulf of Guinea). Did you mean to set -lat/-lon?")
	}
	coords := daynight.Coordinates{Lat: lat, Lon: lon}

	loc, err := time.LoadLocation(*tzName)
	if err != nil {
		exit.Log(fmt.Errorf("failed to load timezone %q: %w", *tzName, err))
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if *verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	var outWriter *csv.Writer
	if *outCSV != "" {
		outFile, err := os.Create(*outCSV)
		if err != nil {
			exit.Log(fmt.Errorf("failed to create outcsv %q: %w", *outCSV, err))
		}
		defer outFile.Close()
		outWriter = csv.NewWriter(outFile)
		defer func() {
			outWriter.Flush()
			if err := outWriter.Error(); err != nil {
				log.Printf("outcsv: %v", err)
			}
		}()
	}

	if *refCSV != "" {
		runReference(*refCSV, *bodyS, *twilight, coords, loc, outWriter, *verbose)
		return
	}

	start := time.Date(time.Now().Year(), time.January, 1, 0, 0, 0, 0, loc)
	if *startS != "" {
		if start, err = time.ParseInLocation("2006-01-02", *startS, loc); err != nil {
			exit.Log(fmt.Errorf("invalid -start %q: %w", *startS, err))
		}
	}
	if *days <= 0 {
		exit.Log(fmt.Errorf("-days must be positive, got %d", *days))
	}

	if outWriter != nil {
		if err := outWriter.Write(sweepHeader); err != nil {
			exit.Log(fmt.Errorf("failed to write outcsv header: %w", err))
		}
	}
	st, err := sweep(start, *days, coords, loc, outWriter, logger)
	if err != nil {
		exit.Log(err)
	}

	fmt.Println("=== daynight validation sweep ===")
	fmt.Printf("Start:   %s, %d days\n", start.Format("2006-01-02"), *days)
	fmt.Printf("Lat/Lon: %s / %s\n", angle.FormatAngle(coords.GeoPoint().Lat, 0), angle.FormatAngle(coords.GeoPoint().Lon, 0))
	fmt.Printf("TZ:      %s\n", loc)
	for _, s := range st.all() {
		s.write(os.Stdout)
	}
}

func runReference(path, bodyS, twilight string, coords daynight.Coordinates, loc *time.Location,
	out *csv.Writer, verbose bool) {

	body, err := daynight.ParseBody(bodyS)
	if err != nil {
		exit.Log(fmt.Errorf("unsupported body %q (use sun or moon): %w", bodyS, err))
	}
	mode := refMode{body: body}
	if twilight != "" {
		if body != daynight.Sun {
			exit.Log(fmt.Errorf("twilight mode only supported for -body sun"))
		}
		if mode.kind, err = parseTwilight(twilight); err != nil {
			exit.Log(err)
		}
		mode.twilight = true
	}

	f, err := os.Open(path)
	if err != nil {
		exit.Log(fmt.Errorf("failed to open refcsv %q: %w", path, err))
	}
	defer f.Close()

	if out != nil {
		if err := out.Write(refHeader); err != nil {
			exit.Log(fmt.Errorf("failed to write outcsv header: %w", err))
		}
	}
	st, err := compareReference(f, mode, coords, loc, out, verbose)
	if err != nil {
		exit.Log(err)
	}

	fmt.Println("=== daynight reference comparison ===")
	fmt.Printf("Mode:    %s\n", mode)
	fmt.Printf("Lat/Lon: %.4f / %.4f\n", coords.Lat, coords.Lon)
	fmt.Printf("TZ:      %s\n", loc)
	fmt.Printf("Rows:    %d (processed), %d skipped\n", st.rows-st.skipped, st.skipped)
	st.rise.write(os.Stdout)
	st.set.write(os.Stdout)
}
