package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/soniakeys/exit"
	"github.com/soniakeys/unit"

	"github.com/thurmanmarka/daynight"
	"github.com/thurmanmarka/daynight/internal/angle"
	"github.com/thurmanmarka/daynight/internal/config"
	"github.com/thurmanmarka/daynight/internal/sun"
)

func main() {
	log.SetFlags(0)
	defer exit.Handler()

	// No args or a leading flag means rise/set mode; otherwise the first
	// arg names a subcommand.
	if len(os.Args) < 2 || strings.HasPrefix(os.Args[1], "-") {
		runRiseSet(os.Args[1:])
		return
	}

	switch os.Args[1] {
	case "riseset":
		runRiseSet(os.Args[2:])
	case "position":
		runPosition(os.Args[2:])
	case "phase":
		runPhase(os.Args[2:])
	case "track":
		runTrack(os.Args[2:])
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n\n", os.Args[1])
		usage()
		exit.Log(fmt.Errorf("unknown subcommand %q", os.Args[1]))
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `daynight – Sun and Moon positions, rise/set and day/night state

Usage:
  daynight [riseset] [flags]   # Sun/Moon rise/set for a local date (default)
  daynight position [flags]    # RA/Dec, sub-point, altitude and band at an instant
  daynight phase [flags]       # Moon phase / illumination
  daynight track [flags]       # sub-point ground track around an instant

Every subcommand accepts -config FILE (TOML observer and search settings)
and -v for diagnostic logging. Use "daynight <subcommand> -h" for flags.
`)
}

// ---------------------
// Shared site handling
// ---------------------

// siteFlags are the observer flags common to the subcommands. Latitude and
// longitude accept decimal or sexagesimal degrees.
type siteFlags struct {
	fs      *flag.FlagSet
	lat     *string
	lon     *string
	tz      *string
	cfgPath *string
	verbose *bool
}

func addSiteFlags(fs *flag.FlagSet) *siteFlags {
	return &siteFlags{
		fs:      fs,
		lat:     fs.String("lat", "0", "latitude, decimal or d:m:s degrees (north positive)"),
		lon:     fs.String("lon", "0", "longitude, decimal or d:m:s degrees (east positive, west negative)"),
		tz:      fs.String("tz", "", "IANA time zone name (default from -config, else Local)"),
		cfgPath: fs.String("config", "", "TOML file with [observer] and [search] settings"),
		verbose: fs.Bool("v", false, "log diagnostic detail to stderr"),
	}
}

// site is the resolved observer.
type site struct {
	coords daynight.Coordinates
	loc    *time.Location
	search config.Search
	logger *slog.Logger
}

// resolve merges the config file, if any, with explicitly set flags.
func (s *siteFlags) resolve() site {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if *s.verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	cfg := config.Default()
	cfg.Observer.TZ = ""
	if *s.cfgPath != "" {
		var err error
		if cfg, err = config.Load(*s.cfgPath); err != nil {
			exit.Log(err)
		}
		logger.Debug("loaded config", "path", *s.cfgPath,
			"lat", float64(cfg.Observer.Lat), "lon", float64(cfg.Observer.Lon),
			"tz", cfg.Observer.TZ)
	}

	set := map[string]bool{}
	s.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["lat"] {
		v, err := angle.ParseDegrees(*s.lat)
		if err != nil {
			exit.Log(fmt.Errorf("invalid -lat: %w", err))
		}
		cfg.Observer.Lat = config.Degrees(v)
	}
	if set["lon"] {
		v, err := angle.ParseDegrees(*s.lon)
		if err != nil {
			exit.Log(fmt.Errorf("invalid -lon: %w", err))
		}
		cfg.Observer.Lon = config.Degrees(v)
	}
	if set["tz"] {
		cfg.Observer.TZ = *s.tz
	}

	if err := cfg.Validate(); err != nil {
		exit.Log(err)
	}
	loc := time.Local
	if cfg.Observer.TZ != "" {
		loc, _ = cfg.Location()
	}

	if cfg.Observer.Lat == 0 && cfg.Observer.Lon == 0 {
		log.Println("warning: lat=0 lon=0 (Gulf of Guinea). Use -lat and -lon or -config to set a real location.")
	}
	logger.Debug("observer", "lat", float64(cfg.Observer.Lat), "lon", float64(cfg.Observer.Lon), "tz", loc.String())

	return site{
		coords: daynight.Coordinates{
			Lat: float64(cfg.Observer.Lat),
			Lon: float64(cfg.Observer.Lon),
		},
		loc:    loc,
		search: cfg.Search,
		logger: logger,
	}
}

func parseFlags(fs *flag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		exit.Log(fmt.Errorf("failed to parse flags: %w", err))
	}
}

// parseInstant reads s in loc using a few common layouts; empty means now.
func parseInstant(s string, loc *time.Location) time.Time {
	if s == "" {
		return time.Now().In(loc)
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		"2006-01-02",
	}
	var parseErr error
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t
		}
		parseErr = err
	}
	exit.Log(fmt.Errorf("could not parse -time %q: %w", s, parseErr))
	return time.Time{}
}

// parseDate reads a YYYY-MM-DD date in loc, validating the fields; empty
// means today in loc.
func parseDate(s string, loc *time.Location) time.Time {
	if s == "" {
		now := time.Now().In(loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	}
	var y, m, d int
	if _, err := fmt.Sscanf(s, "%d-%d-%d", &y, &m, &d); err != nil {
		exit.Log(fmt.Errorf("invalid -date %q: %w", s, err))
	}
	t, err := daynight.Timestamp(y, time.Month(m), d, 0, 0, 0, loc)
	if err != nil {
		exit.Log(fmt.Errorf("invalid -date %q: %w", s, err))
	}
	return t
}

func parseBody(s string) daynight.Body {
	b, err := daynight.ParseBody(s)
	if err != nil {
		exit.Log(fmt.Errorf("unsupported body %q (use sun or moon): %w", s, err))
	}
	return b
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		exit.Log(fmt.Errorf("failed to encode JSON: %w", err))
	}
}

// ---------------------
// Rise/set (default) mode
// ---------------------

func runRiseSet(args []string) {
	fs := flag.NewFlagSet("riseset", flag.ExitOnError)
	sf := addSiteFlags(fs)
	dateS := fs.String("date", "", "date in YYYY-MM-DD (optional, defaults to today in -tz)")
	bodyS := fs.String("body", "sun", "celestial body: sun or moon")
	event := fs.String("event", "both", "event: rise, set, or both")
	step := fs.Duration("step", 0, "search sampling step (default from -config, else 30m)")
	jsonOut := fs.Bool("json", false, "output result as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: daynight [riseset] [flags]

Flags:
`)
		fs.PrintDefaults()
	}
	parseFlags(fs, args)
	st := sf.resolve()

	date := parseDate(*dateS, st.loc)
	body := parseBody(*bodyS)

	opts := daynight.SearchOptions{
		Body:      body,
		Step:      time.Duration(st.search.Step),
		Tolerance: time.Duration(st.search.Tolerance),
	}
	if *step > 0 {
		opts.Step = *step
	}
	if body == daynight.Sun {
		opts.TargetAlt = sun.ApparentHorizonAltitude
	}
	st.logger.Debug("searching", "body", body, "date", date.Format("2006-01-02"),
		"step", opts.Step, "tolerance", opts.Tolerance, "target", opts.TargetAlt)

	r, err := daynight.ComputeRiseSet(date, st.coords.GeoPoint(), opts)
	if err != nil {
		exit.Log(fmt.Errorf("error computing rise/set: %w", err))
	}
	st.logger.Debug("scan", "state", r.State, "min", r.MinAltitude, "max", r.MaxAltitude)

	e := strings.ToLower(*event)
	switch e {
	case "rise", "set", "both":
	default:
		log.Printf("unknown event %q, showing both", *event)
		e = "both"
	}

	if *jsonOut {
		out := riseSetJSON{
			Body:        body.String(),
			Latitude:    st.coords.Lat,
			Longitude:   st.coords.Lon,
			Date:        date.Format("2006-01-02"),
			Timezone:    st.loc.String(),
			State:       r.State.String(),
			MinAltitude: r.MinAltitude,
			MaxAltitude: r.MaxAltitude,
		}
		if r.HasRise && e != "set" {
			out.Rise = &r.Rise
		}
		if r.HasSet && e != "rise" {
			out.Set = &r.Set
		}
		printJSON(out)
		return
	}

	name := strings.ToUpper(body.String()[:1]) + body.String()[1:]
	fmt.Printf("%s rise/set for lat=%.6f lon=%.6f\n", name, st.coords.Lat, st.coords.Lon)
	fmt.Printf("Date: %s (%s)\n\n", date.Format("2006-01-02"), st.loc)
	if e != "set" {
		fmt.Printf("Rise: %s\n", eventString(r.HasRise, r.Rise))
	}
	if e != "rise" {
		fmt.Printf("Set:  %s\n", eventString(r.HasSet, r.Set))
	}
	if r.State != daynight.Normal {
		fmt.Printf("\n%s (altitude %.2f° to %.2f°)\n", r.State, r.MinAltitude, r.MaxAltitude)
	}
}

func eventString(ok bool, t time.Time) string {
	if !ok {
		return "none"
	}
	return t.Format(time.RFC3339)
}

type riseSetJSON struct {
	Body        string     `json:"body"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	Date        string     `json:"date"` // YYYY-MM-DD
	Rise        *time.Time `json:"rise,omitempty"`
	Set         *time.Time `json:"set,omitempty"`
	Timezone    string     `json:"timezone"`
	State       string     `json:"state"`
	MinAltitude float64    `json:"min_altitude"`
	MaxAltitude float64    `json:"max_altitude"`
}

// ---------------------
// Position subcommand
// ---------------------

func runPosition(args []string) {
	fs := flag.NewFlagSet("position", flag.ExitOnError)
	sf := addSiteFlags(fs)
	timeStr := fs.String("time", "", "time in RFC3339 or 'YYYY-MM-DDTHH:MM' (optional, defaults to now in -tz)")
	bodyS := fs.String("body", "sun", "celestial body: sun or moon")
	jsonOut := fs.Bool("json", false, "output result as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: daynight position [flags]

Flags:
`)
		fs.PrintDefaults()
	}
	parseFlags(fs, args)
	st := sf.resolve()

	t := parseInstant(*timeStr, st.loc)
	body := parseBody(*bodyS)

	f := daynight.FrameAt(t)
	eq, point := f.Sun, f.SunPoint
	if body == daynight.Moon {
		eq, point = f.Moon, f.MoonPoint
	}
	obs := st.coords.GeoPoint()
	hz := daynight.ComputeHorizontal(eq, f.Moment, obs)
	band := f.Illumination(obs)

	if *jsonOut {
		out := positionJSON{
			Body:        body.String(),
			Time:        t,
			JD:          f.Moment.JD,
			GSTHours:    f.GST.Deg() / 15,
			RAHours:     eq.RA.Hour(),
			DecDegrees:  eq.Dec.Deg(),
			SubLat:      point.LatDeg(),
			SubLon:      point.LonDeg(),
			Altitude:    hz.Alt,
			Azimuth:     hz.Az,
			Band:        band.String(),
			Latitude:    st.coords.Lat,
			Longitude:   st.coords.Lon,
			MoonDistKm:  f.MoonDistanceKm,
			SunAltitude: f.SunAltitude(obs),
		}
		printJSON(out)
		return
	}

	fmt.Printf("%s at %s\n", body, t.Format(time.RFC3339))
	fmt.Printf("  JD         : %.6f\n", f.Moment.JD)
	fmt.Printf("  GST        : %s\n", angle.FormatHourAngle(unit.HourAngle(f.GST), 2))
	fmt.Printf("  RA         : %s\n", angle.FormatRA(eq.RA, 2))
	fmt.Printf("  Dec        : %s\n", angle.FormatAngle(eq.Dec, 1))
	fmt.Printf("  Sub-point  : %s %s\n", angle.FormatLat(point.LatDeg()), angle.FormatLon(point.LonDeg()))
	if body == daynight.Moon {
		fmt.Printf("  Distance   : %.0f km\n", f.MoonDistanceKm)
	}
	fmt.Printf("  Altitude   : %.3f° (geocentric)\n", hz.Alt)
	fmt.Printf("  Azimuth    : %.3f°\n", hz.Az)
	fmt.Printf("  Observer   : lat=%.6f lon=%.6f, %s\n", st.coords.Lat, st.coords.Lon, band)
}

type positionJSON struct {
	Body        string    `json:"body"`
	Time        time.Time `json:"time"`
	JD          float64   `json:"jd"`
	GSTHours    float64   `json:"gst_hours"`
	RAHours     float64   `json:"ra_hours"`
	DecDegrees  float64   `json:"dec_degrees"`
	SubLat      float64   `json:"sub_lat"`
	SubLon      float64   `json:"sub_lon"`
	MoonDistKm  float64   `json:"moon_distance_km"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Altitude    float64   `json:"altitude"`
	Azimuth     float64   `json:"azimuth"`
	SunAltitude float64   `json:"sun_altitude"`
	Band        string    `json:"band"`
}

// ---------------------
// Phase subcommand
// ---------------------

func runPhase(args []string) {
	fs := flag.NewFlagSet("phase", flag.ExitOnError)
	tzName := fs.String("tz", "UTC", "IANA time zone name (e.g. America/Phoenix)")
	timeStr := fs.String("time", "", "time in RFC3339 or 'YYYY-MM-DDTHH:MM' (optional, defaults to now in tz)")
	jsonOut := fs.Bool("json", false, "output result as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: daynight phase [flags]

Flags:
`)
		fs.PrintDefaults()
	}
	parseFlags(fs, args)

	loc, err := time.LoadLocation(*tzName)
	if err != nil {
		exit.Log(fmt.Errorf("invalid time zone %q: %w", *tzName, err))
	}
	phase, err := daynight.MoonPhaseAt(parseInstant(*timeStr, loc))
	if err != nil {
		exit.Log(fmt.Errorf("MoonPhaseAt failed: %w", err))
	}

	if *jsonOut {
		printJSON(phase)
		return
	}
	fmt.Printf("Moon phase at %s (%s)\n", phase.Time.Format(time.RFC3339), loc.String())
	fmt.Printf("  Name       : %s\n", phase.Name)
	fmt.Printf("  Fraction   : %.3f (%.1f%% illuminated)\n", phase.Fraction, phase.Fraction*100)
	fmt.Printf("  Elongation : %.2f°\n", phase.Elongation)
	if phase.Waxing {
		fmt.Printf("  Trend      : Waxing (illumination increasing)\n")
	} else {
		fmt.Printf("  Trend      : Waning (illumination decreasing)\n")
	}
}

// ---------------------
// Track subcommand
// ---------------------

func runTrack(args []string) {
	fs := flag.NewFlagSet("track", flag.ExitOnError)
	tzName := fs.String("tz", "UTC", "IANA time zone name used to read -time")
	timeStr := fs.String("time", "", "centre time in RFC3339 or 'YYYY-MM-DDTHH:MM' (optional, defaults to now)")
	bodyS := fs.String("body", "sun", "celestial body: sun or moon")
	span := fs.Duration("span", 12*time.Hour, "track extends this far either side of -time")
	step := fs.Duration("step", time.Hour, "spacing of track points")
	jsonOut := fs.Bool("json", false, "output result as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: daynight track [flags]

Flags:
`)
		fs.PrintDefaults()
	}
	parseFlags(fs, args)

	loc, err := time.LoadLocation(*tzName)
	if err != nil {
		exit.Log(fmt.Errorf("invalid time zone %q: %w", *tzName, err))
	}
	t := parseInstant(*timeStr, loc)
	body := parseBody(*bodyS)

	pts, err := daynight.GroundTrack(body, t, *span, *step)
	if err != nil {
		exit.Log(err)
	}
	k := (len(pts) - 1) / 2

	type trackPoint struct {
		Time time.Time `json:"time"`
		Lat  float64   `json:"lat"`
		Lon  float64   `json:"lon"`
	}
	out := make([]trackPoint, len(pts))
	for i, p := range pts {
		out[i] = trackPoint{
			Time: t.Add(time.Duration(i-k) * *step),
			Lat:  p.LatDeg(),
			Lon:  p.LonDeg(),
		}
	}

	if *jsonOut {
		printJSON(out)
		return
	}
	fmt.Printf("%s ground track, %v either side of %s\n", body, *span, t.Format(time.RFC3339))
	for _, p := range out {
		fmt.Printf("  %s  %8.3f  %9.3f\n", p.Time.Format(time.RFC3339), p.Lat, p.Lon)
	}
}
