package daynight

import (
	"fmt"
	"time"

	"github.com/thurmanmarka/daynight/internal/moon"
	"github.com/thurmanmarka/daynight/internal/solver"
	"github.com/thurmanmarka/daynight/internal/sun"
)

// DayState classifies a searched day.
type DayState int

const (
	// Normal means at least one crossing was found.
	Normal DayState = iota
	// PolarDay means the body stayed above the target altitude all day.
	PolarDay
	// PolarNight means the body stayed below the target altitude all day.
	PolarNight
)

func (s DayState) String() string {
	switch s {
	case PolarDay:
		return "polar day"
	case PolarNight:
		return "polar night"
	}
	return "normal"
}

// SearchOptions tunes ComputeRiseSet. The zero value searches for the Sun's
// centre crossing 0° with a 30 minute step and 30 second precision.
type SearchOptions struct {
	Body      Body
	Step      time.Duration // sampling step, default 30m, at most 6h
	Tolerance time.Duration // refinement precision, default 30s
	// TargetAlt is the crossing altitude in degrees. For the Moon it is
	// measured from the apparent horizon, after parallax, refraction and
	// semidiameter; for the Sun it is geometric.
	TargetAlt float64
}

func (o SearchOptions) sampling() solver.Sampling {
	s := solver.DefaultSampling
	if o.Step > 0 {
		s.Step = o.Step
	}
	if o.Tolerance > 0 {
		s.Tolerance = o.Tolerance
	}
	return s
}

// RiseSetResult is the outcome of one day's search. Rise and Set are only
// meaningful when HasRise and HasSet are true. When neither crossing exists,
// State tells polar day from polar night.
type RiseSetResult struct {
	Rise    time.Time
	Set     time.Time
	HasRise bool
	HasSet  bool
	State   DayState
	// Extreme sampled altitudes of the day, in the same frame as TargetAlt.
	MinAltitude float64
	MaxAltitude float64
}

// ComputeRiseSet searches the local calendar day containing t (midnight to
// midnight in t's Location) for the instants where the body crosses
// opts.TargetAlt at obs. Times are returned in t's Location.
//
// A day with no crossing is not an error; see RiseSetResult.State.
func ComputeRiseSet(t time.Time, obs GeoPoint, opts SearchOptions) (RiseSetResult, error) {
	var scan solver.Scan
	switch opts.Body {
	case Sun:
		scan = sun.ScanDay(obs, t, opts.TargetAlt, opts.sampling())
	case Moon:
		scan = moon.ScanDay(obs, t, opts.TargetAlt, opts.sampling())
	default:
		return RiseSetResult{}, fmt.Errorf("%w: %v", ErrNotImplemented, opts.Body)
	}
	return resultFromScan(scan, opts.TargetAlt, t.Location()), nil
}

func resultFromScan(scan solver.Scan, target float64, loc *time.Location) RiseSetResult {
	r := RiseSetResult{
		MinAltitude: scan.Min + target,
		MaxAltitude: scan.Max + target,
	}
	if c, ok := scan.First(solver.CrossingUp); ok {
		r.Rise, r.HasRise = c.Time.In(loc), true
	}
	if c, ok := scan.First(solver.CrossingDown); ok {
		r.Set, r.HasSet = c.Time.In(loc), true
	}
	switch {
	case scan.AlwaysAbove():
		r.State = PolarDay
	case scan.AlwaysBelow():
		r.State = PolarNight
	}
	return r
}

// TwilightKind identifies the type of twilight based on the Sun's altitude
// below the horizon.
type TwilightKind int

const (
	// TwilightCivil corresponds to the Sun's center at -6 degrees altitude.
	TwilightCivil TwilightKind = iota

	// TwilightNautical corresponds to the Sun's center at -12 degrees altitude.
	TwilightNautical

	// TwilightAstronomical corresponds to the Sun's center at -18 degrees altitude.
	TwilightAstronomical
)

// Altitude returns the Sun altitude in degrees that defines the twilight.
func (k TwilightKind) Altitude() (float64, error) {
	switch k {
	case TwilightCivil:
		return -6, nil
	case TwilightNautical:
		return -12, nil
	case TwilightAstronomical:
		return -18, nil
	}
	return 0, fmt.Errorf("unknown TwilightKind: %d", k)
}

// RiseSet holds rise and set times of a body on a given date.
type RiseSet struct {
	Rise time.Time
	Set  time.Time
}

// PhaseWindow represents a continuous time interval where the Sun's altitude
// stays within a particular range (e.g. golden hour or blue hour).
type PhaseWindow struct {
	Start time.Time
	End   time.Time
}

// DaylightPhases holds the morning and evening windows for a given phase
// (e.g. golden hour or blue hour).
type DaylightPhases struct {
	// Morning is the interval after dawn / sunrise.
	Morning PhaseWindow
	// Evening is the interval before dusk / sunset.
	Evening PhaseWindow

	// HasMorning / HasEvening indicate whether the corresponding window
	// exists on this date at this location (high latitudes can be weird).
	HasMorning bool
	HasEvening bool
}

// RiseSetFor returns rise and set times for the given body and location on
// the local calendar date of date. The Sun uses the standard -0.833° horizon,
// the Moon its distance-dependent apparent horizon with parallax.
//
// ErrNoRiseNoSet is returned when neither event occurs. A missing single
// event leaves the corresponding field zero.
func RiseSetFor(body Body, loc Coordinates, date time.Time) (RiseSet, error) {
	obs := loc.GeoPoint()
	var rs RiseSet
	var okRise, okSet bool
	switch body {
	case Sun:
		rs.Rise, rs.Set, okRise, okSet = sun.RiseSetForDate(obs, date, sun.StandardZenith)
	case Moon:
		var m moon.RiseSet
		m, okRise, okSet = moon.RiseSetForDate(obs, date)
		rs.Rise, rs.Set = m.Rise, m.Set
	default:
		return RiseSet{}, fmt.Errorf("%w: %v", ErrNotImplemented, body)
	}
	return rs.in(date.Location(), okRise, okSet)
}

// in converts the found events to loc, zeroing the missing ones.
func (rs RiseSet) in(loc *time.Location, okRise, okSet bool) (RiseSet, error) {
	if !okRise && !okSet {
		return RiseSet{}, ErrNoRiseNoSet
	}
	var out RiseSet
	if okRise {
		out.Rise = rs.Rise.In(loc)
	}
	if okSet {
		out.Set = rs.Set.In(loc)
	}
	return out, nil
}

// SunriseSunset returns sunrise and sunset for the Sun at the given location
// and date.
func SunriseSunset(loc Coordinates, date time.Time) (RiseSet, error) {
	return RiseSetFor(Sun, loc, date)
}

// DaylightHours returns the hours between sunrise and sunset on date.
//
// Polar day gives 24 and polar night 0, both without error. If only one of
// sunrise or sunset occurs, it returns 0 and ErrNoRiseNoSet.
func DaylightHours(loc Coordinates, date time.Time) (float64, error) {
	r, err := ComputeRiseSet(date, loc.GeoPoint(), SearchOptions{TargetAlt: sun.ApparentHorizonAltitude})
	if err != nil {
		return 0, err
	}
	switch {
	case r.State == PolarDay:
		return 24, nil
	case r.State == PolarNight:
		return 0, nil
	case !r.HasRise || !r.HasSet:
		return 0, ErrNoRiseNoSet
	}
	return r.Set.Sub(r.Rise).Hours(), nil
}

// TwilightFor computes twilight times (dawn and dusk) of the given kind for
// a location and local calendar date. The returned RiseSet uses Rise as the
// "dawn" time (upward crossing of the twilight altitude) and Set as the
// "dusk" time (downward crossing).
func TwilightFor(loc Coordinates, date time.Time, kind TwilightKind) (RiseSet, error) {
	alt, err := kind.Altitude()
	if err != nil {
		return RiseSet{}, err
	}
	var rs RiseSet
	var okDawn, okDusk bool
	rs.Rise, rs.Set, okDawn, okDusk = sun.TwilightForDate(loc.GeoPoint(), date, alt)
	return rs.in(date.Location(), okDawn, okDusk)
}

// GoldenHourFor computes the golden hour intervals for the given local
// calendar date and location: the Sun's centre between -4° and +6°.
//
// If neither morning nor evening golden hour exists, ErrNoRiseNoSet is
// returned.
func GoldenHourFor(loc Coordinates, date time.Time) (DaylightPhases, error) {
	return phasesBetween(loc, date, -4, 6)
}

// BlueHourFor computes the blue hour intervals for the given local calendar
// date and location: the Sun's centre between -6° and -4°.
//
// If neither morning nor evening blue hour exists, ErrNoRiseNoSet is returned.
func BlueHourFor(loc Coordinates, date time.Time) (DaylightPhases, error) {
	return phasesBetween(loc, date, -6, -4)
}

// phasesBetween finds the morning window (Sun climbing from low to high) and
// the evening window (descending from high to low).
func phasesBetween(loc Coordinates, date time.Time, lowAlt, highAlt float64) (DaylightPhases, error) {
	obs := loc.GeoPoint()
	low, err := ComputeRiseSet(date, obs, SearchOptions{TargetAlt: lowAlt})
	if err != nil {
		return DaylightPhases{}, err
	}
	high, err := ComputeRiseSet(date, obs, SearchOptions{TargetAlt: highAlt})
	if err != nil {
		return DaylightPhases{}, err
	}

	var phases DaylightPhases
	if low.HasRise && high.HasRise && high.Rise.After(low.Rise) {
		phases.Morning = PhaseWindow{Start: low.Rise, End: high.Rise}
		phases.HasMorning = true
	}
	if high.HasSet && low.HasSet && low.Set.After(high.Set) {
		phases.Evening = PhaseWindow{Start: high.Set, End: low.Set}
		phases.HasEvening = true
	}

	if !phases.HasMorning && !phases.HasEvening {
		return DaylightPhases{}, ErrNoRiseNoSet
	}
	return phases, nil
}
