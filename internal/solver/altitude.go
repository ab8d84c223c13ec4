package solver

import (
	"math"
	"time"
)

// AltitudeFunc returns altitude in degrees at time t.
type AltitudeFunc func(t time.Time) float64

// EventType describes whether we are looking for a rising or setting event.
type EventType int

const (
	// CrossingUp means altitude is increasing through the target value (rise).
	CrossingUp EventType = iota
	// CrossingDown means altitude is decreasing through the target value (set).
	CrossingDown
	// CrossingAny matches either direction.
	CrossingAny
)

func (e EventType) String() string {
	switch e {
	case CrossingUp:
		return "up"
	case CrossingDown:
		return "down"
	default:
		return "any"
	}
}

// Config controls sampling density and refinement precision.
type Config struct {
	// Steps is the number of samples taken across the window, endpoints
	// included. Values below 2 are raised to 2.
	Steps int
	// Tolerance is the width of the final bisection bracket.
	Tolerance time.Duration
}

// DefaultConfig samples every 30 minutes over a day and refines to 30 seconds.
var DefaultConfig = Config{Steps: 48, Tolerance: 30 * time.Second}

// MaxStep is the coarsest sampling step ConfigForStep allows. Coarser grids
// can straddle a whole day and lose both crossings.
const MaxStep = 6 * time.Hour

// ConfigForStep returns a Config sampling window every step. A non-positive
// step means 30 minutes and steps above MaxStep are capped.
func ConfigForStep(window, step, tol time.Duration) Config {
	switch {
	case step <= 0:
		step = DefaultSampling.Step
	case step > MaxStep:
		step = MaxStep
	}
	return Config{
		Steps:     int(math.Ceil(float64(window)/float64(step))) + 1,
		Tolerance: tol,
	}
}

// Sampling is a grid density that does not depend on the window length.
// Local days run 23 or 25 hours across DST changes.
type Sampling struct {
	Step      time.Duration
	Tolerance time.Duration
}

// DefaultSampling is DefaultConfig expressed per step.
var DefaultSampling = Sampling{Step: 30 * time.Minute, Tolerance: DefaultConfig.Tolerance}

// Config returns the Config sampling window at s.Step.
func (s Sampling) Config(window time.Duration) Config {
	return ConfigForStep(window, s.Step, s.Tolerance)
}

func (c Config) normalized() Config {
	if c.Steps < 2 {
		c.Steps = 2
	}
	if c.Tolerance <= 0 {
		c.Tolerance = DefaultConfig.Tolerance
	}
	return c
}

// Result holds the output of a altitude event search.
type Result struct {
	Time time.Time // approximate time of the event
	OK   bool      // true if an event was found
}

// FindAltitudeEvent searches for the first time in [start, end] where the
// altitude function crosses targetDeg in the direction eventType.
// It brackets on the sampling grid and then bisects.
func FindAltitudeEvent(f AltitudeFunc, start, end time.Time, targetDeg float64, eventType EventType, cfg Config) Result {
	if !start.Before(end) {
		return Result{OK: false}
	}
	cfg = cfg.normalized()

	found := Result{}
	sample(f, start, end, targetDeg, cfg.Steps, func(a, b time.Time, altA, altB float64) bool {
		if !hasCrossing(altA, altB, eventType) {
			return true
		}
		found = bisect(f, a, b, altA, targetDeg, eventType, cfg.Tolerance)
		return false
	})
	return found
}

// Crossing is one refined passage through the target altitude.
type Crossing struct {
	Time      time.Time
	Direction EventType // CrossingUp or CrossingDown
}

// Scan is the result of sampling a whole window.
type Scan struct {
	Crossings []Crossing // in time order
	Min, Max  float64    // extreme sampled altitudes minus target
}

// AlwaysAbove reports whether every sample was above the target.
func (s Scan) AlwaysAbove() bool { return len(s.Crossings) == 0 && s.Min > 0 }

// AlwaysBelow reports whether every sample was at or below the target.
func (s Scan) AlwaysBelow() bool { return len(s.Crossings) == 0 && s.Max <= 0 }

// First returns the first crossing in direction dir.
func (s Scan) First(dir EventType) (Crossing, bool) {
	for _, c := range s.Crossings {
		if dir == CrossingAny || c.Direction == dir {
			return c, true
		}
	}
	return Crossing{}, false
}

// ScanAltitude samples f over [start, end] once and refines every bracketed
// crossing of targetDeg. The work is bounded by cfg.Steps evaluations plus
// one bisection per crossing.
func ScanAltitude(f AltitudeFunc, start, end time.Time, targetDeg float64, cfg Config) Scan {
	scan := Scan{Min: math.Inf(1), Max: math.Inf(-1)}
	if !start.Before(end) {
		return scan
	}
	cfg = cfg.normalized()

	first := true
	sample(f, start, end, targetDeg, cfg.Steps, func(a, b time.Time, altA, altB float64) bool {
		if first {
			scan.observe(altA)
			first = false
		}
		scan.observe(altB)

		for _, dir := range []EventType{CrossingUp, CrossingDown} {
			if !hasCrossing(altA, altB, dir) {
				continue
			}
			if r := bisect(f, a, b, altA, targetDeg, dir, cfg.Tolerance); r.OK {
				scan.Crossings = append(scan.Crossings, Crossing{Time: r.Time, Direction: dir})
			}
		}
		return true
	})
	return scan
}

func (s *Scan) observe(alt float64) {
	s.Min = math.Min(s.Min, alt)
	s.Max = math.Max(s.Max, alt)
}

// sample walks the grid calling fn with each consecutive pair of samples
// (already offset by target) until fn returns false.
func sample(f AltitudeFunc, start, end time.Time, targetDeg float64, steps int, fn func(a, b time.Time, altA, altB float64) bool) {
	interval := end.Sub(start) / time.Duration(steps-1)

	prevT := start
	prevAlt := f(prevT) - targetDeg
	for i := 1; i < steps; i++ {
		t := start.Add(time.Duration(i) * interval)
		if i == steps-1 {
			t = end
		}
		alt := f(t) - targetDeg
		if !fn(prevT, t, prevAlt, alt) {
			return
		}
		prevT, prevAlt = t, alt
	}
}

func hasCrossing(a1, a2 float64, eventType EventType) bool {
	switch eventType {
	case CrossingUp:
		return a1 < 0 && a2 >= 0
	case CrossingDown:
		return a1 > 0 && a2 <= 0
	default:
		return (a1 < 0 && a2 >= 0) || (a1 > 0 && a2 <= 0)
	}
}

func bisect(f AltitudeFunc, a, b time.Time, altA, targetDeg float64, eventType EventType, tol time.Duration) Result {
	for b.Sub(a) > tol {
		mid := a.Add(b.Sub(a) / 2)
		altM := f(mid) - targetDeg

		if hasCrossing(altA, altM, eventType) {
			b = mid
		} else {
			a = mid
			altA = altM
		}
	}

	return Result{
		Time: a.Add(b.Sub(a) / 2),
		OK:   true,
	}
}
