package main

import (
	"fmt"
	"io"
	"math"
	"time"
)

// stats accumulates a running min/max/mean and RMS. NaN samples mean
// "no data" and are ignored.
type stats struct {
	name  string
	unit  string
	count int
	sum   float64
	sumSq float64
	min   float64
	max   float64
}

func (s *stats) add(v float64) {
	if math.IsNaN(v) {
		return
	}
	if s.count == 0 {
		s.min, s.max = v, v
	} else {
		if v < s.min {
			s.min = v
		}
		if v > s.max {
			s.max = v
		}
	}
	s.sum += v
	s.sumSq += v * v
	s.count++
}

func (s *stats) mean() float64 {
	if s.count == 0 {
		return math.NaN()
	}
	return s.sum / float64(s.count)
}

func (s *stats) rms() float64 {
	if s.count == 0 {
		return math.NaN()
	}
	return math.Sqrt(s.sumSq / float64(s.count))
}

func (s *stats) write(w io.Writer) {
	fmt.Fprintf(w, "\n%s (%s):\n", s.name, s.unit)
	if s.count == 0 {
		fmt.Fprintln(w, "  no data")
		return
	}
	fmt.Fprintf(w, "  count: %d\n", s.count)
	fmt.Fprintf(w, "  min:   %.4f\n", s.min)
	fmt.Fprintf(w, "  max:   %.4f\n", s.max)
	fmt.Fprintf(w, "  mean:  %.4f\n", s.mean())
	fmt.Fprintf(w, "  rms:   %.4f\n", s.rms())
}

// diffMinutesSigned returns a-b in minutes, NaN if either is zero.
func diffMinutesSigned(a, b time.Time) float64 {
	if a.IsZero() || b.IsZero() {
		return math.NaN()
	}
	return a.Sub(b).Minutes()
}
