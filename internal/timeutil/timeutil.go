package timeutil

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/unit"

	"github.com/thurmanmarka/daynight/internal/angle"
)

// ErrInvalidDate is returned by Civil for calendar fields that do not name a
// real proleptic Gregorian date and time.
var ErrInvalidDate = errors.New("invalid calendar date")

// JulianMoment is a timestamp expressed on the Julian day scale.
type JulianMoment struct {
	JD float64 // Julian day, fraction encodes time of day (UT)
	JT float64 // Julian centuries since J2000.0
}

// ToJulianMoment converts t (any zone; evaluated as UTC) to JD and JT.
func ToJulianMoment(t time.Time) JulianMoment {
	jd := TimeToJD(t)
	return JulianMoment{JD: jd, JT: JulianCenturies(jd)}
}

// MomentFromJD builds a JulianMoment from a Julian day.
func MomentFromJD(jd float64) JulianMoment {
	return JulianMoment{JD: jd, JT: JulianCenturies(jd)}
}

// AddDays returns the moment d days later.
func (m JulianMoment) AddDays(d float64) JulianMoment {
	return MomentFromJD(m.JD + d)
}

// TimeToJD returns the Julian day of t. Time of day is folded into the day
// argument of the Gregorian conversion, so the result is continuous across
// midnight, month ends and leap days.
func TimeToJD(t time.Time) float64 {
	u := t.UTC()
	year, month, day := u.Date()
	secs := float64(u.Hour())*3600 +
		float64(u.Minute())*60 +
		float64(u.Second()) +
		float64(u.Nanosecond())/1e9
	return julian.CalendarGregorianToJD(year, int(month), float64(day)+secs/86400)
}

// CalendarJD returns the Julian day at 0h UT of a calendar date.
func CalendarJD(year int, month time.Month, day int) float64 {
	return julian.CalendarGregorianToJD(year, int(month), float64(day))
}

// JulianCenturies returns centuries since J2000.0.
func JulianCenturies(jd float64) float64 {
	return (jd - base.J2000) / base.JulianCentury
}

// SiderealTime returns the mean sidereal time at longitude lon (east
// positive) for moment m, reduced into [0, 2π). Pass lon = 0 for Greenwich.
//
// Meeus eq. 12.4. The 360°·days term is reduced before it is scaled so the
// result keeps full precision for JT far from J2000.
func SiderealTime(lon unit.Angle, m JulianMoment) unit.Angle {
	d := m.JD - base.J2000
	whole, frac := math.Modf(d)
	T := m.JT

	deg := 280.46061837 +
		360.0*frac +
		0.98564736629*whole + 0.98564736629*frac +
		0.000387933*T*T -
		T*T*T/38710000.0

	deg = angle.Normalize360(angle.Normalize360(deg) + lon.Deg())
	return unit.AngleFromDeg(deg)
}

// Civil builds a timestamp from calendar fields, rejecting fields that
// time.Date would silently normalise (Feb 30, hour 24, ...).
func Civil(year int, month time.Month, day, hour, min, sec int, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if month < time.January || month > time.December {
		return time.Time{}, fmt.Errorf("%w: month %d", ErrInvalidDate, month)
	}
	if day < 1 || day > DaysIn(year, month) {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, month, day)
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 || sec < 0 || sec > 59 {
		return time.Time{}, fmt.Errorf("%w: %02d:%02d:%02d", ErrInvalidDate, hour, min, sec)
	}
	return time.Date(year, month, day, hour, min, sec, 0, loc), nil
}

// DaysIn returns the number of days in month of year.
func DaysIn(year int, month time.Month) int {
	switch month {
	case time.February:
		if julian.LeapYearGregorian(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	}
	return 31
}

// LocalDay returns the [start, end) window of the calendar day containing t,
// in t's own location. Days with a DST change are 23 or 25 hours long.
func LocalDay(t time.Time) (start, end time.Time) {
	year, month, day := t.Date()
	start = time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	end = time.Date(year, month, day+1, 0, 0, 0, 0, t.Location())
	return start, end
}
