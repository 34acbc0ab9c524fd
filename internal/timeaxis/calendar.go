// Package timeaxis validates a file's time coordinate against the span
// its filename declares: monotonic, regularly spaced at the declared
// frequency, and exactly bounded by the filename start/end dates.
//
// Model calendars (360-day, no-leap, all-leap, proleptic Gregorian) are
// isolated behind the Calendar interface so the checker itself is
// calendar-agnostic.
package timeaxis

import (
	"fmt"
	"strings"

	"github.com/hadproc/cmorval/cmorval"
)

// Calendar performs date arithmetic for one CF calendar type. Day
// numbers are counted from a calendar-private origin; they are only
// ever compared within a single calendar.
type Calendar interface {
	// Name returns the canonical CF calendar name.
	Name() string

	// DaysFromOrigin returns the day number of the date, or an error
	// if the date does not exist in this calendar.
	DaysFromOrigin(d cmorval.Date) (int64, error)

	// DateFromDays inverts DaysFromOrigin. Time-of-day fields are zero.
	DateFromDays(n int64) cmorval.Date

	// DaysInMonth returns the length of a month.
	DaysInMonth(year, month int) int
}

// CalendarFor maps a CF calendar attribute to an implementation. An
// empty string defaults to the standard calendar, as CF prescribes.
func CalendarFor(name string) (Calendar, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "standard", "gregorian", "proleptic_gregorian":
		return gregorian{}, nil
	case "noleap", "365_day":
		return fixedYear{name: "noleap", months: noLeapMonths}, nil
	case "all_leap", "366_day":
		return fixedYear{name: "all_leap", months: allLeapMonths}, nil
	case "360_day":
		return cal360{}, nil
	default:
		return nil, fmt.Errorf("unsupported calendar %q", name)
	}
}

// floorDiv is integer division rounding toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// ---------------------------------------------------------------------
// Proleptic Gregorian
// ---------------------------------------------------------------------

type gregorian struct{}

func (gregorian) Name() string { return "standard" }

func isGregorianLeap(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

var monthLengths = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func (gregorian) DaysInMonth(year, month int) int {
	if month == 2 && isGregorianLeap(year) {
		return 29
	}
	return monthLengths[month-1]
}

// DaysFromOrigin counts days since 1970-01-01 using the civil-calendar
// day-number algorithm.
func (g gregorian) DaysFromOrigin(d cmorval.Date) (int64, error) {
	if err := validDate(g, d); err != nil {
		return 0, err
	}
	y := int64(d.Year)
	m := int64(d.Month)
	if m <= 2 {
		y--
	}
	era := floorDiv(y, 400)
	yoe := y - era*400
	var mp int64
	if m > 2 {
		mp = m - 3
	} else {
		mp = m + 9
	}
	doy := (153*mp+2)/5 + int64(d.Day) - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468, nil
}

func (gregorian) DateFromDays(n int64) cmorval.Date {
	z := n + 719468
	era := floorDiv(z, 146097)
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	day := doy - (153*mp+2)/5 + 1
	var m int64
	if mp < 10 {
		m = mp + 3
	} else {
		m = mp - 9
	}
	if m <= 2 {
		y++
	}
	return cmorval.Date{Year: int(y), Month: int(m), Day: int(day)}
}

// ---------------------------------------------------------------------
// Fixed-length years: noleap (365_day) and all_leap (366_day)
// ---------------------------------------------------------------------

var noLeapMonths = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
var allLeapMonths = [12]int{31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

type fixedYear struct {
	name   string
	months [12]int
}

func (c fixedYear) Name() string { return c.name }

func (c fixedYear) DaysInMonth(_, month int) int {
	return c.months[month-1]
}

func (c fixedYear) yearLength() int64 {
	n := int64(0)
	for _, m := range c.months {
		n += int64(m)
	}
	return n
}

func (c fixedYear) DaysFromOrigin(d cmorval.Date) (int64, error) {
	if err := validDate(c, d); err != nil {
		return 0, err
	}
	n := int64(d.Year) * c.yearLength()
	for m := 1; m < d.Month; m++ {
		n += int64(c.months[m-1])
	}
	return n + int64(d.Day) - 1, nil
}

func (c fixedYear) DateFromDays(n int64) cmorval.Date {
	yl := c.yearLength()
	y := floorDiv(n, yl)
	rem := int(n - y*yl)
	month := 1
	for rem >= c.months[month-1] {
		rem -= c.months[month-1]
		month++
	}
	return cmorval.Date{Year: int(y), Month: month, Day: rem + 1}
}

// ---------------------------------------------------------------------
// 360-day calendar: twelve 30-day months
// ---------------------------------------------------------------------

type cal360 struct{}

func (cal360) Name() string { return "360_day" }

func (cal360) DaysInMonth(_, _ int) int { return 30 }

func (c cal360) DaysFromOrigin(d cmorval.Date) (int64, error) {
	if err := validDate(c, d); err != nil {
		return 0, err
	}
	return int64(d.Year)*360 + int64(d.Month-1)*30 + int64(d.Day) - 1, nil
}

func (cal360) DateFromDays(n int64) cmorval.Date {
	y := floorDiv(n, 360)
	rem := int(n - y*360)
	return cmorval.Date{Year: int(y), Month: rem/30 + 1, Day: rem%30 + 1}
}

// validDate checks that the date exists under cal.
func validDate(cal Calendar, d cmorval.Date) error {
	if d.Month < 1 || d.Month > 12 {
		return fmt.Errorf("%s: month %d out of range", cal.Name(), d.Month)
	}
	if d.Day < 1 || d.Day > cal.DaysInMonth(d.Year, d.Month) {
		return fmt.Errorf("%s: day %d out of range for %04d-%02d", cal.Name(), d.Day, d.Year, d.Month)
	}
	return nil
}
