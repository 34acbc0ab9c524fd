package cmorval

import "fmt"

// Date is a calendar-agnostic timestamp. Unlike time.Time it can carry
// dates that only exist in model calendars (e.g. 2000-02-30 in a
// 360-day calendar), so all arithmetic on it is delegated to a calendar
// implementation.
type Date struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// Resolution is the precision at which two dates are compared. The
// filename date strings only encode down to the declared frequency's
// resolution, so comparisons against axis times truncate both sides.
type Resolution int

const (
	ResolutionYear Resolution = iota
	ResolutionMonth
	ResolutionDay
	ResolutionMinute
	ResolutionSecond
)

// Truncate zeroes every field finer than r. Month and Day truncate to 1,
// time-of-day fields to 0.
func (d Date) Truncate(r Resolution) Date {
	t := d
	switch r {
	case ResolutionYear:
		t.Month = 1
		fallthrough
	case ResolutionMonth:
		t.Day = 1
		fallthrough
	case ResolutionDay:
		t.Hour = 0
		t.Minute = 0
		fallthrough
	case ResolutionMinute:
		t.Second = 0
	}
	return t
}

// Compare returns -1, 0 or +1 ordering d against other field by field.
func (d Date) Compare(other Date) int {
	a := [6]int{d.Year, d.Month, d.Day, d.Hour, d.Minute, d.Second}
	b := [6]int{other.Year, other.Month, other.Day, other.Hour, other.Minute, other.Second}
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

// Equal reports whether d and other are identical in every field.
func (d Date) Equal(other Date) bool { return d.Compare(other) == 0 }

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d",
		d.Year, d.Month, d.Day, d.Hour, d.Minute, d.Second)
}
