package timeaxis

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hadproc/cmorval/cmorval"
)

// Decoder converts numeric time-coordinate values, expressed in CF
// units such as "days since 1850-01-01", into calendar dates.
type Decoder struct {
	cal         Calendar
	unitSeconds float64

	// epoch instant as seconds from the calendar origin.
	epochSeconds int64
}

// NewDecoder parses a CF units string under the given calendar. The
// supported unit words are days, hours, minutes and seconds (singular
// or plural).
func NewDecoder(units string, cal Calendar) (*Decoder, error) {
	unit, epoch, err := parseUnits(units)
	if err != nil {
		return nil, err
	}
	days, err := cal.DaysFromOrigin(cmorval.Date{Year: epoch.Year, Month: epoch.Month, Day: epoch.Day})
	if err != nil {
		return nil, fmt.Errorf("time units %q: epoch: %w", units, err)
	}
	return &Decoder{
		cal:          cal,
		unitSeconds:  unit,
		epochSeconds: days*86400 + int64(epoch.Hour)*3600 + int64(epoch.Minute)*60 + int64(epoch.Second),
	}, nil
}

// Calendar returns the calendar the decoder operates under.
func (d *Decoder) Calendar() Calendar { return d.cal }

// AbsSeconds converts a coordinate value to whole seconds from the
// calendar origin, rounding sub-second remainders to the nearest
// second.
func (d *Decoder) AbsSeconds(v float64) int64 {
	return d.epochSeconds + int64(math.Round(v*d.unitSeconds))
}

// Date converts an absolute-seconds instant into a calendar date.
func (d *Decoder) Date(abs int64) cmorval.Date {
	days := floorDiv(abs, 86400)
	sod := abs - days*86400
	date := d.cal.DateFromDays(days)
	date.Hour = int(sod / 3600)
	date.Minute = int(sod % 3600 / 60)
	date.Second = int(sod % 60)
	return date
}

// RoundMinute rounds an absolute-seconds instant to the nearest minute.
// Hourly-class data is compared against filename dates at minute
// resolution, matching how the dates were written; subhr dates carry
// seconds and are never rounded.
func RoundMinute(abs int64) int64 {
	return floorDiv(abs+30, 60) * 60
}

// parseUnits splits "unit since <date>[ <time>]" into the unit length
// in seconds and the epoch date.
func parseUnits(units string) (float64, cmorval.Date, error) {
	fields := strings.Fields(units)
	if len(fields) < 3 || !strings.EqualFold(fields[1], "since") {
		return 0, cmorval.Date{}, fmt.Errorf("time units %q: expected \"<unit> since <epoch>\"", units)
	}

	var unit float64
	switch strings.ToLower(fields[0]) {
	case "day", "days", "d":
		unit = 86400
	case "hour", "hours", "hr", "hrs", "h":
		unit = 3600
	case "minute", "minutes", "min", "mins":
		unit = 60
	case "second", "seconds", "sec", "secs", "s":
		unit = 1
	default:
		return 0, cmorval.Date{}, fmt.Errorf("time units %q: unsupported unit %q", units, fields[0])
	}

	epoch, err := parseEpoch(fields[2:])
	if err != nil {
		return 0, cmorval.Date{}, fmt.Errorf("time units %q: %w", units, err)
	}
	return unit, epoch, nil
}

// parseEpoch parses "YYYY-MM-DD[ HH:MM[:SS[.frac]]]", tolerating a "T"
// separator and a trailing zone designator, both of which appear in the
// wild.
func parseEpoch(fields []string) (cmorval.Date, error) {
	datePart := fields[0]
	timePart := ""
	if i := strings.IndexAny(datePart, "T "); i >= 0 {
		timePart = datePart[i+1:]
		datePart = datePart[:i]
	} else if len(fields) > 1 {
		timePart = fields[1]
	}

	var d cmorval.Date
	ymd := strings.Split(datePart, "-")
	if len(ymd) != 3 {
		return d, fmt.Errorf("malformed epoch date %q", datePart)
	}
	var err error
	if d.Year, err = strconv.Atoi(ymd[0]); err != nil {
		return d, fmt.Errorf("malformed epoch date %q", datePart)
	}
	if d.Month, err = strconv.Atoi(ymd[1]); err != nil {
		return d, fmt.Errorf("malformed epoch date %q", datePart)
	}
	if d.Day, err = strconv.Atoi(ymd[2]); err != nil {
		return d, fmt.Errorf("malformed epoch date %q", datePart)
	}

	if timePart == "" {
		return d, nil
	}
	timePart = strings.TrimSuffix(timePart, "Z")
	hms := strings.Split(timePart, ":")
	if len(hms) < 2 || len(hms) > 3 {
		return d, fmt.Errorf("malformed epoch time %q", timePart)
	}
	if d.Hour, err = strconv.Atoi(hms[0]); err != nil {
		return d, fmt.Errorf("malformed epoch time %q", timePart)
	}
	if d.Minute, err = strconv.Atoi(hms[1]); err != nil {
		return d, fmt.Errorf("malformed epoch time %q", timePart)
	}
	if len(hms) == 3 {
		sec, err := strconv.ParseFloat(hms[2], 64)
		if err != nil {
			return d, fmt.Errorf("malformed epoch time %q", timePart)
		}
		d.Second = int(sec)
	}
	return d, nil
}
