package cmorval

import "strings"

// Frequency is the canonical nominal sampling interval of a variable.
// Filenames encode it indirectly through the MIP table identifier;
// file metadata declares it directly, sometimes with a cell-methods
// suffix (monPt, 3hrPt, monC). Both forms normalize to one of these.
type Frequency string

const (
	FreqAnnual    Frequency = "ann"
	FreqMonthly   Frequency = "mon"
	FreqDaily     Frequency = "day"
	Freq6Hourly   Frequency = "6hr"
	Freq3Hourly   Frequency = "3hr"
	FreqHourly    Frequency = "1hr"
	FreqSubhourly Frequency = "subhr"
	FreqFixed     Frequency = "fx"
)

// Frequencies lists every recognized frequency, most to least coarse.
// Table-identifier matching scans this list in order so that e.g. "mon"
// is found inside "Amon" before any shorter accidental match.
var Frequencies = []Frequency{
	FreqAnnual, FreqMonthly, FreqDaily,
	Freq6Hourly, Freq3Hourly, FreqHourly,
	FreqSubhourly, FreqFixed,
}

// Known reports whether f is one of the recognized frequencies.
func (f Frequency) Known() bool {
	for _, k := range Frequencies {
		if f == k {
			return true
		}
	}
	return false
}

// DateDigits returns the fixed width of a filename date component for
// this frequency, or 0 when the frequency carries no date range.
func (f Frequency) DateDigits() int {
	switch f {
	case FreqAnnual:
		return 4
	case FreqMonthly:
		return 6
	case FreqDaily:
		return 8
	case Freq6Hourly, Freq3Hourly, FreqHourly:
		return 12
	case FreqSubhourly:
		return 14
	default:
		return 0
	}
}

// Resolution returns the precision the filename dates carry for this
// frequency, which is also the precision at which axis boundary times
// are compared against them.
func (f Frequency) Resolution() Resolution {
	switch f {
	case FreqAnnual:
		return ResolutionYear
	case FreqMonthly:
		return ResolutionMonth
	case FreqDaily:
		return ResolutionDay
	case Freq6Hourly, Freq3Hourly, FreqHourly:
		return ResolutionMinute
	case FreqSubhourly:
		return ResolutionSecond
	default:
		return ResolutionYear
	}
}

// StepSeconds returns the nominal step for fixed-length (sub-daily)
// frequencies, or 0 for calendar-length and fixed frequencies.
func (f Frequency) StepSeconds() int64 {
	switch f {
	case Freq6Hourly:
		return 6 * 3600
	case Freq3Hourly:
		return 3 * 3600
	case FreqHourly:
		return 3600
	default:
		return 0
	}
}

// NormalizeFrequency maps a frequency string as found in file metadata
// to its canonical form. CMIP6 frequency attributes may carry "Pt"
// (instantaneous), "C" / "CM" (climatology) suffixes, and annual data
// is declared "yr" or "yrPt". Returns false for unrecognized values.
func NormalizeFrequency(s string) (Frequency, bool) {
	v := strings.TrimSpace(s)
	for _, suffix := range []string{"CM", "C", "Pt"} {
		v = strings.TrimSuffix(v, suffix)
	}
	if v == "yr" || v == "dec" {
		return FreqAnnual, true
	}
	f := Frequency(v)
	if f.Known() {
		return f, true
	}
	return "", false
}

// FrequencyFromTable derives the frequency encoded in a MIP table
// identifier: the first run of lower-case letters and digits, after
// stripping the "Prim" prefix used by PRIMAVERA tables ("Amon" → mon,
// "6hrPlev" → 6hr, "PrimOday" → day). Returns false when the run does
// not name a known frequency.
func FrequencyFromTable(table string) (Frequency, bool) {
	run := firstLowerRun(strings.TrimPrefix(table, "Prim"))
	if run == "" {
		return "", false
	}
	switch run {
	case "yr", "dec":
		return FreqAnnual, true
	case "hr": // legacy hourly tables
		return FreqHourly, true
	}
	f := Frequency(run)
	if f.Known() {
		return f, true
	}
	return "", false
}

// firstLowerRun returns the first maximal run of lower-case letters and
// digits in s, or "" if there is none.
func firstLowerRun(s string) string {
	start := -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' || c >= '0' && c <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			return s[start:i]
		}
	}
	if start >= 0 {
		return s[start:]
	}
	return ""
}
