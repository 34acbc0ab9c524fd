package timeaxis

import (
	"strings"

	"github.com/hadproc/cmorval/cmorval"
)

// DecoderFor builds the time decoder a file's metadata declares. An
// error here means the metadata's calendar or time-units attributes are
// unusable, which callers surface as a metadata-read failure.
func DecoderFor(md *cmorval.FileMetadata) (*Decoder, error) {
	cal, err := CalendarFor(md.Calendar)
	if err != nil {
		return nil, err
	}
	return NewDecoder(md.TimeUnits, cal)
}

// Check validates the file's time axis against the filename-declared
// span: non-empty, contiguous at the declared frequency, and exactly
// bounded by the filename start and end dates. Issues accumulate; none
// of them halts the remaining pipeline stages.
func Check(rec *cmorval.FilenameRecord, md *cmorval.FileMetadata, dec *Decoder) []cmorval.Issue {
	freq := cmorval.Frequency(rec.Frequency)

	if len(md.TimePoints) == 0 && len(md.TimeBounds) == 0 {
		return []cmorval.Issue{*cmorval.NewIssue(cmorval.StageContiguity, cmorval.KindEmptyTimeAxis,
			"no time values present")}
	}

	// Decode points once. Fixed-step instants are rounded to the
	// nearest minute, matching the precision of their 12-digit
	// filename dates; subhr dates carry seconds and are kept exact.
	abs := make([]int64, len(md.TimePoints))
	for i, v := range md.TimePoints {
		a := dec.AbsSeconds(v)
		if freq.StepSeconds() > 0 {
			a = RoundMinute(a)
		}
		abs[i] = a
	}

	var issues []cmorval.Issue
	if issue := checkContiguity(md, dec, freq, abs); issue != nil {
		issues = append(issues, *issue)
	}
	issues = append(issues, checkSpan(rec, md, dec, freq, abs)...)
	return issues
}

// instantaneous reports whether the variable samples instants rather
// than intervals, in which case bounds contiguity does not apply.
func instantaneous(md *cmorval.FileMetadata) bool {
	return strings.Contains(md.CellMethods, "time: point")
}

// checkContiguity walks the axis pairwise and returns the first
// offending gap, or nil. A single-sample axis has no pairs and is
// trivially contiguous.
func checkContiguity(md *cmorval.FileMetadata, dec *Decoder, freq cmorval.Frequency, abs []int64) *cmorval.Issue {
	for i := 0; i+1 < len(abs); i++ {
		if abs[i+1] <= abs[i] {
			return cmorval.NewIssue(cmorval.StageContiguity, cmorval.KindNonContiguousTime,
				"time axis is not monotonic at index %d: %s then %s",
				i, dec.Date(abs[i]), dec.Date(abs[i+1]))
		}
	}

	if instantaneous(md) {
		// Instantaneous samples carry no intervals; gaps cannot be
		// distinguished from legitimate spacing changes, so only the
		// monotonic check above applies.
		return nil
	}

	if len(md.TimeBounds) > 0 {
		// Interval data with bounds: each sample's upper bound must
		// meet the next sample's lower bound exactly.
		for i := 0; i+1 < len(md.TimeBounds); i++ {
			upper := dec.AbsSeconds(md.TimeBounds[i][1])
			lower := dec.AbsSeconds(md.TimeBounds[i+1][0])
			if upper != lower {
				return cmorval.NewIssue(cmorval.StageContiguity, cmorval.KindNonContiguousTime,
					"time bounds are not contiguous at index %d: interval ending %s followed by interval starting %s",
					i, dec.Date(upper), dec.Date(lower))
			}
		}
		return nil
	}

	return checkPointSteps(dec, freq, abs)
}

// checkPointSteps verifies that successive time points are one nominal
// step apart at the frequency's resolution. Calendar-length steps
// (years, months, days) are compared as ordinal differences so that
// mid-interval sample times and variable month lengths do not produce
// spurious gaps.
func checkPointSteps(dec *Decoder, freq cmorval.Frequency, abs []int64) *cmorval.Issue {
	gap := func(i int) *cmorval.Issue {
		return cmorval.NewIssue(cmorval.StageContiguity, cmorval.KindNonContiguousTime,
			"gap in %s time axis at index %d: %s followed by %s",
			freq, i, dec.Date(abs[i]), dec.Date(abs[i+1]))
	}

	for i := 0; i+1 < len(abs); i++ {
		a, b := dec.Date(abs[i]), dec.Date(abs[i+1])
		switch freq {
		case cmorval.FreqAnnual:
			if b.Year-a.Year != 1 {
				return gap(i)
			}
		case cmorval.FreqMonthly:
			if monthIndex(b)-monthIndex(a) != 1 {
				return gap(i)
			}
		case cmorval.FreqDaily:
			if floorDiv(abs[i+1], 86400)-floorDiv(abs[i], 86400) != 1 {
				return gap(i)
			}
		case cmorval.Freq6Hourly, cmorval.Freq3Hourly, cmorval.FreqHourly:
			if abs[i+1]-abs[i] != freq.StepSeconds() {
				return gap(i)
			}
		case cmorval.FreqSubhourly:
			// No fixed nominal step; the monotonic check is all
			// that applies.
		}
	}
	return nil
}

func monthIndex(d cmorval.Date) int {
	return d.Year*12 + d.Month - 1
}

// checkSpan compares the first and last axis instants against the
// filename-declared start and end, at the frequency's resolution.
// Climatology files are compared against the outer time bounds rather
// than the sample points.
func checkSpan(rec *cmorval.FilenameRecord, md *cmorval.FileMetadata, dec *Decoder, freq cmorval.Frequency, abs []int64) []cmorval.Issue {
	if rec.StartDate == nil || rec.EndDate == nil {
		return nil
	}

	var startAbs, endAbs int64
	switch {
	case rec.Climatology:
		if len(md.TimeBounds) == 0 {
			return []cmorval.Issue{*cmorval.NewIssue(cmorval.StageContiguity, cmorval.KindTimeRangeMismatch,
				"climatology file has no time bounds to compare against the filename dates")}
		}
		startAbs = dec.AbsSeconds(md.TimeBounds[0][0])
		endAbs = dec.AbsSeconds(md.TimeBounds[len(md.TimeBounds)-1][1])
	case len(abs) > 0:
		startAbs = abs[0]
		endAbs = abs[len(abs)-1]
	default:
		startAbs = dec.AbsSeconds(md.TimeBounds[0][0])
		endAbs = dec.AbsSeconds(md.TimeBounds[len(md.TimeBounds)-1][1])
	}
	if freq.StepSeconds() > 0 {
		startAbs = RoundMinute(startAbs)
		endAbs = RoundMinute(endAbs)
	}

	res := freq.Resolution()
	var issues []cmorval.Issue
	if got, want := dec.Date(startAbs).Truncate(res), rec.StartDate.Truncate(res); !got.Equal(want) {
		issues = append(issues, *cmorval.NewIssue(cmorval.StageContiguity, cmorval.KindTimeRangeMismatch,
			"start date in filename (%s) does not match the first time in the file (%s)", want, got))
	}
	if got, want := dec.Date(endAbs).Truncate(res), rec.EndDate.Truncate(res); !got.Equal(want) {
		issues = append(issues, *cmorval.NewIssue(cmorval.StageContiguity, cmorval.KindTimeRangeMismatch,
			"end date in filename (%s) does not match the last time in the file (%s)", want, got))
	}
	return issues
}
