package naming

import (
	"strings"

	"github.com/hadproc/cmorval/cmorval"
)

// Parse tokenizes a file basename under the given convention and
// returns the metadata it encodes. cellMeasure marks grid-geometry
// files, which carry no date-range segment.
//
// Failures are returned as *cmorval.Issue with stage "filename"; any
// such failure is fatal for the file and the caller must not proceed to
// the metadata stages.
func Parse(basename string, conv cmorval.Convention, cellMeasure bool) (*cmorval.FilenameRecord, error) {
	g, ok := GrammarFor(conv)
	if !ok {
		return nil, cmorval.NewIssue(cmorval.StageFilename, cmorval.KindMalformedFilename,
			"unsupported naming convention %q", conv)
	}

	stem, clim := stripSuffix(basename)
	parts := strings.Split(stem, g.Separator)

	// Pre-PRIMAVERA CMIP5 data used the experiment "present_day",
	// whose embedded separator splits it into two tokens.
	if conv == cmorval.CMIP5 && len(parts) > 4 && parts[3] == "present" && parts[4] == "day" {
		parts[3] += "_" + parts[4]
		parts = append(parts[:4], parts[5:]...)
	}

	want := g.ExpectedFields(!cellMeasure)
	if len(parts) != want {
		return nil, cmorval.NewIssue(cmorval.StageFilename, cmorval.KindMalformedFilename,
			"%s: expected %d fields under %s, found %d", basename, want, conv, len(parts))
	}

	rec := &cmorval.FilenameRecord{
		Convention:  conv,
		Climatology: clim,
	}
	for i, name := range g.Fields {
		switch name {
		case fieldVariable:
			rec.Variable = parts[i]
		case fieldTable:
			rec.Table = parts[i]
		case fieldModel:
			rec.Model = parts[i]
		case fieldExperiment:
			rec.Experiment = parts[i]
		case fieldVariant:
			rec.Variant = parts[i]
		case fieldGrid:
			rec.Grid = parts[i]
		}
	}

	freq, ok := cmorval.FrequencyFromTable(rec.Table)
	if !ok {
		return nil, cmorval.NewIssue(cmorval.StageFilename, cmorval.KindMalformedFilename,
			"%s: cannot derive a frequency from table %q", basename, rec.Table)
	}
	rec.Frequency = string(freq)

	if cellMeasure {
		return rec, nil
	}

	start, end, err := parseDateRange(parts[len(parts)-1], g, freq)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, cmorval.NewIssue(cmorval.StageFilename, cmorval.KindInvertedDateRange,
			"%s: start date %s is after end date %s", basename, start, end)
	}
	rec.StartDate = &start
	rec.EndDate = &end
	return rec, nil
}

// stripSuffix removes the trailing ".nc" (or "-clim.nc") and reports
// whether the climatology form was present.
func stripSuffix(basename string) (stem string, clim bool) {
	if s, ok := strings.CutSuffix(basename, climSuffix); ok {
		return s, true
	}
	if s, ok := strings.CutSuffix(basename, dataSuffix); ok {
		return s, false
	}
	return basename, false
}

// parseDateRange splits "<start>-<end>" and parses both components at
// the fixed width the frequency declares.
func parseDateRange(segment string, g Grammar, freq cmorval.Frequency) (start, end cmorval.Date, err error) {
	comps := strings.Split(segment, g.RangeConnector)
	if len(comps) != 2 {
		return start, end, cmorval.NewIssue(cmorval.StageFilename, cmorval.KindMalformedDateRange,
			"date range %q: expected two %q-joined components, found %d", segment, g.RangeConnector, len(comps))
	}
	if start, err = parseDate(comps[0], freq); err != nil {
		return start, end, err
	}
	if end, err = parseDate(comps[1], freq); err != nil {
		return start, end, err
	}
	return start, end, nil
}

// parseDate parses one fixed-width date string. The widths are
// YYYY, YYYYMM, YYYYMMDD, YYYYMMDDHHMM and YYYYMMDDHHMMSS depending on
// the frequency. Day values up to 31 are accepted for every month: the
// filename alone cannot tell which model calendar applies.
func parseDate(s string, freq cmorval.Frequency) (cmorval.Date, error) {
	width := freq.DateDigits()
	if len(s) != width || !allDigits(s) {
		return cmorval.Date{}, cmorval.NewIssue(cmorval.StageFilename, cmorval.KindMalformedDateRange,
			"date %q: expected %d digits for %s data", s, width, freq)
	}

	d := cmorval.Date{Year: atoi(s[0:4]), Month: 1, Day: 1}
	if width >= 6 {
		d.Month = atoi(s[4:6])
	}
	if width >= 8 {
		d.Day = atoi(s[6:8])
	}
	if width >= 12 {
		d.Hour = atoi(s[8:10])
		d.Minute = atoi(s[10:12])
	}
	if width >= 14 {
		d.Second = atoi(s[12:14])
	}

	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 31 ||
		d.Hour > 23 || d.Minute > 59 || d.Second > 59 {
		return cmorval.Date{}, cmorval.NewIssue(cmorval.StageFilename, cmorval.KindMalformedDateRange,
			"date %q is not a calendar date", s)
	}
	return d, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

// atoi converts a digits-only string; inputs are pre-checked.
func atoi(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}
