package timeaxis

import (
	"strings"
	"testing"

	"github.com/hadproc/cmorval/cmorval"
)

func monthlyRecord(start, end cmorval.Date) *cmorval.FilenameRecord {
	return &cmorval.FilenameRecord{
		Convention: cmorval.CMIP6,
		Variable:   "tas",
		Table:      "Amon",
		Frequency:  string(cmorval.FreqMonthly),
		StartDate:  &start,
		EndDate:    &end,
	}
}

func assertSingleIssue(t *testing.T, issues []cmorval.Issue, kind cmorval.Kind) cmorval.Issue {
	t.Helper()
	if len(issues) != 1 {
		t.Fatalf("expected exactly one %s issue, got %d: %v", kind, len(issues), issues)
	}
	if issues[0].Kind != kind {
		t.Fatalf("issue kind = %q, want %q", issues[0].Kind, kind)
	}
	if issues[0].Stage != cmorval.StageContiguity {
		t.Errorf("issue stage = %q, want %q", issues[0].Stage, cmorval.StageContiguity)
	}
	return issues[0]
}

func checkWith(t *testing.T, rec *cmorval.FilenameRecord, md *cmorval.FileMetadata) []cmorval.Issue {
	t.Helper()
	dec, err := DecoderFor(md)
	if err != nil {
		t.Fatalf("DecoderFor: %v", err)
	}
	return Check(rec, md, dec)
}

func TestCheckMonthlyContiguous(t *testing.T) {
	// Mid-month sample times for Jan-Jun 2000 under the standard
	// calendar; spacing in days varies with month length.
	md := &cmorval.FileMetadata{
		TimeUnits:  "days since 2000-01-01",
		Calendar:   "standard",
		TimePoints: []float64{14, 45, 74, 105, 135, 166},
	}
	rec := monthlyRecord(
		cmorval.Date{Year: 2000, Month: 1, Day: 1},
		cmorval.Date{Year: 2000, Month: 6, Day: 1},
	)
	if issues := checkWith(t, rec, md); len(issues) != 0 {
		t.Errorf("expected pass, got %v", issues)
	}
}

func TestCheckMonthlyGap(t *testing.T) {
	// April is missing: March is followed by May.
	md := &cmorval.FileMetadata{
		TimeUnits:  "days since 2000-01-01",
		Calendar:   "standard",
		TimePoints: []float64{14, 45, 74, 135, 166},
	}
	rec := monthlyRecord(
		cmorval.Date{Year: 2000, Month: 1, Day: 1},
		cmorval.Date{Year: 2000, Month: 6, Day: 1},
	)

	issue := assertSingleIssue(t, checkWith(t, rec, md), cmorval.KindNonContiguousTime)
	if !strings.Contains(issue.Message, "index 2") {
		t.Errorf("offending index not reported: %q", issue.Message)
	}
	if !strings.Contains(issue.Message, "2000-03") || !strings.Contains(issue.Message, "2000-05") {
		t.Errorf("adjacent timestamps not reported: %q", issue.Message)
	}
}

func TestCheckNonMonotonic(t *testing.T) {
	md := &cmorval.FileMetadata{
		TimeUnits:  "days since 2000-01-01",
		Calendar:   "standard",
		TimePoints: []float64{14, 74, 45},
	}
	rec := monthlyRecord(
		cmorval.Date{Year: 2000, Month: 1, Day: 1},
		cmorval.Date{Year: 2000, Month: 2, Day: 1},
	)
	issue := assertSingleIssue(t, checkWith(t, rec, md), cmorval.KindNonContiguousTime)
	if !strings.Contains(issue.Message, "monotonic") {
		t.Errorf("expected a monotonicity message, got %q", issue.Message)
	}
}

func TestCheckEmptyAxis(t *testing.T) {
	md := &cmorval.FileMetadata{
		TimeUnits: "days since 2000-01-01",
		Calendar:  "standard",
	}
	rec := monthlyRecord(
		cmorval.Date{Year: 2000, Month: 1, Day: 1},
		cmorval.Date{Year: 2000, Month: 6, Day: 1},
	)
	dec := mustDecoder(t, md.TimeUnits, md.Calendar)
	assertSingleIssue(t, Check(rec, md, dec), cmorval.KindEmptyTimeAxis)
}

func TestCheckSingleStep(t *testing.T) {
	// One sample, no adjacent pairs: valid when it matches both the
	// start and end filename dates.
	md := &cmorval.FileMetadata{
		TimeUnits:  "days since 2000-01-01",
		Calendar:   "standard",
		TimePoints: []float64{14},
	}
	rec := monthlyRecord(
		cmorval.Date{Year: 2000, Month: 1, Day: 1},
		cmorval.Date{Year: 2000, Month: 1, Day: 1},
	)
	if issues := checkWith(t, rec, md); len(issues) != 0 {
		t.Errorf("expected pass, got %v", issues)
	}

	// The same sample against a broader declared range fails both
	// boundary comparisons... start matches, end does not.
	rec = monthlyRecord(
		cmorval.Date{Year: 2000, Month: 1, Day: 1},
		cmorval.Date{Year: 2000, Month: 2, Day: 1},
	)
	assertSingleIssue(t, checkWith(t, rec, md), cmorval.KindTimeRangeMismatch)
}

func TestCheckTimeRangeMismatchBothEnds(t *testing.T) {
	md := &cmorval.FileMetadata{
		TimeUnits:  "days since 2000-01-01",
		Calendar:   "standard",
		TimePoints: []float64{45, 74}, // Feb, Mar
	}
	rec := monthlyRecord(
		cmorval.Date{Year: 2000, Month: 1, Day: 1},
		cmorval.Date{Year: 2000, Month: 4, Day: 1},
	)
	issues := checkWith(t, rec, md)
	if len(issues) != 2 {
		t.Fatalf("expected start and end mismatches, got %v", issues)
	}
	for _, issue := range issues {
		if issue.Kind != cmorval.KindTimeRangeMismatch {
			t.Errorf("issue kind = %q, want %q", issue.Kind, cmorval.KindTimeRangeMismatch)
		}
	}
}

func TestCheckBoundsContiguity(t *testing.T) {
	daily := &cmorval.FilenameRecord{
		Frequency: string(cmorval.FreqDaily),
		StartDate: &cmorval.Date{Year: 2000, Month: 1, Day: 1},
		EndDate:   &cmorval.Date{Year: 2000, Month: 1, Day: 4},
	}

	contiguous := &cmorval.FileMetadata{
		TimeUnits:  "days since 2000-01-01",
		Calendar:   "standard",
		TimePoints: []float64{0.5, 1.5, 2.5, 3.5},
		TimeBounds: [][2]float64{{0, 1}, {1, 2}, {2, 3}, {3, 4}},
	}
	if issues := checkWith(t, daily, contiguous); len(issues) != 0 {
		t.Errorf("expected pass, got %v", issues)
	}

	gapped := &cmorval.FileMetadata{
		TimeUnits:  "days since 2000-01-01",
		Calendar:   "standard",
		TimePoints: []float64{0.5, 1.5, 3.5},
		TimeBounds: [][2]float64{{0, 1}, {1, 2}, {3, 4}},
	}
	daily.EndDate = &cmorval.Date{Year: 2000, Month: 1, Day: 4}
	issue := assertSingleIssue(t, checkWith(t, daily, gapped), cmorval.KindNonContiguousTime)
	if !strings.Contains(issue.Message, "index 1") {
		t.Errorf("offending index not reported: %q", issue.Message)
	}
}

func TestCheckInstantaneousSkipsGapCheck(t *testing.T) {
	// Instantaneous data ("time: point") has no intervals; irregular
	// spacing is not a contiguity failure.
	md := &cmorval.FileMetadata{
		TimeUnits:   "days since 2000-01-01",
		Calendar:    "standard",
		TimePoints:  []float64{14, 45, 135}, // Jan, Feb, May
		CellMethods: "area: mean time: point",
	}
	rec := monthlyRecord(
		cmorval.Date{Year: 2000, Month: 1, Day: 1},
		cmorval.Date{Year: 2000, Month: 5, Day: 1},
	)
	if issues := checkWith(t, rec, md); len(issues) != 0 {
		t.Errorf("expected pass, got %v", issues)
	}
}

func TestCheckSubdailySteps(t *testing.T) {
	rec := &cmorval.FilenameRecord{
		Frequency: string(cmorval.Freq6Hourly),
		StartDate: &cmorval.Date{Year: 2000, Month: 1, Day: 1},
		EndDate:   &cmorval.Date{Year: 2000, Month: 1, Day: 1, Hour: 18},
	}

	md := &cmorval.FileMetadata{
		TimeUnits:   "hours since 2000-01-01",
		Calendar:    "standard",
		TimePoints:  []float64{0, 6, 12, 18},
		CellMethods: "time: mean",
	}
	if issues := checkWith(t, rec, md); len(issues) != 0 {
		t.Errorf("expected pass, got %v", issues)
	}

	md.TimePoints = []float64{0, 6, 18}
	md.TimeBounds = nil
	issue := assertSingleIssue(t, checkWith(t, rec, md), cmorval.KindNonContiguousTime)
	if !strings.Contains(issue.Message, "index 1") {
		t.Errorf("offending index not reported: %q", issue.Message)
	}
}

func TestCheckSubdailyRoundsToMinute(t *testing.T) {
	// Sample instants a few seconds off the nominal times round to
	// the minute before comparison.
	rec := &cmorval.FilenameRecord{
		Frequency: string(cmorval.Freq6Hourly),
		StartDate: &cmorval.Date{Year: 2000, Month: 1, Day: 1},
		EndDate:   &cmorval.Date{Year: 2000, Month: 1, Day: 1, Hour: 12},
	}
	md := &cmorval.FileMetadata{
		TimeUnits:  "seconds since 2000-01-01",
		Calendar:   "standard",
		TimePoints: []float64{2, 21598, 43201}, // ±2s around 0h, 6h, 12h
	}
	if issues := checkWith(t, rec, md); len(issues) != 0 {
		t.Errorf("expected pass, got %v", issues)
	}
}

func TestCheckSubhourlySpanKeepsSeconds(t *testing.T) {
	// subhr filename dates carry seconds, so axis instants must not be
	// rounded to the minute before the boundary comparison.
	rec := &cmorval.FilenameRecord{
		Frequency: string(cmorval.FreqSubhourly),
		StartDate: &cmorval.Date{Year: 2000, Month: 1, Day: 1, Second: 30},
		EndDate:   &cmorval.Date{Year: 2000, Month: 1, Day: 1, Minute: 7, Second: 30},
	}
	md := &cmorval.FileMetadata{
		TimeUnits:  "seconds since 2000-01-01",
		Calendar:   "standard",
		TimePoints: []float64{30, 130, 250, 450},
	}
	if issues := checkWith(t, rec, md); len(issues) != 0 {
		t.Errorf("expected pass, got %v", issues)
	}

	// Irregular spacing is fine for subhr; a boundary that genuinely
	// disagrees at second precision is not.
	rec.EndDate = &cmorval.Date{Year: 2000, Month: 1, Day: 1, Minute: 7, Second: 31}
	assertSingleIssue(t, checkWith(t, rec, md), cmorval.KindTimeRangeMismatch)
}

func TestCheck360DayMonthly(t *testing.T) {
	points := make([]float64, 12)
	for i := range points {
		points[i] = float64(15 + 30*i)
	}
	md := &cmorval.FileMetadata{
		TimeUnits:  "days since 2000-01-01",
		Calendar:   "360_day",
		TimePoints: points,
	}
	rec := monthlyRecord(
		cmorval.Date{Year: 2000, Month: 1, Day: 1},
		cmorval.Date{Year: 2000, Month: 12, Day: 1},
	)
	if issues := checkWith(t, rec, md); len(issues) != 0 {
		t.Errorf("expected pass, got %v", issues)
	}
}

func TestCheckClimatologyUsesBounds(t *testing.T) {
	rec := monthlyRecord(
		cmorval.Date{Year: 2000, Month: 1, Day: 1},
		cmorval.Date{Year: 2000, Month: 12, Day: 1},
	)
	rec.Climatology = true

	md := &cmorval.FileMetadata{
		TimeUnits:  "days since 2000-01-01",
		Calendar:   "standard",
		TimePoints: []float64{183},
		TimeBounds: [][2]float64{{0, 365}}, // 2000-01-01 .. 2000-12-31
	}
	if issues := checkWith(t, rec, md); len(issues) != 0 {
		t.Errorf("expected pass, got %v", issues)
	}

	md.TimeBounds = nil
	assertSingleIssue(t, checkWith(t, rec, md), cmorval.KindTimeRangeMismatch)
}

func TestCheckCellMeasureRecordSkipsSpan(t *testing.T) {
	// No filename dates: nothing to compare the axis span against.
	rec := &cmorval.FilenameRecord{Frequency: string(cmorval.FreqFixed)}
	md := &cmorval.FileMetadata{
		TimeUnits:  "days since 2000-01-01",
		Calendar:   "standard",
		TimePoints: []float64{0},
	}
	if issues := checkWith(t, rec, md); len(issues) != 0 {
		t.Errorf("expected no issues, got %v", issues)
	}
}
