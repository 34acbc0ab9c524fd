package cmorval

import (
	"errors"
	"fmt"
	"testing"
)

func TestIssueError(t *testing.T) {
	issue := NewIssue(StageFilename, KindMalformedFilename, "expected %d fields, got %d", 7, 5)

	if issue.Message != "expected 7 fields, got 5" {
		t.Errorf("Message = %q", issue.Message)
	}
	want := "filename: MalformedFilename: expected 7 fields, got 5"
	if issue.Error() != want {
		t.Errorf("Error() = %q, want %q", issue.Error(), want)
	}
	if !errors.Is(issue, ErrInvalid) {
		t.Error("issue does not unwrap to ErrInvalid")
	}
}

func TestKindFatal(t *testing.T) {
	fatal := []Kind{
		KindMalformedFilename, KindMalformedDateRange, KindInvertedDateRange,
		KindUnreadableFile, KindMissingField,
	}
	accumulating := []Kind{
		KindMetadataMismatch, KindEmptyTimeAxis, KindNonContiguousTime,
		KindTimeRangeMismatch, KindDataReadError,
	}
	for _, k := range fatal {
		if !k.Fatal() {
			t.Errorf("%s.Fatal() = false, want true", k)
		}
	}
	for _, k := range accumulating {
		if k.Fatal() {
			t.Errorf("%s.Fatal() = true, want false", k)
		}
	}
}

func TestAsIssue(t *testing.T) {
	orig := NewIssue(StageContiguity, KindEmptyTimeAxis, "no time values present")

	// An Issue anywhere in the chain is returned as-is.
	wrapped := fmt.Errorf("checking file: %w", orig)
	if got := AsIssue(wrapped, StageSampling, KindDataReadError); got != orig {
		t.Errorf("AsIssue did not unwrap: %+v", got)
	}

	// Foreign errors are coerced into the caller's stage and kind.
	got := AsIssue(errors.New("disk on fire"), StageMetadataRead, KindUnreadableFile)
	if got.Stage != StageMetadataRead || got.Kind != KindUnreadableFile {
		t.Errorf("coerced issue = %+v", got)
	}
	if got.Message != "disk on fire" {
		t.Errorf("Message = %q", got.Message)
	}
}

func TestRunSummaryFailures(t *testing.T) {
	s := &RunSummary{Results: []Result{
		{Basename: "a.nc", Passed: true},
		{Basename: "b.nc"},
		{Basename: "c.nc", Passed: true},
		{Basename: "d.nc"},
	}}
	fails := s.Failures()
	if len(fails) != 2 || fails[0].Basename != "b.nc" || fails[1].Basename != "d.nc" {
		t.Errorf("Failures() = %v", fails)
	}
}
