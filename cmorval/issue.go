package cmorval

import (
	"errors"
	"fmt"
	"time"
)

// Stage names the pipeline stage that produced an issue.
type Stage string

const (
	StageFilename     Stage = "filename"
	StageMetadataRead Stage = "metadata-read"
	StageCrossCheck   Stage = "cross-check"
	StageContiguity   Stage = "contiguity"
	StageSampling     Stage = "sampling"
)

// Kind classifies an issue. The first five kinds are fatal for the file
// they occur on: the pipeline records them and skips the remaining
// stages. The rest accumulate; the file still fails but every
// discrepancy is reported in one run.
type Kind string

const (
	KindMalformedFilename    Kind = "MalformedFilename"
	KindMalformedDateRange   Kind = "MalformedDateRange"
	KindInvertedDateRange    Kind = "InvertedDateRange"
	KindUnreadableFile       Kind = "UnreadableFile"
	KindMissingField         Kind = "MissingField"
	KindMetadataMismatch     Kind = "MetadataMismatch"
	KindEmptyTimeAxis        Kind = "EmptyTimeAxis"
	KindNonContiguousTime    Kind = "NonContiguousTimeAxis"
	KindTimeRangeMismatch    Kind = "TimeRangeMismatch"
	KindDataReadError        Kind = "DataReadError"
)

// Fatal reports whether an issue of this kind halts the remaining
// stages for its file. A fatal issue never aborts the overall run.
func (k Kind) Fatal() bool {
	switch k {
	case KindMalformedFilename, KindMalformedDateRange, KindInvertedDateRange,
		KindUnreadableFile, KindMissingField:
		return true
	}
	return false
}

// ErrInvalid is the sentinel every Issue unwraps to.
var ErrInvalid = errors.New("file failed validation")

// Issue is one validation finding. It implements error so component
// boundaries can return it directly.
type Issue struct {
	Stage   Stage
	Kind    Kind
	Message string
}

func (i *Issue) Error() string {
	return fmt.Sprintf("%s: %s: %s", i.Stage, i.Kind, i.Message)
}

func (i *Issue) Unwrap() error {
	return ErrInvalid
}

// NewIssue builds an Issue with a formatted message.
func NewIssue(stage Stage, kind Kind, format string, a ...any) *Issue {
	return &Issue{Stage: stage, Kind: kind, Message: fmt.Sprintf(format, a...)}
}

// AsIssue extracts the Issue from err, coercing foreign errors into the
// given stage and kind so that no failure is ever silently dropped.
func AsIssue(err error, stage Stage, kind Kind) *Issue {
	var issue *Issue
	if errors.As(err, &issue) {
		return issue
	}
	return &Issue{Stage: stage, Kind: kind, Message: err.Error()}
}

// Result is the outcome of validating one file. Immutable once produced
// by the pipeline. Passed is true iff Issues is empty.
type Result struct {
	Path     string
	Basename string
	Passed   bool
	Issues   []Issue

	// Checksum is the payload digest when checksumming is enabled.
	Checksum string

	// SizeBytes is the payload size, zero when the file never became
	// readable.
	SizeBytes int64
}

// RunSummary aggregates the results of one validation run. Pass is true
// iff every individual result passed.
type RunSummary struct {
	RunID      string
	Convention Convention
	StartedAt  time.Time
	Duration   time.Duration
	Total      int
	Passed     int
	Failed     int
	Pass       bool
	Results    []Result
}

// Failures returns the results for files that did not pass.
func (s *RunSummary) Failures() []Result {
	var out []Result
	for _, r := range s.Results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
