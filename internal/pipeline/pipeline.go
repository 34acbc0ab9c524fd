// Package pipeline orchestrates the per-file validation stages and
// fans them out across a candidate file set.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/hadproc/cmorval/cmorval"
	"github.com/hadproc/cmorval/internal/crosscheck"
	"github.com/hadproc/cmorval/internal/naming"
	"github.com/hadproc/cmorval/internal/timeaxis"
)

// Options configures a validation pipeline.
type Options struct {
	// Convention selects the naming grammar.
	Convention cmorval.Convention

	// CellMeasure marks the candidate set as grid-geometry files:
	// no date-range segment is expected in filenames and the
	// time-axis stage is skipped entirely.
	CellMeasure bool

	// Checksum, when non-nil, stamps each result with the payload
	// digest.
	Checksum cmorval.Checksum
}

// Pipeline validates one file at a time:
//
//	parse filename → read metadata → (cross-check ∧ time axis) → sample
//
// A filename or metadata-read failure is fatal for that file and the
// remaining stages are skipped. Cross-check and time-axis issues
// accumulate, and the data sample runs regardless of their outcome. A
// file passes iff no stage produced an issue.
type Pipeline struct {
	reader  cmorval.MetadataReader
	sampler cmorval.DataSampler
	opts    Options
	logger  *slog.Logger
}

// New builds a pipeline. A nil logger falls back to slog.Default().
func New(reader cmorval.MetadataReader, sampler cmorval.DataSampler, opts Options, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{reader: reader, sampler: sampler, opts: opts, logger: logger}
}

// Validate runs every applicable stage for one candidate and returns
// its immutable result. It never returns an error: every failure is an
// issue on the result.
func (p *Pipeline) Validate(ctx context.Context, c cmorval.Candidate) cmorval.Result {
	res := cmorval.Result{Path: c.Path, Basename: c.Basename}

	rec, err := naming.Parse(c.Basename, p.opts.Convention, p.opts.CellMeasure)
	if err != nil {
		return p.finish(res, *cmorval.AsIssue(err, cmorval.StageFilename, cmorval.KindMalformedFilename))
	}

	md, err := p.reader.Read(ctx, c.Path)
	if err != nil {
		return p.finish(res, *cmorval.AsIssue(err, cmorval.StageMetadataRead, cmorval.KindUnreadableFile))
	}
	res.SizeBytes = md.SizeBytes

	var issues []cmorval.Issue
	issues = append(issues, crosscheck.Check(rec, md)...)

	if !p.opts.CellMeasure {
		switch {
		case len(md.TimePoints) == 0 && len(md.TimeBounds) == 0:
			issues = append(issues, *cmorval.NewIssue(cmorval.StageContiguity, cmorval.KindEmptyTimeAxis,
				"no time values present"))
		default:
			dec, err := timeaxis.DecoderFor(md)
			if err != nil {
				// The calendar or time-units attributes are unusable;
				// nothing downstream of them can be trusted. Mismatches
				// the cross-check already found still reach the result.
				issues = append(issues, *cmorval.NewIssue(cmorval.StageMetadataRead, cmorval.KindMissingField,
					"unusable time metadata: %v", err))
				return p.finish(res, issues...)
			}
			issues = append(issues, timeaxis.Check(rec, md, dec)...)
		}
	}

	// Sampling only needs the file to be open-able, so it runs even
	// when the cross-check or time-axis stages found problems.
	if sp, err := p.sampler.Sample(ctx, c.Path, md); err != nil {
		issues = append(issues, *cmorval.AsIssue(err, cmorval.StageSampling, cmorval.KindDataReadError))
	} else if sp.Missing {
		p.logger.Debug("sampled a missing-value marker", "file", c.Basename, "index", sp.Index)
	}

	if p.opts.Checksum != nil {
		sum, err := cmorval.HashFile(p.opts.Checksum, c.Path)
		if err != nil {
			p.logger.Warn("checksum failed", "file", c.Basename, "error", err)
		} else {
			res.Checksum = sum
		}
	}

	return p.finish(res, issues...)
}

// finish seals a result and emits its log lines: one per issue at
// warn (error for fatal kinds), and a debug line for a pass.
func (p *Pipeline) finish(res cmorval.Result, issues ...cmorval.Issue) cmorval.Result {
	res.Issues = issues
	res.Passed = len(issues) == 0

	for i := range issues {
		issue := &issues[i]
		if issue.Kind.Fatal() {
			p.logger.Error("validation issue", "file", res.Basename,
				"stage", issue.Stage, "kind", issue.Kind, "detail", issue.Message)
		} else {
			p.logger.Warn("validation issue", "file", res.Basename,
				"stage", issue.Stage, "kind", issue.Kind, "detail", issue.Message)
		}
	}
	if res.Passed {
		p.logger.Debug("file passed validation", "file", res.Basename)
	}
	return res
}
