// Package crosscheck compares the metadata a filename encodes against
// the metadata stored inside the file.
package crosscheck

import (
	"github.com/hadproc/cmorval/cmorval"
)

// Check compares every field present in both the filename record and
// the file metadata. Identifier fields must agree byte for byte;
// frequency is normalized to its canonical form on both sides first,
// since filenames encode it through the table name while files declare
// it directly (possibly with a cell-methods suffix such as "monPt").
//
// All mismatches are accumulated so a single run reports every
// discrepancy; none of them halts the remaining stages.
func Check(rec *cmorval.FilenameRecord, md *cmorval.FileMetadata) []cmorval.Issue {
	var issues []cmorval.Issue

	mismatch := func(field, fromName, fromFile string) {
		issues = append(issues, *cmorval.NewIssue(cmorval.StageCrossCheck, cmorval.KindMetadataMismatch,
			"%s: filename says %q, file metadata says %q", field, fromName, fromFile))
	}

	// A metadata field the file simply does not carry is not a
	// mismatch; only disagreements between present fields are.
	exact := func(field, fromName, fromFile string) {
		if fromFile != "" && fromName != fromFile {
			mismatch(field, fromName, fromFile)
		}
	}

	exact("variable name", rec.Variable, md.Variable)
	exact("table", rec.Table, md.Table)
	exact("model", rec.Model, md.Model)
	exact("experiment", rec.Experiment, md.Experiment)
	exact("variant label", rec.Variant, md.Variant)
	if rec.Convention == cmorval.CMIP6 {
		exact("grid label", rec.Grid, md.Grid)
	}

	if md.Frequency != "" {
		fileFreq, ok := cmorval.NormalizeFrequency(md.Frequency)
		if !ok || string(fileFreq) != rec.Frequency {
			mismatch("frequency", rec.Frequency, md.Frequency)
		}
	}

	return issues
}
