package report

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/hadproc/cmorval/cmorval"
)

// IssueRow is one row of the parquet issue table: one row per issue
// for failing files, one stage-less row per passing file so that
// file-level pass rates can be computed from the same table.
type IssueRow struct {
	RunID      string `parquet:"run_id,dict"`
	Convention string `parquet:"convention,dict"`
	Path       string `parquet:"path"`
	Basename   string `parquet:"basename"`
	Passed     bool   `parquet:"passed"`
	SizeBytes  int64  `parquet:"size_bytes"`
	Stage      string `parquet:"stage,dict,optional"`
	Kind       string `parquet:"kind,dict,optional"`
	Message    string `parquet:"message,optional"`
}

// WriteParquet writes the flattened issue table to path.
func WriteParquet(path string, s *cmorval.RunSummary) error {
	rows := flattenRows(s)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("parquet report %s: %w", path, err)
	}

	w := parquet.NewGenericWriter[IssueRow](f)
	_, werr := w.Write(rows)
	if err := w.Close(); err != nil && werr == nil {
		werr = err
	}
	if err := f.Close(); err != nil && werr == nil {
		werr = err
	}
	if werr != nil {
		return fmt.Errorf("parquet report %s: %w", path, werr)
	}
	return nil
}

func flattenRows(s *cmorval.RunSummary) []IssueRow {
	rows := make([]IssueRow, 0, len(s.Results))
	for _, res := range s.Results {
		base := IssueRow{
			RunID:      s.RunID,
			Convention: string(s.Convention),
			Path:       res.Path,
			Basename:   res.Basename,
			Passed:     res.Passed,
			SizeBytes:  res.SizeBytes,
		}
		if len(res.Issues) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, issue := range res.Issues {
			row := base
			row.Stage = string(issue.Stage)
			row.Kind = string(issue.Kind)
			row.Message = issue.Message
			rows = append(rows, row)
		}
	}
	return rows
}
