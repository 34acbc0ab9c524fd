// Package report serializes run summaries for downstream consumers: a
// JSON document (optionally gzip-compressed) for archiving alongside
// the submission, and a flat parquet issue table for quality
// analytics.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/klauspost/compress/gzip"

	"github.com/hadproc/cmorval/cmorval"
)

// SchemaJSON identifies the JSON report document format.
const SchemaJSON = "cmorval.run_report.v1"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type runReport struct {
	Schema     string       `json:"schema"`
	RunID      string       `json:"run_id"`
	Convention string       `json:"convention"`
	StartedAt  time.Time    `json:"started_at"`
	DurationMs int64        `json:"duration_ms"`
	Total      int          `json:"files_total"`
	Passed     int          `json:"files_passed"`
	Failed     int          `json:"files_failed"`
	Pass       bool         `json:"pass"`
	Files      []fileReport `json:"files"`
}

type fileReport struct {
	Path      string        `json:"path"`
	Basename  string        `json:"basename"`
	Passed    bool          `json:"passed"`
	SizeBytes int64         `json:"size_bytes,omitempty"`
	Checksum  string        `json:"checksum,omitempty"`
	Issues    []issueReport `json:"issues,omitempty"`
}

type issueReport struct {
	Stage   string `json:"stage"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// WriteJSON writes the run report to path. A ".gz" suffix selects
// gzip-compressed output.
func WriteJSON(path string, s *cmorval.RunSummary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report %s: %w", path, err)
	}

	var w io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = gzip.NewWriter(f)
		w = gz
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	encErr := enc.Encode(buildReport(s))

	if gz != nil {
		if err := gz.Close(); err != nil && encErr == nil {
			encErr = err
		}
	}
	if err := f.Close(); err != nil && encErr == nil {
		encErr = err
	}
	if encErr != nil {
		return fmt.Errorf("report %s: %w", path, encErr)
	}
	return nil
}

func buildReport(s *cmorval.RunSummary) runReport {
	rep := runReport{
		Schema:     SchemaJSON,
		RunID:      s.RunID,
		Convention: string(s.Convention),
		StartedAt:  s.StartedAt,
		DurationMs: s.Duration.Milliseconds(),
		Total:      s.Total,
		Passed:     s.Passed,
		Failed:     s.Failed,
		Pass:       s.Pass,
		Files:      make([]fileReport, 0, len(s.Results)),
	}
	for _, res := range s.Results {
		fr := fileReport{
			Path:      res.Path,
			Basename:  res.Basename,
			Passed:    res.Passed,
			SizeBytes: res.SizeBytes,
			Checksum:  res.Checksum,
		}
		for _, issue := range res.Issues {
			fr.Issues = append(fr.Issues, issueReport{
				Stage:   string(issue.Stage),
				Kind:    string(issue.Kind),
				Message: issue.Message,
			})
		}
		rep.Files = append(rep.Files, fr)
	}
	return rep
}
