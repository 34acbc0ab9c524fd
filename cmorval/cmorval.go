// Package cmorval defines the core types and component contracts for
// validating CMOR-named climate model output files prior to submission.
//
// A validation run walks a set of candidate files and, for each one,
// confirms that the filename conforms to the selected naming convention,
// that the file's internal metadata agrees with the filename, that the
// declared time span is exactly covered by contiguous time samples, and
// that the payload is physically readable.
//
// The heavy lifting lives in the internal packages; this package holds
// the data model shared between them and the interfaces that external
// collaborators (the netCDF reader, file sources, report sinks)
// implement.
package cmorval

import "context"

// Convention selects one of the supported CMOR filename conventions.
type Convention string

const (
	// CMIP5 filenames carry six underscore-separated fields and no
	// grid label.
	CMIP5 Convention = "CMIP5"

	// CMIP6 filenames carry seven underscore-separated fields
	// including a grid label.
	CMIP6 Convention = "CMIP6"
)

// Valid reports whether c is a recognized convention.
func (c Convention) Valid() bool {
	return c == CMIP5 || c == CMIP6
}

// Candidate identifies one file to validate. Basename is the file name
// as submitted (used for filename parsing); Path is where the payload
// can be opened, which may be a staged copy when the submission lives
// on remote storage.
type Candidate struct {
	Basename string
	Path     string
}

// FilenameRecord holds the fields recovered from a conformant filename.
// StartDate and EndDate are nil for files without a date-range segment
// (fixed-frequency cell measures).
type FilenameRecord struct {
	Convention Convention
	Variable   string
	Table      string
	Model      string
	Experiment string
	Variant    string
	Grid       string // CMIP6 only
	Frequency  string // canonical, derived from Table
	StartDate  *Date
	EndDate    *Date

	// Climatology is set for "-clim" files, which are checked against
	// time bounds rather than time points.
	Climatology bool
}

// FileMetadata holds the subset of a file's internal metadata needed for
// cross-checking and time-axis analysis. It is constructed once per file
// and read-only afterward.
type FileMetadata struct {
	Variable   string
	Table      string
	Model      string
	Experiment string
	Variant    string
	Grid       string
	Frequency  string // as declared in the file, not normalized

	// Time axis. TimeUnits is a CF units string such as
	// "days since 1850-01-01"; Calendar is the CF calendar attribute.
	// TimeBounds is nil when the time coordinate has no bounds.
	TimeUnits  string
	Calendar   string
	TimePoints []float64
	TimeBounds [][2]float64

	// CellMethods is the data variable's cell_methods attribute.
	// Instantaneous ("time: point") data is exempt from bounds
	// contiguity checks.
	CellMethods string

	// Shape holds the data variable's dimension sizes, time first when
	// a time dimension is present.
	Shape []int

	SizeBytes int64
}

// SamplePoint is the outcome of reading one in-bounds data value.
// Missing is set when the value equals the variable's declared missing
// marker; an isolated missing value is not a validation failure.
type SamplePoint struct {
	Index   []int
	Value   float64
	Missing bool
}

// MetadataReader extracts FileMetadata from a candidate file. It is the
// boundary to the underlying scientific file format library; the core
// only requires that the listed fields are produced and that failures
// are reported as KindUnreadableFile or KindMissingField issues.
type MetadataReader interface {
	Read(ctx context.Context, path string) (*FileMetadata, error)
}

// DataSampler reads one arbitrary in-bounds value from a file's data
// payload. The index chosen is implementation-defined but must lie
// within md.Shape.
type DataSampler interface {
	Sample(ctx context.Context, path string, md *FileMetadata) (SamplePoint, error)
}
