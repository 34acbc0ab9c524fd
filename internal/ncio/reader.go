// Package ncio is the netCDF boundary: it extracts the metadata subset
// the core validates against and performs the single-point payload
// read. Everything format-specific is confined here so the checking
// logic stays testable with synthetic in-memory metadata.
package ncio

import (
	"context"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"

	"github.com/hadproc/cmorval/cmorval"
)

// Reader implements cmorval.MetadataReader and cmorval.DataSampler on
// top of a pure-Go netCDF reader. The data variable is located by the
// leading filename field, which is how CMOR names it inside the file.
type Reader struct{}

// NewReader creates a netCDF-backed reader.
func NewReader() *Reader { return &Reader{} }

var (
	_ cmorval.MetadataReader = (*Reader)(nil)
	_ cmorval.DataSampler    = (*Reader)(nil)
)

// Read extracts the cross-checkable metadata from the file at path.
// Failures are *cmorval.Issue values: KindUnreadableFile when the file
// cannot be opened or decoded, KindMissingField when a required
// attribute or variable is absent.
func (r *Reader) Read(ctx context.Context, path string) (*cmorval.FileMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	nc, err := netcdf.Open(path)
	if err != nil {
		return nil, cmorval.NewIssue(cmorval.StageMetadataRead, cmorval.KindUnreadableFile,
			"cannot open %s: %v", path, err)
	}
	defer nc.Close()

	varName := variableFromPath(path)
	vg, err := nc.GetVarGetter(varName)
	if err != nil {
		return nil, cmorval.NewIssue(cmorval.StageMetadataRead, cmorval.KindMissingField,
			"%s: data variable %q not present", path, varName)
	}

	md := &cmorval.FileMetadata{Variable: varName}
	md.CellMethods, _ = attrString(vg.Attributes(), "cell_methods")

	globals := nc.Attributes()
	md.Frequency, _ = attrString(globals, "frequency")
	md.Experiment, _ = attrString(globals, "experiment_id")
	md.Variant, _ = attrString(globals, "variant_label")
	md.Grid, _ = attrString(globals, "grid_label")
	if md.Model, _ = attrString(globals, "source_id"); md.Model == "" {
		// CMIP5 files name the model differently.
		md.Model, _ = attrString(globals, "model_id")
	}
	md.Table = tableID(globals)

	if err := r.readTimeAxis(nc, md); err != nil {
		return nil, err
	}

	shape, err := variableShape(vg)
	if err != nil {
		return nil, cmorval.NewIssue(cmorval.StageMetadataRead, cmorval.KindUnreadableFile,
			"%s: cannot determine the shape of %q: %v", path, varName, err)
	}
	md.Shape = shape

	if info, err := os.Stat(path); err == nil {
		md.SizeBytes = info.Size()
	}
	return md, nil
}

// readTimeAxis fills the time coordinate fields. A file without a time
// variable is not an error here: cell measures legitimately have none,
// and for data files the empty axis is the contiguity stage's finding.
func (r *Reader) readTimeAxis(nc api.Group, md *cmorval.FileMetadata) error {
	tg, err := nc.GetVarGetter("time")
	if err != nil {
		return nil
	}

	attrs := tg.Attributes()
	units, ok := attrString(attrs, "units")
	if !ok {
		return cmorval.NewIssue(cmorval.StageMetadataRead, cmorval.KindMissingField,
			"time variable has no units attribute")
	}
	md.TimeUnits = units
	md.Calendar, _ = attrString(attrs, "calendar")

	raw, err := tg.Values()
	if err != nil {
		return cmorval.NewIssue(cmorval.StageMetadataRead, cmorval.KindUnreadableFile,
			"cannot read the time coordinate: %v", err)
	}
	points, err := toFloat64Slice(raw)
	if err != nil {
		return cmorval.NewIssue(cmorval.StageMetadataRead, cmorval.KindUnreadableFile,
			"unexpected time coordinate type: %v", err)
	}
	md.TimePoints = points

	if boundsName, ok := attrString(attrs, "bounds"); ok && boundsName != "" {
		bg, err := nc.GetVarGetter(boundsName)
		if err != nil {
			return cmorval.NewIssue(cmorval.StageMetadataRead, cmorval.KindMissingField,
				"declared time bounds variable %q not present", boundsName)
		}
		rawBounds, err := bg.Values()
		if err != nil {
			return cmorval.NewIssue(cmorval.StageMetadataRead, cmorval.KindUnreadableFile,
				"cannot read time bounds %q: %v", boundsName, err)
		}
		bounds, err := toBoundsPairs(rawBounds)
		if err != nil {
			return cmorval.NewIssue(cmorval.StageMetadataRead, cmorval.KindUnreadableFile,
				"unexpected time bounds shape in %q: %v", boundsName, err)
		}
		md.TimeBounds = bounds
	}
	return nil
}

// Sample reads one pseudo-random in-bounds value from the data
// payload. A faulted read (corrupt chunk, dangling external reference)
// is a KindDataReadError issue naming the sampled index; a legitimate
// missing-value marker at the sampled point is reported, not failed.
func (r *Reader) Sample(ctx context.Context, path string, md *cmorval.FileMetadata) (cmorval.SamplePoint, error) {
	if err := ctx.Err(); err != nil {
		return cmorval.SamplePoint{}, err
	}
	if len(md.Shape) == 0 {
		return cmorval.SamplePoint{}, cmorval.NewIssue(cmorval.StageSampling, cmorval.KindDataReadError,
			"%s: variable %q has no dimensions to sample", path, md.Variable)
	}
	index := make([]int, len(md.Shape))
	for i, n := range md.Shape {
		if n <= 0 {
			return cmorval.SamplePoint{}, cmorval.NewIssue(cmorval.StageSampling, cmorval.KindDataReadError,
				"%s: dimension %d of %q is empty", path, i, md.Variable)
		}
		index[i] = rand.IntN(n)
	}

	nc, err := netcdf.Open(path)
	if err != nil {
		return cmorval.SamplePoint{}, cmorval.NewIssue(cmorval.StageSampling, cmorval.KindDataReadError,
			"cannot reopen %s: %v", path, err)
	}
	defer nc.Close()

	vg, err := nc.GetVarGetter(md.Variable)
	if err != nil {
		return cmorval.SamplePoint{}, cmorval.NewIssue(cmorval.StageSampling, cmorval.KindDataReadError,
			"%s: data variable %q not present", path, md.Variable)
	}

	slice, err := vg.GetSlice(int64(index[0]), int64(index[0])+1)
	if err != nil {
		return cmorval.SamplePoint{}, cmorval.NewIssue(cmorval.StageSampling, cmorval.KindDataReadError,
			"unable to extract data point %v from %s: %v", index, path, err)
	}
	value, err := elementAt(slice, index[1:])
	if err != nil {
		return cmorval.SamplePoint{}, cmorval.NewIssue(cmorval.StageSampling, cmorval.KindDataReadError,
			"unable to extract data point %v from %s: %v", index, path, err)
	}

	sp := cmorval.SamplePoint{Index: index, Value: value}
	if fill, ok := fillValue(vg.Attributes()); ok {
		sp.Missing = value == fill || (math.IsNaN(value) && math.IsNaN(fill))
	}
	return sp, nil
}

// variableFromPath recovers the data variable name from the leading
// filename field, which is how CMOR names the variable inside the file.
func variableFromPath(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "_"); i > 0 {
		return base[:i]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// tableID reads the MIP table attribute. CMIP5 wraps the value in
// "Table Amon (..) ..."; CMIP6 stores it bare.
func tableID(globals api.AttributeMap) string {
	v, ok := attrString(globals, "table_id")
	if !ok {
		return ""
	}
	if rest, found := strings.CutPrefix(v, "Table "); found {
		if fields := strings.Fields(rest); len(fields) > 0 {
			return fields[0]
		}
	}
	return v
}

// fillValue returns the variable's declared missing-data marker.
func fillValue(attrs api.AttributeMap) (float64, bool) {
	for _, key := range []string{"_FillValue", "missing_value"} {
		if raw, has := attrs.Get(key); has {
			if v, err := toFloat64(raw); err == nil {
				return v, true
			}
		}
	}
	return 0, false
}
