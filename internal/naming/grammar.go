// Package naming tokenizes CMOR filenames against the supported naming
// conventions and recovers the metadata they encode.
package naming

import (
	"github.com/hadproc/cmorval/cmorval"
)

// Grammar describes how one naming convention lays out a filename:
//
//	<field>_<field>_..._<start>-<end>[-clim].nc
//
// Core fields are separator-joined in a fixed order; the trailing date
// range is two fixed-width date strings joined by the range connector.
// Grammars are pure lookup tables with no mutable state.
type Grammar struct {
	Convention cmorval.Convention

	// Fields is the ordered list of core fields, excluding the
	// trailing date-range segment.
	Fields []string

	// Separator joins core fields.
	Separator string

	// RangeConnector joins the start and end date inside the
	// date-range segment.
	RangeConnector string
}

// Grammar constants shared by both conventions.
const (
	fieldSeparator = "_"
	rangeConnector = "-"

	dataSuffix = ".nc"
	climSuffix = "-clim.nc"
)

// Core field names, in convention order.
const (
	fieldVariable   = "variable"
	fieldTable      = "table"
	fieldModel      = "model"
	fieldExperiment = "experiment"
	fieldVariant    = "variant"
	fieldGrid       = "grid"
)

var grammars = map[cmorval.Convention]Grammar{
	cmorval.CMIP5: {
		Convention:     cmorval.CMIP5,
		Fields:         []string{fieldVariable, fieldTable, fieldModel, fieldExperiment, fieldVariant},
		Separator:      fieldSeparator,
		RangeConnector: rangeConnector,
	},
	cmorval.CMIP6: {
		Convention:     cmorval.CMIP6,
		Fields:         []string{fieldVariable, fieldTable, fieldModel, fieldExperiment, fieldVariant, fieldGrid},
		Separator:      fieldSeparator,
		RangeConnector: rangeConnector,
	},
}

// GrammarFor returns the grammar for a convention.
func GrammarFor(conv cmorval.Convention) (Grammar, bool) {
	g, ok := grammars[conv]
	return g, ok
}

// ExpectedFields returns the number of separator-delimited fields a
// conformant filename has. Files without a date range (fixed-frequency
// cell measures) carry one field fewer.
func (g Grammar) ExpectedFields(withDateRange bool) int {
	if withDateRange {
		return len(g.Fields) + 1
	}
	return len(g.Fields)
}
