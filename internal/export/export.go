package export

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/multimediallc/complot/pkg/reconcile"
	"github.com/multimediallc/complot/pkg/summary"
)

type Format string

const (
	FormatCSV    Format = "csv"
	FormatXLSX   Format = "xlsx"
	FormatSQLite Format = "sqlite"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX, FormatSQLite:
		return f, nil
	case "excel":
		return FormatXLSX, nil
	case "db", "sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// ResolveFormat picks the export format from the flag, then the config, then the output extension
func ResolveFormat(flag, configured, path string) (Format, error) {
	for _, candidate := range []string{flag, configured} {
		if candidate != "" {
			return ParseFormat(candidate)
		}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return FormatCSV, nil
	}
}

type Options struct {
	// Separator is the csv field separator
	Separator rune
}

func DefaultOptions() Options {
	return Options{Separator: ';'}
}

// Write exports reconciled rows and well profiles to path
func Write(path string, format Format, rows []reconcile.Row, wells []summary.WellRow, opts Options) error {
	var err error
	switch format {
	case FormatCSV:
		err = writeCSV(path, rows, wells, opts)
	case FormatXLSX:
		err = writeXLSX(path, rows, wells)
	case FormatSQLite:
		err = writeSQLite(path, rows, wells)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to export %s: %w", path, err)
	}
	return nil
}

type kind int

const (
	kindText kind = iota
	kindInt
	kindReal
)

type column struct {
	name  string
	kind  kind
	value func(reconcile.Row) any
}

type wellColumn struct {
	name  string
	kind  kind
	value func(summary.WellRow) any
}

func optional(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func date(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.DateOnly)
}

var segmentColumns = []column{
	{"WELL", kindText, func(r reconcile.Row) any { return r.Well }},
	{"CASE", kindText, func(r reconcile.Row) any { return r.Case }},
	{"BRANCH", kindInt, func(r reconcile.Row) any { return r.Branch }},
	{"SECTION", kindText, func(r reconcile.Row) any { return string(r.Section) }},
	{"DATE", kindText, func(r reconcile.Row) any { return date(r.Date) }},
	{"DAY", kindReal, func(r reconcile.Row) any { return r.Day }},
	{"SEGMENT", kindInt, func(r reconcile.Row) any { return r.Segment }},
	{"MD", kindReal, func(r reconcile.Row) any { return r.MD }},
	{"STARTMD", kindReal, func(r reconcile.Row) any { return r.StartMD }},
	{"ENDMD", kindReal, func(r reconcile.Row) any { return r.EndMD }},
	{"CF", kindReal, func(r reconcile.Row) any { return r.CF }},
	{"KH", kindReal, func(r reconcile.Row) any { return r.KH }},
	{"THICKNESS", kindReal, func(r reconcile.Row) any { return r.Thickness }},
	{"DIAMETER", kindReal, func(r reconcile.Row) any { return r.Diameter }},
	{"SPR", kindReal, func(r reconcile.Row) any { return optional(r.SPR) }},
	{"SPRD", kindReal, func(r reconcile.Row) any { return optional(r.SPRD) }},
	{"SOFR", kindReal, func(r reconcile.Row) any { return optional(r.SOFR) }},
	{"SWFR", kindReal, func(r reconcile.Row) any { return optional(r.SWFR) }},
	{"SGFRF", kindReal, func(r reconcile.Row) any { return optional(r.SGFRF) }},
	{"SWCT", kindReal, func(r reconcile.Row) any { return optional(r.SWCT) }},
	{"SGOR", kindReal, func(r reconcile.Row) any { return optional(r.SGOR) }},
	{"AREA_10CM", kindReal, func(r reconcile.Row) any { return r.Area }},
	{"OIL_VELOCITY", kindReal, func(r reconcile.Row) any { return optional(r.OilVelocity) }},
	{"OIL_VELOCITY_M/S_10CM", kindReal, func(r reconcile.Row) any { return optional(r.OilVelocitySec) }},
	{"SOFR_M", kindReal, func(r reconcile.Row) any { return optional(r.OilPerLength) }},
	{"WATER_VELOCITY", kindReal, func(r reconcile.Row) any { return optional(r.WaterVelocity) }},
	{"WATER_VELOCITY_M/S_10CM", kindReal, func(r reconcile.Row) any { return optional(r.WaterVelocitySec) }},
	{"SWFR_M", kindReal, func(r reconcile.Row) any { return optional(r.WaterPerLength) }},
	{"GAS_VELOCITY", kindReal, func(r reconcile.Row) any { return optional(r.GasVelocity) }},
	{"GAS_VELOCITY_M/S_10CM", kindReal, func(r reconcile.Row) any { return optional(r.GasVelocitySec) }},
	{"SGFRF_M", kindReal, func(r reconcile.Row) any { return optional(r.GasPerLength) }},
}

var wellColumns = []wellColumn{
	{"WELL", kindText, func(w summary.WellRow) any { return w.Well }},
	{"CASE", kindText, func(w summary.WellRow) any { return w.Case }},
	{"DAY", kindReal, func(w summary.WellRow) any { return w.Day }},
	{"DATE", kindText, func(w summary.WellRow) any { return date(w.Date) }},
	{"WBHP", kindReal, func(w summary.WellRow) any { return w.WBHP }},
	{"WOPR", kindReal, func(w summary.WellRow) any { return w.WOPR }},
	{"WWPR", kindReal, func(w summary.WellRow) any { return w.WWPR }},
	{"WGPR", kindReal, func(w summary.WellRow) any { return w.WGPR }},
	{"WLPR", kindReal, func(w summary.WellRow) any { return w.WLPR }},
	{"WWCT", kindReal, func(w summary.WellRow) any { return w.WWCT }},
	{"WGOR", kindReal, func(w summary.WellRow) any { return w.WGOR }},
}

// Header returns the segment table column names
func Header() []string {
	names := make([]string, len(segmentColumns))
	for i, c := range segmentColumns {
		names[i] = c.name
	}
	return names
}

func segmentValues(r reconcile.Row) []any {
	values := make([]any, len(segmentColumns))
	for i, c := range segmentColumns {
		values[i] = c.value(r)
	}
	return values
}

func wellValues(w summary.WellRow) []any {
	values := make([]any, len(wellColumns))
	for i, c := range wellColumns {
		values[i] = c.value(w)
	}
	return values
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
