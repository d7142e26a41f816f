// Package importer reads beam inputs from XLSX sheets and writes evaluated
// results back to XLSX.
package importer

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"Timber/internal/calc/fire"
	"Timber/internal/calc/loads"
	"Timber/internal/calc/premium/batch"
	"Timber/internal/calc/timber"
)

// Required columns of an import sheet, in any order. Optional columns are
// service_class, load_duration, load_category, lef_factor, deflection_limit,
// fire_min, exposure and beta_0. A blank fire_min skips the fire check.
var requiredColumns = []string{"grade", "width_mm", "height_mm", "span_m", "g_k", "q_k"}

// RowError reports a row that could not be parsed. Rows are numbered as in
// the spreadsheet.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// Parsed is the content of an import sheet.
type Parsed struct {
	Inputs []timber.Input
	Rows   []int // spreadsheet row of each input
	Errors []RowError
}

// Parse reads the first sheet of an XLSX workbook.
func Parse(r io.Reader) (Parsed, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Parsed{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return Parsed{}, fmt.Errorf("read sheet: %w", err)
	}
	if len(rows) < 2 {
		return Parsed{}, fmt.Errorf("empty sheet")
	}

	col := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return Parsed{}, fmt.Errorf("missing column %q", name)
		}
	}

	var out Parsed
	for n, row := range rows[1:] {
		rowNum := n + 2
		cell := func(key string) string {
			if i, ok := col[key]; ok && i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}
		if cell("grade") == "" {
			continue
		}
		in, err := parseRow(cell)
		if err != nil {
			out.Errors = append(out.Errors, RowError{Row: rowNum, Error: err.Error()})
			continue
		}
		out.Inputs = append(out.Inputs, in)
		out.Rows = append(out.Rows, rowNum)
	}
	return out, nil
}

func toFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

func parseRow(cell func(string) string) (timber.Input, error) {
	in := timber.Input{
		Grade:    cell("grade"),
		Duration: loads.Duration(cell("load_duration")),
		Category: loads.Category(cell("load_category")),
	}
	for _, fld := range []struct {
		key string
		dst *float64
	}{
		{"width_mm", &in.WidthMM}, {"height_mm", &in.HeightMM}, {"span_m", &in.SpanM},
		{"g_k", &in.LoadGKNM}, {"q_k", &in.LoadQKNM},
	} {
		v, err := toFloat(cell(fld.key))
		if err != nil {
			return timber.Input{}, fmt.Errorf("%s: %q is not a number", fld.key, cell(fld.key))
		}
		*fld.dst = v
	}

	if s := cell("lef_factor"); s != "" {
		v, err := toFloat(s)
		if err != nil {
			return timber.Input{}, fmt.Errorf("lef_factor: %q is not a number", s)
		}
		in.LefFactor = v
	}
	ints := []struct {
		key string
		set func(int)
	}{
		{"service_class", func(v int) { in.ServiceClass = loads.ServiceClass(v) }},
		{"deflection_limit", func(v int) { in.DeflectionLimit = v }},
		{"fire_min", func(v int) { in.Fire = &timber.FireInput{DurationMin: v} }},
	}
	for _, fld := range ints {
		s := cell(fld.key)
		if s == "" {
			continue
		}
		v, err := toFloat(s)
		if err != nil || v != math.Trunc(v) {
			return timber.Input{}, fmt.Errorf("%s: %q is not a whole number", fld.key, s)
		}
		fld.set(int(v))
	}
	if in.Fire != nil {
		in.Fire.Exposure = fire.Pattern(cell("exposure"))
		switch strings.ToLower(cell("beta_0")) {
		case "1", "true", "yes", "x":
			in.Fire.UseBeta0 = true
		}
		exp := fire.Exposure{DurationMin: in.Fire.DurationMin, Pattern: in.Fire.Exposure}
		if err := exp.Validate(); err != nil {
			return timber.Input{}, err
		}
	}
	return in, nil
}

// ImportResult is the evaluation of an import sheet.
type ImportResult struct {
	batch.Result
	Rows      []int      `json:"rows"`
	RowErrors []RowError `json:"row_errors,omitempty"`
}

var exportHeader = []any{
	"grade", "width_mm", "height_mm", "span_m", "g_k", "q_k", "fire_min",
	"bending_%", "shear_%", "buckling_%", "deflection_%", "fire_bending_%", "fire_shear_%",
	"passed", "summary", "error",
}

func percent(u float64) any {
	if math.IsInf(u, 0) || math.IsNaN(u) {
		return "consumed"
	}
	return math.Round(u*1000) / 10
}

// Export writes one row per batch item to an XLSX workbook.
func Export(w io.Writer, inputs []timber.Input, res batch.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return err
	}
	for i, it := range res.Items {
		in := inputs[it.Index]
		row := []any{in.Grade, in.WidthMM, in.HeightMM, in.SpanM, in.LoadGKNM, in.LoadQKNM, ""}
		if in.Fire != nil {
			row[6] = in.Fire.DurationMin
		}
		if r := it.Result; r != nil {
			s := r.Structural
			row = append(row,
				percent(s.Bending.Utilization), percent(s.Shear.Utilization),
				percent(s.Buckling.Utilization), percent(s.Deflection.Utilization()))
			if r.Fire != nil {
				row = append(row, percent(r.Fire.Bending.Utilization), percent(r.Fire.Shear.Utilization))
			} else {
				row = append(row, "", "")
			}
			row = append(row, r.AllPassed, r.Summary, "")
		} else {
			row = append(row, "", "", "", "", "", "", false, "", it.Error)
		}
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}
