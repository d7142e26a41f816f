package material

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

type properties struct {
	FmK     float64 `yaml:"fm_k"`
	Ft0K    float64 `yaml:"ft_0_k"`
	FvK     float64 `yaml:"fv_k"`
	E0Mean  float64 `yaml:"E_0_mean"`
	E005    float64 `yaml:"E_0_05"`
	RhoK    float64 `yaml:"rho_k"`
	RhoMean float64 `yaml:"rho_mean"`
}

// document keeps the sections as nodes so grade order survives decoding.
type document struct {
	Solid  yaml.Node `yaml:"solid_timber"`
	Glulam yaml.Node `yaml:"glulam"`
}

// Load reads a catalog file; .yaml/.yml and .xlsx are supported.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(f)
	case ".xlsx":
		return LoadXLSX(f)
	default:
		return nil, fmt.Errorf("unsupported material table format %q", filepath.Ext(path))
	}
}

// LoadYAML parses a document with solid_timber and glulam sections keyed by grade.
func LoadYAML(r io.Reader) (*Catalog, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode material table: %w", err)
	}

	var items []Timber
	for _, sec := range []struct {
		node *yaml.Node
		kind Kind
	}{{&doc.Solid, KindSolid}, {&doc.Glulam, KindGlulam}} {
		if sec.node.Kind == 0 {
			continue
		}
		if sec.node.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("material table: %s section must be a mapping", sec.kind)
		}
		for i := 0; i+1 < len(sec.node.Content); i += 2 {
			name := sec.node.Content[i].Value
			var p properties
			if err := sec.node.Content[i+1].Decode(&p); err != nil {
				return nil, fmt.Errorf("material %s: %w", name, err)
			}
			items = append(items, p.timber(name, sec.kind))
		}
	}
	return NewCatalog(items)
}

func (p properties) timber(name string, kind Kind) Timber {
	return Timber{
		Name:    name,
		Kind:    kind,
		FmK:     p.FmK,
		Ft0K:    p.Ft0K,
		FvK:     p.FvK,
		E0Mean:  p.E0Mean,
		E005:    p.E005,
		RhoK:    p.RhoK,
		RhoMean: p.RhoMean,
	}
}

var xlsxColumns = []string{"name", "kind", "fm_k", "ft_0_k", "fv_k", "e_0_mean", "e_0_05", "rho_k", "rho_mean"}

// LoadXLSX reads the first sheet of a workbook. The first row is a header naming
// the columns name, kind, fm_k, ft_0_k, fv_k, E_0_mean, E_0_05, rho_k, rho_mean in
// any order; empty rows are skipped.
func LoadXLSX(r io.Reader) (*Catalog, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("material sheet has no data rows")
	}

	col := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range xlsxColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("material sheet: missing column %q", name)
		}
	}

	var items []Timber
	for n, row := range rows[1:] {
		cell := func(key string) string {
			if i := col[key]; i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}
		if cell("name") == "" {
			continue
		}
		t := Timber{Name: cell("name"), Kind: Kind(strings.ToLower(cell("kind")))}
		for _, fld := range []struct {
			key string
			dst *float64
		}{
			{"fm_k", &t.FmK}, {"ft_0_k", &t.Ft0K}, {"fv_k", &t.FvK},
			{"e_0_mean", &t.E0Mean}, {"e_0_05", &t.E005},
			{"rho_k", &t.RhoK}, {"rho_mean", &t.RhoMean},
		} {
			v, err := strconv.ParseFloat(strings.ReplaceAll(cell(fld.key), ",", "."), 64)
			if err != nil {
				return nil, fmt.Errorf("material sheet row %d, %s: %w", n+2, fld.key, err)
			}
			*fld.dst = v
		}
		items = append(items, t)
	}
	return NewCatalog(items)
}
