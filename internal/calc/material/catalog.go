package material

import (
	"bytes"
	_ "embed"
	"fmt"
	"math"
	"sync"

	"Timber/internal/calcerr"
)

//go:embed data/timber_classes.yaml
var defaultTable []byte

// Default grades offered first for each kind.
const (
	DefaultSolid  = "C24"
	DefaultGlulam = "GL24h"
)

// Catalog maps grade names to materials. It is read-only after construction and
// safe for concurrent use.
type Catalog struct {
	byName map[string]Timber
	order  []string
}

// NewCatalog validates items and builds a catalog preserving their order.
func NewCatalog(items []Timber) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]Timber, len(items))}
	for _, t := range items {
		if err := validate(t); err != nil {
			return nil, err
		}
		if _, dup := c.byName[t.Name]; dup {
			return nil, calcerr.Field("grade", t.Name, "duplicate grade name")
		}
		c.byName[t.Name] = t
		c.order = append(c.order, t.Name)
	}
	return c, nil
}

func validate(t Timber) error {
	if t.Name == "" {
		return calcerr.Field("grade", t.Name, "empty grade name")
	}
	if !t.Kind.Valid() {
		return calcerr.Field(t.Name+".kind", t.Kind, "must be solid or glulam")
	}
	props := []struct {
		key string
		v   float64
	}{
		{"fm_k", t.FmK}, {"ft_0_k", t.Ft0K}, {"fv_k", t.FvK},
		{"E_0_mean", t.E0Mean}, {"E_0_05", t.E005},
		{"rho_k", t.RhoK}, {"rho_mean", t.RhoMean},
	}
	for _, p := range props {
		if !(p.v > 0) || math.IsInf(p.v, 1) {
			return calcerr.Field(t.Name+"."+p.key, p.v, "must be a positive finite number")
		}
	}
	return nil
}

// Lookup returns the material of the given grade.
func (c *Catalog) Lookup(name string) (Timber, error) {
	t, ok := c.byName[name]
	if !ok {
		return Timber{}, calcerr.NotFound("timber grade", name)
	}
	return t, nil
}

// Names lists grade names of one kind in catalog order; an empty kind lists all.
func (c *Catalog) Names(kind Kind) []string {
	out := make([]string, 0, len(c.order))
	for _, name := range c.order {
		if kind == "" || c.byName[name].Kind == kind {
			out = append(out, name)
		}
	}
	return out
}

// ByKind is Names with the full records.
func (c *Catalog) ByKind(kind Kind) []Timber {
	names := c.Names(kind)
	out := make([]Timber, 0, len(names))
	for _, name := range names {
		out = append(out, c.byName[name])
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.order)
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	c, err := LoadYAML(bytes.NewReader(defaultTable))
	if err != nil {
		return nil, fmt.Errorf("embedded timber table: %w", err)
	}
	return c, nil
})

// Default returns the catalog built from the embedded EN 338 / EN 14080 table.
func Default() (*Catalog, error) {
	return loadDefault()
}
