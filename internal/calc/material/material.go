// Package material describes structural timber strength classes (EN 338, EN 14080)
// and the catalog they are looked up from.
package material

// Kind partitions the catalog into solid and glued-laminated timber.
type Kind string

const (
	KindSolid  Kind = "solid"
	KindGlulam Kind = "glulam"
)

// Valid reports whether k is a known timber kind.
func (k Kind) Valid() bool {
	return k == KindSolid || k == KindGlulam
}

// Label is the human readable name of the kind.
func (k Kind) Label() string {
	switch k {
	case KindSolid:
		return "Solid timber"
	case KindGlulam:
		return "Glued laminated timber"
	default:
		return string(k)
	}
}

// Timber is one strength class. Stresses in MPa, densities in kg/m3.
type Timber struct {
	Name    string  `json:"name"`
	Kind    Kind    `json:"kind"`
	FmK     float64 `json:"fm_k"`     // bending strength
	Ft0K    float64 `json:"ft_0_k"`   // tension parallel to grain
	FvK     float64 `json:"fv_k"`     // shear strength
	E0Mean  float64 `json:"e_0_mean"` // mean modulus of elasticity
	E005    float64 `json:"e_0_05"`   // 5% modulus of elasticity
	RhoK    float64 `json:"rho_k"`
	RhoMean float64 `json:"rho_mean"`
}

// GammaM is the material partial factor, EN 1995-1-1 table 2.3.
func (t Timber) GammaM() float64 {
	if t.Kind == KindSolid {
		return 1.3
	}
	return 1.25
}

// Kcr is the crack factor for shear resistance. Same value for both kinds.
func (t Timber) Kcr() float64 {
	return 0.67
}
