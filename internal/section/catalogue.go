package section

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/alexiusacademia/ifcfem/internal/nscp"
)

// Elastic holds catalogue constants in SI units (Pa, kg/m³)
type Elastic struct {
	Family string
	E      float64
	Nu     float64
	Rho    float64
}

// G is the isotropic shear modulus
func (e Elastic) G() float64 {
	return e.E / (2 * (1 + e.Nu))
}

var (
	steel     = Elastic{Family: "steel", E: nscp.Es * 1e6, Nu: 0.3, Rho: 7850}
	aluminium = Elastic{Family: "aluminium", E: 73.1e9, Nu: 0.35, Rho: 2790}
	timber    = Elastic{Family: "timber", E: 13.1e9, Nu: 0.29, Rho: 470}
)

var families = []struct {
	words []string
	value Elastic
}{
	{[]string{"steel", "stahl", "acier", "s235", "s275", "s355", "a36", "a992"}, steel},
	{[]string{"aluminium", "aluminum"}, aluminium},
	{[]string{"timber", "wood", "glulam", "lumber", "holz"}, timber},
}

var concreteWords = []string{"concrete", "beton", "reinforced", "rc "}

// Strength patterns: EN classes like C30/37, f'c 28 or a bare MPa value
var strengthPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bc(\d+(?:\.\d+)?)(?:/\d+)?\b`),
	regexp.MustCompile(`(?i)f'?c\s*=?\s*(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*mpa`),
}

// Catalogue infers elastic constants from a material name and category
func Catalogue(name, category string) (Elastic, bool) {
	text := strings.ToLower(name + " " + category + " ")

	for _, w := range concreteWords {
		if strings.Contains(text, w) {
			return concrete(name), true
		}
	}
	for _, f := range families {
		for _, w := range f.words {
			if strings.Contains(text, w) {
				return f.value, true
			}
		}
	}
	return Elastic{}, false
}

// concrete follows NSCP: Ec = 4700√f'c with the strength read from the name
func concrete(name string) Elastic {
	fc := nscp.DefaultFc
	for _, re := range strengthPatterns {
		if m := re.FindStringSubmatch(name); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 0 {
				fc = v
				break
			}
		}
	}
	return Elastic{
		Family: "concrete",
		E:      nscp.Ec(fc) * 1e6,
		Nu:     nscp.ConcreteNu,
		Rho:    nscp.ConcreteDensity,
	}
}
