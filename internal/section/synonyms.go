package section

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/alexiusacademia/ifcfem/internal/config"
	"github.com/alexiusacademia/ifcfem/internal/model"
)

// lookup maps lower-cased accepted names, bare or "pset.name", to their
// canonical property. The first table entry claiming a name keeps it.
type lookup map[string]string

func newLookup(synonyms []config.Synonym) lookup {
	l := make(lookup)
	for _, s := range synonyms {
		for _, name := range s.Accept {
			key := strings.ToLower(strings.TrimSpace(name))
			if key == "" {
				continue
			}
			if _, ok := l[key]; !ok {
				l[key] = s.Canonical
			}
		}
	}
	return l
}

// canonical returns the canonical name for p. A qualified entry beats a
// bare one.
func (l lookup) canonical(p model.Property) (string, bool) {
	if p.Set != "" {
		if c, ok := l[strings.ToLower(p.Set+"."+p.Name)]; ok {
			return c, true
		}
	}
	c, ok := l[strings.ToLower(p.Name)]
	return c, ok
}

// find returns the first usable value of canonical among props. Values
// that cannot be read as numbers are reported and skipped.
func (l lookup) find(canonical string, props []model.Property) (float64, bool, []string) {
	var problems []string
	for _, p := range props {
		c, ok := l.canonical(p)
		if !ok || c != canonical {
			continue
		}
		v := p.Value
		if !p.Numeric {
			parsed, err := strconv.ParseFloat(strings.TrimSpace(p.Text), 64)
			if err != nil {
				problems = append(problems, fmt.Sprintf("%s has unparseable value %q", qualified(p), p.Text))
				continue
			}
			v = parsed
		}
		if !valid(canonical, v) {
			problems = append(problems, fmt.Sprintf("%s has out of range value %g", qualified(p), v))
			continue
		}
		return v, true, problems
	}
	return 0, false, problems
}

// valid rejects values no solver would accept
func valid(canonical string, v float64) bool {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return false
	}
	switch canonical {
	case config.PoissonRatio:
		return v >= 0 && v < 0.5
	case config.Density:
		return v >= 0
	default:
		return v > 0
	}
}

func qualified(p model.Property) string {
	if p.Set == "" {
		return p.Name
	}
	return p.Set + "." + p.Name
}
