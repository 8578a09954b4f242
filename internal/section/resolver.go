package section

import (
	"fmt"
	"log/slog"

	"github.com/alexiusacademia/ifcfem/internal/config"
	"github.com/alexiusacademia/ifcfem/internal/helper"
	"github.com/alexiusacademia/ifcfem/internal/model"
)

const stage = "section"

// origin of a resolved property value
type origin int

const (
	fromIFC origin = iota
	derived
	fromCatalogue
	fromDefault
)

// Resolver turns element properties into interned section and material
// descriptors. One Resolver serves one run.
type Resolver struct {
	cfg    config.Config
	names  lookup
	logger *slog.Logger

	sections      map[string]*model.SectionDescriptor
	sectionNames  map[string]bool
	materials     map[string]*model.MaterialDescriptor
	materialNames map[string]bool

	summary model.Summary
}

// NewResolver creates a resolver with empty caches. A nil logger discards output.
func NewResolver(cfg config.Config, logger *slog.Logger) *Resolver {
	return &Resolver{
		cfg:           cfg,
		names:         newLookup(cfg.Synonyms),
		logger:        helper.OrDiscard(logger),
		sections:      make(map[string]*model.SectionDescriptor),
		sectionNames:  make(map[string]bool),
		materials:     make(map[string]*model.MaterialDescriptor),
		materialNames: make(map[string]bool),
	}
}

// Summary returns the defaults and warnings recorded so far
func (r *Resolver) Summary() model.Summary {
	return r.summary
}

// resolution collects the warnings of one Resolve call
type resolution struct {
	r        *Resolver
	el       model.StructuralElement
	warnings []model.Warning
}

func (res *resolution) warn(msg string) {
	w := model.Warning{Stage: stage, Source: res.el.Source.String(), Message: msg}
	res.warnings = append(res.warnings, w)
	res.r.summary.Warnings = append(res.r.summary.Warnings, w)
}

func (res *resolution) fill(property string, value float64, reason string) {
	w := &model.PropertyResolutionWarning{Source: res.el.Source, Property: property, Default: value, Reason: reason}
	res.r.summary.Defaults++
	res.r.logger.Warn("Property defaulted",
		slog.String("element", res.el.Source.String()),
		slog.String("property", property),
		slog.Float64("value", value),
	)
	res.warn(w.Detail())
}

// lookup walks the element property sets then the primary material's
// properties, recording every value it had to skip
func (res *resolution) lookup(canonical string) (float64, bool) {
	v, ok, problems := res.r.names.find(canonical, res.el.Properties)
	for _, p := range problems {
		res.warn(p)
	}
	if ok {
		return v, true
	}
	if mat, has := primaryMaterial(res.el); has {
		v, ok, problems = res.r.names.find(canonical, mat.Properties)
		for _, p := range problems {
			res.warn(p)
		}
	}
	return v, ok
}

// Resolve returns the interned descriptors for one element together with
// the warnings raised while resolving it. Missing properties are filled
// from derived values, the material catalogue or the configured defaults.
func (r *Resolver) Resolve(el model.StructuralElement, g model.CanonicalGeometry) (*model.SectionDescriptor, *model.MaterialDescriptor, []model.Warning) {
	res := &resolution{r: r, el: el}

	var sec model.SectionDescriptor
	if el.Kind.IsArea() {
		sec = res.shell(g)
	} else {
		sec = res.frame()
	}
	mat := res.material()

	return r.internSection(sec), r.internMaterial(mat, el), res.warnings
}

func (res *resolution) frame() model.SectionDescriptor {
	def := res.r.cfg.Defaults.Section
	fp, hasProfile := res.profile()

	values := map[string]float64{}
	allDefault := true
	for _, p := range []struct {
		name    string
		derived float64
		def     float64
	}{
		{config.Area, fp.A, def.A},
		{config.Iy, fp.Iy, def.Iy},
		{config.Iz, fp.Iz, def.Iz},
		{config.J, fp.J, def.J},
	} {
		if v, ok := res.lookup(p.name); ok {
			values[p.name] = v
			allDefault = false
			continue
		}
		if hasProfile && p.derived > 0 {
			values[p.name] = p.derived
			allDefault = false
			continue
		}
		values[p.name] = p.def
		res.fill(p.name, p.def, "")
	}

	if allDefault {
		return def
	}
	return model.SectionDescriptor{
		Kind: model.FrameSection,
		A:    values[config.Area],
		Iy:   values[config.Iy],
		Iz:   values[config.Iz],
		J:    values[config.J],
	}
}

func (res *resolution) profile() (FrameProperties, bool) {
	body := res.el.Representation.Body
	if body == nil {
		return FrameProperties{}, false
	}
	return FromProfile(body.Profile)
}

func (res *resolution) shell(g model.CanonicalGeometry) model.SectionDescriptor {
	def := res.r.cfg.Defaults.Shell

	t, ok := res.lookup(config.Thickness)
	if !ok {
		t = layerThickness(res.el)
		ok = t > 0
	}
	if !ok && g.Thickness > 0 {
		t, ok = g.Thickness, true
	}
	if !ok {
		res.fill(config.Thickness, def.Thickness, "")
		return def
	}
	return model.SectionDescriptor{Kind: model.ShellSection, Thickness: t}
}

func (res *resolution) material() model.MaterialDescriptor {
	def := res.r.cfg.Defaults.Material

	var cat Elastic
	var hasCat bool
	if mat, ok := primaryMaterial(res.el); ok {
		cat, hasCat = Catalogue(mat.Name, mat.Category)
	}

	resolve := func(name string, catValue, defValue float64) (float64, origin) {
		if v, ok := res.lookup(name); ok {
			return v, fromIFC
		}
		if hasCat {
			res.fill(name, catValue, fmt.Sprintf("inferred from %s catalogue", cat.Family))
			return catValue, fromCatalogue
		}
		res.fill(name, defValue, "")
		return defValue, fromDefault
	}

	e, eFrom := resolve(config.YoungsModulus, cat.E, def.E)
	nu, nuFrom := resolve(config.PoissonRatio, cat.Nu, def.Nu)
	rho, rhoFrom := resolve(config.Density, cat.Rho, def.Rho)

	g, ok := res.lookup(config.ShearModulus)
	gFrom := fromIFC
	switch {
	case ok:
	case eFrom != fromDefault || nuFrom != fromDefault:
		g, gFrom = e/(2*(1+nu)), derived
	default:
		g, gFrom = def.G, fromDefault
		res.fill(config.ShearModulus, g, "")
	}

	if eFrom == fromDefault && nuFrom == fromDefault && rhoFrom == fromDefault && gFrom == fromDefault {
		return def
	}
	return model.MaterialDescriptor{E: e, G: g, Nu: nu, Rho: rho}
}

func (r *Resolver) internSection(s model.SectionDescriptor) *model.SectionDescriptor {
	key := s.Key()
	if d, ok := r.sections[key]; ok {
		return d
	}
	d := s
	if d.Name == "" || r.sectionNames[d.Name] {
		d.Name = uniqueName(r.sectionNames, "S", "")
	}
	r.sectionNames[d.Name] = true
	r.sections[key] = &d
	r.logger.Debug("New section", slog.String("name", d.Name), slog.String("kind", d.Kind.String()))
	return &d
}

func (r *Resolver) internMaterial(m model.MaterialDescriptor, el model.StructuralElement) *model.MaterialDescriptor {
	key := m.Key()
	if d, ok := r.materials[key]; ok {
		return d
	}
	d := m
	if d.Name == "" {
		if mat, ok := primaryMaterial(el); ok {
			d.Name = mat.Name
		}
	}
	if d.Name == "" || r.materialNames[d.Name] {
		d.Name = uniqueName(r.materialNames, "M", d.Name)
	}
	r.materialNames[d.Name] = true
	r.materials[key] = &d
	r.logger.Debug("New material", slog.String("name", d.Name), slog.Float64("E", d.E))
	return &d
}

// uniqueName returns base (2), base (3), … for a taken base, or
// prefix1, prefix2, … when there is no base
func uniqueName(taken map[string]bool, prefix, base string) string {
	for i := 1; ; i++ {
		var name string
		if base == "" {
			name = fmt.Sprintf("%s%d", prefix, i)
		} else {
			name = fmt.Sprintf("%s (%d)", base, i+1)
		}
		if !taken[name] {
			return name
		}
	}
}

func primaryMaterial(el model.StructuralElement) (model.MaterialRef, bool) {
	if len(el.Materials) == 0 {
		return model.MaterialRef{}, false
	}
	return el.Materials[0], true
}

// layerThickness sums the material layers of a layered element
func layerThickness(el model.StructuralElement) float64 {
	var t float64
	for _, m := range el.Materials {
		if m.LayerThickness > 0 {
			t += m.LayerThickness
		}
	}
	return t
}
