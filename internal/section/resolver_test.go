package section

import (
	"math"
	"strings"
	"testing"

	"github.com/alexiusacademia/ifcfem/internal/config"
	"github.com/alexiusacademia/ifcfem/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func num(set, name string, v float64) model.Property {
	return model.Property{Set: set, Name: name, Value: v, Numeric: true}
}

func beam(id int, props []model.Property, mats ...model.MaterialRef) model.StructuralElement {
	return model.StructuralElement{
		Kind:       model.Beam,
		Source:     model.SourceRef{EntityID: id, Type: "IFCBEAM"},
		Properties: props,
		Materials:  mats,
	}
}

func TestResolveFrameFromProperties(t *testing.T) {
	r := NewResolver(config.Default(), nil)
	el := beam(1, []model.Property{
		num("Pset_StructuralSection", "CrossSectionArea", 0.02),
		num("Pset_StructuralSection", "MomentOfInertiaY", 2e-4),
		num("Pset_StructuralSection", "MomentOfInertiaZ", 1e-4),
		num("Pset_StructuralSection", "TorsionalConstantX", 5e-6),
	}, model.MaterialRef{Name: "Custom", Properties: []model.Property{
		num("Pset_MaterialMechanical", "YoungModulus", 210e9),
		num("Pset_MaterialMechanical", "PoissonRatio", 0.3),
		num("Pset_MaterialCommon", "MassDensity", 7800),
	}})

	sec, mat, warnings := r.Resolve(el, model.CanonicalGeometry{})

	assert.Empty(t, warnings)
	assert.Equal(t, "S1", sec.Name)
	assert.Equal(t, model.FrameSection, sec.Kind)
	assert.Equal(t, 0.02, sec.A)
	assert.Equal(t, 2e-4, sec.Iy)
	assert.Equal(t, 1e-4, sec.Iz)
	assert.Equal(t, 5e-6, sec.J)

	assert.Equal(t, "Custom", mat.Name)
	assert.Equal(t, 210e9, mat.E)
	assert.InDelta(t, 210e9/2.6, mat.G, 1)
	assert.Equal(t, 7800.0, mat.Rho)
	assert.Equal(t, 0, r.Summary().Defaults)
}

func TestResolveAllDefaults(t *testing.T) {
	r := NewResolver(config.Default(), nil)

	sec, mat, warnings := r.Resolve(beam(1, nil), model.CanonicalGeometry{})

	assert.Equal(t, "DefaultSection", sec.Name)
	assert.True(t, sec.Default)
	assert.Equal(t, "DefaultMaterial", mat.Name)
	assert.True(t, mat.Default)
	assert.Len(t, warnings, 8)
	assert.Equal(t, 8, r.Summary().Defaults)

	again, _, _ := r.Resolve(beam(2, nil), model.CanonicalGeometry{})
	assert.Same(t, sec, again)
}

func TestResolvePartialDefaults(t *testing.T) {
	r := NewResolver(config.Default(), nil)

	sec, _, warnings := r.Resolve(beam(1, []model.Property{num("", "Area", 0.05)}), model.CanonicalGeometry{})

	assert.False(t, sec.Default)
	assert.Equal(t, 0.05, sec.A)
	assert.Equal(t, config.DefaultSection.Iy, sec.Iy)
	assert.Equal(t, config.DefaultSection.J, sec.J)
	assert.Len(t, warnings, 7)
}

func TestResolveProfileDerived(t *testing.T) {
	r := NewResolver(config.Default(), nil)
	el := beam(1, []model.Property{num("", "Area", 0.1)})
	el.Representation.Body = &model.Extrusion{Profile: model.Profile{Kind: model.RectangleProfile, XDim: 0.2, YDim: 0.4}}

	sec, _, _ := r.Resolve(el, model.CanonicalGeometry{})

	assert.Equal(t, 0.1, sec.A, "Expected the property to win over the profile")
	assert.InDelta(t, 0.2*0.064/12, sec.Iy, 1e-12)
	assert.InDelta(t, 0.008*0.4/12, sec.Iz, 1e-12)
}

func TestResolveUnparseableText(t *testing.T) {
	r := NewResolver(config.Default(), nil)
	el := beam(1, []model.Property{
		{Name: "CrossSectionArea", Text: "about 0.2"},
		{Name: "Area", Text: " 0.03 "},
	})

	sec, _, warnings := r.Resolve(el, model.CanonicalGeometry{})

	assert.Equal(t, 0.03, sec.A)
	assert.Contains(t, warnings[0].Message, "unparseable")
	assert.Equal(t, "section", warnings[0].Stage)
}

func TestResolveNonFiniteText(t *testing.T) {
	r := NewResolver(config.Default(), nil)
	el := beam(1, []model.Property{
		{Name: "Area", Text: "Inf"},
		{Name: "A", Text: "0.04"},
		{Name: "Density", Text: "+Inf"},
		{Name: "YoungModulus", Text: "NaN"},
	})

	sec, mat, warnings := r.Resolve(el, model.CanonicalGeometry{})

	assert.Equal(t, 0.04, sec.A)
	assert.False(t, math.IsInf(mat.Rho, 0))
	assert.False(t, math.IsNaN(mat.E))
	assert.Equal(t, config.DefaultMaterial.E, mat.E)

	var rejected int
	for _, w := range warnings {
		if strings.Contains(w.Message, "out of range") {
			rejected++
		}
	}
	assert.Equal(t, 3, rejected)
}

func TestResolveQualifiedSynonym(t *testing.T) {
	cfg := config.Default()
	cfg.Synonyms = append([]config.Synonym{{Canonical: config.Iy, Accept: []string{"Custom_Props.Ibig"}}}, cfg.Synonyms...)
	r := NewResolver(cfg, nil)

	sec, _, _ := r.Resolve(beam(1, []model.Property{
		num("Other", "Ibig", 9),
		num("custom_props", "IBIG", 3e-3),
	}), model.CanonicalGeometry{})

	assert.Equal(t, 3e-3, sec.Iy)
}

func TestResolveShellThickness(t *testing.T) {
	slab := model.StructuralElement{Kind: model.Slab, Source: model.SourceRef{EntityID: 5}}

	tests := []struct {
		name  string
		props []model.Property
		mats  []model.MaterialRef
		geom  float64
		want  float64
	}{
		{"property", []model.Property{num("Pset_SlabCommon", "Thickness", 0.25)}, nil, 0.2, 0.25},
		{"layers", nil, []model.MaterialRef{{Name: "a", LayerThickness: 0.1}, {Name: "b", LayerThickness: 0.05}}, 0.2, 0.15},
		{"geometry", nil, nil, 0.18, 0.18},
		{"default", nil, nil, 0, config.DefaultShell.Thickness},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(config.Default(), nil)
			el := slab
			el.Properties = tt.props
			el.Materials = tt.mats

			sec, _, _ := r.Resolve(el, model.CanonicalGeometry{Thickness: tt.geom})

			assert.Equal(t, model.ShellSection, sec.Kind)
			assert.InDelta(t, tt.want, sec.Thickness, 1e-12)
		})
	}
}

func TestResolveMaterialCatalogue(t *testing.T) {
	r := NewResolver(config.Default(), nil)
	el := beam(1, nil, model.MaterialRef{Name: "Concrete C30/37"})

	_, mat, warnings := r.Resolve(el, model.CanonicalGeometry{})

	cat, ok := Catalogue("Concrete C30/37", "")
	require.True(t, ok)
	assert.Equal(t, "Concrete C30/37", mat.Name)
	assert.False(t, mat.Default)
	assert.Equal(t, cat.E, mat.E)
	assert.InDelta(t, cat.G(), mat.G, 1e-3)
	assert.Equal(t, cat.Rho, mat.Rho)

	var inferred int
	for _, w := range warnings {
		if assert.NotEmpty(t, w.Source) && containsAll(w.Message, "inferred", "concrete") {
			inferred++
		}
	}
	assert.Equal(t, 3, inferred)
}

func TestInterning(t *testing.T) {
	r := NewResolver(config.Default(), nil)
	props := []model.Property{num("", "Area", 0.02)}
	steel := model.MaterialRef{Name: "Steel", Properties: []model.Property{num("", "E", 2e11), num("", "Nu", 0.3), num("", "Rho", 7850), num("", "G", 8e10)}}

	s1, m1, _ := r.Resolve(beam(1, props, steel), model.CanonicalGeometry{})
	s2, m2, _ := r.Resolve(beam(2, props, steel), model.CanonicalGeometry{})
	s3, _, _ := r.Resolve(beam(3, []model.Property{num("", "Area", 0.03)}, steel), model.CanonicalGeometry{})

	assert.Same(t, s1, s2)
	assert.Same(t, m1, m2)
	assert.NotSame(t, s1, s3)
	assert.Equal(t, "S2", s3.Name)

	// Same IFC name, different values
	other := model.MaterialRef{Name: "Steel", Properties: []model.Property{num("", "E", 1e11)}}
	_, m4, _ := r.Resolve(beam(4, props, other), model.CanonicalGeometry{})
	assert.Equal(t, "Steel (2)", m4.Name)

	assert.Equal(t, "S1", s1.Name)
	assert.Equal(t, "Steel", m1.Name)
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
