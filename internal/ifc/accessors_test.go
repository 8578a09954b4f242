package ifc

import (
	"testing"

	"github.com/alexiusacademia/ifcfem/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func openFrame(t *testing.T) *File {
	t.Helper()
	f, err := Open("../../testdata/frame.ifc")
	require.NoError(t, err)
	return f
}

func TestPlacement(t *testing.T) {
	f := openFrame(t)
	beam := f.ByType("IFCBEAM")[0]

	raw, err := Placement(f, beam)
	require.NoError(t, err)
	require.Len(t, raw.Chain, 2, "Expected world frame and beam frame")
	assert.Equal(t, r3.Vec{}, raw.Chain[0].Location)
	assert.Equal(t, r3.Vec{Z: 3}, raw.Chain[1].Location)
}

func TestPlacementCycle(t *testing.T) {
	f := newFile()
	f.add(&Instance{ID: 1, Type: "IFCCARTESIANPOINT", Args: List{List{Real(0), Real(0), Real(0)}}})
	f.add(&Instance{ID: 2, Type: "IFCAXIS2PLACEMENT3D", Args: List{Ref(1), Unset{}, Unset{}}})
	f.add(&Instance{ID: 3, Type: "IFCLOCALPLACEMENT", Args: List{Ref(4), Ref(2)}})
	f.add(&Instance{ID: 4, Type: "IFCLOCALPLACEMENT", Args: List{Ref(3), Ref(2)}})
	f.add(&Instance{ID: 5, Type: "IFCBEAM", Args: List{String("g"), Unset{}, Unset{}, Unset{}, Unset{}, Ref(3), Unset{}}})
	f.index()

	beam, _ := f.Get(5)
	_, err := Placement(f, beam)
	assert.Error(t, err)
}

func TestRepresentations(t *testing.T) {
	f := openFrame(t)
	beam := f.ByType("IFCBEAM")[0]

	reps, err := Representations(f, beam)
	require.NoError(t, err)
	require.Len(t, reps, 2)
	assert.Equal(t, "Axis", reps[0].Identifier)
	assert.True(t, reps[0].Items[0].Item.Is("IfcPolyline"))
	assert.Equal(t, "Body", reps[1].Identifier)
	assert.True(t, reps[1].Items[0].Item.Is("IfcExtrudedAreaSolid"))

	pts, err := Polyline(f, reps[0].Items[0].Item)
	require.NoError(t, err)
	assert.Equal(t, []r3.Vec{{}, {X: 4}}, pts)
}

func TestMappedItem(t *testing.T) {
	f := newFile()
	f.add(&Instance{ID: 1, Type: "IFCCARTESIANPOINT", Args: List{List{Real(1), Real(0), Real(0)}}})
	f.add(&Instance{ID: 2, Type: "IFCAXIS2PLACEMENT3D", Args: List{Ref(1), Unset{}, Unset{}}})
	f.add(&Instance{ID: 3, Type: "IFCEXTRUDEDAREASOLID", Args: List{}})
	f.add(&Instance{ID: 4, Type: "IFCSHAPEREPRESENTATION", Args: List{Unset{}, String("Body"), String("SweptSolid"), List{Ref(3)}}})
	f.add(&Instance{ID: 5, Type: "IFCREPRESENTATIONMAP", Args: List{Ref(2), Ref(4)}})
	f.add(&Instance{ID: 6, Type: "IFCCARTESIANPOINT", Args: List{List{Real(0), Real(5), Real(0)}}})
	f.add(&Instance{ID: 7, Type: "IFCCARTESIANTRANSFORMATIONOPERATOR3D", Args: List{Unset{}, Unset{}, Ref(6), Unset{}, Unset{}}})
	f.add(&Instance{ID: 8, Type: "IFCMAPPEDITEM", Args: List{Ref(5), Ref(7)}})
	f.add(&Instance{ID: 9, Type: "IFCSHAPEREPRESENTATION", Args: List{Unset{}, String("Body"), String("MappedRepresentation"), List{Ref(8)}}})
	f.add(&Instance{ID: 10, Type: "IFCPRODUCTDEFINITIONSHAPE", Args: List{Unset{}, Unset{}, List{Ref(9)}}})
	f.add(&Instance{ID: 11, Type: "IFCBEAM", Args: List{String("g"), Unset{}, Unset{}, Unset{}, Unset{}, Unset{}, Ref(10)}})
	f.index()

	beam, _ := f.Get(11)
	reps, err := Representations(f, beam)
	require.NoError(t, err)
	require.Len(t, reps, 1)
	require.Len(t, reps[0].Items, 1)

	item := reps[0].Items[0]
	assert.Equal(t, 3, item.Item.ID)
	require.Len(t, item.Mapping, 2)
	assert.Equal(t, r3.Vec{Y: 5}, item.Mapping[0].Location, "Expected mapping target first")
	assert.InDelta(t, -1, item.Mapping[1].Location.X, 1e-12, "Expected inverted mapping origin")
}

func TestPropertySets(t *testing.T) {
	f := openFrame(t)
	beam := f.ByType("IFCBEAM")[0]

	props, err := PropertySets(f, beam.ID)
	require.NoError(t, err)
	require.Len(t, props, 4)
	assert.Equal(t, model.Property{Set: "Pset_StructuralSection", Name: "CrossSectionArea", Value: 0.08, Numeric: true}, props[0])

	col := f.ByType("IFCCOLUMN")[0]
	props, err = PropertySets(f, col.ID)
	require.NoError(t, err)
	assert.Empty(t, props)
}

func TestMaterials(t *testing.T) {
	f := openFrame(t)
	beam := f.ByType("IFCBEAM")[0]

	mats, err := Materials(f, beam.ID)
	require.NoError(t, err)
	require.Len(t, mats, 1)
	assert.Equal(t, "S355 Steel", mats[0].Name)
	assert.Equal(t, "Steel", mats[0].Category)
	require.Len(t, mats[0].Properties, 3)
	assert.Equal(t, "YoungModulus", mats[0].Properties[0].Name)
	assert.Equal(t, 2.1e11, mats[0].Properties[0].Value)
}

func TestMaterialLayers(t *testing.T) {
	f := newFile()
	f.add(&Instance{ID: 1, Type: "IFCMATERIAL", Args: List{String("Brick")}})
	f.add(&Instance{ID: 2, Type: "IFCMATERIALLAYER", Args: List{Ref(1), Real(0.24), Unset{}}})
	f.add(&Instance{ID: 3, Type: "IFCMATERIALLAYERSET", Args: List{List{Ref(2)}, String("Wall")}})
	f.add(&Instance{ID: 4, Type: "IFCMATERIALLAYERSETUSAGE", Args: List{Ref(3), Enum("AXIS2"), Enum("POSITIVE"), Real(0)}})
	f.add(&Instance{ID: 5, Type: "IFCWALL", Args: List{String("g")}})
	f.add(&Instance{ID: 6, Type: "IFCRELASSOCIATESMATERIAL", Args: List{String("r"), Unset{}, Unset{}, Unset{}, List{Ref(5)}, Ref(4)}})
	f.index()

	mats, err := Materials(f, 5)
	require.NoError(t, err)
	require.Len(t, mats, 1)
	assert.Equal(t, "Brick", mats[0].Name)
	assert.Equal(t, 0.24, mats[0].LayerThickness)
}

func TestMechanicalMaterialProperties(t *testing.T) {
	f := newFile()
	f.add(&Instance{ID: 1, Type: "IFCMATERIAL", Args: List{String("Steel")}})
	f.add(&Instance{ID: 2, Type: "IFCMECHANICALSTEELMATERIALPROPERTIES", Args: List{Ref(1), Unset{}, Real(2e11), Real(8e10), Real(0.3), Unset{}}})
	f.add(&Instance{ID: 3, Type: "IFCGENERALMATERIALPROPERTIES", Args: List{Ref(1), Unset{}, Unset{}, Real(7850)}})
	f.index()

	ref, err := material(f, &Instance{ID: 1, Type: "IFCMATERIAL", Args: List{String("Steel")}})
	require.NoError(t, err)
	names := make([]string, 0, len(ref.Properties))
	for _, p := range ref.Properties {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"YoungModulus", "ShearModulus", "PoissonRatio", "MassDensity"}, names)
}

func TestLengthUnit(t *testing.T) {
	f := openFrame(t)
	name, scale := LengthUnit(f)
	assert.Equal(t, "METRE", name)
	assert.Equal(t, 1.0, scale)

	mm := newFile()
	mm.add(&Instance{ID: 1, Type: "IFCSIUNIT", Args: List{Derived{}, Enum("LENGTHUNIT"), Enum("MILLI"), Enum("METRE")}})
	mm.add(&Instance{ID: 2, Type: "IFCUNITASSIGNMENT", Args: List{List{Ref(1)}}})
	mm.add(&Instance{ID: 3, Type: "IFCPROJECT", Args: List{String("p"), Unset{}, Unset{}, Unset{}, Unset{}, Unset{}, Unset{}, Unset{}, Ref(2)}})
	mm.index()
	name, scale = LengthUnit(mm)
	assert.Equal(t, "MILLIMETRE", name)
	assert.Equal(t, 1e-3, scale)
}

func TestNodeCondition(t *testing.T) {
	f := openFrame(t)
	conns := f.ByType("IFCSTRUCTURALPOINTCONNECTION")
	require.Len(t, conns, 2)

	fixed, err := NodeCondition(f, conns[0].Arg(7))
	require.NoError(t, err)
	assert.Equal(t, model.Fixed, fixed)

	pinned, err := NodeCondition(f, conns[1].Arg(7))
	require.NoError(t, err)
	assert.Equal(t, model.Pinned, pinned)

	p, ok, err := VertexPosition(f, conns[1])
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, r3.Vec{X: 4}, p)
}

func TestRestrained(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"true", Typed{Type: "IFCBOOLEAN", Value: Enum("T")}, true},
		{"false", Typed{Type: "IFCBOOLEAN", Value: Enum("F")}, false},
		{"rigid stiffness", Typed{Type: "IFCLINEARSTIFFNESSMEASURE", Value: Real(1e12)}, true},
		{"negative stiffness", Real(-1), true},
		{"spring", Real(5000), false},
		{"unset", Unset{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, restrained(tt.v))
		})
	}
}
