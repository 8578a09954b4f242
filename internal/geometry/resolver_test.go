package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/alexiusacademia/ifcfem/internal/config"
	"github.com/alexiusacademia/ifcfem/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func newResolver() *Resolver {
	return NewResolver(config.Default().Geometry)
}

func placed(loc r3.Vec) model.RawPlacement {
	return model.RawPlacement{Chain: []model.Axis2Placement{{Location: loc}}}
}

func columnAt(loc r3.Vec, height float64) model.StructuralElement {
	return model.StructuralElement{
		Kind:      model.Column,
		Source:    model.SourceRef{EntityID: 1, Type: "IFCCOLUMN"},
		Placement: placed(loc),
		Representation: model.RawRepresentation{Body: &model.Extrusion{
			Profile:   model.Profile{Kind: model.RectangleProfile, XDim: 0.3, YDim: 0.3},
			Direction: r3.Vec{Z: 1},
			Depth:     height,
		}},
	}
}

func TestResolveLineFromBody(t *testing.T) {
	g, err := newResolver().Resolve(columnAt(r3.Vec{X: 4}, 3))
	require.NoError(t, err)

	assert.Equal(t, model.LinePrimitive, g.Primitive)
	require.Len(t, g.Points, 2)
	assertVec(t, r3.Vec{X: 4}, g.Points[0])
	assertVec(t, r3.Vec{X: 4, Z: 3}, g.Points[1])
	assert.InDelta(t, 3, g.Length, 1e-12)
	assertVec(t, globalZ, g.Basis[0], "local x along the member")
	assertVec(t, globalX, g.Basis[1], "local y from the profile x axis")
	assertVec(t, globalY, g.Orientation())
}

func TestResolveLineFromAxis(t *testing.T) {
	el := model.StructuralElement{
		Kind:      model.Beam,
		Placement: placed(r3.Vec{Z: 3}),
		Representation: model.RawRepresentation{
			Axis: []r3.Vec{{}, {X: 2}, {X: 4}},
		},
	}

	g, err := newResolver().Resolve(el)
	require.NoError(t, err)
	assertVec(t, r3.Vec{Z: 3}, g.Points[0])
	assertVec(t, r3.Vec{X: 4, Z: 3}, g.Points[1], "Expected the last axis point")
	assertVec(t, globalZ, g.Orientation(), "Expected local z to follow global Z without a profile")
}

func TestResolveZeroLength(t *testing.T) {
	el := columnAt(r3.Vec{}, 0)
	el.Source = model.SourceRef{EntityID: 7, Type: "IFCBEAM", GlobalID: "zero"}

	_, err := newResolver().Resolve(el)
	var gerr *model.GeometryError
	require.True(t, errors.As(err, &gerr), "Expected GeometryError, got %v", err)
	assert.Equal(t, 7, gerr.Source.EntityID)
}

func TestResolveInvalidDirection(t *testing.T) {
	tests := []struct {
		name string
		dir  r3.Vec
	}{
		{"zero", r3.Vec{}},
		{"nan", r3.Vec{X: math.NaN()}},
		{"inf", r3.Vec{Z: math.Inf(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := columnAt(r3.Vec{}, 3)
			el.Representation.Body.Direction = tt.dir
			_, err := newResolver().Resolve(el)
			var gerr *model.GeometryError
			assert.ErrorAs(t, err, &gerr)
		})
	}
}

func TestResolveSlab(t *testing.T) {
	el := model.StructuralElement{
		Kind:      model.Slab,
		Placement: placed(r3.Vec{Z: 3}),
		Representation: model.RawRepresentation{Body: &model.Extrusion{
			Profile: model.Profile{
				Kind: model.RectangleProfile, XDim: 4, YDim: 3,
				Position: model.Axis2Placement{Location: r3.Vec{X: 2, Y: 1.5}},
			},
			Direction: r3.Vec{Z: -1},
			Depth:     0.2,
		}},
	}

	g, err := newResolver().Resolve(el)
	require.NoError(t, err)

	assert.Equal(t, model.PolygonPrimitive, g.Primitive)
	require.Len(t, g.Points, 4)
	assertVec(t, r3.Vec{Z: 3}, g.Points[0])
	assertVec(t, r3.Vec{X: 4, Y: 3, Z: 3}, g.Points[2])
	assert.InDelta(t, 12, g.Area, 1e-9)
	assert.InDelta(t, 0.2, g.Thickness, 1e-12)
	assertVec(t, globalZ, g.Basis[2], "Expected upward normal for a counter-clockwise outline")
}

func TestResolveCircularSlab(t *testing.T) {
	el := model.StructuralElement{
		Kind: model.Slab,
		Representation: model.RawRepresentation{Body: &model.Extrusion{
			Profile:   model.Profile{Kind: model.CircleProfile, Radius: 1},
			Direction: r3.Vec{Z: 1},
			Depth:     0.3,
		}},
	}

	g, err := newResolver().Resolve(el)
	require.NoError(t, err)
	assert.Len(t, g.Points, circleSegments)
	assert.InDelta(t, 8*math.Sin(math.Pi/8), g.Area, 1e-9)
}

func TestResolveWall(t *testing.T) {
	el := model.StructuralElement{
		Kind: model.Wall,
		Placement: model.RawPlacement{Chain: []model.Axis2Placement{
			{Location: r3.Vec{X: 4}, RefDirection: r3.Vec{Y: 1}},
		}},
		Representation: model.RawRepresentation{
			Axis: []r3.Vec{{}, {X: 3}},
			Body: &model.Extrusion{
				Profile: model.Profile{
					Kind: model.RectangleProfile, XDim: 3, YDim: 0.2,
					Position: model.Axis2Placement{Location: r3.Vec{X: 1.5}},
				},
				Direction: r3.Vec{Z: 1},
				Depth:     3,
			},
		},
	}

	t.Run("From axis", func(t *testing.T) {
		g, err := newResolver().Resolve(el)
		require.NoError(t, err)
		require.Len(t, g.Points, 4)
		assertVec(t, r3.Vec{X: 4}, g.Points[0])
		assertVec(t, r3.Vec{X: 4, Y: 3}, g.Points[1])
		assertVec(t, r3.Vec{X: 4, Y: 3, Z: 3}, g.Points[2])
		assertVec(t, r3.Vec{X: 4, Z: 3}, g.Points[3])
		assert.InDelta(t, 9, g.Area, 1e-9)
		assert.InDelta(t, 0.2, g.Thickness, 1e-12)
	})

	t.Run("From rectangle centreline", func(t *testing.T) {
		noAxis := el
		noAxis.Representation.Axis = nil
		g, err := newResolver().Resolve(noAxis)
		require.NoError(t, err)
		assertVec(t, r3.Vec{X: 4}, g.Points[0])
		assertVec(t, r3.Vec{X: 4, Y: 3}, g.Points[1])
	})

	t.Run("Without body", func(t *testing.T) {
		noBody := el
		noBody.Representation.Body = nil
		_, err := newResolver().Resolve(noBody)
		var gerr *model.GeometryError
		assert.ErrorAs(t, err, &gerr)
	})
}

func TestResolveDegeneratePolygon(t *testing.T) {
	el := model.StructuralElement{
		Kind: model.Slab,
		Representation: model.RawRepresentation{Body: &model.Extrusion{
			Profile: model.Profile{
				Kind:    model.ArbitraryProfile,
				Outline: []r3.Vec{{}, {X: 1}, {X: 2}},
			},
			Direction: r3.Vec{Z: 1},
			Depth:     0.2,
		}},
	}

	_, err := newResolver().Resolve(el)
	var gerr *model.GeometryError
	require.ErrorAs(t, err, &gerr)
	assert.Contains(t, gerr.Reason, "area")
}

func TestResolveAll(t *testing.T) {
	els := []model.StructuralElement{
		columnAt(r3.Vec{}, 3),
		columnAt(r3.Vec{X: 1}, 0),
		columnAt(r3.Vec{X: 2}, 3),
	}

	resolved, sum := newResolver().ResolveAll(els)
	assert.Len(t, resolved, 2)
	assert.Equal(t, 1, sum.Skipped)
	require.Len(t, sum.Warnings, 1)
	assert.Equal(t, "geometry", sum.Warnings[0].Stage)
}

func TestSupportPosition(t *testing.T) {
	rec := model.SupportRecord{
		Placement: placed(r3.Vec{X: 1, Y: 2}),
		Position:  r3.Vec{Z: 0.5},
	}
	assertVec(t, r3.Vec{X: 1, Y: 2, Z: 0.5}, SupportPosition(rec))
}
