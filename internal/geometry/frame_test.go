package geometry

import (
	"testing"

	"github.com/alexiusacademia/ifcfem/internal/model"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func assertVec(t *testing.T, want, got r3.Vec, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, 1e-9, msgAndArgs...)
	assert.InDelta(t, want.Z, got.Z, 1e-9, msgAndArgs...)
}

func TestFromPlacement(t *testing.T) {
	tests := []struct {
		name    string
		p       model.Axis2Placement
		x, y, z r3.Vec
	}{
		{"defaults", model.Axis2Placement{}, globalX, globalY, globalZ},
		{"rotated about z", model.Axis2Placement{RefDirection: r3.Vec{Y: 1}}, globalY, r3.Vec{X: -1}, globalZ},
		{"axis along x", model.Axis2Placement{Axis: r3.Vec{X: 1}, RefDirection: r3.Vec{Y: 1}}, globalY, globalZ, globalX},
		{"ref direction not orthogonal", model.Axis2Placement{RefDirection: r3.Vec{X: 1, Z: 1}}, globalX, globalY, globalZ},
		{"ref direction parallel to axis", model.Axis2Placement{Axis: r3.Vec{X: 2}, RefDirection: r3.Vec{X: 1}}, globalY, globalZ, globalX},
		{"unnormalised axis", model.Axis2Placement{Axis: r3.Vec{Z: 5}}, globalX, globalY, globalZ},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := FromPlacement(tt.p)
			assertVec(t, tt.x, f.X, "x")
			assertVec(t, tt.y, f.Y, "y")
			assertVec(t, tt.z, f.Z, "z")
		})
	}
}

func TestChain(t *testing.T) {
	chain := []model.Axis2Placement{
		{Location: r3.Vec{X: 10}},
		{Location: r3.Vec{Y: 2}, RefDirection: r3.Vec{Y: 1}},
	}
	f := Chain(chain)

	assertVec(t, r3.Vec{X: 10, Y: 2}, f.Origin)
	assertVec(t, r3.Vec{X: 10, Y: 3}, f.Point(r3.Vec{X: 1}), "local x maps to global y")
	assertVec(t, r3.Vec{X: -1}, f.Direction(r3.Vec{Y: 1}))

	assert.Equal(t, Identity(), Chain(nil))
}
