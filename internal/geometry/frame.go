package geometry

import (
	"github.com/alexiusacademia/ifcfem/internal/model"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	globalX = r3.Vec{X: 1}
	globalY = r3.Vec{Y: 1}
	globalZ = r3.Vec{Z: 1}
)

// Frame is a right-handed orthonormal coordinate system
type Frame struct {
	Origin r3.Vec
	X      r3.Vec
	Y      r3.Vec
	Z      r3.Vec
}

// Identity returns the global frame
func Identity() Frame {
	return Frame{X: globalX, Y: globalY, Z: globalZ}
}

// FromPlacement builds a frame from raw placement data. Unset axes take the
// IFC defaults and RefDirection is made orthogonal to Axis.
func FromPlacement(p model.Axis2Placement) Frame {
	z := p.Axis
	if r3.Norm(z) == 0 {
		z = globalZ
	}
	z = r3.Unit(z)

	x := p.RefDirection
	if r3.Norm(x) == 0 {
		x = globalX
	}
	x = orthogonal(x, z)
	if r3.Norm(x) < 1e-12 {
		x = orthogonal(globalX, z)
		if r3.Norm(x) < 1e-12 {
			x = orthogonal(globalY, z)
		}
	}
	x = r3.Unit(x)

	return Frame{
		Origin: p.Location,
		X:      x,
		Y:      r3.Cross(z, x),
		Z:      z,
	}
}

// orthogonal removes the component of v along unit vector n
func orthogonal(v, n r3.Vec) r3.Vec {
	return r3.Sub(v, r3.Scale(r3.Dot(v, n), n))
}

// Point maps a point from this frame to its parent
func (f Frame) Point(p r3.Vec) r3.Vec {
	return r3.Add(f.Origin, f.Direction(p))
}

// Direction maps a direction from this frame to its parent
func (f Frame) Direction(d r3.Vec) r3.Vec {
	return r3.Add(r3.Add(r3.Scale(d.X, f.X), r3.Scale(d.Y, f.Y)), r3.Scale(d.Z, f.Z))
}

// Compose returns child expressed in the parent of f
func (f Frame) Compose(child Frame) Frame {
	return Frame{
		Origin: f.Point(child.Origin),
		X:      f.Direction(child.X),
		Y:      f.Direction(child.Y),
		Z:      f.Direction(child.Z),
	}
}

// Chain composes placement frames, outermost first
func Chain(frames []model.Axis2Placement) Frame {
	f := Identity()
	for _, p := range frames {
		f = f.Compose(FromPlacement(p))
	}
	return f
}
