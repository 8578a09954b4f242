package geometry

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/ifcfem/internal/model"
	"gonum.org/v1/gonum/spatial/r3"
)

// profileCentre is the point a member line passes through, in the frame
// of the extrusion position
func profileCentre(p model.Profile) r3.Vec {
	if p.Kind == model.ArbitraryProfile && len(p.Outline) >= 3 {
		var c r3.Vec
		for _, v := range p.Outline {
			c = r3.Add(c, v)
		}
		return r3.Scale(1/float64(len(p.Outline)), c)
	}
	return r3.Vec{X: p.Position.Location.X, Y: p.Position.Location.Y}
}

// profileOutline returns the counter-clockwise boundary of a profile in its
// own position frame
func profileOutline(p model.Profile) ([]r3.Vec, error) {
	switch p.Kind {
	case model.RectangleProfile:
		x, y := p.XDim/2, p.YDim/2
		return []r3.Vec{{X: -x, Y: -y}, {X: x, Y: -y}, {X: x, Y: y}, {X: -x, Y: y}}, nil
	case model.CircleProfile:
		out := make([]r3.Vec, circleSegments)
		for i := range out {
			a := 2 * math.Pi * float64(i) / circleSegments
			out[i] = r3.Vec{X: p.Radius * math.Cos(a), Y: p.Radius * math.Sin(a)}
		}
		return out, nil
	case model.IShapeProfile:
		b, h := p.OverallWidth/2, p.OverallDepth/2
		tw, tf := p.WebThickness/2, p.FlangeThickness
		return []r3.Vec{
			{X: -b, Y: -h}, {X: b, Y: -h}, {X: b, Y: -h + tf}, {X: tw, Y: -h + tf},
			{X: tw, Y: h - tf}, {X: b, Y: h - tf}, {X: b, Y: h}, {X: -b, Y: h},
			{X: -b, Y: h - tf}, {X: -tw, Y: h - tf}, {X: -tw, Y: -h + tf}, {X: -b, Y: -h + tf},
		}, nil
	case model.ArbitraryProfile:
		out := make([]r3.Vec, len(p.Outline))
		// arbitrary outlines are already in the profile plane, the position
		// frame is the identity for them
		copy(out, p.Outline)
		return out, nil
	}
	return nil, fmt.Errorf("profile %q of kind %s has no outline", p.Name, p.Kind)
}
