package geometry

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/ifcfem/internal/config"
	"github.com/alexiusacademia/ifcfem/internal/model"
	"gonum.org/v1/gonum/spatial/r3"
)

const stage = "geometry"

// circleSegments is the polygon resolution for circular slab outlines
const circleSegments = 16

// Resolved pairs an element with its canonical geometry
type Resolved struct {
	Element  model.StructuralElement
	Geometry model.CanonicalGeometry
}

// Resolver reduces raw element geometry to lines and planar polygons in
// global coordinates
type Resolver struct {
	cfg config.Geometry
}

// NewResolver creates a resolver with the given degeneracy thresholds
func NewResolver(cfg config.Geometry) *Resolver {
	return &Resolver{cfg: cfg}
}

// Resolve returns the canonical geometry of one element or a GeometryError
func (r *Resolver) Resolve(el model.StructuralElement) (model.CanonicalGeometry, error) {
	switch el.Kind {
	case model.Beam, model.Column:
		return r.line(el)
	case model.Slab:
		return r.slab(el)
	case model.Wall:
		return r.wall(el)
	}
	return model.CanonicalGeometry{}, r.fail(el, "unsupported element kind %s", el.Kind)
}

// ResolveAll resolves every element, excluding and counting failures
func (r *Resolver) ResolveAll(els []model.StructuralElement) ([]Resolved, model.Summary) {
	var sum model.Summary
	out := make([]Resolved, 0, len(els))
	for _, el := range els {
		g, err := r.Resolve(el)
		if err != nil {
			sum.Skipped++
			sum.Warn(stage, el.Source.String(), "%v", err)
			continue
		}
		out = append(out, Resolved{Element: el, Geometry: g})
	}
	return out, sum
}

// SupportPosition returns the global position of a support record
func SupportPosition(rec model.SupportRecord) r3.Vec {
	return Chain(rec.Placement.Chain).Point(rec.Position)
}

func (r *Resolver) fail(el model.StructuralElement, format string, args ...any) error {
	return &model.GeometryError{Source: el.Source, Reason: fmt.Sprintf(format, args...)}
}

// bodyFrame is the frame the extrusion profile lives in
func bodyFrame(el model.StructuralElement) Frame {
	f := Chain(el.Placement.Chain)
	body := el.Representation.Body
	if body == nil {
		return f
	}
	for _, m := range body.Mapping {
		f = f.Compose(FromPlacement(m))
	}
	return f.Compose(FromPlacement(body.Position))
}

// sweep returns the global extrusion vector of the body
func (r *Resolver) sweep(el model.StructuralElement, f Frame) (r3.Vec, error) {
	body := el.Representation.Body
	if !finite(body.Direction) || r3.Norm(body.Direction) == 0 {
		return r3.Vec{}, r.fail(el, "extrusion direction is zero or not finite")
	}
	if math.IsNaN(body.Depth) || math.IsInf(body.Depth, 0) {
		return r3.Vec{}, r.fail(el, "extrusion depth is not finite")
	}
	return r3.Scale(body.Depth, f.Direction(r3.Unit(body.Direction))), nil
}

func (r *Resolver) line(el model.StructuralElement) (model.CanonicalGeometry, error) {
	g := model.CanonicalGeometry{Primitive: model.LinePrimitive}
	body := el.Representation.Body
	var start, end r3.Vec

	switch {
	case len(el.Representation.Axis) >= 2:
		w := Chain(el.Placement.Chain)
		axis := el.Representation.Axis
		start = w.Point(axis[0])
		end = w.Point(axis[len(axis)-1])
	case body != nil:
		f := bodyFrame(el)
		v, err := r.sweep(el, f)
		if err != nil {
			return g, err
		}
		start = f.Point(profileCentre(body.Profile))
		end = r3.Add(start, v)
	default:
		return g, r.fail(el, "no axis or body to derive a member line from")
	}

	if !finite(start) || !finite(end) {
		return g, r.fail(el, "member end points are not finite")
	}
	length := r3.Norm(r3.Sub(end, start))
	if length < r.cfg.MinLength || length == 0 {
		return g, r.fail(el, "member length %g is below %g", length, r.cfg.MinLength)
	}

	x := r3.Unit(r3.Sub(end, start))
	y := r3.Vec{}
	if body != nil {
		pf := bodyFrame(el).Compose(FromPlacement(body.Profile.Position))
		y = orthogonal(pf.X, x)
	}
	if r3.Norm(y) < 1e-9 {
		// local z follows global Z, or global X for vertical members
		ref := globalZ
		if math.Abs(r3.Dot(x, globalZ)) > 1-1e-9 {
			ref = globalX
		}
		z := r3.Unit(orthogonal(ref, x))
		y = r3.Cross(z, x)
	}
	y = r3.Unit(y)

	g.Origin = start
	g.Basis = [3]r3.Vec{x, y, r3.Cross(x, y)}
	g.Points = []r3.Vec{start, end}
	g.Length = length
	return g, nil
}

func (r *Resolver) slab(el model.StructuralElement) (model.CanonicalGeometry, error) {
	body := el.Representation.Body
	if body == nil {
		return model.CanonicalGeometry{}, r.fail(el, "slab without extruded body")
	}
	outline, err := profileOutline(body.Profile)
	if err != nil {
		return model.CanonicalGeometry{}, r.fail(el, "%v", err)
	}

	f := bodyFrame(el)
	v, err := r.sweep(el, f)
	if err != nil {
		return model.CanonicalGeometry{}, err
	}

	pf := f.Compose(FromPlacement(body.Profile.Position))
	pts := make([]r3.Vec, len(outline))
	for i, p := range outline {
		pts[i] = pf.Point(p)
	}

	g, err := r.polygon(el, pts)
	if err != nil {
		return g, err
	}
	g.Thickness = math.Abs(r3.Dot(v, g.Basis[2]))
	return g, nil
}

func (r *Resolver) wall(el model.StructuralElement) (model.CanonicalGeometry, error) {
	body := el.Representation.Body
	if body == nil {
		return model.CanonicalGeometry{}, r.fail(el, "wall without extruded body")
	}
	f := bodyFrame(el)
	v, err := r.sweep(el, f)
	if err != nil {
		return model.CanonicalGeometry{}, err
	}

	var b0, b1 r3.Vec
	thickness := 0.0
	p := body.Profile
	if p.Kind == model.RectangleProfile {
		thickness = math.Min(p.XDim, p.YDim)
	}

	switch {
	case len(el.Representation.Axis) >= 2:
		w := Chain(el.Placement.Chain)
		axis := el.Representation.Axis
		b0 = w.Point(axis[0])
		b1 = w.Point(axis[len(axis)-1])
	case p.Kind == model.RectangleProfile:
		pf := f.Compose(FromPlacement(p.Position))
		if p.XDim >= p.YDim {
			b0 = pf.Point(r3.Vec{X: -p.XDim / 2})
			b1 = pf.Point(r3.Vec{X: p.XDim / 2})
		} else {
			b0 = pf.Point(r3.Vec{Y: -p.YDim / 2})
			b1 = pf.Point(r3.Vec{Y: p.YDim / 2})
		}
	default:
		return model.CanonicalGeometry{}, r.fail(el, "wall needs an axis or a rectangular profile")
	}

	g, err := r.polygon(el, []r3.Vec{b0, b1, r3.Add(b1, v), r3.Add(b0, v)})
	if err != nil {
		return g, err
	}
	g.Thickness = thickness
	return g, nil
}

// polygon validates a planar outline and computes its basis by Newell's method
func (r *Resolver) polygon(el model.StructuralElement, pts []r3.Vec) (model.CanonicalGeometry, error) {
	g := model.CanonicalGeometry{Primitive: model.PolygonPrimitive}

	tol := r.cfg.MinLength
	var clean []r3.Vec
	for _, p := range pts {
		if !finite(p) {
			return g, r.fail(el, "outline vertex is not finite")
		}
		if n := len(clean); n > 0 && r3.Norm(r3.Sub(p, clean[n-1])) <= tol {
			continue
		}
		clean = append(clean, p)
	}
	if n := len(clean); n > 1 && r3.Norm(r3.Sub(clean[0], clean[n-1])) <= tol {
		clean = clean[:n-1]
	}
	if len(clean) < 3 {
		return g, r.fail(el, "outline has %d distinct vertices", len(clean))
	}

	var normal r3.Vec
	for i := range clean {
		a, b := clean[i], clean[(i+1)%len(clean)]
		normal.X += (a.Y - b.Y) * (a.Z + b.Z)
		normal.Y += (a.Z - b.Z) * (a.X + b.X)
		normal.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	area := r3.Norm(normal) / 2
	if area < r.cfg.MinArea || area == 0 {
		return g, r.fail(el, "outline area %g is below %g", area, r.cfg.MinArea)
	}

	z := r3.Unit(normal)
	x := r3.Unit(orthogonal(r3.Sub(clean[1], clean[0]), z))
	g.Origin = clean[0]
	g.Basis = [3]r3.Vec{x, r3.Cross(z, x), z}
	g.Points = clean
	g.Area = area
	return g, nil
}

func finite(v r3.Vec) bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
