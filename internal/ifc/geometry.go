package ifc

import (
	"fmt"

	"github.com/alexiusacademia/ifcfem/internal/model"
	"gonum.org/v1/gonum/spatial/r3"
)

// maxPlacementDepth bounds PlacementRelTo chains so cycles cannot hang
const maxPlacementDepth = 64

// Coordinates returns an IfcCartesianPoint or IfcDirection as a vector.
// 2D values get Z = 0.
func Coordinates(inst *Instance) (r3.Vec, error) {
	if !inst.Is("IFCCARTESIANPOINT", "IFCDIRECTION") {
		return r3.Vec{}, fmt.Errorf("#%d: expected point or direction, got %s", inst.ID, inst.Type)
	}
	l, ok := inst.List(0)
	if !ok || len(l) < 2 || len(l) > 3 {
		return r3.Vec{}, fmt.Errorf("#%d: malformed coordinate list", inst.ID)
	}
	var c [3]float64
	for i, v := range l {
		f, ok := AsFloat(v)
		if !ok {
			return r3.Vec{}, fmt.Errorf("#%d: non-numeric coordinate", inst.ID)
		}
		c[i] = f
	}
	return r3.Vec{X: c[0], Y: c[1], Z: c[2]}, nil
}

// Point resolves a reference to an IfcCartesianPoint
func Point(m Model, v Value) (r3.Vec, error) {
	inst, err := Resolve(m, v)
	if err != nil {
		return r3.Vec{}, err
	}
	return Coordinates(inst)
}

// Direction resolves an optional reference to an IfcDirection.
// Unset yields the zero vector.
func Direction(m Model, v Value) (r3.Vec, error) {
	if IsUnset(v) {
		return r3.Vec{}, nil
	}
	inst, err := Resolve(m, v)
	if err != nil {
		return r3.Vec{}, err
	}
	return Coordinates(inst)
}

// Axis2Placement decodes an IfcAxis2Placement3D or IfcAxis2Placement2D.
// Unset yields the identity frame.
func Axis2Placement(m Model, v Value) (model.Axis2Placement, error) {
	var p model.Axis2Placement
	if IsUnset(v) {
		return p, nil
	}
	inst, err := Resolve(m, v)
	if err != nil {
		return p, err
	}

	switch inst.Type {
	case "IFCAXIS2PLACEMENT3D":
		if p.Location, err = Point(m, inst.Arg(0)); err != nil {
			return p, fmt.Errorf("#%d location: %w", inst.ID, err)
		}
		if p.Axis, err = Direction(m, inst.Arg(1)); err != nil {
			return p, fmt.Errorf("#%d axis: %w", inst.ID, err)
		}
		if p.RefDirection, err = Direction(m, inst.Arg(2)); err != nil {
			return p, fmt.Errorf("#%d ref direction: %w", inst.ID, err)
		}
	case "IFCAXIS2PLACEMENT2D":
		if p.Location, err = Point(m, inst.Arg(0)); err != nil {
			return p, fmt.Errorf("#%d location: %w", inst.ID, err)
		}
		if p.RefDirection, err = Direction(m, inst.Arg(1)); err != nil {
			return p, fmt.Errorf("#%d ref direction: %w", inst.ID, err)
		}
	default:
		return p, fmt.Errorf("#%d: unsupported placement %s", inst.ID, inst.Type)
	}
	return p, nil
}

// Placement resolves the ObjectPlacement of a product into its
// IfcLocalPlacement chain, outermost frame first
func Placement(m Model, product *Instance) (model.RawPlacement, error) {
	var raw model.RawPlacement
	v := product.Arg(5)
	if IsUnset(v) {
		return raw, nil
	}

	var chain []model.Axis2Placement
	seen := make(map[int]bool)
	for !IsUnset(v) {
		inst, err := Resolve(m, v)
		if err != nil {
			return raw, fmt.Errorf("object placement: %w", err)
		}
		if seen[inst.ID] || len(chain) >= maxPlacementDepth {
			return raw, fmt.Errorf("placement chain through #%d is cyclic or too deep", inst.ID)
		}
		seen[inst.ID] = true
		if inst.Type != "IFCLOCALPLACEMENT" {
			return raw, fmt.Errorf("#%d: unsupported object placement %s", inst.ID, inst.Type)
		}
		frame, err := Axis2Placement(m, inst.Arg(1))
		if err != nil {
			return raw, err
		}
		chain = append(chain, frame)
		v = inst.Arg(0)
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	raw.Chain = chain
	return raw, nil
}

// ShapeItem is a representation item with the frames of any mapped
// representations it was reached through, outermost first
type ShapeItem struct {
	Item    *Instance
	Mapping []model.Axis2Placement
}

// ShapeRepresentation is one IfcShapeRepresentation of a product
type ShapeRepresentation struct {
	Identifier string
	Type       string
	Items      []ShapeItem
}

// Representations returns the shape representations of a product with
// IfcMappedItem entries unwrapped
func Representations(m Model, product *Instance) ([]ShapeRepresentation, error) {
	v := product.Arg(6)
	if IsUnset(v) {
		return nil, nil
	}
	pds, err := Resolve(m, v)
	if err != nil {
		return nil, fmt.Errorf("representation: %w", err)
	}
	if !pds.Is("IFCPRODUCTDEFINITIONSHAPE") {
		return nil, fmt.Errorf("#%d: unsupported representation %s", pds.ID, pds.Type)
	}

	var out []ShapeRepresentation
	for _, id := range pds.Refs(2) {
		rep, ok := m.Get(id)
		if !ok {
			return nil, fmt.Errorf("dangling reference #%d", id)
		}
		sr, err := shapeRepresentation(m, rep, nil, 0)
		if err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, nil
}

func shapeRepresentation(m Model, rep *Instance, mapping []model.Axis2Placement, depth int) (ShapeRepresentation, error) {
	sr := ShapeRepresentation{}
	if depth > maxPlacementDepth {
		return sr, fmt.Errorf("#%d: mapped representation nesting too deep", rep.ID)
	}
	sr.Identifier, _ = rep.String(1)
	sr.Type, _ = rep.String(2)

	for _, id := range rep.Refs(3) {
		item, ok := m.Get(id)
		if !ok {
			return sr, fmt.Errorf("dangling reference #%d", id)
		}
		if !item.Is("IFCMAPPEDITEM") {
			sr.Items = append(sr.Items, ShapeItem{Item: item, Mapping: mapping})
			continue
		}

		source, err := Resolve(m, item.Arg(0))
		if err != nil {
			return sr, fmt.Errorf("#%d mapping source: %w", item.ID, err)
		}
		origin, err := Axis2Placement(m, source.Arg(0))
		if err != nil {
			return sr, err
		}
		target, err := mappingTarget(m, item.Arg(1))
		if err != nil {
			return sr, err
		}
		inner := append(append([]model.Axis2Placement(nil), mapping...), target, invert(origin))

		mapped, err := Resolve(m, source.Arg(1))
		if err != nil {
			return sr, fmt.Errorf("#%d mapped representation: %w", source.ID, err)
		}
		sub, err := shapeRepresentation(m, mapped, inner, depth+1)
		if err != nil {
			return sr, err
		}
		sr.Items = append(sr.Items, sub.Items...)
	}
	return sr, nil
}

// mappingTarget reads an IfcCartesianTransformationOperator as a frame.
// Scale is ignored.
func mappingTarget(m Model, v Value) (model.Axis2Placement, error) {
	var p model.Axis2Placement
	inst, err := Resolve(m, v)
	if err != nil {
		return p, fmt.Errorf("mapping target: %w", err)
	}
	if p.RefDirection, err = Direction(m, inst.Arg(0)); err != nil {
		return p, err
	}
	if p.Location, err = Point(m, inst.Arg(2)); err != nil {
		return p, err
	}
	if inst.Is("IFCCARTESIANTRANSFORMATIONOPERATOR3D", "IFCCARTESIANTRANSFORMATIONOPERATOR3DNONUNIFORM") {
		if p.Axis, err = Direction(m, inst.Arg(4)); err != nil {
			return p, err
		}
	}
	return p, nil
}

// invert returns the placement undoing p. Mapped geometry is defined
// relative to the map origin, so the origin frame is removed before the
// target frame is applied.
func invert(p model.Axis2Placement) model.Axis2Placement {
	z := p.Axis
	if r3.Norm(z) == 0 {
		z = r3.Vec{Z: 1}
	}
	z = r3.Unit(z)
	x := p.RefDirection
	if r3.Norm(x) == 0 {
		x = r3.Vec{X: 1}
	}
	x = r3.Sub(x, r3.Scale(r3.Dot(x, z), z))
	if r3.Norm(x) == 0 {
		x = r3.Vec{X: 1}
		if r3.Norm(r3.Cross(z, x)) == 0 {
			x = r3.Vec{Y: 1}
		}
		x = r3.Sub(x, r3.Scale(r3.Dot(x, z), z))
	}
	x = r3.Unit(x)
	y := r3.Cross(z, x)

	// rows of the rotation become the columns of its transpose
	tx := r3.Vec{X: x.X, Y: y.X, Z: z.X}
	tz := r3.Vec{X: x.Z, Y: y.Z, Z: z.Z}
	loc := p.Location
	return model.Axis2Placement{
		Location:     r3.Vec{X: -r3.Dot(x, loc), Y: -r3.Dot(y, loc), Z: -r3.Dot(z, loc)},
		Axis:         tz,
		RefDirection: tx,
	}
}

// Polyline returns the points of an IfcPolyline
func Polyline(m Model, inst *Instance) ([]r3.Vec, error) {
	if !inst.Is("IFCPOLYLINE") {
		return nil, fmt.Errorf("#%d: expected IfcPolyline, got %s", inst.ID, inst.Type)
	}
	ids := inst.Refs(0)
	pts := make([]r3.Vec, 0, len(ids))
	for _, id := range ids {
		p, err := Point(m, Ref(id))
		if err != nil {
			return nil, err
		}
		pts = append(pts, p)
	}
	return pts, nil
}
