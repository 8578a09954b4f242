package model

import "gonum.org/v1/gonum/spatial/r3"

// PrimitiveKind is the simplified shape a member reduces to
type PrimitiveKind int

const (
	LinePrimitive PrimitiveKind = iota
	PolygonPrimitive
)

func (k PrimitiveKind) String() string {
	if k == PolygonPrimitive {
		return "polygon"
	}
	return "line"
}

// CanonicalGeometry is an element's geometry in global coordinates.
// Lines carry two points (start, end); polygons carry their ordered
// boundary vertices without a closing duplicate.
type CanonicalGeometry struct {
	Origin    r3.Vec        `json:"origin"`
	Basis     [3]r3.Vec     `json:"basis"` // local x, y, z
	Primitive PrimitiveKind `json:"primitive"`
	Points    []r3.Vec      `json:"points"`
	Thickness float64       `json:"thickness,omitempty"`
	Length    float64       `json:"length,omitempty"`
	Area      float64       `json:"area,omitempty"`
}

// Orientation returns the vector defining the local x-z plane of a member,
// which is the local z axis.
func (g CanonicalGeometry) Orientation() r3.Vec {
	return g.Basis[2]
}
