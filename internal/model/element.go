package model

import (
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// ElementKind is the structural role of an extracted element
type ElementKind int

const (
	Beam ElementKind = iota
	Column
	Slab
	Wall
)

func (k ElementKind) String() string {
	switch k {
	case Beam:
		return "beam"
	case Column:
		return "column"
	case Slab:
		return "slab"
	case Wall:
		return "wall"
	default:
		return "unknown"
	}
}

// IsLinear reports whether the kind reduces to a line segment
func (k ElementKind) IsLinear() bool {
	return k == Beam || k == Column
}

// IsArea reports whether the kind reduces to a planar polygon
func (k ElementKind) IsArea() bool {
	return k == Slab || k == Wall
}

// ifcKinds maps upper-cased IFC entity names to element kinds.
// IfcMember and IfcPlate are treated as beams and slabs respectively.
var ifcKinds = map[string]ElementKind{
	"IFCBEAM":               Beam,
	"IFCBEAMSTANDARDCASE":   Beam,
	"IFCMEMBER":             Beam,
	"IFCMEMBERSTANDARDCASE": Beam,
	"IFCCOLUMN":             Column,
	"IFCCOLUMNSTANDARDCASE": Column,
	"IFCSLAB":               Slab,
	"IFCSLABSTANDARDCASE":   Slab,
	"IFCSLABELEMENTEDCASE":  Slab,
	"IFCPLATE":              Slab,
	"IFCPLATESTANDARDCASE":  Slab,
	"IFCWALL":               Wall,
	"IFCWALLSTANDARDCASE":   Wall,
	"IFCWALLELEMENTEDCASE":  Wall,
}

// KindFromIFCType returns the element kind for an IFC entity type name
func KindFromIFCType(typ string) (ElementKind, bool) {
	k, ok := ifcKinds[strings.ToUpper(typ)]
	return k, ok
}

// SourceRef points back at the IFC entity an element came from.
// It is used for traceability only.
type SourceRef struct {
	EntityID int    `json:"entity_id"`
	GlobalID string `json:"global_id,omitempty"`
	Type     string `json:"type"`
	Name     string `json:"name,omitempty"`
	Tag      string `json:"tag,omitempty"`
}

func (s SourceRef) String() string {
	var sb strings.Builder
	sb.WriteString("#")
	sb.WriteString(strconv.Itoa(s.EntityID))
	if s.Type != "" {
		sb.WriteString(" ")
		sb.WriteString(s.Type)
	}
	if s.GlobalID != "" {
		sb.WriteString(" ")
		sb.WriteString(s.GlobalID)
	}
	return sb.String()
}

// Axis2Placement is a raw IFC coordinate frame. A zero Axis or RefDirection
// means the attribute was unset in the file.
type Axis2Placement struct {
	Location     r3.Vec `json:"location"`
	Axis         r3.Vec `json:"axis"`
	RefDirection r3.Vec `json:"ref_direction"`
}

// RawPlacement holds an object placement chain, outermost frame first
type RawPlacement struct {
	Chain []Axis2Placement `json:"chain"`
}

// ProfileKind identifies a swept-area profile definition
type ProfileKind int

const (
	NoProfile ProfileKind = iota
	RectangleProfile
	CircleProfile
	IShapeProfile
	ArbitraryProfile
)

func (k ProfileKind) String() string {
	switch k {
	case RectangleProfile:
		return "rectangle"
	case CircleProfile:
		return "circle"
	case IShapeProfile:
		return "ishape"
	case ArbitraryProfile:
		return "arbitrary"
	default:
		return "none"
	}
}

// Profile is the cross-section swept by an extrusion
type Profile struct {
	Kind ProfileKind `json:"kind"`
	Name string      `json:"name,omitempty"`

	// Rectangle
	XDim float64 `json:"x_dim,omitempty"`
	YDim float64 `json:"y_dim,omitempty"`

	// Circle
	Radius float64 `json:"radius,omitempty"`

	// Hollow rectangle and circle wall
	WallThickness float64 `json:"wall_thickness,omitempty"`

	// I-shape
	OverallWidth    float64 `json:"overall_width,omitempty"`
	OverallDepth    float64 `json:"overall_depth,omitempty"`
	WebThickness    float64 `json:"web_thickness,omitempty"`
	FlangeThickness float64 `json:"flange_thickness,omitempty"`

	// Arbitrary closed outline, profile plane coordinates (Z = 0)
	Outline []r3.Vec `json:"outline,omitempty"`

	// Position of the profile inside its plane
	Position Axis2Placement `json:"position"`
}

// Extrusion is an IfcExtrudedAreaSolid. Mapping holds the frames of a
// mapped representation, applied between the object placement and Position.
type Extrusion struct {
	Profile   Profile          `json:"profile"`
	Mapping   []Axis2Placement `json:"mapping,omitempty"`
	Position  Axis2Placement   `json:"position"`
	Direction r3.Vec           `json:"direction"`
	Depth     float64          `json:"depth"`
}

// RawRepresentation carries the representation items the resolver needs
type RawRepresentation struct {
	Axis []r3.Vec   `json:"axis,omitempty"`
	Body *Extrusion `json:"body,omitempty"`
}

// Property is a single named value from a property set, quantity set or
// material property set
type Property struct {
	Set     string  `json:"set,omitempty"`
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Text    string  `json:"text,omitempty"`
	Numeric bool    `json:"numeric"`
}

// MaterialRef is a material associated with an element
type MaterialRef struct {
	Name           string     `json:"name"`
	Category       string     `json:"category,omitempty"`
	LayerThickness float64    `json:"layer_thickness,omitempty"`
	Properties     []Property `json:"properties,omitempty"`
}

// StructuralElement is one extracted structural entity. It is not modified
// after extraction.
type StructuralElement struct {
	Index          int               `json:"index"`
	Kind           ElementKind       `json:"kind"`
	Source         SourceRef         `json:"source"`
	Placement      RawPlacement      `json:"placement"`
	Representation RawRepresentation `json:"representation"`
	Properties     []Property        `json:"properties,omitempty"`
	Materials      []MaterialRef     `json:"materials,omitempty"`
}

// SupportRecord is a support found in the IFC structural analysis domain.
// Position is expressed in the frame given by Placement.
type SupportRecord struct {
	Source     SourceRef    `json:"source"`
	Placement  RawPlacement `json:"placement"`
	Position   r3.Vec       `json:"position"`
	Restraints DOFSet       `json:"restraints"`
}
