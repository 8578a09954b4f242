// Package solver defines the primitive set a structural solver is built
// from and an in-memory model that records them.
package solver

// Element types understood by the builders
const (
	ElasticBeamColumn = "elasticBeamColumn"
	Shell             = "shell"
)

// Load types
const (
	BeamUniform = "beamUniform"
)

// MaterialDef is a linear elastic isotropic material
type MaterialDef struct {
	Tag  int
	Name string
	E    float64
	G    float64
	Nu   float64
	Rho  float64
}

// SectionDef is a frame or shell section bound to a material
type SectionDef struct {
	Tag       int
	Name      string
	Material  int
	Shell     bool
	A         float64
	Iy        float64
	Iz        float64
	J         float64
	Thickness float64
}

// NodeDef is a node in global coordinates
type NodeDef struct {
	Tag   int
	Coord [3]float64
}

// ElementDef is a beam-column with two nodes or a shell with three or more.
// Orientation is the local z axis of beam-columns.
type ElementDef struct {
	Tag         int
	Type        string
	Nodes       []int
	Section     int
	Orientation [3]float64
}

// FixDef restrains degrees of freedom of a node, 1 meaning fixed
type FixDef struct {
	Node int
	DOF  [6]int
}

// LoadDef is a uniform element load with global components per unit length
type LoadDef struct {
	Element int
	Type    string
	Values  [3]float64
}

// Builder is the construction interface of a solver model. Every call may
// reference only primitives that were defined before it.
type Builder interface {
	Material(MaterialDef) error
	Section(SectionDef) error
	Node(NodeDef) error
	Element(ElementDef) error
	Fix(FixDef) error
	Load(LoadDef) error
}

// Output holds raw solver results. Node rows follow node definition order
// and element rows follow element definition order.
type Output struct {
	Displacements [][]float64
	Reactions     [][]float64
	ElementForces [][]float64

	// Unsupported lists element tags the analysis skipped
	Unsupported []int
}
