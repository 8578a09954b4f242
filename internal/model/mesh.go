package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"
)

// Degrees of freedom per node
const (
	UX = iota
	UY
	UZ
	RX
	RY
	RZ
	NumDOF
)

var dofNames = [NumDOF]string{"ux", "uy", "uz", "rx", "ry", "rz"}

// DOFSet marks restrained degrees of freedom
type DOFSet [NumDOF]bool

// Fixed restrains all six degrees of freedom
var Fixed = DOFSet{true, true, true, true, true, true}

// Pinned restrains translations only
var Pinned = DOFSet{true, true, true, false, false, false}

// Union returns the restraints present in either set
func (d DOFSet) Union(o DOFSet) DOFSet {
	var out DOFSet
	for i := range d {
		out[i] = d[i] || o[i]
	}
	return out
}

// Count returns the number of restrained degrees of freedom
func (d DOFSet) Count() int {
	n := 0
	for _, r := range d {
		if r {
			n++
		}
	}
	return n
}

// Flags returns the restraints as 0/1 integers, solver style
func (d DOFSet) Flags() []int {
	out := make([]int, NumDOF)
	for i, r := range d {
		if r {
			out[i] = 1
		}
	}
	return out
}

func (d DOFSet) String() string {
	var parts []string
	for i, r := range d {
		if r {
			parts = append(parts, dofNames[i])
		}
	}
	if len(parts) == 0 {
		return "free"
	}
	return strings.Join(parts, ",")
}

// MeshNode is a solver node. Elements is the sorted set of incident elements.
type MeshNode struct {
	ID       int    `json:"id"`
	Coord    r3.Vec `json:"coord"`
	Elements []int  `json:"elements"`
}

// MeshElement is a solver element. Linear elements reference two nodes,
// area elements three or more.
type MeshElement struct {
	ID          int         `json:"id"`
	Kind        ElementKind `json:"kind"`
	Nodes       []int       `json:"nodes"`
	Section     string      `json:"section"`
	Material    string      `json:"material"`
	Orientation r3.Vec      `json:"orientation"`
	Source      SourceRef   `json:"source"`
}

// BoundaryCondition restrains degrees of freedom at a node
type BoundaryCondition struct {
	Node       int    `json:"node"`
	Restraints DOFSet `json:"restraints"`
	Source     string `json:"source,omitempty"`
}

// ElementLoad is a uniform distributed load in global axes
type ElementLoad struct {
	Element int        `json:"element"`
	Kind    string     `json:"kind"`
	Values  [3]float64 `json:"values"`
}

// ConversionModel is everything the emitter needs for one run
type ConversionModel struct {
	RunID              uuid.UUID                      `json:"run_id"`
	Nodes              map[int]*MeshNode              `json:"nodes"`
	Elements           map[int]*MeshElement           `json:"elements"`
	Sections           map[string]*SectionDescriptor  `json:"sections"`
	Materials          map[string]*MaterialDescriptor `json:"materials"`
	SectionOrder       []string                       `json:"section_order"`
	MaterialOrder      []string                       `json:"material_order"`
	BoundaryConditions []BoundaryCondition            `json:"boundary_conditions"`
	Loads              []ElementLoad                  `json:"loads,omitempty"`
	Summary            Summary                        `json:"summary"`
}

// NewConversionModel returns an empty model with a fresh run id
func NewConversionModel() *ConversionModel {
	return &ConversionModel{
		RunID:     uuid.New(),
		Nodes:     make(map[int]*MeshNode),
		Elements:  make(map[int]*MeshElement),
		Sections:  make(map[string]*SectionDescriptor),
		Materials: make(map[string]*MaterialDescriptor),
	}
}

// NodeIDs returns node ids in ascending order
func (m *ConversionModel) NodeIDs() []int {
	ids := make([]int, 0, len(m.Nodes))
	for id := range m.Nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// ElementIDs returns element ids in ascending order
func (m *ConversionModel) ElementIDs() []int {
	ids := make([]int, 0, len(m.Elements))
	for id := range m.Elements {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// SectionNames returns section names in registration order
func (m *ConversionModel) SectionNames() []string {
	return append([]string(nil), m.SectionOrder...)
}

// MaterialNames returns material names in registration order
func (m *ConversionModel) MaterialNames() []string {
	return append([]string(nil), m.MaterialOrder...)
}

// AddSection registers a descriptor once, keeping insertion order
func (m *ConversionModel) AddSection(s *SectionDescriptor) {
	if _, ok := m.Sections[s.Name]; ok {
		return
	}
	m.Sections[s.Name] = s
	m.SectionOrder = append(m.SectionOrder, s.Name)
}

// AddMaterial registers a descriptor once, keeping insertion order
func (m *ConversionModel) AddMaterial(d *MaterialDescriptor) {
	if _, ok := m.Materials[d.Name]; ok {
		return
	}
	m.Materials[d.Name] = d
	m.MaterialOrder = append(m.MaterialOrder, d.Name)
}

// Validate checks referential integrity between elements, nodes,
// descriptors, boundary conditions and loads.
func (m *ConversionModel) Validate() error {
	for _, id := range m.ElementIDs() {
		el := m.Elements[id]
		if el.ID != id {
			return &InternalConsistencyError{Op: "validate", Detail: fmt.Sprintf("element key %d holds id %d", id, el.ID)}
		}
		if el.Kind.IsLinear() && len(el.Nodes) != 2 {
			return &InternalConsistencyError{Op: "validate", Detail: fmt.Sprintf("element %d: linear element with %d nodes", id, len(el.Nodes))}
		}
		if el.Kind.IsArea() && len(el.Nodes) < 3 {
			return &InternalConsistencyError{Op: "validate", Detail: fmt.Sprintf("element %d: area element with %d nodes", id, len(el.Nodes))}
		}
		for _, n := range el.Nodes {
			if _, ok := m.Nodes[n]; !ok {
				return &InternalConsistencyError{Op: "validate", Detail: fmt.Sprintf("element %d references unknown node %d", id, n)}
			}
		}
		if _, ok := m.Sections[el.Section]; !ok {
			return &InternalConsistencyError{Op: "validate", Detail: fmt.Sprintf("element %d references unknown section %q", id, el.Section)}
		}
		if _, ok := m.Materials[el.Material]; !ok {
			return &InternalConsistencyError{Op: "validate", Detail: fmt.Sprintf("element %d references unknown material %q", id, el.Material)}
		}
	}
	for _, bc := range m.BoundaryConditions {
		if _, ok := m.Nodes[bc.Node]; !ok {
			return &InternalConsistencyError{Op: "validate", Detail: fmt.Sprintf("boundary condition references unknown node %d", bc.Node)}
		}
	}
	for _, l := range m.Loads {
		if _, ok := m.Elements[l.Element]; !ok {
			return &InternalConsistencyError{Op: "validate", Detail: fmt.Sprintf("load references unknown element %d", l.Element)}
		}
	}
	return nil
}
