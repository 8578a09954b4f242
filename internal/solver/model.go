package solver

import (
	"fmt"
	"slices"
)

// Primitive kinds recorded in a Model stream
const (
	MaterialPrimitive = "material"
	SectionPrimitive  = "section"
	NodePrimitive     = "node"
	ElementPrimitive  = "element"
	FixPrimitive      = "fix"
	LoadPrimitive     = "load"
)

// Primitive is one recorded builder call
type Primitive struct {
	Kind string
	Tag  int
	Refs []Ref
}

// Ref is a reference from a primitive to an earlier one
type Ref struct {
	Kind string
	Tag  int
}

// Model is an in-memory Builder that validates and records every call
type Model struct {
	Materials map[int]MaterialDef
	Sections  map[int]SectionDef
	Nodes     map[int]NodeDef
	Elements  map[int]ElementDef
	Fixes     map[int]FixDef
	Loads     []LoadDef

	// Definition order
	NodeTags    []int
	ElementTags []int
	Stream      []Primitive
}

// NewModel returns an empty model
func NewModel() *Model {
	return &Model{
		Materials: make(map[int]MaterialDef),
		Sections:  make(map[int]SectionDef),
		Nodes:     make(map[int]NodeDef),
		Elements:  make(map[int]ElementDef),
		Fixes:     make(map[int]FixDef),
	}
}

func (m *Model) record(kind string, tag int, refs ...Ref) {
	m.Stream = append(m.Stream, Primitive{Kind: kind, Tag: tag, Refs: refs})
}

// Material defines an elastic material. The modulus must be positive.
func (m *Model) Material(d MaterialDef) error {
	if _, ok := m.Materials[d.Tag]; ok {
		return fmt.Errorf("material %d already defined", d.Tag)
	}
	if d.E <= 0 {
		return fmt.Errorf("material %d: modulus must be positive", d.Tag)
	}
	m.Materials[d.Tag] = d
	m.record(MaterialPrimitive, d.Tag)
	return nil
}

// Section defines a frame or shell section on an already defined material
func (m *Model) Section(d SectionDef) error {
	if _, ok := m.Sections[d.Tag]; ok {
		return fmt.Errorf("section %d already defined", d.Tag)
	}
	if _, ok := m.Materials[d.Material]; !ok {
		return fmt.Errorf("section %d: unknown material %d", d.Tag, d.Material)
	}
	m.Sections[d.Tag] = d
	m.record(SectionPrimitive, d.Tag, Ref{MaterialPrimitive, d.Material})
	return nil
}

// Node defines a node
func (m *Model) Node(d NodeDef) error {
	if _, ok := m.Nodes[d.Tag]; ok {
		return fmt.Errorf("node %d already defined", d.Tag)
	}
	m.Nodes[d.Tag] = d
	m.NodeTags = append(m.NodeTags, d.Tag)
	m.record(NodePrimitive, d.Tag)
	return nil
}

// Element defines a beam-column or shell element. Its section and nodes
// must already be defined and match the element type.
func (m *Model) Element(d ElementDef) error {
	if _, ok := m.Elements[d.Tag]; ok {
		return fmt.Errorf("element %d already defined", d.Tag)
	}
	sec, ok := m.Sections[d.Section]
	if !ok {
		return fmt.Errorf("element %d: unknown section %d", d.Tag, d.Section)
	}
	switch d.Type {
	case ElasticBeamColumn:
		if len(d.Nodes) != 2 || sec.Shell {
			return fmt.Errorf("element %d: beam-column needs 2 nodes and a frame section", d.Tag)
		}
	case Shell:
		if len(d.Nodes) < 3 || !sec.Shell {
			return fmt.Errorf("element %d: shell needs 3 or more nodes and a shell section", d.Tag)
		}
	default:
		return fmt.Errorf("element %d: unknown type %q", d.Tag, d.Type)
	}

	refs := []Ref{{SectionPrimitive, d.Section}}
	for _, n := range d.Nodes {
		if _, ok := m.Nodes[n]; !ok {
			return fmt.Errorf("element %d: unknown node %d", d.Tag, n)
		}
		refs = append(refs, Ref{NodePrimitive, n})
	}
	d.Nodes = slices.Clone(d.Nodes)
	m.Elements[d.Tag] = d
	m.ElementTags = append(m.ElementTags, d.Tag)
	m.record(ElementPrimitive, d.Tag, refs...)
	return nil
}

// Fix restrains degrees of freedom of a defined node. Repeated fixes on
// one node are combined.
func (m *Model) Fix(d FixDef) error {
	if _, ok := m.Nodes[d.Node]; !ok {
		return fmt.Errorf("fix: unknown node %d", d.Node)
	}
	if prev, ok := m.Fixes[d.Node]; ok {
		for i := range d.DOF {
			d.DOF[i] |= prev.DOF[i]
		}
	}
	m.Fixes[d.Node] = d
	m.record(FixPrimitive, d.Node, Ref{NodePrimitive, d.Node})
	return nil
}

// Load applies a uniform load to a defined beam-column element
func (m *Model) Load(d LoadDef) error {
	el, ok := m.Elements[d.Element]
	if !ok {
		return fmt.Errorf("load: unknown element %d", d.Element)
	}
	if d.Type != BeamUniform || el.Type != ElasticBeamColumn {
		return fmt.Errorf("load: %q not applicable to %s element %d", d.Type, el.Type, d.Element)
	}
	m.Loads = append(m.Loads, d)
	m.record(LoadPrimitive, d.Element, Ref{ElementPrimitive, d.Element})
	return nil
}
