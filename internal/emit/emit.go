// Package emit issues a conversion model to a solver builder in dependency
// order: materials, sections, nodes, elements, constraints, loads.
package emit

import (
	"fmt"
	"log/slog"

	"github.com/alexiusacademia/ifcfem/internal/helper"
	"github.com/alexiusacademia/ifcfem/internal/model"
	"github.com/alexiusacademia/ifcfem/internal/solver"
)

// Handle is the populated solver model together with the identifier
// mappings needed to read results back
type Handle struct {
	Model        solver.Builder
	NodeOrder    []int
	ElementOrder []int
	MaterialTags map[string]int
	SectionTags  map[string]int
}

// SectionKey identifies an emitted section, which binds a section
// descriptor to a material
func SectionKey(section, material string) string {
	return section + "@" + material
}

// CommitError means the builder failed after it had accepted primitives.
// The solver model is partially populated and must be discarded.
type CommitError struct {
	Primitive string
	Tag       int
	Err       error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("solver rejected %s %d after commit began: %v", e.Primitive, e.Tag, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// Emitter translates conversion models into solver primitives
type Emitter struct {
	logger *slog.Logger
}

// New creates an emitter. A nil logger discards output.
func New(logger *slog.Logger) *Emitter {
	return &Emitter{logger: helper.OrDiscard(logger)}
}

// run tracks what has been emitted so far
type run struct {
	b         solver.Builder
	calls     int
	materials map[string]int
	sections  map[string]int
	nodes     map[int]bool
	elements  map[int]bool
}

func (r *run) call(primitive string, tag int, f func() error) error {
	if err := f(); err != nil {
		if r.calls == 0 {
			return fmt.Errorf("solver rejected %s %d: %w", primitive, tag, err)
		}
		return &CommitError{Primitive: primitive, Tag: tag, Err: err}
	}
	r.calls++
	return nil
}

func inconsistent(format string, args ...any) error {
	return &model.InternalConsistencyError{Op: "emit", Detail: fmt.Sprintf(format, args...)}
}

// Emit populates b from cm. An InternalConsistencyError means the model
// referenced something not yet emitted; a CommitError means b is unusable.
func (e *Emitter) Emit(cm *model.ConversionModel, b solver.Builder) (*Handle, error) {
	r := &run{
		b:         b,
		materials: make(map[string]int),
		sections:  make(map[string]int),
		nodes:     make(map[int]bool),
		elements:  make(map[int]bool),
	}
	h := &Handle{Model: b, MaterialTags: r.materials, SectionTags: r.sections}

	for _, name := range cm.MaterialOrder {
		m, ok := cm.Materials[name]
		if !ok {
			return nil, inconsistent("material %q listed but not defined", name)
		}
		tag := len(r.materials) + 1
		def := solver.MaterialDef{Tag: tag, Name: name, E: m.E, G: m.G, Nu: m.Nu, Rho: m.Rho}
		if err := r.call("material", tag, func() error { return b.Material(def) }); err != nil {
			return nil, err
		}
		r.materials[name] = tag
	}

	elementIDs := cm.ElementIDs()
	for _, id := range elementIDs {
		el := cm.Elements[id]
		key := SectionKey(el.Section, el.Material)
		if _, ok := r.sections[key]; ok {
			continue
		}
		sec, ok := cm.Sections[el.Section]
		if !ok {
			return nil, inconsistent("element %d references undefined section %q", id, el.Section)
		}
		mat, ok := r.materials[el.Material]
		if !ok {
			return nil, inconsistent("section %q references material %q before it was emitted", el.Section, el.Material)
		}
		tag := len(r.sections) + 1
		def := solver.SectionDef{
			Tag:       tag,
			Name:      sec.Name,
			Material:  mat,
			Shell:     sec.Kind == model.ShellSection,
			A:         sec.A,
			Iy:        sec.Iy,
			Iz:        sec.Iz,
			J:         sec.J,
			Thickness: sec.Thickness,
		}
		if err := r.call("section", tag, func() error { return b.Section(def) }); err != nil {
			return nil, err
		}
		r.sections[key] = tag
	}

	for _, id := range cm.NodeIDs() {
		n := cm.Nodes[id]
		def := solver.NodeDef{Tag: id, Coord: [3]float64{n.Coord.X, n.Coord.Y, n.Coord.Z}}
		if err := r.call("node", id, func() error { return b.Node(def) }); err != nil {
			return nil, err
		}
		r.nodes[id] = true
		h.NodeOrder = append(h.NodeOrder, id)
	}

	for _, id := range elementIDs {
		el := cm.Elements[id]
		tag, ok := r.sections[SectionKey(el.Section, el.Material)]
		if !ok {
			return nil, inconsistent("element %d references section %q before it was emitted", id, el.Section)
		}
		for _, n := range el.Nodes {
			if !r.nodes[n] {
				return nil, inconsistent("element %d references node %d before it was emitted", id, n)
			}
		}
		def := solver.ElementDef{
			Tag:         id,
			Type:        solver.Shell,
			Nodes:       el.Nodes,
			Section:     tag,
			Orientation: [3]float64{el.Orientation.X, el.Orientation.Y, el.Orientation.Z},
		}
		if el.Kind.IsLinear() {
			def.Type = solver.ElasticBeamColumn
		}
		if err := r.call("element", id, func() error { return b.Element(def) }); err != nil {
			return nil, err
		}
		r.elements[id] = true
		h.ElementOrder = append(h.ElementOrder, id)
	}

	for _, bc := range cm.BoundaryConditions {
		if !r.nodes[bc.Node] {
			return nil, inconsistent("boundary condition references node %d before it was emitted", bc.Node)
		}
		def := solver.FixDef{Node: bc.Node}
		copy(def.DOF[:], bc.Restraints.Flags())
		if err := r.call("fix", bc.Node, func() error { return b.Fix(def) }); err != nil {
			return nil, err
		}
	}

	for _, l := range cm.Loads {
		if !r.elements[l.Element] {
			return nil, inconsistent("load references element %d before it was emitted", l.Element)
		}
		def := solver.LoadDef{Element: l.Element, Type: solver.BeamUniform, Values: l.Values}
		if err := r.call("load", l.Element, func() error { return b.Load(def) }); err != nil {
			return nil, err
		}
	}

	e.logger.Info("Solver model emitted",
		slog.Int("materials", len(r.materials)),
		slog.Int("sections", len(r.sections)),
		slog.Int("nodes", len(h.NodeOrder)),
		slog.Int("elements", len(h.ElementOrder)),
		slog.Int("fixes", len(cm.BoundaryConditions)),
		slog.Int("loads", len(cm.Loads)),
	)
	return h, nil
}
