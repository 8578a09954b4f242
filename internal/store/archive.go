package store

import (
	"slices"

	"github.com/alexiusacademia/ifcfem/internal/model"
	"gonum.org/v1/gonum/spatial/r3"
)

// ArchivedNode is a stored node with its restraints and, once results
// were stored, its displacement and reaction
type ArchivedNode struct {
	ID           int                   `json:"id"`
	Coord        r3.Vec                `json:"coord"`
	Restraints   model.DOFSet          `json:"restraints"`
	HasResult    bool                  `json:"has_result"`
	Displacement [model.NumDOF]float64 `json:"displacement"`
	Reaction     [model.NumDOF]float64 `json:"reaction"`
}

// ArchivedElement is a stored element
type ArchivedElement struct {
	ID       int             `json:"id"`
	Kind     string          `json:"kind"`
	Nodes    []int           `json:"nodes"`
	Section  string          `json:"section"`
	Material string          `json:"material"`
	Source   model.SourceRef `json:"source"`
}

// Archive is a run read back from the store
type Archive struct {
	Run      *model.Run        `json:"run"`
	Nodes    []ArchivedNode    `json:"nodes"`
	Elements []ArchivedElement `json:"elements"`
}

// Model rebuilds the mesh part of the conversion model and the result set
// of the run. Descriptors are not archived, so the returned model only
// carries nodes, elements and boundary conditions. The result set is nil
// when no results were stored.
func (a *Archive) Model() (*model.ConversionModel, *model.ResultSet) {
	cm := model.NewConversionModel()
	cm.RunID = a.Run.RID
	cm.Summary = a.Run.Summary

	rs := &model.ResultSet{
		RunID:    a.Run.RID,
		Nodes:    make(map[int]model.NodeResult),
		Elements: make(map[int]model.ElementResult),
	}

	for _, n := range a.Nodes {
		cm.Nodes[n.ID] = &model.MeshNode{ID: n.ID, Coord: n.Coord}
		if n.Restraints.Count() > 0 {
			cm.BoundaryConditions = append(cm.BoundaryConditions, model.BoundaryCondition{
				Node:       n.ID,
				Restraints: n.Restraints,
				Source:     "archive",
			})
		}
		if n.HasResult {
			rs.Nodes[n.ID] = model.NodeResult{
				ID:           n.ID,
				Coord:        n.Coord,
				Displacement: n.Displacement,
				Reaction:     n.Reaction,
			}
		}
	}

	for _, e := range a.Elements {
		cm.Elements[e.ID] = &model.MeshElement{
			ID:       e.ID,
			Kind:     kindFromString(e.Kind),
			Nodes:    e.Nodes,
			Section:  e.Section,
			Material: e.Material,
			Source:   e.Source,
		}
		for _, n := range e.Nodes {
			if node, ok := cm.Nodes[n]; ok {
				node.Elements = append(node.Elements, e.ID)
			}
		}
	}

	if len(rs.Nodes) == 0 {
		return cm, nil
	}
	return cm, rs
}

func kindFromString(s string) model.ElementKind {
	for _, k := range []model.ElementKind{model.Beam, model.Column, model.Slab, model.Wall} {
		if k.String() == s {
			return k
		}
	}
	return model.Beam
}

func int64s(in []int) []int64 {
	out := make([]int64, len(in))
	for i, v := range in {
		out[i] = int64(v)
	}
	return out
}

func ints(in []int64) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = int(v)
	}
	return out
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
