// Package results attaches solver output to the identifiers of a
// conversion model.
package results

import (
	"fmt"

	"github.com/alexiusacademia/ifcfem/internal/emit"
	"github.com/alexiusacademia/ifcfem/internal/model"
	"github.com/alexiusacademia/ifcfem/internal/solver"
)

// Map zips solver rows onto node and element identifiers using the
// emission order recorded in h. Row i of the node arrays belongs to
// h.NodeOrder[i]. Element forces are optional; when present they must
// cover every emitted element.
func Map(cm *model.ConversionModel, h *emit.Handle, out *solver.Output) (*model.ResultSet, error) {
	if out == nil {
		return nil, &model.DataMismatchError{What: "solver output", Expected: len(h.NodeOrder), Got: 0}
	}
	if err := checkRows("node displacements", out.Displacements, len(h.NodeOrder), model.NumDOF); err != nil {
		return nil, err
	}
	if out.Reactions != nil {
		if err := checkRows("node reactions", out.Reactions, len(h.NodeOrder), model.NumDOF); err != nil {
			return nil, err
		}
	}
	if out.ElementForces != nil {
		if err := checkRows("element forces", out.ElementForces, len(h.ElementOrder), 0); err != nil {
			return nil, err
		}
	}

	rs := &model.ResultSet{
		RunID:    cm.RunID,
		Nodes:    make(map[int]model.NodeResult, len(h.NodeOrder)),
		Elements: make(map[int]model.ElementResult, len(h.ElementOrder)),
	}

	for i, id := range h.NodeOrder {
		n, ok := cm.Nodes[id]
		if !ok {
			return nil, &model.InternalConsistencyError{Op: "results", Detail: fmt.Sprintf("handle lists unknown node %d", id)}
		}
		r := model.NodeResult{ID: id, Coord: n.Coord}
		copy(r.Displacement[:], out.Displacements[i])
		if out.Reactions != nil {
			copy(r.Reaction[:], out.Reactions[i])
		}
		rs.Nodes[id] = r
	}

	if out.ElementForces != nil {
		for i, id := range h.ElementOrder {
			rs.Elements[id] = model.ElementResult{
				ID:     id,
				Forces: append([]float64(nil), out.ElementForces[i]...),
			}
		}
	}
	return rs, nil
}

// checkRows requires exactly n rows of at least width values each
func checkRows(what string, rows [][]float64, n, width int) error {
	if len(rows) != n {
		return &model.DataMismatchError{What: what, Expected: n, Got: len(rows)}
	}
	for i, row := range rows {
		if len(row) < width {
			return &model.DataMismatchError{What: fmt.Sprintf("%s row %d", what, i), Expected: width, Got: len(row)}
		}
	}
	return nil
}
