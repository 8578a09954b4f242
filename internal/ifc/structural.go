package ifc

import (
	"fmt"

	"github.com/alexiusacademia/ifcfem/internal/model"
	"gonum.org/v1/gonum/spatial/r3"
)

// RigidStiffness is the stiffness at and above which a spring counts as fixed
const RigidStiffness = 1e10

// NodeCondition decodes an IfcBoundaryNodeCondition. A degree of freedom is
// restrained by IFCBOOLEAN(.T.), a negative stiffness or one of at least
// RigidStiffness. Unset values are free.
func NodeCondition(m Model, v Value) (model.DOFSet, error) {
	var dofs model.DOFSet
	inst, err := Resolve(m, v)
	if err != nil {
		return dofs, fmt.Errorf("applied condition: %w", err)
	}
	if !inst.Is("IFCBOUNDARYNODECONDITION", "IFCBOUNDARYNODECONDITIONWARPING") {
		return dofs, fmt.Errorf("#%d: unsupported boundary condition %s", inst.ID, inst.Type)
	}
	for dof := 0; dof < model.NumDOF; dof++ {
		dofs[dof] = restrained(inst.Arg(dof + 1))
	}
	return dofs, nil
}

func restrained(v Value) bool {
	if e, ok := AsEnum(v); ok {
		return e == "T"
	}
	if f, ok := AsFloat(v); ok {
		return f < 0 || f >= RigidStiffness
	}
	return false
}

// VertexPosition returns the point of the first IfcVertexPoint in a
// product's topology representation, in the product's local frame
func VertexPosition(m Model, product *Instance) (r3.Vec, bool, error) {
	reps, err := Representations(m, product)
	if err != nil {
		return r3.Vec{}, false, err
	}
	for _, rep := range reps {
		for _, item := range rep.Items {
			if !item.Item.Is("IFCVERTEXPOINT") {
				continue
			}
			p, err := Point(m, item.Item.Arg(0))
			if err != nil {
				return r3.Vec{}, false, err
			}
			return p, true, nil
		}
	}
	return r3.Vec{}, false, nil
}
