// Package linear runs a first-order static analysis of a recorded solver
// model. Only beam-columns carry stiffness.
package linear

import (
	"errors"
	"fmt"
	"sort"

	"github.com/alexiusacademia/ifcfem/internal/solver"
	"gonum.org/v1/gonum/mat"
)

const dofs = 6

// maxCond is the condition number beyond which the solution is treated as
// a mechanism
const maxCond = 1e15

// ErrUnstable means the structure is a mechanism under its supports
var ErrUnstable = errors.New("stiffness matrix is singular, the structure is unstable (check supports)")

// Analyze assembles and solves K u = f. DOFs that no element stiffens are
// restrained automatically.
func Analyze(m *solver.Model) (*solver.Output, error) {
	index := make(map[int]int, len(m.NodeTags))
	for i, tag := range m.NodeTags {
		index[tag] = i
	}
	ndof := dofs * len(m.NodeTags)
	out := &solver.Output{
		Displacements: rows(len(m.NodeTags), dofs),
		Reactions:     rows(len(m.NodeTags), dofs),
		ElementForces: rows(len(m.ElementTags), 12),
	}
	if ndof == 0 {
		return out, nil
	}

	k := mat.NewSymDense(ndof, nil)
	f := make([]float64, ndof)
	beams := make(map[int]*beam)
	eqs := make(map[int][]int)

	for _, tag := range m.ElementTags {
		def := m.Elements[tag]
		if def.Type != solver.ElasticBeamColumn {
			out.Unsupported = append(out.Unsupported, tag)
			continue
		}
		sec := m.Sections[def.Section]
		e, err := newBeam(def, sec, m.Materials[sec.Material], m.Nodes[def.Nodes[0]].Coord, m.Nodes[def.Nodes[1]].Coord)
		if err != nil {
			return nil, err
		}
		eq := equations(index[def.Nodes[0]], index[def.Nodes[1]])
		for i, I := range eq {
			for j, J := range eq {
				if I <= J {
					k.SetSym(I, J, k.At(I, J)+e.k.At(i, j))
				}
			}
		}
		beams[tag] = e
		eqs[tag] = eq
	}

	for _, l := range m.Loads {
		e, ok := beams[l.Element]
		if !ok {
			return nil, fmt.Errorf("load on element %d without stiffness", l.Element)
		}
		for i, v := range e.uniformLoad(l.Values) {
			f[eqs[l.Element][i]] += v
		}
	}

	restrained := make([]bool, ndof)
	for node, fix := range m.Fixes {
		for d, r := range fix.DOF {
			if r != 0 {
				restrained[dofs*index[node]+d] = true
			}
		}
	}
	for i := 0; i < ndof; i++ {
		if k.At(i, i) == 0 {
			restrained[i] = true
		}
	}

	var free []int
	for i, r := range restrained {
		if !r {
			free = append(free, i)
		}
	}

	u := make([]float64, ndof)
	if len(free) > 0 {
		kff := mat.NewSymDense(len(free), nil)
		ff := mat.NewVecDense(len(free), nil)
		for a, I := range free {
			ff.SetVec(a, f[I])
			for b := a; b < len(free); b++ {
				kff.SetSym(a, b, k.At(I, free[b]))
			}
		}

		var chol mat.Cholesky
		if ok := chol.Factorize(kff); !ok || chol.Cond() > maxCond {
			return nil, ErrUnstable
		}
		var uf mat.VecDense
		if err := chol.SolveVecTo(&uf, ff); err != nil {
			return nil, fmt.Errorf("solving: %w", err)
		}
		for a, I := range free {
			u[I] = uf.AtVec(a)
		}
	}

	var ku mat.VecDense
	ku.MulVec(k, mat.NewVecDense(ndof, u))
	for i := range m.NodeTags {
		for d := 0; d < dofs; d++ {
			I := dofs*i + d
			out.Displacements[i][d] = u[I]
			if restrained[I] {
				out.Reactions[i][d] = ku.AtVec(I) - f[I]
			}
		}
	}

	for row, tag := range m.ElementTags {
		e, ok := beams[tag]
		if !ok {
			continue
		}
		ue := make([]float64, 12)
		for i, I := range eqs[tag] {
			ue[i] = u[I]
		}
		out.ElementForces[row] = e.endForces(ue)
	}

	sort.Ints(out.Unsupported)
	return out, nil
}

func equations(a, b int) []int {
	eq := make([]int, 0, 2*dofs)
	for _, n := range []int{a, b} {
		for d := 0; d < dofs; d++ {
			eq = append(eq, dofs*n+d)
		}
	}
	return eq
}

func rows(n, cols int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, cols)
	}
	return out
}
