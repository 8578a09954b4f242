package linear

import (
	"fmt"

	"github.com/alexiusacademia/ifcfem/internal/solver"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// beam is a 3D Euler-Bernoulli beam-column with 6 DOFs per node.
// Local axes are x along the member, y and z in the section plane.
type beam struct {
	tag   int
	nodes [2]int
	l     float64
	x     r3.Vec
	y     r3.Vec
	z     r3.Vec

	t   *mat.Dense // global to local
	kl  *mat.Dense // local stiffness
	k   *mat.Dense // global stiffness
	fxl []float64  // local fixed end forces of element loads
}

func vec(c [3]float64) r3.Vec {
	return r3.Vec{X: c[0], Y: c[1], Z: c[2]}
}

func newBeam(def solver.ElementDef, sec solver.SectionDef, m solver.MaterialDef, a, b [3]float64) (*beam, error) {
	d := r3.Sub(vec(b), vec(a))
	l := r3.Norm(d)
	if l == 0 {
		return nil, fmt.Errorf("element %d has zero length", def.Tag)
	}

	e := &beam{tag: def.Tag, nodes: [2]int{def.Nodes[0], def.Nodes[1]}, l: l, fxl: make([]float64, 12)}
	e.x = r3.Scale(1/l, d)

	// Local z from the orientation, falling back to global Z then X
	for _, cand := range []r3.Vec{vec(def.Orientation), {Z: 1}, {X: 1}} {
		z := r3.Sub(cand, r3.Scale(r3.Dot(cand, e.x), e.x))
		if n := r3.Norm(z); n > 1e-9 {
			e.z = r3.Scale(1/n, z)
			break
		}
	}
	e.y = r3.Cross(e.z, e.x)

	e.t = mat.NewDense(12, 12, nil)
	for k := 0; k < 4; k++ {
		for j, v := range []r3.Vec{e.x, e.y, e.z} {
			e.t.Set(3*k+j, 3*k+0, v.X)
			e.t.Set(3*k+j, 3*k+1, v.Y)
			e.t.Set(3*k+j, 3*k+2, v.Z)
		}
	}

	e.kl = localStiffness(l, m.E*sec.A, m.E*sec.Iy, m.E*sec.Iz, m.G*sec.J)

	// K = Tᵀ Kl T
	var tmp mat.Dense
	tmp.Mul(e.t.T(), e.kl)
	e.k = mat.NewDense(12, 12, nil)
	e.k.Mul(&tmp, e.t)
	return e, nil
}

// localStiffness is the 12×12 matrix ordered (u, v, w, θx, θy, θz) per node.
// EIz governs bending in the local x-y plane, EIy in the x-z plane.
func localStiffness(l, ea, eiy, eiz, gj float64) *mat.Dense {
	ll := l * l
	lll := l * ll
	k := mat.NewDense(12, 12, nil)
	set := func(i, j int, v float64) { k.Set(i, j, v) }

	set(0, 0, ea/l)
	set(0, 6, -ea/l)
	set(6, 0, -ea/l)
	set(6, 6, ea/l)

	set(1, 1, 12*eiz/lll)
	set(1, 5, 6*eiz/ll)
	set(1, 7, -12*eiz/lll)
	set(1, 11, 6*eiz/ll)
	set(5, 1, 6*eiz/ll)
	set(5, 5, 4*eiz/l)
	set(5, 7, -6*eiz/ll)
	set(5, 11, 2*eiz/l)
	set(7, 1, -12*eiz/lll)
	set(7, 5, -6*eiz/ll)
	set(7, 7, 12*eiz/lll)
	set(7, 11, -6*eiz/ll)
	set(11, 1, 6*eiz/ll)
	set(11, 5, 2*eiz/l)
	set(11, 7, -6*eiz/ll)
	set(11, 11, 4*eiz/l)

	set(2, 2, 12*eiy/lll)
	set(2, 4, -6*eiy/ll)
	set(2, 8, -12*eiy/lll)
	set(2, 10, -6*eiy/ll)
	set(4, 2, -6*eiy/ll)
	set(4, 4, 4*eiy/l)
	set(4, 8, 6*eiy/ll)
	set(4, 10, 2*eiy/l)
	set(8, 2, -12*eiy/lll)
	set(8, 4, 6*eiy/ll)
	set(8, 8, 12*eiy/lll)
	set(8, 10, 6*eiy/ll)
	set(10, 2, -6*eiy/ll)
	set(10, 4, 2*eiy/l)
	set(10, 8, 6*eiy/ll)
	set(10, 10, 4*eiy/l)

	set(3, 3, gj/l)
	set(3, 9, -gj/l)
	set(9, 3, -gj/l)
	set(9, 9, gj/l)
	return k
}

// uniformLoad adds a uniform load given in global components per unit
// length and returns the equivalent global nodal forces
func (e *beam) uniformLoad(w [3]float64) []float64 {
	g := vec(w)
	qt, qs, qr := r3.Dot(e.x, g), r3.Dot(e.y, g), r3.Dot(e.z, g)
	l, ll := e.l, e.l*e.l

	f := make([]float64, 12)
	f[0] = qt * l / 2
	f[6] = qt * l / 2
	f[1] = l * qs / 2
	f[5] = ll * qs / 12
	f[7] = l * qs / 2
	f[11] = -ll * qs / 12
	f[2] = l * qr / 2
	f[4] = -ll * qr / 12
	f[8] = l * qr / 2
	f[10] = ll * qr / 12

	for i := range f {
		e.fxl[i] += f[i]
	}

	var fg mat.VecDense
	fg.MulVec(e.t.T(), mat.NewVecDense(12, f))
	return fg.RawVector().Data
}

// endForces returns the local end forces for global displacements ue
func (e *beam) endForces(ue []float64) []float64 {
	var local, f mat.VecDense
	local.MulVec(e.t, mat.NewVecDense(12, ue))
	f.MulVec(e.kl, &local)
	out := make([]float64, 12)
	for i := range out {
		out[i] = f.AtVec(i) - e.fxl[i]
	}
	return out
}
