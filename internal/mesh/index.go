package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

type cell [3]int64

type entry struct {
	id int
	p  r3.Vec
}

// Index is a uniform grid over node coordinates with cell size equal to
// the merge tolerance, so a point only has to look at its 27 neighbouring
// cells to find every node closer than the tolerance.
type Index struct {
	eps   float64
	cells map[cell][]entry
}

// NewIndex creates an empty index for tolerance eps
func NewIndex(eps float64) *Index {
	return &Index{eps: eps, cells: make(map[cell][]entry)}
}

func (x *Index) key(p r3.Vec) cell {
	return cell{
		int64(math.Floor(p.X / x.eps)),
		int64(math.Floor(p.Y / x.eps)),
		int64(math.Floor(p.Z / x.eps)),
	}
}

// Insert adds a node
func (x *Index) Insert(id int, p r3.Vec) {
	k := x.key(p)
	x.cells[k] = append(x.cells[k], entry{id: id, p: p})
}

// Nearest returns the closest node strictly within the tolerance.
// Equidistant candidates resolve to the lowest id.
func (x *Index) Nearest(p r3.Vec) (int, bool) {
	return x.Within(p, x.eps)
}

// Within returns the closest node strictly within radius r
func (x *Index) Within(p r3.Vec, r float64) (int, bool) {
	reach := int64(math.Ceil(r / x.eps))
	if reach < 1 {
		reach = 1
	}
	k := x.key(p)

	var n nearest
	span := 2*reach + 1
	if span*span*span > int64(len(x.cells)) {
		// Wide radius, scanning the occupied cells is cheaper
		for _, c := range x.cells {
			n.visit(c, p, r)
		}
		return n.id, n.found
	}
	for i := -reach; i <= reach; i++ {
		for j := -reach; j <= reach; j++ {
			for l := -reach; l <= reach; l++ {
				n.visit(x.cells[cell{k[0] + i, k[1] + j, k[2] + l}], p, r)
			}
		}
	}
	return n.id, n.found
}

type nearest struct {
	id    int
	dist  float64
	found bool
}

func (n *nearest) visit(entries []entry, p r3.Vec, r float64) {
	for _, e := range entries {
		d := r3.Norm(r3.Sub(e.p, p))
		if d >= r {
			continue
		}
		if !n.found || d < n.dist || (d == n.dist && e.id < n.id) {
			n.id, n.dist, n.found = e.id, d, true
		}
	}
}

// Len returns the number of indexed nodes
func (x *Index) Len() int {
	n := 0
	for _, c := range x.cells {
		n += len(c)
	}
	return n
}
