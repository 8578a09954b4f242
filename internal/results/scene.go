package results

import (
	"math"
	"slices"

	"github.com/alexiusacademia/ifcfem/internal/diagram"
	"github.com/alexiusacademia/ifcfem/internal/model"
	"gonum.org/v1/gonum/spatial/r3"
)

// Scene builds visualization records for a model. With a result set the
// displaced coordinates are offset by scale times the node translation.
// A non-positive scale picks one that makes the largest displacement a
// tenth of the model size.
func Scene(cm *model.ConversionModel, rs *model.ResultSet, scale float64) diagram.Scene {
	s := diagram.Scene{Title: "Structural model", Scale: 1}

	translation := func(id int) r3.Vec {
		if rs == nil {
			return r3.Vec{}
		}
		return rs.Nodes[id].Translation()
	}

	if rs != nil {
		s.Deformed = true
		s.Title = "Displaced shape"
		for _, id := range cm.NodeIDs() {
			s.MaxDisp = math.Max(s.MaxDisp, r3.Norm(translation(id)))
		}
		s.Scale = scale
		if scale <= 0 {
			s.Scale = AutoScale(cm, s.MaxDisp)
		}
	}

	displaced := func(id int) r3.Vec {
		return r3.Add(cm.Nodes[id].Coord, r3.Scale(s.Scale, translation(id)))
	}
	magnitude := func(ids []int) float64 {
		var m float64
		for _, id := range ids {
			m = math.Max(m, r3.Norm(translation(id)))
		}
		return m
	}

	for _, id := range cm.ElementIDs() {
		el := cm.Elements[id]
		if el.Kind.IsLinear() {
			a, b := el.Nodes[0], el.Nodes[1]
			s.Segments = append(s.Segments, diagram.Segment{
				Element:   id,
				From:      cm.Nodes[a].Coord,
				To:        cm.Nodes[b].Coord,
				DispFrom:  displaced(a),
				DispTo:    displaced(b),
				Magnitude: magnitude(el.Nodes),
			})
			continue
		}
		poly := diagram.Polygon{Element: id, Magnitude: magnitude(el.Nodes)}
		for _, n := range el.Nodes {
			poly.Points = append(poly.Points, cm.Nodes[n].Coord)
			poly.Displaced = append(poly.Displaced, displaced(n))
		}
		s.Polygons = append(s.Polygons, poly)
	}

	for _, bc := range cm.BoundaryConditions {
		s.Supports = append(s.Supports, cm.Nodes[bc.Node].Coord)
	}
	return s
}

// AutoScale returns the factor that draws maxDisp at a tenth of the
// model's largest dimension
func AutoScale(cm *model.ConversionModel, maxDisp float64) float64 {
	if maxDisp == 0 || len(cm.Nodes) == 0 {
		return 1
	}
	lo := r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := r3.Scale(-1, lo)
	for _, n := range cm.Nodes {
		lo = r3.Vec{X: math.Min(lo.X, n.Coord.X), Y: math.Min(lo.Y, n.Coord.Y), Z: math.Min(lo.Z, n.Coord.Z)}
		hi = r3.Vec{X: math.Max(hi.X, n.Coord.X), Y: math.Max(hi.Y, n.Coord.Y), Z: math.Max(hi.Z, n.Coord.Z)}
	}
	size := math.Max(hi.X-lo.X, math.Max(hi.Y-lo.Y, hi.Z-lo.Z))
	if size == 0 {
		return 1
	}
	return 0.1 * size / maxDisp
}

// Magnitudes returns translation magnitudes in ascending node order
func Magnitudes(rs *model.ResultSet) ([]int, []float64) {
	ids := make([]int, 0, len(rs.Nodes))
	for id := range rs.Nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	mags := make([]float64, len(ids))
	for i, id := range ids {
		mags[i] = r3.Norm(rs.Nodes[id].Translation())
	}
	return ids, mags
}
