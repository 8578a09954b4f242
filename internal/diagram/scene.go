package diagram

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Segment is a linear element with its original and displaced end points
type Segment struct {
	Element   int
	From, To  r3.Vec
	DispFrom  r3.Vec
	DispTo    r3.Vec
	Magnitude float64 // largest end translation, unscaled
}

// Polygon is an area element with its original and displaced boundary
type Polygon struct {
	Element   int
	Points    []r3.Vec
	Displaced []r3.Vec
	Magnitude float64
}

// Scene is everything a renderer needs to draw a model and its deformed
// shape. Displaced coordinates already include the scale factor.
type Scene struct {
	Title    string
	Segments []Segment
	Polygons []Polygon
	Supports []r3.Vec
	Scale    float64
	MaxDisp  float64
	Deformed bool
}

// View selects the projection plane
type View int

const (
	Isometric View = iota
	Plan
	FrontElevation
	SideElevation
)

// ParseView accepts iso, plan, front and side
func ParseView(s string) (View, bool) {
	switch s {
	case "iso", "isometric", "":
		return Isometric, true
	case "plan", "xy", "top":
		return Plan, true
	case "front", "xz":
		return FrontElevation, true
	case "side", "yz":
		return SideElevation, true
	}
	return Isometric, false
}

func (v View) String() string {
	switch v {
	case Plan:
		return "plan"
	case FrontElevation:
		return "front"
	case SideElevation:
		return "side"
	default:
		return "iso"
	}
}

// Project maps a model point onto the view plane
func (v View) Project(p r3.Vec) Point {
	switch v {
	case Plan:
		return Point{X: p.X, Y: p.Y}
	case FrontElevation:
		return Point{X: p.X, Y: p.Z}
	case SideElevation:
		return Point{X: p.Y, Y: p.Z}
	default:
		c, s := math.Cos(math.Pi/6), math.Sin(math.Pi/6)
		return Point{X: (p.X - p.Y) * c, Y: p.Z + (p.X+p.Y)*s}
	}
}

// Point represents a 2D coordinate on the drawing plane
type Point struct {
	X float64
	Y float64
}

// Bounds returns the projected extent of every drawn point
func (s Scene) Bounds(v View) (minP, maxP Point, ok bool) {
	first := true
	visit := func(p r3.Vec) {
		q := v.Project(p)
		if first {
			minP, maxP, first = q, q, false
			return
		}
		minP.X, minP.Y = math.Min(minP.X, q.X), math.Min(minP.Y, q.Y)
		maxP.X, maxP.Y = math.Max(maxP.X, q.X), math.Max(maxP.Y, q.Y)
	}
	for _, seg := range s.Segments {
		visit(seg.From)
		visit(seg.To)
		if s.Deformed {
			visit(seg.DispFrom)
			visit(seg.DispTo)
		}
	}
	for _, poly := range s.Polygons {
		for _, p := range poly.Points {
			visit(p)
		}
		if s.Deformed {
			for _, p := range poly.Displaced {
				visit(p)
			}
		}
	}
	return minP, maxP, !first
}
