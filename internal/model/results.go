package model

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"
)

// NodeResult holds solver output for one node
type NodeResult struct {
	ID           int             `json:"id"`
	Coord        r3.Vec          `json:"coord"`
	Displacement [NumDOF]float64 `json:"displacement"`
	Reaction     [NumDOF]float64 `json:"reaction"`
}

// Translation returns the translational part of the displacement
func (n NodeResult) Translation() r3.Vec {
	return r3.Vec{X: n.Displacement[UX], Y: n.Displacement[UY], Z: n.Displacement[UZ]}
}

// ElementResult holds solver output for one element
type ElementResult struct {
	ID     int       `json:"id"`
	Forces []float64 `json:"forces"`
}

// ResultSet is the result record of a run, keyed by the same identifiers
// as the ConversionModel
type ResultSet struct {
	RunID    uuid.UUID             `json:"run_id"`
	Nodes    map[int]NodeResult    `json:"nodes"`
	Elements map[int]ElementResult `json:"elements"`
}
