package linear

import (
	"testing"

	"github.com/alexiusacademia/ifcfem/internal/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	e  = 200e9
	g  = 80e9
	iy = 2e-4
	iz = 5e-5
)

// cantilever builds a beam along global X fixed at x = 0
func cantilever(t *testing.T, length float64, load [3]float64) *solver.Model {
	t.Helper()
	m := solver.NewModel()
	require.NoError(t, m.Material(solver.MaterialDef{Tag: 1, E: e, G: g}))
	require.NoError(t, m.Section(solver.SectionDef{Tag: 1, Material: 1, A: 0.01, Iy: iy, Iz: iz, J: 1e-5}))
	require.NoError(t, m.Node(solver.NodeDef{Tag: 1}))
	require.NoError(t, m.Node(solver.NodeDef{Tag: 2, Coord: [3]float64{length, 0, 0}}))
	require.NoError(t, m.Element(solver.ElementDef{
		Tag: 1, Type: solver.ElasticBeamColumn, Nodes: []int{1, 2}, Section: 1, Orientation: [3]float64{0, 0, 1},
	}))
	require.NoError(t, m.Fix(solver.FixDef{Node: 1, DOF: [6]int{1, 1, 1, 1, 1, 1}}))
	require.NoError(t, m.Load(solver.LoadDef{Element: 1, Type: solver.BeamUniform, Values: load}))
	return m
}

func TestCantileverUniformLoad(t *testing.T) {
	const (
		l = 3.0
		w = 10e3
	)

	out, err := Analyze(cantilever(t, l, [3]float64{0, 0, -w}))
	require.NoError(t, err)

	tip := out.Displacements[1]
	assert.InDelta(t, -w*l*l*l*l/(8*e*iy), tip[2], 1e-9)
	assert.InDelta(t, w*l*l*l/(6*e*iy), tip[4], 1e-9)
	assert.InDelta(t, 0, tip[1], 1e-12)

	base := out.Reactions[0]
	assert.InDelta(t, w*l, base[2], 1e-6)
	assert.InDelta(t, -w*l*l/2, base[4], 1e-6)
	assert.Equal(t, make([]float64, 6), out.Displacements[0])
	assert.Equal(t, make([]float64, 6), out.Reactions[1])
}

func TestCantileverWeakAxis(t *testing.T) {
	const (
		l = 2.0
		w = 1e3
	)

	out, err := Analyze(cantilever(t, l, [3]float64{0, w, 0}))
	require.NoError(t, err)
	assert.InDelta(t, w*l*l*l*l/(8*e*iz), out.Displacements[1][1], 1e-9)
}

func TestEndForces(t *testing.T) {
	const (
		l = 4.0
		w = 5e3
	)

	out, err := Analyze(cantilever(t, l, [3]float64{0, 0, -w}))
	require.NoError(t, err)
	require.Len(t, out.ElementForces, 1)

	f := out.ElementForces[0]
	// Shear and moment at the fixed end, free end unloaded
	assert.InDelta(t, w*l, f[2], 1e-6)
	assert.InDelta(t, 0, f[8], 1e-6)
	assert.InDelta(t, 0, f[10], 1e-6)
}

func TestShellsAreSkipped(t *testing.T) {
	m := solver.NewModel()
	require.NoError(t, m.Material(solver.MaterialDef{Tag: 1, E: e, G: g}))
	require.NoError(t, m.Section(solver.SectionDef{Tag: 1, Material: 1, Shell: true, Thickness: 0.2}))
	for i, c := range [][3]float64{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}} {
		require.NoError(t, m.Node(solver.NodeDef{Tag: i + 1, Coord: c}))
	}
	require.NoError(t, m.Element(solver.ElementDef{Tag: 4, Type: solver.Shell, Nodes: []int{1, 2, 3}, Section: 1}))

	out, err := Analyze(m)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, out.Unsupported)
	assert.Len(t, out.Displacements, 3)
	assert.Equal(t, make([]float64, 12), out.ElementForces[0])
}

func TestUnstable(t *testing.T) {
	m := cantilever(t, 3, [3]float64{0, 0, -1})
	delete(m.Fixes, 1)

	_, err := Analyze(m)
	assert.ErrorIs(t, err, ErrUnstable)
}
