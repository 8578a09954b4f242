package diagram

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func portalScene(deformed bool) Scene {
	s := Scene{
		Title: "Portal",
		Segments: []Segment{
			{Element: 1, From: r3.Vec{}, To: r3.Vec{Z: 3}, DispFrom: r3.Vec{}, DispTo: r3.Vec{X: 0.2, Z: 3}, Magnitude: 0.002},
			{Element: 2, From: r3.Vec{Z: 3}, To: r3.Vec{X: 4, Z: 3}, DispFrom: r3.Vec{X: 0.2, Z: 3}, DispTo: r3.Vec{X: 4.2, Z: 2.8}, Magnitude: 0.004},
			{Element: 3, From: r3.Vec{X: 4}, To: r3.Vec{X: 4, Z: 3}, DispFrom: r3.Vec{X: 4}, DispTo: r3.Vec{X: 4.2, Z: 2.8}, Magnitude: 0.004},
		},
		Polygons: []Polygon{{
			Element:   4,
			Points:    []r3.Vec{{Z: 3}, {X: 4, Z: 3}, {X: 4, Y: 3, Z: 3}, {Y: 3, Z: 3}},
			Displaced: []r3.Vec{{Z: 3}, {X: 4, Z: 3}, {X: 4, Y: 3, Z: 3}, {Y: 3, Z: 3}},
		}},
		Supports: []r3.Vec{{}, {X: 4}},
		Scale:    100,
		MaxDisp:  0.004,
		Deformed: deformed,
	}
	return s
}

func TestParseView(t *testing.T) {
	tests := []struct {
		in   string
		want View
		ok   bool
	}{
		{"", Isometric, true},
		{"plan", Plan, true},
		{"xz", FrontElevation, true},
		{"side", SideElevation, true},
		{"bogus", Isometric, false},
	}
	for _, tt := range tests {
		v, ok := ParseView(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, v, tt.in)
	}
}

func TestProject(t *testing.T) {
	p := r3.Vec{X: 1, Y: 2, Z: 3}
	assert.Equal(t, Point{X: 1, Y: 2}, Plan.Project(p))
	assert.Equal(t, Point{X: 1, Y: 3}, FrontElevation.Project(p))
	assert.Equal(t, Point{X: 2, Y: 3}, SideElevation.Project(p))
	assert.Equal(t, Isometric.Project(r3.Vec{Z: 1}), Point{Y: 1})
}

func TestBounds(t *testing.T) {
	minP, maxP, ok := portalScene(false).Bounds(FrontElevation)
	require.True(t, ok)
	assert.Equal(t, Point{X: 0, Y: 0}, minP)
	assert.Equal(t, Point{X: 4, Y: 3}, maxP)

	_, maxP, _ = portalScene(true).Bounds(FrontElevation)
	assert.Equal(t, 4.2, maxP.X)

	_, _, ok = Scene{}.Bounds(Plan)
	assert.False(t, ok)
}

func TestDrawASCIIModel(t *testing.T) {
	out := DrawASCIIModel(portalScene(true), FrontElevation, 40, 12)

	assert.Contains(t, out, "Portal")
	assert.Contains(t, out, "front view")
	assert.Contains(t, out, string(supportGlyph))
	assert.Contains(t, out, string(deformedGlyph))
	assert.Contains(t, out, string(nodeGlyph))

	lines := strings.Split(out, "\n")
	var framed int
	for _, l := range lines {
		if strings.HasPrefix(l, "  │") {
			framed++
			assert.Equal(t, 40+2, len([]rune(strings.TrimPrefix(l, "  "))))
		}
	}
	assert.Equal(t, 12, framed)
}

func TestDrawDisplacementChart(t *testing.T) {
	assert.Empty(t, DrawDisplacementChart(nil, "none"))
	out := DrawDisplacementChart([]float64{0, 0.001, 0.004, 0.002}, "|u| per node")
	assert.Contains(t, out, "|u| per node")
	assert.NotEmpty(t, DrawDisplacementChart([]float64{0.5}, "single"))
}

func TestDrawSummaryBox(t *testing.T) {
	out := DrawSummaryBox("Run", []string{"Nodes: 4", "Elements: 3"})
	assert.Contains(t, out, "║  Run")
	assert.Equal(t, 6, strings.Count(out, "\n"))
}

func TestHeat(t *testing.T) {
	assert.Equal(t, uint8(255), Heat(1).R)
	assert.Equal(t, uint8(255), Heat(0).B)
	assert.Equal(t, Heat(0), Heat(-3))
	assert.Equal(t, Heat(1), Heat(7))
}

func TestExportModel(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"model.png", "deformed.svg", "nested/plan"} {
		path := filepath.Join(dir, name)
		require.NoError(t, ExportModel(portalScene(name != "model.png"), path, Plan))
		if filepath.Ext(path) == "" {
			path += ".png"
		}
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}

	assert.Error(t, ExportModel(Scene{}, filepath.Join(dir, "empty.png"), Plan))
}

func TestExportDisplacementPlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disp.png")
	require.NoError(t, ExportDisplacementPlot("Displacements", []int{1, 2, 3}, []float64{0, 1e-3, 4e-3}, path))
	_, err := os.Stat(path)
	assert.NoError(t, err)

	assert.Error(t, ExportDisplacementPlot("bad", []int{1}, nil, path))
}
