package section

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rectangleSection(b, h float64, clockwise bool) *Section {
	v := []Point{{0, 0}, {b, 0}, {b, h}, {0, h}}
	if clockwise {
		v = []Point{{0, 0}, {0, h}, {b, h}, {b, 0}}
	}
	return &Section{Name: "rect", Vertices: v}
}

func TestCalculateProperties(t *testing.T) {
	for _, cw := range []bool{false, true} {
		props := rectangleSection(0.2, 0.4, cw).CalculateProperties()

		assert.InDelta(t, 0.08, props.Area, 1e-12)
		assert.InDelta(t, 0.1, props.CentroidX, 1e-12)
		assert.InDelta(t, 0.2, props.CentroidY, 1e-12)
		assert.InDelta(t, 0.2*0.4*0.4*0.4/12, props.Ix, 1e-12)
		assert.InDelta(t, 0.4*0.2*0.2*0.2/12, props.Iy, 1e-12)
		assert.InDelta(t, 0, props.Ixy, 1e-12)
		assert.InDelta(t, 0.2, props.Width, 1e-12)
		assert.InDelta(t, 0.4, props.Height, 1e-12)
		assert.Greater(t, props.J, 0.0)
	}
}

func TestCalculatePropertiesTSection(t *testing.T) {
	// 600 wide flange 100 deep on a 300 wide web 400 deep
	s := &Section{Vertices: []Point{
		{0, 0}, {300, 0}, {300, 400}, {600, 400}, {600, 500}, {-300, 500}, {-300, 400}, {0, 400},
	}}
	props := s.CalculateProperties()

	assert.InDelta(t, 300*400+900*100, props.Area, 1e-6)
	yc := (300*400*200.0 + 900*100*450.0) / (300*400 + 900*100)
	assert.InDelta(t, yc, props.CentroidY, 1e-6)
	assert.InDelta(t, 150, props.CentroidX, 1e-6)
}

func TestValidate(t *testing.T) {
	assert.Error(t, (&Section{Vertices: []Point{{0, 0}, {1, 0}}}).Validate())
	assert.Error(t, (&Section{Vertices: []Point{{0, 0}, {1, 0}, {2, 0}}}).Validate())
	assert.NoError(t, rectangleSection(1, 1, false).Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "section.json")
	data := `{"name": "Box", "vertices": [{"x": 0, "y": 0}, {"x": 2, "y": 0}, {"x": 2, "y": 1}, {"x": 0, "y": 1}]}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	s, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Box", s.Name)
	assert.InDelta(t, 2, s.CalculateProperties().Area, 1e-12)

	_, err = LoadFromFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"vertices": []}`), 0o644))
	_, err = LoadFromFile(bad)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}
