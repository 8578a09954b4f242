package section

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogue(t *testing.T) {
	tests := []struct {
		name     string
		category string
		family   string
		e        float64
	}{
		{"S355 Steel", "", "steel", 200e9},
		{"Beam material", "Steel", "steel", 200e9},
		{"Aluminum 6061", "", "aluminium", 73.1e9},
		{"Glulam GL24h", "", "timber", 13.1e9},
		{"Concrete C30/37", "", "concrete", 4700 * math.Sqrt(30) * 1e6},
		{"Concrete f'c = 21", "", "concrete", 4700 * math.Sqrt(21) * 1e6},
		{"Ready mix", "Concrete", "concrete", 4700 * math.Sqrt(28) * 1e6},
		{"Beton 35 MPa", "", "concrete", 4700 * math.Sqrt(35) * 1e6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Catalogue(tt.name, tt.category)
			require.True(t, ok)
			assert.Equal(t, tt.family, got.Family)
			assert.InDelta(t, tt.e, got.E, 1)
			assert.InDelta(t, got.E/(2*(1+got.Nu)), got.G(), 1e-6)
		})
	}

	_, ok := Catalogue("Unobtainium", "")
	assert.False(t, ok)
}
