package section

import (
	"math"
	"testing"

	"github.com/alexiusacademia/ifcfem/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestFromProfile(t *testing.T) {
	tests := []struct {
		name    string
		profile model.Profile
		want    FrameProperties
	}{
		{
			name:    "rectangle",
			profile: model.Profile{Kind: model.RectangleProfile, XDim: 0.2, YDim: 0.4},
			want: FrameProperties{
				A:  0.08,
				Iy: 0.2 * 0.064 / 12,
				Iz: 0.008 * 0.4 / 12,
				J:  0.4 * 0.008 * (1.0/3.0 - 0.21*0.5*(1-0.0625/12)),
			},
		},
		{
			name:    "square",
			profile: model.Profile{Kind: model.RectangleProfile, XDim: 0.3, YDim: 0.3},
			want: FrameProperties{
				A:  0.09,
				Iy: math.Pow(0.3, 4) / 12,
				Iz: math.Pow(0.3, 4) / 12,
				J:  9 * math.Pow(0.3, 4) / 64,
			},
		},
		{
			name:    "circle",
			profile: model.Profile{Kind: model.CircleProfile, Radius: 0.1},
			want: FrameProperties{
				A:  math.Pi * 0.01,
				Iy: math.Pi * 1e-4 / 4,
				Iz: math.Pi * 1e-4 / 4,
				J:  math.Pi * 1e-4 / 2,
			},
		},
		{
			name:    "ishape",
			profile: model.Profile{Kind: model.IShapeProfile, OverallWidth: 0.2, OverallDepth: 0.4, WebThickness: 0.01, FlangeThickness: 0.02},
			want: FrameProperties{
				A:  0.2*0.4 - 0.36*0.19,
				Iy: 0.2*0.064/12 - 0.19*math.Pow(0.36, 3)/12,
				Iz: 0.36*1e-6/12 + 0.02*0.008/6,
				J:  (2*0.2*8e-6 + 0.36*1e-6) / 3,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromProfile(tt.profile)
			require.True(t, ok)
			assert.InDelta(t, tt.want.A, got.A, 1e-12)
			assert.InDelta(t, tt.want.Iy, got.Iy, 1e-12)
			assert.InDelta(t, tt.want.Iz, got.Iz, 1e-12)
			assert.InDelta(t, tt.want.J, got.J, 1e-12)
		})
	}
}

func TestFromProfileHollow(t *testing.T) {
	box, ok := FromProfile(model.Profile{Kind: model.RectangleProfile, XDim: 0.2, YDim: 0.2, WallThickness: 0.01})
	require.True(t, ok)
	assert.InDelta(t, 0.04-0.18*0.18, box.A, 1e-12)
	assert.InDelta(t, 2*0.01*math.Pow(0.19, 4)/0.38, box.J, 1e-12)

	tube, ok := FromProfile(model.Profile{Kind: model.CircleProfile, Radius: 0.1, WallThickness: 0.01})
	require.True(t, ok)
	assert.InDelta(t, math.Pi*(0.01-0.0081), tube.A, 1e-12)
}

func TestFromProfileArbitrary(t *testing.T) {
	p := model.Profile{Kind: model.ArbitraryProfile, Outline: []r3.Vec{{X: -0.1, Y: -0.2}, {X: 0.1, Y: -0.2}, {X: 0.1, Y: 0.2}, {X: -0.1, Y: 0.2}}}
	got, ok := FromProfile(p)
	require.True(t, ok)
	assert.InDelta(t, 0.08, got.A, 1e-12)
	assert.InDelta(t, 0.2*0.064/12, got.Iy, 1e-12)
	assert.InDelta(t, 0.4*0.008/12, got.Iz, 1e-12)
}

func TestFromProfileUnusable(t *testing.T) {
	for _, p := range []model.Profile{
		{Kind: model.NoProfile},
		{Kind: model.RectangleProfile, XDim: 0, YDim: 1},
		{Kind: model.CircleProfile},
		{Kind: model.IShapeProfile, OverallWidth: 0.2, OverallDepth: 0.04, WebThickness: 0.01, FlangeThickness: 0.02},
		{Kind: model.ArbitraryProfile, Outline: []r3.Vec{{X: 0}, {X: 1}}},
	} {
		_, ok := FromProfile(p)
		assert.False(t, ok, "Expected %s profile to be rejected", p.Kind)
	}
}
